package models

import "time"

// Post references its author by id only; the reference survives a soft-deleted
// user and is not cascade-removed.
type Post struct {
	ID     int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Title  string `gorm:"column:title;not null;uniqueIndex"`
	Body   string `gorm:"column:body;not null"`
	UserID int64  `gorm:"column:user_id;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
