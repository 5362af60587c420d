package models

import "time"

// Company belongs to exactly one user.
type Company struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      int64  `gorm:"column:user_id;not null;uniqueIndex"`
	Name        string `gorm:"column:name"`
	CatchPhrase string `gorm:"column:catch_phrase"`
	BS          string `gorm:"column:bs"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
