package models

import "time"

// Address belongs to exactly one user and is removed with it. Lat/Lng are kept
// as strings so coordinates round-trip without float precision loss.
type Address struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement"`
	UserID  int64  `gorm:"column:user_id;not null;uniqueIndex"`
	Street  string `gorm:"column:street"`
	Suite   string `gorm:"column:suite"`
	City    string `gorm:"column:city"`
	Zipcode string `gorm:"column:zipcode"`
	Lat     string `gorm:"column:lat"`
	Lng     string `gorm:"column:lng"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
