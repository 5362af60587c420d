package models

import "time"

// User is the canonical identity record. Password is storage-only and never
// serialized; Deleted is a soft-delete marker, not row removal.
type User struct {
	ID       int64    `gorm:"column:id;primaryKey;autoIncrement"`
	Email    string   `gorm:"column:email;not null;uniqueIndex"`
	Username string   `gorm:"column:username;not null;uniqueIndex"`
	Name     string   `gorm:"column:name;not null"`
	Phone    string   `gorm:"column:phone"`
	Website  string   `gorm:"column:website"`
	Password string   `gorm:"column:password;not null;default:''"`
	Deleted  bool     `gorm:"column:deleted;not null;default:false"`
	Address  *Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Company  *Company `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Posts    []Post   `gorm:"foreignKey:UserID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
