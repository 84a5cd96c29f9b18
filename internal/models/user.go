package models

import "time"

type User struct {
	ID             uint `gorm:"primarykey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string `gorm:"uniqueIndex;not null"`
	Password       string `gorm:"not null" json:"-"`
	Role           string `gorm:"not null;default:'user'"`
	OrganizationID uint   `gorm:"index;not null"`
}
