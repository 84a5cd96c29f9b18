package models

import "time"

// Organization is the tenant boundary. Every document, case, client and task
// belongs to exactly one organization.
type Organization struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
