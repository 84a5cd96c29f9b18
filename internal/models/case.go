package models

import "time"

type Case struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	OrganizationID uint      `gorm:"index;not null" json:"organization_id"`
	ClientID       *uint     `gorm:"index" json:"client_id,omitempty"`
	CaseNumber     string    `gorm:"index" json:"case_number"`
	Title          string    `json:"title"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Case) TableName() string {
	return "cases"
}
