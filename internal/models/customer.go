package models

import "time"

type Customer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:360;uniqueIndex;not null" json:"email"`
	Phone        string `gorm:"size:100;not null" json:"phone"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	ServiceTickets []ServiceTicket `gorm:"foreignKey:CustomerID" json:"service_tickets,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
