package models

import "time"

type Mechanic struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string  `gorm:"size:100;not null" json:"name"`
	Email        string  `gorm:"size:360;uniqueIndex;not null" json:"email"`
	Phone        string  `gorm:"size:100;not null" json:"phone"`
	PasswordHash string  `gorm:"size:255;not null" json:"-"`
	Salary       float64 `gorm:"not null" json:"salary"`

	ServiceTickets []ServiceTicket `gorm:"many2many:ticket_mechanics" json:"service_tickets,omitempty"`
	LaborLogs      []LaborLog      `gorm:"foreignKey:MechanicID" json:"labor_logs,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
