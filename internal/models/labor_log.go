package models

import "time"

type LaborLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TicketID   uint `gorm:"not null" json:"ticket_id"`
	MechanicID uint `gorm:"not null" json:"mechanic_id"`

	Mechanic Mechanic `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"mechanic,omitempty"`

	HoursWorked float64   `gorm:"not null" json:"hours_worked"`
	DateLogged  time.Time `gorm:"not null" json:"date_logged"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
