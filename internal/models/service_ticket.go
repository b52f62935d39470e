package models

import "time"

type ServiceTicket struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Immutable after creation; always the authenticated customer.
	CustomerID uint     `gorm:"not null" json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"customer,omitempty"`

	ServiceDate time.Time `gorm:"not null" json:"service_date"`
	Description string    `gorm:"size:500;not null" json:"description"`
	VIN         string    `gorm:"size:17;uniqueIndex;not null" json:"vin"`

	// Free-form label; "Open", "In Progress" and "Completed" are the
	// recognized values but no transition graph is enforced.
	Status string `gorm:"size:50;default:'Open'" json:"status"`

	DateCompleted *time.Time `json:"date_completed"`

	Mechanics []Mechanic `gorm:"many2many:ticket_mechanics" json:"mechanics,omitempty"`
	Parts     []Part     `gorm:"many2many:ticket_parts" json:"parts,omitempty"`
	LaborLogs []LaborLog `gorm:"foreignKey:TicketID" json:"labor_logs,omitempty"`

	CreatedAt time.Time `json:"date_created"`
	UpdatedAt time.Time `json:"updated_at"`
}
