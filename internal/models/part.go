package models

import "time"

type Part struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:500" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`

	// Never negative; every mutation goes through a guarded UPDATE or a
	// row lock inside a transaction.
	QuantityInStock int `gorm:"not null" json:"quantity_in_stock"`

	ServiceTickets []ServiceTicket `gorm:"many2many:ticket_parts" json:"service_tickets,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
