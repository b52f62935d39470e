package dto

type TopLaborEntryDTO struct {
	TicketID          uint    `json:"ticket_id"`
	TicketDescription string  `json:"ticket_description"`
	TopMechanic       string  `json:"top_mechanic"`
	TotalHoursLogged  float64 `json:"total_hours_logged"`
}

type MechanicTicketCountDTO struct {
	MechanicID      uint   `json:"mechanic_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	TicketsWorkedOn int    `json:"tickets_worked_on"`
}
