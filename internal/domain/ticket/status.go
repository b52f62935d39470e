package ticket

import (
	"time"

	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

// ===============================
// Ticket Status
// ===============================

// Status is a free-form label. The values below are the recognized ones, but
// no transition graph is enforced: a ticket may move between any labels.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

func InitialStatus() Status {
	return StatusOpen
}

// ApplyStatus stores the new label and keeps date_completed in sync with the
// "Completed" label.
func ApplyStatus(t *models.ServiceTicket, status string, now time.Time) {
	t.Status = status

	if Status(status) == StatusCompleted {
		if t.DateCompleted == nil {
			t.DateCompleted = &now
		}
		return
	}
	t.DateCompleted = nil
}
