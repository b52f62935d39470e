package report

import (
	"context"

	domain "github.com/redlineautoworks/mechanic-shop/internal/domain/report"
	"github.com/redlineautoworks/mechanic-shop/internal/dto"
)

type TopLaborPerTicket struct {
	repo domain.Repository
}

func NewTopLaborPerTicket(repo domain.Repository) *TopLaborPerTicket {
	return &TopLaborPerTicket{repo: repo}
}

// Execute picks, for every ticket with at least one labor log, the mechanic
// with the highest summed hours. Ties keep the mechanic whose log appeared
// first, so the result is deterministic for a fixed log order. Tickets with
// no logs are omitted.
func (uc *TopLaborPerTicket) Execute(ctx context.Context) ([]dto.TopLaborEntryDTO, error) {
	tickets, err := uc.repo.ListTicketsWithLabor(ctx)
	if err != nil {
		return nil, err
	}

	report := make([]dto.TopLaborEntryDTO, 0, len(tickets))

	for _, t := range tickets {
		if len(t.LaborLogs) == 0 {
			continue
		}

		hours := make(map[string]float64, len(t.LaborLogs))
		var firstSeen []string
		for _, log := range t.LaborLogs {
			name := log.Mechanic.Name
			if _, ok := hours[name]; !ok {
				firstSeen = append(firstSeen, name)
			}
			hours[name] += log.HoursWorked
		}

		top := firstSeen[0]
		for _, name := range firstSeen[1:] {
			// Strict comparison keeps the first-seen mechanic on a tie.
			if hours[name] > hours[top] {
				top = name
			}
		}

		report = append(report, dto.TopLaborEntryDTO{
			TicketID:          t.ID,
			TicketDescription: t.Description,
			TopMechanic:       top,
			TotalHoursLogged:  hours[top],
		})
	}

	return report, nil
}
