package report

import (
	"context"
	"sort"

	domain "github.com/redlineautoworks/mechanic-shop/internal/domain/report"
	"github.com/redlineautoworks/mechanic-shop/internal/dto"
)

type MechanicsByTicketCount struct {
	repo domain.Repository
}

func NewMechanicsByTicketCount(repo domain.Repository) *MechanicsByTicketCount {
	return &MechanicsByTicketCount{repo: repo}
}

// Execute ranks mechanics by the number of tickets they are assigned to,
// descending. The stable sort keeps mechanics with equal counts in their
// natural id order.
func (uc *MechanicsByTicketCount) Execute(ctx context.Context) ([]dto.MechanicTicketCountDTO, error) {
	mechanics, err := uc.repo.ListMechanicsWithTickets(ctx)
	if err != nil {
		return nil, err
	}

	report := make([]dto.MechanicTicketCountDTO, 0, len(mechanics))
	for _, m := range mechanics {
		report = append(report, dto.MechanicTicketCountDTO{
			MechanicID:      m.ID,
			Name:            m.Name,
			Email:           m.Email,
			TicketsWorkedOn: len(m.ServiceTickets),
		})
	}

	sort.SliceStable(report, func(i, j int) bool {
		return report[i].TicketsWorkedOn > report[j].TicketsWorkedOn
	})

	return report, nil
}
