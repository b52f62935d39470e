package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/redlineautoworks/mechanic-shop/internal/cache"
	"github.com/redlineautoworks/mechanic-shop/internal/dto"
	"github.com/redlineautoworks/mechanic-shop/internal/httperr"
	"github.com/redlineautoworks/mechanic-shop/internal/httpresp"
	ucReport "github.com/redlineautoworks/mechanic-shop/internal/usecase/report"
)

const reportCacheTTL = 60 * time.Second

type ReportHandler struct {
	cache *cache.Cache

	topLaborUC    *ucReport.TopLaborPerTicket
	mostTicketsUC *ucReport.MechanicsByTicketCount
}

func NewReportHandler(
	ch *cache.Cache,
	topLaborUC *ucReport.TopLaborPerTicket,
	mostTicketsUC *ucReport.MechanicsByTicketCount,
) *ReportHandler {
	return &ReportHandler{
		cache:         ch,
		topLaborUC:    topLaborUC,
		mostTicketsUC: mostTicketsUC,
	}
}

// TopLaborByTicket reports, per ticket, the mechanic with the most hours
// logged on it.
func (h *ReportHandler) TopLaborByTicket(c *gin.Context) {
	ctx := c.Request.Context()

	const key = "reports:top_labor_by_ticket"
	var cached []dto.TopLaborEntryDTO
	if h.cache.GetJSON(ctx, key, &cached) {
		httpresp.List(c, cached)
		return
	}

	entries, err := h.topLaborUC.Execute(ctx)
	if err != nil {
		httperr.Internal(c, "failed_to_build_report", "Could not build the labor report.")
		return
	}

	h.cache.SetJSON(ctx, key, entries, reportCacheTTL)
	httpresp.List(c, entries)
}

// MostTicketsWorked reports all mechanics ordered by the number of tickets
// they have worked on, descending.
func (h *ReportHandler) MostTicketsWorked(c *gin.Context) {
	ctx := c.Request.Context()

	const key = "reports:most_tickets_worked"
	var cached []dto.MechanicTicketCountDTO
	if h.cache.GetJSON(ctx, key, &cached) {
		httpresp.List(c, cached)
		return
	}

	entries, err := h.mostTicketsUC.Execute(ctx)
	if err != nil {
		httperr.Internal(c, "failed_to_build_report", "Could not build the mechanics report.")
		return
	}

	h.cache.SetJSON(ctx, key, entries, reportCacheTTL)
	httpresp.List(c, entries)
}
