package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/redlineautoworks/mechanic-shop/internal/cache"
	"github.com/redlineautoworks/mechanic-shop/internal/httperr"
	"github.com/redlineautoworks/mechanic-shop/internal/httpresp"
	"github.com/redlineautoworks/mechanic-shop/internal/middleware"
	"github.com/redlineautoworks/mechanic-shop/internal/models"
	ucLabor "github.com/redlineautoworks/mechanic-shop/internal/usecase/labor"
	ucTicket "github.com/redlineautoworks/mechanic-shop/internal/usecase/ticket"
)

const serviceDateLayout = "2006-01-02"

type TicketHandler struct {
	db    *gorm.DB
	cache *cache.Cache

	createUC        *ucTicket.CreateTicket
	updateUC        *ucTicket.UpdateTicket
	deleteUC        *ucTicket.DeleteTicket
	assignUC        *ucTicket.AssignMechanic
	unassignUC      *ucTicket.UnassignMechanic
	editMechanicsUC *ucTicket.EditMechanics

	logLaborUC    *ucLabor.LogLabor
	updateLaborUC *ucLabor.UpdateLabor
	deleteLaborUC *ucLabor.DeleteLabor
}

func NewTicketHandler(
	db *gorm.DB,
	ch *cache.Cache,
	createUC *ucTicket.CreateTicket,
	updateUC *ucTicket.UpdateTicket,
	deleteUC *ucTicket.DeleteTicket,
	assignUC *ucTicket.AssignMechanic,
	unassignUC *ucTicket.UnassignMechanic,
	editMechanicsUC *ucTicket.EditMechanics,
	logLaborUC *ucLabor.LogLabor,
	updateLaborUC *ucLabor.UpdateLabor,
	deleteLaborUC *ucLabor.DeleteLabor,
) *TicketHandler {
	return &TicketHandler{
		db:              db,
		cache:           ch,
		createUC:        createUC,
		updateUC:        updateUC,
		deleteUC:        deleteUC,
		assignUC:        assignUC,
		unassignUC:      unassignUC,
		editMechanicsUC: editMechanicsUC,
		logLaborUC:      logLaborUC,
		updateLaborUC:   updateLaborUC,
		deleteLaborUC:   deleteLaborUC,
	}
}

// invalidateTicket drops the cached list and the per-ticket entry after any
// write that touches the ticket aggregate, mirroring the inventory handler.
func (h *TicketHandler) invalidateTicket(ctx context.Context, id uint) {
	h.cache.Invalidate(ctx, "tickets:all", fmt.Sprintf("tickets:%d", id))
}

// --------- Requests ---------

type CreateTicketRequest struct {
	ServiceDate string `json:"service_date" binding:"required"`
	Description string `json:"description" binding:"required"`
	VIN         string `json:"vin" binding:"required"`
}

type UpdateTicketRequest struct {
	ServiceDate *string `json:"service_date,omitempty"`
	Description *string `json:"description,omitempty"`
	VIN         *string `json:"vin,omitempty"`
	Status      *string `json:"status,omitempty"`
}

type EditMechanicsRequest struct {
	AddMechanicIDs    []uint `json:"add_mechanic_ids"`
	RemoveMechanicIDs []uint `json:"remove_mechanic_ids"`
}

type LogLaborRequest struct {
	MechanicID  *uint    `json:"mechanic_id" binding:"required"`
	HoursWorked *float64 `json:"hours_worked" binding:"required"`
}

type UpdateLaborRequest struct {
	HoursWorked *float64 `json:"hours_worked" binding:"required"`
}

// --------- Ticket CRUD ---------

func (h *TicketHandler) Create(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	serviceDate, err := time.Parse(serviceDateLayout, req.ServiceDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_date", "service_date must be YYYY-MM-DD.")
		return
	}

	t, err := h.createUC.Execute(c.Request.Context(), principal.Customer, ucTicket.CreateTicketInput{
		ServiceDate: serviceDate,
		Description: req.Description,
		VIN:         req.VIN,
	})
	if err != nil {
		if !writeBusinessError(c, err) {
			httperr.Internal(c, "failed_to_create_ticket", "Could not create the service ticket.")
		}
		return
	}

	h.invalidateTicket(c.Request.Context(), t.ID)
	httpresp.Created(c, t)
}

func (h *TicketHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	paginated := c.Query("page") != ""

	const key = "tickets:all"
	if !paginated {
		var cached []models.ServiceTicket
		if h.cache.GetJSON(ctx, key, &cached) {
			httpresp.List(c, cached)
			return
		}
	}

	var tickets []models.ServiceTicket
	if err := paginate(c, h.db).
		Preload("Mechanics").
		Preload("LaborLogs").
		Order("id ASC").
		Find(&tickets).Error; err != nil {
		httperr.Internal(c, "failed_to_list_tickets", "Could not list service tickets.")
		return
	}

	if !paginated {
		h.cache.SetJSON(ctx, key, tickets, 15*time.Second)
	}
	httpresp.List(c, tickets)
}

func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Ticket id must be an integer.")
		return
	}

	ctx := c.Request.Context()
	key := fmt.Sprintf("tickets:%d", id)

	var cached models.ServiceTicket
	if h.cache.GetJSON(ctx, key, &cached) {
		httpresp.OK(c, cached)
		return
	}

	var t models.ServiceTicket
	if err := h.db.
		Preload("Customer").
		Preload("Mechanics").
		Preload("Parts").
		Preload("LaborLogs").
		First(&t, id).Error; err != nil {
		httperr.NotFound(c, httperr.CodeTicketNotFound, "Service ticket not found.")
		return
	}

	h.cache.SetJSON(ctx, key, t, 30*time.Second)
	httpresp.OK(c, t)
}

func (h *TicketHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Ticket id must be an integer.")
		return
	}

	principal := middleware.PrincipalFrom(c)

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	in := ucTicket.UpdateTicketInput{
		Description: req.Description,
		VIN:         req.VIN,
		Status:      req.Status,
	}
	if req.ServiceDate != nil {
		serviceDate, err := time.Parse(serviceDateLayout, *req.ServiceDate)
		if err != nil {
			httperr.BadRequest(c, "invalid_service_date", "service_date must be YYYY-MM-DD.")
			return
		}
		in.ServiceDate = &serviceDate
	}

	t, err := h.updateUC.Execute(c.Request.Context(), principal.Customer, id, in)
	if err != nil {
		if !writeBusinessError(c, err) {
			httperr.Internal(c, "failed_to_update_ticket", "Could not update the service ticket.")
		}
		return
	}

	h.invalidateTicket(c.Request.Context(), t.ID)
	httpresp.OK(c, t)
}

func (h *TicketHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Ticket id must be an integer.")
		return
	}

	principal := middleware.PrincipalFrom(c)

	if err := h.deleteUC.Execute(c.Request.Context(), principal.Customer, id); err != nil {
		if !writeBusinessError(c, err) {
			httperr.Internal(c, "failed_to_delete_ticket", "Could not delete the service ticket.")
		}
		return
	}

	h.invalidateTicket(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Service ticket with id %d has been deleted.", id),
	})
}

// --------- Mechanic assignment ---------

func (h *TicketHandler) AssignMechanic(c *gin.Context) {
	ticketID, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Ticket id must be an integer.")
		return
	}
	mechanicID, ok := paramID(c, "mechanic_id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Mechanic id must be an integer.")
		return
	}

	principal := middleware.PrincipalFrom(c)

	mechanic, assigned, err := h.assignUC.Execute(c.Request.Context(), principal.Mechanic, ticketID, mechanicID)
	if err != nil {
		if !writeBusinessError(c, err) {
			httperr.Internal(c, "failed_to_assign_mechanic", "Could not assign the mechanic.")
		}
		return
	}

	if !assigned {
		c.JSON(http.StatusOK, gin.H{"message": "Mechanic already assigned to this ticket"})
		return
	}
	h.invalidateTicket(c.Request.Context(), ticketID)
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Mechanic %s assigned to ticket %d", mechanic.Name, ticketID),
	})
}

func (h *TicketHandler) RemoveMechanic(c *gin.Context) {
	ticketID, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Ticket id must be an integer.")
		return
	}
	mechanicID, ok := paramID(c, "mechanic_id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Mechanic id must be an integer.")
		return
	}

	principal := middleware.PrincipalFrom(c)

	mechanic, err := h.unassignUC.Execute(c.Request.Context(), principal.Mechanic, ticketID, mechanicID)
	if err != nil {
		// Removal of a never-assigned mechanic is a 404 on this route.
		if httperr.IsBusiness(err, httperr.CodeNotAssigned) {
			httperr.NotFound(c, httperr.CodeNotAssigned, "Mechanic is not assigned to this ticket.")
			return
		}
		if !writeBusinessError(c, err) {
			httperr.Internal(c, "failed_to_remove_mechanic", "Could not remove the mechanic.")
		}
		return
	}

	h.invalidateTicket(c.Request.Context(), ticketID)
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Mechanic %s removed from ticket %d", mechanic.Name, ticketID),
	})
}

func (h *TicketHandler) EditMechanics(c *gin.Context) {
	ticketID, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Ticket id must be an integer.")
		return
	}

	principal := middleware.PrincipalFrom(c)

	var req EditMechanicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	err := h.editMechanicsUC.Execute(c.Request.Context(), principal.Customer, ticketID, ucTicket.EditMechanicsInput{
		AddMechanicIDs:    req.AddMechanicIDs,
		RemoveMechanicIDs: req.RemoveMechanicIDs,
	})
	if err != nil {
		if !writeBusinessError(c, err) {
			httperr.Internal(c, "failed_to_edit_mechanics", "Could not edit the ticket's mechanics.")
		}
		return
	}

	h.invalidateTicket(c.Request.Context(), ticketID)

	var t models.ServiceTicket
	if err := h.db.Preload("Mechanics").First(&t, ticketID).Error; err != nil {
		httperr.Internal(c, "failed_to_load_ticket", "Could not load the updated ticket.")
		return
	}
	httpresp.OK(c, t)
}

// --------- Labor logs ---------

func (h *TicketHandler) AddLabor(c *gin.Context) {
	ticketID, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Ticket id must be an integer.")
		return
	}

	principal := middleware.PrincipalFrom(c)

	var req LogLaborRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Request must include mechanic_id and hours_worked.")
		return
	}

	log, err := h.logLaborUC.Execute(c.Request.Context(), principal.Mechanic, ticketID, ucLabor.LogLaborInput{
		MechanicID:  *req.MechanicID,
		HoursWorked: *req.HoursWorked,
	})
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeForbidden) {
			httperr.Forbidden(c, httperr.CodeForbidden, "You can only log hours for yourself.")
			return
		}
		if !writeBusinessError(c, err) {
			httperr.Internal(c, "failed_to_log_labor", "Could not log the labor hours.")
		}
		return
	}

	h.invalidateTicket(c.Request.Context(), ticketID)
	httpresp.Created(c, log)
}

func (h *TicketHandler) UpdateLabor(c *gin.Context) {
	logID, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Labor log id must be an integer.")
		return
	}

	principal := middleware.PrincipalFrom(c)

	var req UpdateLaborRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Request must include hours_worked.")
		return
	}

	log, err := h.updateLaborUC.Execute(c.Request.Context(), principal.Mechanic, logID, *req.HoursWorked)
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeForbidden) {
			httperr.Forbidden(c, httperr.CodeForbidden, "You are not authorized to update this labor log.")
			return
		}
		if !writeBusinessError(c, err) {
			httperr.Internal(c, "failed_to_update_labor", "Could not update the labor log.")
		}
		return
	}

	h.invalidateTicket(c.Request.Context(), log.TicketID)
	httpresp.OK(c, log)
}

func (h *TicketHandler) DeleteLabor(c *gin.Context) {
	logID, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Labor log id must be an integer.")
		return
	}

	principal := middleware.PrincipalFrom(c)

	ticketID, err := h.deleteLaborUC.Execute(c.Request.Context(), principal.Mechanic, logID)
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeForbidden) {
			httperr.Forbidden(c, httperr.CodeForbidden, "You are not authorized to delete this labor log.")
			return
		}
		if !writeBusinessError(c, err) {
			httperr.Internal(c, "failed_to_delete_labor", "Could not delete the labor log.")
		}
		return
	}

	h.invalidateTicket(c.Request.Context(), ticketID)
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Labor log with id %d has been deleted.", logID),
	})
}
