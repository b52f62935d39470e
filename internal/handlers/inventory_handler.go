package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/redlineautoworks/mechanic-shop/internal/cache"
	"github.com/redlineautoworks/mechanic-shop/internal/httperr"
	"github.com/redlineautoworks/mechanic-shop/internal/httpresp"
	"github.com/redlineautoworks/mechanic-shop/internal/models"
	ucInventory "github.com/redlineautoworks/mechanic-shop/internal/usecase/inventory"
	ucTicket "github.com/redlineautoworks/mechanic-shop/internal/usecase/ticket"
)

type InventoryHandler struct {
	db    *gorm.DB
	cache *cache.Cache

	removeStockUC *ucInventory.RemoveStock
	deletePartUC  *ucInventory.DeletePart
	attachPartUC  *ucTicket.AttachPart
}

func NewInventoryHandler(
	db *gorm.DB,
	ch *cache.Cache,
	removeStockUC *ucInventory.RemoveStock,
	deletePartUC *ucInventory.DeletePart,
	attachPartUC *ucTicket.AttachPart,
) *InventoryHandler {
	return &InventoryHandler{
		db:            db,
		cache:         ch,
		removeStockUC: removeStockUC,
		deletePartUC:  deletePartUC,
		attachPartUC:  attachPartUC,
	}
}

type CreatePartRequest struct {
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description"`
	Price           *float64 `json:"price" binding:"required"`
	QuantityInStock *int     `json:"quantity_in_stock" binding:"required"`
}

type UpdatePartRequest struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	QuantityInStock *int     `json:"quantity_in_stock,omitempty"`
}

type RemoveStockRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var req CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		httperr.BadRequest(c, httperr.CodeValidation, "Part name is required.")
		return
	}
	if *req.Price <= 0 {
		httperr.BadRequest(c, httperr.CodeValidation, "Price must be greater than zero.")
		return
	}
	if *req.QuantityInStock < 0 {
		httperr.BadRequest(c, httperr.CodeValidation, "quantity_in_stock cannot be negative.")
		return
	}

	part := models.Part{
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Price:           *req.Price,
		QuantityInStock: *req.QuantityInStock,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&part).Error; err != nil {
		httperr.Internal(c, "failed_to_create_part", "Could not create the inventory part.")
		return
	}

	h.cache.Invalidate(c.Request.Context(), "inventory:all")
	httpresp.Created(c, part)
}

func (h *InventoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	paginated := c.Query("page") != ""

	const key = "inventory:all"
	if !paginated {
		var cached []models.Part
		if h.cache.GetJSON(ctx, key, &cached) {
			httpresp.List(c, cached)
			return
		}
	}

	var parts []models.Part
	if err := paginate(c, h.db).Order("id ASC").Find(&parts).Error; err != nil {
		httperr.Internal(c, "failed_to_list_parts", "Could not list inventory parts.")
		return
	}

	if !paginated {
		h.cache.SetJSON(ctx, key, parts, 60*time.Second)
	}
	httpresp.List(c, parts)
}

func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Part id must be an integer.")
		return
	}

	var part models.Part
	if err := h.db.First(&part, id).Error; err != nil {
		httperr.NotFound(c, httperr.CodePartNotFound, "Inventory part not found.")
		return
	}
	httpresp.OK(c, part)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Part id must be an integer.")
		return
	}

	var req UpdatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var part models.Part
	if err := h.db.First(&part, id).Error; err != nil {
		httperr.NotFound(c, httperr.CodePartNotFound, "Inventory part not found.")
		return
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			httperr.BadRequest(c, httperr.CodeValidation, "Part name cannot be empty.")
			return
		}
		part.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		part.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			httperr.BadRequest(c, httperr.CodeValidation, "Price must be greater than zero.")
			return
		}
		part.Price = *req.Price
	}
	if req.QuantityInStock != nil {
		if *req.QuantityInStock < 0 {
			httperr.BadRequest(c, httperr.CodeValidation, "quantity_in_stock cannot be negative.")
			return
		}
		part.QuantityInStock = *req.QuantityInStock
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&part).Error; err != nil {
		httperr.Internal(c, "failed_to_update_part", "Could not update the inventory part.")
		return
	}

	h.cache.Invalidate(c.Request.Context(), "inventory:all")
	httpresp.OK(c, part)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Part id must be an integer.")
		return
	}

	part, err := h.deletePartUC.Execute(c.Request.Context(), id)
	if err != nil {
		if !writeBusinessError(c, err) {
			httperr.Internal(c, "failed_to_delete_part", "Could not delete the inventory part.")
		}
		return
	}

	h.cache.Invalidate(c.Request.Context(), "inventory:all")
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Part %s has been deleted.", part.Name),
	})
}

func (h *InventoryHandler) RemoveStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Part id must be an integer.")
		return
	}

	var req RemoveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Request must include quantity.")
		return
	}

	part, newQty, err := h.removeStockUC.Execute(c.Request.Context(), id, *req.Quantity)
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeInsufficientStock) {
			// Echo the current stock so the caller can see what is left.
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code":        httperr.CodeInsufficientStock,
				"message":           "Not enough stock to remove the requested quantity.",
				"quantity_in_stock": part.QuantityInStock,
			})
			return
		}
		if !writeBusinessError(c, err) {
			httperr.Internal(c, "failed_to_remove_stock", "Could not remove stock.")
		}
		return
	}

	h.cache.Invalidate(c.Request.Context(), "inventory:all")
	c.JSON(http.StatusOK, gin.H{
		"message":           fmt.Sprintf("Removed %d from stock of %s", *req.Quantity, part.Name),
		"quantity_in_stock": newQty,
	})
}

func (h *InventoryHandler) AddToTicket(c *gin.Context) {
	partID, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Part id must be an integer.")
		return
	}
	ticketID, ok := paramID(c, "ticket_id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Ticket id must be an integer.")
		return
	}

	part, attached, err := h.attachPartUC.Execute(c.Request.Context(), ticketID, partID)
	if err != nil {
		if !writeBusinessError(c, err) {
			httperr.Internal(c, "failed_to_add_part", "Could not add the part to the ticket.")
		}
		return
	}

	// Attaching consumes stock and grows the ticket's parts list, so both
	// aggregates' cached reads go stale.
	h.cache.Invalidate(c.Request.Context(), "inventory:all", "tickets:all", fmt.Sprintf("tickets:%d", ticketID))
	if !attached {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Part %s is already on ticket %d", part.Name, ticketID),
		})
		return
	}
	// The read preceded the decrement; one unit was consumed.
	c.JSON(http.StatusOK, gin.H{
		"message":           fmt.Sprintf("Part %s added to ticket %d", part.Name, ticketID),
		"quantity_in_stock": part.QuantityInStock - 1,
	})
}
