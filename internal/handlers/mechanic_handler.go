package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/redlineautoworks/mechanic-shop/internal/auth"
	"github.com/redlineautoworks/mechanic-shop/internal/httperr"
	"github.com/redlineautoworks/mechanic-shop/internal/httpresp"
	"github.com/redlineautoworks/mechanic-shop/internal/middleware"
	"github.com/redlineautoworks/mechanic-shop/internal/models"
	"github.com/redlineautoworks/mechanic-shop/internal/validators"
)

type MechanicHandler struct {
	db   *gorm.DB
	auth *auth.Service
}

func NewMechanicHandler(db *gorm.DB, authSvc *auth.Service) *MechanicHandler {
	return &MechanicHandler{db: db, auth: authSvc}
}

// --------- Requests ---------

type RegisterMechanicRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    string  `json:"phone" binding:"required"`
	Password string  `json:"password" binding:"required,min=6"`
	Salary   float64 `json:"salary" binding:"required"`
}

type UpdateMechanicRequest struct {
	Name     *string  `json:"name,omitempty"`
	Email    *string  `json:"email,omitempty"`
	Phone    *string  `json:"phone,omitempty"`
	Password *string  `json:"password,omitempty"`
	Salary   *float64 `json:"salary,omitempty"`
}

// --------- Handlers ---------

func (h *MechanicHandler) Register(c *gin.Context) {
	var req RegisterMechanicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !validators.IsEmailValid(email) {
		httperr.BadRequest(c, "invalid_email", "The email address does not look valid.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not process the password.")
		return
	}

	mechanic := models.Mechanic{
		Name:         req.Name,
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: string(hashed),
		Salary:       req.Salary,
	}

	if err := h.db.Create(&mechanic).Error; err != nil {
		if !writeBusinessError(c, translateDuplicateEmail(err)) {
			httperr.Internal(c, "failed_to_create_mechanic", "Could not create mechanic.")
		}
		return
	}

	httpresp.Created(c, mechanic)
}

func (h *MechanicHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var mechanic models.Mechanic
	err := h.db.Where("email = ?", validators.NormalizeEmail(req.Email)).
		First(&mechanic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}
		httperr.Internal(c, "internal_error", "Could not log in.")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(mechanic.PasswordHash), []byte(req.Password)) != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, err := h.auth.IssueToken(mechanic.ID, auth.RoleMechanic)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not generate a token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    "Successfully Logged In",
		"auth_token": token,
	})
}

func (h *MechanicHandler) List(c *gin.Context) {
	var mechanics []models.Mechanic
	if err := paginate(c, h.db).Order("id ASC").Find(&mechanics).Error; err != nil {
		httperr.Internal(c, "failed_to_list_mechanics", "Could not list mechanics.")
		return
	}
	httpresp.List(c, mechanics)
}

func (h *MechanicHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Mechanic id must be an integer.")
		return
	}

	var mechanic models.Mechanic
	if err := h.db.First(&mechanic, id).Error; err != nil {
		httperr.NotFound(c, httperr.CodeMechanicNotFound, "Mechanic not found.")
		return
	}
	httpresp.OK(c, mechanic)
}

func (h *MechanicHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Mechanic id must be an integer.")
		return
	}

	var mechanic models.Mechanic
	if err := h.db.First(&mechanic, id).Error; err != nil {
		httperr.NotFound(c, httperr.CodeMechanicNotFound, "Mechanic not found.")
		return
	}

	var req UpdateMechanicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		mechanic.Name = *req.Name
	}
	if req.Email != nil {
		email := validators.NormalizeEmail(*req.Email)
		if !validators.IsEmailValid(email) {
			httperr.BadRequest(c, "invalid_email", "The email address does not look valid.")
			return
		}
		mechanic.Email = email
	}
	if req.Phone != nil {
		mechanic.Phone = *req.Phone
	}
	if req.Salary != nil {
		mechanic.Salary = *req.Salary
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			httperr.Internal(c, "failed_to_hash_password", "Could not process the password.")
			return
		}
		mechanic.PasswordHash = string(hashed)
	}

	if err := h.db.Save(&mechanic).Error; err != nil {
		if !writeBusinessError(c, translateDuplicateEmail(err)) {
			httperr.Internal(c, "failed_to_update_mechanic", "Could not update mechanic.")
		}
		return
	}
	httpresp.OK(c, mechanic)
}

// Delete refuses to remove a mechanic that still has labor logs or assigned
// tickets; those must be reassigned or removed first.
func (h *MechanicHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Mechanic id must be an integer.")
		return
	}

	var mechanic models.Mechanic
	if err := h.db.First(&mechanic, id).Error; err != nil {
		httperr.NotFound(c, httperr.CodeMechanicNotFound, "Mechanic not found.")
		return
	}

	var logCount int64
	if err := h.db.Model(&models.LaborLog{}).
		Where("mechanic_id = ?", id).
		Count(&logCount).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_mechanic", "Could not delete mechanic.")
		return
	}
	if logCount > 0 {
		writeBusinessError(c, httperr.ErrBusiness(httperr.CodeMechanicHasLogs))
		return
	}

	ticketCount := h.db.Model(&mechanic).Association("ServiceTickets").Count()
	if ticketCount > 0 {
		writeBusinessError(c, httperr.ErrBusiness(httperr.CodeMechanicHasTickets))
		return
	}

	if err := h.db.Delete(&mechanic).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_mechanic", "Could not delete mechanic.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Mechanic deleted successfully."})
}

// MyServiceTickets lists the tickets the authenticated mechanic is assigned
// to. Mechanics may only view their own ticket list.
func (h *MechanicHandler) MyServiceTickets(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Mechanic id must be an integer.")
		return
	}

	principal := middleware.PrincipalFrom(c)
	if principal.Mechanic.ID != id {
		httperr.Forbidden(c, httperr.CodeForbidden, "You can only view your own service tickets.")
		return
	}

	var mechanic models.Mechanic
	if err := h.db.
		Preload("ServiceTickets").
		Preload("ServiceTickets.Customer").
		Preload("ServiceTickets.LaborLogs").
		First(&mechanic, id).Error; err != nil {
		httperr.NotFound(c, httperr.CodeMechanicNotFound, "Mechanic not found.")
		return
	}

	httpresp.List(c, mechanic.ServiceTickets)
}
