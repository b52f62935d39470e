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

type CustomerHandler struct {
	db   *gorm.DB
	auth *auth.Service
}

func NewCustomerHandler(db *gorm.DB, authSvc *auth.Service) *CustomerHandler {
	return &CustomerHandler{db: db, auth: authSvc}
}

// --------- Requests ---------

type RegisterCustomerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdateCustomerRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Password *string `json:"password,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *CustomerHandler) Register(c *gin.Context) {
	var req RegisterCustomerRequest
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

	customer := models.Customer{
		Name:         req.Name,
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: string(hashed),
	}

	if err := h.db.Create(&customer).Error; err != nil {
		if !writeBusinessError(c, translateDuplicateEmail(err)) {
			httperr.Internal(c, "failed_to_create_customer", "Could not create customer.")
		}
		return
	}

	httpresp.Created(c, customer)
}

func (h *CustomerHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var customer models.Customer
	err := h.db.Where("email = ?", validators.NormalizeEmail(req.Email)).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}
		httperr.Internal(c, "internal_error", "Could not log in.")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(req.Password)) != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, err := h.auth.IssueToken(customer.ID, auth.RoleCustomer)
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

func (h *CustomerHandler) List(c *gin.Context) {
	var customers []models.Customer
	if err := paginate(c, h.db).Order("id ASC").Find(&customers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_customers", "Could not list customers.")
		return
	}
	httpresp.List(c, customers)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Customer id must be an integer.")
		return
	}

	var customer models.Customer
	if err := h.db.First(&customer, id).Error; err != nil {
		httperr.NotFound(c, httperr.CodeCustomerNotFound, "Customer not found.")
		return
	}
	httpresp.OK(c, customer)
}

// Update patches the caller's own record; customers cannot edit each other.
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Customer id must be an integer.")
		return
	}

	principal := middleware.PrincipalFrom(c)
	if principal.Customer.ID != id {
		httperr.Forbidden(c, httperr.CodeForbidden, "You can only update your own account.")
		return
	}

	var customer models.Customer
	if err := h.db.First(&customer, id).Error; err != nil {
		httperr.NotFound(c, httperr.CodeCustomerNotFound, "Customer not found.")
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		email := validators.NormalizeEmail(*req.Email)
		if !validators.IsEmailValid(email) {
			httperr.BadRequest(c, "invalid_email", "The email address does not look valid.")
			return
		}
		customer.Email = email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			httperr.Internal(c, "failed_to_hash_password", "Could not process the password.")
			return
		}
		customer.PasswordHash = string(hashed)
	}

	if err := h.db.Save(&customer).Error; err != nil {
		if !writeBusinessError(c, translateDuplicateEmail(err)) {
			httperr.Internal(c, "failed_to_update_customer", "Could not update customer.")
		}
		return
	}
	httpresp.OK(c, customer)
}

// Delete removes the caller's own account, but only while it has no
// dependent service tickets.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Customer id must be an integer.")
		return
	}

	principal := middleware.PrincipalFrom(c)
	if principal.Customer.ID != id {
		httperr.Forbidden(c, httperr.CodeForbidden, "You can only delete your own account.")
		return
	}

	var customer models.Customer
	if err := h.db.First(&customer, id).Error; err != nil {
		httperr.NotFound(c, httperr.CodeCustomerNotFound, "Customer not found.")
		return
	}

	var ticketCount int64
	if err := h.db.Model(&models.ServiceTicket{}).
		Where("customer_id = ?", id).
		Count(&ticketCount).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_customer", "Could not delete customer.")
		return
	}
	if ticketCount > 0 {
		writeBusinessError(c, httperr.ErrBusiness(httperr.CodeCustomerHasTickets))
		return
	}

	if err := h.db.Delete(&customer).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_customer", "Could not delete customer.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully."})
}

func (h *CustomerHandler) Search(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		httperr.BadRequest(c, "missing_name", "A 'name' query parameter is required.")
		return
	}

	var customers []models.Customer
	if err := h.db.Where("name LIKE ?", "%"+name+"%").
		Order("id ASC").
		Find(&customers).Error; err != nil {
		httperr.Internal(c, "failed_to_search_customers", "Could not search customers.")
		return
	}
	httpresp.List(c, customers)
}

func (h *CustomerHandler) MyTickets(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	var tickets []models.ServiceTicket
	if err := h.db.
		Preload("Mechanics").
		Preload("LaborLogs").
		Where("customer_id = ?", principal.Customer.ID).
		Order("id ASC").
		Find(&tickets).Error; err != nil {
		httperr.Internal(c, "failed_to_list_tickets", "Could not list your tickets.")
		return
	}
	httpresp.List(c, tickets)
}
