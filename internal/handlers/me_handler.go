package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/redlineautoworks/mechanic-shop/internal/auth"
	"github.com/redlineautoworks/mechanic-shop/internal/middleware"
)

type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

// GetMe returns the profile behind the presented token, shaped by role.
func (h *MeHandler) GetMe(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	switch principal.Role {
	case auth.RoleCustomer:
		cu := principal.Customer
		c.JSON(http.StatusOK, gin.H{
			"role": string(principal.Role),
			"profile": gin.H{
				"id":    cu.ID,
				"name":  cu.Name,
				"email": cu.Email,
				"phone": cu.Phone,
			},
		})
	case auth.RoleMechanic:
		m := principal.Mechanic
		c.JSON(http.StatusOK, gin.H{
			"role": string(principal.Role),
			"profile": gin.H{
				"id":     m.ID,
				"name":   m.Name,
				"email":  m.Email,
				"phone":  m.Phone,
				"salary": m.Salary,
			},
		})
	default:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "principal_not_in_context"})
	}
}
