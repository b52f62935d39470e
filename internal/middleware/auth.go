package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/redlineautoworks/mechanic-shop/internal/auth"
)

const ContextPrincipal = "principal"

// RequireRoles verifies the Authorization header against the given allowed
// role set and stores the resolved principal on the context. One primitive
// serves every protected route; the role set is the only parameter.
func RequireRoles(svc *auth.Service, roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := svc.Verify(c.Request.Context(), c.GetHeader("Authorization"), roles...)
		if err != nil {
			status := http.StatusUnauthorized
			code := "invalid_token"
			switch {
			case errors.Is(err, auth.ErrMalformedHeader):
				code = "invalid_authorization_header"
			case errors.Is(err, auth.ErrExpired):
				code = "token_expired"
			case errors.Is(err, auth.ErrPrincipalNotFound):
				code = "principal_not_found"
			case errors.Is(err, auth.ErrRoleMismatch):
				status = http.StatusForbidden
				code = "role_not_allowed"
			}
			c.AbortWithStatusJSON(status, gin.H{"error": code})
			return
		}

		c.Set(ContextPrincipal, principal)
		c.Next()
	}
}

// PrincipalFrom returns the principal placed on the context by RequireRoles.
func PrincipalFrom(c *gin.Context) *auth.Principal {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return nil
	}
	p, _ := v.(*auth.Principal)
	return p
}
