package middleware

import (
	"net/http"

	domainUser "freight-operations/internal/domain/user"
	"freight-operations/pkg/utils"

	"github.com/gin-gonic/gin"
)

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.ErrorResponse(c, http.StatusForbidden, "Role not found in context")
			c.Abort()
			return
		}

		userRole := role.(string)

		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				c.Next()
				return
			}
		}

		utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
		c.Abort()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RoleMiddleware(domainUser.RoleAdmin)
}

// OperationsOrAdmin guards routes that create or change shipments
func OperationsOrAdmin() gin.HandlerFunc {
	return RoleMiddleware(domainUser.RoleAdmin, domainUser.RoleOperations)
}

// FinanceOrAdmin guards routes exposing commercial figures
func FinanceOrAdmin() gin.HandlerFunc {
	return RoleMiddleware(domainUser.RoleAdmin, domainUser.RoleFinance)
}
