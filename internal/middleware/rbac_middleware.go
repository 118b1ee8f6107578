package middleware

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	"go-hrms/internal/domain"
	"go-hrms/internal/rbac"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"
)

// Authorize gates a route on an rbac capability. Runs after Auth.
func Authorize(enforcer *casbin.Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := RoleFromContext(c)
		if role == "" {
			abortUnauthorized(c)
			return
		}

		allowed, err := rbac.Can(enforcer, domain.EnforceRequest{
			Role:     role,
			Resource: resource,
			Action:   action,
		})
		if err != nil || !allowed {
			httpErr := apperror.ToHTTP(apperror.ErrForbidden)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
