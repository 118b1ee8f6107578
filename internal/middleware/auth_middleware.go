package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/response"
)

const (
	ContextRoleKey = "role"
)

// Claims is the token payload. Subject carries the employee id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth validates the bearer token and threads the caller identity into
// the request context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c)
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims := &Claims{}

		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			abortUnauthorized(c)
			return
		}

		ctx := contextutil.WithUserID(c.Request.Context(), claims.Subject)
		c.Request = c.Request.WithContext(ctx)
		c.Set(ContextRoleKey, claims.Role)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	httpErr := apperror.ToHTTP(apperror.ErrUnauthorized)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
	c.Abort()
}

// RoleFromContext returns the authenticated caller's role, empty when the
// request is anonymous.
func RoleFromContext(c *gin.Context) string {
	role, _ := c.Get(ContextRoleKey)
	roleStr, _ := role.(string)
	return roleStr
}
