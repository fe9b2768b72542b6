package middleware

import (
	"net/http"
	"strings"

	"jobbee-api/internal/config"
	"jobbee-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// AuthMiddleware authenticates the session token carried either in the
// session cookie or in a Bearer authorization header.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Login first to access this resource")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(token, cfg.JWT.Secret)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}

	return ""
}
