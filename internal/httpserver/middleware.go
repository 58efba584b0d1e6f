package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shopassist-backend/internal/domain"
)

const (
	userKey        = "authUser"
	requesterIDKey = "requesterID"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// authRequired rejects requests without a resolvable user.
func authRequired(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "Access token required")
			c.Abort()
			return
		}
		u, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}
		c.Set(userKey, u)
		c.Set(requesterIDKey, u.ID)
		c.Next()
	}
}

// authOptional resolves the user when a valid token is present and otherwise
// continues as guest.
func authOptional(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(requesterIDKey, domain.GuestUserID)
		if token := bearerToken(c); token != "" {
			if u, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(userKey, u)
				c.Set(requesterIDKey, u.ID)
			}
		}
		c.Next()
	}
}

// adminOnly gates administrative routes behind a shared key. With no key
// configured the route is left open.
func adminOnly(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key != "" && c.GetHeader("X-Admin-Key") != key {
			respondError(c, http.StatusUnauthorized, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

func requesterID(c *gin.Context) string {
	if v, ok := c.Get(requesterIDKey); ok {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}
	return domain.GuestUserID
}
