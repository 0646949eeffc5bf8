package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-tracker/internal/auth"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/ratelimit"
)

const (
	ctxUserID = "userID"
	ctxEmail  = "email"

	devTokenPrefix = "dev-token-"
)

// AuthRequired accepts a session token in the Authorization header. With dev
// auth enabled any token starting with dev-token- maps to the development
// user.
func AuthRequired(sessions *auth.SessionIssuer, devAuth bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}

		if devAuth && strings.HasPrefix(token, devTokenPrefix) {
			c.Set(ctxUserID, models.DevUserID)
			c.Set(ctxEmail, models.DevUserEmail)
			c.Next()
			return
		}

		claims, err := sessions.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Next()
	}
}

// RateLimit keys on the authenticated user, or the client IP when there is
// none. A nil limiter disables limiting.
func RateLimit(l ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		key := c.GetString(ctxUserID)
		if key == "" {
			key = c.ClientIP()
		}
		if !l.Allow(c.Request.Context(), key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many AI requests, please try again later"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
