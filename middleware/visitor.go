// Package middleware provides request filters shared by the browser-facing routes.
// File: middleware/visitor.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"lanmomo-web/logger"
	"lanmomo-web/models"
	"lanmomo-web/services"
)

const (
	visitorSessionKey = "visitor"
	visitorContextKey = "visitor"
)

// LoadVisitor finds (or creates) the visitor named by the session cookie and
// stores it in the gin context.
// Usage:
//
//	router.Use(sessions.Sessions("lanmomo", store), LoadVisitor(registry))
func LoadVisitor(registry *services.VisitorRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, _ := session.Get(visitorSessionKey).(string)

		visitor := registry.GetOrCreate(id)
		if visitor.ID != id {
			session.Set(visitorSessionKey, visitor.ID)
			if err := session.Save(); err != nil {
				logger.Error.Printf("[LoadVisitor] Failed to save session: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, models.NewAPIError(http.StatusInternalServerError, "session unavailable"))
				return
			}
			logger.Debug.Printf("[LoadVisitor] Assigned visitor=%s", visitor.ID)
		}

		c.Set(visitorContextKey, visitor)
		c.Next()
	}
}

// CurrentVisitor returns the visitor loaded by LoadVisitor.
func CurrentVisitor(c *gin.Context) (*services.Visitor, bool) {
	v, ok := c.Get(visitorContextKey)
	if !ok {
		return nil, false
	}
	visitor, ok := v.(*services.Visitor)
	return visitor, ok
}
