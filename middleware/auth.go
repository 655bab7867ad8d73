// File: middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"lanmomo-web/logger"
	"lanmomo-web/models"
)

// -------------- authentication middleware --------------

// AuthRequired blocks visitors that are not logged in upstream with a 401
// JSON error. Must run after LoadVisitor.
// Usage:
//
//	profile := router.Group("/profile", AuthRequired)
func AuthRequired(c *gin.Context) {
	visitor, ok := CurrentVisitor(c)
	if !ok || !visitor.Session.IsLoggedIn() {
		logger.Warn.Printf("[AuthRequired] Anonymous request to %s", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewAPIError(http.StatusUnauthorized, "login required"))
		return
	}

	logger.Debug.Println("[AuthRequired] Visitor authenticated - proceeding with request")
	c.Next()
}
