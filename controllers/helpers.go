// Package controllers holds the browser-facing gin handlers. Each one relays
// to the upstream API on behalf of the current visitor.
// file: controllers/helpers.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"lanmomo-web/logger"
	"lanmomo-web/middleware"
	"lanmomo-web/models"
	"lanmomo-web/services"
)

// visitorOrAbort fetches the current visitor, answering 500 when the visitor
// middleware did not run.
func visitorOrAbort(c *gin.Context) (*services.Visitor, bool) {
	visitor, ok := middleware.CurrentVisitor(c)
	if !ok {
		logger.Error.Printf("[visitorOrAbort] No visitor on %s; is LoadVisitor installed?", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.NewAPIError(http.StatusInternalServerError, ""))
		return nil, false
	}
	return visitor, true
}

// respondError answers with the {message, status} record of err.
func respondError(c *gin.Context, err error) {
	apiErr := models.AsAPIError(err)
	c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
}

// bindJSON decodes and validates the request body into v.
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		respondError(c, models.NewAPIError(http.StatusBadRequest, "invalid request body"))
		return false
	}
	if err := models.Validate(v); err != nil {
		respondError(c, err)
		return false
	}
	return true
}
