// Package controllers controllers/signup_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"lanmomo-web/logger"
	"lanmomo-web/models"
)

// SignupController relays account creation.
type SignupController struct{}

// NewSignupController creates an instance of SignupController
func NewSignupController() *SignupController {
	return &SignupController{}
}

// Signup forwards the new account. The upstream sends the verification mail.
func (sc *SignupController) Signup(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	var req models.SignupRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := visitor.API.Signup(c.Request.Context(), req)
	if err != nil {
		logger.Warn.Printf("[SignupController.Signup] Signup failed for %s: %v", req.Username, err)
		respondError(c, err)
		return
	}
	logger.Info.Printf("[SignupController.Signup] Account %s created, awaiting verification", req.Username)
	c.JSON(http.StatusOK, msg)
}

// Has reports whether a username or e-mail is still free.
func (sc *SignupController) Has(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	field := c.Param("field")
	if field != "username" && field != "email" {
		respondError(c, models.NewAPIError(http.StatusNotFound, "unknown field"))
		return
	}
	var req availabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": checkAvailable(c.Request.Context(), visitor.API, field, req.Value)})
}
