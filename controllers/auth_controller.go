// Package controllers controllers/auth_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"lanmomo-web/logger"
	"lanmomo-web/models"
)

// Messages shown after following a verification link.
const (
	verifyCreatedMessage = "Your account has been created! You can now log in."
	verifyExistsMessage  = "Your account was already created. You can log in."
	verifyFailedMessage  = "An error occurred while confirming your account. Please contact info@lanmomo.org!"
)

// AuthController relays session operations and keeps the visitor's auth
// flag in step with the upstream.
type AuthController struct{}

// NewAuthController creates an instance of AuthController
func NewAuthController() *AuthController {
	return &AuthController{}
}

// sessionBody is what the browser gets back for any session call.
func sessionBody(loggedIn bool, commit string) gin.H {
	return gin.H{
		"logged_in": loggedIn,
		"staging":   commit != "",
		"commit":    commit,
	}
}

// Session refreshes the auth flag from GET /api/login. Upstream failures
// answer logged out rather than an error.
func (ac *AuthController) Session(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	if err := visitor.Session.Refresh(c.Request.Context(), visitor.API); err != nil {
		logger.Warn.Printf("[AuthController.Session] visitor=%s treated as logged out: %v", visitor.ID, err)
	}
	c.JSON(http.StatusOK, sessionBody(visitor.Session.IsLoggedIn(), visitor.Session.Commit()))
}

// Login forwards the credentials, then flips the flag.
func (ac *AuthController) Login(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := visitor.API.Login(c.Request.Context(), req); err != nil {
		logger.Warn.Printf("[AuthController.Login] Login failed for visitor=%s: %v", visitor.ID, err)
		respondError(c, err)
		return
	}
	visitor.Session.Login()
	logger.Info.Printf("[AuthController.Login] visitor=%s logged in", visitor.ID)
	c.JSON(http.StatusOK, gin.H{"logged_in": true, "redirect": "/profile"})
}

// Logout forwards the logout, then flips the flag.
func (ac *AuthController) Logout(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	if err := visitor.API.Logout(c.Request.Context()); err != nil {
		logger.Warn.Printf("[AuthController.Logout] Logout failed for visitor=%s: %v", visitor.ID, err)
		respondError(c, err)
		return
	}
	visitor.Session.Logout()
	logger.Info.Printf("[AuthController.Logout] visitor=%s logged out", visitor.ID)
	c.JSON(http.StatusOK, gin.H{"logged_in": false, "redirect": "/"})
}

// Verify confirms an account from the e-mailed token.
func (ac *AuthController) Verify(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	res, err := visitor.API.Verify(c.Request.Context(), c.Param("token"))
	switch {
	case err != nil:
		logger.Warn.Printf("[AuthController.Verify] Verification failed: %v", err)
		c.JSON(http.StatusOK, gin.H{"error": models.APIError{Message: verifyFailedMessage}})
	case res.First == nil:
		c.JSON(http.StatusOK, gin.H{"error": models.APIError{Message: verifyFailedMessage}})
	case *res.First:
		c.JSON(http.StatusOK, gin.H{"message": verifyCreatedMessage})
	default:
		c.JSON(http.StatusOK, gin.H{"message": verifyExistsMessage})
	}
}
