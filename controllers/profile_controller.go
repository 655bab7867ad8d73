// Package controllers controllers/profile_controller.go
package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"lanmomo-web/logger"
	"lanmomo-web/models"
	"lanmomo-web/services"
)

const qrCodeSize = 256

// ProfileController serves the profile page and its QR code.
type ProfileController struct {
	PublicURL string
	Encoder   services.QREncoder
}

// NewProfileController creates an instance of ProfileController. A nil
// encoder renders with go-qrcode.
func NewProfileController(publicURL string, encoder services.QREncoder) *ProfileController {
	return &ProfileController{PublicURL: publicURL, Encoder: encoder}
}

type availabilityRequest struct {
	Value string `json:"value" validate:"required"`
}

// Show loads the profile and ticket in parallel.
func (pc *ProfileController) Show(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}

	var (
		user   *models.User
		ticket *models.Ticket
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		user, err = visitor.API.GetProfile(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		ticket, err = visitor.API.GetUserTicket(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Warn.Printf("[ProfileController.Show] visitor=%s: %v", visitor.ID, err)
		respondError(c, err)
		return
	}

	body := gin.H{"user": user, "ticket": ticket}
	if ticket != nil && ticket.QRToken != "" {
		body["qrUrl"] = services.TicketQRURL(pc.PublicURL, ticket.QRToken)
	}
	c.JSON(http.StatusOK, body)
}

// Update forwards the edited profile.
func (pc *ProfileController) Update(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	var user models.User
	if !bindJSON(c, &user) {
		return
	}
	updated, err := visitor.API.UpdateProfile(c.Request.Context(), user)
	if err != nil {
		logger.Warn.Printf("[ProfileController.Update] visitor=%s: %v", visitor.ID, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": updated})
}

// Has reports whether a username or e-mail is free. The visitor's current
// value is always free and never hits the upstream.
func (pc *ProfileController) Has(c *gin.Context) {
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

	ctx := c.Request.Context()
	user, err := visitor.API.GetProfile(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	if user != nil && currentValue(user, field) == req.Value {
		c.JSON(http.StatusOK, gin.H{"available": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": checkAvailable(ctx, visitor.API, field, req.Value)})
}

// QRCode renders the ticket's QR code as a PNG.
func (pc *ProfileController) QRCode(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	ticket, err := visitor.API.GetUserTicket(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if ticket == nil || ticket.QRToken == "" {
		respondError(c, models.NewAPIError(http.StatusNotFound, "no ticket"))
		return
	}

	png, err := services.GenerateQRCode(services.TicketQRURL(pc.PublicURL, ticket.QRToken), qrCodeSize, pc.Encoder)
	if err != nil {
		logger.Error.Printf("[ProfileController.QRCode] Error generating QR code: %v", err)
		c.String(http.StatusInternalServerError, "QR generation failed")
		return
	}
	c.Header("Content-Disposition", "inline; filename=\"qrcode.png\"")
	c.Data(http.StatusOK, "image/png", png)
}

func currentValue(user *models.User, field string) string {
	if field == "email" {
		return user.Email
	}
	return user.Username
}

// checkAvailable asks the upstream. Failures count as unavailable.
func checkAvailable(ctx context.Context, api services.LanAPI, field, value string) bool {
	var (
		exists bool
		err    error
	)
	switch field {
	case "email":
		exists, err = api.HasEmail(ctx, strings.TrimSpace(value))
	default:
		exists, err = api.HasUsername(ctx, strings.TrimSpace(value))
	}
	if err != nil {
		logger.Warn.Printf("[checkAvailable] %s lookup failed: %v", field, err)
		return false
	}
	return !exists
}
