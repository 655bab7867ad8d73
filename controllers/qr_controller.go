// Package controllers controllers/qr_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"lanmomo-web/logger"
)

// QRController resolves scanned ticket codes at the door.
type QRController struct{}

// NewQRController creates an instance of QRController
func NewQRController() *QRController {
	return &QRController{}
}

// Lookup answers the ticket, its owner and the ticket type label.
func (qc *QRController) Lookup(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	token := c.Param("token")
	res, err := visitor.API.LookupQR(c.Request.Context(), token)
	if err != nil {
		logger.Warn.Printf("[QRController.Lookup] token=%s: %v", token, err)
		respondError(c, err)
		return
	}

	body := gin.H{"ticket": res.Ticket, "owner": res.Owner}
	if res.Ticket != nil {
		body["typeLabel"] = res.Ticket.TypeID.String()
	}
	c.JSON(http.StatusOK, body)
}
