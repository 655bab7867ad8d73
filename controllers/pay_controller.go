// Package controllers controllers/pay_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"lanmomo-web/logger"
	"lanmomo-web/models"
	"lanmomo-web/services"
)

// PayController serves the payment page. All routes need a logged-in visitor.
type PayController struct{}

// NewPayController creates an instance of PayController
func NewPayController() *PayController {
	return &PayController{}
}

// Summary loads the viewer ticket and prices it.
func (pc *PayController) Summary(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	discount, _ := strconv.ParseBool(c.Query("discountMomo"))

	ticket, err := visitor.API.GetUserTicket(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if ticket == nil {
		respondError(c, models.NewAPIError(http.StatusNotFound, "no ticket selected"))
		return
	}
	c.JSON(http.StatusOK, services.SummarizePayment(ticket, discount))
}

// Pay starts a payment and hands back the provider's redirect address.
func (pc *PayController) Pay(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	var req models.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	redirect, err := visitor.API.Pay(c.Request.Context(), req)
	if err != nil {
		logger.Warn.Printf("[PayController.Pay] visitor=%s: %v", visitor.ID, err)
		respondError(c, err)
		return
	}
	logger.Info.Printf("[PayController.Pay] visitor=%s redirected to payment provider", visitor.ID)
	c.JSON(http.StatusOK, redirect)
}

// Execute completes a payment after the provider sends the visitor back.
func (pc *PayController) Execute(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	var req models.ExecutePaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := visitor.API.ExecutePayment(c.Request.Context(), req)
	if err != nil {
		logger.Warn.Printf("[PayController.Execute] visitor=%s payment=%s: %v", visitor.ID, req.PaymentID, err)
		respondError(c, err)
		return
	}
	logger.Info.Printf("[PayController.Execute] visitor=%s payment=%s done", visitor.ID, req.PaymentID)
	c.JSON(http.StatusOK, msg)
}
