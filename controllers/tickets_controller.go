// Package controllers controllers/tickets_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"lanmomo-web/logger"
	"lanmomo-web/models"
	"lanmomo-web/services"
)

// TicketsController serves the tickets page.
type TicketsController struct {
	MaxPC      int
	MaxConsole int
}

// NewTicketsController creates an instance of TicketsController
func NewTicketsController(maxPC, maxConsole int) *TicketsController {
	return &TicketsController{MaxPC: maxPC, MaxConsole: maxConsole}
}

// Summary loads the counts and, for a logged-in visitor, their ticket, in
// parallel.
func (tc *TicketsController) Summary(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	loggedIn := visitor.Session.IsLoggedIn()

	var (
		tickets []models.Ticket
		ticket  *models.Ticket
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		tickets, err = visitor.API.ListTickets(ctx)
		return err
	})
	if loggedIn {
		g.Go(func() error {
			var err error
			ticket, err = visitor.API.GetUserTicket(ctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn.Printf("[TicketsController.Summary] visitor=%s: %v", visitor.ID, err)
		respondError(c, err)
		return
	}

	summary := models.TicketsSummary{
		Counts: services.CountTickets(tickets, tc.MaxPC, tc.MaxConsole),
		Ticket: ticket,
		CanBuy: services.CanBuy(loggedIn, ticket),
	}
	if until, ok := ticket.ReservationExpiry(); ok {
		summary.TimerTarget = &until
	}
	c.JSON(http.StatusOK, summary)
}

type buyTypeRequest struct {
	Type *models.TicketType `json:"type" validate:"required"`
}

// Buy is the tickets page buy button.
func (tc *TicketsController) Buy(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	var req buyTypeRequest
	if !bindJSON(c, &req) {
		return
	}

	flow := services.NewReservationFlow(visitor.API, visitor.Session, nil)
	path, err := flow.BuyType(c.Request.Context(), *req.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": path})
}
