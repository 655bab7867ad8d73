// Package controllers controllers/map_controller.go
package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"lanmomo-web/logger"
	"lanmomo-web/services"
)

// MapController serves the seat map over plain HTTP. The websocket view is
// the live variant; these handlers build a fresh map per request.
type MapController struct {
	Capacity int
}

// NewMapController creates an instance of MapController
func NewMapController(capacity int) *MapController {
	return &MapController{Capacity: capacity}
}

type seatRequest struct {
	Seat int `json:"seat" validate:"gte=0"`
}

// loadMap refreshes a seat map and, for a logged-in visitor, loads their
// ticket, in parallel.
func (mc *MapController) loadMap(ctx context.Context, visitor *services.Visitor) (*services.SeatMap, error) {
	seats := services.NewSeatMap(visitor.API, mc.Capacity)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return seats.Refresh(gctx)
	})
	if visitor.Session.IsLoggedIn() {
		g.Go(func() error {
			ticket, err := visitor.API.GetUserTicket(gctx)
			if err != nil {
				return err
			}
			seats.SetViewerTicket(ticket)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return seats, nil
}

func seatMapBody(seats *services.SeatMap) gin.H {
	body := gin.H{"seats": seats.Snapshot()}
	if sel, ok := seats.Selection(); ok {
		body["selection"] = sel
	}
	return body
}

// Seats answers the refreshed map with the viewer's own seat preselected.
func (mc *MapController) Seats(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	seats, err := mc.loadMap(c.Request.Context(), visitor)
	if err != nil {
		logger.Warn.Printf("[MapController.Seats] visitor=%s: %v", visitor.ID, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seatMapBody(seats))
}

// Select answers the fields derived for one seat.
func (mc *MapController) Select(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	var req seatRequest
	if !bindJSON(c, &req) {
		return
	}
	seats, err := mc.loadMap(c.Request.Context(), visitor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selection": seats.SelectSeat(req.Seat)})
}

// Buy runs the reservation flow for the posted seat.
func (mc *MapController) Buy(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	var req seatRequest
	if !bindJSON(c, &req) {
		return
	}

	var seats *services.SeatMap
	if visitor.Session.IsLoggedIn() {
		ticket, err := visitor.API.GetUserTicket(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		seats = services.NewSeatMap(visitor.API, mc.Capacity)
		seats.SetViewerTicket(ticket)
	}

	flow := services.NewReservationFlow(visitor.API, visitor.Session, seats)
	path, err := flow.Buy(c.Request.Context(), req.Seat)
	if err != nil {
		logger.Warn.Printf("[MapController.Buy] visitor=%s seat=%d: %v", visitor.ID, req.Seat, err)
		respondError(c, err)
		return
	}
	logger.Info.Printf("[MapController.Buy] visitor=%s seat=%d -> %s", visitor.ID, req.Seat, path)
	c.JSON(http.StatusOK, gin.H{"redirect": path})
}
