// Package controllers controllers/teams_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"lanmomo-web/logger"
	"lanmomo-web/models"
)

// TeamsController relays tournament team management.
type TeamsController struct{}

// NewTeamsController creates an instance of TeamsController
func NewTeamsController() *TeamsController {
	return &TeamsController{}
}

// List answers every team.
func (tc *TeamsController) List(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	teams, err := visitor.API.ListTeams(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if teams == nil {
		teams = []models.Team{}
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// Create forwards a new team with the visitor as captain.
func (tc *TeamsController) Create(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	var req models.TeamRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := visitor.API.CreateTeam(c.Request.Context(), req); err != nil {
		logger.Warn.Printf("[TeamsController.Create] visitor=%s team=%q: %v", visitor.ID, req.Name, err)
		respondError(c, err)
		return
	}
	logger.Info.Printf("[TeamsController.Create] visitor=%s created team %q for %s", visitor.ID, req.Name, req.Game)
	c.Status(http.StatusCreated)
}

// Delete removes a team the visitor captains.
func (tc *TeamsController) Delete(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		respondError(c, models.NewAPIError(http.StatusBadRequest, "invalid team id"))
		return
	}
	if err := visitor.API.DeleteTeam(c.Request.Context(), id); err != nil {
		logger.Warn.Printf("[TeamsController.Delete] visitor=%s team=%d: %v", visitor.ID, id, err)
		respondError(c, err)
		return
	}
	logger.Info.Printf("[TeamsController.Delete] visitor=%s deleted team %d", visitor.ID, id)
	c.Status(http.StatusNoContent)
}
