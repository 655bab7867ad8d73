// Package controllers controllers/servers_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"lanmomo-web/logger"
)

// ServersController answers one snapshot of the game servers. The live page
// polls through the servers websocket view instead.
type ServersController struct{}

// NewServersController creates an instance of ServersController
func NewServersController() *ServersController {
	return &ServersController{}
}

// List answers the server status map and whether it is empty.
func (sc *ServersController) List(c *gin.Context) {
	visitor, ok := visitorOrAbort(c)
	if !ok {
		return
	}
	servers, err := visitor.API.ListServers(c.Request.Context())
	if err != nil {
		logger.Warn.Printf("[ServersController.List] visitor=%s: %v", visitor.ID, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"servers": servers, "empty": len(servers) == 0})
}
