// Package controllers file: controllers/page_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"lanmomo-web/logger"
	"lanmomo-web/websocket"
)

// Health answers the load balancer.
func Health(c *gin.Context) {
	logger.Debug.Println("[Health] Health check requested")
	c.String(http.StatusOK, "OK")
}

// ViewSocket upgrades /ws?view=... for the current visitor.
func ViewSocket(handler *websocket.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		visitor, ok := visitorOrAbort(c)
		if !ok {
			return
		}
		handler.Serve(c.Writer, c.Request, visitor)
	}
}
