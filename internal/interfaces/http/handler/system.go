package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves liveness and build info endpoints
type SystemHandler struct {
	BaseHandler
	appName string
	env     string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(appName, env string) *SystemHandler {
	return &SystemHandler{appName: appName, env: env}
}

// RegisterRoutes registers system routes on the given group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	system.GET("/ping", h.Ping)
	system.GET("/info", h.Info)
}

// Ping answers pong
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Info returns basic service information
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, gin.H{
		"name": h.appName,
		"env":  h.env,
		"time": time.Now().Format(time.RFC3339),
	})
}
