package http_system

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	appName    = "jellypick"
	appVersion = "1.0.0"
)

// Controller serves the liveness and version endpoints.
type Controller struct {
	started time.Time
}

func New() *Controller {
	return &Controller{started: time.Now()}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", c.health)
	router.GET("/version", c.version)
}

type HealthResponseDTO struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

func (c *Controller) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, HealthResponseDTO{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(c.started).Seconds(),
	})
}

type VersionResponseDTO struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	ServerVersion string `json:"serverVersion"`
}

func (c *Controller) version(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, VersionResponseDTO{
		Name:          appName,
		Version:       appVersion,
		ServerVersion: appVersion,
	})
}
