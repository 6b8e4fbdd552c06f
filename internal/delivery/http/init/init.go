package http_init

import (
	"log"

	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api"

type Controller interface {
	RegisterRoutes(router *gin.RouterGroup)
}

type ControllerPool struct {
	pool   []Controller
	rg     *gin.RouterGroup
	engine *gin.Engine
}

func NewControllerPool(middleware ...gin.HandlerFunc) *ControllerPool {
	engine := gin.Default()
	engine.Use(middleware...)
	rg := engine.Group(apiPrefix)
	return &ControllerPool{
		pool:   make([]Controller, 0, 10),
		rg:     rg,
		engine: engine,
	}
}

func (pool *ControllerPool) Add(c Controller) {
	pool.pool = append(pool.pool, c)
}

func (pool *ControllerPool) Register() {
	for _, c := range pool.pool {
		c.RegisterRoutes(pool.rg)
	}
}

// Mount attaches a raw handler outside the API prefix, e.g. /metrics.
func (pool *ControllerPool) Mount(path string, handler gin.HandlerFunc) {
	pool.engine.GET(path, handler)
}

func (pool *ControllerPool) RunAll(addr string) {
	if err := pool.engine.Run(addr); err != nil {
		log.Fatalf("failed to run HTTP server: %v", err)
	}
}
