package handlers

import (
	"net/http"
	"sync"

	intconfig "ticketbooking/internal/config"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for /api/endpoints.
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "ticket booking api running"})
}

func DBCheck(c *gin.Context) {
	if err := intconfig.PingDB(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database unavailable: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK"})
}

// Endpoints lists the registered routes.
func Endpoints(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router not ready"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
