package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/api/health", h.health)
}

func (h *HealthHandler) health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
