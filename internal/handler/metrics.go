package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/football-ical/internal/metrics"
)

type MetricsHandler struct {
	Metrics *metrics.Metrics
}

func (h *MetricsHandler) Register(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
}
