package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/football-ical/internal/feed"
)

type Publisher interface {
	Publish(ctx context.Context) (*feed.Report, error)
}

type FeedHandler struct {
	Publisher Publisher
}

func (h *FeedHandler) Register(r *gin.Engine) {
	r.POST("/api/feed/publish", h.publish)
}

func (h *FeedHandler) publish(c *gin.Context) {
	if h.Publisher == nil {
		Error(c, http.StatusInternalServerError, "publisher unavailable")
		return
	}
	report, err := h.Publisher.Publish(c.Request.Context())
	if err != nil {
		if report != nil {
			c.JSON(http.StatusBadGateway, gin.H{"code": http.StatusBadGateway, "message": err.Error(), "report": report})
			return
		}
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, report)
}
