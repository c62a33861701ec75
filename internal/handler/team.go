package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pfrederiksen/football-ical/internal/calendar"
	"github.com/pfrederiksen/football-ical/internal/models"
	"github.com/pfrederiksen/football-ical/internal/repository"
	"github.com/pfrederiksen/football-ical/internal/scraper"
)

// TeamScraper resolves and reads schedule pages
type TeamScraper interface {
	ScheduleURL(ctx context.Context, url string) (string, error)
	FetchTeam(ctx context.Context, url string, now time.Time) (*scraper.Result, error)
}

type TeamHandler struct {
	Teams   repository.TeamRepository
	Scraper TeamScraper
	Encoder *calendar.Encoder
	Logger  *zap.Logger
	Now     func() time.Time
}

func (h *TeamHandler) Register(r *gin.Engine) {
	group := r.Group("/api/teams")
	group.GET("", h.listTeams)
	group.POST("", h.createTeam)
	group.PATCH("/:id/flip_status", h.flipStatus)
	group.GET("/:id/fixtures", h.fixtures)
}

func (h *TeamHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *TeamHandler) logger() *zap.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return zap.NewNop()
}

func (h *TeamHandler) listTeams(c *gin.Context) {
	if h.Teams == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	teams, err := h.Teams.ListTeams(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	if teams == nil {
		teams = []models.Team{}
	}
	c.JSON(http.StatusOK, teams)
}

type createTeamRequest struct {
	URL string `json:"url"`
}

func (h *TeamHandler) createTeam(c *gin.Context) {
	if h.Teams == nil || h.Scraper == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	rawURL := strings.TrimSpace(req.URL)
	if rawURL == "" {
		Error(c, http.StatusBadRequest, "url required")
		return
	}

	ctx := c.Request.Context()
	log := h.logger().With(zap.String("url", rawURL))

	scheduleURL, err := h.Scraper.ScheduleURL(ctx, rawURL)
	if err != nil {
		log.Warn("resolving schedule url failed", zap.Error(err))
		Error(c, upstreamStatus(err), err.Error())
		return
	}

	result, err := h.Scraper.FetchTeam(ctx, scheduleURL, h.now())
	if err != nil {
		log.Warn("reading schedule page failed", zap.String("schedule_url", scheduleURL), zap.Error(err))
		Error(c, upstreamStatus(err), err.Error())
		return
	}

	team := &models.Team{URL: scheduleURL, Name: result.Name, Enabled: true}
	if err := h.Teams.CreateTeam(ctx, team); err != nil {
		if errors.Is(err, repository.ErrTeamExists) {
			Error(c, http.StatusConflict, err.Error())
			return
		}
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info("team added", zap.Uint64("team_id", team.ID), zap.String("name", team.Name))
	c.JSON(http.StatusOK, team)
}

// upstreamStatus maps scraper errors to a response status
func upstreamStatus(err error) int {
	switch {
	case errors.Is(err, scraper.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, scraper.ErrNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func (h *TeamHandler) flipStatus(c *gin.Context) {
	if h.Teams == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	id, ok := idParam(c)
	if !ok {
		Error(c, http.StatusBadRequest, "invalid team id")
		return
	}
	if err := h.Teams.FlipTeamStatus(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			Error(c, http.StatusNotFound, err.Error())
			return
		}
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// fixtures extracts a team's upcoming fixtures on demand, as JSON or, with
// ?format=ics, as a one-team calendar
func (h *TeamHandler) fixtures(c *gin.Context) {
	if h.Teams == nil || h.Scraper == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	id, ok := idParam(c)
	if !ok {
		Error(c, http.StatusBadRequest, "invalid team id")
		return
	}

	ctx := c.Request.Context()
	team, err := h.Teams.GetTeam(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			Error(c, http.StatusNotFound, err.Error())
			return
		}
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := h.Scraper.FetchTeam(ctx, team.URL, h.now())
	if err != nil {
		h.logger().Warn("reading schedule page failed", zap.Uint64("team_id", team.ID), zap.Error(err))
		Error(c, upstreamStatus(err), err.Error())
		return
	}

	if strings.EqualFold(c.Query("format"), "ics") {
		enc := h.Encoder
		if enc == nil {
			enc = calendar.New(calendar.Options{})
		}
		c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(enc.Render(result.Events)))
		return
	}
	c.JSON(http.StatusOK, result.Events)
}
