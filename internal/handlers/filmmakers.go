package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cinegrok-backend/internal/browse"
	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/render"
	"cinegrok-backend/internal/services"
	"cinegrok-backend/internal/stats"
)

// ProfileReader loads decoded profiles.
type ProfileReader interface {
	Get(ctx context.Context, id uuid.UUID) (*services.Profile, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*services.Profile, error)
}

// ClickCounter reads the analytics buckets of a filmmaker.
type ClickCounter interface {
	ClickCounts(ctx context.Context, filmmakerID uuid.UUID) ([]models.ClickCount, error)
}

// ClickTracker records a click without blocking the request.
type ClickTracker interface {
	Track(e models.ClickEvent) error
}

type FilmmakersHandler struct {
	directory *browse.Service
	profiles  ProfileReader
	renderer  *render.Renderer
	accounts  AccountReader
	clicks    ClickCounter
	tracker   ClickTracker
	logger    *zap.Logger
}

func NewFilmmakersHandler(directory *browse.Service, profiles ProfileReader, renderer *render.Renderer,
	accounts AccountReader, clicks ClickCounter, tracker ClickTracker, logger *zap.Logger) *FilmmakersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilmmakersHandler{
		directory: directory,
		profiles:  profiles,
		renderer:  renderer,
		accounts:  accounts,
		clicks:    clicks,
		tracker:   tracker,
		logger:    logger,
	}
}

// StatsResponse is the filmography breakdown of one filmmaker.
type StatsResponse struct {
	FilmmakerID  string                   `json:"filmmaker_id"`
	Summary      stats.Summary            `json:"summary"`
	Breakdown    stats.Breakdown          `json:"breakdown"`
	Achievements stats.AchievementSummary `json:"achievements"`
}

// List godoc
// @Summary     Browse published filmmakers
// @Tags        filmmakers
// @Produce     json
// @Param       page   query int    false "Page, from 1"
// @Param       limit  query int    false "Page size, at most 48"
// @Param       search query string false "Name or location"
// @Param       role   query string false "Role"
// @Param       state  query string false "State"
// @Param       genre  query string false "Genre"
// @Param       collab query bool   false "Open to collaborations only"
// @Success     200 {object} browse.Page
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/filmmakers [get]
func (h *FilmmakersHandler) List(c *gin.Context) {
	f := browse.ParseFilter(c.Request.URL.Query())
	page, err := h.directory.List(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list filmmakers",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get godoc
// @Summary     Filmmaker profile in audience or producer mode
// @Description Producer mode needs a login to a producer account; otherwise
// @Description the audience view is returned, with a login prompt under the
// @Description prompt policy.
// @Tags        filmmakers
// @Produce     json
// @Param       id   path  string true  "Filmmaker ID"
// @Param       mode query string false "audience or producer"
// @Success     200 {object} render.View
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/filmmakers/{id} [get]
func (h *FilmmakersHandler) Get(c *gin.Context) {
	if noDatabase(c, h.profiles) {
		return
	}
	id, ok := filmmakerParam(c)
	if !ok {
		return
	}
	p, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		storeFailed(c, err, "filmmaker")
		return
	}

	mode := render.ParseMode(c.Query("mode"))
	producer := false
	if userID, ok := optionalUser(c); ok && mode == render.ModeProducer {
		producer = isProducer(c.Request.Context(), h.accounts, h.logger, userID)
	}
	view := h.renderer.Render(p.ID.String(), p.Data, render.Request{
		Mode:       mode,
		IsLoggedIn: producer,
	})
	c.JSON(http.StatusOK, view)
}

func (h *FilmmakersHandler) Stats(c *gin.Context) {
	if noDatabase(c, h.profiles) {
		return
	}
	id, ok := filmmakerParam(c)
	if !ok {
		return
	}
	p, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		storeFailed(c, err, "filmmaker")
		return
	}

	films := p.Data.Filmography
	c.JSON(http.StatusOK, StatsResponse{
		FilmmakerID:  p.ID.String(),
		Summary:      stats.Totals(films),
		Breakdown:    stats.Aggregate(films),
		Achievements: stats.AggregateAchievements(films),
	})
}

// OwnProfileResponse is the caller's published profile.
type OwnProfileResponse struct {
	FilmmakerID string             `json:"filmmaker_id"`
	Profile     models.ProfileData `json:"profile"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Mine godoc
// @Summary     The caller's published profile
// @Tags        filmmakers
// @Produce     json
// @Security    Bearer
// @Success     200 {object} OwnProfileResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/profile [get]
func (h *FilmmakersHandler) Mine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if noDatabase(c, h.profiles) {
		return
	}
	p, err := h.profiles.GetByUser(c.Request.Context(), userID)
	if err != nil {
		storeFailed(c, err, "filmmaker")
		return
	}
	c.JSON(http.StatusOK, OwnProfileResponse{FilmmakerID: p.ID.String(), Profile: p.Data, UpdatedAt: p.Updated})
}

// Analytics returns click counts for the profile's owner only.
func (h *FilmmakersHandler) Analytics(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if noDatabase(c, h.profiles) {
		return
	}
	id, ok := filmmakerParam(c)
	if !ok {
		return
	}
	p, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		storeFailed(c, err, "filmmaker")
		return
	}
	if !p.UserID.Valid || p.UserID.UUID != userID {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "only the profile owner can view analytics"})
		return
	}

	counts, err := h.clicks.ClickCounts(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load analytics",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, models.NewAnalyticsResponse(id.String(), counts))
}

// Click godoc
// @Summary     Record an outbound click on a profile
// @Description Fire and forget; the response does not wait for storage.
// @Tags        filmmakers
// @Accept      json
// @Param       id   path string              true "Filmmaker ID"
// @Param       body body models.ClickRequest true "Click"
// @Success     202
// @Failure     422 {object} models.ValidationErrorResponse
// @Router      /api/v1/filmmakers/{id}/clicks [post]
func (h *FilmmakersHandler) Click(c *gin.Context) {
	id, ok := filmmakerParam(c)
	if !ok {
		return
	}
	var req models.ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	if !models.ValidClickCategory(req.Category) {
		validationFailed(c, map[string]string{"category": "Unknown click category"})
		return
	}

	e := models.ClickEvent{FilmmakerID: id, Category: req.Category, TargetID: req.TargetID}
	if viewer, ok := optionalUser(c); ok {
		e.ViewerID = uuid.NullUUID{UUID: viewer, Valid: true}
	}
	if err := h.tracker.Track(e); err != nil {
		h.logger.Debug("click not tracked", zap.Error(err))
	}
	c.Status(http.StatusAccepted)
}
