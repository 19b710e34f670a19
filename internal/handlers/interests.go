package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/services"
)

// InterestStore is the collaboration interest part of the database client.
type InterestStore interface {
	ExpressInterest(ctx context.Context, userID, filmmakerID uuid.UUID) (*models.Interest, error)
	UpdateInterestStatus(ctx context.Context, userID, filmmakerID uuid.UUID, status models.InterestStatus) (*models.Interest, error)
	UpdateInterestNotes(ctx context.Context, userID, filmmakerID uuid.UUID, notes string) (*models.Interest, error)
	DeleteInterest(ctx context.Context, userID, filmmakerID uuid.UUID) error
	ListInterests(ctx context.Context, userID uuid.UUID, status models.InterestStatus) ([]models.Interest, error)
}

type InterestsHandler struct {
	store InterestStore
}

func NewInterestsHandler(store InterestStore) *InterestsHandler {
	return &InterestsHandler{store: store}
}

// List godoc
// @Summary     The caller's collaboration interests
// @Tags        interests
// @Produce     json
// @Security    Bearer
// @Param       status query string false "interested, shortlisted, contacted or archived"
// @Success     200 {object} models.InterestListResponse
// @Router      /api/v1/collaboration-interests [get]
func (h *InterestsHandler) List(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	status := models.InterestStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		validationFailed(c, map[string]string{"status": "Unknown interest status"})
		return
	}

	interests, err := h.store.ListInterests(c.Request.Context(), userID, status)
	if err != nil {
		storeFailed(c, err, "interests")
		return
	}
	resp := models.InterestListResponse{Interests: make([]models.InterestResponse, len(interests))}
	for i, in := range interests {
		resp.Interests[i] = models.NewInterestResponse(in)
	}
	c.JSON(http.StatusOK, resp)
}

// Express godoc
// @Summary     Express interest in a filmmaker
// @Description Idempotent: repeating it returns the existing record.
// @Tags        interests
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       body body models.InterestRequest true "Filmmaker"
// @Success     200 {object} models.InterestResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/collaboration-interests [post]
func (h *InterestsHandler) Express(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.InterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	filmmakerID, ok := parseFilmmakerID(c, req.FilmmakerID)
	if !ok {
		return
	}

	in, err := h.store.ExpressInterest(c.Request.Context(), userID, filmmakerID)
	if err != nil {
		storeFailed(c, err, "filmmaker")
		return
	}
	c.JSON(http.StatusOK, models.NewInterestResponse(*in))
}

// Update godoc
// @Summary     Change the status and/or notes of an interest
// @Tags        interests
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       body body models.InterestUpdateRequest true "Changes"
// @Success     200 {object} models.InterestResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     422 {object} models.ValidationErrorResponse
// @Router      /api/v1/collaboration-interests [patch]
func (h *InterestsHandler) Update(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.InterestUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	filmmakerID, ok := parseFilmmakerID(c, req.FilmmakerID)
	if !ok {
		return
	}

	fields := map[string]string{}
	if req.Status == nil && req.Notes == nil {
		fields["status"] = "Provide a status or notes"
	}
	if req.Status != nil && !models.InterestStatus(*req.Status).Valid() {
		fields["status"] = "Unknown interest status"
	}
	if len(fields) > 0 {
		validationFailed(c, fields)
		return
	}

	ctx := c.Request.Context()
	var in *models.Interest
	var err error
	if req.Status != nil {
		in, err = h.store.UpdateInterestStatus(ctx, userID, filmmakerID, models.InterestStatus(*req.Status))
	}
	if err == nil && req.Notes != nil {
		in, err = h.store.UpdateInterestNotes(ctx, userID, filmmakerID, *req.Notes)
	}
	if err != nil {
		storeFailed(c, err, "interest")
		return
	}
	c.JSON(http.StatusOK, models.NewInterestResponse(*in))
}

// Delete godoc
// @Summary     Withdraw interest in a filmmaker
// @Tags        interests
// @Security    Bearer
// @Param       filmmaker_id query string true "Filmmaker ID"
// @Success     204
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/collaboration-interests [delete]
// @Router      /api/interested-profiles [delete]
func (h *InterestsHandler) Delete(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	raw := c.Query("filmmaker_id")
	if raw == "" {
		var req models.InterestRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			raw = req.FilmmakerID
		}
	}
	filmmakerID, ok := parseFilmmakerID(c, raw)
	if !ok {
		return
	}

	if err := h.store.DeleteInterest(c.Request.Context(), userID, filmmakerID); err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "interest not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to delete interest", Message: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func parseFilmmakerID(c *gin.Context, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		validationFailed(c, map[string]string{"filmmaker_id": "Must be a valid id"})
		return uuid.Nil, false
	}
	return id, true
}
