package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cinegrok-backend/internal/drafts"
	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/wizard"
)

// ProfilePublisher stores a finished wizard profile for its owner.
type ProfilePublisher interface {
	Publish(ctx context.Context, userID uuid.UUID, p models.ProfileData) (*models.Filmmaker, error)
}

// WizardHandler drives the profile wizard. Every mutation loads the
// caller's draft, applies one step and writes the draft back.
type WizardHandler struct {
	drafts    drafts.Store
	publisher ProfilePublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewWizardHandler(store drafts.Store, publisher ProfilePublisher, logger *zap.Logger) *WizardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WizardHandler{drafts: store, publisher: publisher, logger: logger, now: time.Now}
}

type WizardResponse struct {
	Step              int                      `json:"step"`
	StepName          string                   `json:"step_name"`
	Profile           models.ProfileData       `json:"profile"`
	CustomRoles       []string                 `json:"custom_roles"`
	AvailableRoles    []string                 `json:"available_roles"`
	HasUnsavedChanges bool                     `json:"has_unsaved_changes"`
	UpdatedAt         time.Time                `json:"updated_at"`
	Address           string                   `json:"address"`
	PushHistory       bool                     `json:"push_history"`
	Warning           string                   `json:"warning,omitempty"`
	Film              *models.FilmographyEntry `json:"film,omitempty"`
	Achievement       *models.FilmAchievement  `json:"achievement,omitempty"`
}

// wizardResponse describes the session. Address is the query that mirrors
// the step; PushHistory is set when the request navigated and the client
// should add a history entry rather than replace the address.
func wizardResponse(w *wizard.Wizard, hist *wizard.History) WizardResponse {
	st := w.State()
	return WizardResponse{
		Step:              int(st.Step),
		StepName:          st.Step.String(),
		Profile:           st.Profile,
		CustomRoles:       w.CustomRoles(),
		AvailableRoles:    w.AvailableRoles(),
		HasUnsavedChanges: w.HasUnsavedChanges(),
		UpdatedAt:         st.UpdatedAt,
		Address:           st.Step.Query(),
		PushHistory:       hist != nil && hist.Pushed(),
	}
}

// load returns the caller's session, starting a new one when there is no
// draft.
func (h *WizardHandler) load(c *gin.Context, userID uuid.UUID, nav wizard.Navigator) (*wizard.Wizard, bool) {
	st, err := h.drafts.Load(c.Request.Context(), userID.String())
	if errors.Is(err, drafts.ErrNoDraft) {
		return wizard.New(nav), true
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to load draft", Message: err.Error()})
		return nil, false
	}
	return wizard.Resume(st, nav), true
}

func (h *WizardHandler) save(c *gin.Context, userID uuid.UUID, w *wizard.Wizard) bool {
	err := h.drafts.Save(c.Request.Context(), userID.String(), w.State())
	if errors.Is(err, drafts.ErrConflict) {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "draft changed by another request",
			Message: "reload the wizard and try again",
		})
		return false
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to save draft", Message: err.Error()})
		return false
	}
	return true
}

// mutate runs fn against the caller's session and persists the result.
// fn writes its own response when it returns false.
func (h *WizardHandler) mutate(c *gin.Context, fn func(w *wizard.Wizard, resp *WizardResponse) bool) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	hist := &wizard.History{}
	w, ok := h.load(c, userID, hist)
	if !ok {
		return
	}
	var extra WizardResponse
	if !fn(w, &extra) {
		return
	}
	if !h.save(c, userID, w) {
		return
	}
	resp := wizardResponse(w, hist)
	resp.Warning, resp.Film, resp.Achievement = extra.Warning, extra.Film, extra.Achievement
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary     The caller's wizard session
// @Description The optional step query parameter is clamped into range and
// @Description becomes the current step.
// @Tags        wizard
// @Produce     json
// @Security    Bearer
// @Param       step query int false "Step, 1 to 6"
// @Success     200 {object} WizardResponse
// @Router      /api/v1/wizard [get]
func (h *WizardHandler) Get(c *gin.Context) {
	if _, has := c.GetQuery("step"); !has {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		if w, ok := h.load(c, userID, nil); ok {
			c.JSON(http.StatusOK, wizardResponse(w, nil))
		}
		return
	}
	h.mutate(c, func(w *wizard.Wizard, _ *WizardResponse) bool {
		w.SetStep(int(wizard.StepFromQuery(c.Request.URL.Query())))
		return true
	})
}

func (h *WizardHandler) SetStep(c *gin.Context) {
	var req models.WizardStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	h.mutate(c, func(w *wizard.Wizard, _ *WizardResponse) bool {
		w.SetStep(req.Step)
		return true
	})
}

// Next godoc
// @Summary     Validate the current step and advance
// @Tags        wizard
// @Produce     json
// @Security    Bearer
// @Success     200 {object} WizardResponse
// @Failure     422 {object} models.ValidationErrorResponse
// @Router      /api/v1/wizard/next [post]
func (h *WizardHandler) Next(c *gin.Context) {
	h.mutate(c, func(w *wizard.Wizard, _ *WizardResponse) bool {
		return h.check(c, w.Next())
	})
}

func (h *WizardHandler) Back(c *gin.Context) {
	h.mutate(c, func(w *wizard.Wizard, _ *WizardResponse) bool {
		w.Back()
		return true
	})
}

// GoTo jumps back to an earlier step. Forward jumps are ignored.
func (h *WizardHandler) GoTo(c *gin.Context) {
	var req models.WizardStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	h.mutate(c, func(w *wizard.Wizard, _ *WizardResponse) bool {
		w.GoTo(req.Step)
		return true
	})
}

// Fields merges a partial object into the fields of the current step.
func (h *WizardHandler) Fields(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: "body must be a JSON object"})
		return
	}
	h.mutate(c, func(w *wizard.Wizard, _ *WizardResponse) bool {
		if err := w.ApplyFields(body); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to apply fields", Message: err.Error()})
			return false
		}
		return true
	})
}

// Roles toggles a role in the primary or secondary list. A selection past
// the limits is not applied and comes back as a warning.
func (h *WizardHandler) Roles(c *gin.Context) {
	h.selectRole(c, func(w *wizard.Wizard, role string, slot wizard.Slot) error {
		return w.Select(role, slot)
	})
}

// CustomRoles adds a typed role to the grid and selects it.
func (h *WizardHandler) CustomRoles(c *gin.Context) {
	h.selectRole(c, func(w *wizard.Wizard, role string, slot wizard.Slot) error {
		return w.AddCustomRole(role, slot)
	})
}

func (h *WizardHandler) selectRole(c *gin.Context, fn func(*wizard.Wizard, string, wizard.Slot) error) {
	var req models.WizardRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	slot := wizard.Slot(req.Slot)
	if slot == "" {
		slot = wizard.SlotPrimary
	}
	if !slot.Valid() {
		validationFailed(c, map[string]string{"slot": "Slot must be primary or secondary"})
		return
	}

	h.mutate(c, func(w *wizard.Wizard, resp *WizardResponse) bool {
		err := fn(w, req.Role, slot)
		var limit *wizard.LimitWarning
		switch {
		case errors.As(err, &limit):
			resp.Warning = limit.Error()
		case errors.Is(err, wizard.ErrEmptyRole):
			validationFailed(c, map[string]string{"role": "Role is required"})
			return false
		case err != nil:
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to select role", Message: err.Error()})
			return false
		}
		return true
	})
}

// Films godoc
// @Summary     Edit the filmography
// @Description action is one of add, update, remove, toggle_genre,
// @Description toggle_role, add_achievement, set_achievement_type,
// @Description remove_achievement.
// @Tags        wizard
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       body body models.WizardFilmRequest true "Edit"
// @Success     200 {object} WizardResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/wizard/films [post]
func (h *WizardHandler) Films(c *gin.Context) {
	var req models.WizardFilmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	h.mutate(c, func(w *wizard.Wizard, resp *WizardResponse) bool {
		var err error
		switch req.Action {
		case models.FilmActionAdd:
			f := w.AddFilm()
			resp.Film = &f
		case models.FilmActionUpdate:
			if req.Film == nil {
				validationFailed(c, map[string]string{"film": "Film is required"})
				return false
			}
			err = w.UpdateFilm(*req.Film)
		case models.FilmActionRemove:
			err = w.RemoveFilm(req.FilmID)
		case models.FilmActionToggleGenre:
			err = w.ToggleFilmGenre(req.FilmID, req.Genre)
		case models.FilmActionToggleRole:
			err = w.ToggleFilmRole(req.FilmID, req.Role)
		case models.FilmActionAddAchievement, models.FilmActionSetAchievementType:
			if _, ok := models.ResultFor(req.Type); !ok {
				validationFailed(c, map[string]string{"type": "Unknown achievement type"})
				return false
			}
			if req.Action == models.FilmActionAddAchievement {
				var a models.FilmAchievement
				a, err = w.AddAchievement(req.FilmID, req.Type)
				if err == nil {
					resp.Achievement = &a
				}
			} else {
				err = w.SetAchievementType(req.FilmID, req.AchievementID, req.Type)
			}
		case models.FilmActionRemoveAchievement:
			err = w.RemoveAchievement(req.FilmID, req.AchievementID)
		default:
			validationFailed(c, map[string]string{"action": "Unknown film action"})
			return false
		}

		if errors.Is(err, wizard.ErrFilmNotFound) || errors.Is(err, wizard.ErrAchievementNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
			return false
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to edit film", Message: err.Error()})
			return false
		}
		return true
	})
}

// Publish godoc
// @Summary     Validate and publish the profile
// @Description On success the draft is discarded.
// @Tags        wizard
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.PublishResponse
// @Failure     422 {object} models.ValidationErrorResponse
// @Router      /api/v1/wizard/publish [post]
func (h *WizardHandler) Publish(c *gin.Context) {
	if h.publisher == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	w, ok := h.load(c, userID, nil)
	if !ok {
		return
	}

	now := h.now()
	p, err := w.Publish(now)
	if !h.check(c, err) {
		return
	}

	saved, err := h.publisher.Publish(c.Request.Context(), userID, p)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to publish profile", Message: err.Error()})
		return
	}
	if err := h.drafts.Delete(c.Request.Context(), userID.String()); err != nil {
		h.logger.Warn("draft not discarded after publish", zap.String("user_id", userID.String()), zap.Error(err))
	}
	c.JSON(http.StatusOK, models.PublishResponse{FilmmakerID: saved.ID.String(), PublishedAt: now.UTC()})
}

// Discard deletes the caller's draft.
func (h *WizardHandler) Discard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.drafts.Delete(c.Request.Context(), userID.String()); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to discard draft", Message: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// check answers a validation error with 422 and reports whether err was nil.
func (h *WizardHandler) check(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, models.ValidationErrorResponse{
			Error:  "validation failed",
			Fields: verr.Fields,
		})
		return false
	}
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	return false
}
