package models

import "encoding/json"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ValidationErrorResponse is the 422 body; Fields maps field name to message.
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type ClickRequest struct {
	Category string `json:"category" binding:"required"`
	TargetID string `json:"target_id"`
}

type InterestRequest struct {
	FilmmakerID string `json:"filmmaker_id" binding:"required,uuid"`
}

// InterestUpdateRequest changes status and notes independently; a nil
// field is left alone.
type InterestUpdateRequest struct {
	FilmmakerID string  `json:"filmmaker_id" binding:"required,uuid"`
	Status      *string `json:"status,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

type IngestRequest struct {
	Rows []json.RawMessage `json:"rows" binding:"required"`
}

type ProcessAIRequest struct {
	FilmmakerID string `json:"filmmaker_id" binding:"required,uuid"`
}

type WizardStepRequest struct {
	Step int `json:"step"`
}

type WizardRoleRequest struct {
	Role string `json:"role" binding:"required"`
	Slot string `json:"slot"`
}

// Film editing actions accepted by POST /api/v1/wizard/films.
const (
	FilmActionAdd                = "add"
	FilmActionUpdate             = "update"
	FilmActionRemove             = "remove"
	FilmActionToggleGenre        = "toggle_genre"
	FilmActionToggleRole         = "toggle_role"
	FilmActionAddAchievement     = "add_achievement"
	FilmActionSetAchievementType = "set_achievement_type"
	FilmActionRemoveAchievement  = "remove_achievement"
)

type WizardFilmRequest struct {
	Action        string            `json:"action" binding:"required"`
	FilmID        string            `json:"film_id,omitempty"`
	Film          *FilmographyEntry `json:"film,omitempty"`
	Genre         string            `json:"genre,omitempty"`
	Role          string            `json:"role,omitempty"`
	AchievementID string            `json:"achievement_id,omitempty"`
	Type          AchievementType   `json:"type,omitempty"`
}
