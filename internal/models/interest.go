package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type InterestStatus string

const (
	InterestInterested  InterestStatus = "interested"
	InterestShortlisted InterestStatus = "shortlisted"
	InterestContacted   InterestStatus = "contacted"
	InterestArchived    InterestStatus = "archived"
)

func (s InterestStatus) Valid() bool {
	switch s {
	case InterestInterested, InterestShortlisted, InterestContacted, InterestArchived:
		return true
	}
	return false
}

// Interest is a row of interested_profiles, unique per (user, filmmaker).
type Interest struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	FilmmakerID uuid.UUID
	Status      InterestStatus
	Notes       sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined from filmmakers when listing.
	StageName sql.NullString
	PhotoURL  sql.NullString
}

// ClickCount is one bucket of the analytics dashboard.
type ClickCount struct {
	Category string
	TargetID string
	Count    int64
}

// Click categories recorded by the profile page.
const (
	ClickSocial  = "social"
	ClickInfo    = "info"
	ClickWatch   = "watch"
	ClickTrailer = "trailer"
)

func ValidClickCategory(c string) bool {
	switch c {
	case ClickSocial, ClickInfo, ClickWatch, ClickTrailer:
		return true
	}
	return false
}

// ClickEvent is one outbound click on a profile.
type ClickEvent struct {
	FilmmakerID uuid.UUID     `json:"filmmaker_id"`
	Category    string        `json:"category"`
	TargetID    string        `json:"target_id"`
	ViewerID    uuid.NullUUID `json:"viewer_id"`
	At          time.Time     `json:"at"`
}
