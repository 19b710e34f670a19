package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Intake sources recorded on filmmaker rows.
const (
	SourceWizard = "wizard"
	SourceLegacy = "legacy"
)

// Filmmaker is a row of the filmmakers table: the profile blob plus the
// flattened columns the browse queries filter on.
type Filmmaker struct {
	ID                   uuid.UUID
	UserID               uuid.NullUUID
	Profile              json.RawMessage
	StageName            string
	CurrentState         sql.NullString
	CurrentCity          sql.NullString
	CurrentLocation      sql.NullString
	Country              sql.NullString
	Roles                pq.StringArray
	RoleTags             pq.StringArray
	GenreTags            pq.StringArray
	OpenToCollaborations sql.NullString
	PhotoURL             sql.NullString
	Source               string
	IsComplete           bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// FilmmakerCard is the browse listing shape, decoded straight from PostgREST.
type FilmmakerCard struct {
	ID                   string   `json:"id"`
	StageName            string   `json:"stage_name"`
	CurrentCity          string   `json:"current_city,omitempty"`
	CurrentState         string   `json:"current_state,omitempty"`
	Country              string   `json:"country,omitempty"`
	Roles                []string `json:"roles"`
	GenreTags            []string `json:"genre_tags"`
	OpenToCollaborations string   `json:"open_to_collaborations,omitempty"`
	PhotoURL             string   `json:"photo_url,omitempty"`
}

// Account roles stored in the profiles table.
const (
	AccountFilmmaker = "filmmaker"
	AccountProducer  = "producer"
)

// Account is a row of the profiles table (auth side, not the filmmaker profile).
type Account struct {
	ID        uuid.UUID
	Email     string
	Role      string
	CreatedAt time.Time
}

func (a Account) IsProducer() bool {
	return a.Role == AccountProducer
}

// FilmmakerMatch is a card ranked by embedding similarity.
type FilmmakerMatch struct {
	FilmmakerCard
	Similarity float64 `json:"similarity"`
}
