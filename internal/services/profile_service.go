package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"cinegrok-backend/internal/ai"
	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/reconcile"
	"cinegrok-backend/internal/supabase"
)

// ErrEmbeddingsDisabled is returned by Process when no embedder is configured.
var ErrEmbeddingsDisabled = errors.New("embeddings are not configured")

// FilmmakerStore is the part of the database client the service needs.
type FilmmakerStore interface {
	UpsertFilmmaker(ctx context.Context, f *models.Filmmaker) (*models.Filmmaker, error)
	GetFilmmaker(ctx context.Context, id uuid.UUID) (*models.Filmmaker, error)
	GetFilmmakerByUser(ctx context.Context, userID uuid.UUID) (*models.Filmmaker, error)
	StoreEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
}

// Profile is a stored filmmaker with its blob decoded into canonical form.
type Profile struct {
	ID      uuid.UUID
	UserID  uuid.NullUUID
	Source  string
	Data    models.ProfileData
	Report  reconcile.Report
	Updated time.Time
}

type ProfileService struct {
	store    FilmmakerStore
	embedder ai.Embedder
	logger   *zap.Logger
}

func NewProfileService(store FilmmakerStore, embedder ai.Embedder, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{store: store, embedder: embedder, logger: logger}
}

// ToFilmmaker builds the table row for a canonical profile: the blob plus
// the flattened columns browse filters on. Tag columns are lowercased.
func ToFilmmaker(p models.ProfileData, source string) (*models.Filmmaker, error) {
	blob, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}

	roles := p.AllRoles()
	return &models.Filmmaker{
		Profile:              blob,
		StageName:            strings.TrimSpace(p.StageName),
		CurrentState:         nullString(p.CurrentState),
		CurrentCity:          nullString(p.CurrentCity),
		CurrentLocation:      nullString(p.CurrentLocation),
		Country:              nullString(p.Country),
		Roles:                pq.StringArray(roles),
		RoleTags:             pq.StringArray(lowerAll(roles)),
		GenreTags:            pq.StringArray(lowerAll(p.PreferredGenres)),
		OpenToCollaborations: nullString(p.OpenToCollaborations),
		PhotoURL:             nullString(p.ProfilePhotoURL),
		Source:               source,
		IsComplete:           p.IsComplete,
	}, nil
}

// Publish stores the profile an account built in the wizard.
func (s *ProfileService) Publish(ctx context.Context, userID uuid.UUID, p models.ProfileData) (*models.Filmmaker, error) {
	row, err := ToFilmmaker(p, models.SourceWizard)
	if err != nil {
		return nil, err
	}
	row.UserID = uuid.NullUUID{UUID: userID, Valid: true}

	saved, err := s.store.UpsertFilmmaker(ctx, row)
	if err != nil {
		return nil, err
	}
	s.logger.Info("profile published",
		zap.String("filmmaker_id", saved.ID.String()),
		zap.String("user_id", userID.String()))
	return saved, nil
}

// SaveLegacy stores an ingested profile under a fixed id so re-ingesting
// the same export updates rows in place.
func (s *ProfileService) SaveLegacy(ctx context.Context, id uuid.UUID, p models.ProfileData) (*models.Filmmaker, error) {
	row, err := ToFilmmaker(p, models.SourceLegacy)
	if err != nil {
		return nil, err
	}
	row.ID = id
	return s.store.UpsertFilmmaker(ctx, row)
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*Profile, error) {
	row, err := s.store.GetFilmmaker(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decode(row)
}

// GetByUser returns the profile owned by an account.
func (s *ProfileService) GetByUser(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	row, err := s.store.GetFilmmakerByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.decode(row)
}

// decode normalizes the stored blob. Rows of either vintage read the same;
// anything the normalizer could not carry over is logged.
func (s *ProfileService) decode(row *models.Filmmaker) (*Profile, error) {
	data, rep, err := reconcile.NormalizeJSON(row.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to read filmmaker %s: %w", row.ID, err)
	}
	if !rep.Clean() {
		s.logger.Warn("profile normalized with losses",
			zap.String("filmmaker_id", row.ID.String()),
			zap.Strings("unknown_keys", rep.UnknownKeys),
			zap.Any("conflicts", rep.Conflicts),
			zap.Strings("dropped_roles", rep.DroppedRoles))
	}
	if data.StageName == "" {
		data.StageName = row.StageName
	}
	return &Profile{
		ID:      row.ID,
		UserID:  row.UserID,
		Source:  row.Source,
		Data:    data,
		Report:  rep,
		Updated: row.UpdatedAt,
	}, nil
}

// Process embeds a filmmaker's profile text and stores the vector. It
// returns the vector length.
func (s *ProfileService) Process(ctx context.Context, id uuid.UUID) (int, error) {
	if s.embedder == nil {
		return 0, ErrEmbeddingsDisabled
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	vec, err := s.embedder.Embed(ctx, ai.ProfileText(p.Data))
	if err != nil {
		return 0, err
	}
	if err := s.store.StoreEmbedding(ctx, id, vec); err != nil {
		return 0, err
	}
	s.logger.Info("profile embedded", zap.String("filmmaker_id", id.String()), zap.Int("dimensions", len(vec)))
	return len(vec), nil
}

// IsNotFound reports whether err means the filmmaker does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, supabase.ErrNotFound)
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
