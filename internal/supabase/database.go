package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"cinegrok-backend/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

const foreignKeyViolation = "23503"

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// NewDatabaseClientWithDB wraps an existing pool.
func NewDatabaseClientWithDB(db *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: db}
}

// DB exposes the pool so the migrator can share it.
func (d *DatabaseClient) DB() *sql.DB {
	return d.db
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

const filmmakerColumns = `id, user_id, profile, stage_name, current_state, current_city, current_location, country,
	roles, role_tags, genre_tags, open_to_collaborations, photo_url, source, is_complete,
	created_at, updated_at`

func scanFilmmaker(row interface{ Scan(...any) error }) (*models.Filmmaker, error) {
	var f models.Filmmaker
	var profile []byte
	err := row.Scan(
		&f.ID, &f.UserID, &profile, &f.StageName, &f.CurrentState, &f.CurrentCity, &f.CurrentLocation, &f.Country,
		&f.Roles, &f.RoleTags, &f.GenreTags, &f.OpenToCollaborations, &f.PhotoURL, &f.Source, &f.IsComplete,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.Profile = profile
	return &f, nil
}

// UpsertFilmmaker writes the profile blob and its flattened columns. Rows
// owned by an account are keyed on user_id, ingested rows on id.
func (d *DatabaseClient) UpsertFilmmaker(ctx context.Context, f *models.Filmmaker) (*models.Filmmaker, error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	conflict := "id"
	if f.UserID.Valid {
		conflict = "user_id"
	}

	query := `
		INSERT INTO filmmakers (id, user_id, profile, stage_name, current_state, current_city, current_location, country,
			roles, role_tags, genre_tags, open_to_collaborations, photo_url, source, is_complete)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (` + conflict + `) DO UPDATE SET
			profile = EXCLUDED.profile,
			stage_name = EXCLUDED.stage_name,
			current_state = EXCLUDED.current_state,
			current_city = EXCLUDED.current_city,
			current_location = EXCLUDED.current_location,
			country = EXCLUDED.country,
			roles = EXCLUDED.roles,
			role_tags = EXCLUDED.role_tags,
			genre_tags = EXCLUDED.genre_tags,
			open_to_collaborations = EXCLUDED.open_to_collaborations,
			photo_url = EXCLUDED.photo_url,
			source = EXCLUDED.source,
			is_complete = EXCLUDED.is_complete,
			updated_at = NOW()
		RETURNING ` + filmmakerColumns

	out, err := scanFilmmaker(d.db.QueryRowContext(ctx, query,
		f.ID, f.UserID, []byte(f.Profile), f.StageName, f.CurrentState, f.CurrentCity, f.CurrentLocation, f.Country,
		pq.Array([]string(f.Roles)), pq.Array([]string(f.RoleTags)), pq.Array([]string(f.GenreTags)),
		f.OpenToCollaborations, f.PhotoURL, f.Source, f.IsComplete,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert filmmaker: %w", err)
	}
	return out, nil
}

func (d *DatabaseClient) GetFilmmaker(ctx context.Context, id uuid.UUID) (*models.Filmmaker, error) {
	f, err := scanFilmmaker(d.db.QueryRowContext(ctx,
		`SELECT `+filmmakerColumns+` FROM filmmakers WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get filmmaker: %w", err)
	}
	return f, nil
}

func (d *DatabaseClient) GetFilmmakerByUser(ctx context.Context, userID uuid.UUID) (*models.Filmmaker, error) {
	f, err := scanFilmmaker(d.db.QueryRowContext(ctx,
		`SELECT `+filmmakerColumns+` FROM filmmakers WHERE user_id = $1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get filmmaker: %w", err)
	}
	return f, nil
}

func (d *DatabaseClient) StoreEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE filmmakers SET embedding = $2, updated_at = NOW() WHERE id = $1`,
		id, pq.Array(embedding))
	if err != nil {
		return fmt.Errorf("failed to store embedding: %w", err)
	}
	return requireAffected(res)
}

func (d *DatabaseClient) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var a models.Account
	err := d.db.QueryRowContext(ctx,
		`SELECT id, email, role, created_at FROM profiles WHERE id = $1`, id,
	).Scan(&a.ID, &a.Email, &a.Role, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &a, nil
}

// UpsertAccount records the account row after signup. An existing role is
// kept.
func (d *DatabaseClient) UpsertAccount(ctx context.Context, a models.Account) error {
	if a.Role == "" {
		a.Role = models.AccountFilmmaker
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO profiles (id, email, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
	`, a.ID, a.Email, a.Role)
	if err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}
	return nil
}

const interestColumns = `id, user_id, filmmaker_id, status, notes, created_at, updated_at`

func scanInterest(row interface{ Scan(...any) error }) (*models.Interest, error) {
	var i models.Interest
	var status string
	if err := row.Scan(&i.ID, &i.UserID, &i.FilmmakerID, &status, &i.Notes, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	i.Status = models.InterestStatus(status)
	return &i, nil
}

// ExpressInterest records interest in a filmmaker. Repeating it returns the
// existing row unchanged.
func (d *DatabaseClient) ExpressInterest(ctx context.Context, userID, filmmakerID uuid.UUID) (*models.Interest, error) {
	i, err := scanInterest(d.db.QueryRowContext(ctx, `
		INSERT INTO interested_profiles (user_id, filmmaker_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, filmmaker_id) DO UPDATE SET user_id = interested_profiles.user_id
		RETURNING `+interestColumns,
		userID, filmmakerID, string(models.InterestInterested),
	))
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to express interest: %w", err)
	}
	return i, nil
}

func (d *DatabaseClient) UpdateInterestStatus(ctx context.Context, userID, filmmakerID uuid.UUID, status models.InterestStatus) (*models.Interest, error) {
	i, err := scanInterest(d.db.QueryRowContext(ctx, `
		UPDATE interested_profiles SET status = $3, updated_at = NOW()
		WHERE user_id = $1 AND filmmaker_id = $2
		RETURNING `+interestColumns,
		userID, filmmakerID, string(status),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update interest status: %w", err)
	}
	return i, nil
}

func (d *DatabaseClient) UpdateInterestNotes(ctx context.Context, userID, filmmakerID uuid.UUID, notes string) (*models.Interest, error) {
	i, err := scanInterest(d.db.QueryRowContext(ctx, `
		UPDATE interested_profiles SET notes = NULLIF($3, ''), updated_at = NOW()
		WHERE user_id = $1 AND filmmaker_id = $2
		RETURNING `+interestColumns,
		userID, filmmakerID, notes,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update interest notes: %w", err)
	}
	return i, nil
}

func (d *DatabaseClient) DeleteInterest(ctx context.Context, userID, filmmakerID uuid.UUID) error {
	res, err := d.db.ExecContext(ctx,
		`DELETE FROM interested_profiles WHERE user_id = $1 AND filmmaker_id = $2`,
		userID, filmmakerID)
	if err != nil {
		return fmt.Errorf("failed to delete interest: %w", err)
	}
	return requireAffected(res)
}

// ListInterests returns the viewer's tracked filmmakers, newest first. An
// empty status lists every status.
func (d *DatabaseClient) ListInterests(ctx context.Context, userID uuid.UUID, status models.InterestStatus) ([]models.Interest, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT i.id, i.user_id, i.filmmaker_id, i.status, i.notes, i.created_at, i.updated_at,
			f.stage_name, f.photo_url
		FROM interested_profiles i
		LEFT JOIN filmmakers f ON f.id = i.filmmaker_id
		WHERE i.user_id = $1 AND ($2 = '' OR i.status = $2)
		ORDER BY i.updated_at DESC
	`, userID, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}
	defer rows.Close()

	interests := []models.Interest{}
	for rows.Next() {
		var i models.Interest
		var st string
		if err := rows.Scan(&i.ID, &i.UserID, &i.FilmmakerID, &st, &i.Notes, &i.CreatedAt, &i.UpdatedAt,
			&i.StageName, &i.PhotoURL); err != nil {
			return nil, fmt.Errorf("failed to scan interest: %w", err)
		}
		i.Status = models.InterestStatus(st)
		interests = append(interests, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}
	return interests, nil
}

// RecordClick stores one click event.
func (d *DatabaseClient) RecordClick(ctx context.Context, e models.ClickEvent) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO profile_clicks (filmmaker_id, category, target_id, viewer_id, clicked_at)
		VALUES ($1, $2, $3, $4, $5)
	`, e.FilmmakerID, e.Category, e.TargetID, e.ViewerID, e.At)
	if err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}
	return nil
}

// ClickCounts groups a filmmaker's clicks by category and target.
func (d *DatabaseClient) ClickCounts(ctx context.Context, filmmakerID uuid.UUID) ([]models.ClickCount, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT category, target_id, COUNT(*)
		FROM profile_clicks
		WHERE filmmaker_id = $1
		GROUP BY category, target_id
		ORDER BY category, COUNT(*) DESC, target_id
	`, filmmakerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count clicks: %w", err)
	}
	defer rows.Close()

	counts := []models.ClickCount{}
	for rows.Next() {
		var c models.ClickCount
		if err := rows.Scan(&c.Category, &c.TargetID, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan click count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to count clicks: %w", err)
	}
	return counts, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
