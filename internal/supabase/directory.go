package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	postgrest "github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"cinegrok-backend/internal/browse"
	"cinegrok-backend/internal/models"
)

const cardColumns = "id,stage_name,current_city,current_state,country,roles,genre_tags,open_to_collaborations,photo_url"

// Collaboration stances that satisfy the collab filter.
var openStances = []string{models.CollabYes, models.CollabSelective}

// DirectoryClient runs the public filmmaker listing through PostgREST.
type DirectoryClient struct {
	client *supabase.Client
}

func NewDirectoryClient(c *Client) *DirectoryClient {
	return &DirectoryClient{client: c.Supabase}
}

// FilmmakersWithFilters returns one page of published filmmakers and the
// total match count. Role and genre match the lowercased tag columns.
func (d *DirectoryClient) FilmmakersWithFilters(ctx context.Context, f browse.Filter) ([]models.FilmmakerCard, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	q := d.client.From("filmmakers").
		Select(cardColumns, "exact", false).
		Eq("is_complete", "true")

	if term := searchTerm(f.Search); term != "" {
		q = q.Or(fmt.Sprintf("stage_name.ilike.*%[1]s*,current_city.ilike.*%[1]s*,current_state.ilike.*%[1]s*,current_location.ilike.*%[1]s*", term), "")
	}
	if f.Role != "" {
		q = q.Contains("role_tags", []string{strings.ToLower(f.Role)})
	}
	if f.Genre != "" {
		q = q.Contains("genre_tags", []string{strings.ToLower(f.Genre)})
	}
	if f.State != "" {
		q = q.Ilike("current_state", f.State)
	}
	if f.Collab {
		q = q.In("open_to_collaborations", openStances)
	}

	from := f.Offset()
	body, count, err := q.
		Order("updated_at", &postgrest.OrderOpts{Ascending: false}).
		Range(from, from+f.Limit-1, "").
		Execute()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query filmmakers: %w", err)
	}

	var cards []models.FilmmakerCard
	if err := json.Unmarshal(body, &cards); err != nil {
		return nil, 0, fmt.Errorf("failed to decode filmmakers: %w", err)
	}
	return cards, int(count), nil
}

// Search is the free-text search behind /search.
func (d *DirectoryClient) Search(ctx context.Context, query string, limit int) ([]models.FilmmakerCard, error) {
	cards, _, err := d.FilmmakersWithFilters(ctx, browse.Filter{Page: 1, Limit: limit, Search: query})
	return cards, err
}

// Match ranks filmmakers by cosine similarity to embedding through the
// match_filmmakers function.
func (d *DirectoryClient) Match(ctx context.Context, embedding []float32, count int) ([]models.FilmmakerMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := d.client.Rpc("match_filmmakers", "", map[string]any{
		"query_embedding": embedding,
		"match_count":     count,
	})
	if raw == "" {
		return nil, fmt.Errorf("failed to call match_filmmakers: empty response")
	}

	var matches []models.FilmmakerMatch
	if err := json.Unmarshal([]byte(raw), &matches); err != nil {
		var pgErr postgrest.ExecuteError
		if json.Unmarshal([]byte(raw), &pgErr) == nil && pgErr.Message != "" {
			return nil, fmt.Errorf("failed to call match_filmmakers: (%s) %s", pgErr.Code, pgErr.Message)
		}
		return nil, fmt.Errorf("failed to decode matches: %w", err)
	}
	return matches, nil
}

// searchTerm strips the characters PostgREST treats as syntax inside an or
// filter.
func searchTerm(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case ',', '(', ')', '*', '.', ':':
			return -1
		}
		return r
	}, s))
}
