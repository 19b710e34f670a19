// Package browse turns the filmmaker directory's query string into a
// store query and a pagination model. Filtering itself happens in the
// store.
package browse

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"cinegrok-backend/internal/models"
)

const (
	DefaultLimit = 12
	MaxLimit     = 48
)

// Filter is the directory query, read from and written to the address.
type Filter struct {
	Page   int
	Limit  int
	Search string
	Role   string
	State  string
	Genre  string
	Collab bool
}

// ParseFilter reads a filter from query values. Bad numbers fall back to
// the defaults rather than failing the page.
func ParseFilter(v url.Values) Filter {
	f := Filter{
		Page:   positive(v.Get("page"), 1),
		Limit:  positive(v.Get("limit"), DefaultLimit),
		Search: strings.TrimSpace(v.Get("search")),
		Role:   strings.TrimSpace(v.Get("role")),
		State:  strings.TrimSpace(v.Get("state")),
		Genre:  strings.TrimSpace(v.Get("genre")),
		Collab: truthy(v.Get("collab")),
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

// Query renders the canonical query string. Defaults are omitted so the
// shortest address identifies a view.
func (f Filter) Query() url.Values {
	v := url.Values{}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Role != "" {
		v.Set("role", f.Role)
	}
	if f.State != "" {
		v.Set("state", f.State)
	}
	if f.Genre != "" {
		v.Set("genre", f.Genre)
	}
	if f.Collab {
		v.Set("collab", "true")
	}
	if f.Page > 1 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit != DefaultLimit && f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}

// WithPage returns a copy of f on another page.
func (f Filter) WithPage(page int) Filter {
	f.Page = page
	return f
}

// Offset is the zero based index of the first row of the page.
func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Pagination describes where a page sits in the full result.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	FirstItem  int  `json:"first_item"`
	LastItem   int  `json:"last_item"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// Paginate computes the page model from the total match count. Item
// ordinals are one based; an empty result has FirstItem and LastItem zero.
func Paginate(page, limit, count int) Pagination {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page < 1 {
		page = 1
	}
	if count < 0 {
		count = 0
	}
	p := Pagination{
		Page:       page,
		Limit:      limit,
		Total:      count,
		TotalPages: (count + limit - 1) / limit,
	}
	first := (page-1)*limit + 1
	if first <= count {
		p.FirstItem = first
		p.LastItem = min(page*limit, count)
	}
	p.HasPrev = page > 1
	p.HasNext = page < p.TotalPages
	return p
}

// Page is one directory response.
type Page struct {
	Data       []models.FilmmakerCard `json:"data"`
	Pagination Pagination             `json:"pagination"`
	Links      Links                  `json:"links"`
}

// Links are the bookmarkable neighbours of a page.
type Links struct {
	Self string `json:"self"`
	Prev string `json:"prev,omitempty"`
	Next string `json:"next,omitempty"`
}

// Querier runs a filter against the store and returns the page of rows
// together with the total match count.
type Querier interface {
	FilmmakersWithFilters(ctx context.Context, f Filter) ([]models.FilmmakerCard, int, error)
}

type Service struct {
	store    Querier
	basePath string
}

func NewService(store Querier, basePath string) *Service {
	return &Service{store: store, basePath: basePath}
}

// List fetches one page of the directory.
func (s *Service) List(ctx context.Context, f Filter) (*Page, error) {
	rows, count, err := s.store.FilmmakersWithFilters(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list filmmakers: %w", err)
	}
	if rows == nil {
		rows = []models.FilmmakerCard{}
	}
	pg := Paginate(f.Page, f.Limit, count)
	page := &Page{
		Data:       rows,
		Pagination: pg,
		Links:      Links{Self: s.link(f)},
	}
	if pg.HasPrev {
		page.Links.Prev = s.link(f.WithPage(f.Page - 1))
	}
	if pg.HasNext {
		page.Links.Next = s.link(f.WithPage(f.Page + 1))
	}
	return page, nil
}

func (s *Service) link(f Filter) string {
	q := f.Query().Encode()
	if q == "" {
		return s.basePath
	}
	return s.basePath + "?" + q
}

func positive(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
