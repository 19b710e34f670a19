package browse_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinegrok-backend/internal/browse"
	"cinegrok-backend/internal/models"
)

type fakeQuerier struct {
	rows  []models.FilmmakerCard
	count int
	err   error
	got   browse.Filter
}

func (f *fakeQuerier) FilmmakersWithFilters(_ context.Context, flt browse.Filter) ([]models.FilmmakerCard, int, error) {
	f.got = flt
	return f.rows, f.count, f.err
}

func TestParseFilter(t *testing.T) {
	v, err := url.ParseQuery("role=director&page=2&collab=yes&limit=500&search=+Arjun+&genre=Drama&state=Kerala")
	require.NoError(t, err)

	got := browse.ParseFilter(v)
	want := browse.Filter{Page: 2, Limit: browse.MaxLimit, Search: "Arjun", Role: "director", State: "Kerala", Genre: "Drama", Collab: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseFilter mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFilter_Defaults(t *testing.T) {
	v, _ := url.ParseQuery("page=-3&limit=abc&collab=maybe")
	got := browse.ParseFilter(v)
	assert.Equal(t, browse.Filter{Page: 1, Limit: browse.DefaultLimit}, got)
}

func TestFilterQuery_RoundTrip(t *testing.T) {
	f := browse.Filter{Page: 3, Limit: 12, Role: "Editor", Collab: true}
	assert.Equal(t, "collab=true&page=3&role=Editor", f.Query().Encode())
	assert.Equal(t, f, browse.ParseFilter(f.Query()))
	assert.Equal(t, "", browse.Filter{Page: 1, Limit: 12}.Query().Encode())
}

func TestPaginate_ScenarioPageTwoOfThree(t *testing.T) {
	got := browse.Paginate(2, 12, 25)
	want := browse.Pagination{Page: 2, Limit: 12, Total: 25, TotalPages: 3, FirstItem: 13, LastItem: 24, HasPrev: true, HasNext: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Paginate mismatch (-want +got):\n%s", diff)
	}
}

func TestPaginate_Edges(t *testing.T) {
	last := browse.Paginate(3, 12, 25)
	assert.Equal(t, 25, last.FirstItem)
	assert.Equal(t, 25, last.LastItem)
	assert.False(t, last.HasNext)

	empty := browse.Paginate(1, 12, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.Zero(t, empty.FirstItem)
	assert.False(t, empty.HasPrev)
	assert.False(t, empty.HasNext)

	beyond := browse.Paginate(9, 12, 25)
	assert.Zero(t, beyond.FirstItem)
	assert.True(t, beyond.HasPrev)
	assert.False(t, beyond.HasNext)

	exact := browse.Paginate(2, 12, 24)
	assert.Equal(t, 2, exact.TotalPages)
	assert.False(t, exact.HasNext)
}

func TestService_List(t *testing.T) {
	store := &fakeQuerier{
		rows:  []models.FilmmakerCard{{ID: "f13", StageName: "Arjun"}},
		count: 25,
	}
	svc := browse.NewService(store, "/api/v1/filmmakers")

	v, _ := url.ParseQuery("role=director&page=2")
	page, err := svc.List(context.Background(), browse.ParseFilter(v))
	require.NoError(t, err)

	assert.Equal(t, "director", store.got.Role)
	assert.Equal(t, 12, store.got.Offset())
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.Equal(t, "/api/v1/filmmakers?page=2&role=director", page.Links.Self)
	assert.Equal(t, "/api/v1/filmmakers?role=director", page.Links.Prev)
	assert.Equal(t, "/api/v1/filmmakers?page=3&role=director", page.Links.Next)
}

func TestService_ListError(t *testing.T) {
	svc := browse.NewService(&fakeQuerier{err: errors.New("boom")}, "/x")
	_, err := svc.List(context.Background(), browse.Filter{Page: 1, Limit: 12})
	assert.ErrorContains(t, err, "boom")
}

func TestService_ListEmptyNeverNil(t *testing.T) {
	svc := browse.NewService(&fakeQuerier{}, "/x")
	page, err := svc.List(context.Background(), browse.Filter{Page: 1, Limit: 12})
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Equal(t, "/x", page.Links.Self)
}
