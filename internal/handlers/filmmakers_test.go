package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinegrok-backend/internal/browse"
	"cinegrok-backend/internal/handlers"
	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/render"
	"cinegrok-backend/internal/services"
	"cinegrok-backend/internal/supabase"
)

type fakeDirectory struct {
	got   browse.Filter
	cards []models.FilmmakerCard
	count int
	err   error
}

func (f *fakeDirectory) FilmmakersWithFilters(_ context.Context, flt browse.Filter) ([]models.FilmmakerCard, int, error) {
	f.got = flt
	return f.cards, f.count, f.err
}

type fakeProfiles map[uuid.UUID]*services.Profile

func (f fakeProfiles) Get(_ context.Context, id uuid.UUID) (*services.Profile, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, supabase.ErrNotFound
}

func (f fakeProfiles) GetByUser(_ context.Context, userID uuid.UUID) (*services.Profile, error) {
	for _, p := range f {
		if p.UserID.Valid && p.UserID.UUID == userID {
			return p, nil
		}
	}
	return nil, supabase.ErrNotFound
}

type fakeClicks struct {
	counts []models.ClickCount
}

func (f *fakeClicks) ClickCounts(context.Context, uuid.UUID) ([]models.ClickCount, error) {
	return f.counts, nil
}

type fakeTracker struct {
	events []models.ClickEvent
}

func (f *fakeTracker) Track(e models.ClickEvent) error {
	f.events = append(f.events, e)
	return nil
}

func profileFixture(owner uuid.UUID) *services.Profile {
	p := models.NewProfileData()
	p.StageName = "Meera Nair"
	p.Email = "meera@example.com"
	p.CurrentCity, p.CurrentState = "Kochi", "Kerala"
	p.PrimaryRoles = []string{"Director"}
	film := models.NewFilmographyEntry()
	film.Title, film.Year, film.ProductionStatus = "Tide", "2019", "Released"
	film.Achievements = []models.FilmAchievement{models.NewFilmAchievement(models.AchievementAward, "IFFK", "2019")}
	p.Filmography = []models.FilmographyEntry{film}

	return &services.Profile{
		ID:     uuid.New(),
		UserID: uuid.NullUUID{UUID: owner, Valid: owner != uuid.Nil},
		Source: models.SourceWizard,
		Data:   p,
	}
}

type filmmakersFixture struct {
	directory *fakeDirectory
	profile   *services.Profile
	clicks    *fakeClicks
	tracker   *fakeTracker
	owner     uuid.UUID
	accounts  memoryAccounts
}

func newFilmmakersRouter(t *testing.T, policy render.GatePolicy, user uuid.UUID) (*gin.Engine, *filmmakersFixture) {
	t.Helper()
	fx := &filmmakersFixture{
		directory: &fakeDirectory{},
		clicks:    &fakeClicks{},
		tracker:   &fakeTracker{},
		owner:     uuid.New(),
		accounts:  memoryAccounts{},
	}
	fx.profile = profileFixture(fx.owner)
	if user != uuid.Nil {
		fx.accounts[user] = models.Account{ID: user, Role: models.AccountProducer}
	}

	h := handlers.NewFilmmakersHandler(
		browse.NewService(fx.directory, "/api/v1/filmmakers"),
		fakeProfiles{fx.profile.ID: fx.profile},
		render.NewRenderer(policy, "/login"),
		fx.accounts, fx.clicks, fx.tracker, nil)

	router := newRouter()
	if user != uuid.Nil {
		router.Use(as(user))
	}
	router.GET("/api/v1/filmmakers", h.List)
	router.GET("/api/v1/filmmakers/:id", h.Get)
	router.GET("/api/v1/profile", h.Mine)
	router.GET("/api/v1/filmmakers/:id/stats", h.Stats)
	router.GET("/api/v1/filmmakers/:id/analytics", h.Analytics)
	router.POST("/api/v1/filmmakers/:id/clicks", h.Click)
	return router, fx
}

func TestFilmmakers_ListPaginates(t *testing.T) {
	router, fx := newFilmmakersRouter(t, render.GatePrompt, uuid.Nil)
	fx.directory.cards = []models.FilmmakerCard{{ID: "f13", StageName: "Arjun"}}
	fx.directory.count = 25

	w := do(router, http.MethodGet, "/api/v1/filmmakers?page=2&role=Director&collab=yes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	page := decode[browse.Page](t, w)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.Equal(t, 13, page.Pagination.FirstItem)
	assert.Equal(t, 24, page.Pagination.LastItem)
	assert.True(t, page.Pagination.HasPrev)
	assert.True(t, page.Pagination.HasNext)
	assert.Equal(t, "Director", fx.directory.got.Role)
	assert.True(t, fx.directory.got.Collab)
	assert.Contains(t, page.Links.Next, "page=3")
}

func TestFilmmakers_ListStoreError(t *testing.T) {
	router, fx := newFilmmakersRouter(t, render.GatePrompt, uuid.Nil)
	fx.directory.err = errors.New("upstream timeout")

	w := do(router, http.MethodGet, "/api/v1/filmmakers", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to list filmmakers", decode[models.ErrorResponse](t, w).Error)
}

func TestFilmmakers_ProducerModeGate(t *testing.T) {
	tests := []struct {
		name       string
		policy     render.GatePolicy
		user       uuid.UUID
		wantMode   render.Mode
		wantPrompt bool
	}{
		{"anonymous prompt", render.GatePrompt, uuid.Nil, render.ModeAudience, true},
		{"anonymous noop", render.GateNoop, uuid.Nil, render.ModeAudience, false},
		{"producer account", render.GatePrompt, uuid.New(), render.ModeProducer, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, fx := newFilmmakersRouter(t, tt.policy, tt.user)

			w := do(router, http.MethodGet, "/api/v1/filmmakers/"+fx.profile.ID.String()+"?mode=producer", nil)
			require.Equal(t, http.StatusOK, w.Code)

			view := decode[render.View](t, w)
			assert.Equal(t, tt.wantMode, view.Mode)
			assert.Equal(t, render.ModeProducer, view.RequestedMode)
			assert.Equal(t, tt.wantPrompt, view.LoginPrompt != nil)
			if tt.wantMode == render.ModeProducer {
				require.NotNil(t, view.Producer)
				assert.Equal(t, "meera@example.com", view.Producer.Contact.Email)
			} else {
				require.NotNil(t, view.Audience)
				assert.NotContains(t, w.Body.String(), "meera@example.com")
			}
		})
	}
}

func TestFilmmakers_ProducerViewNeedsProducerAccount(t *testing.T) {
	user := uuid.New()
	router, fx := newFilmmakersRouter(t, render.GatePrompt, user)
	fx.accounts[user] = models.Account{ID: user, Role: models.AccountFilmmaker}
	path := "/api/v1/filmmakers/" + fx.profile.ID.String() + "?mode=producer"

	view := decode[render.View](t, do(router, http.MethodGet, path, nil))
	assert.Equal(t, render.ModeAudience, view.Mode)
	assert.NotNil(t, view.LoginPrompt)
	assert.Nil(t, view.Producer)

	delete(fx.accounts, user)
	view = decode[render.View](t, do(router, http.MethodGet, path, nil))
	assert.Equal(t, render.ModeAudience, view.Mode)

	fx.accounts[user] = models.Account{ID: user, Role: models.AccountProducer}
	view = decode[render.View](t, do(router, http.MethodGet, path, nil))
	assert.Equal(t, render.ModeProducer, view.Mode)
	require.NotNil(t, view.Producer)
}

func TestFilmmakers_Mine(t *testing.T) {
	user := uuid.New()
	router, fx := newFilmmakersRouter(t, render.GatePrompt, user)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/v1/profile", nil).Code)

	fx.profile.UserID = uuid.NullUUID{UUID: user, Valid: true}
	w := do(router, http.MethodGet, "/api/v1/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[handlers.OwnProfileResponse](t, w)
	assert.Equal(t, fx.profile.ID.String(), resp.FilmmakerID)
	assert.Equal(t, "meera@example.com", resp.Profile.Email)
}

func TestFilmmakers_GetErrors(t *testing.T) {
	router, _ := newFilmmakersRouter(t, render.GatePrompt, uuid.Nil)

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/api/v1/filmmakers/not-a-uuid", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/v1/filmmakers/"+uuid.NewString(), nil).Code)
}

func TestFilmmakers_Stats(t *testing.T) {
	router, fx := newFilmmakersRouter(t, render.GatePrompt, uuid.Nil)

	w := do(router, http.MethodGet, "/api/v1/filmmakers/"+fx.profile.ID.String()+"/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[handlers.StatsResponse](t, w)
	assert.Equal(t, 1, resp.Summary.Films)
	assert.Equal(t, 1, resp.Achievements.Wins)
	assert.Equal(t, 1, resp.Breakdown.ByStatus.Get("Released"))
}

func TestFilmmakers_AnalyticsOwnerOnly(t *testing.T) {
	router, fx := newFilmmakersRouter(t, render.GatePrompt, uuid.New())
	w := do(router, http.MethodGet, "/api/v1/filmmakers/"+fx.profile.ID.String()+"/analytics", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	router, fx = newFilmmakersRouter(t, render.GatePrompt, uuid.Nil)
	w = do(router, http.MethodGet, "/api/v1/filmmakers/"+fx.profile.ID.String()+"/analytics", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFilmmakers_AnalyticsForOwner(t *testing.T) {
	owner := uuid.New()
	router, fx := newFilmmakersRouter(t, render.GatePrompt, owner)
	fx.profile.UserID = uuid.NullUUID{UUID: owner, Valid: true}
	fx.clicks.counts = []models.ClickCount{
		{Category: models.ClickSocial, TargetID: "instagram", Count: 7},
		{Category: models.ClickWatch, TargetID: "film-1", Count: 2},
	}

	w := do(router, http.MethodGet, "/api/v1/filmmakers/"+fx.profile.ID.String()+"/analytics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[models.AnalyticsResponse](t, w)
	assert.Equal(t, int64(9), resp.Total)
	assert.Equal(t, int64(7), resp.ByCategory[models.ClickSocial])
	assert.Equal(t, int64(0), resp.ByCategory[models.ClickTrailer])
	assert.Len(t, resp.Targets, 2)
}

func TestFilmmakers_Click(t *testing.T) {
	viewer := uuid.New()
	router, fx := newFilmmakersRouter(t, render.GatePrompt, viewer)
	path := "/api/v1/filmmakers/" + fx.profile.ID.String() + "/clicks"

	w := do(router, http.MethodPost, path, map[string]string{"category": "trailer", "target_id": "film-1"})
	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, fx.tracker.events, 1)
	assert.Equal(t, fx.profile.ID, fx.tracker.events[0].FilmmakerID)
	assert.Equal(t, uuid.NullUUID{UUID: viewer, Valid: true}, fx.tracker.events[0].ViewerID)

	w = do(router, http.MethodPost, path, map[string]string{"category": "poster"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "validation failed", decode[models.ValidationErrorResponse](t, w).Error)
	assert.Len(t, fx.tracker.events, 1)
}

func TestFilmmakers_NoDatabase(t *testing.T) {
	h := handlers.NewFilmmakersHandler(browse.NewService(&fakeDirectory{}, "/api/v1/filmmakers"), nil,
		render.NewRenderer(render.GatePrompt, "/login"), nil, nil, &fakeTracker{}, nil)
	router := newRouter()
	router.GET("/api/v1/filmmakers/:id", h.Get)
	router.GET("/api/v1/filmmakers/:id/analytics", as(uuid.New()), h.Analytics)

	for _, path := range []string{"/api/v1/filmmakers/" + uuid.NewString(), "/api/v1/filmmakers/" + uuid.NewString() + "/analytics"} {
		w := do(router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.Equal(t, "database not available", decode[models.ErrorResponse](t, w).Error)
	}
}
