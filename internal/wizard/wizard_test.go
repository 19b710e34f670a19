package wizard_test

import (
	"errors"
	"math/rand"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/wizard"
)

const personalJSON = `{"stageName":"Arjun Mehta","email":"a@x.com","country":"India","profilePhotoUrl":"https://cdn.example.com/arjun.jpg"}`

func TestScenario_ThirdPrimaryRoleRejected(t *testing.T) {
	var hist wizard.History
	w := wizard.New(&hist)

	require.NoError(t, w.ApplyFields([]byte(personalJSON)))
	require.NoError(t, w.Next())
	assert.Equal(t, wizard.StepProfessional, w.Step())
	assert.Equal(t, []wizard.Step{wizard.StepProfessional}, hist.Entries)

	require.NoError(t, w.SelectPrimary("Director"))
	require.NoError(t, w.SelectPrimary("Cinematographer"))

	err := w.SelectPrimary("Editor")
	var warn *wizard.LimitWarning
	require.True(t, errors.As(err, &warn))
	assert.Equal(t, wizard.SlotPrimary, warn.Slot)
	assert.Equal(t, 2, warn.Limit)
	assert.Equal(t, []string{"Director", "Cinematographer"}, w.Profile().PrimaryRoles)
}

func TestNext_ValidationBlocks(t *testing.T) {
	var hist wizard.History
	w := wizard.New(&hist)
	require.NoError(t, w.ApplyFields([]byte(`{"stageName":"Arjun","email":"not-an-email"}`)))

	err := w.Next()
	var verr *wizard.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "country")
	assert.Contains(t, verr.Fields, "profilePhotoUrl")
	assert.NotContains(t, verr.Fields, "stageName")
	assert.Equal(t, wizard.StepPersonal, w.Step())
	assert.False(t, hist.Pushed())
}

func TestNext_ProfessionalNeedsPrimaryRole(t *testing.T) {
	w := wizard.New(nil)
	require.NoError(t, w.ApplyFields([]byte(personalJSON)))
	require.NoError(t, w.Next())

	assert.Error(t, w.Next())
	require.NoError(t, w.SelectSecondary("Editor"))
	assert.Error(t, w.Next())
	require.NoError(t, w.SelectPrimary("Director"))
	require.NoError(t, w.Next())
	assert.Equal(t, wizard.StepFilmography, w.Step())

	// later steps have no requirements and Next stops at the last step
	for i := 0; i < 5; i++ {
		require.NoError(t, w.Next())
	}
	assert.Equal(t, wizard.StepPreview, w.Step())
}

func TestSetStep_Clamps(t *testing.T) {
	var hist wizard.History
	w := wizard.New(&hist)
	for _, n := range []int{-100, -1, 0, 1, 3, 6, 7, 1 << 30} {
		s := w.SetStep(n)
		assert.GreaterOrEqual(t, int(s), 1, "n=%d", n)
		assert.LessOrEqual(t, int(s), 6, "n=%d", n)
		assert.Equal(t, s, w.Step())
	}
	assert.False(t, hist.Pushed(), "SetStep must not record history")
}

func TestGoTo_OnlyBackwards(t *testing.T) {
	var hist wizard.History
	w := wizard.New(&hist)
	w.SetStep(4)

	assert.False(t, w.GoTo(4))
	assert.False(t, w.GoTo(5))
	assert.False(t, w.GoTo(0))
	assert.Equal(t, wizard.StepSocial, w.Step())
	assert.False(t, hist.Pushed())

	assert.True(t, w.GoTo(2))
	assert.Equal(t, wizard.StepProfessional, w.Step())
	assert.Equal(t, []wizard.Step{wizard.StepProfessional}, hist.Entries)
}

func TestBack_ClampsAndPushes(t *testing.T) {
	var hist wizard.History
	w := wizard.New(&hist)
	w.Back()
	assert.Equal(t, wizard.StepPersonal, w.Step())

	w.SetStep(3)
	w.Back()
	assert.Equal(t, wizard.StepProfessional, w.Step())
	assert.Equal(t, []wizard.Step{wizard.StepPersonal, wizard.StepProfessional}, hist.Entries)
}

func TestStepFromQuery(t *testing.T) {
	tests := map[string]wizard.Step{
		"step=3":   wizard.StepFilmography,
		"step=99":  wizard.StepPreview,
		"step=-2":  wizard.StepPersonal,
		"step=abc": wizard.StepPersonal,
		"":         wizard.StepPersonal,
	}
	for raw, want := range tests {
		v, err := url.ParseQuery(raw)
		require.NoError(t, err)
		assert.Equal(t, want, wizard.StepFromQuery(v), raw)
	}
	assert.Equal(t, "step=2", wizard.StepProfessional.Query())
}

func TestRoleSelection_MovesBetweenLists(t *testing.T) {
	w := wizard.New(nil)
	require.NoError(t, w.SelectSecondary("Editor"))
	require.NoError(t, w.SelectPrimary("Editor"))
	assert.Equal(t, []string{"Editor"}, w.Profile().PrimaryRoles)
	assert.Empty(t, w.Profile().SecondaryRoles)

	require.NoError(t, w.SelectSecondary("Editor"))
	assert.Empty(t, w.Profile().PrimaryRoles)
	assert.Equal(t, []string{"Editor"}, w.Profile().SecondaryRoles)

	// toggling off
	require.NoError(t, w.SelectSecondary("Editor"))
	assert.Empty(t, w.Profile().SecondaryRoles)

	assert.ErrorIs(t, w.SelectPrimary("  "), wizard.ErrEmptyRole)
}

func TestRoleSelection_InvariantsUnderRandomToggles(t *testing.T) {
	pool := []string{"Director", "Editor", "Writer", "Actor", "Colorist", "Composer", "Producer"}
	rng := rand.New(rand.NewSource(42))
	w := wizard.New(nil)

	for i := 0; i < 2000; i++ {
		role := pool[rng.Intn(len(pool))]
		var err error
		if rng.Intn(2) == 0 {
			err = w.SelectPrimary(role)
		} else {
			err = w.SelectSecondary(role)
		}
		if err != nil {
			var warn *wizard.LimitWarning
			require.True(t, errors.As(err, &warn), "unexpected error %v", err)
		}

		p := w.Profile()
		require.LessOrEqual(t, len(p.PrimaryRoles), 2)
		require.LessOrEqual(t, len(p.SecondaryRoles), 2)
		require.LessOrEqual(t, len(p.PrimaryRoles)+len(p.SecondaryRoles), 4)
		for _, r := range p.PrimaryRoles {
			require.NotContains(t, p.SecondaryRoles, r)
		}
	}
}

func TestAddCustomRole(t *testing.T) {
	w := wizard.New(nil)

	require.NoError(t, w.AddCustomRole("Puppeteer", wizard.SlotPrimary))
	assert.Equal(t, []string{"Puppeteer"}, w.CustomRoles())
	assert.Equal(t, []string{"Puppeteer"}, w.Profile().PrimaryRoles)
	assert.Contains(t, w.AvailableRoles(), "Puppeteer")

	// same text again toggles instead of duplicating
	require.NoError(t, w.AddCustomRole("Puppeteer", wizard.SlotPrimary))
	assert.Equal(t, []string{"Puppeteer"}, w.CustomRoles())
	assert.Empty(t, w.Profile().PrimaryRoles)

	// standard role match is case-sensitive
	require.NoError(t, w.AddCustomRole("Director", wizard.SlotPrimary))
	assert.Equal(t, []string{"Puppeteer"}, w.CustomRoles())
	require.NoError(t, w.AddCustomRole("director", wizard.SlotSecondary))
	assert.Equal(t, []string{"Puppeteer", "director"}, w.CustomRoles())

	// limits still apply; the custom role is kept for later
	require.NoError(t, w.SelectPrimary("Editor"))
	err := w.AddCustomRole("Gaffer", wizard.SlotPrimary)
	var warn *wizard.LimitWarning
	require.True(t, errors.As(err, &warn))
	assert.Contains(t, w.CustomRoles(), "Gaffer")
	assert.NotContains(t, w.Profile().PrimaryRoles, "Gaffer")

	assert.Error(t, w.AddCustomRole("Grip", wizard.Slot("tertiary")))
}

func TestHasUnsavedChanges(t *testing.T) {
	w := wizard.New(nil)
	assert.False(t, w.HasUnsavedChanges())

	require.NoError(t, w.ApplyFields([]byte(personalJSON)))
	require.NoError(t, w.SelectPrimary("Director"))
	assert.False(t, w.HasUnsavedChanges(), "five fields is not enough")

	require.NoError(t, w.ApplyFields([]byte(`{"currentCity":"Mumbai"}`)))
	assert.True(t, w.HasUnsavedChanges())
}

func TestApplyFields_StepScoped(t *testing.T) {
	w := wizard.New(nil)
	require.NoError(t, w.ApplyFields([]byte(`{"stageName":"Arjun","visualStyle":"noir"}`)))
	assert.Equal(t, "Arjun", w.Profile().StageName)
	assert.Empty(t, w.Profile().VisualStyle)

	// partial update keeps earlier values
	require.NoError(t, w.ApplyFields([]byte(`{"email":"a@x.com"}`)))
	assert.Equal(t, "Arjun", w.Profile().StageName)

	w.SetStep(int(wizard.StepSocial))
	require.NoError(t, w.ApplyFields([]byte(`{"instagram":"https://instagram.com/arjun"}`)))
	assert.Equal(t, "https://instagram.com/arjun", w.Profile().SocialLinks.Instagram)

	w.SetStep(int(wizard.StepFilmography))
	assert.ErrorIs(t, w.ApplyFields([]byte(`{}`)), wizard.ErrNoFields)

	w.SetStep(int(wizard.StepEducation))
	assert.Error(t, w.ApplyFields([]byte(`not json`)))
}

func TestFilmography_Editing(t *testing.T) {
	w := wizard.New(nil)
	f := w.AddFilm()
	f.Title = "Dust"
	f.Year = "2019"
	f.PrimaryRole = "Director"
	require.NoError(t, w.UpdateFilm(f))

	require.NoError(t, w.ToggleFilmGenre(f.ID, "Drama"))
	require.NoError(t, w.ToggleFilmRole(f.ID, "Editor"))
	require.NoError(t, w.ToggleFilmRole(f.ID, "Director"))

	a, err := w.AddAchievement(f.ID, models.AchievementNomination)
	require.NoError(t, err)
	assert.Equal(t, models.ResultNominated, a.Result)
	assert.Equal(t, "2019", a.Year)

	require.NoError(t, w.SetAchievementType(f.ID, a.ID, models.AchievementAward))
	got := w.Profile().Filmography[0]
	assert.Equal(t, []string{"Drama"}, got.Genres)
	assert.Equal(t, []string{"Editor"}, got.AdditionalRoles)
	require.Len(t, got.Achievements, 1)
	assert.Equal(t, models.ResultWon, got.Achievements[0].Result)

	assert.ErrorIs(t, w.SetAchievementType(f.ID, "missing", models.AchievementAward), wizard.ErrAchievementNotFound)
	require.NoError(t, w.RemoveAchievement(f.ID, a.ID))
	assert.Empty(t, w.Profile().Filmography[0].Achievements)

	assert.ErrorIs(t, w.RemoveFilm("missing"), wizard.ErrFilmNotFound)
	require.NoError(t, w.RemoveFilm(f.ID))
	assert.Empty(t, w.Profile().Filmography)
}

func TestPublish(t *testing.T) {
	w := wizard.New(nil)
	require.NoError(t, w.ApplyFields([]byte(personalJSON)))
	require.NoError(t, w.SelectPrimary("Director"))

	// zero films is fine
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	p, err := w.Publish(now)
	require.NoError(t, err)
	assert.True(t, p.IsComplete)
	assert.Equal(t, now, p.LastUpdated)

	w.AddFilm()
	_, err = w.Publish(now)
	var verr *wizard.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, wizard.StepFilmography, verr.Step)
	assert.Contains(t, verr.Fields, "filmography[0].title")
}

func TestResume_ClampsStoredState(t *testing.T) {
	w := wizard.Resume(wizard.State{
		Step: 42,
		Profile: models.ProfileData{
			PrimaryRoles: []string{"A", "B", "C"},
		},
	}, nil)

	assert.Equal(t, wizard.StepPreview, w.Step())
	assert.Equal(t, []string{"A", "B"}, w.Profile().PrimaryRoles)
	assert.Equal(t, []string{"C"}, w.Profile().SecondaryRoles)
	assert.NotNil(t, w.State().CustomRoles)
	assert.NotNil(t, w.Profile().Filmography)
}
