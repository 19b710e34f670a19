package reconcile_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/reconcile"
)

func record(t *testing.T, raw string) reconcile.Record {
	t.Helper()
	var r reconcile.Record
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return r
}

func TestDisplayName_Priority(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"wizard wins", `{"stageName":"Ray","name":"Satyajit"}`, "Ray"},
		{"blank wizard falls back", `{"stageName":"   ","name":"Satyajit"}`, "Satyajit"},
		{"legacy only", `{"name":"Mira"}`, "Mira"},
		{"neither", `{}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconcile.DisplayName(record(t, tt.raw)))
		})
	}
}

func TestDisplayLocation(t *testing.T) {
	assert.Equal(t, "Kolkata", reconcile.DisplayLocation(record(t, `{"current_location":"Kolkata","currentCity":"Mumbai"}`)))
	assert.Equal(t, "Pune, India", reconcile.DisplayLocation(record(t, `{"currentCity":"Pune","currentState":"","country":"India"}`)))
	assert.Equal(t, reconcile.LocationPlaceholder, reconcile.DisplayLocation(record(t, `{"currentCity":" "}`)))
	assert.Equal(t, reconcile.LocationPlaceholder, reconcile.DisplayLocation(nil))
}

func TestRoles_Shapes(t *testing.T) {
	assert.Equal(t, []string{"Director"}, reconcile.Roles(record(t, `{"role":"Director"}`)))
	assert.Equal(t, []string{"Director, Producer"}, reconcile.Roles(record(t, `{"role":"Director, Producer"}`)))
	assert.Equal(t, []string{"Director, Editor"}, reconcile.Roles(record(t, `{"roles":" Director, Editor "}`)))
	assert.Empty(t, reconcile.Roles(record(t, `{"role":"  "}`)))
	assert.Equal(t, []string{"Writer"}, reconcile.Roles(record(t, `{"primaryRoles":["Writer"],"roles":["Director"]}`)))
	assert.Equal(t, []string{"Director"}, reconcile.Roles(record(t, `{"primaryRoles":[],"roles":["Director"]}`)))

	empty := reconcile.Roles(record(t, `{}`))
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestResolve_DottedAndAbsent(t *testing.T) {
	r := record(t, `{"socialLinks":{"instagram":"https://instagram.com/ray"},"instagram":"old","tags":[],"meta":{}}`)

	assert.Equal(t, "https://instagram.com/ray", reconcile.String(r, "socialLinks.instagram", "instagram"))
	assert.Nil(t, reconcile.Resolve(r, "tags", "meta", "missing.path"))
	assert.Equal(t, "2021", reconcile.String(record(t, `{"year":2021}`), "year"))
}

func TestBool(t *testing.T) {
	v, ok := reconcile.Bool(record(t, `{"open":"yes"}`), "open")
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = reconcile.Bool(record(t, `{"open":"maybe"}`), "open")
	assert.False(t, ok)
}

func TestNormalize_LegacyRecord(t *testing.T) {
	r := record(t, `{
		"stageName": "Ray",
		"name": "Satyajit",
		"roles": ["Director", "Editor", "Actor", "Composer", "Colorist"],
		"open_to_collab": true,
		"instagram": "https://instagram.com/ray",
		"favourite_snack": "samosa",
		"films": [
			{"title": "Pather", "year": 1955, "status": "Released", "achievements": [
				{"type": "award", "result": "nominated", "eventName": "Cannes"},
				{"result": "selected", "eventName": "Berlin"}
			]}
		]
	}`)

	p, rep := reconcile.Normalize(r)

	assert.Equal(t, "Ray", p.StageName)
	assert.Equal(t, []string{"Director", "Editor"}, p.PrimaryRoles)
	assert.Equal(t, []string{"Actor", "Composer"}, p.SecondaryRoles)
	assert.Equal(t, []string{"Colorist"}, rep.DroppedRoles)
	assert.Equal(t, models.CollabYes, p.OpenToCollaborations)
	assert.Equal(t, "https://instagram.com/ray", p.SocialLinks.Instagram)

	require.Len(t, p.Filmography, 1)
	film := p.Filmography[0]
	assert.Equal(t, "1955", film.Year)
	assert.Equal(t, models.StatusReleased, film.ProductionStatus)
	require.Len(t, film.Achievements, 2)
	assert.Equal(t, models.ResultWon, film.Achievements[0].Result)
	assert.Equal(t, models.AchievementOfficialSelection, film.Achievements[1].Type)
	assert.NotNil(t, film.Genres)

	require.Len(t, rep.Conflicts, 1)
	assert.Equal(t, reconcile.Conflict{Field: "stageName", Kept: "Ray", Dropped: "Satyajit"}, rep.Conflicts[0])
	assert.Equal(t, []string{"favourite_snack"}, rep.UnknownKeys)
	assert.False(t, rep.Clean())
}

func TestNormalize_CanonicalRoundTrip(t *testing.T) {
	in := models.NewProfileData()
	in.StageName = "Mira"
	in.Email = "mira@example.com"
	in.Country = "India"
	in.PrimaryRoles = []string{"Director"}
	in.SecondaryRoles = []string{"Editor"}
	in.PreferredGenres = []string{"Drama"}
	in.SocialLinks.YouTube = "https://youtube.com/@mira"
	in.IsComplete = true
	in.LastUpdated = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	in.Filmography = []models.FilmographyEntry{{
		ID:              "1714557600000",
		Title:           "Dust",
		Year:            "2019",
		Genres:          []string{"Drama"},
		Format:          models.FormatShortFilm,
		PrimaryRole:     "Director",
		AdditionalRoles: []string{"Editor"},
		CrewScale:       models.CrewSmall,
		Achievements: []models.FilmAchievement{{
			ID: "1714557600001", Type: models.AchievementAward, Result: models.ResultWon,
			EventCategory: models.EventFestival, EventName: "IFFK", Year: "2019", Category: "Best Film",
		}},
	}}
	in = reconcile.FromWizard(in)

	data, err := json.Marshal(in)
	require.NoError(t, err)

	out, rep, err := reconcile.NormalizeJSON(data)
	require.NoError(t, err)
	assert.True(t, rep.Clean(), "%+v", rep)
	assert.Equal(t, in, out)
}

func TestNormalizeJSON_Invalid(t *testing.T) {
	_, _, err := reconcile.NormalizeJSON([]byte(`{"stageName":`))
	assert.Error(t, err)
}

func TestSplitRoles(t *testing.T) {
	p, s, dropped := reconcile.SplitRoles([]string{"A", "B", "C"}, []string{"B", "D", "E"})
	assert.Equal(t, []string{"A", "B"}, p)
	assert.Equal(t, []string{"C", "D"}, s)
	assert.Equal(t, []string{"E"}, dropped)

	p, s, dropped = reconcile.SplitRoles(nil, nil)
	assert.NotNil(t, p)
	assert.NotNil(t, s)
	assert.Empty(t, dropped)
}

func TestFromWizard_RepairsAndTrims(t *testing.T) {
	in := models.ProfileData{
		StageName:       "  Ray ",
		PrimaryRoles:    []string{"Director", "Director", "Editor"},
		PreferredGenres: []string{"Drama", " ", "Drama"},
		Filmography: []models.FilmographyEntry{{
			Title:        " Pather ",
			Achievements: []models.FilmAchievement{{Type: models.AchievementNomination, Result: models.ResultWon}},
		}},
	}

	out := reconcile.FromWizard(in)

	assert.Equal(t, "Ray", out.StageName)
	assert.Equal(t, []string{"Director", "Editor"}, out.PrimaryRoles)
	assert.Equal(t, []string{}, out.SecondaryRoles)
	assert.Equal(t, []string{"Drama"}, out.PreferredGenres)
	assert.Equal(t, "Pather", out.Filmography[0].Title)
	assert.Equal(t, models.ResultNominated, out.Filmography[0].Achievements[0].Result)
	assert.NotNil(t, out.Filmography[0].Genres)
	// input untouched
	assert.Equal(t, models.ResultWon, in.Filmography[0].Achievements[0].Result)
}

func TestFromLegacy(t *testing.T) {
	var row reconcile.LegacyRow
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Mira",
		"contact_email": "mira@example.com",
		"role": "Director",
		"open_to_collab": false,
		"years_active": 12,
		"genres": "Drama, Social",
		"current_location": "Kochi",
		"films": [{"title": "Dust", "year": 2019, "genre": ["Drama"], "awards": ["Best Short", ""]}]
	}`), &row))

	p := reconcile.FromLegacy(row)

	assert.Equal(t, "Mira", p.StageName)
	assert.Equal(t, "mira@example.com", p.Email)
	assert.Equal(t, []string{"Director"}, p.PrimaryRoles)
	assert.Equal(t, models.CollabNo, p.OpenToCollaborations)
	assert.Equal(t, "12", p.YearsActive)
	assert.Equal(t, []string{"Drama", "Social"}, p.PreferredGenres)
	assert.Equal(t, "Kochi", p.CurrentLocation)

	require.Len(t, p.Filmography, 1)
	film := p.Filmography[0]
	assert.Equal(t, "2019", film.Year)
	require.Len(t, film.Achievements, 1)
	assert.Equal(t, models.AchievementAward, film.Achievements[0].Type)
	assert.Equal(t, models.ResultWon, film.Achievements[0].Result)
	assert.Equal(t, "Best Short", film.Achievements[0].EventName)
}

func TestThemeRole(t *testing.T) {
	assert.Equal(t, "Director", reconcile.ThemeRole(models.ProfileData{PrimaryRoles: []string{"Director"}, SecondaryRoles: []string{"Editor"}}))
	assert.Equal(t, "Editor", reconcile.ThemeRole(models.ProfileData{SecondaryRoles: []string{"Editor"}}))
	assert.Equal(t, reconcile.DefaultThemeRole, reconcile.ThemeRole(models.NewProfileData()))

	assert.Equal(t, reconcile.ThemeColor("director"), reconcile.ThemeColor("Director"))
	assert.Equal(t, reconcile.ThemeColor("Puppeteer"), reconcile.ThemeColor(reconcile.DefaultThemeRole))
}

func TestProfileLocation(t *testing.T) {
	assert.Equal(t, "Kochi", reconcile.ProfileLocation(models.ProfileData{CurrentLocation: "Kochi", CurrentCity: "Pune"}))
	assert.Equal(t, "Pune, Maharashtra", reconcile.ProfileLocation(models.ProfileData{CurrentCity: "Pune", CurrentState: "Maharashtra"}))
	assert.Equal(t, reconcile.LocationPlaceholder, reconcile.ProfileLocation(models.ProfileData{}))
}
