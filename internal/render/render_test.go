package render_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/render"
)

func sampleProfile() models.ProfileData {
	p := models.NewProfileData()
	p.StageName = "Arjun Mehta"
	p.Email = "a@x.com"
	p.Phone = "+91 90000 00000"
	p.Country = "India"
	p.CurrentCity = "Mumbai"
	p.PrimaryRoles = []string{"Director"}
	p.SecondaryRoles = []string{"Editor"}
	p.SocialLinks.Website = "https://arjun.example.com"
	p.SocialLinks.Instagram = "https://instagram.com/arjun"

	older := models.NewFilmographyEntry()
	older.Title = "Dust"
	older.Year = "2017"
	older.ProductionStatus = models.StatusReleased
	older.PrimaryRole = "Director"
	older.AdditionalRoles = []string{"Editor"}
	older.Achievements = []models.FilmAchievement{
		models.NewFilmAchievement(models.AchievementAward, "IFFK", "2017"),
	}
	newer := models.NewFilmographyEntry()
	newer.Title = "Rain"
	newer.Year = "2023"
	newer.ProductionStatus = models.StatusPostProduction
	newer.PrimaryRole = "Director"

	p.Filmography = []models.FilmographyEntry{older, newer}
	return p
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, render.ModeProducer, render.ParseMode("Producer"))
	assert.Equal(t, render.ModeAudience, render.ParseMode(""))
	assert.Equal(t, render.ModeAudience, render.ParseMode("admin"))
}

func TestParseGatePolicy(t *testing.T) {
	p, err := render.ParseGatePolicy("NOOP")
	require.NoError(t, err)
	assert.Equal(t, render.GateNoop, p)

	p, err = render.ParseGatePolicy("")
	require.NoError(t, err)
	assert.Equal(t, render.GatePrompt, p)

	_, err = render.ParseGatePolicy("dialog")
	assert.Error(t, err)
}

func TestNewRenderer_UnknownPolicyPrompts(t *testing.T) {
	assert.Equal(t, render.GatePrompt, render.NewRenderer("dialog", "/login").Policy())
	assert.Equal(t, render.GateNoop, render.NewRenderer(render.GateNoop, "/login").Policy())
}

func TestRender_ProducerWithoutLogin(t *testing.T) {
	tests := []struct {
		name       string
		policy     render.GatePolicy
		wantPrompt bool
	}{
		{"noop policy stays on audience", render.GateNoop, false},
		{"prompt policy adds login prompt", render.GatePrompt, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := render.NewRenderer(tt.policy, "/login?next=/filmmakers/f1")
			v := r.Render("f1", sampleProfile(), render.Request{Mode: render.ModeProducer, IsLoggedIn: false})

			assert.Equal(t, render.ModeAudience, v.Mode)
			assert.Equal(t, render.ModeProducer, v.RequestedMode)
			assert.NotNil(t, v.Audience)
			assert.Nil(t, v.Producer)
			if tt.wantPrompt {
				require.NotNil(t, v.LoginPrompt)
				assert.Equal(t, "/login?next=/filmmakers/f1", v.LoginPrompt.LoginURL)
			} else {
				assert.Nil(t, v.LoginPrompt)
			}
		})
	}
}

func TestRender_ProducerLoggedIn(t *testing.T) {
	r := render.NewRenderer(render.GatePrompt, "/login")
	v := r.Render("f1", sampleProfile(), render.Request{Mode: render.ModeProducer, IsLoggedIn: true})

	require.NotNil(t, v.Producer)
	assert.Nil(t, v.Audience)
	assert.Nil(t, v.LoginPrompt)

	pv := v.Producer
	assert.Equal(t, "+91 90000 00000", pv.Contact.Phone)
	require.Len(t, pv.Activity, 2)
	assert.Equal(t, "Rain", pv.Activity[0].Title)
	assert.Equal(t, 1, pv.Awards.Wins)
	assert.Equal(t, 2, pv.PrimaryRoles.Get("Director"))
	assert.Equal(t, 1, pv.RoleCloud.Get("Editor"))
	assert.Equal(t, 1, pv.Charts.Status.Get(models.StatusReleased))
	assert.Equal(t, "2017", pv.Summary.FirstYear)
	assert.Equal(t, "Director", pv.Hero.ThemeRole)
}

func TestRender_AudienceHidesContact(t *testing.T) {
	r := render.NewRenderer(render.GateNoop, "")
	v := r.Render("f1", sampleProfile(), render.Request{Mode: render.ModeAudience, IsLoggedIn: true})

	require.NotNil(t, v.Audience)
	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "90000")
	assert.NotContains(t, string(data), "a@x.com")

	av := v.Audience
	assert.Equal(t, "Mumbai, India", av.Hero.Location)
	require.Len(t, av.Films, 2)
	assert.Equal(t, "Dust", av.Films[0].Title, "gallery keeps stored order")
	assert.Equal(t, []string{"Director", "Editor"}, av.Films[0].Detail.Roles)
	require.Len(t, av.SocialLinks, 2)
	assert.Equal(t, "instagram", av.SocialLinks[0].Name)
	assert.Equal(t, "website", av.SocialLinks[1].Name)
}

func TestRender_EmptyProfile(t *testing.T) {
	r := render.NewRenderer(render.GatePrompt, "/login")
	v := r.Render("f2", models.ProfileData{}, render.Request{})

	require.NotNil(t, v.Audience)
	assert.Equal(t, "Location", v.Audience.Hero.Location)
	assert.Equal(t, "Filmmaker", v.Audience.Hero.ThemeRole)
	assert.NotNil(t, v.Audience.Films)
	assert.NotNil(t, v.Audience.Sidebar.Genres)
}
