package reconcile

import (
	"encoding/json"
	"strconv"
	"strings"

	"cinegrok-backend/internal/models"
)

// FlexString accepts a JSON string or number. Legacy exports stored years
// and durations either way.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

// FlexList accepts a JSON list of strings or a single comma separated string.
type FlexList []string

func (f *FlexList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = dedupe(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = dedupe(strings.Split(s, ","))
	return nil
}

// LegacyRow is one record of the legacy bulk-ingestion export.
type LegacyRow struct {
	ID              FlexString   `json:"id,omitempty"`
	Name            string       `json:"name"`
	ContactEmail    string       `json:"contact_email,omitempty"`
	Email           string       `json:"email,omitempty"`
	Phone           string       `json:"phone,omitempty"`
	ProfilePhoto    string       `json:"profile_photo,omitempty"`
	CurrentLocation string       `json:"current_location,omitempty"`
	City            string       `json:"city,omitempty"`
	State           string       `json:"state,omitempty"`
	Country         string       `json:"country,omitempty"`
	Role            string       `json:"role,omitempty"`
	Roles           FlexList     `json:"roles,omitempty"`
	Genres          FlexList     `json:"genres,omitempty"`
	About           string       `json:"about,omitempty"`
	Philosophy      string       `json:"philosophy,omitempty"`
	YearsActive     FlexString   `json:"years_active,omitempty"`
	OpenToCollab    *bool        `json:"open_to_collab,omitempty"`
	Instagram       string       `json:"instagram,omitempty"`
	YouTube         string       `json:"youtube,omitempty"`
	IMDb            string       `json:"imdb,omitempty"`
	Website         string       `json:"website,omitempty"`
	Films           []LegacyFilm `json:"films,omitempty"`
}

type LegacyFilm struct {
	Title  string     `json:"title"`
	Year   FlexString `json:"year,omitempty"`
	Genre  FlexList   `json:"genre,omitempty"`
	Type   string     `json:"type,omitempty"`
	Status string     `json:"status,omitempty"`
	Role   string     `json:"role,omitempty"`
	Poster string     `json:"poster,omitempty"`
	Link   string     `json:"link,omitempty"`
	Awards []string   `json:"awards,omitempty"`
}

// FromLegacy converts a legacy export row into the canonical profile.
// Legacy award strings become won awards of the film's year.
func FromLegacy(row LegacyRow) models.ProfileData {
	roles := []string(row.Roles)
	if len(roles) == 0 && row.Role != "" {
		roles = []string{strings.TrimSpace(row.Role)}
	}

	p := models.ProfileData{
		ProfilePhotoURL: strings.TrimSpace(row.ProfilePhoto),
		StageName:       strings.TrimSpace(row.Name),
		Email:           firstNonEmpty(row.Email, row.ContactEmail),
		Phone:           strings.TrimSpace(row.Phone),
		Country:         strings.TrimSpace(row.Country),
		CurrentCity:     strings.TrimSpace(row.City),
		CurrentState:    strings.TrimSpace(row.State),
		CurrentLocation: strings.TrimSpace(row.CurrentLocation),
		Bio:             strings.TrimSpace(row.About),
		YearsActive:     string(row.YearsActive),
		PreferredGenres: dedupe(row.Genres),

		CreativePhilosophy: strings.TrimSpace(row.Philosophy),
		SocialLinks: models.SocialLinks{
			Instagram: strings.TrimSpace(row.Instagram),
			YouTube:   strings.TrimSpace(row.YouTube),
			IMDb:      strings.TrimSpace(row.IMDb),
			Website:   strings.TrimSpace(row.Website),
		},
		IsComplete: true,
	}
	if row.OpenToCollab != nil {
		p.OpenToCollaborations = models.CollabNo
		if *row.OpenToCollab {
			p.OpenToCollaborations = models.CollabYes
		}
	}
	p.PrimaryRoles, p.SecondaryRoles, _ = SplitRoles(roles, nil)

	for _, lf := range row.Films {
		f := models.NewFilmographyEntry()
		f.Title = strings.TrimSpace(lf.Title)
		f.Year = string(lf.Year)
		f.Genres = dedupe(lf.Genre)
		f.Format = strings.TrimSpace(lf.Type)
		f.ProductionStatus = strings.TrimSpace(lf.Status)
		f.PrimaryRole = strings.TrimSpace(lf.Role)
		f.PosterURL = strings.TrimSpace(lf.Poster)
		f.WatchLink = strings.TrimSpace(lf.Link)
		for _, award := range lf.Awards {
			if award = strings.TrimSpace(award); award == "" {
				continue
			}
			a := models.NewFilmAchievement(models.AchievementAward, award, f.Year)
			a.EventCategory = models.EventOther
			f.Achievements = append(f.Achievements, a)
		}
		p.Filmography = append(p.Filmography, f)
	}

	p.EnsureLists()
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
