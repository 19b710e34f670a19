package render

import (
	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/stats"
)

type Contact struct {
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	PreferredContact string `json:"preferred_contact,omitempty"`
}

// Charts holds the three bar chart breakdowns.
type Charts struct {
	Status    stats.Counts `json:"status"`
	Format    stats.Counts `json:"format"`
	CrewScale stats.Counts `json:"crew_scale"`
}

// ActivityRow is one line of the chronological activity table.
type ActivityRow struct {
	FilmID       string `json:"film_id"`
	Title        string `json:"title"`
	Year         string `json:"year,omitempty"`
	Format       string `json:"format,omitempty"`
	Status       string `json:"status,omitempty"`
	Role         string `json:"role,omitempty"`
	CrewScale    string `json:"crew_scale,omitempty"`
	Achievements int    `json:"achievements"`
}

type ProducerView struct {
	Hero            Hero                     `json:"hero"`
	Summary         stats.Summary            `json:"summary"`
	Contact         Contact                  `json:"contact"`
	Charts          Charts                   `json:"charts"`
	RoleCloud       stats.Counts             `json:"role_cloud"`
	PrimaryRoles    stats.Counts             `json:"primary_roles"`
	GenreCloud      stats.Counts             `json:"genre_cloud"`
	Activity        []ActivityRow            `json:"activity"`
	Awards          stats.AchievementSummary `json:"awards"`
	Education       models.Education         `json:"education"`
	Collaboration   string                   `json:"collaboration,omitempty"`
	Availability    string                   `json:"availability,omitempty"`
	PreferredGenres []string                 `json:"preferred_genres"`
}

// Producer projects p into the evaluation view. The activity table is
// ordered by year, newest first.
func Producer(p models.ProfileData) *ProducerView {
	b := stats.Aggregate(p.Filmography)
	v := &ProducerView{
		Hero:    hero(p),
		Summary: stats.Totals(p.Filmography),
		Contact: Contact{
			Email:            p.Email,
			Phone:            p.Phone,
			PreferredContact: p.PreferredContact,
		},
		Charts: Charts{
			Status:    b.ByStatus,
			Format:    b.ByFormat,
			CrewScale: b.ByCrewScale,
		},
		RoleCloud:       b.ByRole,
		PrimaryRoles:    b.ByPrimaryRole,
		GenreCloud:      b.ByGenre,
		Activity:        []ActivityRow{},
		Awards:          stats.AggregateAchievements(p.Filmography),
		Education:       p.Education,
		Collaboration:   p.OpenToCollaborations,
		Availability:    p.Availability,
		PreferredGenres: nonNil(p.PreferredGenres),
	}
	for _, f := range stats.SortByYearDesc(p.Filmography) {
		v.Activity = append(v.Activity, ActivityRow{
			FilmID:       f.ID,
			Title:        f.Title,
			Year:         f.Year,
			Format:       f.Format,
			Status:       f.ProductionStatus,
			Role:         f.PrimaryRole,
			CrewScale:    f.CrewScale,
			Achievements: len(f.Achievements),
		})
	}
	return v
}
