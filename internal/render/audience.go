package render

import "cinegrok-backend/internal/models"

type About struct {
	Bio        string `json:"bio,omitempty"`
	Philosophy string `json:"philosophy,omitempty"`
	Signature  string `json:"signature,omitempty"`
	Influences string `json:"influences,omitempty"`
	Belief     string `json:"belief,omitempty"`
	Message    string `json:"message,omitempty"`
}

// FilmDetail is what the detail drawer shows for one film.
type FilmDetail struct {
	Genres       []string                 `json:"genres"`
	Duration     models.Duration          `json:"duration"`
	PrimaryRole  string                   `json:"primary_role,omitempty"`
	Roles        []string                 `json:"roles"`
	CrewScale    string                   `json:"crew_scale,omitempty"`
	WatchLink    string                   `json:"watch_link,omitempty"`
	TrailerURL   string                   `json:"trailer_url,omitempty"`
	Achievements []models.FilmAchievement `json:"achievements"`
}

// FilmCard is one tile of the filmography gallery.
type FilmCard struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Year      string     `json:"year,omitempty"`
	Format    string     `json:"format,omitempty"`
	Status    string     `json:"status,omitempty"`
	PosterURL string     `json:"poster_url,omitempty"`
	Detail    FilmDetail `json:"detail"`
}

type Sidebar struct {
	VisualStyle   string   `json:"visual_style,omitempty"`
	Availability  string   `json:"availability,omitempty"`
	Collaboration string   `json:"collaboration,omitempty"`
	WorkLocation  string   `json:"work_location,omitempty"`
	Languages     string   `json:"languages,omitempty"`
	YearsActive   string   `json:"years_active,omitempty"`
	Genres        []string `json:"genres"`
}

// AudienceView is the public page. Contact details are never included.
type AudienceView struct {
	Hero        Hero                `json:"hero"`
	About       About               `json:"about"`
	Films       []FilmCard          `json:"films"`
	SocialLinks []models.SocialLink `json:"social_links"`
	Sidebar     Sidebar             `json:"sidebar"`
}

// Audience projects p into the public view. Films keep their stored order.
func Audience(p models.ProfileData) *AudienceView {
	v := &AudienceView{
		Hero: hero(p),
		About: About{
			Bio:        p.Bio,
			Philosophy: p.CreativePhilosophy,
			Signature:  p.CreativeSignature,
			Influences: p.CreativeInfluences,
			Belief:     p.BeliefAboutCinema,
			Message:    p.MessageOrIntent,
		},
		Films:       make([]FilmCard, 0, len(p.Filmography)),
		SocialLinks: p.SocialLinks.Links(),
		Sidebar: Sidebar{
			VisualStyle:   p.VisualStyle,
			Availability:  p.Availability,
			Collaboration: p.OpenToCollaborations,
			WorkLocation:  p.PreferredWorkLocation,
			Languages:     p.Languages,
			YearsActive:   p.YearsActive,
			Genres:        nonNil(p.PreferredGenres),
		},
	}
	for _, f := range p.Filmography {
		v.Films = append(v.Films, FilmCard{
			ID:        f.ID,
			Title:     f.Title,
			Year:      f.Year,
			Format:    f.Format,
			Status:    f.ProductionStatus,
			PosterURL: f.PosterURL,
			Detail: FilmDetail{
				Genres:       nonNil(f.Genres),
				Duration:     f.Duration,
				PrimaryRole:  f.PrimaryRole,
				Roles:        f.Roles(),
				CrewScale:    f.CrewScale,
				WatchLink:    f.WatchLink,
				TrailerURL:   f.TrailerURL,
				Achievements: nonNilAchievements(f.Achievements),
			},
		})
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilAchievements(a []models.FilmAchievement) []models.FilmAchievement {
	if a == nil {
		return []models.FilmAchievement{}
	}
	return a
}
