package reconcile

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"cinegrok-backend/internal/models"
)

// Role cardinality of the canonical record.
const (
	MaxPrimaryRoles   = 2
	MaxSecondaryRoles = 2
	MaxTotalRoles     = 4
)

// Conflict records a dual-named field whose two spellings disagreed. The
// wizard spelling is always the one kept.
type Conflict struct {
	Field   string `json:"field"`
	Kept    string `json:"kept"`
	Dropped string `json:"dropped"`
}

// Report describes what Normalize could not carry over cleanly.
type Report struct {
	UnknownKeys  []string   `json:"unknown_keys,omitempty"`
	Conflicts    []Conflict `json:"conflicts,omitempty"`
	DroppedRoles []string   `json:"dropped_roles,omitempty"`
}

// Clean reports whether nothing was lost or ignored.
func (r Report) Clean() bool {
	return len(r.UnknownKeys) == 0 && len(r.Conflicts) == 0 && len(r.DroppedRoles) == 0
}

// dualNames lists the fields written under both conventions, wizard first.
var dualNames = [][]string{
	{"stageName", "name"},
	{"email", "contact_email"},
	{"profilePhotoUrl", "profile_photo"},
	{"bio", "about"},
	{"primaryRoles", "roles"},
	{"preferredGenres", "genres"},
	{"creativePhilosophy", "philosophy"},
	{"openToCollaborations", "open_to_collab"},
	{"yearsActive", "years_active"},
	{"filmography", "films"},
}

var knownKeys = map[string]bool{}

func init() {
	for _, k := range []string{
		"profilePhotoUrl", "profile_photo", "photo", "photo_url",
		"stageName", "stage_name", "name", "legalName", "legal_name",
		"email", "contact_email", "phone", "pronouns", "dateOfBirth", "date_of_birth",
		"country", "currentState", "current_state", "state", "currentCity", "current_city", "city",
		"currentLocation", "current_location", "nativeState", "native_state",
		"nativeCity", "native_city", "nationality", "languages",
		"preferredContact", "preferred_contact", "bio", "about",
		"primaryRoles", "roles", "role", "secondaryRoles", "secondary_roles",
		"yearsActive", "years_active", "preferredGenres", "genres",
		"visualStyle", "visual_style", "creativeInfluences", "influences",
		"creativePhilosophy", "philosophy", "beliefAboutCinema", "messageOrIntent",
		"creativeSignature", "openToCollaborations", "open_to_collab",
		"availability", "preferredWorkLocation", "preferred_work_location",
		"filmography", "films", "socialLinks", "social_links", "education",
		"instagram", "youtube", "imdb", "linkedin", "twitter", "facebook", "website", "letterboxd",
		"schooling", "higherSecondary", "undergraduate", "postgraduate", "phd", "certifications",
		"isComplete", "is_complete", "lastUpdated", "last_updated", "updated_at", "id",
	} {
		knownKeys[k] = true
	}
}

// Normalize converts a stored or submitted record of either convention into
// the canonical profile. Wizard keys win over legacy keys; disagreements and
// unrecognised keys are listed in the report for the caller to log.
func Normalize(r Record) (models.ProfileData, Report) {
	var rep Report

	p := models.ProfileData{
		ProfilePhotoURL:  String(r, "profilePhotoUrl", "profile_photo", "photo", "photo_url"),
		StageName:        DisplayName(r),
		LegalName:        String(r, "legalName", "legal_name"),
		Email:            String(r, "email", "contact_email"),
		Phone:            String(r, "phone"),
		Pronouns:         String(r, "pronouns"),
		DateOfBirth:      String(r, "dateOfBirth", "date_of_birth"),
		Country:          String(r, "country"),
		CurrentState:     String(r, "currentState", "current_state", "state"),
		CurrentCity:      String(r, "currentCity", "current_city", "city"),
		CurrentLocation:  String(r, "currentLocation", "current_location"),
		NativeState:      String(r, "nativeState", "native_state"),
		NativeCity:       String(r, "nativeCity", "native_city"),
		Nationality:      String(r, "nationality"),
		Languages:        String(r, "languages"),
		PreferredContact: String(r, "preferredContact", "preferred_contact"),
		Bio:              String(r, "bio", "about"),

		YearsActive:           String(r, "yearsActive", "years_active"),
		PreferredGenres:       dedupe(Strings(r, "preferredGenres", "genres")),
		VisualStyle:           String(r, "visualStyle", "visual_style"),
		CreativeInfluences:    String(r, "creativeInfluences", "influences"),
		CreativePhilosophy:    String(r, "creativePhilosophy", "philosophy"),
		BeliefAboutCinema:     String(r, "beliefAboutCinema"),
		MessageOrIntent:       String(r, "messageOrIntent"),
		CreativeSignature:     String(r, "creativeSignature"),
		OpenToCollaborations:  collabStance(r),
		Availability:          String(r, "availability"),
		PreferredWorkLocation: String(r, "preferredWorkLocation", "preferred_work_location"),

		SocialLinks: models.SocialLinks{
			Instagram:  String(r, "socialLinks.instagram", "social_links.instagram", "instagram"),
			YouTube:    String(r, "socialLinks.youtube", "social_links.youtube", "youtube"),
			IMDb:       String(r, "socialLinks.imdb", "social_links.imdb", "imdb"),
			LinkedIn:   String(r, "socialLinks.linkedin", "social_links.linkedin", "linkedin"),
			Twitter:    String(r, "socialLinks.twitter", "social_links.twitter", "twitter"),
			Facebook:   String(r, "socialLinks.facebook", "social_links.facebook", "facebook"),
			Website:    String(r, "socialLinks.website", "social_links.website", "website"),
			Letterboxd: String(r, "socialLinks.letterboxd", "social_links.letterboxd", "letterboxd"),
		},
		Education: models.Education{
			Schooling:       String(r, "education.schooling", "schooling"),
			HigherSecondary: String(r, "education.higherSecondary", "higherSecondary"),
			Undergraduate:   String(r, "education.undergraduate", "undergraduate"),
			Postgraduate:    String(r, "education.postgraduate", "postgraduate"),
			PhD:             String(r, "education.phd", "phd"),
			Certifications:  String(r, "education.certifications", "certifications"),
		},
	}

	secondary := Strings(r, "secondaryRoles", "secondary_roles")
	p.PrimaryRoles, p.SecondaryRoles, rep.DroppedRoles = SplitRoles(Roles(r), secondary)

	for _, film := range Records(r, "filmography", "films") {
		p.Filmography = append(p.Filmography, normalizeFilm(film))
	}

	if done, ok := Bool(r, "isComplete", "is_complete"); ok {
		p.IsComplete = done
	}
	if ts := String(r, "lastUpdated", "last_updated", "updated_at"); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			p.LastUpdated = t
		}
	}

	for _, pair := range dualNames {
		a, b := Resolve(r, pair[0]), Resolve(r, pair[1])
		if a == nil || b == nil {
			continue
		}
		if sa, sb := fingerprint(a), fingerprint(b); sa != sb {
			rep.Conflicts = append(rep.Conflicts, Conflict{Field: pair[0], Kept: sa, Dropped: sb})
		}
	}
	for k := range r {
		if !knownKeys[k] {
			rep.UnknownKeys = append(rep.UnknownKeys, k)
		}
	}
	sort.Strings(rep.UnknownKeys)

	p.EnsureLists()
	return p, rep
}

// NormalizeJSON decodes a stored profile blob and normalizes it.
func NormalizeJSON(data []byte) (models.ProfileData, Report, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return models.ProfileData{}, Report{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	p, rep := Normalize(r)
	return p, rep, nil
}

// FromWizard canonicalises a profile submitted by the wizard: trims text,
// de-duplicates lists, enforces the role limits and fills nil lists.
func FromWizard(in models.ProfileData) models.ProfileData {
	p := in
	p.StageName = strings.TrimSpace(p.StageName)
	p.Email = strings.TrimSpace(p.Email)
	p.Country = strings.TrimSpace(p.Country)
	p.CurrentCity = strings.TrimSpace(p.CurrentCity)
	p.CurrentState = strings.TrimSpace(p.CurrentState)
	p.PreferredGenres = dedupe(p.PreferredGenres)
	p.PrimaryRoles, p.SecondaryRoles, _ = SplitRoles(p.PrimaryRoles, p.SecondaryRoles)

	films := make([]models.FilmographyEntry, len(p.Filmography))
	for i, f := range p.Filmography {
		f.Title = strings.TrimSpace(f.Title)
		f.Genres = dedupe(f.Genres)
		f.AdditionalRoles = dedupe(f.AdditionalRoles)
		achievements := make([]models.FilmAchievement, len(f.Achievements))
		for j, a := range f.Achievements {
			a.SetType(a.Type)
			achievements[j] = a
		}
		f.Achievements = achievements
		films[i] = f
	}
	p.Filmography = films

	p.EnsureLists()
	return p
}

// SplitRoles enforces the canonical role invariants: at most two primary,
// at most two secondary, four in total, and no role in both lists. Primary
// roles beyond the limit spill into the secondary list; whatever still does
// not fit is returned as dropped.
func SplitRoles(primary, secondary []string) (p, s, dropped []string) {
	p, s, dropped = []string{}, []string{}, []string{}
	seen := map[string]bool{}
	for _, role := range dedupe(primary) {
		seen[role] = true
		switch {
		case len(p) < MaxPrimaryRoles:
			p = append(p, role)
		case len(s) < MaxSecondaryRoles:
			s = append(s, role)
		default:
			dropped = append(dropped, role)
		}
	}
	for _, role := range dedupe(secondary) {
		if seen[role] {
			continue
		}
		seen[role] = true
		if len(s) < MaxSecondaryRoles && len(p)+len(s) < MaxTotalRoles {
			s = append(s, role)
		} else {
			dropped = append(dropped, role)
		}
	}
	return p, s, dropped
}

func normalizeFilm(r Record) models.FilmographyEntry {
	f := models.FilmographyEntry{
		ID:               String(r, "id"),
		Title:            String(r, "title", "name"),
		Year:             String(r, "year", "release_year"),
		Genres:           dedupe(Strings(r, "genres", "genre")),
		Format:           String(r, "format", "type"),
		ProductionStatus: String(r, "productionStatus", "production_status", "status"),
		PrimaryRole:      String(r, "primaryRole", "primary_role", "role"),
		AdditionalRoles:  dedupe(Strings(r, "additionalRoles", "additional_roles")),
		CrewScale:        String(r, "crewScale", "crew_scale"),
		PosterURL:        String(r, "posterUrl", "poster_url", "poster"),
		WatchLink:        String(r, "watchLink", "watch_link", "link"),
		TrailerURL:       String(r, "trailerUrl", "trailer_url", "trailer"),
		Duration: models.Duration{
			Value: String(r, "duration.value", "duration"),
			Unit:  String(r, "duration.unit", "duration_unit"),
		},
	}
	if f.ID == "" {
		f.ID = models.NewLocalID()
	}
	for _, a := range Records(r, "achievements", "awards") {
		f.Achievements = append(f.Achievements, normalizeAchievement(a))
	}
	f.EnsureLists()
	return f
}

func normalizeAchievement(r Record) models.FilmAchievement {
	a := models.FilmAchievement{
		ID:             String(r, "id"),
		EventCategory:  String(r, "eventCategory", "event_category"),
		EventName:      String(r, "eventName", "event_name", "event", "festival"),
		Year:           String(r, "year"),
		Category:       String(r, "category"),
		CustomCategory: String(r, "customCategory", "custom_category"),
		Notes:          String(r, "notes"),
	}
	if a.ID == "" {
		a.ID = models.NewLocalID()
	}
	if a.EventCategory == "" {
		a.EventCategory = models.EventOther
	}
	t := models.AchievementType(String(r, "type"))
	if _, ok := models.ResultFor(t); !ok {
		switch models.AchievementResult(String(r, "result")) {
		case models.ResultWon:
			t = models.AchievementAward
		case models.ResultNominated:
			t = models.AchievementNomination
		case models.ResultSelected:
			t = models.AchievementOfficialSelection
		}
	}
	a.SetType(t)
	return a
}

func collabStance(r Record) string {
	if s := String(r, "openToCollaborations"); s != "" {
		return s
	}
	v := Resolve(r, "open_to_collab")
	switch t := v.(type) {
	case bool:
		if t {
			return models.CollabYes
		}
		return models.CollabNo
	case string:
		if b, ok := Bool(r, "open_to_collab"); ok {
			if b {
				return models.CollabYes
			}
			return models.CollabNo
		}
		return strings.TrimSpace(t)
	}
	return ""
}

func fingerprint(v any) string {
	switch v.(type) {
	case []any, []string:
		if list := toStrings(v); len(list) > 0 {
			return strings.Join(list, ", ")
		}
	case string, float64, bool, int, int64:
		return toString(v)
	}
	data, _ := json.Marshal(v)
	return string(data)
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
