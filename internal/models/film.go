package models

import (
	"encoding/json"
	"strconv"
	"sync/atomic"
	"time"
)

// Film formats offered by the wizard.
const (
	FormatFeatureFilm  = "Feature Film"
	FormatShortFilm    = "Short Film"
	FormatDocumentary  = "Documentary"
	FormatWebSeries    = "Web Series"
	FormatCommercial   = "Commercial"
	FormatMusicVideo   = "Music Video"
	FormatTVSeries     = "TV Series"
	FormatExperimental = "Experimental"
)

var Formats = []string{
	FormatFeatureFilm, FormatShortFilm, FormatDocumentary, FormatWebSeries,
	FormatCommercial, FormatMusicVideo, FormatTVSeries, FormatExperimental,
}

// Production statuses, most finished first.
const (
	StatusReleased       = "Released"
	StatusCompleted      = "Completed"
	StatusFestivalRun    = "Festival Run"
	StatusPostProduction = "Post-Production"
	StatusProduction     = "Production"
	StatusPreProduction  = "Pre-Production"
	StatusDevelopment    = "Development"
)

var ProductionStatuses = []string{
	StatusReleased, StatusCompleted, StatusFestivalRun, StatusPostProduction,
	StatusProduction, StatusPreProduction, StatusDevelopment,
}

// Crew scale is a coarse ordinal, not a head count.
const (
	CrewSolo   = "Solo"
	CrewSmall  = "Small (2-5)"
	CrewMedium = "Medium (6-20)"
	CrewLarge  = "Large (20+)"
)

var CrewScales = []string{CrewSolo, CrewSmall, CrewMedium, CrewLarge}

type AchievementType string

const (
	AchievementAward             AchievementType = "award"
	AchievementNomination        AchievementType = "nomination"
	AchievementOfficialSelection AchievementType = "official_selection"
	AchievementScreening         AchievementType = "screening"
)

type AchievementResult string

const (
	ResultWon       AchievementResult = "won"
	ResultNominated AchievementResult = "nominated"
	ResultSelected  AchievementResult = "selected"
	ResultScreened  AchievementResult = "screened"
)

// ResultFor returns the only result an achievement of type t may carry.
func ResultFor(t AchievementType) (AchievementResult, bool) {
	switch t {
	case AchievementAward:
		return ResultWon, true
	case AchievementNomination:
		return ResultNominated, true
	case AchievementOfficialSelection:
		return ResultSelected, true
	case AchievementScreening:
		return ResultScreened, true
	}
	return "", false
}

// Event categories an achievement can belong to.
const (
	EventFestival    = "festival"
	EventCompetition = "competition"
	EventCeremony    = "ceremony"
	EventOther       = "other"
)

// CustomCategory marks an achievement whose category lives in CustomCategory.
const CustomCategory = "Custom"

var AchievementCategories = []string{
	"Best Film", "Best Director", "Best Cinematography", "Best Screenplay",
	"Best Editing", "Best Actor", "Best Actress", "Best Music",
	"Best Sound Design", "Best Documentary", "Best Short Film",
	"Audience Award", "Jury Prize", CustomCategory,
}

// FilmAchievement is one award, nomination, selection or screening of a film.
// Result is derived from Type; use NewFilmAchievement or SetType to change it.
type FilmAchievement struct {
	ID             string            `json:"id"`
	Type           AchievementType   `json:"type"`
	Result         AchievementResult `json:"result"`
	EventCategory  string            `json:"eventCategory"`
	EventName      string            `json:"eventName"`
	Year           string            `json:"year"`
	Category       string            `json:"category"`
	CustomCategory string            `json:"customCategory,omitempty"`
	Notes          string            `json:"notes,omitempty"`
}

// NewFilmAchievement builds an achievement whose result matches its type.
// Unknown types fall back to a screening.
func NewFilmAchievement(t AchievementType, eventName, year string) FilmAchievement {
	a := FilmAchievement{
		ID:            NewLocalID(),
		EventCategory: EventFestival,
		EventName:     eventName,
		Year:          year,
	}
	a.SetType(t)
	return a
}

// SetType changes the type and resets the result to match it.
func (a *FilmAchievement) SetType(t AchievementType) {
	r, ok := ResultFor(t)
	if !ok {
		t, r = AchievementScreening, ResultScreened
	}
	a.Type = t
	a.Result = r
}

// DisplayCategory resolves the Custom marker to the free-text category.
func (a FilmAchievement) DisplayCategory() string {
	if a.Category == CustomCategory && a.CustomCategory != "" {
		return a.CustomCategory
	}
	return a.Category
}

// UnmarshalJSON repairs stored achievements whose result drifted from their type.
func (a *FilmAchievement) UnmarshalJSON(data []byte) error {
	type plain FilmAchievement
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = FilmAchievement(p)
	if _, ok := ResultFor(a.Type); !ok {
		a.Type = typeForResult(a.Result)
	}
	a.SetType(a.Type)
	return nil
}

func typeForResult(r AchievementResult) AchievementType {
	switch r {
	case ResultWon:
		return AchievementAward
	case ResultNominated:
		return AchievementNomination
	case ResultSelected:
		return AchievementOfficialSelection
	}
	return AchievementScreening
}

type Duration struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// FilmographyEntry is one project a filmmaker worked on.
type FilmographyEntry struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Year             string            `json:"year"`
	Genres           []string          `json:"genres"`
	Duration         Duration          `json:"duration"`
	Format           string            `json:"format"`
	ProductionStatus string            `json:"productionStatus"`
	PrimaryRole      string            `json:"primaryRole"`
	AdditionalRoles  []string          `json:"additionalRoles"`
	CrewScale        string            `json:"crewScale"`
	PosterURL        string            `json:"posterUrl,omitempty"`
	WatchLink        string            `json:"watchLink,omitempty"`
	TrailerURL       string            `json:"trailerUrl,omitempty"`
	Achievements     []FilmAchievement `json:"achievements"`
}

// NewFilmographyEntry returns an empty entry with a fresh local id.
func NewFilmographyEntry() FilmographyEntry {
	return FilmographyEntry{
		ID:              NewLocalID(),
		Genres:          []string{},
		AdditionalRoles: []string{},
		Achievements:    []FilmAchievement{},
	}
}

// Roles returns the primary role followed by the additional roles, skipping blanks.
func (f FilmographyEntry) Roles() []string {
	roles := make([]string, 0, 1+len(f.AdditionalRoles))
	if f.PrimaryRole != "" {
		roles = append(roles, f.PrimaryRole)
	}
	for _, r := range f.AdditionalRoles {
		if r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

// EnsureLists replaces nil slices so the entry always serializes lists.
func (f *FilmographyEntry) EnsureLists() {
	if f.Genres == nil {
		f.Genres = []string{}
	}
	if f.AdditionalRoles == nil {
		f.AdditionalRoles = []string{}
	}
	if f.Achievements == nil {
		f.Achievements = []FilmAchievement{}
	}
}

var lastLocalID atomic.Int64

// NewLocalID returns a timestamp based id, strictly increasing within the process.
func NewLocalID() string {
	for {
		prev := lastLocalID.Load()
		n := time.Now().UnixMilli()
		if n <= prev {
			n = prev + 1
		}
		if lastLocalID.CompareAndSwap(prev, n) {
			return strconv.FormatInt(n, 10)
		}
	}
}
