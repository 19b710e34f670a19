// Package stats derives the producer-view breakdowns from a filmography.
//
// All breakdowns drop empty category values here, once, so no consumer ever
// renders an "Unknown" bucket.
package stats

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"cinegrok-backend/internal/models"
)

// Bucket is one category and how often it occurred.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Counts is a frequency table that remembers first-seen order.
type Counts struct {
	index   map[string]int
	buckets []Bucket
}

// Add increments label by one. Blank labels are ignored.
func (c *Counts) Add(label string) {
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}
	if c.index == nil {
		c.index = map[string]int{}
	}
	if i, ok := c.index[label]; ok {
		c.buckets[i].Count++
		return
	}
	c.index[label] = len(c.buckets)
	c.buckets = append(c.buckets, Bucket{Label: label, Count: 1})
}

// Get returns the count for label, zero when absent.
func (c Counts) Get(label string) int {
	if i, ok := c.index[label]; ok {
		return c.buckets[i].Count
	}
	return 0
}

// Has reports whether label was ever counted.
func (c Counts) Has(label string) bool {
	_, ok := c.index[label]
	return ok
}

// Buckets returns a copy of the buckets in first-seen order.
func (c Counts) Buckets() []Bucket {
	out := make([]Bucket, len(c.buckets))
	copy(out, c.buckets)
	return out
}

func (c Counts) Len() int { return len(c.buckets) }

// Total is the sum of all bucket counts.
func (c Counts) Total() int {
	n := 0
	for _, b := range c.buckets {
		n += b.Count
	}
	return n
}

// Max is the largest bucket count; bar charts scale against it.
func (c Counts) Max() int {
	n := 0
	for _, b := range c.buckets {
		if b.Count > n {
			n = b.Count
		}
	}
	return n
}

// MarshalJSON writes the buckets as an ordered array.
func (c Counts) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Buckets())
}

func (c *Counts) UnmarshalJSON(data []byte) error {
	var buckets []Bucket
	if err := json.Unmarshal(data, &buckets); err != nil {
		return err
	}
	*c = Counts{}
	for _, b := range buckets {
		for i := 0; i < b.Count; i++ {
			c.Add(b.Label)
		}
	}
	return nil
}

// Breakdown holds the per-dimension counts of one filmography.
//
// ByPrimaryRole counts each film once under its primary role. ByRole counts
// role exposure: the primary role plus every additional role, so its total
// may exceed the number of films.
type Breakdown struct {
	ByStatus      Counts `json:"by_status"`
	ByFormat      Counts `json:"by_format"`
	ByPrimaryRole Counts `json:"by_primary_role"`
	ByRole        Counts `json:"by_role"`
	ByCrewScale   Counts `json:"by_crew_scale"`
	ByGenre       Counts `json:"by_genre"`
}

// Aggregate builds the breakdown of films in a single pass.
func Aggregate(films []models.FilmographyEntry) Breakdown {
	var b Breakdown
	for _, f := range films {
		b.ByStatus.Add(f.ProductionStatus)
		b.ByFormat.Add(f.Format)
		b.ByPrimaryRole.Add(f.PrimaryRole)
		b.ByCrewScale.Add(f.CrewScale)
		for _, r := range f.Roles() {
			b.ByRole.Add(r)
		}
		for _, g := range f.Genres {
			b.ByGenre.Add(g)
		}
	}
	return b
}

// AchievementItem is an achievement annotated with the film it belongs to.
type AchievementItem struct {
	Achievement models.FilmAchievement `json:"achievement"`
	FilmID      string                 `json:"filmId"`
	FilmTitle   string                 `json:"filmTitle"`
	FilmYear    string                 `json:"filmYear"`
}

// AchievementSummary counts achievements by result.
type AchievementSummary struct {
	Wins        int               `json:"wins"`
	Nominations int               `json:"nominations"`
	Selections  int               `json:"selections"`
	Screenings  int               `json:"screenings"`
	Items       []AchievementItem `json:"items"`
}

func (s AchievementSummary) Total() int {
	return s.Wins + s.Nominations + s.Selections + s.Screenings
}

// AggregateAchievements flattens every film's achievements and sorts them by
// achievement year, newest first. Years are compared as plain strings, so
// blank or short years sort the way strings do; ties keep input order.
func AggregateAchievements(films []models.FilmographyEntry) AchievementSummary {
	s := AchievementSummary{Items: []AchievementItem{}}
	for _, f := range films {
		for _, a := range f.Achievements {
			switch a.Result {
			case models.ResultWon:
				s.Wins++
			case models.ResultNominated:
				s.Nominations++
			case models.ResultSelected:
				s.Selections++
			case models.ResultScreened:
				s.Screenings++
			}
			s.Items = append(s.Items, AchievementItem{
				Achievement: a,
				FilmID:      f.ID,
				FilmTitle:   f.Title,
				FilmYear:    f.Year,
			})
		}
	}
	sort.SliceStable(s.Items, func(i, j int) bool {
		return s.Items[i].Achievement.Year > s.Items[j].Achievement.Year
	})
	return s
}

// Summary is the header line of the producer view.
type Summary struct {
	Films        int    `json:"films"`
	Achievements int    `json:"achievements"`
	FirstYear    string `json:"first_year,omitempty"`
	LatestYear   string `json:"latest_year,omitempty"`
}

// Totals counts films and achievements and finds the span of numeric film
// years. Non-numeric years are ignored for the span.
func Totals(films []models.FilmographyEntry) Summary {
	s := Summary{Films: len(films)}
	first, latest := 0, 0
	for _, f := range films {
		s.Achievements += len(f.Achievements)
		y, err := strconv.Atoi(strings.TrimSpace(f.Year))
		if err != nil || y <= 0 {
			continue
		}
		if first == 0 || y < first {
			first = y
		}
		if y > latest {
			latest = y
		}
	}
	if first > 0 {
		s.FirstYear = strconv.Itoa(first)
		s.LatestYear = strconv.Itoa(latest)
	}
	return s
}

// SortByYearDesc returns a copy of films ordered by year, newest first,
// using the same string comparison as achievements.
func SortByYearDesc(films []models.FilmographyEntry) []models.FilmographyEntry {
	out := make([]models.FilmographyEntry, len(films))
	copy(out, films)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Year > out[j].Year
	})
	return out
}
