package wizard

import (
	"slices"
	"strings"

	"cinegrok-backend/internal/models"
)

// AddFilm appends an empty filmography entry and returns it.
func (w *Wizard) AddFilm() models.FilmographyEntry {
	f := models.NewFilmographyEntry()
	w.state.Profile.Filmography = append(w.state.Profile.Filmography, f)
	w.touch()
	return f
}

// UpdateFilm replaces the entry with the same id. Achievement results are
// re-derived from their types and nil lists are filled.
func (w *Wizard) UpdateFilm(f models.FilmographyEntry) error {
	i := w.state.Profile.FilmIndex(f.ID)
	if i < 0 {
		return ErrFilmNotFound
	}
	f.EnsureLists()
	for j := range f.Achievements {
		f.Achievements[j].SetType(f.Achievements[j].Type)
	}
	w.state.Profile.Filmography[i] = f
	w.touch()
	return nil
}

// RemoveFilm deletes the entry with the given id.
func (w *Wizard) RemoveFilm(id string) error {
	i := w.state.Profile.FilmIndex(id)
	if i < 0 {
		return ErrFilmNotFound
	}
	w.state.Profile.Filmography = slices.Delete(w.state.Profile.Filmography, i, i+1)
	w.touch()
	return nil
}

// ToggleFilmGenre adds or removes a genre on a film.
func (w *Wizard) ToggleFilmGenre(filmID, genre string) error {
	return w.editFilm(filmID, func(f *models.FilmographyEntry) {
		f.Genres = toggle(f.Genres, genre)
	})
}

// ToggleFilmRole adds or removes an additional role on a film. The film's
// primary role is never duplicated into the additional list.
func (w *Wizard) ToggleFilmRole(filmID, role string) error {
	return w.editFilm(filmID, func(f *models.FilmographyEntry) {
		if strings.TrimSpace(role) == f.PrimaryRole {
			return
		}
		f.AdditionalRoles = toggle(f.AdditionalRoles, role)
	})
}

// AddAchievement appends an achievement of type t to a film.
func (w *Wizard) AddAchievement(filmID string, t models.AchievementType) (models.FilmAchievement, error) {
	var a models.FilmAchievement
	err := w.editFilm(filmID, func(f *models.FilmographyEntry) {
		a = models.NewFilmAchievement(t, "", f.Year)
		f.Achievements = append(f.Achievements, a)
	})
	return a, err
}

// SetAchievementType changes an achievement's type and its result with it.
func (w *Wizard) SetAchievementType(filmID, achievementID string, t models.AchievementType) error {
	found := false
	err := w.editFilm(filmID, func(f *models.FilmographyEntry) {
		for i := range f.Achievements {
			if f.Achievements[i].ID == achievementID {
				f.Achievements[i].SetType(t)
				found = true
				return
			}
		}
	})
	if err == nil && !found {
		return ErrAchievementNotFound
	}
	return err
}

// RemoveAchievement deletes an achievement from a film.
func (w *Wizard) RemoveAchievement(filmID, achievementID string) error {
	found := false
	err := w.editFilm(filmID, func(f *models.FilmographyEntry) {
		f.Achievements = slices.DeleteFunc(f.Achievements, func(a models.FilmAchievement) bool {
			if a.ID == achievementID {
				found = true
				return true
			}
			return false
		})
	})
	if err == nil && !found {
		return ErrAchievementNotFound
	}
	return err
}

func (w *Wizard) editFilm(id string, fn func(*models.FilmographyEntry)) error {
	i := w.state.Profile.FilmIndex(id)
	if i < 0 {
		return ErrFilmNotFound
	}
	fn(&w.state.Profile.Filmography[i])
	w.touch()
	return nil
}

func toggle(list []string, v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return list
	}
	if i := slices.Index(list, v); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return append(list, v)
}
