// Package wizard implements the six step profile creation flow.
//
// The wizard owns an in-progress models.ProfileData and the current step.
// Step changes caused by the user's own navigation (Next, Back, clicking an
// earlier step) are reported to a Navigator so the caller can record an
// address history entry; changes that come from the address itself
// (SetStep, used for browser back/forward) are not, which keeps the two in
// sync without a history loop.
package wizard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/reconcile"
)

type Step int

const (
	StepPersonal Step = iota + 1
	StepProfessional
	StepFilmography
	StepSocial
	StepEducation
	StepPreview
)

const (
	FirstStep = StepPersonal
	LastStep  = StepPreview
)

var stepNames = map[Step]string{
	StepPersonal:     "personal",
	StepProfessional: "professional",
	StepFilmography:  "filmography",
	StepSocial:       "social",
	StepEducation:    "education",
	StepPreview:      "preview",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return "step(" + strconv.Itoa(int(s)) + ")"
}

// Clamp maps any integer onto a valid step.
func Clamp(n int) Step {
	if n < int(FirstStep) {
		return FirstStep
	}
	if n > int(LastStep) {
		return LastStep
	}
	return Step(n)
}

// StepFromQuery reads the step query parameter. Missing or malformed values
// yield the first step; out of range values are clamped.
func StepFromQuery(v url.Values) Step {
	n, err := strconv.Atoi(strings.TrimSpace(v.Get("step")))
	if err != nil {
		return FirstStep
	}
	return Clamp(n)
}

// Query renders the address query for a step.
func (s Step) Query() string {
	return url.Values{"step": {strconv.Itoa(int(s))}}.Encode()
}

// Navigator records a navigation history entry for a step.
type Navigator interface {
	Push(step Step)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(step Step)

func (f NavigatorFunc) Push(step Step) { f(step) }

// History is a Navigator that remembers every pushed step.
type History struct {
	Entries []Step
}

func (h *History) Push(step Step) { h.Entries = append(h.Entries, step) }

// Pushed reports whether anything was pushed.
func (h *History) Pushed() bool { return len(h.Entries) > 0 }

var (
	ErrNoFields            = errors.New("step has no editable fields")
	ErrFilmNotFound        = errors.New("film not found")
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrEmptyRole           = errors.New("role is empty")
)

// State is the persistable snapshot of a wizard session. Version counts
// stored writes; a store only accepts a save made from the latest version.
type State struct {
	Step        Step               `json:"step"`
	Profile     models.ProfileData `json:"profile"`
	CustomRoles []string           `json:"customRoles"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	Version     int64              `json:"version"`
}

// Wizard is not safe for concurrent use.
type Wizard struct {
	state State
	nav   Navigator
}

// New starts an empty session on the first step.
func New(nav Navigator) *Wizard {
	return Resume(State{Step: FirstStep, Profile: models.NewProfileData()}, nav)
}

// Resume continues a stored session. The stored step is clamped and the
// profile's role lists are brought back within limits.
func Resume(s State, nav Navigator) *Wizard {
	if nav == nil {
		nav = NavigatorFunc(func(Step) {})
	}
	s.Step = Clamp(int(s.Step))
	s.Profile.EnsureLists()
	s.Profile.PrimaryRoles, s.Profile.SecondaryRoles, _ = reconcile.SplitRoles(s.Profile.PrimaryRoles, s.Profile.SecondaryRoles)
	if s.CustomRoles == nil {
		s.CustomRoles = []string{}
	}
	return &Wizard{state: s, nav: nav}
}

// State returns a snapshot safe to persist.
func (w *Wizard) State() State {
	s := w.state
	data, _ := json.Marshal(s.Profile)
	var p models.ProfileData
	if err := json.Unmarshal(data, &p); err == nil {
		s.Profile = p
	}
	s.CustomRoles = append([]string{}, w.state.CustomRoles...)
	return s
}

func (w *Wizard) Step() Step { return w.state.Step }

func (w *Wizard) Profile() models.ProfileData { return w.state.Profile }

// SetStep moves to n clamped into range without recording history.
func (w *Wizard) SetStep(n int) Step {
	w.state.Step = Clamp(n)
	return w.state.Step
}

// Next validates the current step and advances. Validation failures leave
// the step unchanged and return a *ValidationError.
func (w *Wizard) Next() error {
	if err := ValidateStep(w.state.Profile, w.state.Step); err != nil {
		return err
	}
	w.move(Clamp(int(w.state.Step) + 1))
	return nil
}

// Back moves one step back without validating.
func (w *Wizard) Back() {
	w.move(Clamp(int(w.state.Step) - 1))
}

// GoTo jumps to an earlier step. Forward jumps and the current step are
// ignored; the return value reports whether the step changed.
func (w *Wizard) GoTo(k int) bool {
	if k < int(FirstStep) || k >= int(w.state.Step) {
		return false
	}
	w.move(Step(k))
	return true
}

func (w *Wizard) move(s Step) {
	w.state.Step = s
	w.nav.Push(s)
	w.touch()
}

func (w *Wizard) touch() {
	w.state.UpdatedAt = time.Now().UTC()
}

// ApplyFields merges a partial JSON object into the fields owned by the
// current step. Keys of other steps are ignored.
func (w *Wizard) ApplyFields(data []byte) error {
	p := &w.state.Profile
	var err error
	switch w.state.Step {
	case StepPersonal:
		err = applyPersonal(data, p)
	case StepProfessional:
		err = applyProfessional(data, p)
	case StepSocial:
		err = json.Unmarshal(data, &p.SocialLinks)
	case StepEducation:
		err = json.Unmarshal(data, &p.Education)
	default:
		return fmt.Errorf("%w: %s", ErrNoFields, w.state.Step)
	}
	if err != nil {
		return fmt.Errorf("failed to apply %s fields: %w", w.state.Step, err)
	}
	w.touch()
	return nil
}

// HasUnsavedChanges approximates a dirty check: more than five top level
// fields hold a value.
func (w *Wizard) HasUnsavedChanges() bool {
	return populatedFields(w.state.Profile) > 5
}

// Publish validates the whole profile and returns its canonical form.
func (w *Wizard) Publish(now time.Time) (models.ProfileData, error) {
	if err := ValidatePublish(w.state.Profile); err != nil {
		return models.ProfileData{}, err
	}
	p := reconcile.FromWizard(w.state.Profile)
	p.IsComplete = true
	p.LastUpdated = now.UTC()
	return p, nil
}

func populatedFields(p models.ProfileData) int {
	data, err := json.Marshal(p)
	if err != nil {
		return 0
	}
	var r reconcile.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return 0
	}
	n := 0
	for k := range r {
		if k == "isComplete" || k == "lastUpdated" {
			continue
		}
		if reconcile.Resolve(r, k) != nil {
			n++
		}
	}
	return n
}
