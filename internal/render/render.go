// Package render projects a canonical profile into the audience or producer
// view.
package render

import (
	"fmt"
	"strings"

	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/reconcile"
)

type Mode string

const (
	ModeAudience Mode = "audience"
	ModeProducer Mode = "producer"
)

// ParseMode accepts "producer" in any case; everything else is audience.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeProducer)) {
		return ModeProducer
	}
	return ModeAudience
}

// GatePolicy decides what an anonymous request for the producer view gets.
type GatePolicy string

const (
	// GateNoop silently renders the audience view.
	GateNoop GatePolicy = "noop"
	// GatePrompt renders the audience view with an inline login prompt.
	GatePrompt GatePolicy = "prompt"
)

// ParseGatePolicy maps configuration text onto a policy.
func ParseGatePolicy(s string) (GatePolicy, error) {
	switch GatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case GateNoop:
		return GateNoop, nil
	case GatePrompt, "":
		return GatePrompt, nil
	}
	return "", fmt.Errorf("unknown producer gate policy %q", s)
}

type Request struct {
	Mode       Mode
	IsLoggedIn bool
}

// LoginPrompt is shown in place of the producer view.
type LoginPrompt struct {
	Message  string `json:"message"`
	LoginURL string `json:"login_url"`
}

// View is the render result. Exactly one of Audience and Producer is set.
type View struct {
	FilmmakerID   string        `json:"filmmaker_id"`
	Mode          Mode          `json:"mode"`
	RequestedMode Mode          `json:"requested_mode"`
	Audience      *AudienceView `json:"audience,omitempty"`
	Producer      *ProducerView `json:"producer,omitempty"`
	LoginPrompt   *LoginPrompt  `json:"login_prompt,omitempty"`
}

type Renderer struct {
	policy   GatePolicy
	loginURL string
}

func NewRenderer(policy GatePolicy, loginURL string) *Renderer {
	if policy != GateNoop {
		policy = GatePrompt
	}
	return &Renderer{policy: policy, loginURL: loginURL}
}

func (r *Renderer) Policy() GatePolicy { return r.policy }

// Render builds the view of profile id for req. A producer request without
// a login falls back to the audience view under the configured policy.
func (r *Renderer) Render(id string, p models.ProfileData, req Request) View {
	v := View{FilmmakerID: id, RequestedMode: req.Mode}
	if req.Mode != ModeProducer {
		v.RequestedMode = ModeAudience
	}

	if v.RequestedMode == ModeProducer && req.IsLoggedIn {
		v.Mode = ModeProducer
		v.Producer = Producer(p)
		return v
	}

	v.Mode = ModeAudience
	v.Audience = Audience(p)
	if v.RequestedMode == ModeProducer && r.policy == GatePrompt {
		v.LoginPrompt = &LoginPrompt{
			Message:  "Log in to see the producer view of this profile.",
			LoginURL: r.loginURL,
		}
	}
	return v
}

// Hero is the heading block shared by both views.
type Hero struct {
	Name       string   `json:"name"`
	Location   string   `json:"location"`
	PhotoURL   string   `json:"photo_url,omitempty"`
	ThemeRole  string   `json:"theme_role"`
	ThemeColor string   `json:"theme_color"`
	Roles      []string `json:"roles"`
}

func hero(p models.ProfileData) Hero {
	role := reconcile.ThemeRole(p)
	return Hero{
		Name:       p.StageName,
		Location:   reconcile.ProfileLocation(p),
		PhotoURL:   p.ProfilePhotoURL,
		ThemeRole:  role,
		ThemeColor: reconcile.ThemeColor(role),
		Roles:      p.AllRoles(),
	}
}
