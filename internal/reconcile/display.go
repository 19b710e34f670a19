package reconcile

import (
	"strings"

	"cinegrok-backend/internal/models"
)

// DefaultThemeRole is used when a profile lists no roles at all.
const DefaultThemeRole = "Filmmaker"

const defaultThemeColor = "#6B7280"

var themePalette = map[string]string{
	"director":            "#B91C1C",
	"producer":            "#1D4ED8",
	"screenwriter":        "#7C3AED",
	"cinematographer":     "#D97706",
	"editor":              "#047857",
	"actor":               "#DB2777",
	"sound designer":      "#0E7490",
	"composer":            "#4338CA",
	"production designer": "#A16207",
	"vfx artist":          "#0F766E",
	"colorist":            "#C2410C",
	"animator":            "#9333EA",
}

// ThemeRole is the role a profile is themed by: the first primary role, else
// the first secondary role, else DefaultThemeRole. It is derived on every
// read and never stored.
func ThemeRole(p models.ProfileData) string {
	for _, roles := range [][]string{p.PrimaryRoles, p.SecondaryRoles} {
		for _, r := range roles {
			if r = strings.TrimSpace(r); r != "" {
				return r
			}
		}
	}
	return DefaultThemeRole
}

// ThemeColor maps a role to its accent color. Unknown and custom roles share
// the neutral default.
func ThemeColor(role string) string {
	if c, ok := themePalette[strings.ToLower(strings.TrimSpace(role))]; ok {
		return c
	}
	return defaultThemeColor
}

// ProfileLocation applies the DisplayLocation order to a canonical profile.
func ProfileLocation(p models.ProfileData) string {
	if loc := strings.TrimSpace(p.CurrentLocation); loc != "" {
		return loc
	}
	if joined := JoinNonEmpty(", ", p.CurrentCity, p.CurrentState, p.Country); joined != "" {
		return joined
	}
	return LocationPlaceholder
}
