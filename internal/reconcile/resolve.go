// Package reconcile turns loosely shaped profile records into the canonical
// models.ProfileData.
//
// Profiles arrive under two naming conventions: the wizard writes camelCase
// keys (stageName, currentCity, primaryRoles) while the legacy bulk ingestion
// wrote snake_case or short keys (name, current_location, roles). Readers
// always prefer the wizard key and fall back to the legacy one.
package reconcile

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is a decoded JSON object of unknown vintage.
type Record map[string]any

// LocationPlaceholder is shown when no location field is populated.
const LocationPlaceholder = "Location"

// Resolve returns the value of the first candidate key that is present.
// Keys may be dotted paths into nested objects ("socialLinks.instagram").
// Missing keys, nil, blank strings, empty lists and empty objects all count
// as absent. Resolve returns nil when no candidate is present.
func Resolve(r Record, keys ...string) any {
	for _, key := range keys {
		if v, ok := lookup(r, key); ok && present(v) {
			return v
		}
	}
	return nil
}

// String resolves keys and renders the value as text. Numbers keep their
// shortest form so a year stored as 2021 reads back as "2021".
func String(r Record, keys ...string) string {
	for _, key := range keys {
		v, ok := lookup(r, key)
		if !ok || !present(v) {
			continue
		}
		if s := toString(v); s != "" {
			return s
		}
	}
	return ""
}

// Strings resolves keys into a list. A plain string is wrapped into a
// one-element list as is, commas included. The result is never nil.
func Strings(r Record, keys ...string) []string {
	for _, key := range keys {
		v, ok := lookup(r, key)
		if !ok || !present(v) {
			continue
		}
		if list := toStrings(v); len(list) > 0 {
			return list
		}
	}
	return []string{}
}

// Bool resolves keys into a boolean, accepting JSON booleans and the usual
// textual spellings. ok is false when nothing usable is present.
func Bool(r Record, keys ...string) (value, ok bool) {
	for _, key := range keys {
		v, found := lookup(r, key)
		if !found || !present(v) {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t, true
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
				return b, true
			}
			switch strings.ToLower(strings.TrimSpace(t)) {
			case "yes", "y":
				return true, true
			case "no", "n":
				return false, true
			}
		}
	}
	return false, false
}

// Records resolves keys into a list of nested objects, skipping anything that
// is not an object.
func Records(r Record, keys ...string) []Record {
	v := Resolve(r, keys...)
	items, ok := v.([]any)
	if !ok {
		return []Record{}
	}
	out := make([]Record, 0, len(items))
	for _, item := range items {
		if m, ok := asRecord(item); ok {
			out = append(out, m)
		}
	}
	return out
}

// DisplayName prefers the wizard stage name over the legacy name.
func DisplayName(r Record) string {
	return String(r, "stageName", "name", "stage_name")
}

// DisplayLocation prefers the legacy free-text location, then the joined
// city, state and country, then the placeholder.
func DisplayLocation(r Record) string {
	if loc := String(r, "current_location", "currentLocation"); loc != "" {
		return loc
	}
	joined := JoinNonEmpty(", ",
		String(r, "currentCity", "current_city"),
		String(r, "currentState", "current_state"),
		String(r, "country"),
	)
	if joined != "" {
		return joined
	}
	return LocationPlaceholder
}

// Roles prefers the wizard's primary roles, then the legacy roles list, then
// a single legacy role string.
func Roles(r Record) []string {
	return Strings(r, "primaryRoles", "roles", "role")
}

// JoinNonEmpty joins the non-blank parts with sep.
func JoinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func lookup(r Record, path string) (any, bool) {
	if r == nil {
		return nil, false
	}
	if v, ok := r[path]; ok {
		return v, true
	}
	parts := strings.Split(path, ".")
	if len(parts) == 1 {
		return nil, false
	}
	var cur any = map[string]any(r)
	for _, part := range parts {
		m, ok := asRecord(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]any:
		return Record(m), true
	}
	return nil, false
}

func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case Record:
		return len(t) > 0
	}
	return true
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case []any, []string:
		return strings.Join(toStrings(t), ", ")
	case map[string]any, Record:
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func toStrings(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range t {
			if s := toString(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	default:
		if s := toString(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}
