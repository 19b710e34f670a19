package wizard

import (
	"fmt"
	"slices"
	"strings"

	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/reconcile"
)

// Slot names a role list.
type Slot string

const (
	SlotPrimary   Slot = "primary"
	SlotSecondary Slot = "secondary"
)

func (s Slot) Valid() bool { return s == SlotPrimary || s == SlotSecondary }

// LimitWarning is returned when a selection would break a role limit. The
// selection is not applied.
type LimitWarning struct {
	Slot  Slot
	Limit int
	Total bool
}

func (w *LimitWarning) Error() string {
	if w.Total {
		return fmt.Sprintf("you can select up to %d roles in total", w.Limit)
	}
	return fmt.Sprintf("you can select up to %d %s roles", w.Limit, w.Slot)
}

// SelectPrimary toggles role in the primary list, moving it out of the
// secondary list if it is there.
func (w *Wizard) SelectPrimary(role string) error {
	return w.toggleRole(role, SlotPrimary)
}

// SelectSecondary toggles role in the secondary list, moving it out of the
// primary list if it is there.
func (w *Wizard) SelectSecondary(role string) error {
	return w.toggleRole(role, SlotSecondary)
}

// Select dispatches to SelectPrimary or SelectSecondary.
func (w *Wizard) Select(role string, slot Slot) error {
	switch slot {
	case SlotPrimary:
		return w.SelectPrimary(role)
	case SlotSecondary:
		return w.SelectSecondary(role)
	}
	return fmt.Errorf("unknown role slot %q", slot)
}

func (w *Wizard) toggleRole(role string, slot Slot) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return ErrEmptyRole
	}
	p := &w.state.Profile
	target, other := &p.PrimaryRoles, &p.SecondaryRoles
	limit := reconcile.MaxPrimaryRoles
	if slot == SlotSecondary {
		target, other = other, target
		limit = reconcile.MaxSecondaryRoles
	}

	if i := slices.Index(*target, role); i >= 0 {
		*target = slices.Delete(*target, i, i+1)
		w.touch()
		return nil
	}

	j := slices.Index(*other, role)
	if len(*target) >= limit {
		return &LimitWarning{Slot: slot, Limit: limit}
	}
	total := len(*target) + len(*other)
	if j < 0 && total >= reconcile.MaxTotalRoles {
		return &LimitWarning{Slot: slot, Limit: reconcile.MaxTotalRoles, Total: true}
	}

	if j >= 0 {
		*other = slices.Delete(*other, j, j+1)
	}
	*target = append(*target, role)
	w.touch()
	return nil
}

// AddCustomRole handles a typed role. A case-sensitive match of a standard
// or previously added custom role toggles that role. Anything else is added
// to the session's custom roles and then selected, subject to the usual
// limits; the custom role stays available even when selection is refused.
func (w *Wizard) AddCustomRole(role string, slot Slot) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return ErrEmptyRole
	}
	if !slot.Valid() {
		return fmt.Errorf("unknown role slot %q", slot)
	}
	if !slices.Contains(models.StandardRoles, role) && !slices.Contains(w.state.CustomRoles, role) {
		w.state.CustomRoles = append(w.state.CustomRoles, role)
	}
	return w.Select(role, slot)
}

// CustomRoles returns the custom roles added this session.
func (w *Wizard) CustomRoles() []string {
	return slices.Clone(w.state.CustomRoles)
}

// AvailableRoles is the selectable grid: standard roles then custom ones.
func (w *Wizard) AvailableRoles() []string {
	return append(slices.Clone(models.StandardRoles), w.state.CustomRoles...)
}
