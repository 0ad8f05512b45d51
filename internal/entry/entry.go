// Package entry models a configured dining location and persists the set of
// configured entries to a TOML file.
package entry

import (
	"errors"
	"fmt"
	"strings"
)

// Selection is the period selection of an entry: exactly one of Static or
// Dynamic.
type Selection interface {
	isSelection()
}

// Static pins an entry to one period, identified by name. PeriodID is the id
// observed at setup time and is only a display hint.
type Static struct {
	PeriodID   string
	PeriodName string
}

// Dynamic picks the current period by matching the time of day against
// Windows, evaluated in order.
type Dynamic struct {
	Windows []Window
}

func (Static) isSelection()  {}
func (Dynamic) isSelection() {}

// Window is a locally configured time-of-day range for one period. ID and
// Name are the period's identity as last seen from the API and may be stale.
// Start and End use the "15:04" layout.
type Window struct {
	Slug  string `json:"slug"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Entry is one configured location.
type Entry struct {
	Title        string
	SchoolID     string
	LocationID   string
	LocationName string
	Selection    Selection
}

// ErrNoSelection reports an entry that has neither a static nor a dynamic
// selection.
var ErrNoSelection = errors.New("entry has no period selection")

// UniqueID identifies the entry among all configured entries.
func (e Entry) UniqueID() string {
	switch sel := e.Selection.(type) {
	case Static:
		return fmt.Sprintf("%s_%s_%s", e.SchoolID, e.LocationID, sel.PeriodID)
	case Dynamic:
		return fmt.Sprintf("%s_%s_dynamic", e.SchoolID, e.LocationID)
	default:
		return fmt.Sprintf("%s_%s", e.SchoolID, e.LocationID)
	}
}

// Dynamic reports whether the entry uses time windows.
func (e Entry) Dynamic() bool {
	_, ok := e.Selection.(Dynamic)
	return ok
}

// Validate checks the fields the refresh cycle depends on.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.SchoolID) == "" {
		return fmt.Errorf("entry %q: school_id is required", e.Title)
	}
	if strings.TrimSpace(e.LocationID) == "" {
		return fmt.Errorf("entry %q: location_id is required", e.Title)
	}
	switch sel := e.Selection.(type) {
	case Static:
		if strings.TrimSpace(sel.PeriodName) == "" {
			return fmt.Errorf("entry %q: period_name is required", e.Title)
		}
	case Dynamic:
		if len(sel.Windows) == 0 {
			return fmt.Errorf("entry %q: at least one window is required", e.Title)
		}
	default:
		return fmt.Errorf("entry %q: %w", e.Title, ErrNoSelection)
	}
	return nil
}

// WithSelection returns a copy of e with its selection replaced and its
// location fields kept.
func (e Entry) WithSelection(sel Selection) Entry {
	e.Selection = sel
	return e
}

// Copy returns a copy of the windows so callers cannot alias the entry's
// slice.
func (d Dynamic) Copy() Dynamic {
	return Dynamic{Windows: append([]Window(nil), d.Windows...)}
}
