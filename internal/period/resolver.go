// Package period decides which menu period is active for a location.
//
// Period ids are not stable across days, so the live id is looked up by name
// on every refresh. Dynamic entries first map the current time of day to a
// configured window and then look that window's period up by name.
package period

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/five82/dinemenu/internal/dining"
	"github.com/five82/dinemenu/internal/entry"
)

// Active is the period selected for one refresh cycle. It is never
// persisted.
type Active struct {
	ID   string
	Name string
}

// Resolver looks up live period ids.
type Resolver struct {
	periods dining.PeriodLister
	logger  *slog.Logger
}

// NewResolver builds a Resolver over periods.
func NewResolver(periods dining.PeriodLister, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{periods: periods, logger: logger}
}

// ResolveIDByName fetches the location's periods for date and returns the id
// of the first one whose name equals name, ignoring case. ok is false when no
// period matches, including when the period list could not be fetched.
func (r *Resolver) ResolveIDByName(ctx context.Context, locationID string, date time.Time, name string) (id string, ok bool) {
	for _, p := range r.periods.FetchPeriods(ctx, locationID, date) {
		if strings.EqualFold(p.Name, name) {
			r.logger.Debug("resolved period id", "location", locationID, "period", name, "id", p.ID)
			return p.ID, true
		}
	}
	r.logger.Debug("period not listed", "location", locationID, "period", name, "date", date.Format(dining.DateLayout))
	return "", false
}

// MatchWindow returns the period of the first window, in stored order, whose
// inclusive [start, end] range contains the time of day of now. Windows with
// unparseable bounds are skipped with a warning. Overlapping windows are not
// an error; the earlier one wins.
func (r *Resolver) MatchWindow(windows []entry.Window, now time.Time) (Active, bool) {
	return MatchWindow(windows, now, r.logger)
}

// MatchWindow is the stateless form of Resolver.MatchWindow.
func MatchWindow(windows []entry.Window, now time.Time, logger *slog.Logger) (Active, bool) {
	if logger == nil {
		logger = slog.Default()
	}
	clock := ClockOf(now)
	for _, w := range windows {
		st, en, err := Bounds(w.Start, w.End)
		if err != nil {
			logger.Warn("skipping malformed window", "slug", w.Slug, "error", err)
			continue
		}
		if st <= clock && clock <= en {
			return Active{ID: w.ID, Name: w.Name}, true
		}
	}
	return Active{}, false
}
