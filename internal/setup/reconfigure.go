package setup

import (
	"context"
	"errors"
	"log/slog"

	"github.com/five82/dinemenu/internal/entry"
)

// EntryUpdater replaces a persisted entry.
type EntryUpdater interface {
	Update(uniqueID string, e entry.Entry) error
}

// Reconfigure edits the period selection of an existing entry. Location
// fields are never changed.
type Reconfigure struct {
	entry   entry.Entry
	entries EntryUpdater
	logger  *slog.Logger
	updated *entry.Entry
}

// NewReconfigure starts editing e.
func NewReconfigure(e entry.Entry, entries EntryUpdater, logger *slog.Logger) *Reconfigure {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconfigure{entry: e, entries: entries, logger: logger}
}

// Form shows the editable selection: the locked period of a static entry,
// or every stored window of a dynamic one.
func (r *Reconfigure) Form() Form {
	switch sel := r.entry.Selection.(type) {
	case entry.Static:
		return Form{Step: StepPeriod, Options: []string{sel.PeriodName}, Default: sel.PeriodName}
	case entry.Dynamic:
		return Form{Step: StepWindows, Windows: fieldsOf(sel.Windows)}
	}
	return Form{Step: StepAborted, Error: ErrUnknown}
}

// SelectPeriod confirms the period of a static entry.
func (r *Reconfigure) SelectPeriod(_ context.Context, name string) Form {
	sel, ok := r.entry.Selection.(entry.Static)
	if !ok || name != sel.PeriodName {
		r.logger.Error("reconfigure rejected period", "period", name)
		return Form{Step: StepPeriod, Options: []string{sel.PeriodName}, Default: sel.PeriodName, Error: ErrUnknown}
	}
	return r.save(r.entry.WithSelection(entry.Static{PeriodID: sel.PeriodID, PeriodName: name}))
}

// SubmitWindows replaces the bounds of every stored window. Slugs, ids and
// names are kept.
func (r *Reconfigure) SubmitWindows(_ context.Context, values []WindowValue) Form {
	sel, ok := r.entry.Selection.(entry.Dynamic)
	if !ok || len(values) != len(sel.Windows) {
		r.logger.Error("reconfigure rejected windows", "values", len(values))
		return Form{Step: StepWindows, Windows: fieldsOf(sel.Windows), Error: ErrUnknown}
	}
	fields := applyValues(fieldsOf(sel.Windows), values)
	if !anyValid(fields, r.logger) {
		return Form{Step: StepWindows, Windows: fields, Error: ErrInvalidTimeWindow}
	}
	return r.save(r.entry.WithSelection(entry.Dynamic{Windows: toWindows(fields)}))
}

// Result returns the updated entry.
func (r *Reconfigure) Result() (entry.Entry, bool) {
	if r.updated == nil {
		return entry.Entry{}, false
	}
	return *r.updated, true
}

func (r *Reconfigure) save(e entry.Entry) Form {
	if err := r.entries.Update(r.entry.UniqueID(), e); err != nil {
		r.logger.Error("reconfigure save failed", "unique_id", r.entry.UniqueID(), "error", err)
		form := r.Form()
		form.Error = ErrUnknown
		if errors.Is(err, entry.ErrNotFound) {
			form.Step = StepAborted
		}
		return form
	}
	r.logger.Info("entry reconfigured", "unique_id", e.UniqueID())
	r.updated = &e
	return Form{Step: StepDone, Entry: &e}
}
