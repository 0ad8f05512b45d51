package setup

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/five82/dinemenu/internal/dining"
	"github.com/five82/dinemenu/internal/entry"
)

// Step names a form of the setup flow.
type Step string

const (
	StepSchool   Step = "school"
	StepLocation Step = "location"
	StepMode     Step = "mode"
	StepPeriod   Step = "period"
	StepWindows  Step = "windows"
	StepDone     Step = "done"
	StepAborted  Step = "aborted"
)

// Mode is the period selection chosen at the mode step.
type Mode string

const (
	ModeDynamic Mode = "dynamic"
	ModeStatic  Mode = "static"
)

// FormError is the error code shown on a form.
type FormError string

const (
	ErrUnknown           FormError = "unknown"
	ErrInvalidTimeWindow FormError = "invalid_time_window"
	ErrAlreadyConfigured FormError = "already_configured"
)

// Form is what the front end renders for the current step.
type Form struct {
	Step    Step
	Options []string      // choices of the school, location, mode and period steps
	Default string        // preselected choice, if any
	Windows []WindowField // fields of the windows step
	Error   FormError
	Entry   *entry.Entry // the created or updated entry once Step is StepDone
}

// EntryAdder persists a new entry.
type EntryAdder interface {
	Add(e entry.Entry) error
}

// Options tune a Flow.
type Options struct {
	Location *time.Location // defines "today"; nil uses time.Local
	Now      func() time.Time
	Logger   *slog.Logger
}

// Flow walks one new entry through school, location, mode and period
// selection. It is not safe for concurrent use.
type Flow struct {
	catalog dining.Catalog
	entries EntryAdder
	loc     *time.Location
	now     func() time.Time
	logger  *slog.Logger

	step      Step
	schools   []dining.School
	locations []dining.Location
	periods   []dining.Period
	school    dining.School
	location  dining.Location
	created   *entry.Entry
}

// NewFlow returns a flow that reads from catalog and saves to entries.
func NewFlow(catalog dining.Catalog, entries EntryAdder, opts Options) *Flow {
	f := &Flow{
		catalog: catalog,
		entries: entries,
		loc:     opts.Location,
		now:     opts.Now,
		logger:  opts.Logger,
		step:    StepSchool,
	}
	if f.loc == nil {
		f.loc = time.Local
	}
	if f.now == nil {
		f.now = time.Now
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Step reports the current step.
func (f *Flow) Step() Step { return f.step }

// Start shows the school step.
func (f *Flow) Start(ctx context.Context) Form {
	f.step = StepSchool
	return f.showSchools(ctx)
}

// Retry shows the current step again, refetching its data.
func (f *Flow) Retry(ctx context.Context) Form {
	switch f.step {
	case StepSchool:
		return f.showSchools(ctx)
	case StepLocation:
		return f.showLocations(ctx)
	case StepMode:
		return modeForm()
	case StepPeriod:
		return f.showPeriods(ctx)
	case StepWindows:
		return f.showWindows(ctx)
	}
	return Form{Step: f.step, Entry: f.created}
}

// SelectSchool picks a school by name and shows the location step.
func (f *Flow) SelectSchool(ctx context.Context, name string) Form {
	f.logger.Debug("setup step", "step", StepSchool, "input", name)
	for _, s := range f.schools {
		if s.Name == name {
			f.school = s
			f.step = StepLocation
			return f.showLocations(ctx)
		}
	}
	return f.fail(StepSchool, errors.New("unknown school "+name))
}

// SelectLocation picks a location by name and shows the mode step.
func (f *Flow) SelectLocation(_ context.Context, name string) Form {
	f.logger.Debug("setup step", "step", StepLocation, "input", name)
	for _, l := range f.locations {
		if l.Name == name {
			f.location = l
			f.step = StepMode
			return modeForm()
		}
	}
	return f.fail(StepLocation, errors.New("unknown location "+name))
}

// SelectMode picks static or dynamic selection. An empty mode means the
// default, dynamic.
func (f *Flow) SelectMode(ctx context.Context, mode Mode) Form {
	f.logger.Debug("setup step", "step", StepMode, "input", mode)
	switch mode {
	case ModeStatic:
		f.step = StepPeriod
		return f.showPeriods(ctx)
	case ModeDynamic, "":
		f.step = StepWindows
		return f.showWindows(ctx)
	}
	return f.fail(StepMode, errors.New("unknown mode "+string(mode)))
}

// SelectPeriod picks today's period by name and creates a static entry.
func (f *Flow) SelectPeriod(_ context.Context, name string) Form {
	f.logger.Debug("setup step", "step", StepPeriod, "input", name)
	for _, p := range f.periods {
		if p.Name == name {
			return f.create(entry.Entry{
				Title:        f.school.Name + " - " + f.location.Name + " - " + p.Name,
				SchoolID:     f.school.ID,
				LocationID:   f.location.ID,
				LocationName: f.location.Name,
				Selection:    entry.Static{PeriodID: p.ID, PeriodName: p.Name},
			})
		}
	}
	return f.fail(StepPeriod, errors.New("unknown period "+name))
}

// SubmitWindows validates the edited windows, one value per field shown,
// and creates a dynamic entry. At least one window must have a start
// strictly before its end; otherwise the form is shown again with the
// submitted values.
func (f *Flow) SubmitWindows(_ context.Context, values []WindowValue) Form {
	fields := windowFields(f.periods)
	if len(values) != len(fields) {
		return f.fail(StepWindows, errors.New("window count mismatch"))
	}
	fields = applyValues(fields, values)
	if !anyValid(fields, f.logger) {
		return Form{Step: StepWindows, Windows: fields, Error: ErrInvalidTimeWindow}
	}
	windows := toWindows(fields)
	f.logger.Debug("dynamic windows configured", "windows", windows)
	return f.create(entry.Entry{
		Title:        f.school.Name + " - " + f.location.Name + " (Dynamic)",
		SchoolID:     f.school.ID,
		LocationID:   f.location.ID,
		LocationName: f.location.Name,
		Selection:    entry.Dynamic{Windows: windows},
	})
}

// Result returns the entry created by the flow.
func (f *Flow) Result() (entry.Entry, bool) {
	if f.created == nil {
		return entry.Entry{}, false
	}
	return *f.created, true
}

func (f *Flow) create(e entry.Entry) Form {
	err := f.entries.Add(e)
	switch {
	case errors.Is(err, entry.ErrAlreadyConfigured):
		f.logger.Info("entry already configured", "unique_id", e.UniqueID())
		f.step = StepAborted
		return Form{Step: StepAborted, Error: ErrAlreadyConfigured}
	case err != nil:
		return f.fail(f.step, err)
	}
	f.logger.Info("entry created", "unique_id", e.UniqueID(), "title", e.Title)
	f.created = &e
	f.step = StepDone
	return Form{Step: StepDone, Entry: &e}
}

func (f *Flow) today() time.Time {
	return f.now().In(f.loc)
}

func (f *Flow) showSchools(ctx context.Context) Form {
	schools, err := f.catalog.Schools(ctx)
	if err != nil {
		return f.fail(StepSchool, err)
	}
	f.schools = schools
	names := make([]string, 0, len(schools))
	for _, s := range schools {
		names = append(names, s.Name)
	}
	return Form{Step: StepSchool, Options: names}
}

func (f *Flow) showLocations(ctx context.Context) Form {
	locations, err := f.catalog.Locations(ctx, f.school.ID)
	if err != nil {
		return f.fail(StepLocation, err)
	}
	f.locations = locations
	names := make([]string, 0, len(locations))
	for _, l := range locations {
		names = append(names, l.Name)
	}
	return Form{Step: StepLocation, Options: names}
}

func (f *Flow) showPeriods(ctx context.Context) Form {
	periods, err := f.catalog.Periods(ctx, f.location.ID, f.today())
	if err != nil {
		return f.fail(StepPeriod, err)
	}
	f.periods = periods
	names := make([]string, 0, len(periods))
	for _, p := range periods {
		names = append(names, p.Name)
	}
	return Form{Step: StepPeriod, Options: names}
}

func (f *Flow) showWindows(ctx context.Context) Form {
	periods, err := f.catalog.Periods(ctx, f.location.ID, f.today())
	if err != nil {
		return f.fail(StepWindows, err)
	}
	f.periods = periods
	return Form{Step: StepWindows, Windows: windowFields(periods)}
}

func modeForm() Form {
	return Form{Step: StepMode, Options: []string{string(ModeDynamic), string(ModeStatic)}, Default: string(ModeDynamic)}
}

// fail keeps the flow on step and reports the generic error code.
func (f *Flow) fail(step Step, err error) Form {
	f.logger.Error("setup step failed", "step", step, "error", err)
	f.step = step
	return Form{Step: step, Error: ErrUnknown}
}
