package sensor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/five82/dinemenu/internal/dining"
	"github.com/five82/dinemenu/internal/entry"
	"github.com/five82/dinemenu/internal/menu"
	"github.com/five82/dinemenu/internal/period"
)

// Outcome names how a refresh cycle ended.
type Outcome string

const (
	OutcomeNormalized     Outcome = "normalized"
	OutcomeNoActivePeriod Outcome = "no_active_period"
	OutcomeFetchFailed    Outcome = "fetch_failed"
)

// MenuAttributes explain the menu sensor's state.
type MenuAttributes struct {
	Categories   menu.Categories `json:"categories"`
	Period       string          `json:"period"`
	ActivePeriod *string         `json:"active_period"`
	Windows      []entry.Window  `json:"windows"`
	Outcome      Outcome         `json:"outcome"`
}

// MenuState is the result of one refresh cycle. Value is always the total
// item count, zero when there is no menu.
type MenuState struct {
	Value      int
	Attributes MenuAttributes
	UpdatedAt  time.Time
}

// Deps are the collaborators of a MenuSensor.
type Deps struct {
	Periods  dining.PeriodLister
	Menus    dining.MenuFetcher
	Location *time.Location // host calendar; nil uses time.Local
	Now      func() time.Time
	Logger   *slog.Logger
}

// MenuSensor reports the menu of an entry's active period.
type MenuSensor struct {
	entry    entry.Entry
	resolver *period.Resolver
	menus    dining.MenuFetcher
	loc      *time.Location
	now      func() time.Time
	base     *slog.Logger
	logger   *slog.Logger

	name     string
	uniqueID string
	entityID string

	refreshMu sync.Mutex
	current   atomic.Pointer[MenuState]
	readyOnce sync.Once
	ready     chan struct{}
}

var _ Refresher = (*MenuSensor)(nil)

// NewMenuSensor builds the menu sensor for e.
func NewMenuSensor(e entry.Entry, deps Deps) *MenuSensor {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	s := &MenuSensor{
		entry:    e,
		resolver: period.NewResolver(deps.Periods, logger),
		menus:    deps.Menus,
		loc:      loc,
		now:      now,
		base:     logger,
		uniqueID: e.UniqueID(),
		ready:    make(chan struct{}),
	}

	var rawSlug string
	switch sel := e.Selection.(type) {
	case entry.Dynamic:
		s.name = e.LocationName + " (Current Menu)"
		rawSlug = e.LocationName + "_current_menu"
	case entry.Static:
		s.name = strings.TrimSpace(e.LocationName + " " + sel.PeriodName)
		rawSlug = e.LocationName + "_" + sel.PeriodName
	}
	s.SetEntityID(string(KindSensor) + "." + Slugify(rawSlug))
	return s
}

// SetEntityID replaces the derived entity id.
func (s *MenuSensor) SetEntityID(id string) {
	s.entityID = id
	s.logger = s.base.With("entity", id)
}

func (s *MenuSensor) EntityID() string { return s.entityID }
func (s *MenuSensor) UniqueID() string { return s.uniqueID }
func (s *MenuSensor) Name() string     { return s.name }
func (s *MenuSensor) Kind() Kind       { return KindSensor }

// Entry returns the configuration the sensor was built from.
func (s *MenuSensor) Entry() entry.Entry { return s.entry }

// Ready is closed once the first refresh cycle has finished, whatever its
// outcome.
func (s *MenuSensor) Ready() <-chan struct{} { return s.ready }

// Current returns the state of the latest cycle.
func (s *MenuSensor) Current() (MenuState, bool) {
	st := s.current.Load()
	if st == nil {
		return MenuState{}, false
	}
	return *st, true
}

// Categories returns the categories of the latest cycle. The value is
// shared and must not be modified.
func (s *MenuSensor) Categories() menu.Categories {
	st := s.current.Load()
	if st == nil {
		return nil
	}
	return st.Attributes.Categories
}

// Reading implements Refresher.
func (s *MenuSensor) Reading() (Reading, bool) {
	st, ok := s.Current()
	if !ok {
		return Reading{}, false
	}
	return Reading{State: st.Value, Attributes: st.Attributes, UpdatedAt: st.UpdatedAt}, true
}

// Refresh runs one cycle and publishes its state. Concurrent calls are
// serialized so cycles of one sensor never overlap.
func (s *MenuSensor) Refresh(ctx context.Context) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	st := s.cycle(ctx)
	s.current.Store(&st)
	s.readyOnce.Do(func() { close(s.ready) })
}

func (s *MenuSensor) cycle(ctx context.Context) MenuState {
	now := s.now().In(s.loc)

	var (
		active  period.Active
		windows []entry.Window
	)
	switch sel := s.entry.Selection.(type) {
	case entry.Static:
		id, ok := s.resolver.ResolveIDByName(ctx, s.entry.LocationID, now, sel.PeriodName)
		if !ok {
			s.logger.Info("configured period not served today", "period", sel.PeriodName)
			return s.noActivePeriod(now, sel.PeriodName, nil)
		}
		active = period.Active{ID: id, Name: sel.PeriodName}

	case entry.Dynamic:
		windows = sel.Copy().Windows
		match, ok := s.resolver.MatchWindow(sel.Windows, now)
		if !ok {
			return s.noActivePeriod(now, "", windows)
		}
		id, ok := s.resolver.ResolveIDByName(ctx, s.entry.LocationID, now, match.Name)
		if !ok {
			s.logger.Info("window period not served today", "period", match.Name)
			return s.noActivePeriod(now, match.Name, windows)
		}
		active = period.Active{ID: id, Name: match.Name}

	default:
		s.logger.Error("entry has no period selection")
		return s.noActivePeriod(now, "", nil)
	}

	name := active.Name
	snap, err := s.fetch(ctx, now, active)
	if err != nil {
		s.logger.Error("menu refresh failed", "period", active.Name, "period_id", active.ID, "error", err)
		return MenuState{
			Attributes: MenuAttributes{
				Categories:   menu.Categories{},
				Period:       active.Name,
				ActivePeriod: &name,
				Windows:      windows,
				Outcome:      OutcomeFetchFailed,
			},
			UpdatedAt: now,
		}
	}

	categories := snap.Categories
	if categories == nil {
		categories = menu.Categories{}
	}
	s.logger.Debug("menu refreshed", "period", active.Name, "period_id", active.ID, "items", snap.Total, "categories", len(categories))
	return MenuState{
		Value: snap.Total,
		Attributes: MenuAttributes{
			Categories:   categories,
			Period:       active.Name,
			ActivePeriod: &name,
			Windows:      windows,
			Outcome:      OutcomeNormalized,
		},
		UpdatedAt: now,
	}
}

// fetch converts a cancelled context or a panic while fetching or
// normalizing into an error.
func (s *MenuSensor) fetch(ctx context.Context, day time.Time, active period.Active) (snap menu.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("normalize menu: %v", r)
		}
	}()
	raw := s.menus.FetchMenu(ctx, s.entry.LocationID, day, active.ID)
	if err := ctx.Err(); err != nil {
		return menu.Snapshot{}, fmt.Errorf("fetch menu: %w", err)
	}
	return menu.Normalize(raw), nil
}

func (s *MenuSensor) noActivePeriod(now time.Time, label string, windows []entry.Window) MenuState {
	return MenuState{
		Attributes: MenuAttributes{
			Categories: menu.Categories{},
			Period:     label,
			Windows:    windows,
			Outcome:    OutcomeNoActivePeriod,
		},
		UpdatedAt: now,
	}
}
