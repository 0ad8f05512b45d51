package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/dinemenu/internal/entry"
	"github.com/five82/dinemenu/internal/publish"
	"github.com/five82/dinemenu/internal/sensor"
	"github.com/five82/dinemenu/internal/state"
)

const (
	defaultSpawnTimeout  = time.Minute
	defaultButtonTimeout = 30 * time.Second
)

// RuntimeOptions configure a Runtime.
type RuntimeOptions struct {
	Deps          sensor.Deps
	Store         *state.Store      // nil allocates one
	Publisher     publish.Publisher // nil publishes nothing
	Logger        *slog.Logger
	PollInterval  time.Duration
	SpawnTimeout  time.Duration
	ButtonTimeout time.Duration
}

// Runtime owns every entity built from the configured entries.
type Runtime struct {
	deps          sensor.Deps
	store         *state.Store
	pub           publish.Publisher
	logger        *slog.Logger
	interval      time.Duration
	spawnTimeout  time.Duration
	buttonTimeout time.Duration

	mu      sync.RWMutex
	entries []entry.Entry
	buttons map[string]*sensor.RefreshButton

	wg sync.WaitGroup
}

// unit is the set of entities built from one entry.
type unit struct {
	entryID string
	menu    *sensor.MenuSensor
	button  *sensor.RefreshButton
}

// NewRuntime builds an empty runtime.
func NewRuntime(opts RuntimeOptions) *Runtime {
	r := &Runtime{
		deps:          opts.Deps,
		store:         opts.Store,
		pub:           opts.Publisher,
		logger:        opts.Logger,
		interval:      opts.PollInterval,
		spawnTimeout:  opts.SpawnTimeout,
		buttonTimeout: opts.ButtonTimeout,
		buttons:       make(map[string]*sensor.RefreshButton),
	}
	if r.store == nil {
		r.store = &state.Store{}
	}
	if r.pub == nil {
		r.pub = publish.Nop{}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.deps.Logger == nil {
		r.deps.Logger = r.logger
	}
	if r.interval <= 0 {
		r.interval = defaultPollInterval
	}
	if r.spawnTimeout <= 0 {
		r.spawnTimeout = defaultSpawnTimeout
	}
	if r.buttonTimeout <= 0 {
		r.buttonTimeout = defaultButtonTimeout
	}
	return r
}

// Start builds the entities of every entry and polls them until ctx is
// cancelled. Category sensors of an entry are spawned once its menu sensor
// has finished its first cycle.
func (r *Runtime) Start(ctx context.Context, entries []entry.Entry) {
	for _, e := range entries {
		u := r.add(e)
		r.startPoller(ctx, u.menu)

		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.spawnWhenReady(ctx, u)
		}()
	}
}

// Sync runs one cycle of every entry's entities on the calling goroutine
// and returns the resulting states.
func (r *Runtime) Sync(ctx context.Context, entries []entry.Entry) []state.Snapshot {
	for _, e := range entries {
		u := r.add(e)
		u.menu.Refresh(ctx)
		r.record(ctx, u.menu)
		for _, c := range r.spawn(u) {
			c.Refresh(ctx)
			r.record(ctx, c)
		}
	}
	return r.store.All()
}

// Wait blocks until every goroutine started by Start has exited.
func (r *Runtime) Wait() {
	r.wg.Wait()
}

// Entries returns the entries the runtime was started with.
func (r *Runtime) Entries() []entry.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entry.Entry(nil), r.entries...)
}

// Entities returns the state of every entity.
func (r *Runtime) Entities() []state.Snapshot {
	return r.store.All()
}

// Entity returns the state of one entity.
func (r *Runtime) Entity(entityID string) (state.Snapshot, bool) {
	return r.store.Snapshot(entityID)
}

// Press triggers the refresh button entityID and returns the states of the
// button and every entity it refreshed.
func (r *Runtime) Press(ctx context.Context, entityID string) ([]state.Snapshot, error) {
	r.mu.RLock()
	b, ok := r.buttons[entityID]
	r.mu.RUnlock()
	if !ok {
		if _, known := r.store.Snapshot(entityID); known {
			return nil, fmt.Errorf("%s: %w", entityID, state.ErrNotPressable)
		}
		return nil, fmt.Errorf("%s: %w", entityID, state.ErrUnknownEntity)
	}

	ctx, cancel := context.WithTimeout(ctx, r.buttonTimeout)
	defer cancel()

	refreshed := b.Press(ctx)
	out := make([]state.Snapshot, 0, len(refreshed)+1)
	out = append(out, r.record(ctx, b))
	for _, e := range refreshed {
		out = append(out, r.record(ctx, e))
	}
	return out, nil
}

func (r *Runtime) add(e entry.Entry) unit {
	menu := sensor.NewMenuSensor(e, r.deps)
	button := sensor.NewRefreshButton(menu, r.logger)
	u := unit{entryID: e.UniqueID(), menu: menu, button: button}

	r.register(u.entryID, menu)
	r.register(u.entryID, button)

	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.buttons[button.EntityID()] = button
	r.mu.Unlock()
	return u
}

// register stores e, renaming it when its derived entity id is taken. It
// must run before e is refreshed or attached.
func (r *Runtime) register(entryID string, e sensor.Renamer) {
	id := r.store.Register(e, entryID)
	if id != e.EntityID() {
		r.logger.Warn("entity id taken, renamed", "entity", e.EntityID(), "renamed", id, "entry", entryID)
		e.SetEntityID(id)
	}
}

func (r *Runtime) spawnWhenReady(ctx context.Context, u unit) {
	timer := time.NewTimer(r.spawnTimeout)
	defer timer.Stop()

	select {
	case <-u.menu.Ready():
	case <-timer.C:
		r.logger.Warn("menu sensor not ready, no category sensors spawned",
			"entity", u.menu.EntityID(), "timeout", r.spawnTimeout)
		return
	case <-ctx.Done():
		return
	}

	cats := r.spawn(u)
	r.logger.Info("category sensors spawned", "entity", u.menu.EntityID(), "count", len(cats))
	for _, c := range cats {
		r.startPoller(ctx, c)
	}
}

func (r *Runtime) spawn(u unit) []*sensor.CategorySensor {
	cats := sensor.SpawnCategories(u.menu)
	for _, c := range cats {
		r.register(u.entryID, c)
	}
	u.button.Attach(cats...)
	return cats
}

func (r *Runtime) startPoller(ctx context.Context, e sensor.Refresher) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		poll(ctx, e, r.interval, func(e sensor.Refresher) { r.record(ctx, e) })
	}()
}

type readable interface {
	sensor.Entity
	Reading() (sensor.Reading, bool)
}

// record copies the entity's reading into the store and publishes it.
func (r *Runtime) record(ctx context.Context, e readable) state.Snapshot {
	reading, ok := e.Reading()
	if ok {
		r.store.Update(e.EntityID(), reading)
	}
	snap, _ := r.store.Snapshot(e.EntityID())
	if !ok {
		return snap
	}
	if err := r.pub.Publish(ctx, snap); err != nil {
		r.logger.Warn("state publish failed", "entity", e.EntityID(), "error", err)
	}
	return snap
}
