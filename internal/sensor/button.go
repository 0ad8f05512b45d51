package sensor

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RefreshButton forces an out-of-cycle refresh of the menu sensor it was
// built with, followed by that sensor's category sensors.
type RefreshButton struct {
	menu   *MenuSensor
	base   *slog.Logger
	logger *slog.Logger

	name     string
	uniqueID string
	entityID string

	mu          sync.Mutex
	categories  []*CategorySensor
	lastPressed time.Time
}

var _ Presser = (*RefreshButton)(nil)

// NewRefreshButton builds the button for the entry behind menu.
func NewRefreshButton(menu *MenuSensor, logger *slog.Logger) *RefreshButton {
	if logger == nil {
		logger = slog.Default()
	}
	name := menu.entry.Title + " Refresh Menu"
	b := &RefreshButton{
		menu:     menu,
		base:     logger,
		name:     name,
		uniqueID: menu.uniqueID + "_refresh",
	}
	b.SetEntityID(string(KindButton) + "." + Slugify(name))
	return b
}

// SetEntityID replaces the derived entity id.
func (b *RefreshButton) SetEntityID(id string) {
	b.entityID = id
	b.logger = b.base.With("entity", id)
}

func (b *RefreshButton) EntityID() string { return b.entityID }
func (b *RefreshButton) UniqueID() string { return b.uniqueID }
func (b *RefreshButton) Name() string     { return b.name }
func (b *RefreshButton) Kind() Kind       { return KindButton }

// Attach adds category sensors to refresh after the menu sensor.
func (b *RefreshButton) Attach(categories ...*CategorySensor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.categories = append(b.categories, categories...)
}

// Press refreshes the menu sensor, then every attached category sensor.
func (b *RefreshButton) Press(ctx context.Context) []Refresher {
	b.logger.Debug("force refresh pressed", "target", b.menu.EntityID())

	b.mu.Lock()
	categories := append([]*CategorySensor(nil), b.categories...)
	b.lastPressed = b.menu.now().In(b.menu.loc)
	b.mu.Unlock()

	b.menu.Refresh(ctx)
	refreshed := []Refresher{b.menu}
	for _, c := range categories {
		c.Refresh(ctx)
		refreshed = append(refreshed, c)
	}
	return refreshed
}

// Reading reports the time of the last press.
func (b *RefreshButton) Reading() (Reading, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastPressed.IsZero() {
		return Reading{}, false
	}
	return Reading{State: b.lastPressed.Format(time.RFC3339), UpdatedAt: b.lastPressed}, true
}
