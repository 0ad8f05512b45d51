package sensor

import (
	"context"
	"strings"
	"sync/atomic"
	"time"
)

// CategoryAttributes list the items of one category.
type CategoryAttributes struct {
	Items []string `json:"items"`
}

// CategoryState is a read-only projection of the parent's latest snapshot.
type CategoryState struct {
	Value      int
	Attributes CategoryAttributes
	UpdatedAt  time.Time
}

// CategorySensor reports the item count of one category of a menu sensor.
// It owns no data; every refresh re-reads the parent.
type CategorySensor struct {
	parent   *MenuSensor
	category string

	name     string
	uniqueID string
	entityID string

	current atomic.Pointer[CategoryState]
}

var _ Refresher = (*CategorySensor)(nil)

// NewCategorySensor builds the sensor for category under parent.
func NewCategorySensor(parent *MenuSensor, category string) *CategorySensor {
	name := parent.entry.LocationName + " - " + category
	return &CategorySensor{
		parent:   parent,
		category: category,
		name:     name,
		uniqueID: parent.uniqueID + "_" + strings.ReplaceAll(strings.ToLower(category), " ", "_"),
		entityID: string(KindSensor) + "." + Slugify(name),
	}
}

// SpawnCategories builds one sensor per category in parent's latest
// snapshot. The set is fixed once built; categories that appear later get
// no sensor.
func SpawnCategories(parent *MenuSensor) []*CategorySensor {
	names := parent.Categories().Names()
	out := make([]*CategorySensor, 0, len(names))
	for _, name := range names {
		out = append(out, NewCategorySensor(parent, name))
	}
	return out
}

func (c *CategorySensor) EntityID() string { return c.entityID }
func (c *CategorySensor) UniqueID() string { return c.uniqueID }
func (c *CategorySensor) Name() string     { return c.name }
func (c *CategorySensor) Kind() Kind       { return KindSensor }

// SetEntityID replaces the derived entity id.
func (c *CategorySensor) SetEntityID(id string) { c.entityID = id }

// Category is the category key this sensor tracks.
func (c *CategorySensor) Category() string { return c.category }

// Refresh re-reads the parent. A category that is no longer listed reports
// zero items.
func (c *CategorySensor) Refresh(context.Context) {
	items, _ := c.parent.Categories().Lookup(c.category)
	st := CategoryState{
		Value:      len(items),
		Attributes: CategoryAttributes{Items: append([]string{}, items...)},
		UpdatedAt:  c.parent.now().In(c.parent.loc),
	}
	c.current.Store(&st)
}

// Current returns the latest state.
func (c *CategorySensor) Current() (CategoryState, bool) {
	st := c.current.Load()
	if st == nil {
		return CategoryState{}, false
	}
	return *st, true
}

// Reading implements Refresher.
func (c *CategorySensor) Reading() (Reading, bool) {
	st, ok := c.Current()
	if !ok {
		return Reading{}, false
	}
	return Reading{State: st.Value, Attributes: st.Attributes, UpdatedAt: st.UpdatedAt}, true
}
