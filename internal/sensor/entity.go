// Package sensor implements the entities exposed to the host: the menu
// sensor of an entry, its per-category sensors, and its refresh button.
package sensor

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Kind is the host platform an entity belongs to.
type Kind string

const (
	KindSensor Kind = "sensor"
	KindButton Kind = "button"
)

// Entity is the identity every exposed object carries.
type Entity interface {
	EntityID() string
	UniqueID() string
	Name() string
	Kind() Kind
}

// Renamer is an entity whose entity id the host may reassign when the
// derived one is already taken. It is only called before the entity is
// refreshed for the first time.
type Renamer interface {
	Entity
	SetEntityID(id string)
}

// Reading is the observable state of an entity after its latest update.
type Reading struct {
	State      any       `json:"state"`
	Attributes any       `json:"attributes,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Refresher is an entity that recomputes its state on a schedule. Reading
// reports false until the first refresh completes.
type Refresher interface {
	Entity
	Refresh(ctx context.Context)
	Reading() (Reading, bool)
}

// Presser is an entity that acts on demand. Press returns the entities it
// refreshed, in refresh order.
type Presser interface {
	Entity
	Press(ctx context.Context) []Refresher
	Reading() (Reading, bool)
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Slugify collapses every run of non-alphanumerics to "_", lowercases, and
// trims leading and trailing underscores.
func Slugify(raw string) string {
	return strings.Trim(strings.ToLower(nonAlnum.ReplaceAllString(raw, "_")), "_")
}
