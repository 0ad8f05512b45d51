// Package publish fans entity state out to subscribers outside the process.
package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/five82/dinemenu/internal/state"
)

// SubjectPrefix is prepended to the entity id of every published message.
const SubjectPrefix = "dinemenu.state."

// Publisher sends entity snapshots somewhere.
type Publisher interface {
	Publish(ctx context.Context, snap state.Snapshot) error
	Close() error
}

// Subject returns the subject a snapshot of entityID is published on.
func Subject(entityID string) string {
	return SubjectPrefix + entityID
}

type conn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher publishes JSON snapshots to a NATS server.
type NATSPublisher struct {
	conn  conn
	close func()
}

// NewNATSPublisher connects to the server at url.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("dinemenu"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: nc, close: nc.Close}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, snap state.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode %s: %w", snap.EntityID, err)
	}
	if err := p.conn.Publish(Subject(snap.EntityID), data); err != nil {
		return fmt.Errorf("publish %s: %w", snap.EntityID, err)
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	if p.close != nil {
		p.close()
	}
	return nil
}

// Nop discards every snapshot. It is used when no NATS server is configured.
type Nop struct{}

func (Nop) Publish(context.Context, state.Snapshot) error { return nil }
func (Nop) Close() error                                  { return nil }
