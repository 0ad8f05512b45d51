package publish

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/five82/dinemenu/internal/sensor"
	"github.com/five82/dinemenu/internal/state"
)

type recordingConn struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (c *recordingConn) Publish(subject string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.subjects = append(c.subjects, subject)
	c.payloads = append(c.payloads, data)
	return nil
}

func TestNATSPublisher_PublishesJSONOnEntitySubject(t *testing.T) {
	rc := &recordingConn{}
	p := &NATSPublisher{conn: rc}

	snap := state.Snapshot{
		EntityID:   "sensor.commons_lunch",
		Kind:       sensor.KindSensor,
		HasReading: true,
		Reading:    sensor.Reading{State: 3},
	}
	if err := p.Publish(context.Background(), snap); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if len(rc.subjects) != 1 || rc.subjects[0] != "dinemenu.state.sensor.commons_lunch" {
		t.Fatalf("subjects = %v", rc.subjects)
	}

	var got map[string]any
	if err := json.Unmarshal(rc.payloads[0], &got); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if got["entity_id"] != "sensor.commons_lunch" || got["available"] != true {
		t.Fatalf("payload = %v", got)
	}
	reading, _ := got["reading"].(map[string]any)
	if reading["state"] != float64(3) {
		t.Fatalf("reading = %v, want state 3", reading)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestNATSPublisher_WrapsConnError(t *testing.T) {
	boom := errors.New("boom")
	p := &NATSPublisher{conn: &recordingConn{err: boom}}
	err := p.Publish(context.Background(), state.Snapshot{EntityID: "button.x"})
	if !errors.Is(err, boom) {
		t.Fatalf("Publish error = %v, want wrapped boom", err)
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(context.Background(), state.Snapshot{}); err != nil {
		t.Fatalf("Nop.Publish = %v", err)
	}
}
