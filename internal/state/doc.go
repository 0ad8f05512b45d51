// Package state holds the published state of every entity for the host
// surface.
//
// # Overview
//
// Entities compute their own state on their own goroutines. After each
// refresh the poller copies the entity's Reading into the Store; the HTTP
// server and the NATS publisher only ever read from the Store.
//
//	Producers (pollers, button presses):   Consumers:
//	┌──────────────────────┐               ┌──────────────────┐
//	│ entity.Refresh()     │               │ GET /api/entities│
//	│ entity.Reading()     │               │                  │
//	│ store.Update(id, r)  │──── mutex ───→│ store.All()      │
//	└──────────────────────┘               └──────────────────┘
//
// # Semantics
//
//   - Register adds an entity with HasReading=false, so the host can list it
//     before its first refresh completes ("unknown" state).
//   - Update replaces the reading wholesale. Readings are never merged.
//   - Snapshot and All return values. Attribute payloads are immutable once
//     built by the entity, so sharing them is safe.
//   - Registration order is preserved, which keeps listings stable.
package state
