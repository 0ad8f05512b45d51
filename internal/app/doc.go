// Package app is the composition root of dinemenu.
//
// # Overview
//
// Run wires configuration, the dining API client, the entries store, the
// entity runtime, the state store, the optional NATS publisher and the HTTP
// server, then blocks until the context is cancelled.
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()          Read config.toml, .env, DINEMENU_*
//	       ├─────> dining.NewClient()     HTTP client for the dining API
//	       ├─────> entry.NewStore()       Configured entries
//	       ├─────> Runtime.Start()        One poller per entity
//	       └─────> server.Run()           HTTP surface (blocks)
//
// # Entity Lifecycle
//
// For each entry the runtime builds a menu sensor and its refresh button and
// starts polling the menu sensor. A second goroutine waits for the sensor's
// first cycle to finish, bounded by spawn_timeout, then builds one category
// sensor per category in that first snapshot and starts polling them too.
// The category set never changes afterwards. A first cycle that produced no
// menu spawns no category sensors.
//
// After every refresh the entity's reading is copied into the state.Store
// and handed to the publisher.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Invalid config file, time zone or log level
//   - Unreadable entries file
//   - NATS connection failure when nats_url is set
//   - HTTP listener failure
//
// Everything that happens inside a refresh cycle is logged and reflected in
// the entity's state instead.
package app
