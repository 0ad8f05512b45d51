// Package config loads dinemenu's runtime settings.
//
// # Resolution Order
//
//  1. Defaults
//  2. The TOML file passed with --config, or ~/.config/dinemenu/config.toml
//  3. A .env file in the working directory, loaded into the environment
//  4. DINEMENU_* environment variables, which win over the file
//
// A missing config file is not an error. Parse failures, invalid durations,
// unknown time zones and unknown log levels are.
//
// # TOML Format
//
//	api_base = "https://apiv4.dineoncampus.com"
//	poll_interval = "5m"
//	button_timeout = "30s"
//	spawn_timeout = "1m"
//	timezone = "America/New_York"
//	entries_path = "~/.config/dinemenu/entries.toml"
//	listen_addr = "127.0.0.1:8787"
//	nats_url = "nats://127.0.0.1:4222"
//	log_level = "info"
//
// Each key has a matching override, e.g. DINEMENU_POLL_INTERVAL.
package config
