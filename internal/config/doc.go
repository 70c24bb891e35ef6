// Package config loads, normalizes, and validates mediaup configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MEDIAUP_API_TOKEN. The Config type centralizes every knob the CLI and the
// upload orchestrator need: the CMS API endpoint, per-profile upload limits,
// polling cadence, and journal/log locations.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
