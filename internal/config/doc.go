// Package config loads, normalizes, and validates subfetch configuration.
//
// It supplies repository defaults, reads an optional TOML file
// (~/.config/subfetch/config.toml or ./subfetch.toml), loads a local .env,
// and honours SUBFETCH_* environment fallbacks. Always obtain settings
// through this package so downstream code receives canonical values and
// clear validation errors.
package config
