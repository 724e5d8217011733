// Package logging constructs the slog loggers used across subfetch.
//
// The console handler prints one line per record with the component name
// folded into the message prefix; the JSON handler emits machine-readable
// records for piping into log collectors. Components receive their logger
// via NewComponentLogger so every record carries a component attribute.
package logging
