// Package services defines the error taxonomy shared by pipeline components.
//
// Every fatal condition is tagged with one of the sentinel errors so the CLI
// can classify failures without string matching: network errors carry the URL
// involved, I/O errors the path, and malformed-input errors the offending
// value.
package services
