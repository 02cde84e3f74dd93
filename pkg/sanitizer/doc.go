// Package sanitizer normalizes free-text input before validation and storage.
//
// All functions are idempotent and never return errors; invalid input
// collapses to the empty string so the validators can reject it with a
// proper message.
package sanitizer
