// Package observability provides the structured event logger used by ogit.
// Events are validated, filtered by level, tagged with the call-site location
// and the process correlation id, and delivered to a Seq collector (CLEF) and
// optionally to a local JSON Lines file.
package observability
