// Package store persists gateway settings in a SQLite database.
//
// Two settings survive restarts: the active wake word selection and the
// microphone mute switch. The database lives under the user config directory
// by default and is created on first use; a fresh database returns
// ErrNotFound from every accessor, which callers treat as "use the default".
//
// Persistence is an amenity: callers degrade to in-memory state with a logged
// warning when the store is unavailable, they never crash.
package store
