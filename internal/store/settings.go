package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// ErrNotFound is returned when a setting has never been saved.
var ErrNotFound = errors.New("setting not found")

// Setting keys. New keys must never collide with retired ones.
const (
	keyActiveWakeWord = "active_wake_word"
	keyMicMuted       = "mic_muted"
)

func (db *DB) getSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (db *DB) setSetting(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// ActiveWakeWord returns the persisted client-side wake word selection.
// Returns ErrNotFound on a fresh database.
func (db *DB) ActiveWakeWord(ctx context.Context) (string, error) {
	return db.getSetting(ctx, keyActiveWakeWord)
}

// SaveActiveWakeWord persists the client-side wake word selection.
func (db *DB) SaveActiveWakeWord(ctx context.Context, id string) error {
	return db.setSetting(ctx, keyActiveWakeWord, id)
}

// MicMuted returns the persisted microphone mute state.
// Returns ErrNotFound on a fresh database.
func (db *DB) MicMuted(ctx context.Context) (bool, error) {
	value, err := db.getSetting(ctx, keyMicMuted)
	if err != nil {
		return false, err
	}
	muted, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("corrupt mic_muted value %q: %w", value, err)
	}
	return muted, nil
}

// SaveMicMuted persists the microphone mute state.
func (db *DB) SaveMicMuted(ctx context.Context, muted bool) error {
	return db.setSetting(ctx, keyMicMuted, strconv.FormatBool(muted))
}
