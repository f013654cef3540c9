package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DonovanMods/vs-launcher/internal/domain"
)

// SaveSession inserts or replaces a play session. An empty ID is filled in.
func (d *DB) SaveSession(s *domain.PlaySession) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	_, err := d.Exec(`
		INSERT INTO play_sessions (id, instance_folder, started_at, ended_at, exit_code, error)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			instance_folder = excluded.instance_folder,
			started_at = excluded.started_at,
			ended_at = excluded.ended_at,
			exit_code = excluded.exit_code,
			error = excluded.error
	`, s.ID, s.InstanceFolder, s.StartedAt.UTC(), s.EndedAt.UTC(), s.ExitCode, s.Error)
	if err != nil {
		return fmt.Errorf("saving play session: %w", err)
	}
	return nil
}

// ListSessions returns the sessions of an instance, newest first.
// A limit of zero or less returns every session.
func (d *DB) ListSessions(folder string, limit int) ([]domain.PlaySession, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := d.Query(`
		SELECT id, instance_folder, started_at, ended_at, exit_code, error
		FROM play_sessions
		WHERE instance_folder = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, folder, limit)
	if err != nil {
		return nil, fmt.Errorf("querying play sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.PlaySession
	for rows.Next() {
		var s domain.PlaySession
		if err := rows.Scan(&s.ID, &s.InstanceFolder, &s.StartedAt, &s.EndedAt, &s.ExitCode, &s.Error); err != nil {
			return nil, fmt.Errorf("scanning play session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// LastPlayed returns when the instance was last started.
// The boolean is false when it has never been played.
func (d *DB) LastPlayed(folder string) (time.Time, bool, error) {
	var started time.Time
	err := d.QueryRow(`
		SELECT started_at
		FROM play_sessions
		WHERE instance_folder = ?
		ORDER BY started_at DESC
		LIMIT 1
	`, folder).Scan(&started)

	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("getting last played: %w", err)
	}
	return started, true, nil
}

// DeleteSessions removes the history of an instance
func (d *DB) DeleteSessions(folder string) (int64, error) {
	result, err := d.Exec("DELETE FROM play_sessions WHERE instance_folder = ?", folder)
	if err != nil {
		return 0, fmt.Errorf("deleting play sessions: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
