package domain

import "time"

// PlaySession records one launch of an instance's game executable
type PlaySession struct {
	ID             string
	InstanceFolder string
	StartedAt      time.Time
	EndedAt        time.Time
	ExitCode       int
	Error          string // Launch or wait failure, empty on clean exit
}

// Duration returns how long the game ran
func (s PlaySession) Duration() time.Duration {
	if s.EndedAt.IsZero() || s.EndedAt.Before(s.StartedAt) {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// Succeeded reports whether the game exited cleanly
func (s PlaySession) Succeeded() bool {
	return s.Error == "" && s.ExitCode == 0
}
