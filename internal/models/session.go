package models

import "time"

// Session is a refresh-token session bound to one browser fingerprint.
type Session struct {
	ID           string
	UserID       string
	Fingerprint  string
	RefreshToken string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Expired reports whether the refresh window had closed by now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
