package models

import "time"

// Session is the authenticated owner attached to a request.
type Session struct {
	UserID    string
	StoreID   string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// Remaining returns how long the session's token stays valid, never negative.
func (s Session) Remaining(now time.Time) time.Duration {
	if s.ExpiresAt.IsZero() {
		return 0
	}
	if d := s.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
