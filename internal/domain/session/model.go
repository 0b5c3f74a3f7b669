package session

import "time"

// Session associates an opaque server-side token with an authenticated user.
// The ID is the random token itself; clients carry it in a signed cookie.
type Session struct {
	ID        string    `json:"-"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
