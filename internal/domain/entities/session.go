package entities

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// sessionTokenBytes is the entropy of a raw session token; the cookie
// carries its hex form.
const sessionTokenBytes = 32

// Session is the server-side half of a login. Only the SHA-256 of the
// token is stored, so a leaked sessions table cannot be replayed.
type Session struct {
	ID        int64
	HashedID  string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewSession draws a fresh token for userID. The raw token is returned
// separately and must only ever reach the client cookie.
func NewSession(userID int64, maxAge time.Duration, now time.Time) (string, *Session, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}
	raw := hex.EncodeToString(buf)

	now = now.UTC()
	return raw, &Session{
		HashedID:  HashSessionToken(raw),
		UserID:    userID,
		ExpiresAt: now.Add(maxAge),
		CreatedAt: now,
	}, nil
}

func HashSessionToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Remaining is how long the session stays valid after now, zero once expired.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.Expired(now) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}
