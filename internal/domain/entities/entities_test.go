package entities

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserNormalizesAccount(t *testing.T) {
	u := NewUser("  Alice@Example.COM ", " alice ", "secret")

	assert.Equal(t, "alice@example.com", u.Account)
	assert.Equal(t, "alice", u.Name)
	assert.Equal(t, RoleUser, u.Role)
	assert.False(t, u.IsAdmin())
}

func TestNewValidatedUser(t *testing.T) {
	_, err := NewValidatedUser(NewUser("alice@example.com", "alice", "secret"))
	require.NoError(t, err)

	_, err = NewValidatedUser(NewUser("not-an-email", "alice", "secret"))
	assert.Error(t, err)

	_, err = NewValidatedUser(NewUser("alice@example.com", "", "secret"))
	assert.Error(t, err)

	_, err = NewValidatedUser(NewUser("alice@example.com", "alice", ""))
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	u := NewUser("alice@example.com", "alice", "secret")
	require.NoError(t, u.HashPassword())

	assert.NotEqual(t, "secret", u.Password)
	assert.NoError(t, u.CheckPassword("secret"))
	assert.Error(t, u.CheckPassword("Secret"))
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("a@b.co"))
	assert.False(t, ValidEmail("a@b"))
	assert.False(t, ValidEmail("a b@c.d"))
	assert.False(t, ValidEmail("@b.co"))
}

func TestNewSession(t *testing.T) {
	now := time.Date(2025, 11, 27, 2, 28, 40, 0, time.UTC)
	raw, s, err := NewSession(42, time.Hour, now)
	require.NoError(t, err)

	assert.Len(t, raw, 64)
	assert.Equal(t, HashSessionToken(raw), s.HashedID)
	assert.NotEqual(t, raw, s.HashedID)
	assert.Equal(t, int64(42), s.UserID)
	assert.Equal(t, now.Add(time.Hour), s.ExpiresAt)

	raw2, _, err := NewSession(42, time.Hour, now)
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
}

func TestSessionExpiry(t *testing.T) {
	now := time.Now().UTC()
	s := &Session{ExpiresAt: now.Add(time.Minute)}

	assert.False(t, s.Expired(now))
	assert.Equal(t, time.Minute, s.Remaining(now))
	assert.True(t, s.Expired(now.Add(time.Minute)))
	assert.Zero(t, s.Remaining(now.Add(2*time.Minute)))
}

func TestHashSessionTokenIsSHA256Hex(t *testing.T) {
	// sha256("abc")
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		HashSessionToken("abc"))
}

func TestBankDisplayTopic(t *testing.T) {
	assert.Equal(t, "Joins", (&Bank{Topic: "  Joins "}).DisplayTopic())
	assert.Equal(t, "Unnamed Bank", (&Bank{Topic: "   "}).DisplayTopic())
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Untitled", ExtractTitle(""))
	assert.Equal(t, "Second highest salary", ExtractTitle("Intro text\n## Second highest salary\nbody"))
	assert.Equal(t, "short body", ExtractTitle("short body"))

	long := strings.Repeat("x", 60)
	assert.Equal(t, strings.Repeat("x", 50)+"...", ExtractTitle(long))
}

func TestQuestionDisplayTitle(t *testing.T) {
	q := &Question{Title: "Top customers", Content: "# Ignored"}
	assert.Equal(t, "Top customers", q.DisplayTitle())

	q.Title = ""
	assert.Equal(t, "Ignored", q.DisplayTitle())
}
