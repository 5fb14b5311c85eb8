package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sqlpractice-service/internal/application/command"
	"sqlpractice-service/internal/domain"
	"sqlpractice-service/internal/domain/entities"
	"sqlpractice-service/internal/infrastructure"
	"sqlpractice-service/internal/infrastructure/db/gormstore"
	"sqlpractice-service/internal/infrastructure/db/gormstore/gormtest"
)

func newTestUserService(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()
	db := gormtest.New(t)
	s := newUserService(
		gormstore.NewUserRepository(db),
		gormstore.NewSessionRepository(db),
		nil,
		infrastructure.NewRateLimiter(time.Minute, 3),
		UserServiceConfig{SessionMaxAge: time.Hour, CacheTTL: time.Minute},
		nil,
	)
	return s, db
}

func signUp(t *testing.T, s *UserService, email string) int64 {
	t.Helper()
	res, err := s.SignUp(context.Background(), &command.SignUpCommand{
		Email: email, Username: "alice", Password: "pw123456", Confirm: "pw123456",
	})
	require.NoError(t, err)
	return res.UserId
}

func TestSignUpValidation(t *testing.T) {
	s, _ := newTestUserService(t)
	signUp(t, s, "taken@example.com")

	tests := []struct {
		name    string
		cmd     command.SignUpCommand
		kind    error
		message string
	}{
		{"missing fields", command.SignUpCommand{Email: "a@b.co", Username: "a", Password: "x"}, domain.ErrInvalidInput, "Missing necessary fields"},
		{"mismatch", command.SignUpCommand{Email: "a@b.co", Username: "a", Password: "x", Confirm: "y"}, domain.ErrInvalidInput, "Password doesn't match"},
		{"bad email", command.SignUpCommand{Email: "not-an-email", Username: "a", Password: "x", Confirm: "x"}, domain.ErrInvalidInput, "Invalid email format"},
		{"registered", command.SignUpCommand{Email: "TAKEN@example.com", Username: "a", Password: "x", Confirm: "x"}, domain.ErrInvalidInput, "Email has been registered"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SignUp(context.Background(), &tt.cmd)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.message, domain.Message(err, ""))
		})
	}
}

func TestLoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestUserService(t)
	uid := signUp(t, s, "alice@example.com")

	res, err := s.Login(ctx, &command.LoginCommand{Account: " Alice@Example.com ", Password: "pw123456"})
	require.NoError(t, err)
	assert.Len(t, res.Token, 64)
	assert.Equal(t, uid, res.User.Id)

	got, err := s.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, uid, got)

	me, err := s.Me(ctx, got)
	require.NoError(t, err)
	require.NotNil(t, me.Result)
	assert.Equal(t, "alice@example.com", me.Result.Account)

	require.NoError(t, s.Logout(ctx, res.Token))
	_, err = s.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = s.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	s, db := newTestUserService(t)
	uid := signUp(t, s, "bob@example.com")

	_, err := s.Login(ctx, &command.LoginCommand{Account: "bob@example.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Invalid account or password", domain.Message(err, ""))

	_, err = s.Login(ctx, &command.LoginCommand{Account: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrAccountDisabled)

	_, err = s.Login(ctx, &command.LoginCommand{Account: "bob@example.com", Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrWrongPassword)
	assert.Equal(t, "Wrong password", domain.Message(err, ""))

	require.NoError(t, db.Delete(&gormstore.UserModel{}, uid).Error)
	_, err = s.Login(ctx, &command.LoginCommand{Account: "bob@example.com", Password: "pw123456"})
	assert.ErrorIs(t, err, domain.ErrAccountDisabled)
	assert.Equal(t, "inexistent or disabled account", domain.Message(err, ""))
}

func TestLoginRateLimited(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestUserService(t)
	signUp(t, s, "carol@example.com")

	for i := 0; i < 3; i++ {
		_, err := s.Login(ctx, &command.LoginCommand{Account: "carol@example.com", Password: "bad"})
		assert.ErrorIs(t, err, domain.ErrWrongPassword)
	}
	_, err := s.Login(ctx, &command.LoginCommand{Account: "CAROL@example.com", Password: "pw123456"})
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestExpiredSessionRejected(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestUserService(t)
	signUp(t, s, "dave@example.com")

	res, err := s.Login(ctx, &command.LoginCommand{Account: "dave@example.com", Password: "pw123456"})
	require.NoError(t, err)

	later := time.Now().UTC().Add(2 * time.Hour)
	s.now = func() time.Time { return later }

	_, err = s.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	n, err := s.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSetRole(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestUserService(t)
	id := signUp(t, s, "erin@example.com")

	err := s.SetRole(ctx, "erin@example.com", "owner")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, s.SetRole(ctx, "erin@example.com", entities.RoleAdmin))
	me, err := s.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entities.RoleAdmin, me.Result.Role)

	assert.ErrorIs(t, s.SetRole(ctx, "ghost@example.com", entities.RoleAdmin), domain.ErrNotFound)
}

func TestMeUnknownUser(t *testing.T) {
	s, _ := newTestUserService(t)
	me, err := s.Me(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, me.Result)
}

func newCachedUserService(t *testing.T, cacheTTL time.Duration) (*UserService, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()
	db := gormtest.New(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s := newUserService(
		gormstore.NewUserRepository(db),
		gormstore.NewSessionRepository(db),
		infrastructure.NewRedisServiceWithClient(client, nil),
		nil,
		UserServiceConfig{SessionMaxAge: time.Hour, CacheTTL: cacheTTL},
		nil,
	)
	return s, db, mr
}

func TestAuthenticateServedFromCache(t *testing.T) {
	ctx := context.Background()
	s, db, mr := newCachedUserService(t, time.Minute)
	uid := signUp(t, s, "erin@example.com")

	res, err := s.Login(ctx, &command.LoginCommand{Account: "erin@example.com", Password: "pw123456"})
	require.NoError(t, err)
	key := "session:" + entities.HashSessionToken(res.Token)
	require.True(t, mr.Exists(key))

	// with the row gone only the cache can answer
	require.NoError(t, db.Where("hashed_sid = ?", entities.HashSessionToken(res.Token)).
		Delete(&gormstore.SessionModel{}).Error)
	got, err := s.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, uid, got)

	mr.FastForward(2 * time.Minute)
	_, err = s.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthenticateMissRefillsCache(t *testing.T) {
	ctx := context.Background()
	s, _, mr := newCachedUserService(t, time.Minute)
	uid := signUp(t, s, "frank@example.com")

	res, err := s.Login(ctx, &command.LoginCommand{Account: "frank@example.com", Password: "pw123456"})
	require.NoError(t, err)
	key := "session:" + entities.HashSessionToken(res.Token)
	mr.Del(key)

	got, err := s.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, uid, got)
	assert.True(t, mr.Exists(key))
	cached, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(uid, 10), cached)
}

func TestSessionCacheTTL(t *testing.T) {
	ctx := context.Background()

	t.Run("capped by cache ttl", func(t *testing.T) {
		s, _, mr := newCachedUserService(t, time.Minute)
		signUp(t, s, "gina@example.com")
		res, err := s.Login(ctx, &command.LoginCommand{Account: "gina@example.com", Password: "pw123456"})
		require.NoError(t, err)
		assert.Equal(t, time.Minute, mr.TTL("session:"+entities.HashSessionToken(res.Token)))
	})

	t.Run("capped by session lifetime", func(t *testing.T) {
		s, _, mr := newCachedUserService(t, 3*time.Hour)
		signUp(t, s, "hank@example.com")
		res, err := s.Login(ctx, &command.LoginCommand{Account: "hank@example.com", Password: "pw123456"})
		require.NoError(t, err)
		ttl := mr.TTL("session:" + entities.HashSessionToken(res.Token))
		assert.LessOrEqual(t, ttl, time.Hour)
		assert.Greater(t, ttl, 59*time.Minute)
	})
}

func TestLogoutEvictsCachedSession(t *testing.T) {
	ctx := context.Background()
	s, _, mr := newCachedUserService(t, time.Minute)
	signUp(t, s, "ivan@example.com")

	res, err := s.Login(ctx, &command.LoginCommand{Account: "ivan@example.com", Password: "pw123456"})
	require.NoError(t, err)
	key := "session:" + entities.HashSessionToken(res.Token)
	require.True(t, mr.Exists(key))

	require.NoError(t, s.Logout(ctx, res.Token))
	assert.False(t, mr.Exists(key))
	_, err = s.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
