package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"sqlpractice-service/internal/application/command"
	"sqlpractice-service/internal/application/interfaces"
	"sqlpractice-service/internal/application/mapper"
	"sqlpractice-service/internal/application/query"
	"sqlpractice-service/internal/domain"
	"sqlpractice-service/internal/domain/entities"
	"sqlpractice-service/internal/domain/repositories"
	"sqlpractice-service/internal/infrastructure"
)

type UserServiceConfig struct {
	SessionMaxAge time.Duration
	CacheTTL      time.Duration
}

type UserService struct {
	userRepo     repositories.UserRepository
	sessionRepo  repositories.SessionRepository
	redisService *infrastructure.RedisService
	rateLimiter  *infrastructure.RateLimiter
	cfg          UserServiceConfig
	logger       *zap.Logger
	now          func() time.Time
}

func NewUserService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	redisService *infrastructure.RedisService,
	rateLimiter *infrastructure.RateLimiter,
	cfg UserServiceConfig,
	logger *zap.Logger,
) interfaces.UserService {
	return newUserService(userRepo, sessionRepo, redisService, rateLimiter, cfg, logger)
}

func newUserService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	redisService *infrastructure.RedisService,
	rateLimiter *infrastructure.RateLimiter,
	cfg UserServiceConfig,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if redisService == nil {
		redisService = infrastructure.NewRedisServiceWithClient(nil, logger)
	}
	return &UserService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		redisService: redisService,
		rateLimiter:  rateLimiter,
		cfg:          cfg,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) SignUp(ctx context.Context, signUpCommand *command.SignUpCommand) (*command.SignUpCommandResult, error) {
	email := strings.TrimSpace(signUpCommand.Email)
	username := strings.TrimSpace(signUpCommand.Username)

	if email == "" || username == "" || signUpCommand.Password == "" || signUpCommand.Confirm == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "Missing necessary fields")
	}
	if signUpCommand.Password != signUpCommand.Confirm {
		return nil, domain.NewError(domain.ErrInvalidInput, "Password doesn't match")
	}
	if !entities.ValidEmail(email) {
		return nil, domain.NewError(domain.ErrInvalidInput, "Invalid email format")
	}

	exists, err := s.userRepo.AccountExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check account: %w", err)
	}
	if exists {
		return nil, domain.NewError(domain.ErrInvalidInput, "Email has been registered")
	}

	validatedUser, err := entities.NewValidatedUser(entities.NewUser(email, username, signUpCommand.Password))
	if err != nil {
		return nil, domain.NewError(domain.ErrInvalidInput, "%s", err.Error())
	}

	createdUser, err := s.userRepo.Create(ctx, validatedUser)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.NewError(domain.ErrDuplicateEmail, "Email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user signed up", zap.Int64("user_id", createdUser.ID))
	return &command.SignUpCommandResult{UserId: createdUser.ID}, nil
}

func (s *UserService) Login(ctx context.Context, loginCommand *command.LoginCommand) (*command.LoginCommandResult, error) {
	account := entities.NormalizeAccount(loginCommand.Account)
	if account == "" || loginCommand.Password == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "Invalid account or password")
	}

	// Apply rate limiting for login attempts
	if s.rateLimiter != nil && !s.rateLimiter.Allow("login:"+account) {
		wait := s.rateLimiter.RetryAfter("login:" + account).Round(time.Second)
		return nil, domain.NewError(domain.ErrRateLimited,
			"Too many login attempts, please try again in %s", wait)
	}

	user, err := s.userRepo.FindByAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || user.Deleted {
		return nil, domain.NewError(domain.ErrAccountDisabled, "inexistent or disabled account")
	}

	if err := user.CheckPassword(loginCommand.Password); err != nil {
		return nil, domain.NewError(domain.ErrWrongPassword, "Wrong password")
	}
	if s.rateLimiter != nil {
		s.rateLimiter.Reset("login:" + account)
	}

	now := s.now()
	rawToken, session, err := entities.NewSession(user.ID, s.cfg.SessionMaxAge, now)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	s.cacheSession(ctx, session, now)

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	return &command.LoginCommandResult{
		Token:     rawToken,
		ExpiresAt: session.ExpiresAt,
		User:      mapper.NewUserResultFromEntity(user),
	}, nil
}

func (s *UserService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	hashedID := entities.HashSessionToken(rawToken)

	if err := s.redisService.DeleteSession(ctx, hashedID); err != nil {
		s.logger.Warn("failed to evict cached session", zap.Error(err))
	}
	if _, err := s.sessionRepo.Delete(ctx, hashedID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *UserService) Authenticate(ctx context.Context, rawToken string) (int64, error) {
	if rawToken == "" {
		return 0, domain.NewError(domain.ErrUnauthorized, "Not logged in")
	}
	hashedID := entities.HashSessionToken(rawToken)

	// First, try the session cache
	userID, ok, err := s.redisService.GetSession(ctx, hashedID)
	if err != nil {
		s.logger.Warn("session cache lookup failed", zap.Error(err))
	} else if ok {
		return userID, nil
	}

	now := s.now()
	session, err := s.sessionRepo.FindActive(ctx, hashedID, now)
	if err != nil {
		return 0, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return 0, domain.NewError(domain.ErrUnauthorized, "Not logged in")
	}

	s.cacheSession(ctx, session, now)
	return session.UserID, nil
}

// cacheSession never lets a cache entry outlive the session row.
func (s *UserService) cacheSession(ctx context.Context, session *entities.Session, now time.Time) {
	ttl := session.Remaining(now)
	if s.cfg.CacheTTL > 0 && s.cfg.CacheTTL < ttl {
		ttl = s.cfg.CacheTTL
	}
	if err := s.redisService.SetSession(ctx, session.HashedID, session.UserID, ttl); err != nil {
		s.logger.Warn("failed to cache session", zap.Error(err))
	}
}

func (s *UserService) Me(ctx context.Context, userID int64) (*query.UserQueryResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return &query.UserQueryResult{}, nil
	}
	return &query.UserQueryResult{Result: mapper.NewUserResultFromEntity(user)}, nil
}

func (s *UserService) SetRole(ctx context.Context, account, role string) error {
	if !entities.ValidRole(role) {
		return domain.NewError(domain.ErrInvalidInput, "Invalid role %q", role)
	}
	if err := s.userRepo.SetRole(ctx, account, role); err != nil {
		return err
	}
	s.logger.Info("user role changed",
		zap.String("account", entities.NormalizeAccount(account)),
		zap.String("role", role))
	return nil
}

func (s *UserService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessionRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("purged expired sessions", zap.Int64("count", n))
	}
	return n, nil
}
