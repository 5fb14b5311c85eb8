package interfaces

import (
	"context"

	"sqlpractice-service/internal/application/command"
	"sqlpractice-service/internal/application/query"
)

type UserService interface {
	SignUp(ctx context.Context, signUpCommand *command.SignUpCommand) (*command.SignUpCommandResult, error)
	Login(ctx context.Context, loginCommand *command.LoginCommand) (*command.LoginCommandResult, error)
	Logout(ctx context.Context, rawToken string) error
	// Authenticate resolves a raw session token to its user id, failing
	// with domain.ErrUnauthorized for empty, unknown or expired tokens.
	Authenticate(ctx context.Context, rawToken string) (int64, error)
	Me(ctx context.Context, userID int64) (*query.UserQueryResult, error)
	PurgeExpiredSessions(ctx context.Context) (int64, error)
	SetRole(ctx context.Context, account, role string) error
}
