package command

import (
	"time"

	"sqlpractice-service/internal/application/common"
)

type LoginCommand struct {
	Account  string `json:"user_account"`
	Password string `json:"password"`
}

// LoginCommandResult carries the raw session token; it belongs in the
// cookie only and is never serialized.
type LoginCommandResult struct {
	Token     string             `json:"-"`
	ExpiresAt time.Time          `json:"expires_at"`
	User      *common.UserResult `json:"user"`
}
