package entities

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is one a user can hold.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type User struct {
	ID        int64
	Account   string
	Name      string
	Password  string
	Role      string
	Avatar    string
	Profile   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Deleted   bool
}

func NewUser(account, name, password string) *User {
	now := time.Now().UTC()
	return &User{
		Account:   NormalizeAccount(account),
		Name:      strings.TrimSpace(name),
		Password:  password,
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeAccount is the canonical form accounts are stored and looked up in.
func NormalizeAccount(account string) string {
	return strings.ToLower(strings.TrimSpace(account))
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func (u *User) validate() error {
	if u.Account == "" {
		return errors.New("account must not be empty")
	}
	if !ValidEmail(u.Account) {
		return errors.New("account must be an email address")
	}
	if u.Name == "" {
		return errors.New("username must not be empty")
	}
	if u.Password == "" {
		return errors.New("password must not be empty")
	}
	if u.CreatedAt.After(u.UpdatedAt) {
		return errors.New("created_at must be before updated_at")
	}
	return nil
}

func (u *User) HashPassword() error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
