package common

import "time"

type UserResult struct {
	Id        int64     `json:"id"`
	Account   string    `json:"user_account"`
	Name      string    `json:"user_name"`
	Role      string    `json:"user_role"`
	Avatar    string    `json:"user_avatar,omitempty"`
	Profile   string    `json:"user_profile,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
