package command

type SignUpCommand struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type SignUpCommandResult struct {
	UserId int64 `json:"userId"`
}
