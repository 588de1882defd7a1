package models

type contextKey string

const UserContextKey contextKey = "user"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID    string `json:"id"`
	Login string `json:"login"`
	Role  string `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
