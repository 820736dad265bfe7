package models

import "time"

type User struct {
	ID             int64
	Username       string
	Email          string
	PasswordHash   string
	Role           string
	ResetToken     string
	ResetExpiresAt time.Time
	CreatedAt      time.Time
}

type PublicUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
