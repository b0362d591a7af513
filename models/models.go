package models

import "time"

const (
	AuthTypeLocal  = "local"
	AuthTypeGoogle = "google"
)

type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	GoogleID       string    `json:"-"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	AuthType       string    `json:"auth_type"`
	CreatedAt      time.Time `json:"created_at"`
}

type Chart struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Public    bool      `json:"public"`
	ShareID   string    `json:"share_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GoogleProfile holds the subset of OIDC userinfo claims Mermadic uses.
type GoogleProfile struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}
