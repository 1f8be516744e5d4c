package user

import "time"

type User struct {
	ID               int        `db:"id" json:"id"`
	FullName         string     `db:"full_name" json:"full_name"`
	Username         string     `db:"username" json:"username"`
	Email            string     `db:"email" json:"email"`
	Phone            string     `db:"phone" json:"phone"`
	Address          string     `db:"address" json:"address"`
	ReferralUsername *string    `db:"referral_username" json:"referral_username,omitempty"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	LastLogin        *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// RegisterRequest carries the sign-up payload. referral_username is the one
// field that is optional.
type RegisterRequest struct {
	FullName         string  `json:"full_name" validate:"required"`
	Username         string  `json:"username" validate:"required"`
	Email            string  `json:"email" validate:"required,email"`
	Phone            string  `json:"phone" validate:"required"`
	Address          string  `json:"address" validate:"required"`
	ReferralUsername *string `json:"referral_username,omitempty"`
	Password         string  `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message     string `json:"message"`
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}
