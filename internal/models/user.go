package models

import "time"

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Email        string    `json:"email" db:"email"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	IsManager    bool      `json:"is_manager" db:"is_manager"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	IsGuest      bool      `json:"is_guest" db:"is_guest"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Actor is the identity resolved for a request. The zero value is an
// anonymous caller.
type Actor struct {
	UserID    int64
	Username  string
	IsManager bool
	IsAdmin   bool
	IsGuest   bool
}

// Anonymous reports whether no identity was resolved for the request.
func (a Actor) Anonymous() bool { return a.UserID == 0 }

// Session is the redis-backed session record behind a bearer token.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	IsManager bool      `json:"is_manager"`
	IsAdmin   bool      `json:"is_admin"`
	IsGuest   bool      `json:"is_guest"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
