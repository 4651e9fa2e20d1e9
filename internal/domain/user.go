package domain

import "time"

type Role string

const (
	RoleUser   Role = "USER"
	RoleVendor Role = "VENDOR"
	RoleAdmin  Role = "ADMIN"
)

type UserStatus string

const (
	UserActive    UserStatus = "ACTIVE"
	UserSuspended UserStatus = "SUSPENDED"
)

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"fullName,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Address is owned by a user. Orders copy the fields they need instead of
// referencing the row, so later edits never alter order history.
type Address struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	FullName   string    `json:"fullName"`
	Phone      string    `json:"phone,omitempty"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state,omitempty"`
	PostalCode string    `json:"postalCode"`
	Country    string    `json:"country"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Actor is the caller identity resolved once at the request boundary.
// A zero-ID actor is a guest.
type Actor struct {
	ID    string
	Role  Role
	Email string
}

// Authenticated reports whether the actor maps to a known user.
func (a Actor) Authenticated() bool {
	return a.ID != ""
}
