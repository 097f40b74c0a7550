// Package models holds the records owned by the auth session manager.
package models

import "time"

// UserProfile is the identity record of the single local account.
type UserProfile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Phone       string    `json:"phone,omitempty"`
	DateOfBirth string    `json:"dateOfBirth,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FullName joins first and last name, skipping empty parts.
func (u *UserProfile) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Credentials is the stored email/password pair. Scheme tells how Password
// is stored; empty means as supplied.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Scheme   string `json:"scheme,omitempty"`
}

// RegisterData is the input of registration.
type RegisterData struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Phone       string
	DateOfBirth string
}
