package domain

import "time"

// User represents a registered account.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	OtherNames   string
	Email        string
	Username     string
	PasswordHash string
	IsAdmin      bool
	Registered   time.Time
}

// NewUser carries signup details; Password is plain text until hashed by the service.
type NewUser struct {
	FirstName  string
	LastName   string
	OtherNames string
	Email      string
	Username   string
	Password   string
	IsAdmin    bool
}

// Credentials are the login details of a user.
type Credentials struct {
	Username string
	Password string
}

// Session is returned on signup and login.
type Session struct {
	Token string
	User  User
}
