package domain

import "time"

// Principal is the identity derived from a successful login. It never
// carries credential material.
type Principal struct {
	ID       string
	Name     string
	Email    string
	Position string
}

// AccessToken is an issued bearer token and its validity window.
type AccessToken struct {
	Token     string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
