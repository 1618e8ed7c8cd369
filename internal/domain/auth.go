package domain

import "time"

// AccessToken is the metadata of an issued admin bearer token.
type AccessToken struct {
	ID        string
	AdminID   string
	Email     string
	ExpiresAt time.Time
	IssuedAt  time.Time
}
