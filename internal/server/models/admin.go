package models

import "time"

// Admin is a portal operator. Admins are provisioned out of band and never sign up.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
