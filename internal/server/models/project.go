package models

import "time"

// Project is a student showcase entry.
type Project struct {
	ID          string
	UserID      string
	Title       string
	Description string
	TechStack   []string
	RepoLink    string
	LiveLink    string
	Media       []string
	Likes       []string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Owner is filled by listing queries that join the account.
	Owner *AccountSummary
}
