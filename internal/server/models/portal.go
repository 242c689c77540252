package models

import "time"

// Staff is a faculty member shown in the directory.
type Staff struct {
	ID            string
	Name          string
	Department    string
	Email         string
	Qualification string
	Subjects      []string
	Experience    string
	Bio           string
	Photo         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Event is a campus event announcement.
type Event struct {
	ID          string
	Title       string
	Date        time.Time
	Time        string
	Location    string
	Description string
	Category    string
	Banner      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Job is a placement opportunity.
type Job struct {
	ID          string
	Title       string
	Company     string
	Location    string
	Type        string
	Salary      string
	Deadline    *time.Time
	Description string
	Link        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Stats are the public landing page counters.
type Stats struct {
	Students int64 `json:"students"`
	Staff    int64 `json:"staff"`
}
