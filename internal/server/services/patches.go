package services

import (
	"time"

	"github.com/dmitrijs2005/bvchub/internal/server/models"
)

// StaffUpdate lists editable staff fields; nil leaves a field unchanged.
type StaffUpdate struct {
	Name          *string
	Department    *string
	Email         *string
	Qualification *string
	Subjects      []string
	Experience    *string
	Bio           *string
}

func (u StaffUpdate) Apply(s *models.Staff) {
	set(&s.Name, u.Name)
	set(&s.Department, u.Department)
	set(&s.Email, u.Email)
	set(&s.Qualification, u.Qualification)
	if u.Subjects != nil {
		s.Subjects = u.Subjects
	}
	set(&s.Experience, u.Experience)
	set(&s.Bio, u.Bio)
}

type EventUpdate struct {
	Title       *string
	Date        *time.Time
	Time        *string
	Location    *string
	Description *string
	Category    *string
}

func (u EventUpdate) Apply(e *models.Event) {
	set(&e.Title, u.Title)
	if u.Date != nil {
		e.Date = *u.Date
	}
	set(&e.Time, u.Time)
	set(&e.Location, u.Location)
	set(&e.Description, u.Description)
	set(&e.Category, u.Category)
}

type JobUpdate struct {
	Title       *string
	Company     *string
	Location    *string
	Type        *string
	Salary      *string
	Deadline    *time.Time
	Description *string
	Link        *string
}

func (u JobUpdate) Apply(j *models.Job) {
	set(&j.Title, u.Title)
	set(&j.Company, u.Company)
	set(&j.Location, u.Location)
	set(&j.Type, u.Type)
	set(&j.Salary, u.Salary)
	if u.Deadline != nil {
		d := *u.Deadline
		j.Deadline = &d
	}
	set(&j.Description, u.Description)
	set(&j.Link, u.Link)
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
