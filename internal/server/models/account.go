package models

import "time"

// Account is a student identity: credentials, verification state and profile.
//
// OTPCode and OTPExpiresAt are either both nil or both set.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string

	Verified     bool
	OTPCode      *string
	OTPExpiresAt *time.Time

	Onboarded  bool
	ProfilePic string
	Department string
	Year       string
	RollNumber string
	Bio        string
	Skills     []string

	Followers []string
	Following []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetOTP attaches a one-time code that stops being usable at expiresAt.
func (a *Account) SetOTP(code string, expiresAt time.Time) {
	a.OTPCode = &code
	a.OTPExpiresAt = &expiresAt
}

// ClearOTP removes the pending code.
func (a *Account) ClearOTP() {
	a.OTPCode = nil
	a.OTPExpiresAt = nil
}

// ProfileUpdate lists the self-editable fields. Nil means "leave unchanged".
type ProfileUpdate struct {
	Name       *string
	Department *string
	Year       *string
	RollNumber *string
	Bio        *string
	Skills     []string
	ProfilePic *string
}

// Apply copies the set fields onto a.
func (u ProfileUpdate) Apply(a *Account) {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Department != nil {
		a.Department = *u.Department
	}
	if u.Year != nil {
		a.Year = *u.Year
	}
	if u.RollNumber != nil {
		a.RollNumber = *u.RollNumber
	}
	if u.Bio != nil {
		a.Bio = *u.Bio
	}
	if u.Skills != nil {
		a.Skills = u.Skills
	}
	if u.ProfilePic != nil {
		a.ProfilePic = *u.ProfilePic
	}
}

// AccountSummary is the public owner card embedded in project listings.
type AccountSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
	ProfilePic string `json:"profilePic"`
}
