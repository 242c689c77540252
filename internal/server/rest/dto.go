package rest

import (
	"time"

	"github.com/dmitrijs2005/bvchub/internal/server/models"
)

// accountResponse is the public shape of an account. Password hash and OTP
// state never leave the server.
type accountResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Verified   bool      `json:"isVerified"`
	Onboarded  bool      `json:"isOnboarded"`
	ProfilePic string    `json:"profilePic"`
	Department string    `json:"department"`
	Year       string    `json:"year"`
	RollNumber string    `json:"rollNumber"`
	Bio        string    `json:"bio"`
	Skills     []string  `json:"skills"`
	Followers  []string  `json:"followers"`
	Following  []string  `json:"following"`
	CreatedAt  time.Time `json:"createdAt"`
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func toAccount(a *models.Account) accountResponse {
	return accountResponse{
		ID:         a.ID,
		Name:       a.Name,
		Email:      a.Email,
		Verified:   a.Verified,
		Onboarded:  a.Onboarded,
		ProfilePic: a.ProfilePic,
		Department: a.Department,
		Year:       a.Year,
		RollNumber: a.RollNumber,
		Bio:        a.Bio,
		Skills:     nonNil(a.Skills),
		Followers:  nonNil(a.Followers),
		Following:  nonNil(a.Following),
		CreatedAt:  a.CreatedAt,
	}
}

func toAccounts(list []*models.Account) []accountResponse {
	out := make([]accountResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAccount(a))
	}
	return out
}

type adminResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type projectResponse struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	TechStack   []string               `json:"techStack"`
	RepoLink    string                 `json:"repoLink"`
	LiveLink    string                 `json:"liveLink"`
	Media       []string               `json:"media"`
	Likes       []string               `json:"likes"`
	User        *models.AccountSummary `json:"user,omitempty"`
	UserID      string                 `json:"userId"`
	CreatedAt   time.Time              `json:"createdAt"`
}

func toProject(p *models.Project) projectResponse {
	return projectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		TechStack:   nonNil(p.TechStack),
		RepoLink:    p.RepoLink,
		LiveLink:    p.LiveLink,
		Media:       nonNil(p.Media),
		Likes:       nonNil(p.Likes),
		User:        p.Owner,
		UserID:      p.UserID,
		CreatedAt:   p.CreatedAt,
	}
}

func toProjects(list []*models.Project) []projectResponse {
	out := make([]projectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProject(p))
	}
	return out
}

type staffResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Department    string   `json:"department"`
	Email         string   `json:"email"`
	Qualification string   `json:"qualification"`
	Subjects      []string `json:"subjects"`
	Experience    string   `json:"experience"`
	Bio           string   `json:"bio"`
	Photo         string   `json:"photo"`
}

func toStaff(m *models.Staff) staffResponse {
	return staffResponse{
		ID:            m.ID,
		Name:          m.Name,
		Department:    m.Department,
		Email:         m.Email,
		Qualification: m.Qualification,
		Subjects:      nonNil(m.Subjects),
		Experience:    m.Experience,
		Bio:           m.Bio,
		Photo:         m.Photo,
	}
}

func toStaffList(list []*models.Staff) []staffResponse {
	out := make([]staffResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toStaff(m))
	}
	return out
}

type eventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Banner      string `json:"banner"`
}

const dateLayout = "2006-01-02"

func toEvent(e *models.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Date:        e.Date.Format(dateLayout),
		Time:        e.Time,
		Location:    e.Location,
		Description: e.Description,
		Category:    e.Category,
		Banner:      e.Banner,
	}
}

func toEvents(list []*models.Event) []eventResponse {
	out := make([]eventResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEvent(e))
	}
	return out
}

type jobResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Salary      string `json:"salary"`
	Deadline    string `json:"deadline,omitempty"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

func toJob(j *models.Job) jobResponse {
	r := jobResponse{
		ID:          j.ID,
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		Type:        j.Type,
		Salary:      j.Salary,
		Description: j.Description,
		Link:        j.Link,
	}
	if j.Deadline != nil {
		r.Deadline = j.Deadline.Format(dateLayout)
	}
	return r
}

func toJobs(list []*models.Job) []jobResponse {
	out := make([]jobResponse, 0, len(list))
	for _, j := range list {
		out = append(out, toJob(j))
	}
	return out
}
