package rest

import (
	"context"

	"github.com/dmitrijs2005/bvchub/internal/server/models"
	"github.com/dmitrijs2005/bvchub/internal/server/services"
)

// The handlers depend on these narrow views of the services package so
// tests can substitute fakes.

type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*models.Account, error)
	VerifyOTP(ctx context.Context, email, code string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	AdminLogin(ctx context.Context, email, password string) (*services.AdminSession, error)
	Authenticate(ctx context.Context, token string) (models.Identity, error)
}

type ProfileService interface {
	GetMe(ctx context.Context, id string) (*models.Account, error)
	GetProfile(ctx context.Context, id string) (*models.Account, error)
	CompleteOnboarding(ctx context.Context, id string, upd models.ProfileUpdate, avatar *services.Upload) (*models.Account, error)
	UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate, avatar *services.Upload) (*models.Account, error)
	ToggleFollow(ctx context.Context, followerID, targetID string) (bool, error)
}

type ProjectService interface {
	Create(ctx context.Context, ownerID string, in services.ProjectInput, media []*services.Upload) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	Delete(ctx context.Context, who models.Identity, id string) error
	Like(ctx context.Context, userID, projectID string) (int, error)
}

type InfoService interface {
	Stats(ctx context.Context) (*models.Stats, error)
	Staff(ctx context.Context) ([]*models.Staff, error)
	StaffMember(ctx context.Context, id string) (*models.Staff, error)
	Events(ctx context.Context) ([]*models.Event, error)
	Event(ctx context.Context, id string) (*models.Event, error)
	Jobs(ctx context.Context) ([]*models.Job, error)
	ApplyForJob(ctx context.Context, jobID string, app services.JobApplication) error
}

type AdminService interface {
	Users(ctx context.Context) ([]*models.Account, error)
	UpdateUser(ctx context.Context, id string, upd models.ProfileUpdate, password *string, avatar *services.Upload) (*models.Account, error)
	DeleteUser(ctx context.Context, id string) error

	Staff(ctx context.Context) ([]*models.Staff, error)
	CreateStaff(ctx context.Context, m *models.Staff, photo *services.Upload) (*models.Staff, error)
	UpdateStaff(ctx context.Context, id string, upd services.StaffUpdate, photo *services.Upload) (*models.Staff, error)
	DeleteStaff(ctx context.Context, id string) error

	Events(ctx context.Context) ([]*models.Event, error)
	CreateEvent(ctx context.Context, e *models.Event, banner *services.Upload) (*models.Event, error)
	UpdateEvent(ctx context.Context, id string, upd services.EventUpdate, banner *services.Upload) (*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	Jobs(ctx context.Context) ([]*models.Job, error)
	CreateJob(ctx context.Context, j *models.Job) (*models.Job, error)
	UpdateJob(ctx context.Context, id string, upd services.JobUpdate) (*models.Job, error)
	DeleteJob(ctx context.Context, id string) error

	ProjectsByUser(ctx context.Context, userID string) ([]*models.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// Services bundles everything the router dispatches to.
type Services struct {
	Auth     AuthService
	Profiles ProfileService
	Projects ProjectService
	Info     InfoService
	Admin    AdminService
}
