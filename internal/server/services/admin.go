package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/dmitrijs2005/bvchub/internal/cryptox"
	"github.com/dmitrijs2005/bvchub/internal/logging"
	"github.com/dmitrijs2005/bvchub/internal/mailer"
	"github.com/dmitrijs2005/bvchub/internal/server/metrics"
	"github.com/dmitrijs2005/bvchub/internal/server/models"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/events"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/staff"
	"github.com/dmitrijs2005/bvchub/internal/server/storage"
)

// AdminService backs the admin console: users, staff, events, jobs and
// project moderation. Event and job changes are announced by mail to every
// account and staff member; a failed announcement never fails the request.
type AdminService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.MediaStore
	mailer      mailer.Mailer
	logger      logging.Logger
	bcryptCost  int
}

func NewAdminService(db *sql.DB, m repomanager.RepositoryManager, store storage.MediaStore, ml mailer.Mailer,
	logger logging.Logger, bcryptCost int) *AdminService {
	return &AdminService{db: db, repomanager: m, store: store, mailer: ml, logger: logger, bcryptCost: bcryptCost}
}

// ---- users

func (s *AdminService) Users(ctx context.Context) ([]*models.Account, error) {
	list, err := s.repomanager.Accounts(s.db).List(ctx)
	if err != nil {
		return nil, internalErr("list accounts", err)
	}
	return list, nil
}

// UpdateUser edits a student's profile, optionally resetting the password.
func (s *AdminService) UpdateUser(ctx context.Context, id string, upd models.ProfileUpdate, password *string, avatar *Upload) (*models.Account, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	repo := s.repomanager.Accounts(s.db)

	a, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("get account", err)
	}

	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, common.Invalid("name cannot be empty")
	}
	upd.Apply(a)

	if password != nil && *password != "" {
		if len(*password) < minPasswordLen {
			return nil, common.Invalid("password must be at least 6 characters")
		}
		hash, err := cryptox.HashPassword(*password, s.bcryptCost)
		if err != nil {
			return nil, internalErr("hash password", err)
		}
		a.PasswordHash = hash
	}

	if avatar != nil {
		url, err := putUpload(ctx, s.store, common.FolderUsers, avatar)
		if err != nil {
			return nil, err
		}
		a.ProfilePic = url
	}

	if err := repo.Save(ctx, a); err != nil {
		return nil, notFoundOr("save account", err)
	}
	return a, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.repomanager.Accounts(s.db).Delete(ctx, id); err != nil {
		return notFoundOr("delete account", err)
	}
	return nil
}

// ---- staff

func (s *AdminService) Staff(ctx context.Context) ([]*models.Staff, error) {
	list, err := s.repomanager.Staff(s.db).List(ctx, staff.Newest)
	if err != nil {
		return nil, internalErr("list staff", err)
	}
	return list, nil
}

func validateStaff(m *models.Staff) error {
	if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Department) == "" {
		return common.Invalid("name and department are required")
	}
	if m.Email != "" && !validEmail(NormalizeEmail(m.Email)) {
		return common.Invalid("invalid email address")
	}
	m.Email = NormalizeEmail(m.Email)
	return nil
}

func (s *AdminService) CreateStaff(ctx context.Context, m *models.Staff, photo *Upload) (*models.Staff, error) {
	if err := validateStaff(m); err != nil {
		return nil, err
	}
	if photo != nil {
		url, err := putUpload(ctx, s.store, common.FolderStaff, photo)
		if err != nil {
			return nil, err
		}
		m.Photo = url
	}

	created, err := s.repomanager.Staff(s.db).Create(ctx, m)
	if err != nil {
		return nil, internalErr("create staff", err)
	}
	return created, nil
}

func (s *AdminService) UpdateStaff(ctx context.Context, id string, upd StaffUpdate, photo *Upload) (*models.Staff, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	repo := s.repomanager.Staff(s.db)

	m, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("get staff", err)
	}
	upd.Apply(m)
	if err := validateStaff(m); err != nil {
		return nil, err
	}
	if photo != nil {
		url, err := putUpload(ctx, s.store, common.FolderStaff, photo)
		if err != nil {
			return nil, err
		}
		m.Photo = url
	}

	if err := repo.Save(ctx, m); err != nil {
		return nil, notFoundOr("save staff", err)
	}
	return m, nil
}

func (s *AdminService) DeleteStaff(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.repomanager.Staff(s.db).Delete(ctx, id); err != nil {
		return notFoundOr("delete staff", err)
	}
	return nil
}

// ---- events

// Events lists events soonest first.
func (s *AdminService) Events(ctx context.Context) ([]*models.Event, error) {
	list, err := s.repomanager.Events(s.db).List(ctx, events.Soonest)
	if err != nil {
		return nil, internalErr("list events", err)
	}
	return list, nil
}

func validateEvent(e *models.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return common.Invalid("title is required")
	}
	if e.Date.IsZero() {
		return common.Invalid("date is required")
	}
	return nil
}

func (s *AdminService) CreateEvent(ctx context.Context, e *models.Event, banner *Upload) (*models.Event, error) {
	if err := validateEvent(e); err != nil {
		return nil, err
	}
	if banner != nil {
		url, err := putUpload(ctx, s.store, common.FolderEvents, banner)
		if err != nil {
			return nil, err
		}
		e.Banner = url
	}

	created, err := s.repomanager.Events(s.db).Create(ctx, e)
	if err != nil {
		return nil, internalErr("create event", err)
	}

	s.announce(ctx, "event", func() (string, string, error) { return mailer.EventEmail(created, false) })
	return created, nil
}

func (s *AdminService) UpdateEvent(ctx context.Context, id string, upd EventUpdate, banner *Upload) (*models.Event, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	repo := s.repomanager.Events(s.db)

	e, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("get event", err)
	}
	upd.Apply(e)
	if err := validateEvent(e); err != nil {
		return nil, err
	}
	if banner != nil {
		url, err := putUpload(ctx, s.store, common.FolderEvents, banner)
		if err != nil {
			return nil, err
		}
		e.Banner = url
	}

	if err := repo.Save(ctx, e); err != nil {
		return nil, notFoundOr("save event", err)
	}

	s.announce(ctx, "event", func() (string, string, error) { return mailer.EventEmail(e, true) })
	return e, nil
}

func (s *AdminService) DeleteEvent(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.repomanager.Events(s.db).Delete(ctx, id); err != nil {
		return notFoundOr("delete event", err)
	}
	return nil
}

// ---- jobs

func (s *AdminService) Jobs(ctx context.Context) ([]*models.Job, error) {
	list, err := s.repomanager.Jobs(s.db).List(ctx)
	if err != nil {
		return nil, internalErr("list jobs", err)
	}
	return list, nil
}

func (s *AdminService) CreateJob(ctx context.Context, j *models.Job) (*models.Job, error) {
	if strings.TrimSpace(j.Title) == "" {
		return nil, common.Invalid("title is required")
	}

	created, err := s.repomanager.Jobs(s.db).Create(ctx, j)
	if err != nil {
		return nil, internalErr("create job", err)
	}

	s.announce(ctx, "job", func() (string, string, error) { return mailer.JobEmail(created, false) })
	return created, nil
}

func (s *AdminService) UpdateJob(ctx context.Context, id string, upd JobUpdate) (*models.Job, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	repo := s.repomanager.Jobs(s.db)

	j, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("get job", err)
	}
	upd.Apply(j)
	if strings.TrimSpace(j.Title) == "" {
		return nil, common.Invalid("title is required")
	}

	if err := repo.Save(ctx, j); err != nil {
		return nil, notFoundOr("save job", err)
	}

	s.announce(ctx, "job", func() (string, string, error) { return mailer.JobEmail(j, true) })
	return j, nil
}

func (s *AdminService) DeleteJob(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.repomanager.Jobs(s.db).Delete(ctx, id); err != nil {
		return notFoundOr("delete job", err)
	}
	return nil
}

// ---- projects

func (s *AdminService) ProjectsByUser(ctx context.Context, userID string) ([]*models.Project, error) {
	if err := checkID(userID); err != nil {
		return nil, err
	}
	list, err := s.repomanager.Projects(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, internalErr("list projects", err)
	}
	return list, nil
}

func (s *AdminService) DeleteProject(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.repomanager.Projects(s.db).Delete(ctx, id); err != nil {
		return notFoundOr("delete project", err)
	}
	return nil
}

// ---- broadcast

// recipients collects every account and staff address, de-duplicated.
func (s *AdminService) recipients(ctx context.Context) ([]string, error) {
	accountEmails, err := s.repomanager.Accounts(s.db).Emails(ctx)
	if err != nil {
		return nil, err
	}
	staffEmails, err := s.repomanager.Staff(s.db).Emails(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(accountEmails)+len(staffEmails))
	result := make([]string, 0, len(accountEmails)+len(staffEmails))
	for _, e := range append(accountEmails, staffEmails...) {
		e = NormalizeEmail(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		result = append(result, e)
	}
	return result, nil
}

// announce sends a broadcast. Failures are logged and counted only.
func (s *AdminService) announce(ctx context.Context, kind string, render func() (string, string, error)) {
	err := func() error {
		to, err := s.recipients(ctx)
		if err != nil {
			return err
		}
		if len(to) == 0 {
			return nil
		}
		subject, html, err := render()
		if err != nil {
			return err
		}
		return s.mailer.Send(ctx, to, subject, html)
	}()

	if err != nil && !errors.Is(err, context.Canceled) {
		metrics.MailFailed(kind)
		s.logger.Warn(ctx, "broadcast failed", "kind", kind, "error", err)
	}
}
