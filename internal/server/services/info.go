package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/dmitrijs2005/bvchub/internal/logging"
	"github.com/dmitrijs2005/bvchub/internal/mailer"
	"github.com/dmitrijs2005/bvchub/internal/server/metrics"
	"github.com/dmitrijs2005/bvchub/internal/server/models"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/events"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/staff"
)

// InfoService serves the read-only portal content and job applications.
type InfoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mailer      mailer.Mailer
	logger      logging.Logger
}

func NewInfoService(db *sql.DB, m repomanager.RepositoryManager, ml mailer.Mailer, logger logging.Logger) *InfoService {
	return &InfoService{db: db, repomanager: m, mailer: ml, logger: logger}
}

func (s *InfoService) Stats(ctx context.Context) (*models.Stats, error) {
	students, err := s.repomanager.Accounts(s.db).Count(ctx)
	if err != nil {
		return nil, internalErr("count accounts", err)
	}
	members, err := s.repomanager.Staff(s.db).Count(ctx)
	if err != nil {
		return nil, internalErr("count staff", err)
	}
	return &models.Stats{Students: students, Staff: members}, nil
}

// Staff lists the directory grouped by department.
func (s *InfoService) Staff(ctx context.Context) ([]*models.Staff, error) {
	list, err := s.repomanager.Staff(s.db).List(ctx, staff.ByDepartment)
	if err != nil {
		return nil, internalErr("list staff", err)
	}
	return list, nil
}

func (s *InfoService) StaffMember(ctx context.Context, id string) (*models.Staff, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	m, err := s.repomanager.Staff(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("get staff", err)
	}
	return m, nil
}

// Events lists events with the latest date first.
func (s *InfoService) Events(ctx context.Context) ([]*models.Event, error) {
	list, err := s.repomanager.Events(s.db).List(ctx, events.Latest)
	if err != nil {
		return nil, internalErr("list events", err)
	}
	return list, nil
}

func (s *InfoService) Event(ctx context.Context, id string) (*models.Event, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	e, err := s.repomanager.Events(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("get event", err)
	}
	return e, nil
}

func (s *InfoService) Jobs(ctx context.Context) ([]*models.Job, error) {
	list, err := s.repomanager.Jobs(s.db).List(ctx)
	if err != nil {
		return nil, internalErr("list jobs", err)
	}
	return list, nil
}

// JobApplication is the public apply form.
type JobApplication struct {
	Name  string
	Email string
	Phone string
}

// ApplyForJob mails the applicant a receipt for jobID.
func (s *InfoService) ApplyForJob(ctx context.Context, jobID string, app JobApplication) error {
	app.Name = strings.TrimSpace(app.Name)
	app.Email = NormalizeEmail(app.Email)
	app.Phone = strings.TrimSpace(app.Phone)

	if app.Name == "" {
		return common.Invalid("name is required")
	}
	if !validEmail(app.Email) {
		return common.Invalid("invalid email address")
	}

	if err := checkID(jobID); err != nil {
		return err
	}
	job, err := s.repomanager.Jobs(s.db).GetByID(ctx, jobID)
	if err != nil {
		return notFoundOr("get job", err)
	}

	subject, html, err := mailer.ApplicationEmail(app.Name, app.Phone, job)
	if err != nil {
		return internalErr("render application mail", err)
	}

	if err := s.mailer.Send(ctx, []string{app.Email}, subject, html); err != nil {
		metrics.MailFailed("application")
		s.logger.Error(ctx, "application mail failed", "job_id", jobID, "error", err)
		return common.ErrMailDelivery
	}
	return nil
}

func notFoundOr(op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return internalErr(op, err)
}
