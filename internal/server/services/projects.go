package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/dmitrijs2005/bvchub/internal/server/models"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bvchub/internal/server/storage"
)

// ProjectInput is the form submitted when publishing a project.
type ProjectInput struct {
	Title       string
	Description string
	RepoLink    string
	LiveLink    string
	TechStack   []string
}

type ProjectService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.MediaStore
}

func NewProjectService(db *sql.DB, m repomanager.RepositoryManager, store storage.MediaStore) *ProjectService {
	return &ProjectService{db: db, repomanager: m, store: store}
}

// Create uploads up to common.MaxProjectMedia files and stores the project.
func (s *ProjectService) Create(ctx context.Context, ownerID string, in ProjectInput, media []*Upload) (*models.Project, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, common.Invalid("title is required")
	}
	if len(media) > common.MaxProjectMedia {
		return nil, common.Invalid("at most 5 media files are allowed")
	}
	for _, m := range media {
		if m.Size > common.MaxUploadSize {
			return nil, common.Invalid(m.Filename + " exceeds 10MB limit")
		}
	}

	urls := make([]string, 0, len(media))
	for _, m := range media {
		url, err := putUpload(ctx, s.store, common.FolderProjects, m)
		if err != nil {
			return nil, errors.Join(err, s.discard(ctx, urls))
		}
		urls = append(urls, url)
	}

	p, err := s.repomanager.Projects(s.db).Create(ctx, &models.Project{
		UserID:      ownerID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		TechStack:   in.TechStack,
		RepoLink:    strings.TrimSpace(in.RepoLink),
		LiveLink:    strings.TrimSpace(in.LiveLink),
		Media:       urls,
	})
	if err != nil {
		return nil, internalErr("create project", errors.Join(err, s.discard(ctx, urls)))
	}

	if err := s.withOwners(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// discard deletes objects uploaded for a project that was never stored.
func (s *ProjectService) discard(ctx context.Context, urls []string) error {
	ctx = context.WithoutCancel(ctx)
	var errs []error
	for _, u := range urls {
		if err := s.store.Delete(ctx, u); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *ProjectService) withOwners(ctx context.Context, projects ...*models.Project) error {
	ids := make([]string, 0, len(projects))
	seen := map[string]bool{}
	for _, p := range projects {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}

	owners, err := s.repomanager.Accounts(s.db).Summaries(ctx, ids)
	if err != nil {
		return internalErr("load owners", err)
	}
	for _, p := range projects {
		p.Owner = owners[p.UserID]
	}
	return nil
}

func (s *ProjectService) list(ctx context.Context, projects []*models.Project, err error) ([]*models.Project, error) {
	if err != nil {
		return nil, internalErr("list projects", err)
	}
	if err := s.withOwners(ctx, projects...); err != nil {
		return nil, err
	}
	return projects, nil
}

// List returns every project, newest first.
func (s *ProjectService) List(ctx context.Context) ([]*models.Project, error) {
	projects, err := s.repomanager.Projects(s.db).List(ctx)
	return s.list(ctx, projects, err)
}

// ListByUser returns the projects owned by userID, newest first.
func (s *ProjectService) ListByUser(ctx context.Context, userID string) ([]*models.Project, error) {
	projects, err := s.repomanager.Projects(s.db).ListByUser(ctx, userID)
	return s.list(ctx, projects, err)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	p, err := s.repomanager.Projects(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, internalErr("get project", err)
	}
	if err := s.withOwners(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a project. Students may delete only their own; admins any.
func (s *ProjectService) Delete(ctx context.Context, who models.Identity, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	repo := s.repomanager.Projects(s.db)

	p, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return internalErr("get project", err)
	}

	if !who.IsAdmin() && p.UserID != who.ID() {
		return common.ErrForbidden
	}

	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return internalErr("delete project", err)
	}
	return nil
}

// Like records userID's like and returns the new like count.
func (s *ProjectService) Like(ctx context.Context, userID, projectID string) (int, error) {
	if err := checkID(projectID); err != nil {
		return 0, err
	}
	repo := s.repomanager.Projects(s.db)

	if _, err := repo.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, err
		}
		return 0, internalErr("get project", err)
	}

	if err := repo.Like(ctx, projectID, userID); err != nil {
		if errors.Is(err, common.ErrAlreadyLiked) {
			return 0, err
		}
		return 0, internalErr("like project", err)
	}

	p, err := repo.GetByID(ctx, projectID)
	if err != nil {
		return 0, internalErr("get project", err)
	}
	return len(p.Likes), nil
}
