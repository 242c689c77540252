package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/dmitrijs2005/bvchub/internal/dbx"
	"github.com/dmitrijs2005/bvchub/internal/server/models"
	"github.com/lib/pq"
)

const likesConstraint = "project_likes_pkey"

const selectProjects = `SELECT p.id, p.user_id, p.title, p.description, p.tech_stack, p.repo_link, p.live_link, p.media,
		 ARRAY(SELECT l.user_id::text FROM project_likes l WHERE l.project_id = p.id ORDER BY l.created_at) AS likes,
		 p.created_at, p.updated_at
		 FROM projects p`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, pq.Array(&p.TechStack), &p.RepoLink, &p.LiveLink,
		pq.Array(&p.Media), pq.Array(&p.Likes), &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	for _, s := range []*[]string{&p.TechStack, &p.Media, &p.Likes} {
		if *s == nil {
			*s = []string{}
		}
	}
	return &p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *PostgresRepository) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	query :=
		`INSERT INTO projects (user_id, title, description, tech_stack, repo_link, live_link, media)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`

	project.TechStack = nonNil(project.TechStack)
	project.Media = nonNil(project.Media)
	project.Likes = []string{}

	err := r.db.QueryRowContext(ctx, query, project.UserID, project.Title, project.Description,
		pq.Array(project.TechStack), project.RepoLink, project.LiveLink, pq.Array(project.Media)).
		Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return project, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, selectProjects+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// List returns every project, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Project, error) {
	return r.query(ctx, selectProjects+` ORDER BY p.created_at DESC`)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Project, error) {
	return r.query(ctx, selectProjects+` WHERE p.user_id = $1 ORDER BY p.created_at DESC`, userID)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Like(ctx context.Context, projectID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO project_likes (project_id, user_id) VALUES ($1, $2)`, projectID, userID)
	if err != nil {
		if dbx.IsUniqueViolation(err, likesConstraint) {
			return common.ErrAlreadyLiked
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
