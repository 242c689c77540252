package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/dmitrijs2005/bvchub/internal/dbx"
	"github.com/dmitrijs2005/bvchub/internal/server/models"
)

const selectJobs = `SELECT id, title, company, location, type, salary, deadline, description, link, created_at, updated_at
		 FROM jobs`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*models.Job, error) {
	var (
		j        models.Job
		deadline sql.NullTime
	)
	err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Type, &j.Salary, &deadline, &j.Description, &j.Link,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if deadline.Valid {
		j.Deadline = &deadline.Time
	}
	return &j, nil
}

func deadlineArg(j *models.Job) sql.NullTime {
	if j.Deadline == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *j.Deadline, Valid: true}
}

func (r *PostgresRepository) Create(ctx context.Context, j *models.Job) (*models.Job, error) {
	query :=
		`INSERT INTO jobs (title, company, location, type, salary, deadline, description, link)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, j.Title, j.Company, j.Location, j.Type, j.Salary, deadlineArg(j),
		j.Description, j.Link).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return j, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	j, err := scanJob(r.db.QueryRowContext(ctx, selectJobs+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return j, nil
}

// List returns all jobs, newest posting first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Job, error) {
	rows, err := r.db.QueryContext(ctx, selectJobs+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Save(ctx context.Context, j *models.Job) error {
	query :=
		`UPDATE jobs SET title = $2, company = $3, location = $4, type = $5, salary = $6, deadline = $7,
		 description = $8, link = $9, updated_at = $10
		 WHERE id = $1`

	j.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, j.ID, j.Title, j.Company, j.Location, j.Type, j.Salary, deadlineArg(j),
		j.Description, j.Link, j.UpdatedAt)
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

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
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
