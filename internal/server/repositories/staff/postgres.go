package staff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/dmitrijs2005/bvchub/internal/dbx"
	"github.com/dmitrijs2005/bvchub/internal/server/models"
	"github.com/lib/pq"
)

const selectStaff = `SELECT id, name, department, email, qualification, subjects, experience, bio, photo, created_at, updated_at
		 FROM staff`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStaff(row scanner) (*models.Staff, error) {
	var s models.Staff
	err := row.Scan(&s.ID, &s.Name, &s.Department, &s.Email, &s.Qualification, pq.Array(&s.Subjects),
		&s.Experience, &s.Bio, &s.Photo, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if s.Subjects == nil {
		s.Subjects = []string{}
	}
	return &s, nil
}

func subjects(s *models.Staff) any {
	if s.Subjects == nil {
		s.Subjects = []string{}
	}
	return pq.Array(s.Subjects)
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Staff) (*models.Staff, error) {
	query :=
		`INSERT INTO staff (name, department, email, qualification, subjects, experience, bio, photo)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, s.Name, s.Department, s.Email, s.Qualification, subjects(s),
		s.Experience, s.Bio, s.Photo).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Staff, error) {
	s, err := scanStaff(r.db.QueryRowContext(ctx, selectStaff+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) List(ctx context.Context, order Order) ([]*models.Staff, error) {
	query := selectStaff + ` ORDER BY department, name`
	if order == Newest {
		query = selectStaff + ` ORDER BY created_at DESC`
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Staff{}
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Save(ctx context.Context, s *models.Staff) error {
	query :=
		`UPDATE staff SET name = $2, department = $3, email = $4, qualification = $5, subjects = $6,
		 experience = $7, bio = $8, photo = $9, updated_at = $10
		 WHERE id = $1`

	s.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.Department, s.Email, s.Qualification, subjects(s),
		s.Experience, s.Bio, s.Photo, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res)
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Emails(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT email FROM staff WHERE email <> '' ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
