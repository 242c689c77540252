package accounts

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

const emailConstraint = "accounts_email_key"

const accountColumns = `id, name, email, password_hash, verified, otp_code, otp_expires_at, onboarded,
		 profile_pic, department, year, roll_number, bio, skills, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*models.Account, error) {
	var (
		a         models.Account
		otp       sql.NullString
		otpExpiry sql.NullTime
	)
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Verified, &otp, &otpExpiry, &a.Onboarded,
		&a.ProfilePic, &a.Department, &a.Year, &a.RollNumber, &a.Bio, pq.Array(&a.Skills), &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if otp.Valid && otpExpiry.Valid {
		a.SetOTP(otp.String, otpExpiry.Time)
	}
	if a.Skills == nil {
		a.Skills = []string{}
	}
	return &a, nil
}

func otpArgs(a *models.Account) (sql.NullString, sql.NullTime) {
	if a.OTPCode == nil || a.OTPExpiresAt == nil {
		return sql.NullString{}, sql.NullTime{}
	}
	return sql.NullString{String: *a.OTPCode, Valid: true}, sql.NullTime{Time: *a.OTPExpiresAt, Valid: true}
}

// Create inserts an account with its pending OTP in one statement.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (name, email, password_hash, otp_code, otp_expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`

	otp, exp := otpArgs(account)
	err := r.db.QueryRowContext(ctx, query, account.Name, account.Email, account.PasswordHash, otp, exp).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err, emailConstraint) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if account.Skills == nil {
		account.Skills = []string{}
	}
	return account, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg any) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getOne(ctx, `email = $1`, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.getOne(ctx, `id = $1`, id)
}

// Save writes every mutable column of account. Last write wins.
func (r *PostgresRepository) Save(ctx context.Context, account *models.Account) error {
	query :=
		`UPDATE accounts SET name = $2, password_hash = $3, verified = $4, otp_code = $5, otp_expires_at = $6,
		 onboarded = $7, profile_pic = $8, department = $9, year = $10, roll_number = $11, bio = $12,
		 skills = $13, updated_at = $14
		 WHERE id = $1`

	otp, exp := otpArgs(account)
	skills := account.Skills
	if skills == nil {
		skills = []string{}
	}
	account.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, query, account.ID, account.Name, account.PasswordHash, account.Verified, otp, exp,
		account.Onboarded, account.ProfilePic, account.Department, account.Year, account.RollNumber, account.Bio,
		pq.Array(skills), account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Emails returns every account address, used for broadcast notifications.
func (r *PostgresRepository) Emails(ctx context.Context) ([]string, error) {
	return selectStrings(ctx, r.db, `SELECT email FROM accounts WHERE email <> '' ORDER BY email`)
}

// Summaries loads the public owner cards for ids, keyed by id.
func (r *PostgresRepository) Summaries(ctx context.Context, ids []string) (map[string]*models.AccountSummary, error) {
	result := make(map[string]*models.AccountSummary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, department, profile_pic FROM accounts WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.AccountSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Department, &s.ProfilePic); err != nil {
			return nil, err
		}
		result[s.ID] = &s
	}
	return result, rows.Err()
}

func (r *PostgresRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`,
		followerID, followeeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO follows (follower_id, followee_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		followerID, followeeID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`,
		followerID, followeeID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Connections(ctx context.Context, id string) ([]string, []string, error) {
	followers, err := selectStrings(ctx, r.db,
		`SELECT follower_id FROM follows WHERE followee_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, nil, err
	}
	following, err := selectStrings(ctx, r.db,
		`SELECT followee_id FROM follows WHERE follower_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, nil, err
	}
	return followers, following, nil
}

func selectStrings(ctx context.Context, db dbx.DBTX, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		result = append(result, s)
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
