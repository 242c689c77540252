// Package staff persists the faculty directory.
package staff

import (
	"context"

	"github.com/dmitrijs2005/bvchub/internal/server/models"
)

// Order selects how List sorts the directory.
type Order int

const (
	// ByDepartment groups members by department (public directory).
	ByDepartment Order = iota
	// Newest puts the most recently added members first (admin console).
	Newest
)

type Repository interface {
	Create(ctx context.Context, s *models.Staff) (*models.Staff, error)
	GetByID(ctx context.Context, id string) (*models.Staff, error)
	List(ctx context.Context, order Order) ([]*models.Staff, error)
	Save(ctx context.Context, s *models.Staff) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	Emails(ctx context.Context) ([]string, error)
}
