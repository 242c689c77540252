// Package jobs persists placement opportunities.
package jobs

import (
	"context"

	"github.com/dmitrijs2005/bvchub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, j *models.Job) (*models.Job, error)
	GetByID(ctx context.Context, id string) (*models.Job, error)
	List(ctx context.Context) ([]*models.Job, error)
	Save(ctx context.Context, j *models.Job) error
	Delete(ctx context.Context, id string) error
}
