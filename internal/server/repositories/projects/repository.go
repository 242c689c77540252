// Package projects persists student showcase projects and their likes.
package projects

import (
	"context"

	"github.com/dmitrijs2005/bvchub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Project, error)
	Delete(ctx context.Context, id string) error
	// Like records one like per (project, user); repeats yield common.ErrAlreadyLiked.
	Like(ctx context.Context, projectID, userID string) error
}
