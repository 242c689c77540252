// Package accounts persists student accounts (the credential store) and
// the follow graph between them.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/bvchub/internal/server/models"
)

// Repository is the account store. Email uniqueness is enforced by the
// store itself: Create reports common.ErrDuplicateEmail on conflict.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	Save(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Account, error)
	Count(ctx context.Context) (int64, error)
	Emails(ctx context.Context) ([]string, error)
	Summaries(ctx context.Context, ids []string) (map[string]*models.AccountSummary, error)

	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	Connections(ctx context.Context, id string) (followers, following []string, err error)
}
