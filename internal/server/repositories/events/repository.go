// Package events persists campus event announcements.
package events

import (
	"context"

	"github.com/dmitrijs2005/bvchub/internal/server/models"
)

// Order selects how List sorts events by date.
type Order int

const (
	// Latest puts the furthest date first (student feed).
	Latest Order = iota
	// Soonest puts the nearest date first (admin console).
	Soonest
)

type Repository interface {
	Create(ctx context.Context, e *models.Event) (*models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, order Order) ([]*models.Event, error)
	Save(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id string) error
}
