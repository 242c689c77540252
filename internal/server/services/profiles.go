package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/dmitrijs2005/bvchub/internal/dbx"
	"github.com/dmitrijs2005/bvchub/internal/server/models"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bvchub/internal/server/storage"
)

// ProfileService manages the caller's own profile and follow edges.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.MediaStore
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, store storage.MediaStore) *ProfileService {
	return &ProfileService{db: db, repomanager: m, store: store}
}

func (s *ProfileService) load(ctx context.Context, id string) (*models.Account, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	repo := s.repomanager.Accounts(s.db)

	a, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, internalErr("lookup account", err)
	}

	a.Followers, a.Following, err = repo.Connections(ctx, id)
	if err != nil {
		return nil, internalErr("load connections", err)
	}
	return a, nil
}

// GetMe returns the account with its follow lists.
func (s *ProfileService) GetMe(ctx context.Context, id string) (*models.Account, error) {
	return s.load(ctx, id)
}

// GetProfile returns another student's public profile.
func (s *ProfileService) GetProfile(ctx context.Context, id string) (*models.Account, error) {
	return s.load(ctx, id)
}

// CompleteOnboarding fills the profile fields and marks the account onboarded.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, id string, upd models.ProfileUpdate, avatar *Upload) (*models.Account, error) {
	return s.update(ctx, id, upd, avatar, true)
}

// UpdateProfile edits profile fields. Email, password and verification state
// are not reachable from here.
func (s *ProfileService) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate, avatar *Upload) (*models.Account, error) {
	if upd.Name != nil && *upd.Name == "" {
		return nil, common.Invalid("name cannot be empty")
	}
	return s.update(ctx, id, upd, avatar, false)
}

func (s *ProfileService) update(ctx context.Context, id string, upd models.ProfileUpdate, avatar *Upload, onboard bool) (*models.Account, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	upd.Apply(a)

	if avatar != nil {
		url, err := putUpload(ctx, s.store, common.FolderUsers, avatar)
		if err != nil {
			return nil, err
		}
		a.ProfilePic = url
	}
	if onboard {
		a.Onboarded = true
	}

	if err := s.repomanager.Accounts(s.db).Save(ctx, a); err != nil {
		return nil, internalErr("save account", err)
	}
	return a, nil
}

// ToggleFollow follows targetID, or unfollows it when already followed.
// It returns whether followerID follows targetID afterwards.
func (s *ProfileService) ToggleFollow(ctx context.Context, followerID, targetID string) (bool, error) {
	if followerID == targetID {
		return false, common.ErrSelfFollow
	}
	if err := checkID(targetID); err != nil {
		return false, err
	}

	var following bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		if _, err := repo.GetByID(ctx, targetID); err != nil {
			return err
		}

		already, err := repo.IsFollowing(ctx, followerID, targetID)
		if err != nil {
			return err
		}

		if already {
			return repo.Unfollow(ctx, followerID, targetID)
		}
		following = true
		return repo.Follow(ctx, followerID, targetID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, err
		}
		return false, internalErr("toggle follow", err)
	}
	return following, nil
}
