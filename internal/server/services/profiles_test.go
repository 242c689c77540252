package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/dmitrijs2005/bvchub/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, s *memStore, name, email string) *models.Account {
	t.Helper()
	a, err := (&memAccounts{s}).Create(context.Background(), &models.Account{Name: name, Email: email, Verified: true})
	require.NoError(t, err)
	return a
}

func strPtr(s string) *string { return &s }

func TestProfile_GetMeIncludesConnections(t *testing.T) {
	db, _ := newSQLMockDB(t)
	store := newMemStore()
	svc := NewProfileService(db, &fakeRepoManager{store}, &fakeMediaStore{})
	ctx := context.Background()

	a := seedAccount(t, store, "A", "a@bvc.edu")
	b := seedAccount(t, store, "B", "b@bvc.edu")
	require.NoError(t, (&memAccounts{store}).Follow(ctx, b.ID, a.ID))

	me, err := svc.GetMe(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, me.Followers)
	assert.Empty(t, me.Following)

	_, err = svc.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestProfile_CompleteOnboarding(t *testing.T) {
	db, _ := newSQLMockDB(t)
	store := newMemStore()
	media := &fakeMediaStore{}
	svc := NewProfileService(db, &fakeRepoManager{store}, media)
	ctx := context.Background()

	a := seedAccount(t, store, "A", "a@bvc.edu")

	upd := models.ProfileUpdate{
		Department: strPtr("BCA"),
		Year:       strPtr("2"),
		Skills:     []string{"go", "sql"},
	}
	avatar := &Upload{Filename: "me.png", ContentType: "image/png", Size: 3, Body: strings.NewReader("png")}

	got, err := svc.CompleteOnboarding(ctx, a.ID, upd, avatar)
	require.NoError(t, err)
	assert.True(t, got.Onboarded)
	assert.Equal(t, "BCA", got.Department)
	assert.Equal(t, []string{"go", "sql"}, got.Skills)
	assert.Equal(t, "https://media.test/users/me.png", got.ProfilePic)

	require.Len(t, media.calls, 1)
	assert.Equal(t, common.FolderUsers, media.calls[0].Folder)
	assert.Equal(t, []byte("png"), media.calls[0].Body)

	stored, err := (&memAccounts{store}).GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, stored.Onboarded)
	assert.Equal(t, "A", stored.Name)
}

func TestProfile_UpdateProfile(t *testing.T) {
	db, _ := newSQLMockDB(t)
	store := newMemStore()
	svc := NewProfileService(db, &fakeRepoManager{store}, &fakeMediaStore{})
	ctx := context.Background()

	a := seedAccount(t, store, "A", "a@bvc.edu")

	_, err := svc.UpdateProfile(ctx, a.ID, models.ProfileUpdate{Name: strPtr("")}, nil)
	assert.ErrorIs(t, err, common.ErrorValidation)

	got, err := svc.UpdateProfile(ctx, a.ID, models.ProfileUpdate{Bio: strPtr("hello")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Bio)
	assert.False(t, got.Onboarded)
	assert.Equal(t, "a@bvc.edu", got.Email)

	big := &Upload{Filename: "huge.png", Size: common.MaxUploadSize + 1, Body: strings.NewReader("")}
	_, err = svc.UpdateProfile(ctx, a.ID, models.ProfileUpdate{}, big)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestProfile_ToggleFollow(t *testing.T) {
	db, mock := newSQLMockDB(t)
	store := newMemStore()
	svc := NewProfileService(db, &fakeRepoManager{store}, &fakeMediaStore{})
	ctx := context.Background()

	a := seedAccount(t, store, "A", "a@bvc.edu")
	b := seedAccount(t, store, "B", "b@bvc.edu")

	mock.ExpectBegin()
	mock.ExpectCommit()
	following, err := svc.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, following)

	me, err := svc.GetMe(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, me.Following)

	mock.ExpectBegin()
	mock.ExpectCommit()
	following, err = svc.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, following)

	them, err := svc.GetProfile(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, them.Followers)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfile_ToggleFollowErrors(t *testing.T) {
	db, mock := newSQLMockDB(t)
	store := newMemStore()
	svc := NewProfileService(db, &fakeRepoManager{store}, &fakeMediaStore{})
	ctx := context.Background()

	a := seedAccount(t, store, "A", "a@bvc.edu")

	_, err := svc.ToggleFollow(ctx, a.ID, a.ID)
	assert.ErrorIs(t, err, common.ErrSelfFollow)

	// malformed ids never reach the database
	_, err = svc.ToggleFollow(ctx, a.ID, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.ToggleFollow(ctx, a.ID, uuid.NewString())
	assert.ErrorIs(t, err, common.ErrorNotFound)

	b := seedAccount(t, store, "B", "b@bvc.edu")
	store.fail["accounts.Follow"] = errBoom
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.ToggleFollow(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, common.ErrorInternal)

	require.NoError(t, mock.ExpectationsWereMet())
}
