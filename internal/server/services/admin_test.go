package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/dmitrijs2005/bvchub/internal/cryptox"
	"github.com/dmitrijs2005/bvchub/internal/logging"
	"github.com/dmitrijs2005/bvchub/internal/server/metrics"
	"github.com/dmitrijs2005/bvchub/internal/server/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type adminFixture struct {
	svc    *AdminService
	store  *memStore
	mailer *fakeMailer
	media  *fakeMediaStore
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	db, _ := newSQLMockDB(t)
	f := &adminFixture{store: newMemStore(), mailer: &fakeMailer{}, media: &fakeMediaStore{}}
	f.svc = NewAdminService(db, &fakeRepoManager{f.store}, f.media, f.mailer, logging.Nop{}, bcrypt.MinCost)
	return f
}

func TestAdmin_Users(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	a := seedAccount(t, f.store, "A", "a@bvc.edu")
	seedAccount(t, f.store, "B", "b@bvc.edu")

	list, err := f.svc.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	got, err := f.svc.UpdateUser(ctx, a.ID, models.ProfileUpdate{Department: strPtr("BBA")}, strPtr("newpass"), upload("face.png"))
	require.NoError(t, err)
	assert.Equal(t, "BBA", got.Department)
	assert.Equal(t, "https://media.test/users/face.png", got.ProfilePic)
	assert.True(t, cryptox.CheckPassword(got.PasswordHash, "newpass"))

	_, err = f.svc.UpdateUser(ctx, a.ID, models.ProfileUpdate{}, strPtr("123"), nil)
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = f.svc.UpdateUser(ctx, "missing", models.ProfileUpdate{}, nil, nil)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, f.svc.DeleteUser(ctx, a.ID))
	assert.ErrorIs(t, f.svc.DeleteUser(ctx, a.ID), common.ErrorNotFound)
}

func TestAdmin_Staff(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateStaff(ctx, &models.Staff{Name: "Dr. X"}, nil)
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = f.svc.CreateStaff(ctx, &models.Staff{Name: "Dr. X", Department: "CS", Email: "bad"}, nil)
	assert.ErrorIs(t, err, common.ErrorValidation)

	first, err := f.svc.CreateStaff(ctx, &models.Staff{Name: "Dr. X", Department: "CS", Email: " X@BVC.edu "}, upload("x.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "x@bvc.edu", first.Email)
	assert.Equal(t, "https://media.test/staff/x.jpg", first.Photo)

	second, err := f.svc.CreateStaff(ctx, &models.Staff{Name: "Dr. Y", Department: "Arts"}, nil)
	require.NoError(t, err)

	list, err := f.svc.Staff(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	updated, err := f.svc.UpdateStaff(ctx, first.ID, StaffUpdate{Bio: strPtr("Head of CS"), Subjects: []string{"DBMS"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Head of CS", updated.Bio)
	assert.Equal(t, []string{"DBMS"}, updated.Subjects)
	assert.Equal(t, "https://media.test/staff/x.jpg", updated.Photo)

	_, err = f.svc.UpdateStaff(ctx, first.ID, StaffUpdate{Department: strPtr("")}, nil)
	assert.ErrorIs(t, err, common.ErrorValidation)

	require.NoError(t, f.svc.DeleteStaff(ctx, second.ID))
	assert.ErrorIs(t, f.svc.DeleteStaff(ctx, second.ID), common.ErrorNotFound)
}

func TestAdmin_EventsBroadcast(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	seedAccount(t, f.store, "A", "a@bvc.edu")
	seedAccount(t, f.store, "B", "shared@bvc.edu")
	_, err := f.svc.CreateStaff(ctx, &models.Staff{Name: "S", Department: "CS", Email: "Shared@bvc.edu"}, nil)
	require.NoError(t, err)
	_, err = f.svc.CreateStaff(ctx, &models.Staff{Name: "T", Department: "CS", Email: "t@bvc.edu"}, nil)
	require.NoError(t, err)

	_, err = f.svc.CreateEvent(ctx, &models.Event{Title: "Fest"}, nil)
	assert.ErrorIs(t, err, common.ErrorValidation)

	e, err := f.svc.CreateEvent(ctx, &models.Event{
		Title:    "Tech Fest",
		Date:     time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		Location: "Main Hall",
	}, upload("banner.png"))
	require.NoError(t, err)
	assert.Equal(t, "https://media.test/events/banner.png", e.Banner)

	sent := f.mailer.last()
	assert.ElementsMatch(t, []string{"a@bvc.edu", "shared@bvc.edu", "t@bvc.edu"}, sent.To)
	assert.True(t, strings.HasPrefix(sent.Subject, "New Event"))
	assert.Contains(t, sent.HTML, "Tech Fest")

	updated, err := f.svc.UpdateEvent(ctx, e.ID, EventUpdate{Location: strPtr("Auditorium")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Auditorium", updated.Location)
	assert.True(t, strings.HasPrefix(f.mailer.last().Subject, "Updated Event"))
	assert.Len(t, f.mailer.sent, 2)

	list, err := f.svc.Events(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.svc.DeleteEvent(ctx, e.ID))
	_, err = f.svc.UpdateEvent(ctx, e.ID, EventUpdate{}, nil)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAdmin_BroadcastFailureIsSoft(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	seedAccount(t, f.store, "A", "a@bvc.edu")

	before := testutil.ToFloat64(metrics.MailFailures.WithLabelValues("job"))
	f.mailer.err = errors.New("smtp down")

	j, err := f.svc.CreateJob(ctx, &models.Job{Title: "Go Intern", Company: "Acme"})
	require.NoError(t, err)
	assert.NotEmpty(t, j.ID)
	assert.Len(t, f.store.jobs, 1)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.MailFailures.WithLabelValues("job")))

	// recipient lookup failures are soft too
	f.mailer.err = nil
	f.store.fail["staff.Emails"] = errBoom
	_, err = f.svc.UpdateJob(ctx, j.ID, JobUpdate{Salary: strPtr("20k")})
	require.NoError(t, err)
	assert.Empty(t, f.mailer.sent)
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.MailFailures.WithLabelValues("job")))
}

func TestAdmin_Jobs(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateJob(ctx, &models.Job{Title: "  "})
	assert.ErrorIs(t, err, common.ErrorValidation)

	deadline := time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)
	j, err := f.svc.CreateJob(ctx, &models.Job{Title: "Analyst"})
	require.NoError(t, err)
	// no recipients, no mail
	assert.Empty(t, f.mailer.sent)

	seedAccount(t, f.store, "A", "a@bvc.edu")
	updated, err := f.svc.UpdateJob(ctx, j.ID, JobUpdate{Deadline: &deadline, Type: strPtr("Full-time")})
	require.NoError(t, err)
	require.NotNil(t, updated.Deadline)
	assert.Equal(t, deadline, *updated.Deadline)
	assert.True(t, strings.HasPrefix(f.mailer.last().Subject, "Updated Job"))

	list, err := f.svc.Jobs(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.svc.UpdateJob(ctx, j.ID, JobUpdate{Title: strPtr("")})
	assert.ErrorIs(t, err, common.ErrorValidation)

	require.NoError(t, f.svc.DeleteJob(ctx, j.ID))
	assert.ErrorIs(t, f.svc.DeleteJob(ctx, j.ID), common.ErrorNotFound)
}

func TestAdmin_Projects(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	owner := seedAccount(t, f.store, "A", "a@bvc.edu")

	p, err := (&memProjects{f.store}).Create(ctx, &models.Project{UserID: owner.ID, Title: "p"})
	require.NoError(t, err)

	list, err := f.svc.ProjectsByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.svc.DeleteProject(ctx, p.ID))
	assert.ErrorIs(t, f.svc.DeleteProject(ctx, p.ID), common.ErrorNotFound)
}
