package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/dmitrijs2005/bvchub/internal/dbx"
	"github.com/dmitrijs2005/bvchub/internal/server/models"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/admins"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/events"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/projects"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/staff"
	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// memStore is an in-memory stand-in for every repository. Methods named in
// fail return the configured error instead of touching state.
type memStore struct {
	mu sync.Mutex

	accounts map[string]*models.Account
	follows  map[[2]string]time.Time
	admins   map[string]*models.Admin
	projects map[string]*models.Project
	staff    map[string]*models.Staff
	events   map[string]*models.Event
	jobs     map[string]*models.Job

	seq  int
	fail map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		accounts: map[string]*models.Account{},
		follows:  map[[2]string]time.Time{},
		admins:   map[string]*models.Admin{},
		projects: map[string]*models.Project{},
		staff:    map[string]*models.Staff{},
		events:   map[string]*models.Event{},
		jobs:     map[string]*models.Job{},
		fail:     map[string]error{},
	}
}

func (s *memStore) failing(op string) error {
	return s.fail[op]
}

func (s *memStore) tick() time.Time {
	s.seq++
	return time.Date(2026, 1, 1, 0, 0, s.seq, 0, time.UTC)
}

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository        { return &memAccounts{m.s} }
func (m *fakeRepoManager) Admins(dbx.DBTX) admins.Repository            { return &memAdmins{m.s} }
func (m *fakeRepoManager) Projects(dbx.DBTX) projects.Repository        { return &memProjects{m.s} }
func (m *fakeRepoManager) Staff(dbx.DBTX) staff.Repository              { return &memStaff{m.s} }
func (m *fakeRepoManager) Events(dbx.DBTX) events.Repository            { return &memEvents{m.s} }
func (m *fakeRepoManager) Jobs(dbx.DBTX) jobs.Repository                { return &memJobs{m.s} }

// ---- accounts

type memAccounts struct{ s *memStore }

func cloneAccount(a *models.Account) *models.Account {
	c := *a
	c.Skills = append([]string{}, a.Skills...)
	if a.OTPCode != nil {
		code, exp := *a.OTPCode, *a.OTPExpiresAt
		c.OTPCode, c.OTPExpiresAt = &code, &exp
	}
	return &c
}

func (r *memAccounts) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing("accounts.Create"); err != nil {
		return nil, err
	}
	for _, existing := range r.s.accounts {
		if existing.Email == a.Email {
			return nil, common.ErrDuplicateEmail
		}
	}
	c := cloneAccount(a)
	c.ID = uuid.NewString()
	c.CreatedAt = r.s.tick()
	c.UpdatedAt = c.CreatedAt
	r.s.accounts[c.ID] = c
	return cloneAccount(c), nil
}

func (r *memAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing("accounts.GetByEmail"); err != nil {
		return nil, err
	}
	for _, a := range r.s.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing("accounts.GetByID"); err != nil {
		return nil, err
	}
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneAccount(a), nil
}

func (r *memAccounts) Save(_ context.Context, a *models.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing("accounts.Save"); err != nil {
		return err
	}
	if _, ok := r.s.accounts[a.ID]; !ok {
		return common.ErrorNotFound
	}
	c := cloneAccount(a)
	c.UpdatedAt = r.s.tick()
	r.s.accounts[a.ID] = c
	return nil
}

func (r *memAccounts) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing("accounts.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.accounts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.accounts, id)
	for k := range r.s.follows {
		if k[0] == id || k[1] == id {
			delete(r.s.follows, k)
		}
	}
	for pid, p := range r.s.projects {
		if p.UserID == id {
			delete(r.s.projects, pid)
		}
	}
	return nil
}

func (r *memAccounts) List(_ context.Context) ([]*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing("accounts.List"); err != nil {
		return nil, err
	}
	result := []*models.Account{}
	for _, a := range r.s.accounts {
		result = append(result, cloneAccount(a))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *memAccounts) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing("accounts.Count"); err != nil {
		return 0, err
	}
	return int64(len(r.s.accounts)), nil
}

func (r *memAccounts) Emails(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing("accounts.Emails"); err != nil {
		return nil, err
	}
	result := []string{}
	for _, a := range r.s.accounts {
		if a.Email != "" {
			result = append(result, a.Email)
		}
	}
	sort.Strings(result)
	return result, nil
}

func (r *memAccounts) Summaries(_ context.Context, ids []string) (map[string]*models.AccountSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing("accounts.Summaries"); err != nil {
		return nil, err
	}
	result := map[string]*models.AccountSummary{}
	for _, id := range ids {
		if a, ok := r.s.accounts[id]; ok {
			result[id] = &models.AccountSummary{ID: a.ID, Name: a.Name, Email: a.Email, Department: a.Department, ProfilePic: a.ProfilePic}
		}
	}
	return result, nil
}

func (r *memAccounts) IsFollowing(_ context.Context, followerID, followeeID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.follows[[2]string{followerID, followeeID}]
	return ok, nil
}

func (r *memAccounts) Follow(_ context.Context, followerID, followeeID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing("accounts.Follow"); err != nil {
		return err
	}
	k := [2]string{followerID, followeeID}
	if _, ok := r.s.follows[k]; !ok {
		r.s.follows[k] = r.s.tick()
	}
	return nil
}

func (r *memAccounts) Unfollow(_ context.Context, followerID, followeeID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.follows, [2]string{followerID, followeeID})
	return nil
}

func (r *memAccounts) Connections(_ context.Context, id string) ([]string, []string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	followers, following := []string{}, []string{}
	for k := range r.s.follows {
		if k[1] == id {
			followers = append(followers, k[0])
		}
		if k[0] == id {
			following = append(following, k[1])
		}
	}
	sort.Strings(followers)
	sort.Strings(following)
	return followers, following, nil
}

// ---- admins

type memAdmins struct{ s *memStore }

func (r *memAdmins) Create(_ context.Context, a *models.Admin) (*models.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.admins {
		if existing.Email == a.Email {
			return nil, common.ErrDuplicateEmail
		}
	}
	c := *a
	c.ID = uuid.NewString()
	c.CreatedAt = r.s.tick()
	r.s.admins[c.ID] = &c
	out := c
	return &out, nil
}

func (r *memAdmins) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing("admins.GetByEmail"); err != nil {
		return nil, err
	}
	for _, a := range r.s.admins {
		if a.Email == email {
			c := *a
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memAdmins) GetByID(_ context.Context, id string) (*models.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.admins[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *a
	return &c, nil
}

// ---- projects

type memProjects struct{ s *memStore }

func cloneProject(p *models.Project) *models.Project {
	c := *p
	c.TechStack = append([]string{}, p.TechStack...)
	c.Media = append([]string{}, p.Media...)
	c.Likes = append([]string{}, p.Likes...)
	c.Owner = nil
	return &c
}

func (r *memProjects) Create(_ context.Context, p *models.Project) (*models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing("projects.Create"); err != nil {
		return nil, err
	}
	c := cloneProject(p)
	c.ID = uuid.NewString()
	c.Likes = []string{}
	c.CreatedAt = r.s.tick()
	c.UpdatedAt = c.CreatedAt
	r.s.projects[c.ID] = c
	return cloneProject(c), nil
}

func (r *memProjects) GetByID(_ context.Context, id string) (*models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneProject(p), nil
}

func (r *memProjects) list(keep func(*models.Project) bool) []*models.Project {
	result := []*models.Project{}
	for _, p := range r.s.projects {
		if keep(p) {
			result = append(result, cloneProject(p))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

func (r *memProjects) List(_ context.Context) ([]*models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing("projects.List"); err != nil {
		return nil, err
	}
	return r.list(func(*models.Project) bool { return true }), nil
}

func (r *memProjects) ListByUser(_ context.Context, userID string) ([]*models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(func(p *models.Project) bool { return p.UserID == userID }), nil
}

func (r *memProjects) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.projects, id)
	return nil
}

func (r *memProjects) Like(_ context.Context, projectID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[projectID]
	if !ok {
		return common.ErrorNotFound
	}
	for _, l := range p.Likes {
		if l == userID {
			return common.ErrAlreadyLiked
		}
	}
	p.Likes = append(p.Likes, userID)
	return nil
}

// ---- staff

type memStaff struct{ s *memStore }

func (r *memStaff) Create(_ context.Context, m *models.Staff) (*models.Staff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *m
	c.ID = uuid.NewString()
	c.CreatedAt = r.s.tick()
	c.UpdatedAt = c.CreatedAt
	r.s.staff[c.ID] = &c
	out := c
	return &out, nil
}

func (r *memStaff) GetByID(_ context.Context, id string) (*models.Staff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.staff[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *m
	return &c, nil
}

func (r *memStaff) List(_ context.Context, order staff.Order) ([]*models.Staff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := []*models.Staff{}
	for _, m := range r.s.staff {
		c := *m
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool {
		if order == staff.Newest {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		if result[i].Department != result[j].Department {
			return result[i].Department < result[j].Department
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *memStaff) Save(_ context.Context, m *models.Staff) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.staff[m.ID]; !ok {
		return common.ErrorNotFound
	}
	c := *m
	r.s.staff[m.ID] = &c
	return nil
}

func (r *memStaff) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.staff[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.staff, id)
	return nil
}

func (r *memStaff) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.staff)), nil
}

func (r *memStaff) Emails(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing("staff.Emails"); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	result := []string{}
	for _, m := range r.s.staff {
		if m.Email != "" && !seen[m.Email] {
			seen[m.Email] = true
			result = append(result, m.Email)
		}
	}
	sort.Strings(result)
	return result, nil
}

// ---- events

type memEvents struct{ s *memStore }

func (r *memEvents) Create(_ context.Context, e *models.Event) (*models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing("events.Create"); err != nil {
		return nil, err
	}
	c := *e
	c.ID = uuid.NewString()
	c.CreatedAt = r.s.tick()
	c.UpdatedAt = c.CreatedAt
	r.s.events[c.ID] = &c
	out := c
	return &out, nil
}

func (r *memEvents) GetByID(_ context.Context, id string) (*models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *e
	return &c, nil
}

func (r *memEvents) List(_ context.Context, order events.Order) ([]*models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := []*models.Event{}
	for _, e := range r.s.events {
		c := *e
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool {
		if order == events.Soonest {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

func (r *memEvents) Save(_ context.Context, e *models.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[e.ID]; !ok {
		return common.ErrorNotFound
	}
	c := *e
	r.s.events[e.ID] = &c
	return nil
}

func (r *memEvents) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.events, id)
	return nil
}

// ---- jobs

type memJobs struct{ s *memStore }

func (r *memJobs) Create(_ context.Context, j *models.Job) (*models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *j
	c.ID = uuid.NewString()
	c.CreatedAt = r.s.tick()
	c.UpdatedAt = c.CreatedAt
	r.s.jobs[c.ID] = &c
	out := c
	return &out, nil
}

func (r *memJobs) GetByID(_ context.Context, id string) (*models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing("jobs.GetByID"); err != nil {
		return nil, err
	}
	j, ok := r.s.jobs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *j
	return &c, nil
}

func (r *memJobs) List(_ context.Context) ([]*models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := []*models.Job{}
	for _, j := range r.s.jobs {
		c := *j
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *memJobs) Save(_ context.Context, j *models.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[j.ID]; !ok {
		return common.ErrorNotFound
	}
	c := *j
	r.s.jobs[j.ID] = &c
	return nil
}

func (r *memJobs) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.jobs, id)
	return nil
}

// ---- mail and media

type sentMail struct {
	To      []string
	Subject string
	HTML    string
}

type fakeMailer struct {
	mu    sync.Mutex
	sent  []sentMail
	err   error
	stall bool
}

// Send records the mail. A stalled mailer blocks until ctx is done.
func (m *fakeMailer) Send(ctx context.Context, to []string, subject, html string) error {
	m.mu.Lock()
	stall := m.stall
	m.mu.Unlock()
	if stall {
		<-ctx.Done()
		return ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: html})
	return nil
}

func (m *fakeMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

type putCall struct {
	Folder, Filename string
	Body             []byte
}

type fakeMediaStore struct {
	calls   []putCall
	err     error
	failOn  string
	deleted []string
}

func (f *fakeMediaStore) Put(_ context.Context, folder, filename, _ string, body io.Reader, _ int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.failOn != "" && filename == f.failOn {
		return "", fmt.Errorf("%w: %s rejected", common.ErrUpload, filename)
	}
	b, _ := io.ReadAll(body)
	f.calls = append(f.calls, putCall{Folder: folder, Filename: filename, Body: b})
	return "https://media.test/" + folder + "/" + filename, nil
}

func (f *fakeMediaStore) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}
