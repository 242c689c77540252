package events

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/dmitrijs2005/bvchub/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventCols = []string{"id", "title", "date", "time", "location", "description", "category", "banner",
	"created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	date := time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+events\s*\(title,\s*date,.*RETURNING\s+id,\s*created_at,\s*updated_at$`).
		WithArgs("Hackathon", date, "10:00", "Main hall", "", "tech", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("e-1", now, now))

	got, err := repo.Create(context.Background(), &models.Event{
		Title: "Hackathon", Date: date, Time: "10:00", Location: "Main hall", Category: "tech",
	})
	require.NoError(t, err)
	assert.Equal(t, "e-1", got.ID)
}

func TestList_Orders(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`ORDER\s+BY\s+date\s+DESC$`).
		WillReturnRows(sqlmock.NewRows(eventCols).
			AddRow("e-2", "B", now.Add(48*time.Hour), "", "", "", "", "", now, now).
			AddRow("e-1", "A", now, "", "", "", "", "", now, now))
	mock.ExpectQuery(`ORDER\s+BY\s+date\s+ASC$`).WillReturnRows(sqlmock.NewRows(eventCols))

	got, err := repo.List(context.Background(), Latest)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e-2", got[0].ID)

	got, err = repo.List(context.Background(), Soonest)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM\s+events\s+WHERE\s+id\s*=\s*\$1$`).WithArgs("e-1").
		WillReturnRows(sqlmock.NewRows(eventCols).AddRow("e-1", "A", now, "", "", "", "", "https://cdn/b.png", now, now))
	mock.ExpectQuery(`FROM\s+events\s+WHERE\s+id\s*=\s*\$1$`).WithArgs("e-9").WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "e-1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/b.png", got.Banner)

	_, err = repo.GetByID(context.Background(), "e-9")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSaveAndDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	date := time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`(?s)^UPDATE\s+events\s+SET.*WHERE\s+id\s*=\s*\$1$`).
		WithArgs("e-1", "A", date, "", "", "", "", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE\s+FROM\s+events`).WithArgs("e-1").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), &models.Event{ID: "e-1", Title: "A", Date: date}))
	require.NoError(t, repo.Delete(context.Background(), "e-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
