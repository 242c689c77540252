package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bvchub/internal/logging"
	"github.com/dmitrijs2005/bvchub/internal/mailer"
	"github.com/dmitrijs2005/bvchub/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailer(t *testing.T) {
	c := &config.Config{}
	_, ok := newMailer(c, logging.Nop{}).(*mailer.LogMailer)
	assert.True(t, ok)

	c.SMTPHost, c.SMTPPort = "smtp.example.org", 587
	_, ok = newMailer(c, logging.Nop{}).(*mailer.SMTPMailer)
	assert.True(t, ok)
}

func TestNewApp_UnknownLogBackend(t *testing.T) {
	_, err := NewApp(context.Background(), &config.Config{LogBackend: "syslog"})
	assert.Error(t, err)
}

func TestNewApp_PingFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	orig := openDB
	openDB = func(string) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() { openDB = orig })

	_, err = NewApp(context.Background(), &config.Config{LogBackend: logging.BackendSlog})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db ping error")
	assert.NoError(t, mock.ExpectationsWereMet())
}
