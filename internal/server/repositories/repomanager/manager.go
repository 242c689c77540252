package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bvchub/internal/dbx"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/admins"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/events"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/projects"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/staff"
)

// RepositoryManager vends repositories bound to a connection or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Admins(db dbx.DBTX) admins.Repository
	Projects(db dbx.DBTX) projects.Repository
	Staff(db dbx.DBTX) staff.Repository
	Events(db dbx.DBTX) events.Repository
	Jobs(db dbx.DBTX) jobs.Repository
}
