// Command hubadmin provisions admin accounts for the portal console.
//
//	hubadmin -name "Registrar" -email registrar@bvc.edu [-d DSN]
//
// The password is read from the terminal without echo.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/bvchub/internal/flagx"
	"github.com/dmitrijs2005/bvchub/internal/logging"
	"github.com/dmitrijs2005/bvchub/internal/mailer"
	"github.com/dmitrijs2005/bvchub/internal/server/config"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bvchub/internal/server/services"
	"golang.org/x/term"
)

// readPassword is a seam for tests.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

type options struct {
	name  string
	email string
}

func parseOptions(args []string) (options, error) {
	var o options

	fs := flag.NewFlagSet("hubadmin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.name, "name", "", "admin display name")
	fs.StringVar(&o.email, "email", "", "admin email")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-name", "--name", "-email", "--email"})); err != nil {
		return o, err
	}
	if strings.TrimSpace(o.name) == "" || strings.TrimSpace(o.email) == "" {
		return o, errors.New("both -name and -email are required")
	}
	return o, nil
}

func promptPassword(out io.Writer) (string, error) {
	fmt.Fprint(out, "Password: ")
	first, err := readPassword()
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}

	fmt.Fprint(out, "Repeat password: ")
	second, err := readPassword()
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	cfg := config.LoadConfig()
	logger := logging.Nop{}

	password, err := promptPassword(out)
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	svc := services.NewAuthService(db, rm, cfg, mailer.NewLogMailer(logger), nil, logger, nil)

	admin, err := svc.RegisterAdmin(ctx, opts.name, opts.email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "admin %s created (id=%s)\n", admin.Email, admin.ID)
	return nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "hubadmin:", err)
		os.Exit(1)
	}
}
