// Command blogctl is the operator tool for blog-service: it applies database
// migrations and creates users (for example the first admin) out of band.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/baechuer/blog-service/internal/application/auth"
	"github.com/baechuer/blog-service/internal/config"
	"github.com/baechuer/blog-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/blog-service/internal/infrastructure/security"
)

const usage = `usage: blogctl <command> [flags]

commands:
  migrate       apply pending database migrations
  create-user   create a user; the password is read from the terminal or stdin
`

type deps struct {
	openDB       func(dsn string) (*sql.DB, error)
	migrate      func(ctx context.Context, db *sql.DB) error
	newUserRepo  func(db *sql.DB) auth.UserRepo
	isTerminal   func(fd int) bool
	readPassword func(fd int) ([]byte, error)
}

func defaultDeps() deps {
	return deps{
		openDB:      config.NewDB,
		migrate:     postgres.Migrate,
		newUserRepo: func(db *sql.DB) auth.UserRepo { return postgres.NewUserRepo(db) },
		isTerminal:  term.IsTerminal,
		// test seam for term.ReadPassword
		readPassword: term.ReadPassword,
	}
}

type app struct {
	deps   deps
	stdin  *os.File
	in     io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{deps: defaultDeps(), stdin: os.Stdin, in: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	os.Exit(a.run(ctx, os.Args[1:]))
}

func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "migrate":
		err = a.migrate(ctx, args[1:])
	case "create-user":
		err = a.createUser(ctx, args[1:])
	case "-h", "--help", "help":
		fmt.Fprint(a.stdout, usage)
		return 0
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(a.stderr, "error:", err)
		return 1
	}
	return 0
}

func (a *app) newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	dsn := fs.String("database-url", os.Getenv("DATABASE_URL"), "postgres connection URL (env DATABASE_URL)")
	return fs, dsn
}

func (a *app) open(dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("database url is required (-database-url or DATABASE_URL)")
	}
	return a.deps.openDB(dsn)
}

func (a *app) migrate(ctx context.Context, args []string) error {
	fs, dsn := a.newFlagSet("migrate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := a.open(*dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := a.deps.migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Fprintln(a.stdout, "migrations applied")
	return nil
}

func (a *app) createUser(ctx context.Context, args []string) error {
	fs, dsn := a.newFlagSet("create-user")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "login email")
	role := fs.String("role", "regular", "regular or admin")
	cost := fs.Int("bcrypt-cost", security.DefaultCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := a.readSecret()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	db, err := a.open(*dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	// Register never signs tokens, so no signer is needed here.
	svc := auth.NewService(a.deps.newUserRepo(db), security.NewBcryptHasher(*cost), nil, auth.Config{})
	u, err := svc.Register(ctx, *name, *email, password, *role)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "created user id=%s email=%s role=%s\n", u.ID, u.Email, u.Role)
	return nil
}

// readSecret prompts without echo on a terminal and reads one line otherwise,
// so the password can be piped in from a secret store.
func (a *app) readSecret() (string, error) {
	fd := int(a.stdin.Fd())
	if a.deps.isTerminal(fd) {
		fmt.Fprint(a.stderr, "Password: ")
		pw, err := a.deps.readPassword(fd)
		fmt.Fprintln(a.stderr)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
