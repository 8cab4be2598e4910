package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/baechuer/blog-service/internal/domain"
)

// UserRepo is the credential store on the users table. Emails are stored
// trimmed and lowercased.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const (
	userColumns = `id, name, email, password_hash, role, created_at`

	qUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	qUserByID    = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	qUsersByIDs  = `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::uuid[])`
	qInsertUser  = `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6) RETURNING ` + userColumns
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	return u, nil
}

// one runs a single-row query, mapping no rows to user_not_found.
func (r *UserRepo) one(ctx context.Context, q string, arg any) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, q, arg))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.User{}, domain.ErrUserNotFound()
	case err != nil:
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	return r.one(ctx, qUserByEmail, email)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	if strings.TrimSpace(id) == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	id, ok := canonicalID(id)
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.one(ctx, qUserByID, id)
}

// GetByIDs resolves many users in one round trip; unknown and malformed
// ids are absent from the result.
func (r *UserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]domain.User, error) {
	found := make(map[string]domain.User, len(ids))
	parsed := make([]string, 0, len(ids))
	for _, id := range ids {
		if c, ok := canonicalID(id); ok {
			parsed = append(parsed, c)
		}
	}
	if len(parsed) == 0 {
		return found, nil
	}

	rows, err := r.db.QueryContext(ctx, qUsersByIDs, pq.Array(parsed))
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		found[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return found, nil
}

// Create relies on the users_email_key constraint for uniqueness, so two
// racing inserts of one email cannot both succeed.
func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, f := range [...]struct{ name, v string }{{"id", u.ID}, {"email", u.Email}, {"password_hash", u.PasswordHash}} {
		if f.v == "" {
			return domain.User{}, domain.ErrMissingField(f.name)
		}
	}
	if u.Role == "" {
		u.Role = domain.RoleRegular
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	row := r.db.QueryRowContext(ctx, qInsertUser, u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt)
	created, err := scanUser(row)
	if isUniqueViolation(err, "users_email_key") {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	if err != nil {
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return created, nil
}
