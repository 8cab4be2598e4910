package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/baechuer/blog-service/internal/domain"
)

// UserRepo is the in-process credential store used when no database is
// configured. Emails are compared trimmed and lowercased, as the postgres
// repo stores them.
type UserRepo struct {
	mu     sync.RWMutex
	users  map[string]domain.User // id -> user
	emails map[string]string      // emailKey -> id
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: map[string]domain.User{}, emails: map[string]string{}}
}

func emailKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (r *UserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	id, ok := r.emails[emailKey(email)]
	u := r.users[id]
	r.mu.RUnlock()

	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	u, ok := r.users[id]
	r.mu.RUnlock()

	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) GetByIDs(_ context.Context, ids []string) (map[string]domain.User, error) {
	found := make(map[string]domain.User, len(ids))

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			found[id] = u
		}
	}
	return found, nil
}

// Create holds the write lock across the uniqueness check and the insert.
func (r *UserRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	if u.ID == "" {
		return domain.User{}, domain.ErrInternal(nil)
	}
	key := emailKey(u.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.emails[key]; taken {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	if _, taken := r.users[u.ID]; taken {
		return domain.User{}, domain.ErrInternal(nil)
	}
	r.users[u.ID] = u
	r.emails[key] = u.ID
	return u, nil
}
