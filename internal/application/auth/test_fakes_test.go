package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/baechuer/blog-service/internal/domain"
	"github.com/baechuer/blog-service/internal/infrastructure/memory"
)

// fakeUserRepo is the in-memory store plus injectable failures and a log
// of successful creates.
type fakeUserRepo struct {
	*memory.UserRepo

	getByEmailErr error
	created       []domain.User
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	return f.UserRepo.GetByEmail(ctx, email)
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	out, err := f.UserRepo.Create(ctx, u)
	if err == nil {
		f.created = append(f.created, out)
	}
	return out, err
}

// fakeHasher stores "hash:<pw>" unless hashFn overrides it.
type fakeHasher struct {
	hashFn       func(pw string) (string, error)
	hashCalls    int
	compareCalls int
}

func (h *fakeHasher) Hash(pw string) (string, error) {
	h.hashCalls++
	if h.hashFn != nil {
		return h.hashFn(pw)
	}
	return "hash:" + pw, nil
}

func (h *fakeHasher) Compare(hash, pw string) error {
	h.compareCalls++
	switch {
	case hash == "hash:"+pw:
		return nil
	case hash == "corrupt":
		return domain.ErrHashFailed(errors.New("malformed hash"))
	default:
		return errors.New("mismatch")
	}
}

type fakeSigner struct {
	signFn     func(c TokenClaims, ttl time.Duration) (string, error)
	lastClaims TokenClaims
}

func (s *fakeSigner) SignAccessToken(c TokenClaims, ttl time.Duration) (string, error) {
	s.lastClaims = c
	if s.signFn != nil {
		return s.signFn(c, ttl)
	}
	return fmt.Sprintf("jwt(%s,%s)", c.UserID, c.Role), nil
}

func (s *fakeSigner) VerifyAccessToken(string) (TokenClaims, error) {
	return TokenClaims{}, domain.ErrTokenInvalid()
}

func newSvcForTest(t *testing.T) (*Service, *fakeUserRepo, *fakeHasher, *fakeSigner) {
	t.Helper()
	users := &fakeUserRepo{UserRepo: memory.NewUserRepo()}
	hasher := &fakeHasher{}
	signer := &fakeSigner{}
	return NewService(users, hasher, signer, Config{AccessTTL: 24 * time.Hour}), users, hasher, signer
}

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}
