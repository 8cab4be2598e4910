package post

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/baechuer/blog-service/internal/domain"
)

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

type memRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Post

	listErr error
	// afterList runs once the List snapshot is taken, outside the lock.
	afterList func()

	getCalls    int
	updateCalls int
	deleteCalls int
}

func newMemRepo() *memRepo { return &memRepo{byID: map[string]*domain.Post{}} }

func (m *memRepo) Create(ctx context.Context, p *domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrPostNotFound()
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) Update(ctx context.Context, p *domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if _, ok := m.byID[p.ID]; !ok {
		return domain.ErrPostNotFound()
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	if _, ok := m.byID[id]; !ok {
		return domain.ErrPostNotFound()
	}
	delete(m.byID, id)
	return nil
}

func (m *memRepo) sorted(filter func(*domain.Post) bool) []*domain.Post {
	out := []*domain.Post{}
	for _, p := range m.byID {
		if filter(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *memRepo) List(ctx context.Context) ([]*domain.Post, error) {
	m.mu.Lock()
	if m.listErr != nil {
		m.mu.Unlock()
		return nil, m.listErr
	}
	out := m.sorted(func(*domain.Post) bool { return true })
	hook := m.afterList
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}

func (m *memRepo) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sorted(func(p *domain.Post) bool { return p.AuthorID == authorID }), nil
}

type fakeAuthors struct {
	users map[string]domain.User
	err   error
	calls int
}

func (f *fakeAuthors) ResolveAuthors(ctx context.Context, ids []string) (map[string]domain.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]domain.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// jsonCache round-trips values through JSON like the redis client does.
type jsonCache struct {
	store  map[string][]byte
	getErr error
	sets   int
	dels   int
}

func newJSONCache() *jsonCache { return &jsonCache{store: map[string][]byte{}} }

func (c *jsonCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *jsonCache) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.sets++
	c.store[key] = b
	return nil
}

func (c *jsonCache) Incr(ctx context.Context, key string) (int64, error) {
	var n int64
	if b, ok := c.store[key]; ok {
		if err := json.Unmarshal(b, &n); err != nil {
			return 0, err
		}
	}
	n++
	b, _ := json.Marshal(n)
	c.store[key] = b
	return n, nil
}

func (c *jsonCache) Delete(ctx context.Context, keys ...string) error {
	c.dels++
	for _, k := range keys {
		delete(c.store, k)
	}
	return nil
}

type published struct {
	rk   string
	id   string
	body []byte
}

type recordingPublisher struct {
	err  error
	msgs []published
}

func (p *recordingPublisher) PublishEvent(ctx context.Context, rk, messageID string, body []byte) error {
	p.msgs = append(p.msgs, published{rk: rk, id: messageID, body: body})
	return p.err
}

var errBoom = errors.New("boom")

var (
	alice = domain.User{ID: "u-alice", Name: "alice", Email: "alice@x.io", Role: domain.RoleAdmin}
	bob   = domain.User{ID: "u-bob", Name: "bob", Email: "bob@x.io", Role: domain.RoleRegular}
	carol = domain.User{ID: "u-carol", Name: "carol", Email: "carol@x.io", Role: domain.RoleRegular}
)

type fixture struct {
	svc     *Service
	repo    *memRepo
	authors *fakeAuthors
	cache   *jsonCache
	pub     *recordingPublisher
	clock   fakeClock
}

func newFixture() *fixture {
	repo := newMemRepo()
	authors := &fakeAuthors{users: map[string]domain.User{
		alice.ID: alice, bob.ID: bob, carol.ID: carol,
	}}
	cache := newJSONCache()
	pub := &recordingPublisher{}
	clock := fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	return &fixture{
		svc:     New(repo, authors, pub, cache, clock, time.Minute),
		repo:    repo,
		authors: authors,
		cache:   cache,
		pub:     pub,
		clock:   clock,
	}
}

func (f *fixture) seed(author domain.User, title string, at time.Time) *domain.Post {
	p, err := domain.NewPost(author.ID, title, "content of "+title, at)
	if err != nil {
		panic(err)
	}
	_ = f.repo.Create(context.Background(), p)
	return p
}
