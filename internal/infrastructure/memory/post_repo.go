package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/baechuer/blog-service/internal/domain"
)

// PostRepo keeps copies: callers never share a *domain.Post with the store.
type PostRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.Post
}

func NewPostRepo() *PostRepo {
	return &PostRepo{byID: make(map[string]domain.Post)}
}

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return domain.ErrInternal(nil)
	}
	r.byID[p.ID] = *p
	return nil
}

func (r *PostRepo) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPostNotFound()
	}
	return &p, nil
}

func (r *PostRepo) Update(ctx context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[p.ID]
	if !ok {
		return domain.ErrPostNotFound()
	}
	cur.Title = p.Title
	cur.Content = p.Content
	cur.UpdatedAt = p.UpdatedAt
	r.byID[p.ID] = cur
	return nil
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrPostNotFound()
	}
	delete(r.byID, id)
	return nil
}

func (r *PostRepo) List(ctx context.Context) ([]*domain.Post, error) {
	return r.collect(func(domain.Post) bool { return true }), nil
}

func (r *PostRepo) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	return r.collect(func(p domain.Post) bool { return p.AuthorID == authorID }), nil
}

func (r *PostRepo) collect(keep func(domain.Post) bool) []*domain.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Post, 0, len(r.byID))
	for _, p := range r.byID {
		if keep(p) {
			cp := p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
