package post

import (
	"context"
	"time"

	"github.com/baechuer/blog-service/internal/domain"
)

// Author is the public projection of a post's author.
// Name and Email are empty when the user could not be resolved.
type Author struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// PostView is a post with its author resolved. It is also the cached form.
type PostView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func viewOf(p *domain.Post, u *domain.User) PostView {
	a := Author{ID: p.AuthorID}
	if u != nil {
		a.Name = u.Name
		a.Email = u.Email
	}
	return PostView{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    a,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ViewOf projects a post without resolving its author.
func ViewOf(p *domain.Post) PostView { return viewOf(p, nil) }

func (s *Service) withAuthors(ctx context.Context, posts []*domain.Post) ([]PostView, error) {
	out := make([]PostView, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	seen := make(map[string]struct{}, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; ok {
			continue
		}
		seen[p.AuthorID] = struct{}{}
		ids = append(ids, p.AuthorID)
	}

	users, err := s.authors.ResolveAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		if u, ok := users[p.AuthorID]; ok {
			out = append(out, viewOf(p, &u))
			continue
		}
		out = append(out, viewOf(p, nil))
	}
	return out, nil
}
