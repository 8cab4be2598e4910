package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baechuer/blog-service/internal/domain"
)

type PostRepo struct {
	db *sql.DB
}

func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{db: db}
}

const postColumns = `id, title, content, author_id, created_at, updated_at`

func scanPost(row rowScanner) (*domain.Post, error) {
	var p domain.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	const q = `
INSERT INTO posts (id, title, content, author_id, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6);
`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.Title, p.Content, p.AuthorID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

func (r *PostRepo) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, domain.ErrPostNotFound()
	}

	const q = `
SELECT ` + postColumns + `
FROM posts
WHERE id = $1
LIMIT 1;
`
	p, err := scanPost(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound()
		}
		return nil, domain.ErrDBUnavailable(err)
	}
	return p, nil
}

// Update writes title, content and updated_at. author_id is never written.
func (r *PostRepo) Update(ctx context.Context, p *domain.Post) error {
	id, ok := canonicalID(p.ID)
	if !ok {
		return domain.ErrPostNotFound()
	}

	const q = `
UPDATE posts
SET title = $2,
    content = $3,
    updated_at = $4
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, id, p.Title, p.Content, p.UpdatedAt)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrPostNotFound()
	}
	return nil
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	id, ok := canonicalID(id)
	if !ok {
		return domain.ErrPostNotFound()
	}

	const q = `DELETE FROM posts WHERE id = $1;`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrPostNotFound()
	}
	return nil
}

func (r *PostRepo) List(ctx context.Context) ([]*domain.Post, error) {
	const q = `
SELECT ` + postColumns + `
FROM posts
ORDER BY created_at ASC, id ASC;
`
	return r.query(ctx, q)
}

func (r *PostRepo) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	authorID, ok := canonicalID(authorID)
	if !ok {
		return []*domain.Post{}, nil
	}

	const q = `
SELECT ` + postColumns + `
FROM posts
WHERE author_id = $1
ORDER BY created_at ASC, id ASC;
`
	return r.query(ctx, q, authorID)
}

func (r *PostRepo) query(ctx context.Context, q string, args ...any) ([]*domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []*domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}
