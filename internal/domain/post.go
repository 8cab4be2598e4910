package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxTitleLen   = 200
	maxContentLen = 20000
)

type Post struct {
	ID        string
	Title     string
	Content   string
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPost builds a post authored by authorID. The author is fixed for the
// lifetime of the post.
func NewPost(authorID, title, content string, now time.Time) (*Post, error) {
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return nil, ErrMissingField("author")
	}
	title, content, err := normalizePostFields(title, content)
	if err != nil {
		return nil, err
	}

	return &Post{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// ApplyUpdate replaces title and content. AuthorID is never touched.
func (p *Post) ApplyUpdate(title, content string, now time.Time) error {
	title, content, err := normalizePostFields(title, content)
	if err != nil {
		return err
	}
	p.Title = title
	p.Content = content
	p.UpdatedAt = now.UTC()
	return nil
}

// IsAuthoredBy compares identities as opaque strings.
func (p *Post) IsAuthoredBy(userID string) bool {
	return userID != "" && p.AuthorID == userID
}

func normalizePostFields(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", ErrMissingField("title")
	}
	if len(title) > maxTitleLen {
		return "", "", ErrInvalidField("title", "must be <= 200 chars")
	}
	if strings.TrimSpace(content) == "" {
		return "", "", ErrMissingField("content")
	}
	if len(content) > maxContentLen {
		return "", "", ErrInvalidField("content", "must be <= 20000 chars")
	}
	return title, content, nil
}
