package repository

import (
	"context"
	"errors"
	"sort"

	"propcalc/domain"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

type BlogRepository interface {
	CreatePost(ctx context.Context, post domain.Post) error
	UpdatePost(ctx context.Context, post domain.Post) error
	DeletePost(ctx context.Context, id string) error
	GetPost(ctx context.Context, id string) (domain.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (domain.Post, error)
	// ListPosts returns one page of matching posts, newest first, and the
	// total number of matches.
	ListPosts(ctx context.Context, filter domain.PostFilter) ([]domain.Post, int, error)

	CreateCategory(ctx context.Context, category domain.Category) error
	GetCategory(ctx context.Context, slug string) (domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	// DeleteCategory also clears the category from its posts.
	DeleteCategory(ctx context.Context, slug string) error

	// UpsertTags creates missing tags and leaves existing ones untouched.
	UpsertTags(ctx context.Context, tags []domain.Tag) error
	ListTags(ctx context.Context) ([]domain.Tag, error)
	// DeleteTag also removes the tag from its posts.
	DeleteTag(ctx context.Context, slug string) error
}

func sortKey(p domain.Post) int64 {
	if p.PublishedAt != nil {
		return p.PublishedAt.UnixNano()
	}
	return p.CreatedAt.UnixNano()
}

func sortPosts(posts []domain.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		ki, kj := sortKey(posts[i]), sortKey(posts[j])
		if ki != kj {
			return ki > kj
		}
		return posts[i].ID < posts[j].ID
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
