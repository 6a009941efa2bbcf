package repository

import (
	"context"
	"slices"
	"sort"
	"sync"

	"propcalc/domain"
)

// BlogRepositoryMemory is an in-memory implementation of BlogRepository.
type BlogRepositoryMemory struct {
	mu         sync.RWMutex
	posts      map[string]domain.Post
	categories map[string]domain.Category
	tags       map[string]domain.Tag
}

// NewBlogRepositoryMemory creates a new in-memory blog repository.
func NewBlogRepositoryMemory() *BlogRepositoryMemory {
	return &BlogRepositoryMemory{
		posts:      make(map[string]domain.Post),
		categories: make(map[string]domain.Category),
		tags:       make(map[string]domain.Tag),
	}
}

func clonePost(p domain.Post) domain.Post {
	p.Tags = slices.Clone(p.Tags)
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		p.PublishedAt = &t
	}
	return p
}

func (r *BlogRepositoryMemory) slugTaken(slug, exceptID string) bool {
	for id, p := range r.posts {
		if p.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}

func (r *BlogRepositoryMemory) CreatePost(_ context.Context, post domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[post.ID]; exists || r.slugTaken(post.Slug, "") {
		return ErrConflict
	}
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *BlogRepositoryMemory) UpdatePost(_ context.Context, post domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[post.ID]; !exists {
		return ErrNotFound
	}
	if r.slugTaken(post.Slug, post.ID) {
		return ErrConflict
	}
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *BlogRepositoryMemory) DeletePost(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[id]; !exists {
		return ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *BlogRepositoryMemory) GetPost(_ context.Context, id string) (domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return domain.Post{}, ErrNotFound
	}
	return clonePost(p), nil
}

func (r *BlogRepositoryMemory) GetPostBySlug(_ context.Context, slug string) (domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.posts {
		if p.Slug == slug {
			return clonePost(p), nil
		}
	}
	return domain.Post{}, ErrNotFound
}

func (r *BlogRepositoryMemory) ListPosts(_ context.Context, filter domain.PostFilter) ([]domain.Post, int, error) {
	r.mu.RLock()
	var matches []domain.Post
	for _, p := range r.posts {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Tag != "" && !slices.Contains(p.Tags, filter.Tag) {
			continue
		}
		matches = append(matches, clonePost(p))
	}
	r.mu.RUnlock()

	sortPosts(matches)
	return page(matches, filter.Limit, filter.Offset), len(matches), nil
}

func (r *BlogRepositoryMemory) CreateCategory(_ context.Context, category domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[category.Slug]; exists {
		return ErrConflict
	}
	r.categories[category.Slug] = category
	return nil
}

func (r *BlogRepositoryMemory) GetCategory(_ context.Context, slug string) (domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[slug]
	if !ok {
		return domain.Category{}, ErrNotFound
	}
	return c, nil
}

func (r *BlogRepositoryMemory) ListCategories(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (r *BlogRepositoryMemory) DeleteCategory(_ context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[slug]; !exists {
		return ErrNotFound
	}
	delete(r.categories, slug)
	for id, p := range r.posts {
		if p.Category == slug {
			p.Category = ""
			r.posts[id] = p
		}
	}
	return nil
}

func (r *BlogRepositoryMemory) UpsertTags(_ context.Context, tags []domain.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range tags {
		if _, exists := r.tags[t.Slug]; !exists {
			r.tags[t.Slug] = t
		}
	}
	return nil
}

func (r *BlogRepositoryMemory) ListTags(_ context.Context) ([]domain.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Tag, 0, len(r.tags))
	for _, t := range r.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (r *BlogRepositoryMemory) DeleteTag(_ context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tags[slug]; !exists {
		return ErrNotFound
	}
	delete(r.tags, slug)
	for id, p := range r.posts {
		if i := slices.Index(p.Tags, slug); i >= 0 {
			p.Tags = slices.Delete(slices.Clone(p.Tags), i, i+1)
			r.posts[id] = p
		}
	}
	return nil
}
