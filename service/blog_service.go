package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"propcalc/domain"
	"propcalc/repository"
)

type BlogService struct {
	repo     repository.BlogRepository
	logger   *zap.Logger
	pageSize int
	now      func() time.Time
}

func NewBlogService(repo repository.BlogRepository, pageSize int, logger *zap.Logger) *BlogService {
	if pageSize <= 0 {
		pageSize = DefaultPostPageSize
	}
	return &BlogService{
		repo:     repo,
		logger:   logger,
		pageSize: pageSize,
		now:      time.Now,
	}
}

func (s *BlogService) PageSize() int { return s.pageSize }

// PostPage is one page of a post listing.
type PostPage struct {
	Posts  []domain.Post `json:"posts"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// HasMore reports whether posts remain after this page.
func (p PostPage) HasMore() bool {
	return p.Offset+len(p.Posts) < p.Total
}

// mapRepoErr translates repository sentinels to service ones.
func mapRepoErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %s", ErrConflict, what)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

func (s *BlogService) CreatePost(ctx context.Context, in domain.PostInput) (domain.Post, error) {
	now := s.now().UTC()
	post := domain.Post{
		ID:        uuid.NewString(),
		CreatedAt: now,
	}
	if err := s.apply(ctx, &post, in, now); err != nil {
		return domain.Post{}, err
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return domain.Post{}, &ValidationError{Details: map[string]string{"slug": "slug is already in use"}}
		}
		return domain.Post{}, mapRepoErr(err, "create post")
	}

	s.logger.Info("post created", zap.String("id", post.ID), zap.String("slug", post.Slug), zap.String("status", string(post.Status)))
	return post, nil
}

func (s *BlogService) UpdatePost(ctx context.Context, id string, in domain.PostInput) (domain.Post, error) {
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return domain.Post{}, mapRepoErr(err, "post "+id)
	}

	if err := s.apply(ctx, &post, in, s.now().UTC()); err != nil {
		return domain.Post{}, err
	}

	if err := s.repo.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return domain.Post{}, &ValidationError{Details: map[string]string{"slug": "slug is already in use"}}
		}
		return domain.Post{}, mapRepoErr(err, "post "+id)
	}

	s.logger.Info("post updated", zap.String("id", post.ID), zap.String("slug", post.Slug), zap.String("status", string(post.Status)))
	return post, nil
}

// apply validates in and copies it onto post. Tags are created as needed and
// PublishedAt is stamped the first time the post is published.
func (s *BlogService) apply(ctx context.Context, post *domain.Post, in domain.PostInput, now time.Time) error {
	verr := &ValidationError{}

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		verr.add("title", "title is required")
	case utf8.RuneCountInString(title) > MaxPostTitleLength:
		verr.add("title", fmt.Sprintf("title must be at most %d characters", MaxPostTitleLength))
	}

	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" && title != "" {
		verr.add("slug", "slug must contain letters or digits")
	}

	excerpt := strings.TrimSpace(in.Excerpt)
	if utf8.RuneCountInString(excerpt) > MaxPostExcerptLength {
		verr.add("excerpt", fmt.Sprintf("excerpt must be at most %d characters", MaxPostExcerptLength))
	}

	status := in.Status
	if status == "" {
		status = domain.PostDraft
	}
	if status != domain.PostDraft && status != domain.PostPublished {
		verr.add("status", "status must be 'draft' or 'published'")
	}

	category := Slugify(in.Category)
	if category != "" {
		if _, err := s.repo.GetCategory(ctx, category); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return mapRepoErr(err, "category "+category)
			}
			verr.add("category", fmt.Sprintf("category %q does not exist", category))
		}
	}

	tags := normalizeTags(in.Tags)
	if len(tags) > MaxTagsPerPost {
		verr.add("tags", fmt.Sprintf("at most %d tags are allowed", MaxTagsPerPost))
	}

	if err := verr.orNil(); err != nil {
		return err
	}

	if len(tags) > 0 {
		if err := s.repo.UpsertTags(ctx, tags); err != nil {
			return mapRepoErr(err, "upsert tags")
		}
	}

	post.Title = title
	post.Slug = slug
	post.Excerpt = excerpt
	post.Body = in.Body
	post.CoverImage = strings.TrimSpace(in.CoverImage)
	post.Category = category
	post.Tags = make([]string, len(tags))
	for i, t := range tags {
		post.Tags[i] = t.Slug
	}
	post.Status = status
	if status == domain.PostPublished && post.PublishedAt == nil {
		published := now
		post.PublishedAt = &published
	}
	post.UpdatedAt = now
	return nil
}

// normalizeTags slugs tag names and drops blanks and duplicates, keeping
// first-seen order.
func normalizeTags(names []string) []domain.Tag {
	seen := make(map[string]bool, len(names))
	out := make([]domain.Tag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		slug := Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, domain.Tag{Slug: slug, Name: name})
	}
	return out
}

func (s *BlogService) DeletePost(ctx context.Context, id string) error {
	if err := s.repo.DeletePost(ctx, id); err != nil {
		return mapRepoErr(err, "post "+id)
	}
	s.logger.Info("post deleted", zap.String("id", id))
	return nil
}

func (s *BlogService) GetPost(ctx context.Context, id string) (domain.Post, error) {
	post, err := s.repo.GetPost(ctx, id)
	return post, mapRepoErr(err, "post "+id)
}

// GetPublishedPost returns the post with slug only if it is published.
func (s *BlogService) GetPublishedPost(ctx context.Context, slug string) (domain.Post, error) {
	post, err := s.repo.GetPostBySlug(ctx, slug)
	if err != nil {
		return domain.Post{}, mapRepoErr(err, "post "+slug)
	}
	if post.Status != domain.PostPublished {
		return domain.Post{}, fmt.Errorf("%w: post %s", ErrNotFound, slug)
	}
	return post, nil
}

// ListPosts pages through posts matching filter. A zero limit uses the
// configured page size.
func (s *BlogService) ListPosts(ctx context.Context, filter domain.PostFilter) (PostPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = s.pageSize
	}
	if filter.Limit > MaxPostPageSize {
		filter.Limit = MaxPostPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	posts, total, err := s.repo.ListPosts(ctx, filter)
	if err != nil {
		return PostPage{}, mapRepoErr(err, "list posts")
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return PostPage{Posts: posts, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *BlogService) CreateCategory(ctx context.Context, in domain.Category) (domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(name)
	}

	verr := &ValidationError{}
	if name == "" {
		verr.add("name", "name is required")
	} else if slug == "" {
		verr.add("slug", "slug must contain letters or digits")
	}
	if err := verr.orNil(); err != nil {
		return domain.Category{}, err
	}

	category := domain.Category{Slug: slug, Name: name}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return domain.Category{}, mapRepoErr(err, "category "+slug)
	}
	s.logger.Info("category created", zap.String("slug", slug))
	return category, nil
}

func (s *BlogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	return categories, mapRepoErr(err, "list categories")
}

func (s *BlogService) DeleteCategory(ctx context.Context, slug string) error {
	if err := s.repo.DeleteCategory(ctx, slug); err != nil {
		return mapRepoErr(err, "category "+slug)
	}
	s.logger.Info("category deleted", zap.String("slug", slug))
	return nil
}

// CreateTags upserts tags by name and returns them normalised.
func (s *BlogService) CreateTags(ctx context.Context, names []string) ([]domain.Tag, error) {
	tags := normalizeTags(names)
	if len(tags) == 0 {
		return nil, &ValidationError{Details: map[string]string{"tags": "at least one tag name is required"}}
	}
	if err := s.repo.UpsertTags(ctx, tags); err != nil {
		return nil, mapRepoErr(err, "upsert tags")
	}
	return tags, nil
}

func (s *BlogService) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.repo.ListTags(ctx)
	return tags, mapRepoErr(err, "list tags")
}

func (s *BlogService) DeleteTag(ctx context.Context, slug string) error {
	if err := s.repo.DeleteTag(ctx, slug); err != nil {
		return mapRepoErr(err, "tag "+slug)
	}
	s.logger.Info("tag deleted", zap.String("slug", slug))
	return nil
}
