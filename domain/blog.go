package domain

import "time"

type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

type Post struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Body        string     `json:"body"`
	CoverImage  string     `json:"coverImage,omitempty"`
	Category    string     `json:"category,omitempty"`
	Tags        []string   `json:"tags"`
	Status      PostStatus `json:"status"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// PostInput carries the editable fields of a post.
type PostInput struct {
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Excerpt    string     `json:"excerpt"`
	Body       string     `json:"body"`
	CoverImage string     `json:"coverImage"`
	Category   string     `json:"category"`
	Tags       []string   `json:"tags"`
	Status     PostStatus `json:"status"`
}

type PostFilter struct {
	Status   PostStatus
	Category string
	Tag      string
	Limit    int
	Offset   int
}

type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type Tag struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}
