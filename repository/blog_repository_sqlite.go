package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"propcalc/domain"
)

// BlogRepositorySQLite stores the blog in a single SQLite file. Writes go
// through one connection.
type BlogRepositorySQLite struct {
	db *sql.DB
}

func OpenBlogRepositorySQLite(dbPath string) (*BlogRepositorySQLite, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening blog db: %w", err)
	}
	db.SetMaxOpenConns(1)

	r := &BlogRepositorySQLite{db: db}
	if err := r.init(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *BlogRepositorySQLite) init() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS categories (
			slug TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tags (
			slug TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS posts (
			id           TEXT PRIMARY KEY,
			slug         TEXT NOT NULL UNIQUE,
			title        TEXT NOT NULL,
			excerpt      TEXT NOT NULL DEFAULT '',
			body         TEXT NOT NULL DEFAULT '',
			cover_image  TEXT NOT NULL DEFAULT '',
			category     TEXT REFERENCES categories(slug) ON DELETE SET NULL,
			status       TEXT NOT NULL,
			published_at INTEGER,
			created_at   INTEGER NOT NULL,
			updated_at   INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_posts_status ON posts(status);
		CREATE INDEX IF NOT EXISTS idx_posts_sort ON posts(COALESCE(published_at, created_at) DESC);

		CREATE TABLE IF NOT EXISTS post_tags (
			post_id  TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			tag_slug TEXT NOT NULL REFERENCES tags(slug) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			PRIMARY KEY (post_id, tag_slug)
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (r *BlogRepositorySQLite) Close() error {
	return r.db.Close()
}

func isConstraint(err error, codes ...int) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	for _, c := range codes {
		if se.Code() == c {
			return true
		}
	}
	return false
}

func isUniqueViolation(err error) bool {
	return isConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func (r *BlogRepositorySQLite) CreatePost(ctx context.Context, post domain.Post) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO posts (id, slug, title, excerpt, body, cover_image, category, status, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.Slug, post.Title, post.Excerpt, post.Body, post.CoverImage,
		nullString(post.Category), string(post.Status), nullTime(post.PublishedAt),
		post.CreatedAt.UnixNano(), post.UpdatedAt.UnixNano())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("inserting post %s: %w", post.ID, err)
	}

	if err := replacePostTags(ctx, tx, post.ID, post.Tags); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *BlogRepositorySQLite) UpdatePost(ctx context.Context, post domain.Post) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE posts SET slug = ?, title = ?, excerpt = ?, body = ?, cover_image = ?,
			category = ?, status = ?, published_at = ?, updated_at = ?
		WHERE id = ?`,
		post.Slug, post.Title, post.Excerpt, post.Body, post.CoverImage,
		nullString(post.Category), string(post.Status), nullTime(post.PublishedAt),
		post.UpdatedAt.UnixNano(), post.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("updating post %s: %w", post.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if err := replacePostTags(ctx, tx, post.ID, post.Tags); err != nil {
		return err
	}
	return tx.Commit()
}

func replacePostTags(ctx context.Context, tx *sql.Tx, postID string, tags []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = ?`, postID); err != nil {
		return fmt.Errorf("clearing tags of post %s: %w", postID, err)
	}
	for i, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_tags (post_id, tag_slug, position) VALUES (?, ?, ?)`,
			postID, tag, i); err != nil {
			return fmt.Errorf("tagging post %s with %s: %w", postID, tag, err)
		}
	}
	return nil
}

func (r *BlogRepositorySQLite) DeletePost(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting post %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const postColumns = `id, slug, title, excerpt, body, cover_image, category, status, published_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(s rowScanner) (domain.Post, error) {
	var (
		p         domain.Post
		category  sql.NullString
		status    string
		published sql.NullInt64
		created   int64
		updated   int64
	)
	err := s.Scan(&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Body, &p.CoverImage,
		&category, &status, &published, &created, &updated)
	if err != nil {
		return domain.Post{}, err
	}

	p.Category = category.String
	p.Status = domain.PostStatus(status)
	if published.Valid {
		t := time.Unix(0, published.Int64).UTC()
		p.PublishedAt = &t
	}
	p.CreatedAt = time.Unix(0, created).UTC()
	p.UpdatedAt = time.Unix(0, updated).UTC()
	p.Tags = []string{}
	return p, nil
}

func (r *BlogRepositorySQLite) getPostWhere(ctx context.Context, column, value string) (domain.Post, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE `+column+` = ?`, value)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Post{}, ErrNotFound
	}
	if err != nil {
		return domain.Post{}, fmt.Errorf("reading post: %w", err)
	}

	posts := []domain.Post{p}
	if err := r.loadTags(ctx, posts); err != nil {
		return domain.Post{}, err
	}
	return posts[0], nil
}

func (r *BlogRepositorySQLite) GetPost(ctx context.Context, id string) (domain.Post, error) {
	return r.getPostWhere(ctx, "id", id)
}

func (r *BlogRepositorySQLite) GetPostBySlug(ctx context.Context, slug string) (domain.Post, error) {
	return r.getPostWhere(ctx, "slug", slug)
}

func (r *BlogRepositorySQLite) ListPosts(ctx context.Context, filter domain.PostFilter) ([]domain.Post, int, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = posts.id AND pt.tag_slug = ?)")
		args = append(args, filter.Tag)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting posts: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + postColumns + ` FROM posts` + clause +
		` ORDER BY COALESCE(published_at, created_at) DESC, id ASC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	if err := r.loadTags(ctx, posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *BlogRepositorySQLite) loadTags(ctx context.Context, posts []domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	index := make(map[string]int, len(posts))
	placeholders := make([]string, len(posts))
	args := make([]any, len(posts))
	for i, p := range posts {
		index[p.ID] = i
		placeholders[i] = "?"
		args[i] = p.ID
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT post_id, tag_slug FROM post_tags WHERE post_id IN (`+strings.Join(placeholders, ",")+`) ORDER BY post_id, position`,
		args...)
	if err != nil {
		return fmt.Errorf("loading tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID, tag string
		if err := rows.Scan(&postID, &tag); err != nil {
			return fmt.Errorf("scanning tag: %w", err)
		}
		i := index[postID]
		posts[i].Tags = append(posts[i].Tags, tag)
	}
	return rows.Err()
}

func (r *BlogRepositorySQLite) CreateCategory(ctx context.Context, category domain.Category) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO categories (slug, name) VALUES (?, ?)`, category.Slug, category.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("inserting category %s: %w", category.Slug, err)
	}
	return nil
}

func (r *BlogRepositorySQLite) GetCategory(ctx context.Context, slug string) (domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRowContext(ctx, `SELECT slug, name FROM categories WHERE slug = ?`, slug).Scan(&c.Slug, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, ErrNotFound
	}
	if err != nil {
		return domain.Category{}, fmt.Errorf("reading category %s: %w", slug, err)
	}
	return c, nil
}

func (r *BlogRepositorySQLite) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT slug, name FROM categories ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	out := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.Slug, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *BlogRepositorySQLite) DeleteCategory(ctx context.Context, slug string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("deleting category %s: %w", slug, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BlogRepositorySQLite) UpsertTags(ctx context.Context, tags []domain.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tags (slug, name) VALUES (?, ?) ON CONFLICT(slug) DO NOTHING`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range tags {
		if _, err := stmt.ExecContext(ctx, t.Slug, t.Name); err != nil {
			return fmt.Errorf("upserting tag %s: %w", t.Slug, err)
		}
	}
	return tx.Commit()
}

func (r *BlogRepositorySQLite) ListTags(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT slug, name FROM tags ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	out := []domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.Slug, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *BlogRepositorySQLite) DeleteTag(ctx context.Context, slug string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("deleting tag %s: %w", slug, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
