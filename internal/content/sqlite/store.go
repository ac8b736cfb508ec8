// Package sqlite persists the editable catalog (projects and articles) in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"finitefield.org/konstruksi-web/internal/content"
	"finitefield.org/konstruksi-web/internal/content/sqlite/migrations"
)

// Store is a content.Catalog backed by a SQLite file.
type Store struct {
	db *sql.DB
}

var _ content.Catalog = (*Store)(nil)

// Open opens the database at path and applies pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	s := &Store{db: db}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

// Migrate applies the embedded schema migrations. Already applied files are skipped.
func (s *Store) Migrate(ctx context.Context) error {
	return applyMigrations(ctx, s.db, migrations.FS, ".")
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Seed upserts every project and article of seed.
func (s *Store) Seed(ctx context.Context, seed content.Seed) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range seed.Projects {
		photos, err := json.Marshal(nonNil(p.Photos))
		if err != nil {
			return fmt.Errorf("encode photos %s: %w", p.Slug, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO projects (
    id, slug, title_id, title_en, summary_id, summary_en, category_id, category_en,
    location, client, year, cover, photos_json, featured, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    slug = excluded.slug,
    title_id = excluded.title_id,
    title_en = excluded.title_en,
    summary_id = excluded.summary_id,
    summary_en = excluded.summary_en,
    category_id = excluded.category_id,
    category_en = excluded.category_en,
    location = excluded.location,
    client = excluded.client,
    year = excluded.year,
    cover = excluded.cover,
    photos_json = excluded.photos_json,
    featured = excluded.featured,
    created_at = excluded.created_at`,
			p.ID, p.Slug, p.Title.ID, p.Title.EN, p.Summary.ID, p.Summary.EN, p.Category.ID, p.Category.EN,
			p.Location, p.Client, p.Year, p.Cover, string(photos), boolToInt(p.Featured), timeToMillis(p.CreatedAt),
		); err != nil {
			return fmt.Errorf("seed project %s: %w", p.Slug, err)
		}
	}

	for _, a := range seed.Articles {
		if _, err := tx.ExecContext(ctx, `INSERT INTO articles (
    id, slug, title_id, title_en, summary_id, summary_en, body_id, body_en, cover, author, published_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    slug = excluded.slug,
    title_id = excluded.title_id,
    title_en = excluded.title_en,
    summary_id = excluded.summary_id,
    summary_en = excluded.summary_en,
    body_id = excluded.body_id,
    body_en = excluded.body_en,
    cover = excluded.cover,
    author = excluded.author,
    published_at = excluded.published_at`,
			a.ID, a.Slug, a.Title.ID, a.Title.EN, a.Summary.ID, a.Summary.EN, a.Body.ID, a.Body.EN,
			a.Cover, a.Author, timeToMillis(a.PublishedAt),
		); err != nil {
			return fmt.Errorf("seed article %s: %w", a.Slug, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

const projectColumns = `id, slug, title_id, title_en, summary_id, summary_en, category_id, category_en,
    location, client, year, cover, photos_json, featured, created_at`

const articleColumns = `id, slug, title_id, title_en, summary_id, summary_en, body_id, body_en,
    cover, author, published_at`

// ListProjects implements content.Catalog.
func (s *Store) ListProjects(ctx context.Context, q content.Query) (content.Page[content.Project], error) {
	q = q.Normalize()
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&total); err != nil {
		return content.Page[content.Project]{}, fmt.Errorf("count projects: %w", err)
	}
	items, err := s.queryProjects(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY year DESC, slug LIMIT ? OFFSET ?`,
		q.PageSize, q.Offset(),
	)
	if err != nil {
		return content.Page[content.Project]{}, err
	}
	return content.Page[content.Project]{Items: items, Page: q.Page, PageSize: q.PageSize, Total: total}, nil
}

// FeaturedProjects implements content.Catalog.
func (s *Store) FeaturedProjects(ctx context.Context, limit int) ([]content.Project, error) {
	if limit <= 0 {
		limit = -1
	}
	return s.queryProjects(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE featured = 1 ORDER BY year DESC, slug LIMIT ?`,
		limit,
	)
}

// ProjectBySlug implements content.Catalog.
func (s *Store) ProjectBySlug(ctx context.Context, slug string) (content.Project, error) {
	return s.oneProject(ctx, `SELECT `+projectColumns+` FROM projects WHERE slug = ?`, strings.ToLower(strings.TrimSpace(slug)))
}

// ProjectByID implements content.Catalog.
func (s *Store) ProjectByID(ctx context.Context, id string) (content.Project, error) {
	return s.oneProject(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
}

// DeleteProject implements content.Catalog.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.deleteRow(ctx, "projects", id)
}

// ListArticles implements content.Catalog.
func (s *Store) ListArticles(ctx context.Context, q content.Query) (content.Page[content.Article], error) {
	q = q.Normalize()
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&total); err != nil {
		return content.Page[content.Article]{}, fmt.Errorf("count articles: %w", err)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles ORDER BY published_at DESC, slug LIMIT ? OFFSET ?`,
		q.PageSize, q.Offset(),
	)
	if err != nil {
		return content.Page[content.Article]{}, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var items []content.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return content.Page[content.Article]{}, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return content.Page[content.Article]{}, fmt.Errorf("list articles: %w", err)
	}
	return content.Page[content.Article]{Items: items, Page: q.Page, PageSize: q.PageSize, Total: total}, nil
}

// ArticleBySlug implements content.Catalog.
func (s *Store) ArticleBySlug(ctx context.Context, slug string) (content.Article, error) {
	return s.oneArticle(ctx, `SELECT `+articleColumns+` FROM articles WHERE slug = ?`, strings.ToLower(strings.TrimSpace(slug)))
}

// ArticleByID implements content.Catalog.
func (s *Store) ArticleByID(ctx context.Context, id string) (content.Article, error) {
	return s.oneArticle(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
}

// DeleteArticle implements content.Catalog.
func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	return s.deleteRow(ctx, "articles", id)
}

func (s *Store) deleteRow(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if n == 0 {
		return content.ErrNotFound
	}
	return nil
}

func (s *Store) queryProjects(ctx context.Context, query string, args ...any) ([]content.Project, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var out []content.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	return out, nil
}

func (s *Store) oneProject(ctx context.Context, query string, arg string) (content.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return content.Project{}, content.ErrNotFound
	}
	return p, err
}

func (s *Store) oneArticle(ctx context.Context, query string, arg string) (content.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return content.Article{}, content.ErrNotFound
	}
	return a, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (content.Project, error) {
	var (
		p         content.Project
		photos    string
		featured  int64
		createdAt int64
	)
	if err := row.Scan(
		&p.ID, &p.Slug,
		&p.Title.ID, &p.Title.EN,
		&p.Summary.ID, &p.Summary.EN,
		&p.Category.ID, &p.Category.EN,
		&p.Location, &p.Client, &p.Year, &p.Cover,
		&photos, &featured, &createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return content.Project{}, err
		}
		return content.Project{}, fmt.Errorf("scan project: %w", err)
	}
	if photos != "" {
		if err := json.Unmarshal([]byte(photos), &p.Photos); err != nil {
			return content.Project{}, fmt.Errorf("decode photos %s: %w", p.Slug, err)
		}
	}
	p.Featured = featured != 0
	p.CreatedAt = millisToTime(createdAt)
	return p, nil
}

func scanArticle(row scanner) (content.Article, error) {
	var (
		a           content.Article
		publishedAt int64
	)
	if err := row.Scan(
		&a.ID, &a.Slug,
		&a.Title.ID, &a.Title.EN,
		&a.Summary.ID, &a.Summary.EN,
		&a.Body.ID, &a.Body.EN,
		&a.Cover, &a.Author, &publishedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return content.Article{}, err
		}
		return content.Article{}, fmt.Errorf("scan article: %w", err)
	}
	a.PublishedAt = millisToTime(publishedAt)
	return a, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func timeToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixMilli()
}

func millisToTime(v int64) time.Time {
	if v <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(v).UTC()
}
