package content

import (
	"context"
	"strings"
	"sync"
)

// MemoryCatalog is a Catalog kept in process memory. It backs development mode,
// tests, and deployments without a database path.
type MemoryCatalog struct {
	mu       sync.RWMutex
	projects []Project
	articles []Article
}

// NewMemoryCatalog copies the given records into a new catalog.
func NewMemoryCatalog(projects []Project, articles []Article) *MemoryCatalog {
	c := &MemoryCatalog{
		projects: append([]Project(nil), projects...),
		articles: append([]Article(nil), articles...),
	}
	sortProjects(c.projects)
	sortArticles(c.articles)
	return c
}

// ListProjects implements Catalog.
func (c *MemoryCatalog) ListProjects(ctx context.Context, q Query) (Page[Project], error) {
	if err := ctx.Err(); err != nil {
		return Page[Project]{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Paginate(c.projects, q), nil
}

// FeaturedProjects implements Catalog.
func (c *MemoryCatalog) FeaturedProjects(ctx context.Context, limit int) ([]Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Project
	for _, p := range c.projects {
		if !p.Featured {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// ProjectBySlug implements Catalog.
func (c *MemoryCatalog) ProjectBySlug(ctx context.Context, slug string) (Project, error) {
	return c.findProject(ctx, func(p Project) bool { return p.Slug == strings.ToLower(strings.TrimSpace(slug)) })
}

// ProjectByID implements Catalog.
func (c *MemoryCatalog) ProjectByID(ctx context.Context, id string) (Project, error) {
	return c.findProject(ctx, func(p Project) bool { return p.ID == id })
}

func (c *MemoryCatalog) findProject(ctx context.Context, match func(Project) bool) (Project, error) {
	if err := ctx.Err(); err != nil {
		return Project{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.projects {
		if match(p) {
			return p, nil
		}
	}
	return Project{}, ErrNotFound
}

// DeleteProject implements Catalog.
func (c *MemoryCatalog) DeleteProject(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, p := range c.projects {
		if p.ID == id {
			c.projects = append(c.projects[:i], c.projects[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ListArticles implements Catalog.
func (c *MemoryCatalog) ListArticles(ctx context.Context, q Query) (Page[Article], error) {
	if err := ctx.Err(); err != nil {
		return Page[Article]{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Paginate(c.articles, q), nil
}

// ArticleBySlug implements Catalog.
func (c *MemoryCatalog) ArticleBySlug(ctx context.Context, slug string) (Article, error) {
	return c.findArticle(ctx, func(a Article) bool { return a.Slug == strings.ToLower(strings.TrimSpace(slug)) })
}

// ArticleByID implements Catalog.
func (c *MemoryCatalog) ArticleByID(ctx context.Context, id string) (Article, error) {
	return c.findArticle(ctx, func(a Article) bool { return a.ID == id })
}

func (c *MemoryCatalog) findArticle(ctx context.Context, match func(Article) bool) (Article, error) {
	if err := ctx.Err(); err != nil {
		return Article{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.articles {
		if match(a) {
			return a, nil
		}
	}
	return Article{}, ErrNotFound
}

// DeleteArticle implements Catalog.
func (c *MemoryCatalog) DeleteArticle(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, a := range c.articles {
		if a.ID == id {
			c.articles = append(c.articles[:i], c.articles[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
