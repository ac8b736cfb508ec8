// Package content holds the bilingual view data of the site: the company profile,
// services, price tables, organisation members, projects and articles.
package content

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"finitefield.org/konstruksi-web/internal/i18n"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("content: not found")

// Text is a string available in both site languages.
type Text struct {
	ID string `yaml:"id" json:"id"`
	EN string `yaml:"en" json:"en"`
}

// In returns the text for l, falling back to the Indonesian text.
func (t Text) In(l i18n.Locale) string {
	if l == i18n.English && strings.TrimSpace(t.EN) != "" {
		return t.EN
	}
	return t.ID
}

// Link is a labelled external URL.
type Link struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

// Company is shared by every page; the footer reads Address.
type Company struct {
	Name    string `yaml:"name" json:"name"`
	Address string `yaml:"address" json:"address"`
	Phone   string `yaml:"phone" json:"phone"`
	Email   string `yaml:"email" json:"email"`
	Founded int    `yaml:"founded" json:"founded"`
	Logo    string `yaml:"logo" json:"logo"`
	Profile Text   `yaml:"profile" json:"profile"`
	Vision  Text   `yaml:"vision" json:"vision"`
	Mission []Text `yaml:"mission" json:"mission"`
	Socials []Link `yaml:"socials" json:"socials"`
}

// Slide is one hero carousel entry.
type Slide struct {
	Image   string `yaml:"image" json:"image"`
	Title   Text   `yaml:"title" json:"title"`
	Caption Text   `yaml:"caption" json:"caption"`
	Href    string `yaml:"href" json:"href"`
}

// Stat is one figure in the stats band.
type Stat struct {
	LabelKey string `yaml:"label_key" json:"labelKey"`
	Value    int64  `yaml:"value" json:"value"`
	Suffix   string `yaml:"suffix" json:"suffix"`
}

// Service is an offered line of work.
type Service struct {
	Slug    string `yaml:"slug" json:"slug"`
	Icon    string `yaml:"icon" json:"icon"`
	Title   Text   `yaml:"title" json:"title"`
	Summary Text   `yaml:"summary" json:"summary"`
}

// PriceRow is one priced work item.
type PriceRow struct {
	Item  Text  `yaml:"item" json:"item"`
	Unit  Text  `yaml:"unit" json:"unit"`
	Price int64 `yaml:"price" json:"price"`
}

// PriceTable groups price rows under a heading.
type PriceTable struct {
	Title    Text       `yaml:"title" json:"title"`
	Currency string     `yaml:"currency" json:"currency"`
	Rows     []PriceRow `yaml:"rows" json:"rows"`
}

// Member is one person in the organisation chart. An empty ParentID marks a root.
type Member struct {
	ID       string `yaml:"id" json:"id"`
	ParentID string `yaml:"parent_id" json:"parentId,omitempty"`
	Name     string `yaml:"name" json:"name"`
	Role     Text   `yaml:"role" json:"role"`
	Image    string `yaml:"image" json:"image,omitempty"`
}

// Project is a completed or ongoing construction project.
type Project struct {
	ID        string    `yaml:"id" json:"id"`
	Slug      string    `yaml:"slug" json:"slug"`
	Title     Text      `yaml:"title" json:"title"`
	Summary   Text      `yaml:"summary" json:"summary"`
	Category  Text      `yaml:"category" json:"category"`
	Location  string    `yaml:"location" json:"location"`
	Client    string    `yaml:"client" json:"client"`
	Year      int       `yaml:"year" json:"year"`
	Cover     string    `yaml:"cover" json:"cover"`
	Photos    []string  `yaml:"photos" json:"photos"`
	Featured  bool      `yaml:"featured" json:"featured"`
	CreatedAt time.Time `yaml:"created_at" json:"createdAt"`
}

// Article is a news or insight post. Body holds markdown per language.
type Article struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       Text      `json:"title"`
	Summary     Text      `json:"summary"`
	Body        Text      `json:"body"`
	Cover       string    `json:"cover"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Profile is the static part of the site content.
type Profile struct {
	Company  Company      `yaml:"company"`
	Slides   []Slide      `yaml:"slides"`
	Stats    []Stat       `yaml:"stats"`
	Services []Service    `yaml:"services"`
	Prices   []PriceTable `yaml:"prices"`
	Members  []Member     `yaml:"members"`
}

// Query selects one page of a listing.
type Query struct {
	Page     int
	PageSize int
}

// DefaultPageSize is used when a query does not set PageSize.
const DefaultPageSize = 9

// Normalize clamps page and size to sane values.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}
	// Offset must not overflow.
	if maxPage := math.MaxInt / q.PageSize; q.Page > maxPage {
		q.Page = maxPage
	}
	return q
}

// Offset returns the index of the first item on the page.
func (q Query) Offset() int {
	q = q.Normalize()
	return (q.Page - 1) * q.PageSize
}

// Page is one slice of a listing plus the numbers needed for pagination links.
type Page[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// TotalPages returns the number of pages, zero for an empty listing.
func (p Page[T]) TotalPages() int {
	if p.Total <= 0 || p.PageSize <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Page > 1 && p.TotalPages() > 0 }

// PrevPage is the page before p, or the last page when p is past the end.
func (p Page[T]) PrevPage() int { return min(p.Page-1, p.TotalPages()) }

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages() }

// Paginate slices items for q.
func Paginate[T any](items []T, q Query) Page[T] {
	q = q.Normalize()
	start := q.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + q.PageSize
	if end > len(items) {
		end = len(items)
	}
	return Page[T]{
		Items:    append([]T(nil), items[start:end]...),
		Page:     q.Page,
		PageSize: q.PageSize,
		Total:    len(items),
	}
}

// Catalog is the editable content: projects and articles.
type Catalog interface {
	ListProjects(ctx context.Context, q Query) (Page[Project], error)
	FeaturedProjects(ctx context.Context, limit int) ([]Project, error)
	ProjectBySlug(ctx context.Context, slug string) (Project, error)
	ProjectByID(ctx context.Context, id string) (Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListArticles(ctx context.Context, q Query) (Page[Article], error)
	ArticleBySlug(ctx context.Context, slug string) (Article, error)
	ArticleByID(ctx context.Context, id string) (Article, error)
	DeleteArticle(ctx context.Context, id string) error
}
