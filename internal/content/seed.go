package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"finitefield.org/konstruksi-web/internal/i18n"
)

//go:embed seed/site.yaml seed/articles/*.md
var seedFS embed.FS

// Seed is everything needed to stand up the site without a database.
type Seed struct {
	Profile  Profile
	Projects []Project
	Articles []Article
}

type siteFile struct {
	Profile  `yaml:",inline"`
	Projects []Project `yaml:"projects"`
}

type articleFrontMatter struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Summary     string `yaml:"summary"`
	Author      string `yaml:"author"`
	Cover       string `yaml:"cover"`
	PublishedAt string `yaml:"published_at"`
}

// LoadSeed reads the seed data compiled into the binary.
func LoadSeed() (Seed, error) {
	return LoadSeedFS(seedFS, "seed")
}

// LoadSeedFS reads site.yaml and articles/<slug>.<locale>.md below root.
func LoadSeedFS(fsys fs.FS, root string) (Seed, error) {
	raw, err := fs.ReadFile(fsys, path.Join(root, "site.yaml"))
	if err != nil {
		return Seed{}, fmt.Errorf("content: read site seed: %w", err)
	}
	var site siteFile
	if err := yaml.Unmarshal(raw, &site); err != nil {
		return Seed{}, fmt.Errorf("content: parse site seed: %w", err)
	}
	for i := range site.Projects {
		if site.Projects[i].ID == "" {
			site.Projects[i].ID = ulid.Make().String()
		}
		if site.Projects[i].Slug == "" {
			return Seed{}, fmt.Errorf("content: project %d has no slug", i)
		}
	}
	articles, err := loadArticles(fsys, path.Join(root, "articles"))
	if err != nil {
		return Seed{}, err
	}
	return Seed{Profile: site.Profile, Projects: site.Projects, Articles: articles}, nil
}

func loadArticles(fsys fs.FS, dir string) ([]Article, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("content: read articles: %w", err)
	}
	bySlug := map[string]*Article{}
	var order []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		base := strings.TrimSuffix(name, ".md")
		dot := strings.LastIndexByte(base, '.')
		if dot <= 0 {
			return nil, fmt.Errorf("content: article %s: expected <slug>.<locale>.md", name)
		}
		slug := sanitizeSlug(base[:dot])
		lang, ok := i18n.ParseLocale(base[dot+1:])
		if slug == "" || !ok {
			return nil, fmt.Errorf("content: article %s: bad slug or locale", name)
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("content: read article %s: %w", name, err)
		}
		fm, body := splitFrontMatter(string(data))
		front := articleFrontMatter{}
		if strings.TrimSpace(fm) != "" {
			if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
				return nil, fmt.Errorf("content: parse front matter %s: %w", name, err)
			}
		}
		a, ok := bySlug[slug]
		if !ok {
			a = &Article{Slug: slug}
			bySlug[slug] = a
			order = append(order, slug)
		}
		a.ID = firstNonEmpty(a.ID, strings.TrimSpace(front.ID))
		a.Author = firstNonEmpty(a.Author, strings.TrimSpace(front.Author))
		a.Cover = firstNonEmpty(a.Cover, strings.TrimSpace(front.Cover))
		if a.PublishedAt.IsZero() {
			a.PublishedAt = parseContentDate(front.PublishedAt)
		}
		title := firstNonEmpty(strings.TrimSpace(front.Title), prettifySlug(slug))
		setText(&a.Title, lang, title)
		setText(&a.Summary, lang, strings.TrimSpace(front.Summary))
		setText(&a.Body, lang, body)
	}
	out := make([]Article, 0, len(order))
	for _, slug := range order {
		a := bySlug[slug]
		if a.ID == "" {
			a.ID = ulid.Make().String()
		}
		out = append(out, *a)
	}
	sortArticles(out)
	return out, nil
}

func setText(t *Text, l i18n.Locale, v string) {
	if l == i18n.English {
		t.EN = v
		return
	}
	t.ID = v
}

func sortArticles(items []Article) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].PublishedAt.Equal(items[j].PublishedAt) {
			return items[i].Slug < items[j].Slug
		}
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
}

func sortProjects(items []Project) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Year == items[j].Year {
			return items[i].Slug < items[j].Slug
		}
		return items[i].Year > items[j].Year
	})
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if len(lines) == 0 {
		return "", ""
	}
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseContentDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006/01/02",
		"2006-1-2",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func prettifySlug(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return slug
	}
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = asciiUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func sanitizeSlug(slug string) string {
	slug = strings.TrimSpace(strings.ToLower(slug))
	slug = strings.Trim(slug, "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func asciiUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

