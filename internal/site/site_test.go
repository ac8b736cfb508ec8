package site

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/konstruksi-web/internal/content"
	"finitefield.org/konstruksi-web/internal/i18n"
	"finitefield.org/konstruksi-web/internal/layout"
	"finitefield.org/konstruksi-web/internal/lifecycle"
	"finitefield.org/konstruksi-web/internal/pages"
	"finitefield.org/konstruksi-web/internal/sections"
)

func english() i18n.Service {
	return i18n.Fixed{Bundle: i18n.MustLoadEmbedded(), Lang: i18n.English}
}

func compose(t *testing.T, id string, props pages.Props) layout.Document {
	t.Helper()
	ctx := context.Background()
	p, err := NewRegistry().Resolve(ctx, id)
	require.NoError(t, err)
	unit, err := p.Wait(ctx)
	require.NoError(t, err)

	scope := lifecycle.NewScope()
	t.Cleanup(scope.Close)
	doc, err := unit.Compose(ctx, pages.Input{Props: props, Locale: english(), Path: "/en", Scope: scope})
	require.NoError(t, err)
	return doc
}

func seed(t *testing.T) content.Seed {
	t.Helper()
	s, err := content.LoadSeed()
	require.NoError(t, err)
	return s
}

func templates(doc layout.Document) []string {
	var out []string
	for _, s := range doc.Sections {
		out = append(out, s.Template)
	}
	return out
}

func TestRegistryIDs(t *testing.T) {
	require.Equal(t, []string{
		AboutIndex, AboutStructure, ArticlesIndex, ArticlesShow,
		ProjectsIndex, ProjectsShow, ServicesIndex, Welcome,
	}, NewRegistry().IDs())
}

func TestHomeIsReadyImmediately(t *testing.T) {
	p, err := NewRegistry().Resolve(context.Background(), Welcome)
	require.NoError(t, err)
	require.True(t, p.Ready())
}

func TestIndexFallback(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	for _, id := range []string{"About", "Projects", "Articles", "Services"} {
		p, err := r.Resolve(ctx, id)
		require.NoError(t, err, id)
		_, err = p.Wait(ctx)
		require.NoError(t, err, id)
	}
	_, err := r.Resolve(ctx, "Careers")
	require.ErrorIs(t, err, pages.ErrPageNotFound)
	require.EqualError(t, err, "page not found: Careers")
}

func TestWelcome(t *testing.T) {
	s := seed(t)
	doc := compose(t, Welcome, pages.Props{
		PropCompany:  s.Profile.Company,
		PropSlides:   s.Profile.Slides,
		PropStats:    s.Profile.Stats,
		PropServices: s.Profile.Services,
		PropFeatured: []content.Project{s.Projects[0]},
		PropHero:     HeroState{Index: 1, Paused: true},
		PropBaseURL:  "https://example.com",
	})

	require.False(t, doc.ShowHeader)
	require.True(t, doc.NavTransparent)
	require.Equal(t, "Bangun Karya Nusantara | Bangun Karya Nusantara", doc.Title)
	require.Equal(t, []string{
		sections.TemplateHero, sections.TemplateStats, sections.TemplateServices,
		sections.TemplateFeatured, sections.TemplateCTA,
	}, templates(doc))

	hero := doc.Sections[0].Data.(sections.HeroData)
	require.Equal(t, 1, hero.Index)
	require.True(t, hero.Paused)

	require.Len(t, doc.StructuredData, 1)
	org := doc.StructuredData[0].(map[string]any)
	require.Equal(t, "Organization", org["@type"])
	require.Equal(t, "https://example.com/en", org["url"])
}

func TestAboutBreadcrumbs(t *testing.T) {
	s := seed(t)
	doc := compose(t, AboutIndex, pages.Props{PropCompany: s.Profile.Company})
	require.True(t, doc.ShowHeader)
	require.Equal(t, "About Us", doc.HeaderTitle)
	require.Equal(t, "About Us | Bangun Karya Nusantara", doc.Title)
	require.Len(t, doc.Breadcrumbs, 2)
	require.Equal(t, "/en", doc.Breadcrumbs[0].Href)
	require.Empty(t, doc.Breadcrumbs[1].Href)
}

func TestStructure(t *testing.T) {
	s := seed(t)
	doc := compose(t, AboutStructure, pages.Props{PropMembers: s.Profile.Members, PropViewport: 600})
	data := doc.Sections[0].Data.(sections.OrgChartData)
	require.Empty(t, data.Empty)
	require.True(t, data.Compact)
	require.Contains(t, data.Payload, `"compact":true`)
	require.Len(t, data.Nodes, 1)

	doc = compose(t, AboutStructure, pages.Props{PropMembers: s.Profile.Members})
	require.False(t, doc.Sections[0].Data.(sections.OrgChartData).Compact)
}

func TestStructureInvalidMembersShowMessage(t *testing.T) {
	members := []content.Member{
		{ID: "a", ParentID: "b", Name: "A"},
		{ID: "b", ParentID: "a", Name: "B"},
	}
	doc := compose(t, AboutStructure, pages.Props{PropMembers: members})
	data := doc.Sections[0].Data.(sections.OrgChartData)
	require.Equal(t, "Organization data is invalid.", data.Empty)
	require.Empty(t, data.Payload)
}

func TestProjectsIndexEmpty(t *testing.T) {
	doc := compose(t, ProjectsIndex, pages.Props{})
	data := doc.Sections[0].Data.(sections.ProjectsGridData)
	require.Empty(t, data.Cards)
	require.Nil(t, data.Pagination)
	require.Equal(t, "No projects to show yet.", data.Empty)
}

func TestProjectsShow(t *testing.T) {
	s := seed(t)
	var project content.Project
	for _, p := range s.Projects {
		if p.Slug == "menara-sudirman" {
			project = p
		}
	}
	doc := compose(t, ProjectsShow, pages.Props{PropProject: project, PropPhoto: 2})
	require.Equal(t, "Sudirman Office Tower", doc.HeaderTitle)
	require.Len(t, doc.Breadcrumbs, 3)
	require.Equal(t, "/en/projects", doc.Breadcrumbs[1].Href)

	data := doc.Sections[0].Data.(sections.ProjectData)
	require.True(t, data.Lightbox.Open)
	require.Equal(t, "3 / 3", data.Lightbox.Position)
}

func TestProjectsShowWithoutProject(t *testing.T) {
	ctx := context.Background()
	p, err := NewRegistry().Resolve(ctx, ProjectsShow)
	require.NoError(t, err)
	unit, err := p.Wait(ctx)
	require.NoError(t, err)
	_, err = unit.Compose(ctx, pages.Input{Props: pages.Props{}, Locale: english()})
	require.ErrorContains(t, err, `missing prop "project"`)
}

func TestArticlesShow(t *testing.T) {
	s := seed(t)
	doc := compose(t, ArticlesShow, pages.Props{PropArticle: s.Articles[0], PropBaseURL: "https://example.com"})
	require.Equal(t, "Safety Culture on High-Rise Sites", doc.HeaderTitle)
	require.NotEmpty(t, doc.Description)

	require.Len(t, doc.StructuredData, 1)
	article := doc.StructuredData[0].(map[string]any)
	require.Equal(t, "https://example.com/en/articles/k3-di-proyek-gedung-tinggi", article["url"])
	require.Equal(t, "2024-02-12", article["datePublished"])
}
