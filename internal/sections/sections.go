// Package sections builds the view data of every page section. Builders take the
// page props and an i18n.Service and return a layout.Section with translated text.
package sections

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"finitefield.org/konstruksi-web/internal/content"
	"finitefield.org/konstruksi-web/internal/format"
	"finitefield.org/konstruksi-web/internal/i18n"
	"finitefield.org/konstruksi-web/internal/layout"
	"finitefield.org/konstruksi-web/internal/nav"
)

// Template names, one per section kind.
const (
	TemplateHero     = "section/hero"
	TemplateStats    = "section/stats"
	TemplateServices = "section/services"
	TemplateFeatured = "section/featured"
	TemplateCTA      = "section/cta"
	TemplateProfile  = "section/profile"
	TemplateOrgChart = "section/orgchart"
	TemplatePrices   = "section/prices"
	TemplateProjects = "section/projects"
	TemplateProject  = "section/project"
	TemplateLightbox = "section/lightbox"
	TemplateArticles = "section/articles"
	TemplateArticle  = "section/article"
)

// HeroSlide is one rendered slide.
type HeroSlide struct {
	Image   string
	Title   string
	Caption string
	Href    string
	Active  bool
}

// HeroDot is an indicator jumping straight to a slide.
type HeroDot struct {
	Label  string
	URL    string
	Active bool
}

// HeroData is the hero carousel view.
type HeroData struct {
	Slides      []HeroSlide
	Dots        []HeroDot
	Index       int
	Paused      bool
	HasControls bool
	// PollSeconds is the auto-advance period; zero disables polling.
	PollSeconds int
	PrevURL     string
	NextURL     string
	ToggleURL   string
	TickURL     string
	PrevLabel   string
	NextLabel   string
	ToggleLabel string
}

// HeroFragmentURL is the fragment endpoint carrying carousel state.
func HeroFragmentURL(l i18n.Locale, index int, paused bool, op string) string {
	q := url.Values{}
	q.Set("i", strconv.Itoa(index))
	if paused {
		q.Set("paused", "1")
	} else {
		q.Set("paused", "0")
	}
	if op != "" {
		q.Set("op", op)
	}
	return nav.Path(l, "fragments", "hero") + "?" + q.Encode()
}

// Hero renders the carousel state c over slides. No slides renders an empty hero.
func Hero(svc i18n.Service, slides []content.Slide, c *Carousel) layout.Section {
	l := svc.Locale()
	idx, paused := c.Index(), c.Paused()
	data := HeroData{
		Index:       idx,
		Paused:      paused,
		HasControls: len(slides) > 1,
		PrevURL:     HeroFragmentURL(l, idx, paused, OpPrev),
		NextURL:     HeroFragmentURL(l, idx, paused, OpNext),
		ToggleURL:   HeroFragmentURL(l, idx, paused, OpToggle),
		TickURL:     HeroFragmentURL(l, idx, paused, OpTick),
		PrevLabel:   svc.T("hero.prev"),
		NextLabel:   svc.T("hero.next"),
	}
	if paused {
		data.ToggleLabel = svc.T("hero.play")
	} else {
		data.ToggleLabel = svc.T("hero.pause")
		if len(slides) > 1 {
			data.PollSeconds = int(Interval / time.Second)
		}
	}
	for i, s := range slides {
		href := ""
		if s.Href != "" {
			href = nav.Path(l, s.Href)
		}
		data.Slides = append(data.Slides, HeroSlide{
			Image:   s.Image,
			Title:   s.Title.In(l),
			Caption: s.Caption.In(l),
			Href:    href,
			Active:  i == idx,
		})
		data.Dots = append(data.Dots, HeroDot{
			Label:  fmt.Sprintf("%s %d", svc.T("hero.goto"), i+1),
			URL:    HeroFragmentURL(l, i, paused, ""),
			Active: i == idx,
		})
	}
	return layout.Section{Template: TemplateHero, Data: data}
}

// StatItem is one figure of the stats band.
type StatItem struct {
	Label  string
	Value  string
	Suffix string
}

// StatsData is the stats band view.
type StatsData struct {
	Title string
	Items []StatItem
}

// Stats renders the company figures with locale digit grouping.
func Stats(svc i18n.Service, stats []content.Stat) layout.Section {
	data := StatsData{Title: svc.T("home.stats.title")}
	for _, s := range stats {
		data.Items = append(data.Items, StatItem{
			Label:  svc.T(s.LabelKey),
			Value:  format.Number(s.Value, svc.Locale()),
			Suffix: s.Suffix,
		})
	}
	return layout.Section{Template: TemplateStats, Data: data}
}

// ServiceCard is one offered service.
type ServiceCard struct {
	ID      string
	Icon    string
	Title   string
	Summary string
	Href    string
}

// ServicesData is the services grid view.
type ServicesData struct {
	Title string
	Cards []ServiceCard
}

// Services renders the services grid.
func Services(svc i18n.Service, services []content.Service) layout.Section {
	l := svc.Locale()
	data := ServicesData{Title: svc.T("home.services.title")}
	for _, s := range services {
		data.Cards = append(data.Cards, ServiceCard{
			ID:      s.Slug,
			Icon:    s.Icon,
			Title:   s.Title.In(l),
			Summary: s.Summary.In(l),
			Href:    nav.Path(l, "services") + "#" + s.Slug,
		})
	}
	return layout.Section{Template: TemplateServices, Data: data}
}

// ProjectCard is the summary of one project.
type ProjectCard struct {
	Title    string
	Summary  string
	Category string
	Location string
	Year     string
	Cover    string
	Href     string
}

func projectCard(l i18n.Locale, p content.Project) ProjectCard {
	year := ""
	if p.Year > 0 {
		year = strconv.Itoa(p.Year)
	}
	return ProjectCard{
		Title:    p.Title.In(l),
		Summary:  p.Summary.In(l),
		Category: p.Category.In(l),
		Location: p.Location,
		Year:     year,
		Cover:    p.Cover,
		Href:     nav.Path(l, "projects", p.Slug),
	}
}

// FeaturedData is the featured projects gallery on the home page.
type FeaturedData struct {
	Title    string
	AllLabel string
	AllHref  string
	Cards    []ProjectCard
}

// Featured renders the home page project gallery.
func Featured(svc i18n.Service, projects []content.Project) layout.Section {
	l := svc.Locale()
	data := FeaturedData{
		Title:    svc.T("home.projects.title"),
		AllLabel: svc.T("home.projects.all"),
		AllHref:  nav.Path(l, "projects"),
	}
	for _, p := range projects {
		data.Cards = append(data.Cards, projectCard(l, p))
	}
	return layout.Section{Template: TemplateFeatured, Data: data}
}

// PageLink is one numbered pagination link.
type PageLink struct {
	Number  int
	Href    string
	Current bool
}

// Pagination is the pager below a listing.
type Pagination struct {
	Pages     []PageLink
	PrevHref  string
	NextHref  string
	PrevLabel string
	NextLabel string
}

// Paginate returns the pager for a listing at basePath, or nil when everything fits
// on one page. A page past the end still gets a pager pointing back at the last page.
func Paginate[T any](svc i18n.Service, page content.Page[T], basePath string) *Pagination {
	total := page.TotalPages()
	if total == 0 || (total == 1 && page.Page <= 1) {
		return nil
	}
	href := func(n int) string {
		if n <= 1 {
			return basePath
		}
		return basePath + "?page=" + strconv.Itoa(n)
	}
	p := &Pagination{PrevLabel: svc.T("pagination.prev"), NextLabel: svc.T("pagination.next")}
	for n := 1; n <= total; n++ {
		p.Pages = append(p.Pages, PageLink{Number: n, Href: href(n), Current: n == page.Page})
	}
	if page.HasPrev() {
		p.PrevHref = href(page.PrevPage())
	}
	if page.HasNext() {
		p.NextHref = href(page.Page + 1)
	}
	return p
}

// ProjectsGridData is the projects listing view.
type ProjectsGridData struct {
	Cards      []ProjectCard
	Pagination *Pagination
	Empty      string
}

// ProjectsGrid renders one page of projects. An empty page shows no cards and no pager.
func ProjectsGrid(svc i18n.Service, page content.Page[content.Project]) layout.Section {
	l := svc.Locale()
	data := ProjectsGridData{}
	for _, p := range page.Items {
		data.Cards = append(data.Cards, projectCard(l, p))
	}
	if len(data.Cards) == 0 {
		data.Empty = svc.T("projects.empty")
	}
	data.Pagination = Paginate(svc, page, nav.Path(l, "projects"))
	return layout.Section{Template: TemplateProjects, Data: data}
}

// Fact is a labelled value on the project detail page.
type Fact struct {
	Label string
	Value string
}

// Thumb is one gallery thumbnail opening the lightbox.
type Thumb struct {
	Src string
	URL string
}

// LightboxView is the rendered lightbox. Open is false when no photo is selected.
type LightboxView struct {
	Open        bool
	Src         string
	Position    string
	HasControls bool
	PrevURL     string
	NextURL     string
	CloseURL    string
	PrevLabel   string
	NextLabel   string
	CloseLabel  string
}

// ProjectData is the project detail view.
type ProjectData struct {
	Title        string
	Summary      string
	Cover        string
	Facts        []Fact
	GalleryTitle string
	Thumbs       []Thumb
	Lightbox     LightboxView
	BackHref     string
	BackLabel    string
}

// PhotoURL is the lightbox fragment endpoint for photo i of a project; a negative
// i closes the lightbox.
func PhotoURL(l i18n.Locale, slug string, i int) string {
	return nav.Path(l, "projects", slug, "photos", strconv.Itoa(i))
}

// LightboxFor renders lb over photos. An empty photo list renders a closed box.
func LightboxFor(svc i18n.Service, slug string, photos []string, lb *Lightbox) LightboxView {
	l := svc.Locale()
	i, open := lb.Selected()
	if !open || len(photos) == 0 || i >= len(photos) {
		return LightboxView{}
	}
	n := len(photos)
	v := LightboxView{
		Open:        true,
		Src:         photos[i],
		Position:    fmt.Sprintf("%d / %d", i+1, n),
		HasControls: lb.HasControls(),
		CloseURL:    PhotoURL(l, slug, -1),
		CloseLabel:  svc.T("lightbox.close"),
	}
	if v.HasControls {
		v.PrevURL = PhotoURL(l, slug, (i-1+n)%n)
		v.NextURL = PhotoURL(l, slug, (i+1)%n)
		v.PrevLabel = svc.T("lightbox.prev")
		v.NextLabel = svc.T("lightbox.next")
	}
	return v
}

// LightboxSection renders the lightbox fragment alone.
func LightboxSection(svc i18n.Service, slug string, photos []string, lb *Lightbox) layout.Section {
	return layout.Section{Template: TemplateLightbox, Data: LightboxFor(svc, slug, photos, lb)}
}

// Project renders a project detail page with its photo gallery. lb carries the
// initially open photo, if any.
func Project(svc i18n.Service, p content.Project, lb *Lightbox) layout.Section {
	l := svc.Locale()
	data := ProjectData{
		Title:     p.Title.In(l),
		Summary:   p.Summary.In(l),
		Cover:     p.Cover,
		BackHref:  nav.Path(l, "projects"),
		BackLabel: svc.T("projects.back"),
	}
	addFact := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			data.Facts = append(data.Facts, Fact{Label: svc.T(key), Value: value})
		}
	}
	addFact("projects.category", p.Category.In(l))
	addFact("projects.location", p.Location)
	addFact("projects.client", p.Client)
	if p.Year > 0 {
		addFact("projects.year", strconv.Itoa(p.Year))
	}
	if len(p.Photos) > 0 {
		data.GalleryTitle = svc.T("projects.gallery")
		for i, src := range p.Photos {
			data.Thumbs = append(data.Thumbs, Thumb{Src: src, URL: PhotoURL(l, p.Slug, i)})
		}
		data.Lightbox = LightboxFor(svc, p.Slug, p.Photos, lb)
	}
	return layout.Section{Template: TemplateProject, Data: data}
}

// ArticleCard is one article in a listing.
type ArticleCard struct {
	Title    string
	Summary  string
	Cover    string
	Date     string
	ISODate  string
	Href     string
	ReadMore string
}

// ArticlesData is the article listing view.
type ArticlesData struct {
	Cards      []ArticleCard
	Pagination *Pagination
	Empty      string
}

// Articles renders one page of articles.
func Articles(svc i18n.Service, page content.Page[content.Article]) layout.Section {
	l := svc.Locale()
	data := ArticlesData{}
	for _, a := range page.Items {
		data.Cards = append(data.Cards, ArticleCard{
			Title:    a.Title.In(l),
			Summary:  a.Summary.In(l),
			Cover:    a.Cover,
			Date:     format.Date(a.PublishedAt, l),
			ISODate:  format.ISODate(a.PublishedAt),
			Href:     nav.Path(l, "articles", a.Slug),
			ReadMore: svc.T("articles.read_more"),
		})
	}
	if len(data.Cards) == 0 {
		data.Empty = svc.T("articles.empty")
	}
	data.Pagination = Paginate(svc, page, nav.Path(l, "articles"))
	return layout.Section{Template: TemplateArticles, Data: data}
}

// ArticleData is a rendered article.
type ArticleData struct {
	Title     string
	Author    string
	Published string
	Date      string
	ISODate   string
	Cover     string
	Body      template.HTML
	Excerpt   string
	BackHref  string
	BackLabel string
}

// Article renders the article body from markdown.
func Article(svc i18n.Service, a content.Article) (layout.Section, error) {
	l := svc.Locale()
	body, err := content.RenderMarkdown(a.Body.In(l))
	if err != nil {
		return layout.Section{}, err
	}
	data := ArticleData{
		Title:     a.Title.In(l),
		Author:    a.Author,
		Published: svc.T("articles.published"),
		Date:      format.Date(a.PublishedAt, l),
		ISODate:   format.ISODate(a.PublishedAt),
		Cover:     a.Cover,
		Body:      body,
		Excerpt:   content.Excerpt(body, 160),
		BackHref:  nav.Path(l, "articles"),
		BackLabel: svc.T("nav.articles"),
	}
	return layout.Section{Template: TemplateArticle, Data: data}, nil
}

// CTAData is the call-to-action band.
type CTAData struct {
	Title  string
	Body   string
	Button string
	Href   string
}

// CTA renders the contact call-to-action.
func CTA(svc i18n.Service, company content.Company) layout.Section {
	href := ""
	if company.Email != "" {
		href = "mailto:" + company.Email
	}
	return layout.Section{Template: TemplateCTA, Data: CTAData{
		Title:  svc.T("home.cta.title"),
		Body:   svc.T("home.cta.body"),
		Button: svc.T("home.cta.button"),
		Href:   href,
	}}
}

// ProfileData is the company profile on the about page.
type ProfileData struct {
	Heading        string
	Body           string
	VisionLabel    string
	Vision         string
	MissionLabel   string
	Mission        []string
	StructureLabel string
	StructureHref  string
}

// Profile renders the company profile, vision and mission.
func Profile(svc i18n.Service, company content.Company) layout.Section {
	l := svc.Locale()
	data := ProfileData{
		Heading:        svc.T("about.profile"),
		Body:           company.Profile.In(l),
		VisionLabel:    svc.T("about.vision"),
		Vision:         company.Vision.In(l),
		MissionLabel:   svc.T("about.mission"),
		StructureLabel: svc.T("about.structure_link"),
		StructureHref:  nav.Path(l, "about", "structure"),
	}
	for _, m := range company.Mission {
		data.Mission = append(data.Mission, m.In(l))
	}
	return layout.Section{Template: TemplateProfile, Data: data}
}

// OrgChartData is the organisation chart view.
type OrgChartData struct {
	// Payload is the serialised chart for the client library; empty when nothing renders.
	Payload string
	Nodes   []*Node
	Compact bool
	Empty   string
}

// OrgChartSection renders a mounted chart. Invalid member lists and empty ones
// show a message instead of the chart.
func OrgChartSection(svc i18n.Service, chart *OrgChart, r *JSONRenderer) layout.Section {
	data := OrgChartData{}
	switch {
	case chart.Err() != nil:
		data.Empty = svc.T("structure.invalid")
	case len(chart.Forest()) == 0:
		data.Empty = svc.T("structure.empty")
	default:
		data.Nodes = chart.Forest()
		data.Compact = chart.Layout().Compact
		if r != nil {
			data.Payload = r.String()
		}
	}
	return layout.Section{Template: TemplateOrgChart, Data: data}
}

// PriceRowView is one formatted price row.
type PriceRowView struct {
	Item  string
	Unit  string
	Price string
}

// PriceTableView is one formatted price table.
type PriceTableView struct {
	Title string
	Rows  []PriceRowView
}

// PricesData is the price list view.
type PricesData struct {
	Title      string
	ItemLabel  string
	UnitLabel  string
	PriceLabel string
	Tables     []PriceTableView
}

// Prices renders the price tables with locale currency formatting.
func Prices(svc i18n.Service, tables []content.PriceTable) layout.Section {
	l := svc.Locale()
	data := PricesData{
		Title:      svc.T("services.prices"),
		ItemLabel:  svc.T("prices.item"),
		UnitLabel:  svc.T("prices.unit"),
		PriceLabel: svc.T("prices.price"),
	}
	for _, t := range tables {
		view := PriceTableView{Title: t.Title.In(l)}
		for _, r := range t.Rows {
			view.Rows = append(view.Rows, PriceRowView{
				Item:  r.Item.In(l),
				Unit:  r.Unit.In(l),
				Price: format.Currency(r.Price, t.Currency, l),
			})
		}
		data.Tables = append(data.Tables, view)
	}
	return layout.Section{Template: TemplatePrices, Data: data}
}

// FooterData is the site footer.
type FooterData struct {
	Name         string
	AddressLabel string
	Address      string
	ContactLabel string
	Phone        string
	Email        string
	Socials      []content.Link
	Rights       string
	Year         int
}

// Footer renders the footer from the shared company props.
func Footer(svc i18n.Service, company content.Company, now time.Time) FooterData {
	return FooterData{
		Name:         company.Name,
		AddressLabel: svc.T("footer.address"),
		Address:      company.Address,
		ContactLabel: svc.T("footer.contact"),
		Phone:        company.Phone,
		Email:        company.Email,
		Socials:      company.Socials,
		Rights:       svc.T("footer.rights"),
		Year:         now.Year(),
	}
}
