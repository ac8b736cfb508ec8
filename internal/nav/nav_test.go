package nav

import (
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/konstruksi-web/internal/i18n"
)

func TestBuildMarksActiveSection(t *testing.T) {
	svc := i18n.Fixed{Bundle: i18n.MustLoadEmbedded(), Lang: i18n.English}

	items := Build(svc, "/en/projects/tower-a")
	require.Len(t, items, len(Main))

	active := map[string]bool{}
	for _, it := range items {
		active[it.Href] = it.Active
	}
	require.True(t, active["/en/projects"])
	require.False(t, active["/en"], "home must only be active on the home page")
	require.Equal(t, "Projects", items[3].Label)

	home := Build(svc, "/en/")
	require.True(t, home[0].Active)
}

func TestPath(t *testing.T) {
	require.Equal(t, "/id", Path(i18n.Indonesian))
	require.Equal(t, "/id", Path(i18n.Indonesian, ""))
	require.Equal(t, "/en/projects/tower-a", Path(i18n.English, "projects", "/tower-a/"))
}

func TestSplitAndSwitchLocale(t *testing.T) {
	l, rest, ok := SplitLocale("/en/about/structure")
	require.True(t, ok)
	require.Equal(t, i18n.English, l)
	require.Equal(t, "/about/structure", rest)

	_, _, ok = SplitLocale("/fr/about")
	require.False(t, ok)
	_, _, ok = SplitLocale("/EN/about")
	require.False(t, ok)

	require.Equal(t, "/id/about/structure", SwitchLocale("/en/about/structure", i18n.Indonesian))
	require.Equal(t, "/en", SwitchLocale("/id", i18n.English))
	require.Equal(t, "/en", SwitchLocale("/admin/articles", i18n.English))
}

func TestTrailUnlinksLast(t *testing.T) {
	got := Trail(Crumb{Label: "Home", Href: "/en"}, Crumb{Label: "Projects", Href: "/en/projects"})
	require.Equal(t, []Crumb{{Label: "Home", Href: "/en"}, {Label: "Projects"}}, got)
	require.Nil(t, Trail())
}
