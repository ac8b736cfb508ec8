package sections

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/konstruksi-web/internal/content"
	"finitefield.org/konstruksi-web/internal/i18n"
	"finitefield.org/konstruksi-web/internal/lifecycle"
)

func member(id, parent string) content.Member {
	return content.Member{ID: id, ParentID: parent, Name: id, Role: content.Text{ID: "Peran " + id, EN: "Role " + id}}
}

func TestBuildForest(t *testing.T) {
	forest, err := BuildForest([]content.Member{
		member("ceo", ""),
		member("coo", "ceo"),
		member("cfo", "ceo"),
		member("pm", "coo"),
		member("board", ""),
	}, i18n.English)
	require.NoError(t, err)
	require.Len(t, forest, 2)
	require.Equal(t, "ceo", forest[0].ID)
	require.Equal(t, "Role ceo", forest[0].Role)
	require.Len(t, forest[0].Children, 2)
	require.Equal(t, "coo", forest[0].Children[0].ID)
	require.Equal(t, "pm", forest[0].Children[0].Children[0].ID)
	require.Empty(t, forest[1].Children)

	forest, err = BuildForest(nil, i18n.English)
	require.NoError(t, err)
	require.Empty(t, forest)
}

func TestBuildForestRejectsMalformedInput(t *testing.T) {
	cases := map[string]struct {
		members []content.Member
		kind    string
		id      string
	}{
		"duplicate":      {[]content.Member{member("a", ""), member("a", "")}, ForestDuplicateID, "a"},
		"unknown parent": {[]content.Member{member("a", ""), member("b", "ghost")}, ForestUnknownParent, "b"},
		"cycle":          {[]content.Member{member("root", ""), member("a", "b"), member("b", "a")}, ForestCycle, "a"},
		"self parent":    {[]content.Member{member("a", "a")}, ForestCycle, "a"},
		"missing id":     {[]content.Member{member("", "")}, ForestMissingID, ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := BuildForest(tc.members, i18n.Indonesian)
			var fe *ForestError
			require.True(t, errors.As(err, &fe), "got %v", err)
			require.Equal(t, tc.kind, fe.Kind)
			require.Equal(t, tc.id, fe.ID)
		})
	}
}

func TestOrgChartMountResizeDispose(t *testing.T) {
	seed, err := content.LoadSeed()
	require.NoError(t, err)
	chart := NewOrgChart(seed.Profile.Members, i18n.Indonesian)
	require.NoError(t, chart.Err())

	scope := lifecycle.NewScope()
	events := lifecycle.NewEvents()
	r := &JSONRenderer{}
	require.NoError(t, chart.Mount(scope, events, r, 1280))

	renders, fits, disposed := r.Stats()
	require.Equal(t, 1, renders)
	require.Equal(t, 1, fits)
	require.False(t, disposed)
	require.False(t, chart.Layout().Compact)

	var payload struct {
		Layout Layout `json:"layout"`
		Nodes  []Node `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.String()), &payload))
	require.Len(t, payload.Nodes, 1)
	require.Equal(t, "Direktur Utama", payload.Nodes[0].Role)

	events.Emit(lifecycle.Event{Name: lifecycle.EventResize, Width: 600})
	renders, fits, _ = r.Stats()
	require.Equal(t, 2, renders)
	require.Equal(t, 2, fits)
	require.True(t, chart.Layout().Compact)

	events.Emit(lifecycle.Event{Name: lifecycle.EventResize, Width: 768})
	require.False(t, chart.Layout().Compact)

	scope.Close()
	_, _, disposed = r.Stats()
	require.True(t, disposed)
	require.Equal(t, 0, events.Count(lifecycle.EventResize))
}

func TestOrgChartDrawRendersOnce(t *testing.T) {
	chart := NewOrgChart([]content.Member{member("a", ""), member("b", "a")}, i18n.English)
	r := &JSONRenderer{}
	require.NoError(t, chart.Draw(r, 600))

	renders, fits, disposed := r.Stats()
	require.Equal(t, 1, renders)
	require.Equal(t, 1, fits)
	require.False(t, disposed)
	require.True(t, chart.Layout().Compact)

	invalid := NewOrgChart([]content.Member{member("a", "a")}, i18n.English)
	other := &JSONRenderer{}
	require.Error(t, invalid.Draw(other, 600))
	renders, _, _ = other.Stats()
	require.Equal(t, 0, renders)
}

func TestOrgChartInvalidDoesNotRender(t *testing.T) {
	chart := NewOrgChart([]content.Member{member("a", "missing")}, i18n.English)
	require.Error(t, chart.Err())

	scope := lifecycle.NewScope()
	events := lifecycle.NewEvents()
	r := &JSONRenderer{}
	require.Error(t, chart.Mount(scope, events, r, 1280))
	renders, _, _ := r.Stats()
	require.Equal(t, 0, renders)
	require.Equal(t, 0, scope.Len())

	svc := i18n.Fixed{Bundle: i18n.MustLoadEmbedded(), Lang: i18n.English}
	data := OrgChartSection(svc, chart, r).Data.(OrgChartData)
	require.Empty(t, data.Payload)
	require.Equal(t, svc.T("structure.invalid"), data.Empty)

	empty := NewOrgChart(nil, i18n.English)
	require.NoError(t, empty.Mount(scope, events, r, 1280))
	data = OrgChartSection(svc, empty, r).Data.(OrgChartData)
	require.Equal(t, svc.T("structure.empty"), data.Empty)
}
