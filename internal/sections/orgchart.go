package sections

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"finitefield.org/konstruksi-web/internal/content"
	"finitefield.org/konstruksi-web/internal/i18n"
	"finitefield.org/konstruksi-web/internal/lifecycle"
)

// CompactBreakpoint is the viewport width below which the chart uses the compact layout.
const CompactBreakpoint = 768

// Node is one person in the organisation tree.
type Node struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Image    string  `json:"image,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Forest problem kinds.
const (
	ForestMissingID     = "missing id"
	ForestDuplicateID   = "duplicate id"
	ForestUnknownParent = "unknown parent"
	ForestCycle         = "cycle"
)

// ForestError describes why a member list does not form a forest.
type ForestError struct {
	Kind   string
	ID     string
	Parent string
}

func (e *ForestError) Error() string {
	switch e.Kind {
	case ForestUnknownParent:
		return fmt.Sprintf("org chart: member %q references unknown parent %q", e.ID, e.Parent)
	case ForestMissingID:
		return "org chart: member without id"
	default:
		return fmt.Sprintf("org chart: %s at member %q", e.Kind, e.ID)
	}
}

// BuildForest turns parent-pointer records into root nodes, keeping input order
// among siblings. Malformed input is rejected as a whole.
func BuildForest(members []content.Member, l i18n.Locale) ([]*Node, error) {
	nodes := make(map[string]*Node, len(members))
	for _, m := range members {
		id := strings.TrimSpace(m.ID)
		if id == "" {
			return nil, &ForestError{Kind: ForestMissingID}
		}
		if _, dup := nodes[id]; dup {
			return nil, &ForestError{Kind: ForestDuplicateID, ID: id}
		}
		nodes[id] = &Node{ID: id, Name: m.Name, Role: m.Role.In(l), Image: m.Image}
	}

	var roots []*Node
	for _, m := range members {
		id := strings.TrimSpace(m.ID)
		parent := strings.TrimSpace(m.ParentID)
		if parent == "" {
			roots = append(roots, nodes[id])
			continue
		}
		p, ok := nodes[parent]
		if !ok {
			return nil, &ForestError{Kind: ForestUnknownParent, ID: id, Parent: parent}
		}
		p.Children = append(p.Children, nodes[id])
	}

	// Every node not reachable from a root sits on a parent cycle.
	seen := make(map[string]bool, len(nodes))
	var walk func(n *Node)
	walk = func(n *Node) {
		seen[n.ID] = true
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	for _, m := range members {
		if id := strings.TrimSpace(m.ID); !seen[id] {
			return nil, &ForestError{Kind: ForestCycle, ID: id}
		}
	}
	return roots, nil
}

// Layout is what the chart renderer needs besides the tree.
type Layout struct {
	Compact bool `json:"compact"`
	Width   int  `json:"width"`
}

// LayoutFor computes the layout for a viewport width.
func LayoutFor(width int) Layout {
	return Layout{Compact: width < CompactBreakpoint, Width: width}
}

// Renderer is the chart drawing service.
type Renderer interface {
	Render(forest []*Node, layout Layout) error
	Fit()
	Dispose()
}

// OrgChart binds a forest to a renderer for the lifetime of a scope.
type OrgChart struct {
	forest []*Node
	err    error

	mu       sync.Mutex
	layout   Layout
	renderer Renderer
}

// NewOrgChart builds the forest for members. A malformed list is kept as Err.
func NewOrgChart(members []content.Member, l i18n.Locale) *OrgChart {
	forest, err := BuildForest(members, l)
	return &OrgChart{forest: forest, err: err}
}

// Forest returns the root nodes.
func (o *OrgChart) Forest() []*Node { return o.forest }

// Err returns the validation error of the member list.
func (o *OrgChart) Err() error { return o.err }

// Layout returns the last layout passed to the renderer.
func (o *OrgChart) Layout() Layout {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.layout
}

// Mount renders and fits the chart for width, then re-renders and re-fits on
// every resize event. Closing scope removes the listener and disposes r.
// Invalid or empty forests are not rendered.
func (o *OrgChart) Mount(scope *lifecycle.Scope, events *lifecycle.Events, r Renderer, width int) error {
	if o.err != nil {
		return o.err
	}
	if len(o.forest) == 0 || r == nil {
		return nil
	}
	o.mu.Lock()
	o.renderer = r
	err := o.draw(width)
	o.mu.Unlock()
	scope.Add(r.Dispose)
	if err != nil {
		return err
	}

	off := events.On(lifecycle.EventResize, func(ev lifecycle.Event) {
		o.mu.Lock()
		defer o.mu.Unlock()
		_ = o.draw(ev.Width)
	})
	scope.Add(off)
	return nil
}

// Draw renders and fits the chart once for width, without listening for resizes.
// Invalid or empty forests are not rendered.
func (o *OrgChart) Draw(r Renderer, width int) error {
	if o.err != nil {
		return o.err
	}
	if len(o.forest) == 0 || r == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.renderer = r
	return o.draw(width)
}

// draw renders and fits. Callers hold o.mu.
func (o *OrgChart) draw(width int) error {
	o.layout = LayoutFor(width)
	if err := o.renderer.Render(o.forest, o.layout); err != nil {
		return fmt.Errorf("org chart: render: %w", err)
	}
	o.renderer.Fit()
	return nil
}

// JSONRenderer serialises the chart for the client-side chart library.
type JSONRenderer struct {
	mu       sync.Mutex
	out      []byte
	renders  int
	fits     int
	disposed bool
}

type chartPayload struct {
	Layout Layout  `json:"layout"`
	Nodes  []*Node `json:"nodes"`
}

// Render implements Renderer.
func (j *JSONRenderer) Render(forest []*Node, layout Layout) error {
	b, err := json.Marshal(chartPayload{Layout: layout, Nodes: forest})
	if err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.disposed {
		return fmt.Errorf("renderer disposed")
	}
	j.out = b
	j.renders++
	return nil
}

// Fit implements Renderer.
func (j *JSONRenderer) Fit() {
	j.mu.Lock()
	j.fits++
	j.mu.Unlock()
}

// Dispose implements Renderer.
func (j *JSONRenderer) Dispose() {
	j.mu.Lock()
	j.disposed = true
	j.mu.Unlock()
}

// String returns the last rendered payload.
func (j *JSONRenderer) String() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return string(j.out)
}

// Stats returns how often Render and Fit ran and whether Dispose was called.
func (j *JSONRenderer) Stats() (renders, fits int, disposed bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.renders, j.fits, j.disposed
}
