// Package routes is the portal's static route table and its auth guard.
package routes

import (
	"net/http"
	"strings"
	"sync"
)

// Meta carries per-node flags. A nil RequiresAuth means "not declared".
type Meta struct {
	RequiresAuth *bool
}

// Node is one entry of the route tree. Path is relative to the parent. A node
// without a View is only a prefix for its children unless Redirect is set.
type Node struct {
	Path     string
	Name     string
	View     *Lazy
	Redirect string
	Children []*Node
	Meta     Meta
}

// Lazy is a view resolved on first use and reused afterwards.
type Lazy struct {
	once    sync.Once
	load    func() http.Handler
	handler http.Handler
}

func LazyView(load func() http.Handler) *Lazy {
	return &Lazy{load: load}
}

// Handler resolves the view, calling load at most once.
func (l *Lazy) Handler() http.Handler {
	l.once.Do(func() {
		l.handler = l.load()
	})
	return l.handler
}

func Bool(v bool) *bool {
	return &v
}

// Match is the result of resolving a path: the chain of nodes from the root
// to the matched leaf, plus the values of :param segments.
type Match struct {
	Chain  []*Node
	Params map[string]string
}

// Leaf returns the matched node.
func (m *Match) Leaf() *Node {
	if m == nil || len(m.Chain) == 0 {
		return nil
	}
	return m.Chain[len(m.Chain)-1]
}

func (m *Match) FullPath() string {
	var segs []string
	for _, n := range m.Chain {
		segs = append(segs, splitPath(n.Path)...)
	}
	return "/" + strings.Join(segs, "/")
}

type entry struct {
	chain    []*Node
	segments []string
	full     string
}

// Table is a flattened, read-only view of a route tree.
type Table struct {
	entries []entry
	byName  map[string]int
}

func NewTable(roots ...*Node) *Table {
	t := &Table{byName: make(map[string]int)}
	for _, root := range roots {
		t.flatten(root, nil, nil)
	}
	return t
}

func (t *Table) flatten(n *Node, parents []*Node, prefix []string) {
	chain := append(append([]*Node(nil), parents...), n)
	segs := append(append([]string(nil), prefix...), splitPath(n.Path)...)
	if n.View != nil || n.Redirect != "" {
		t.entries = append(t.entries, entry{chain: chain, segments: segs, full: "/" + strings.Join(segs, "/")})
		if n.Name != "" {
			t.byName[n.Name] = len(t.entries) - 1
		}
	}
	for _, c := range n.Children {
		t.flatten(c, chain, segs)
	}
}

// Resolve finds the node serving path. Static segments win over params when
// two routes could match.
func (t *Table) Resolve(path string) (*Match, bool) {
	segs := splitPath(path)
	var best *Match
	bestStatic := -1
	for i := range t.entries {
		e := &t.entries[i]
		params, static, ok := matchSegments(e.segments, segs)
		if !ok || static <= bestStatic {
			continue
		}
		best = &Match{Chain: e.chain, Params: params}
		bestStatic = static
	}
	return best, best != nil
}

// Path returns the full path of the named route.
func (t *Table) Path(name string) (string, bool) {
	i, ok := t.byName[name]
	if !ok {
		return "", false
	}
	return t.entries[i].full, true
}

// Walk calls fn for every routable node with its full path pattern, params
// written as {name}.
func (t *Table) Walk(fn func(pattern string, m *Match)) {
	for _, e := range t.entries {
		parts := make([]string, len(e.segments))
		for i, s := range e.segments {
			if strings.HasPrefix(s, ":") {
				s = "{" + s[1:] + "}"
			}
			parts[i] = s
		}
		fn("/"+strings.Join(parts, "/"), &Match{Chain: e.chain})
	}
}

func matchSegments(pattern, segs []string) (map[string]string, int, bool) {
	if len(pattern) != len(segs) {
		return nil, 0, false
	}
	params := map[string]string{}
	static := 0
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			params[p[1:]] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, 0, false
		}
		static++
	}
	return params, static, true
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
