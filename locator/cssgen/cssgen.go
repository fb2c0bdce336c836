// Package cssgen produces the CSS strategies of a locator bundle: the
// ancestor CSS path, the single element selector and a ranked list of
// generic selectors (id, class, attribute, tag, nth-child, anchored path).
package cssgen

import (
	"sort"
	"strconv"
	"strings"

	"github.com/hazyhaar/domtrail/locator"
)

// Generator implements locator.Providers.
type Generator struct {
	attrs      []string
	maxClasses int
	count      func(sel string) int
}

// Option configures a Generator.
type Option func(*Generator)

// WithAttributes sets the attributes tried by the attribute strategy.
// Default: name.
func WithAttributes(names ...string) Option {
	return func(g *Generator) { g.attrs = names }
}

// WithMaxClasses caps the classes used by the class strategy. Default: 3.
func WithMaxClasses(n int) Option {
	return func(g *Generator) { g.maxClasses = n }
}

// WithCounter installs an oracle returning how many elements of the
// document a selector matches. Selectors then get ranked: unique first,
// then by ascending match count; selectors matching nothing are dropped.
func WithCounter(count func(sel string) int) Option {
	return func(g *Generator) { g.count = count }
}

// New returns a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{attrs: []string{"name"}, maxClasses: 3}
	for _, o := range opts {
		o(g)
	}
	return g
}

var _ locator.Providers = (*Generator)(nil)

// CSSSelector returns tag, #id and the first class of n.
func (g *Generator) CSSSelector(n locator.Node) string {
	if n == nil || n.Kind() != locator.ElementNode {
		return ""
	}
	sel := n.Tag()
	if id := n.ID(); id != "" {
		sel += "#" + Ident(id)
	}
	if cls := classes(n); len(cls) > 0 {
		sel += "." + Ident(cls[0])
	}
	return sel
}

// CSSPath joins the CSSSelector of n and its ancestors, outermost first,
// with the descendant combinator.
func (g *Generator) CSSPath(n locator.Node) string {
	var parts []string
	for ; n != nil && n.Kind() == locator.ElementNode; n = n.Parent() {
		parts = append(parts, g.CSSSelector(n))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " ")
}

// Selectors returns the generic candidates for n.
func (g *Generator) Selectors(n locator.Node) []string {
	if n == nil || n.Kind() != locator.ElementNode {
		return nil
	}
	tag := n.Tag()
	var cands []string
	if id := n.ID(); id != "" {
		cands = append(cands, "#"+Ident(id))
	}
	if cls := classes(n); len(cls) > 0 {
		if len(cls) > g.maxClasses {
			cls = cls[:g.maxClasses]
		}
		sel := tag
		for _, c := range cls {
			sel += "." + Ident(c)
		}
		cands = append(cands, sel)
	}
	for _, name := range g.attrs {
		if v, ok := n.Attr(name); ok {
			cands = append(cands, tag+"["+Ident(name)+"="+quote(v)+"]")
		}
	}
	cands = append(cands, tag, nthChild(n), anchoredPath(n))
	cands = dedup(cands)

	if g.count == nil {
		return cands
	}
	return g.rank(cands)
}

func (g *Generator) rank(cands []string) []string {
	type scored struct {
		sel   string
		count int
	}
	var kept []scored
	for _, c := range cands {
		if k := g.count(c); k > 0 {
			kept = append(kept, scored{c, k})
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].count < kept[j].count })
	out := make([]string, len(kept))
	for i, s := range kept {
		out[i] = s.sel
	}
	return out
}

// nthChild returns tag:nth-child(k), k counting element siblings.
func nthChild(n locator.Node) string {
	k := 1
	for sib := n.PreviousSibling(); sib != nil; sib = sib.PreviousSibling() {
		if sib.Kind() == locator.ElementNode {
			k++
		}
	}
	return n.Tag() + ":nth-child(" + strconv.Itoa(k) + ")"
}

// anchoredPath builds a child-combinator path from the closest ancestor
// carrying an id, or from the root element when none does.
func anchoredPath(n locator.Node) string {
	parts := []string{nthChild(n)}
	for p := n.Parent(); p != nil && p.Kind() == locator.ElementNode; p = p.Parent() {
		if id := p.ID(); id != "" {
			parts = append(parts, "#"+Ident(id))
			break
		}
		if gp := p.Parent(); gp == nil || gp.Kind() != locator.ElementNode {
			parts = append(parts, p.Tag())
			break
		}
		parts = append(parts, nthChild(p))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

func classes(n locator.Node) []string {
	v, ok := n.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

func dedup(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
