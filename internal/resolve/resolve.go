// Package resolve evaluates locators against parsed HTML: XPath through
// antchfx/htmlquery, CSS through cascadia. It closes the loop between
// synthesis and replay so locators can be verified against the document
// they were computed on.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// ErrEmptyExpr is returned for blank expressions. An empty locator means
// "no usable locator", never "the whole document".
var ErrEmptyExpr = errors.New("resolve: empty expression")

// XPath returns the elements matched by expr below root.
func XPath(root *html.Node, expr string) ([]*html.Node, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, ErrEmptyExpr
	}
	nodes, err := htmlquery.QueryAll(root, expr)
	if err != nil {
		return nil, fmt.Errorf("resolve: xpath %q: %w", expr, err)
	}
	return elementsOnly(nodes), nil
}

// CSS returns the elements matched by the selector below root.
func CSS(root *html.Node, sel string) ([]*html.Node, error) {
	if strings.TrimSpace(sel) == "" {
		return nil, ErrEmptyExpr
	}
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("resolve: css %q: %w", sel, err)
	}
	return s.MatchAll(root), nil
}

// IsXPath reports whether expr reads as an XPath rather than a CSS selector.
func IsXPath(expr string) bool {
	expr = strings.TrimSpace(expr)
	return strings.HasPrefix(expr, "/") || strings.HasPrefix(expr, "(") || strings.HasPrefix(expr, "./")
}

// Any dispatches on IsXPath.
func Any(root *html.Node, expr string) ([]*html.Node, error) {
	if IsXPath(expr) {
		return XPath(root, expr)
	}
	return CSS(root, expr)
}

// CSSCounter returns a function counting the matches of a selector in
// root; invalid selectors count as zero.
func CSSCounter(root *html.Node) func(sel string) int {
	return func(sel string) int {
		nodes, err := CSS(root, sel)
		if err != nil {
			return 0
		}
		return len(nodes)
	}
}

// Verification is the outcome of resolving a locator back on its document.
type Verification struct {
	Matches          int  `json:"matches"`
	Unique           bool `json:"unique"`
	ResolvesToTarget bool `json:"resolves_to_target"`
}

// Verify resolves expr in root and checks it designates target.
func Verify(root, target *html.Node, expr string) (Verification, error) {
	nodes, err := Any(root, expr)
	if err != nil {
		return Verification{}, err
	}
	v := Verification{Matches: len(nodes), Unique: len(nodes) == 1}
	v.ResolvesToTarget = v.Unique && nodes[0] == target
	return v, nil
}

// OuterHTML renders n with its subtree.
func OuterHTML(n *html.Node) string {
	return htmlquery.OutputHTML(n, true)
}

func elementsOnly(nodes []*html.Node) []*html.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			out = append(out, n)
		}
	}
	return out
}
