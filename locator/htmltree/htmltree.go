// Package htmltree exposes golang.org/x/net/html trees as locator.Node.
package htmltree

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/domtrail/locator"
)

type node struct {
	n *html.Node
}

// Wrap returns n as a locator.Node, or nil when n is nil.
func Wrap(n *html.Node) locator.Node {
	if n == nil {
		return nil
	}
	return node{n: n}
}

// Unwrap returns the *html.Node behind a Node created by Wrap.
func Unwrap(n locator.Node) (*html.Node, bool) {
	w, ok := n.(node)
	if !ok {
		return nil, false
	}
	return w.n, true
}

// Parse parses an HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	return html.Parse(r)
}

// ParseString parses an HTML document held in a string.
func ParseString(s string) (*html.Node, error) {
	return html.Parse(strings.NewReader(s))
}

func (w node) Kind() locator.Kind {
	switch w.n.Type {
	case html.ElementNode:
		return locator.ElementNode
	case html.DocumentNode:
		return locator.DocumentNode
	case html.DoctypeNode:
		return locator.DoctypeNode
	case html.TextNode:
		return locator.TextNode
	case html.CommentNode:
		return locator.CommentNode
	}
	return locator.OtherNode
}

func (w node) Tag() string {
	if w.n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(w.n.Data)
}

func (w node) ID() string {
	v, _ := w.Attr("id")
	return v
}

func (w node) Attr(name string) (string, bool) {
	if w.n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range w.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (w node) Parent() locator.Node { return Wrap(w.n.Parent) }

func (w node) PreviousSibling() locator.Node { return Wrap(w.n.PrevSibling) }

// Elements returns every element below root in document order.
func Elements(root *html.Node) []*html.Node {
	var out []*html.Node
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.ElementNode {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(root)
	return out
}

// Detach removes n from its parent and returns the former parent, the
// natural anchor for locator.AssembleDetached.
func Detach(n *html.Node) *html.Node {
	parent := n.Parent
	if parent != nil {
		parent.RemoveChild(n)
	}
	return parent
}
