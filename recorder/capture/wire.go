// Package capture defines what the recorder emits: the wire form of an
// event captured inside the page and the Record built from it. Consumers
// import this package to decode recorder output.
package capture

import "github.com/hazyhaar/domtrail/locator"

// Element is one element of an ancestor chain as serialised by the page at
// event time.
type Element struct {
	Tag   string            `json:"tag"`
	ID    string            `json:"id,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty"`
	// Prev lists the tags of the preceding element siblings, nearest first.
	Prev []string `json:"prev,omitempty"`
}

// Chain is an ancestor chain, target first. Rooted is true when the last
// element's parent is the document.
type Chain struct {
	Elements []Element `json:"elements"`
	Rooted   bool      `json:"rooted"`
}

// Payload is the message the capture script sends through the binding.
// Anchor is set only when the target was already removed from the
// document: it is the chain of the node the target was removed from.
type Payload struct {
	Type      string `json:"type"`
	URL       string `json:"url"`
	Timestamp int64  `json:"ts"`
	Target    Chain  `json:"target"`
	Anchor    *Chain `json:"anchor,omitempty"`
	Preview   string `json:"preview,omitempty"`
}

// Detached reports whether the target was no longer in the document.
func (p Payload) Detached() bool {
	return !p.Target.Rooted && p.Anchor != nil && len(p.Anchor.Elements) > 0
}

type chainNode struct {
	el     Element
	kind   locator.Kind
	parent *chainNode
	prev   *chainNode
}

// Node returns the first element of c as a locator.Node whose Parent and
// PreviousSibling follow the serialised chain. Siblings only carry their
// tag. A rooted chain ends in a document node. Nil when c is empty.
func (c Chain) Node() locator.Node {
	if len(c.Elements) == 0 {
		return nil
	}
	var parent *chainNode
	if c.Rooted {
		parent = &chainNode{kind: locator.DocumentNode}
	}
	var n *chainNode
	for i := len(c.Elements) - 1; i >= 0; i-- {
		n = &chainNode{el: c.Elements[i], kind: locator.ElementNode, parent: parent}
		n.prev = siblings(c.Elements[i].Prev, parent)
		parent = n
	}
	return n
}

// siblings builds the preceding-sibling list, nearest first.
func siblings(tags []string, parent *chainNode) *chainNode {
	var head *chainNode
	for i := len(tags) - 1; i >= 0; i-- {
		head = &chainNode{el: Element{Tag: tags[i]}, kind: locator.ElementNode, parent: parent, prev: head}
	}
	return head
}

func (n *chainNode) Kind() locator.Kind { return n.kind }
func (n *chainNode) Tag() string        { return n.el.Tag }
func (n *chainNode) ID() string         { return n.el.ID }

func (n *chainNode) Attr(name string) (string, bool) {
	if name == "id" && n.el.ID != "" {
		return n.el.ID, true
	}
	v, ok := n.el.Attrs[name]
	return v, ok
}

func (n *chainNode) Parent() locator.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *chainNode) PreviousSibling() locator.Node {
	if n.prev == nil {
		return nil
	}
	return n.prev
}
