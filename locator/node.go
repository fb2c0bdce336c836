// Package locator synthesises locators: path-like strings that let a
// recorder find the same logical element again at replay time.
//
// It works on any tree exposed through the Node interface. Adapters live in
// sub-packages (htmltree for golang.org/x/net/html) and in recorder/capture
// for ancestor chains serialised by a browser.
//
// Every function here is synchronous and read-only. The caller must keep the
// tree stable for the duration of one computation: walking a tree that is
// mutated concurrently gives undefined locators.
package locator

// Kind classifies a Node. Only elements contribute fragments.
type Kind int

const (
	OtherNode Kind = iota
	ElementNode
	DocumentNode // tree root, never part of a locator
	DoctypeNode  // ignored when counting siblings
	TextNode
	CommentNode
)

func (k Kind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case DocumentNode:
		return "document"
	case DoctypeNode:
		return "doctype"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	}
	return "other"
}

// Node is the read-only view of one tree node. Parent and PreviousSibling
// return nil (an untyped nil interface) when there is no such node.
type Node interface {
	Kind() Kind
	// Tag is the lowercase tag name for elements and "" otherwise.
	Tag() string
	// ID is the id attribute, "" when absent.
	ID() string
	Attr(name string) (string, bool)
	Parent() Node
	PreviousSibling() Node
}

func isElement(n Node) bool {
	return n != nil && n.Kind() == ElementNode
}
