package htmltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/domtrail/locator"
)

func TestNodeKinds(t *testing.T) {
	doc, err := ParseString(`<!DOCTYPE html><!-- c --><p ID="x" data-k="v">t</p>`)
	require.NoError(t, err)

	d := Wrap(doc)
	assert.Equal(t, locator.DocumentNode, d.Kind())
	assert.Equal(t, "", d.Tag())
	assert.Equal(t, locator.DoctypeNode, Wrap(doc.FirstChild).Kind())

	var p locator.Node
	for _, n := range Elements(doc) {
		if n.Data == "p" {
			p = Wrap(n)
		}
	}
	require.NotNil(t, p)
	assert.Equal(t, "p", p.Tag())
	assert.Equal(t, "x", p.ID())
	v, ok := p.Attr("data-k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	_, ok = p.Attr("missing")
	assert.False(t, ok)
	assert.Equal(t, "body", p.Parent().Tag())

	raw, ok := Unwrap(p)
	require.True(t, ok)
	assert.Equal(t, locator.TextNode, Wrap(raw.FirstChild).Kind())
	_, ok = Unwrap(nil)
	assert.False(t, ok)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil))
}

func TestElementsOrder(t *testing.T) {
	doc, err := ParseString(`<div><span></span></div><p></p>`)
	require.NoError(t, err)

	var tags []string
	for _, n := range Elements(doc) {
		tags = append(tags, n.Data)
	}
	assert.Equal(t, []string{"html", "head", "body", "div", "span", "p"}, tags)
}

func TestDetach(t *testing.T) {
	doc, err := ParseString(`<div><span></span></div>`)
	require.NoError(t, err)
	var span = Elements(doc)[4]
	require.Equal(t, "span", span.Data)

	parent := Detach(span)
	require.NotNil(t, parent)
	assert.Equal(t, "div", parent.Data)
	assert.Nil(t, span.Parent)
	assert.Nil(t, parent.FirstChild)
	assert.Nil(t, Detach(span))
}
