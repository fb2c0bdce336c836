package locator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/domtrail/internal/resolve"
	"github.com/hazyhaar/domtrail/locator"
	"github.com/hazyhaar/domtrail/locator/cssgen"
	"github.com/hazyhaar/domtrail/locator/htmltree"
)

func TestBuilder_Build(t *testing.T) {
	doc := parse(t, `<ul id="menu"><li class="item">a</li><li class="item active">b</li></ul>`)
	li := find(t, doc, "li.active")

	b := locator.NewBuilder(cssgen.New(cssgen.WithCounter(resolve.CSSCounter(doc))))
	bundle := b.Build(htmltree.Wrap(li))
	require.NotNil(t, bundle)

	assert.Equal(t, "/html/body/ul/li[2]", bundle.TreeXPath)
	assert.Equal(t, "html body ul#menu li.item", bundle.CSSPath)
	assert.Equal(t, "li.item", bundle.CSSSelector)
	require.NotEmpty(t, bundle.Selectors)
	assert.Equal(t, 1, resolve.CSSCounter(doc)(bundle.Selectors[0]), "best selector must be unique")
}

func TestBuilder_BuildNonElement(t *testing.T) {
	doc := parse(t, `<p>text</p>`)
	b := locator.NewBuilder(cssgen.New())

	assert.Nil(t, b.Build(nil))
	assert.Nil(t, b.Build(htmltree.Wrap(doc)))
	assert.Nil(t, b.Build(htmltree.Wrap(find(t, doc, "p").FirstChild)))
}

func TestBuilder_NilProviders(t *testing.T) {
	doc := parse(t, `<p>text</p>`)
	bundle := locator.NewBuilder(nil).Build(htmltree.Wrap(find(t, doc, "p")))

	require.NotNil(t, bundle)
	assert.Equal(t, "/html/body/p", bundle.TreeXPath)
	assert.Empty(t, bundle.CSSPath)
	assert.Empty(t, bundle.Selectors)
}

func TestResolveTarget(t *testing.T) {
	doc := parse(t, `<ul><li>a</li></ul>`)
	li := find(t, doc, "li")
	b := locator.NewBuilder(nil)

	bundles := b.ResolveTarget(locator.Event{Type: "click", Target: htmltree.Wrap(li)})
	require.Len(t, bundles, 4) // li, ul, body, html
	want := []string{"/html/body/ul/li", "/html/body/ul", "/html/body", "/html"}
	for i, w := range want {
		require.NotNil(t, bundles[i])
		assert.Equal(t, w, bundles[i].TreeXPath)
	}
}

func TestResolveTarget_TextTargetKeepsSlot(t *testing.T) {
	doc := parse(t, `<p>text</p>`)
	text := find(t, doc, "p").FirstChild
	b := locator.NewBuilder(nil)

	bundles := b.ResolveTarget(locator.Event{Type: "input", Target: htmltree.Wrap(text)})
	require.Len(t, bundles, 4)
	assert.Nil(t, bundles[0])
	assert.Equal(t, "/html/body/p", bundles[1].TreeXPath)
}

func TestResolveTarget_Empty(t *testing.T) {
	doc := parse(t, `<p></p>`)
	b := locator.NewBuilder(nil)

	assert.Empty(t, b.ResolveTarget(locator.Event{Type: "click"}))
	got := b.ResolveTarget(locator.Event{Type: "click", Target: htmltree.Wrap(doc)})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
