package domlocate

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/domtrail/idgen"
	"github.com/hazyhaar/domtrail/locator"
)

func newService(t *testing.T, pattern string, specs ...locator.AttributeSpec) *Service {
	t.Helper()
	opts, err := locator.NewOptions(locator.Config{AttributesToStore: specs, IDExclusionPattern: pattern})
	require.NoError(t, err)
	return New(Config{Options: opts, Metrics: NewMetrics()})
}

func TestLocate_ExcludedID(t *testing.T) {
	s := newService(t, `^search-[0-9a-f]+$`, locator.Single("name"))

	resp, err := s.Locate(context.Background(), LocateRequest{
		HTML:   `<form id="f"><input id="search-7a9f" name="q"></form>`,
		Target: "input",
		Verify: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "//*[@id='f']//*[@name='q']", resp.Locator)
	assert.False(t, resp.Weak)
	assert.Equal(t, "/html/body/form/input", resp.TreeXPath)
	require.Len(t, resp.Bundles, 4)
	assert.Equal(t, "input#search-7a9f", resp.Bundles[0].CSSSelector)
	require.NotNil(t, resp.Verification)
	assert.True(t, resp.Verification.ResolvesToTarget)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.locates.WithLabelValues(outcomeOK)))
}

func TestLocate_XPathTarget(t *testing.T) {
	s := newService(t, "")
	resp, err := s.Locate(context.Background(), LocateRequest{
		HTML:   `<div id="a"><span id="b">x</span></div>`,
		Target: "//span",
	})
	require.NoError(t, err)
	assert.Equal(t, "//*[@id='a']//*[@id='b']", resp.Locator)
}

func TestLocate_Weak(t *testing.T) {
	s := newService(t, "")
	resp, err := s.Locate(context.Background(), LocateRequest{
		HTML:   `<p id="only">x</p>`,
		Target: "#only",
		Verify: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "", resp.Locator)
	assert.True(t, resp.Weak)
	assert.Nil(t, resp.Verification)
	assert.Equal(t, "/html/body/p", resp.TreeXPath)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.locates.WithLabelValues(outcomeWeak)))
}

func TestLocate_Detached(t *testing.T) {
	s := newService(t, "", locator.Single("name"))
	resp, err := s.Locate(context.Background(), LocateRequest{
		HTML:   `<ul id="list"><li name="a">1</li><li name="b">2</li></ul>`,
		Target: `li[name="b"]`,
		Detach: true,
		Verify: true,
	})
	require.NoError(t, err)
	assert.True(t, resp.Detached)
	assert.Equal(t, "//*[@id='list']//*[@name='b']", resp.Locator)
	assert.Equal(t, "/html/body/ul/li[2]", resp.TreeXPath)
	require.Len(t, resp.Bundles, 1)
	assert.True(t, resp.Verification.ResolvesToTarget)
}

func TestLocate_DetachedWithAnchor(t *testing.T) {
	s := newService(t, "", locator.Single("title"))
	resp, err := s.Locate(context.Background(), LocateRequest{
		HTML:   `<div id="host"><section><p title="t">x</p></section></div>`,
		Target: "p",
		Detach: true,
		Anchor: "#host",
		Verify: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "//*[@id='host']//*[@title='t']", resp.Locator)
	assert.True(t, resp.Verification.ResolvesToTarget)
}

func TestLocate_Override(t *testing.T) {
	s := newService(t, "", locator.Single("name"))
	resp, err := s.Locate(context.Background(), LocateRequest{
		HTML:       `<div id="d"><b data-qa="x" name="n">y</b></div>`,
		Target:     "b",
		Attributes: [][]string{{"data-qa"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "//*[@id='d']//*[@data-qa='x']", resp.Locator)

	empty := ""
	resp, err = s.Locate(context.Background(), LocateRequest{
		HTML:        `<div id="d"><b name="n">y</b></div>`,
		Target:      "b",
		IDExclusion: &empty,
	})
	require.NoError(t, err)
	assert.Equal(t, "//*[@id='d']//*[@name='n']", resp.Locator, "service attributes kept")
}

func TestLocate_Errors(t *testing.T) {
	s := newService(t, "")
	bad := "("
	doc := `<div><p class="x">1</p><p class="x">2</p></div>`

	tests := []struct {
		name string
		req  LocateRequest
		want error
	}{
		{"empty target", LocateRequest{HTML: doc}, ErrBadRequest},
		{"not found", LocateRequest{HTML: doc, Target: "table"}, ErrTargetNotFound},
		{"ambiguous", LocateRequest{HTML: doc, Target: "p.x"}, ErrAmbiguousTarget},
		{"invalid selector", LocateRequest{HTML: doc, Target: "p["}, ErrBadRequest},
		{"invalid xpath", LocateRequest{HTML: doc, Target: "//p["}, ErrBadRequest},
		{"invalid pattern", LocateRequest{HTML: doc, Target: "div", IDExclusion: &bad}, ErrBadRequest},
		{"anchor without detach", LocateRequest{HTML: doc, Target: "div", Anchor: "body"}, ErrBadRequest},
		{"anchor inside target", LocateRequest{HTML: doc, Target: "div", Detach: true, Anchor: "p:first-child"}, ErrBadRequest},
		{"detach root", LocateRequest{HTML: doc, Target: "html", Detach: true}, ErrBadRequest},
		{"anchor not found", LocateRequest{HTML: doc, Target: "div", Detach: true, Anchor: "#nope"}, ErrTargetNotFound},
		{"bad session id", LocateRequest{HTML: doc, Target: "div", SessionID: "nope"}, ErrBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Locate(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, float64(len(tests)), testutil.ToFloat64(s.metrics.locates.WithLabelValues(outcomeError)))
}

func TestLocate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Config{}).Locate(ctx, LocateRequest{HTML: "<p></p>", Target: "p"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSessionID(t *testing.T) {
	s := New(Config{})
	a, b := s.NewSessionID(), s.NewSessionID()
	assert.True(t, idgen.IsSession(a.SessionID))
	assert.NotEqual(t, a.SessionID, b.SessionID)
}
