package capture

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hazyhaar/domtrail/idgen"
	"github.com/hazyhaar/domtrail/locator"
)

// Record is one recorded interaction. Locator is "" when no locator of
// sufficient strength exists; Bundles then still carry the fallbacks.
type Record struct {
	ID        string            `json:"id"` // UUIDv7
	SessionID string            `json:"session_id"`
	TabID     string            `json:"tab_id"`
	Type      string            `json:"type"`
	URL       string            `json:"url"`
	Timestamp int64             `json:"timestamp"` // epoch milliseconds
	Locator   string            `json:"locator"`
	Detached  bool              `json:"detached,omitempty"`
	Fragments []string          `json:"fragments,omitempty"`
	Bundles   []*locator.Bundle `json:"bundles"`
	Preview   string            `json:"preview,omitempty"`
}

// Weak reports whether the record carries no primary locator.
func (r Record) Weak() bool { return r.Locator == "" }

// maxPreview caps the sanitised preview length in bytes.
const maxPreview = 512

// Assembler turns payloads into records. Safe for concurrent use.
type Assembler struct {
	opts    *locator.Options
	builder *locator.Builder
	policy  *bluemonday.Policy
	ids     idgen.Generator
	now     func() time.Time
}

// NewAssembler returns an Assembler. A nil ids uses idgen.Default.
func NewAssembler(opts *locator.Options, providers locator.Providers, ids idgen.Generator) *Assembler {
	if ids == nil {
		ids = idgen.Default
	}
	return &Assembler{
		opts:    opts,
		builder: locator.NewBuilder(providers),
		policy:  bluemonday.UGCPolicy(),
		ids:     ids,
		now:     time.Now,
	}
}

// Record computes the locators of p.
func (a *Assembler) Record(sessionID, tabID string, p Payload) Record {
	target := p.Target.Node()

	var frags []locator.Fragment
	detached := p.Detached()
	if detached {
		frags = locator.DetachedPath(target, p.Anchor.Node(), a.opts)
	} else {
		frags = locator.BuildPath(target, a.opts)
	}

	ts := p.Timestamp
	if ts == 0 {
		ts = a.now().UnixMilli()
	}

	return Record{
		ID:        a.ids(),
		SessionID: sessionID,
		TabID:     tabID,
		Type:      p.Type,
		URL:       p.URL,
		Timestamp: ts,
		Locator:   locator.Assemble(frags),
		Detached:  detached,
		Fragments: locator.Exprs(frags),
		Bundles:   a.builder.ResolveTarget(locator.Event{Type: p.Type, Target: target}),
		Preview:   a.preview(p.Preview),
	}
}

func (a *Assembler) preview(raw string) string {
	s := strings.TrimSpace(a.policy.Sanitize(raw))
	if len(s) <= maxPreview {
		return s
	}
	// Cut on a rune boundary.
	cut := maxPreview
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
