// Package domlocate computes locators for an element of an HTML document
// submitted by a client, and exposes that over HTTP and MCP.
package domlocate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/domtrail/idgen"
	"github.com/hazyhaar/domtrail/internal/resolve"
	"github.com/hazyhaar/domtrail/locator"
	"github.com/hazyhaar/domtrail/locator/cssgen"
	"github.com/hazyhaar/domtrail/locator/htmltree"
)

var (
	// ErrBadRequest wraps malformed requests.
	ErrBadRequest = errors.New("domlocate: bad request")
	// ErrTargetNotFound is returned when the target expression matches nothing.
	ErrTargetNotFound = errors.New("domlocate: target not found")
	// ErrAmbiguousTarget is returned when the target expression matches
	// more than one element.
	ErrAmbiguousTarget = errors.New("domlocate: target is ambiguous")
)

// LocateRequest asks for the locators of one element.
type LocateRequest struct {
	HTML string `json:"html"`
	// Target is an XPath (leading "/" or "(") or a CSS selector matching
	// exactly one element.
	Target string `json:"target"`
	// Detach removes the target from the document before computing, as
	// when a page deletes the element the user just clicked.
	Detach bool `json:"detach,omitempty"`
	// Anchor selects the node the detached target is qualified by.
	// Defaults to the target's parent. Requires Detach.
	Anchor string `json:"anchor,omitempty"`
	// Attributes and IDExclusion override the service options.
	Attributes  [][]string `json:"attributes,omitempty"`
	IDExclusion *string    `json:"id_exclusion,omitempty"`
	// Verify resolves the locator back on the document.
	Verify bool `json:"verify,omitempty"`
	// SessionID ties the call to a recording session in the logs.
	SessionID string `json:"session_id,omitempty"`
}

// LocateResponse carries every locator computed for the target.
type LocateResponse struct {
	Locator      string                `json:"locator"`
	Weak         bool                  `json:"weak"`
	Detached     bool                  `json:"detached,omitempty"`
	Fragments    []locator.Fragment    `json:"fragments"`
	TreeXPath    string                `json:"tree_xpath"`
	Bundles      []*locator.Bundle     `json:"bundles"`
	Verification *resolve.Verification `json:"verification,omitempty"`
}

// SessionResponse carries a fresh recording session id.
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// Config for creating a Service.
type Config struct {
	Options *locator.Options
	Metrics *Metrics
	Logger  *slog.Logger
}

// Service is safe for concurrent use.
type Service struct {
	opts    *locator.Options
	metrics *Metrics
	logger  *slog.Logger
}

// New creates a Service. A nil Options means no attributes and no id
// exclusion; a nil Metrics disables metrics.
func New(cfg Config) *Service {
	if cfg.Options == nil {
		cfg.Options = locator.MustOptions(locator.Config{})
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Service{opts: cfg.Options, metrics: cfg.Metrics, logger: cfg.Logger}
}

// NewSessionID returns a fresh session id.
func (s *Service) NewSessionID() SessionResponse {
	return SessionResponse{SessionID: idgen.NewSession()}
}

// Locate computes the locators of req.Target in req.HTML.
func (s *Service) Locate(ctx context.Context, req LocateRequest) (*LocateResponse, error) {
	resp, err := s.locate(ctx, req)
	switch {
	case err != nil:
		s.metrics.observe(outcomeError, 0)
	case resp.Weak:
		s.metrics.observe(outcomeWeak, len(resp.Fragments))
	default:
		s.metrics.observe(outcomeOK, len(resp.Fragments))
	}
	return resp, err
}

func (s *Service) locate(ctx context.Context, req LocateRequest) (*LocateResponse, error) {
	if strings.TrimSpace(req.Target) == "" {
		return nil, fmt.Errorf("%w: target is required", ErrBadRequest)
	}
	if req.Anchor != "" && !req.Detach {
		return nil, fmt.Errorf("%w: anchor requires detach", ErrBadRequest)
	}
	if req.SessionID != "" {
		if _, err := idgen.Parse(req.SessionID); err != nil {
			return nil, fmt.Errorf("%w: session_id: %v", ErrBadRequest, err)
		}
	}
	opts, err := s.options(req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := htmltree.ParseString(req.HTML)
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", ErrBadRequest, err)
	}
	target, err := one(doc, req.Target)
	if err != nil {
		return nil, err
	}

	resp := &LocateResponse{}
	if req.Detach {
		err = s.locateDetached(doc, target, req.Anchor, opts, resp)
	} else {
		s.locateAttached(doc, target, opts, resp)
	}
	if err != nil {
		return nil, err
	}
	resp.Weak = resp.Locator == ""
	resp.TreeXPath, _ = locator.TreePath(htmltree.Wrap(target))

	if req.Verify && !resp.Weak {
		v, err := resolve.Verify(doc, target, resp.Locator)
		if err != nil {
			return nil, fmt.Errorf("domlocate: verify: %w", err)
		}
		resp.Verification = &v
		if !v.ResolvesToTarget {
			s.logger.Debug("domlocate: locator does not resolve to target",
				"locator", resp.Locator, "matches", v.Matches, "target", excerpt(resolve.OuterHTML(target)))
		}
	}
	return resp, nil
}

func (s *Service) locateAttached(doc, target *html.Node, opts *locator.Options, resp *LocateResponse) {
	n := htmltree.Wrap(target)
	resp.Fragments = locator.BuildPath(n, opts)
	resp.Locator = locator.Assemble(resp.Fragments)

	b := locator.NewBuilder(cssgen.New(cssgen.WithCounter(resolve.CSSCounter(doc))))
	resp.Bundles = b.ResolveTarget(locator.Event{Type: "click", Target: n})
}

// locateDetached removes target, computes the two-walk locator from the
// detached state, then puts target back so it can be verified.
func (s *Service) locateDetached(doc, target *html.Node, anchorExpr string, opts *locator.Options, resp *LocateResponse) error {
	parent, next := target.Parent, target.NextSibling
	if parent == nil || parent.Type != html.ElementNode {
		return fmt.Errorf("%w: cannot detach the root element", ErrBadRequest)
	}

	anchor := parent
	if anchorExpr != "" {
		var err error
		if anchor, err = one(doc, anchorExpr); err != nil {
			return fmt.Errorf("anchor: %w", err)
		}
		if contains(target, anchor) {
			return fmt.Errorf("%w: anchor lies inside the target", ErrBadRequest)
		}
	}

	htmltree.Detach(target)
	defer parent.InsertBefore(target, next)

	n := htmltree.Wrap(target)
	resp.Detached = true
	resp.Fragments = locator.DetachedPath(n, htmltree.Wrap(anchor), opts)
	resp.Locator = locator.Assemble(resp.Fragments)
	resp.Bundles = locator.NewBuilder(cssgen.New()).ResolveTarget(locator.Event{Type: "click", Target: n})
	return nil
}

func (s *Service) options(req LocateRequest) (*locator.Options, error) {
	if req.Attributes == nil && req.IDExclusion == nil {
		return s.opts, nil
	}
	specs := s.opts.Attributes()
	if req.Attributes != nil {
		specs = make([]locator.AttributeSpec, len(req.Attributes))
		for i, a := range req.Attributes {
			specs[i] = locator.AttributeSpec(a)
		}
	}
	pattern := s.opts.IDExclusionPattern()
	if req.IDExclusion != nil {
		pattern = *req.IDExclusion
	}
	opts, err := locator.NewOptions(locator.Config{AttributesToStore: specs, IDExclusionPattern: pattern})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return opts, nil
}

func one(doc *html.Node, expr string) (*html.Node, error) {
	nodes, err := resolve.Any(doc, expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	switch len(nodes) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, expr)
	case 1:
		return nodes[0], nil
	}
	return nil, fmt.Errorf("%w: %s matches %d elements", ErrAmbiguousTarget, expr, len(nodes))
}

func contains(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// excerpt shortens markup for logs.
func excerpt(s string) string {
	const limit = 200
	if len(s) <= limit {
		return s
	}
	return strings.ToValidUTF8(s[:limit], "") + "…"
}
