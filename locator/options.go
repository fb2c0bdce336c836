package locator

import (
	"fmt"
	"regexp"
)

// AttributeSpec is one entry of the attribute priority list: a single
// attribute name, or a group of names combined with "and" into one fragment.
type AttributeSpec []string

// Single builds a one-name AttributeSpec.
func Single(name string) AttributeSpec { return AttributeSpec{name} }

// Group builds a multi-name AttributeSpec.
func Group(names ...string) AttributeSpec { return AttributeSpec(names) }

// VisitFunc is called once per visited ancestor with the fragments
// collected so far. It is an instrumentation side channel: it cannot change
// the produced path, and a panic inside it is recovered and ignored.
type VisitFunc func(n Node, fragments []Fragment)

// Config is the plain-data form of Options.
type Config struct {
	// AttributesToStore lists the stable attributes in priority order,
	// most preferred first.
	AttributesToStore []AttributeSpec
	// IDExclusionPattern is an RE2 expression. Ids it matches are treated
	// as auto-generated and never used. Empty excludes nothing.
	IDExclusionPattern string
	OnVisit            VisitFunc
}

// Options is the immutable configuration shared by every entry point.
// Build it with NewOptions; the zero value is not usable.
type Options struct {
	attrs   []AttributeSpec
	exclude *regexp.Regexp
	visit   VisitFunc
}

// NewOptions validates and freezes cfg.
func NewOptions(cfg Config) (*Options, error) {
	o := &Options{visit: cfg.OnVisit}
	for i, spec := range cfg.AttributesToStore {
		if len(spec) == 0 {
			return nil, fmt.Errorf("locator: attribute spec %d is empty", i)
		}
		for _, name := range spec {
			if name == "" {
				return nil, fmt.Errorf("locator: attribute spec %d has an empty name", i)
			}
		}
		o.attrs = append(o.attrs, append(AttributeSpec(nil), spec...))
	}
	if cfg.IDExclusionPattern != "" {
		re, err := regexp.Compile(cfg.IDExclusionPattern)
		if err != nil {
			return nil, fmt.Errorf("locator: id exclusion pattern: %w", err)
		}
		o.exclude = re
	}
	return o, nil
}

// MustOptions is NewOptions for static configuration; it panics on error.
func MustOptions(cfg Config) *Options {
	o, err := NewOptions(cfg)
	if err != nil {
		panic(err)
	}
	return o
}

// WithVisit returns a copy of o using visit as instrumentation hook.
func (o *Options) WithVisit(visit VisitFunc) *Options {
	c := *o
	c.visit = visit
	return &c
}

// Attributes returns a copy of the attribute priority list.
func (o *Options) Attributes() []AttributeSpec {
	out := make([]AttributeSpec, len(o.attrs))
	for i, s := range o.attrs {
		out[i] = append(AttributeSpec(nil), s...)
	}
	return out
}

// IDExclusionPattern returns the source of the exclusion pattern.
func (o *Options) IDExclusionPattern() string {
	if o.exclude == nil {
		return ""
	}
	return o.exclude.String()
}

// stableID reports whether id can anchor a fragment.
func (o *Options) stableID(id string) bool {
	if id == "" {
		return false
	}
	return o.exclude == nil || !o.exclude.MatchString(id)
}
