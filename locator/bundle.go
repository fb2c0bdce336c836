package locator

// Providers supplies the CSS based strategies of a Bundle. Each method is a
// pure function of the node.
type Providers interface {
	// CSSPath is a full ancestor path such as "html body div#main form.login".
	CSSPath(n Node) string
	// CSSSelector is a selector for n alone, e.g. "input#q.search".
	CSSSelector(n Node) string
	// Selectors returns generic selectors ranked best first.
	Selectors(n Node) []string
}

// Bundle holds every addressing strategy computed for one node at one
// instant. None is guaranteed unique; replay tries them in order.
type Bundle struct {
	TreeXPath   string   `json:"tree_xpath,omitempty"`
	CSSPath     string   `json:"css_path,omitempty"`
	CSSSelector string   `json:"css_selector,omitempty"`
	Selectors   []string `json:"selectors,omitempty"`
}

// Builder composes bundles from the positional walker and Providers.
// It holds no mutable state.
type Builder struct {
	providers Providers
}

// NewBuilder returns a Builder. A nil p leaves the CSS strategies empty.
func NewBuilder(p Providers) *Builder {
	return &Builder{providers: p}
}

// Build returns nil when n is absent or not an element. Strategies are
// returned as computed, without merging or deduplication.
func (b *Builder) Build(n Node) *Bundle {
	if !isElement(n) {
		return nil
	}
	bundle := &Bundle{}
	bundle.TreeXPath, _ = TreePath(n)
	if b.providers != nil {
		bundle.CSSPath = b.providers.CSSPath(n)
		bundle.CSSSelector = b.providers.CSSSelector(n)
		bundle.Selectors = b.providers.Selectors(n)
	}
	return bundle
}
