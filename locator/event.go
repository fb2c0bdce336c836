package locator

// Event is a recorded interaction reduced to what locators need.
type Event struct {
	Type   string
	Target Node
}

// ResolveTarget returns one bundle per node from ev.Target up to, but
// excluding, the document: the most specific first, so replay can retry
// with broader anchors. Entry i belongs to the i-th ancestor and is nil when
// that node is not an element.
func (b *Builder) ResolveTarget(ev Event) []*Bundle {
	bundles := []*Bundle{}
	for n := ev.Target; n != nil && n.Kind() != DocumentNode; n = n.Parent() {
		bundles = append(bundles, b.Build(n))
	}
	return bundles
}
