package locator

const (
	inputTag = "input"
	imageTag = "img"
)

// BuildPath walks from start up to the first non-element (the document, or
// nil for a detached subtree) and returns the fragments contributed by every
// level. The walk never stops early: an ancestor with a stable id still gets
// its own fragment even when a deeper level already had one.
func BuildPath(start Node, opts *Options) []Fragment {
	var seq fragmentSeq
	walk(&seq, start, opts)
	return seq.slice()
}

func walk(seq *fragmentSeq, n Node, opts *Options) {
	if opts == nil {
		opts = &Options{}
	}
	for level := 0; isElement(n); level, n = level+1, n.Parent() {
		if opts.visit != nil {
			visit(opts.visit, n, seq.slice())
		}

		id := n.ID()
		tag := n.Tag()
		switch {
		case id == "" && tag == inputTag:
			seq.add(Fragment{Expr: "//" + tag, Kind: FragInput, Level: level, Placement: Back})
		case id == "" && tag == imageTag:
			seq.add(Fragment{Expr: "//" + tag, Kind: FragImage, Level: level, Placement: Front})
		case opts.stableID(id):
			seq.add(Fragment{Expr: "//*[@id=" + Literal(id) + "]", Kind: FragID, Level: level, Placement: Front})
		default:
			for _, spec := range opts.attrs {
				if expr, ok := Match(spec, n); ok {
					seq.add(Fragment{Expr: expr, Kind: FragAttribute, Level: level, Placement: Front})
				}
			}
		}
	}
}

// visit runs the hook; a panicking hook must not abort the walk.
func visit(fn VisitFunc, n Node, frags []Fragment) {
	defer func() { _ = recover() }()
	fn(n, frags)
}
