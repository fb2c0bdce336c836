package locator

import "strings"

// Assemble concatenates fragments into one locator. A single fragment is too
// weak to find the element again and yields "", as does an empty sequence.
func Assemble(frags []Fragment) string {
	if len(frags) == 1 {
		return ""
	}
	var b strings.Builder
	for _, f := range frags {
		b.WriteString(f.Expr)
	}
	return b.String()
}

// XPathID is Assemble(BuildPath(n, opts)).
func XPathID(n Node, opts *Options) string {
	return Assemble(BuildPath(n, opts))
}

// AssembleDetached builds a locator for target, a node no longer reachable
// from the root, qualified by anchor, a node still in the tree (usually the
// parent target was removed from). Both walks feed the same sequence, so
// the anchor's ancestors lead the path and input fragments stay last.
func AssembleDetached(target, anchor Node, opts *Options) string {
	return Assemble(DetachedPath(target, anchor, opts))
}

// DetachedPath returns the fragments AssembleDetached concatenates.
func DetachedPath(target, anchor Node, opts *Options) []Fragment {
	var seq fragmentSeq
	walk(&seq, target, opts)
	walk(&seq, anchor, opts)
	return seq.slice()
}
