package locator

import (
	"strconv"
	"strings"
)

// TreePath returns the purely positional path of n, e.g.
// /html/body/div[2]/input. A step carries an index only when earlier
// siblings share its tag. ok is false when n is not an element.
func TreePath(n Node) (path string, ok bool) {
	var steps []string
	for ; isElement(n); n = n.Parent() {
		tag := n.Tag()
		same := 0
		for sib := n.PreviousSibling(); sib != nil; sib = sib.PreviousSibling() {
			if sib.Kind() == DoctypeNode {
				continue
			}
			if sib.Kind() == ElementNode && sib.Tag() == tag {
				same++
			}
		}
		if same > 0 {
			tag += "[" + strconv.Itoa(same+1) + "]"
		}
		steps = append(steps, tag)
	}
	if len(steps) == 0 {
		return "", false
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return "/" + strings.Join(steps, "/"), true
}
