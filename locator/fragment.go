package locator

// FragmentKind tells which rule produced a fragment.
type FragmentKind int

const (
	FragAttribute FragmentKind = iota
	FragID
	FragImage
	FragInput
)

func (k FragmentKind) String() string {
	switch k {
	case FragID:
		return "id"
	case FragImage:
		return "img"
	case FragInput:
		return "input"
	}
	return "attribute"
}

// Placement says which end of the sequence a fragment was added to.
//
// Most fragments go to the front, so that outer ancestors end up left of
// inner ones. Input fragments are demoted to the back regardless of depth,
// while image fragments go to the front like ids and attributes.
type Placement int

const (
	Front Placement = iota
	Back
)

// Fragment is one path segment for one ancestor level.
type Fragment struct {
	Expr      string       `json:"expr"`
	Kind      FragmentKind `json:"kind"`
	Level     int          `json:"level"` // 0 is the start node, 1 its parent
	Placement Placement    `json:"placement"`
}

// fragmentSeq is a double-ended sequence: head holds front placements in
// insertion order (read back reversed), tail holds back placements.
type fragmentSeq struct {
	head []Fragment
	tail []Fragment
}

func (s *fragmentSeq) add(f Fragment) {
	if f.Placement == Back {
		s.tail = append(s.tail, f)
		return
	}
	s.head = append(s.head, f)
}

func (s *fragmentSeq) len() int { return len(s.head) + len(s.tail) }

func (s *fragmentSeq) slice() []Fragment {
	out := make([]Fragment, 0, s.len())
	for i := len(s.head) - 1; i >= 0; i-- {
		out = append(out, s.head[i])
	}
	return append(out, s.tail...)
}

// Exprs returns the Expr of every fragment.
func Exprs(frags []Fragment) []string {
	out := make([]string, len(frags))
	for i, f := range frags {
		out[i] = f.Expr
	}
	return out
}
