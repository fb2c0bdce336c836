package locator

import "strings"

// Attributes is the attribute lookup used by the matcher. Node satisfies it.
type Attributes interface {
	Attr(name string) (string, bool)
}

// AttrMap adapts a plain map to Attributes.
type AttrMap map[string]string

func (m AttrMap) Attr(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// MatchSingle returns //*[@name='value'] when attrs carries name.
func MatchSingle(name string, attrs Attributes) (string, bool) {
	v, ok := attrs.Attr(name)
	if !ok {
		return "", false
	}
	return "//*[" + equality(name, v) + "]", true
}

// MatchGroup joins the equality tests of every present attribute of names,
// in configured order, into one fragment. A group of one name is the
// single form.
func MatchGroup(names []string, attrs Attributes) (string, bool) {
	if len(names) == 1 {
		return MatchSingle(names[0], attrs)
	}
	var tests []string
	for _, name := range names {
		if v, ok := attrs.Attr(name); ok {
			tests = append(tests, equality(name, v))
		}
	}
	if len(tests) == 0 {
		return "", false
	}
	return "//*[" + strings.Join(tests, " and ") + "]", true
}

// Match dispatches spec to MatchSingle or MatchGroup.
func Match(spec AttributeSpec, attrs Attributes) (string, bool) {
	switch len(spec) {
	case 0:
		return "", false
	case 1:
		return MatchSingle(spec[0], attrs)
	}
	return MatchGroup(spec, attrs)
}

func equality(name, value string) string {
	return "@" + name + "=" + Literal(value)
}

// Literal quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so a value holding both quote kinds becomes a concat() call.
func Literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	var b strings.Builder
	b.WriteString("concat(")
	for i, p := range parts {
		if i > 0 {
			b.WriteString(`, "'", `)
		}
		b.WriteString("'" + p + "'")
	}
	b.WriteString(")")
	return b.String()
}
