package fetch

import (
	"bytes"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	minDocument = 256
	minText     = 200
	minRatio    = 0.10
)

// mountPoints are empty containers single-page apps render into.
var mountPoints = []string{"root", "app", "__next", "__nuxt"}

// IsSufficient reports whether html carries enough visible text relative to
// its markup to be used as is. Script shells (an empty mount point, or a
// noscript asking for JavaScript) are never sufficient.
func IsSufficient(doc []byte) bool {
	if len(doc) < minDocument {
		return false
	}
	text, shell := scan(doc)
	if shell || text < minText {
		return false
	}
	return float64(text)/float64(len(doc)) >= minRatio
}

// scan counts the non-space text bytes outside script, style and template,
// and detects script shell markers.
func scan(doc []byte) (text int, shell bool) {
	z := html.NewTokenizer(bytes.NewReader(doc))
	var (
		skip      int
		noscript  bool
		openMount bool
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return text, shell
		case html.StartTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Script, atom.Style, atom.Template:
				skip++
			case atom.Noscript:
				noscript = true
			case atom.Div:
				openMount = isMountPoint(tok)
				continue
			}
		case html.EndTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Script, atom.Style, atom.Template:
				if skip > 0 {
					skip--
				}
			case atom.Noscript:
				noscript = false
			case atom.Div:
				if openMount {
					shell = true
				}
			}
		case html.TextToken:
			raw := z.Text()
			if noscript && strings.Contains(strings.ToLower(string(raw)), "javascript") {
				shell = true
			}
			if skip == 0 && !noscript {
				text += visible(raw)
			}
		}
		openMount = false
	}
}

func isMountPoint(tok html.Token) bool {
	for _, a := range tok.Attr {
		if a.Key != "id" {
			continue
		}
		for _, m := range mountPoints {
			if a.Val == m {
				return true
			}
		}
	}
	return false
}

func visible(b []byte) int {
	n := 0
	for _, r := range string(b) {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
