package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Resolution is the outcome of resolving one raw preference value.
// OK is false when no vocabulary entry matched; Code is then meaningless.
type Resolution struct {
	Code  int
	Value string
	OK    bool
}

// Resolved holds one Resolution per dimension.
type Resolved [dimensionCount]Resolution

// Get returns the resolution for d.
func (r Resolved) Get(d Dimension) Resolution { return r[d] }

// Unresolved lists the dimensions that found no match.
func (r Resolved) Unresolved() []Dimension {
	var out []Dimension
	for _, d := range Dimensions {
		if !r[d].OK {
			out = append(out, d)
		}
	}
	return out
}

// RawValues exposes raw user input per dimension.
type RawValues interface {
	Raw(d Dimension) string
}

// Encoder resolves raw user strings into vocabulary codes.
type Encoder struct {
	cat *Catalog
}

// NewEncoder returns an Encoder over the vocabularies of cat.
func NewEncoder(cat *Catalog) Encoder {
	return Encoder{cat: cat}
}

// Resolve maps raw to a code of dimension d. Candidates are tried in order:
// the trimmed input, its capitalized form, its separator-to-space title
// form, then a case-insensitive scan that also treats '_', '-' and ' ' as
// equal.
func (e Encoder) Resolve(d Dimension, raw string) Resolution {
	vocab := e.cat.Vocabulary(d)
	value := strings.TrimSpace(raw)
	if value == "" || vocab.Len() == 0 {
		return Resolution{}
	}

	spaced := strings.NewReplacer("_", " ", "-", " ").Replace(value)
	for _, candidate := range []string{value, capitalize(value), title(spaced)} {
		if code, ok := vocab.Code(candidate); ok {
			return Resolution{Code: code, Value: candidate, OK: true}
		}
	}

	values := vocab.values
	for code, v := range values {
		if strings.EqualFold(v, value) {
			return Resolution{Code: code, Value: v, OK: true}
		}
	}
	folded := foldSeparators(value)
	for code, v := range values {
		if foldSeparators(v) == folded {
			return Resolution{Code: code, Value: v, OK: true}
		}
	}
	return Resolution{}
}

// ResolveAll resolves every dimension of in.
func (e Encoder) ResolveAll(in RawValues) Resolved {
	var out Resolved
	for _, d := range Dimensions {
		out[d] = e.Resolve(d, in.Raw(d))
	}
	return out
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// title upper-cases each letter that follows a non-letter and lower-cases
// every other letter.
func title(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func foldSeparators(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
