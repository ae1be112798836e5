// Package catalog holds the read-only item table and the per-dimension
// category vocabularies that the recommendation engine matches against.
package catalog

import (
	"sort"
	"strings"
)

// Dimension identifies one categorical preference axis.
type Dimension int

const (
	Style Dimension = iota
	RoomType
	IndoorOutdoor
	Climate

	dimensionCount = 4
)

// Dimensions lists every dimension in a stable order.
var Dimensions = [dimensionCount]Dimension{Style, RoomType, IndoorOutdoor, Climate}

// String returns the artifact key of the dimension.
func (d Dimension) String() string {
	switch d {
	case Style:
		return "style"
	case RoomType:
		return "room_type"
	case IndoorOutdoor:
		return "indoor_outdoor"
	case Climate:
		return "climate"
	default:
		return "unknown"
	}
}

// ParseDimension maps an artifact key back to its Dimension.
func ParseDimension(s string) (Dimension, bool) {
	for _, d := range Dimensions {
		if d.String() == s {
			return d, true
		}
	}
	return 0, false
}

// Vocabulary is a bijection between canonical category strings and dense
// codes 0..k-1. Codes follow lexicographic order of the canonical strings.
type Vocabulary struct {
	values []string
	codes  map[string]int
}

// NewVocabulary builds a vocabulary from raw values. Values are trimmed,
// empty strings dropped and duplicates collapsed before sorting.
func NewVocabulary(values []string) *Vocabulary {
	seen := make(map[string]struct{}, len(values))
	uniq := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		uniq = append(uniq, v)
	}
	sort.Strings(uniq)

	codes := make(map[string]int, len(uniq))
	for i, v := range uniq {
		codes[v] = i
	}
	return &Vocabulary{values: uniq, codes: codes}
}

// Code returns the code of an exact canonical value.
func (v *Vocabulary) Code(value string) (int, bool) {
	if v == nil {
		return 0, false
	}
	c, ok := v.codes[value]
	return c, ok
}

// Value returns the canonical value for a code.
func (v *Vocabulary) Value(code int) (string, bool) {
	if v == nil || code < 0 || code >= len(v.values) {
		return "", false
	}
	return v.values[code], true
}

// Values returns a copy of the canonical values in code order.
func (v *Vocabulary) Values() []string {
	if v == nil {
		return nil
	}
	out := make([]string, len(v.values))
	copy(out, v.values)
	return out
}

// Len returns the number of entries.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.values)
}
