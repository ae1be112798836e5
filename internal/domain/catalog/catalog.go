package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Metadata describes the artifact a catalog was built from.
type Metadata struct {
	Version   string `json:"version"`
	ModelType string `json:"model_type"`
	TrainedOn string `json:"trained_on"`
	MaxCost   int    `json:"max_cost,omitempty"`
}

// RawItem is an item as it comes out of a catalog source, before encoding.
type RawItem struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Cost          int    `json:"cost"`
	Style         string `json:"style"`
	RoomType      string `json:"room_type"`
	IndoorOutdoor string `json:"indoor_outdoor"`
	Climate       string `json:"climate"`
}

// Item is an encoded, immutable catalog entry.
type Item struct {
	ID                int64
	Name              string
	Cost              int
	Style             string
	StyleCode         int
	RoomType          string
	RoomTypeCode      int
	IndoorOutdoor     string
	IndoorOutdoorCode int
	Climate           string
	ClimateCode       int
}

// Value returns the canonical string of the item for d.
func (it Item) Value(d Dimension) string {
	switch d {
	case Style:
		return it.Style
	case RoomType:
		return it.RoomType
	case IndoorOutdoor:
		return it.IndoorOutdoor
	case Climate:
		return it.Climate
	default:
		return ""
	}
}

// Code returns the category code of the item for d.
func (it Item) Code(d Dimension) int {
	switch d {
	case Style:
		return it.StyleCode
	case RoomType:
		return it.RoomTypeCode
	case IndoorOutdoor:
		return it.IndoorOutdoorCode
	case Climate:
		return it.ClimateCode
	default:
		return -1
	}
}

// Raw strips the codes off the item.
func (it Item) Raw() RawItem {
	return RawItem{
		ID:            it.ID,
		Name:          it.Name,
		Cost:          it.Cost,
		Style:         it.Style,
		RoomType:      it.RoomType,
		IndoorOutdoor: it.IndoorOutdoor,
		Climate:       it.Climate,
	}
}

func (r RawItem) value(d Dimension) string {
	switch d {
	case Style:
		return r.Style
	case RoomType:
		return r.RoomType
	case IndoorOutdoor:
		return r.IndoorOutdoor
	case Climate:
		return r.Climate
	default:
		return ""
	}
}

// Catalog is the process-wide item table. It is built once and never
// mutated; all methods are safe for concurrent use.
type Catalog struct {
	meta    Metadata
	vocabs  [dimensionCount]*Vocabulary
	items   []Item // sorted by (cost ASC, id ASC)
	byID    map[int64]int
	maxCost int
}

// New encodes raw items against vocabs and returns a Catalog. A dimension
// with no vocabulary gets one derived from the items themselves. Every item
// value must exist in its dimension's vocabulary.
func New(meta Metadata, vocabs map[Dimension]*Vocabulary, raw []RawItem) (*Catalog, error) {
	c := &Catalog{
		meta:  meta,
		items: make([]Item, 0, len(raw)),
		byID:  make(map[int64]int, len(raw)),
	}

	for _, d := range Dimensions {
		if v, ok := vocabs[d]; ok && v != nil && v.Len() > 0 {
			c.vocabs[d] = v
			continue
		}
		values := make([]string, 0, len(raw))
		for _, r := range raw {
			values = append(values, r.value(d))
		}
		c.vocabs[d] = NewVocabulary(values)
	}

	seen := make(map[int64]struct{}, len(raw))
	for _, r := range raw {
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("item %d: %w", r.ID, ErrDuplicateItem)
		}
		seen[r.ID] = struct{}{}
		if r.Cost < 0 {
			return nil, fmt.Errorf("item %d has negative cost %d: %w", r.ID, r.Cost, ErrInvalidItem)
		}
		it, err := c.encode(r)
		if err != nil {
			return nil, err
		}
		c.items = append(c.items, it)
		if it.Cost > c.maxCost {
			c.maxCost = it.Cost
		}
	}

	sort.Slice(c.items, func(i, j int) bool {
		if c.items[i].Cost != c.items[j].Cost {
			return c.items[i].Cost < c.items[j].Cost
		}
		return c.items[i].ID < c.items[j].ID
	})
	for i, it := range c.items {
		c.byID[it.ID] = i
	}
	return c, nil
}

func (c *Catalog) encode(r RawItem) (Item, error) {
	it := Item{ID: r.ID, Name: strings.TrimSpace(r.Name), Cost: r.Cost}
	for _, d := range Dimensions {
		v := strings.TrimSpace(r.value(d))
		code, ok := c.vocabs[d].Code(v)
		if !ok {
			return Item{}, fmt.Errorf("item %d %s=%q: %w", r.ID, d, v, ErrVocabularyMismatch)
		}
		switch d {
		case Style:
			it.Style, it.StyleCode = v, code
		case RoomType:
			it.RoomType, it.RoomTypeCode = v, code
		case IndoorOutdoor:
			it.IndoorOutdoor, it.IndoorOutdoorCode = v, code
		case Climate:
			it.Climate, it.ClimateCode = v, code
		}
	}
	return it, nil
}

// Items returns all items ordered by cost then id. Callers must not modify
// the returned slice.
func (c *Catalog) Items() []Item { return c.items }

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// MaxCost returns the highest item cost in the catalog.
func (c *Catalog) MaxCost() int { return c.maxCost }

// Metadata returns the artifact metadata.
func (c *Catalog) Metadata() Metadata { return c.meta }

// Vocabulary returns the vocabulary for d.
func (c *Catalog) Vocabulary(d Dimension) *Vocabulary {
	if d < 0 || int(d) >= dimensionCount {
		return nil
	}
	return c.vocabs[d]
}

// Item looks up an item by id.
func (c *Catalog) Item(id int64) (Item, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// InCostRange returns the items with lo <= cost <= hi, ordered by cost then
// id. The result aliases catalog storage and must not be modified.
func (c *Catalog) InCostRange(lo, hi float64) []Item {
	if hi < lo {
		return nil
	}
	start := sort.Search(len(c.items), func(i int) bool { return float64(c.items[i].Cost) >= lo })
	end := sort.Search(len(c.items), func(i int) bool { return float64(c.items[i].Cost) > hi })
	if start >= end {
		return nil
	}
	return c.items[start:end]
}
