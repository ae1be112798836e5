// Package catalogtest builds small catalogs for tests.
package catalogtest

import (
	"fmt"

	"github.com/okian/homespark/internal/domain/catalog"
)

// Item returns a raw item with the given attributes.
func Item(id int64, cost int, style, room, io, climate string) catalog.RawItem {
	return catalog.RawItem{
		ID:            id,
		Name:          fmt.Sprintf("%s %s #%d", style, room, id),
		Cost:          cost,
		Style:         style,
		RoomType:      room,
		IndoorOutdoor: io,
		Climate:       climate,
	}
}

// Vocabularies returns the default vocabularies used by Build.
func Vocabularies() map[catalog.Dimension]*catalog.Vocabulary {
	return map[catalog.Dimension]*catalog.Vocabulary{
		catalog.Style:         catalog.NewVocabulary([]string{"Bohemian", "Industrial", "Mid_Century", "Minimalist", "Modern", "Rustic", "Traditional"}),
		catalog.RoomType:      catalog.NewVocabulary([]string{"Bathroom", "Bedroom", "Dining_Room", "Garden", "Kitchen", "Living_Room", "Patio"}),
		catalog.IndoorOutdoor: catalog.NewVocabulary([]string{"Indoor", "Outdoor"}),
		catalog.Climate:       catalog.NewVocabulary([]string{"Cold", "Dry", "Humid", "Temperate"}),
	}
}

// Build constructs a catalog over the default vocabularies and panics on
// error.
func Build(items ...catalog.RawItem) *catalog.Catalog {
	c, err := catalog.New(catalog.Metadata{
		Version:   "test",
		ModelType: "heuristic",
		TrainedOn: "2025-01-01T00:00:00",
	}, Vocabularies(), items)
	if err != nil {
		panic(err)
	}
	return c
}

// TenItems is a 10-item catalog with three Modern kitchens in [100,500],
// the one at cost 300 sitting on the midpoint.
func TenItems() *catalog.Catalog {
	return Build(
		Item(1, 120, "Modern", "Kitchen", "Indoor", "Temperate"),
		Item(2, 300, "Modern", "Kitchen", "Indoor", "Temperate"),
		Item(3, 480, "Modern", "Kitchen", "Indoor", "Temperate"),
		Item(4, 250, "Rustic", "Bedroom", "Indoor", "Cold"),
		Item(5, 310, "Industrial", "Living_Room", "Indoor", "Dry"),
		Item(6, 200, "Bohemian", "Bathroom", "Indoor", "Humid"),
		Item(7, 450, "Traditional", "Dining_Room", "Indoor", "Temperate"),
		Item(8, 350, "Modern", "Patio", "Outdoor", "Humid"),
		Item(9, 520, "Rustic", "Garden", "Outdoor", "Cold"),
		Item(10, 60, "Minimalist", "Bedroom", "Indoor", "Dry"),
	)
}
