package catalog_test

import (
	"errors"
	"testing"

	"github.com/okian/homespark/internal/domain/catalog"
	"github.com/okian/homespark/internal/domain/catalog/catalogtest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestVocabulary(t *testing.T) {
	Convey("Given raw vocabulary values", t, func() {
		v := catalog.NewVocabulary([]string{" Rustic", "Modern", "", "Modern", "Bohemian "})

		Convey("Then values are trimmed, unique and sorted", func() {
			So(v.Len(), ShouldEqual, 3)
			So(v.Values(), ShouldResemble, []string{"Bohemian", "Modern", "Rustic"})
		})

		Convey("Then codes are dense and round-trip", func() {
			for i, s := range v.Values() {
				code, ok := v.Code(s)
				So(ok, ShouldBeTrue)
				So(code, ShouldEqual, i)
				back, ok := v.Value(code)
				So(ok, ShouldBeTrue)
				So(back, ShouldEqual, s)
			}
		})

		Convey("Then unknown values and codes miss", func() {
			_, ok := v.Code("modern")
			So(ok, ShouldBeFalse)
			_, ok = v.Value(3)
			So(ok, ShouldBeFalse)
			_, ok = v.Value(-1)
			So(ok, ShouldBeFalse)
		})

		Convey("Then Values returns a copy", func() {
			vals := v.Values()
			vals[0] = "changed"
			So(v.Values()[0], ShouldEqual, "Bohemian")
		})
	})

	Convey("Given a nil vocabulary", t, func() {
		var v *catalog.Vocabulary

		Convey("Then lookups are safe", func() {
			So(v.Len(), ShouldEqual, 0)
			_, ok := v.Code("x")
			So(ok, ShouldBeFalse)
			So(v.Values(), ShouldBeNil)
		})
	})
}

func TestCatalogNew(t *testing.T) {
	Convey("Given the ten item fixture", t, func() {
		c := catalogtest.TenItems()

		Convey("Then items are ordered by cost then id", func() {
			items := c.Items()
			So(len(items), ShouldEqual, 10)
			for i := 1; i < len(items); i++ {
				So(items[i-1].Cost, ShouldBeLessThanOrEqualTo, items[i].Cost)
			}
			So(items[0].ID, ShouldEqual, 10)
		})

		Convey("Then item codes come from the shared vocabulary", func() {
			it, ok := c.Item(2)
			So(ok, ShouldBeTrue)
			code, _ := c.Vocabulary(catalog.Style).Code("Modern")
			So(it.StyleCode, ShouldEqual, code)
			So(it.Code(catalog.Style), ShouldEqual, code)
			So(it.Value(catalog.RoomType), ShouldEqual, "Kitchen")
		})

		Convey("Then MaxCost reports the highest item cost", func() {
			So(c.MaxCost(), ShouldEqual, 520)
		})

		Convey("Then InCostRange is inclusive on both ends", func() {
			got := c.InCostRange(200, 310)
			ids := make([]int64, 0, len(got))
			for _, it := range got {
				ids = append(ids, it.ID)
			}
			So(ids, ShouldResemble, []int64{6, 4, 2, 5})
		})

		Convey("Then an inverted or empty range yields nothing", func() {
			So(c.InCostRange(300, 200), ShouldBeEmpty)
			So(c.InCostRange(521, 1000), ShouldBeEmpty)
		})
	})

	Convey("Given an item whose value is absent from the vocabulary", t, func() {
		_, err := catalog.New(catalog.Metadata{}, catalogtest.Vocabularies(), []catalog.RawItem{
			catalogtest.Item(1, 100, "Art_Deco", "Kitchen", "Indoor", "Dry"),
		})

		Convey("Then construction fails with a vocabulary mismatch", func() {
			So(errors.Is(err, catalog.ErrVocabularyMismatch), ShouldBeTrue)
		})
	})

	Convey("Given duplicate item ids", t, func() {
		_, err := catalog.New(catalog.Metadata{}, nil, []catalog.RawItem{
			catalogtest.Item(1, 100, "Modern", "Kitchen", "Indoor", "Dry"),
			catalogtest.Item(1, 200, "Modern", "Kitchen", "Indoor", "Dry"),
		})

		Convey("Then construction fails", func() {
			So(errors.Is(err, catalog.ErrDuplicateItem), ShouldBeTrue)
		})
	})

	Convey("Given a negative cost", t, func() {
		_, err := catalog.New(catalog.Metadata{}, nil, []catalog.RawItem{
			catalogtest.Item(1, -5, "Modern", "Kitchen", "Indoor", "Dry"),
		})

		Convey("Then construction fails", func() {
			So(errors.Is(err, catalog.ErrInvalidItem), ShouldBeTrue)
		})
	})

	Convey("Given no vocabularies", t, func() {
		c, err := catalog.New(catalog.Metadata{}, nil, []catalog.RawItem{
			catalogtest.Item(1, 100, "Rustic", "Kitchen", "Indoor", "Dry"),
			catalogtest.Item(2, 100, "Modern", "Patio", "Outdoor", "Dry"),
		})

		Convey("Then vocabularies are derived from the items", func() {
			So(err, ShouldBeNil)
			So(c.Vocabulary(catalog.Style).Values(), ShouldResemble, []string{"Modern", "Rustic"})
			So(c.Vocabulary(catalog.IndoorOutdoor).Len(), ShouldEqual, 2)
		})
	})
}

func TestDimension(t *testing.T) {
	Convey("Given every dimension", t, func() {
		Convey("Then String and ParseDimension round-trip", func() {
			for _, d := range catalog.Dimensions {
				back, ok := catalog.ParseDimension(d.String())
				So(ok, ShouldBeTrue)
				So(back, ShouldEqual, d)
			}
			_, ok := catalog.ParseDimension("colour")
			So(ok, ShouldBeFalse)
		})
	})
}
