package catalog_test

import (
	"testing"

	"github.com/okian/homespark/internal/domain/catalog"
	"github.com/okian/homespark/internal/domain/catalog/catalogtest"
	. "github.com/smartystreets/goconvey/convey"
)

type rawPrefs map[catalog.Dimension]string

func (r rawPrefs) Raw(d catalog.Dimension) string { return r[d] }

func TestEncoderResolve(t *testing.T) {
	Convey("Given an encoder over the fixture vocabularies", t, func() {
		enc := catalog.NewEncoder(catalogtest.TenItems())

		Convey("When the input matches exactly", func() {
			r := enc.Resolve(catalog.Style, "Modern")
			So(r.OK, ShouldBeTrue)
			So(r.Value, ShouldEqual, "Modern")
		})

		Convey("When the input only needs capitalizing", func() {
			r := enc.Resolve(catalog.Style, "  mODERN ")
			So(r.OK, ShouldBeTrue)
			So(r.Value, ShouldEqual, "Modern")
		})

		Convey("When the input needs separator title casing", func() {
			vocab := catalog.NewVocabulary([]string{"Living Room"})
			c, err := catalog.New(catalog.Metadata{}, map[catalog.Dimension]*catalog.Vocabulary{catalog.RoomType: vocab}, []catalog.RawItem{
				catalogtest.Item(1, 10, "Modern", "Living Room", "Indoor", "Dry"),
			})
			So(err, ShouldBeNil)
			r := catalog.NewEncoder(c).Resolve(catalog.RoomType, "living-room")
			So(r.OK, ShouldBeTrue)
			So(r.Value, ShouldEqual, "Living Room")
		})

		Convey("When 'mid century' is given for a Mid_Century vocabulary", func() {
			r := enc.Resolve(catalog.Style, "mid century")
			want, _ := catalog.NewVocabulary([]string{"Bohemian", "Industrial", "Mid_Century"}).Code("Mid_Century")
			So(r.OK, ShouldBeTrue)
			So(r.Value, ShouldEqual, "Mid_Century")
			So(r.Code, ShouldEqual, want)
		})

		Convey("When only a case-insensitive scan matches", func() {
			r := enc.Resolve(catalog.RoomType, "LIVING_ROOM")
			So(r.OK, ShouldBeTrue)
			So(r.Value, ShouldEqual, "Living_Room")
		})

		Convey("When nothing matches", func() {
			r := enc.Resolve(catalog.Style, "Art Deco")
			So(r.OK, ShouldBeFalse)
			So(r.Code, ShouldEqual, 0)
		})

		Convey("When the input is blank", func() {
			So(enc.Resolve(catalog.Climate, "   ").OK, ShouldBeFalse)
		})

		Convey("When resolving all dimensions", func() {
			res := enc.ResolveAll(rawPrefs{
				catalog.Style:         "modern",
				catalog.RoomType:      "kitchen",
				catalog.IndoorOutdoor: "indoor",
				catalog.Climate:       "tropical",
			})
			So(res.Get(catalog.Style).OK, ShouldBeTrue)
			So(res.Get(catalog.RoomType).Value, ShouldEqual, "Kitchen")
			So(res.Unresolved(), ShouldResemble, []catalog.Dimension{catalog.Climate})
		})
	})
}
