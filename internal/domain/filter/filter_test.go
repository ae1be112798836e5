package filter_test

import (
	"testing"

	"github.com/okian/homespark/internal/domain/catalog"
	"github.com/okian/homespark/internal/domain/catalog/catalogtest"
	"github.com/okian/homespark/internal/domain/filter"
	"github.com/okian/homespark/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func resolve(c *catalog.Catalog, p model.Preferences) catalog.Resolved {
	return catalog.NewEncoder(c).ResolveAll(p)
}

func TestBudgetFilter(t *testing.T) {
	Convey("Given the ten item fixture", t, func() {
		c := catalogtest.TenItems()
		f := filter.New()

		Convey("When enough indoor items fall in the strict range", func() {
			p := model.Preferences{BudgetMin: 100, BudgetMax: 500, IndoorOutdoor: "indoor"}
			res := f.Filter(c, p, resolve(c, p))

			Convey("Then every survivor is indoor and within budget", func() {
				So(res.Widened, ShouldBeFalse)
				So(len(res.Items), ShouldEqual, 7)
				for _, it := range res.Items {
					So(it.IndoorOutdoor, ShouldEqual, "Indoor")
					So(it.Cost, ShouldBeBetweenOrEqual, 100, 500)
				}
				So(res.Bounds, ShouldResemble, filter.Bounds{Min: 100, Max: 500})
			})
		})

		Convey("When too few items survive the strict pass", func() {
			p := model.Preferences{BudgetMin: 280, BudgetMax: 320, IndoorOutdoor: "Indoor"}
			res := f.Filter(c, p, resolve(c, p))

			Convey("Then bounds widen by the 25 floor and filtering restarts from the catalog", func() {
				So(res.Widened, ShouldBeTrue)
				So(res.Bounds, ShouldResemble, filter.Bounds{Min: 255, Max: 345})
				ids := []int64{}
				for _, it := range res.Items {
					So(res.Bounds.Contains(it.Cost), ShouldBeTrue)
					ids = append(ids, it.ID)
				}
				So(ids, ShouldResemble, []int64{2, 5})
			})
		})

		Convey("When widening would cross zero", func() {
			p := model.Preferences{BudgetMin: 0, BudgetMax: 10, IndoorOutdoor: "indoor"}
			res := f.Filter(c, p, resolve(c, p))

			Convey("Then the lower bound clamps at zero", func() {
				So(res.Bounds.Min, ShouldEqual, 0)
				So(res.Bounds.Max, ShouldEqual, 35)
			})
		})

		Convey("When widening would exceed the catalog ceiling", func() {
			p := model.Preferences{BudgetMin: 500, BudgetMax: 540, IndoorOutdoor: "outdoor"}
			res := f.Filter(c, p, resolve(c, p))

			Convey("Then the upper bound clamps at the ceiling", func() {
				So(res.Bounds.Max, ShouldEqual, filter.DefaultMaxCost)
				So(res.Bounds.Min, ShouldEqual, 475)
				So(len(res.Items), ShouldEqual, 1)
			})
		})

		Convey("When the budget itself exceeds the ceiling", func() {
			p := model.Preferences{BudgetMin: 900, BudgetMax: 1000}
			res := f.Filter(c, p, resolve(c, p))

			Convey("Then the widened range never shrinks below the budget", func() {
				So(res.Bounds.Max, ShouldBeGreaterThanOrEqualTo, 1000)
				So(res.Items, ShouldBeEmpty)
			})
		})

		Convey("When the widening ratio beats the floor", func() {
			p := model.Preferences{BudgetMin: 0, BudgetMax: 1000, IndoorOutdoor: "outdoor"}
			res := filter.New(filter.WithMinCandidates(3), filter.WithMaxCost(2000)).Filter(c, p, resolve(c, p))

			Convey("Then flex is five percent of the range", func() {
				So(res.Widened, ShouldBeTrue)
				So(res.Bounds, ShouldResemble, filter.Bounds{Min: 0, Max: 1050})
			})
		})

		Convey("When indoor/outdoor does not resolve", func() {
			p := model.Preferences{BudgetMin: 0, BudgetMax: 600, IndoorOutdoor: "underwater"}
			res := f.Filter(c, p, resolve(c, p))

			Convey("Then the predicate is skipped", func() {
				So(len(res.Items), ShouldEqual, 10)
			})
		})
	})
}
