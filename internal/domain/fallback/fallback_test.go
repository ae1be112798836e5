package fallback_test

import (
	"math/rand"
	"testing"

	"github.com/okian/homespark/internal/domain/catalog"
	"github.com/okian/homespark/internal/domain/catalog/catalogtest"
	"github.com/okian/homespark/internal/domain/fallback"
	"github.com/okian/homespark/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic seed for reproducible testing
}

func TestSampler(t *testing.T) {
	Convey("Given a sampler and the ten item fixture", t, func() {
		c := catalogtest.TenItems()
		s := fallback.New()

		Convey("When the widened range has items", func() {
			p := model.Preferences{BudgetMin: 280, BudgetMax: 320}

			Convey("Then the pool is the range widened by 50", func() {
				pool := s.Pool(c, p)
				for _, it := range pool {
					So(it.Cost, ShouldBeBetweenOrEqual, 230, 370)
				}
				So(len(pool), ShouldEqual, 4)
			})

			Convey("Then sampling draws distinct items from the pool", func() {
				got := s.Sample(c, p, 3, newRand(1))
				So(len(got), ShouldEqual, 3)
				seen := map[int64]bool{}
				for _, it := range got {
					So(seen[it.ID], ShouldBeFalse)
					seen[it.ID] = true
					So(it.Cost, ShouldBeBetweenOrEqual, 230, 370)
				}
			})

			Convey("Then sampling never exceeds the pool", func() {
				So(len(s.Sample(c, p, 10, newRand(1))), ShouldEqual, 4)
			})
		})

		Convey("When the widened range is empty", func() {
			p := model.Preferences{BudgetMin: 2000, BudgetMax: 3000}

			Convey("Then the whole catalog is the pool", func() {
				So(len(s.Pool(c, p)), ShouldEqual, c.Len())
				So(len(s.Sample(c, p, 5, newRand(7))), ShouldEqual, 5)
			})
		})

		Convey("When the same seed is reused", func() {
			p := model.Preferences{BudgetMin: 0, BudgetMax: 550}
			a := s.Sample(c, p, 4, newRand(42))
			b := s.Sample(c, p, 4, newRand(42))

			Convey("Then the draw is reproducible", func() {
				So(a, ShouldResemble, b)
			})
		})

		Convey("When n is not positive", func() {
			So(s.Sample(c, model.Preferences{BudgetMax: 100}, 0, newRand(1)), ShouldBeEmpty)
		})

		Convey("When the catalog is empty", func() {
			empty, err := catalog.New(catalog.Metadata{}, nil, nil)
			So(err, ShouldBeNil)
			So(s.Sample(empty, model.Preferences{BudgetMax: 100}, 3, newRand(1)), ShouldBeEmpty)
		})

		Convey("When the margin is overridden", func() {
			narrow := fallback.New(fallback.WithMargin(0), fallback.WithMaxCost(1000))
			p := model.Preferences{BudgetMin: 300, BudgetMax: 310}
			So(len(narrow.Pool(c, p)), ShouldEqual, 2)
		})
	})
}
