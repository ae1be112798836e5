package engine_test

import (
	"context"
	"math/rand"
	"strconv"
	"testing"

	"github.com/okian/homespark/internal/domain/catalog"
	"github.com/okian/homespark/internal/domain/catalog/catalogtest"
	"github.com/okian/homespark/internal/domain/engine"
	"github.com/okian/homespark/internal/domain/model"
)

var (
	benchStyles  = []string{"Bohemian", "Industrial", "Mid_Century", "Minimalist", "Modern", "Rustic", "Traditional"}
	benchRooms   = []string{"Bathroom", "Bedroom", "Dining_Room", "Garden", "Kitchen", "Living_Room", "Patio"}
	benchClimate = []string{"Cold", "Dry", "Humid", "Temperate"}
)

func benchCatalog(size int) *catalog.Catalog {
	r := rand.New(rand.NewSource(1)) //nolint:gosec // deterministic seed for reproducible benchmarks
	items := make([]catalog.RawItem, size)
	for i := range items {
		room := benchRooms[r.Intn(len(benchRooms))]
		io := "Indoor"
		if room == "Garden" || room == "Patio" {
			io = "Outdoor"
		}
		items[i] = catalogtest.Item(int64(i+1), 50+r.Intn(500),
			benchStyles[r.Intn(len(benchStyles))], room, io, benchClimate[r.Intn(len(benchClimate))])
	}
	return catalogtest.Build(items...)
}

func BenchmarkRecommend(b *testing.B) {
	sizes := []int{1_000, 10_000}
	prefs := model.Preferences{
		BudgetMin: 150, BudgetMax: 450,
		Style: "modern", RoomType: "kitchen", IndoorOutdoor: "indoor", Climate: "humid",
	}
	narrow := prefs
	narrow.BudgetMin, narrow.BudgetMax = 300, 301

	for _, size := range sizes {
		e := engine.New(benchCatalog(size), engine.WithSeed(1))
		ctx := context.Background()

		b.Run("scored/"+strconv.Itoa(size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := e.Recommend(ctx, prefs, 5); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run("fallback/"+strconv.Itoa(size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := e.Recommend(ctx, narrow, 20); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run("parallel/"+strconv.Itoa(size), func(b *testing.B) {
			b.ReportAllocs()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if _, err := e.Recommend(ctx, prefs, 3); err != nil {
						b.Error(err)
						return
					}
				}
			})
		})
	}
}
