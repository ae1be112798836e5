package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/homespark/internal/adapters/repository"
	service "github.com/okian/homespark/internal/app"
	"github.com/okian/homespark/internal/domain/catalog"
	"github.com/okian/homespark/internal/domain/catalog/catalogtest"
	"github.com/okian/homespark/internal/domain/engine"
	"github.com/okian/homespark/internal/domain/model"
	"github.com/okian/homespark/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var kitchenPrefs = model.Preferences{
	BudgetMin:     100,
	BudgetMax:     500,
	Style:         "modern",
	RoomType:      "kitchen",
	IndoorOutdoor: "indoor",
	Climate:       "temperate",
}

type failingSource struct{ err error }

func (f failingSource) Load(context.Context) (*catalog.Catalog, error) { return nil, f.err }
func (f failingSource) Kind() string                                   { return "failing" }

func TestService_Start(t *testing.T) {
	Convey("Given a service over a static catalog", t, func() {
		svc := service.New(repository.NewStaticSource(catalogtest.TenItems()))
		defer svc.Stop()

		Convey("Before starting, it should not be ready", func() {
			So(svc.Ready(), ShouldBeFalse)
			_, err := svc.Recommend(context.Background(), kitchenPrefs, 3)
			So(errors.Is(err, service.ErrEngineNotReady), ShouldBeTrue)
			So(svc.ModelInfo().Loaded, ShouldBeFalse)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
				So(svc.Ready(), ShouldBeTrue)
			})

			Convey("And starting twice should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
				So(svc.Ready(), ShouldBeTrue)
			})

			Convey("And stats should describe the catalog", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["source"], ShouldEqual, "static")
				So(stats["catalogItems"], ShouldEqual, 10)
			})
		})
	})

	Convey("Given a service whose source fails", t, func() {
		boom := errors.New("disk on fire")
		svc := service.New(failingSource{err: boom})

		Convey("Start should return the load error and stay not ready", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, boom), ShouldBeTrue)
			So(svc.Ready(), ShouldBeFalse)
		})
	})

	Convey("Given a service without a source", t, func() {
		svc := service.New(nil)

		Convey("Start should fail", func() {
			So(svc.Start(context.Background()), ShouldEqual, service.ErrNoSource)
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(repository.NewStaticSource(catalogtest.TenItems()))
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.Ready(), ShouldBeFalse)
				So(svc.GetStats()["started"], ShouldEqual, false)
				_, err := svc.Recommend(context.Background(), kitchenPrefs, 3)
				So(errors.Is(err, service.ErrEngineNotReady), ShouldBeTrue)
			})
		})
	})
}

func TestService_Recommend(t *testing.T) {
	Convey("Given a started service with a fixed seed", t, func() {
		svc := service.New(
			repository.NewStaticSource(catalogtest.TenItems()),
			service.WithLogger(logger.Nop()),
			service.WithEngineOptions(engine.WithSeed(7)),
		)
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("When asking for modern kitchens", func() {
			res, err := svc.Recommend(context.Background(), kitchenPrefs, 3)

			Convey("Then the engine result is returned", func() {
				So(err, ShouldBeNil)
				So(res.Fallback(), ShouldBeFalse)
				So(res.Recommendations, ShouldHaveLength, 3)
				So(res.Recommendations[0].ID, ShouldEqual, "rec_2")
			})

			Convey("And stats count the request", func() {
				So(svc.GetStats()["requests"], ShouldEqual, uint64(1))
			})
		})

		Convey("When the budget is inverted", func() {
			bad := kitchenPrefs
			bad.BudgetMin, bad.BudgetMax = 600, 100
			_, err := svc.Recommend(context.Background(), bad, 3)

			Convey("Then the engine error surfaces", func() {
				So(errors.Is(err, engine.ErrInvalidPreferences), ShouldBeTrue)
			})
		})
	})

	Convey("Given a started service over an empty catalog", t, func() {
		svc := service.New(repository.NewStaticSource(catalogtest.Build()))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("Recommend reports the empty catalog", func() {
			_, err := svc.Recommend(context.Background(), kitchenPrefs, 3)
			So(errors.Is(err, engine.ErrEmptyCatalog), ShouldBeTrue)
		})
	})
}

func TestService_ModelInfo(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(repository.NewStaticSource(catalogtest.TenItems()))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("ModelInfo describes the catalog", func() {
			info := svc.ModelInfo()
			So(info.Loaded, ShouldBeTrue)
			So(info.DatasetSize, ShouldEqual, 10)
			So(info.ModelType, ShouldEqual, "heuristic")
			So(info.Version, ShouldEqual, "test")
			So(info.Vocabularies["indoor_outdoor"], ShouldResemble, []string{"Indoor", "Outdoor"})
			So(info.Vocabularies, ShouldHaveLength, 4)
		})
	})
}

func TestService_EngineLogger(t *testing.T) {
	Convey("Given a json root logger and a service logger named service", t, func() {
		var buf bytes.Buffer
		So(logger.InitWithWriter(&buf, logger.FormatJSON), ShouldBeNil)
		defer func() { _ = logger.Init() }()

		svc := service.New(
			repository.NewStaticSource(catalogtest.TenItems()),
			service.WithLogger(logger.Named("service")),
		)
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("When a preference is excluded by the engine", func() {
			prefs := kitchenPrefs
			prefs.IndoorOutdoor = "sideways"
			_, err := svc.Recommend(context.Background(), prefs, 3)
			So(err, ShouldBeNil)

			Convey("Then the warning is grouped under engine at the top level", func() {
				var rec map[string]interface{}
				for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
					var r map[string]interface{}
					if json.Unmarshal([]byte(line), &r) == nil && r["msg"] == "preference excluded" {
						rec = r
						break
					}
				}
				So(rec, ShouldNotBeNil)
				So(rec, ShouldContainKey, "engine")
				So(rec, ShouldNotContainKey, "service")
				group := rec["engine"].(map[string]interface{})
				So(group["dimension"], ShouldEqual, "indoor_outdoor")
			})
		})
	})
}
