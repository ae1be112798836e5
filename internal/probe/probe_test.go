package probe_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/homespark/internal/adapters/http/api"
	"github.com/okian/homespark/internal/adapters/repository"
	service "github.com/okian/homespark/internal/app"
	"github.com/okian/homespark/internal/domain/catalog/catalogtest"
	"github.com/okian/homespark/internal/domain/engine"
	"github.com/okian/homespark/internal/probe"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestServer(start bool) (*httptest.Server, *service.Service) {
	svc := service.New(repository.NewStaticSource(catalogtest.TenItems()),
		service.WithEngineOptions(engine.WithSeed(11)))
	if start {
		if err := svc.Start(context.Background()); err != nil {
			panic(err)
		}
	}
	mux := http.NewServeMux()
	api.NewServer(svc).Register(mux)
	return httptest.NewServer(mux), svc
}

func TestRun(t *testing.T) {
	Convey("Given a running server over the ten item catalog", t, func() {
		srv, svc := newTestServer(true)
		defer srv.Close()
		defer svc.Stop()

		Convey("When probing with several workers", func() {
			var progress bytes.Buffer
			report, err := probe.Run(context.Background(), probe.Config{
				BaseURL:  srv.URL,
				Requests: 40,
				Workers:  4,
				Seed:     7,
				Progress: &progress,
			})

			Convey("Then every response should verify", func() {
				So(err, ShouldBeNil)
				So(report.Sent, ShouldEqual, 40)
				So(report.Succeeded, ShouldEqual, 40)
				So(report.Failed, ShouldEqual, 0)
				So(report.Violations, ShouldBeEmpty)
				So(report.OK(), ShouldBeTrue)
			})

			Convey("And unknown styles should come back as warnings", func() {
				So(report.Warnings, ShouldBeGreaterThanOrEqualTo, 4)
			})

			Convey("And the progress bar should be drawn", func() {
				So(progress.String(), ShouldContainSubstring, "probing")
			})
		})
	})

	Convey("Given a server without a loaded catalog", t, func() {
		srv, _ := newTestServer(false)
		defer srv.Close()

		Convey("Then the probe should refuse to run", func() {
			_, err := probe.Run(context.Background(), probe.Config{BaseURL: srv.URL, Requests: 1})
			So(errors.Is(err, probe.ErrNotReady), ShouldBeTrue)
		})
	})

	Convey("Given no server at all", t, func() {
		srv, _ := newTestServer(false)
		url := srv.URL
		srv.Close()

		Convey("Then the health check should fail", func() {
			_, err := probe.Run(context.Background(), probe.Config{BaseURL: url, Requests: 1})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "health check")
		})
	})
}

func TestGenerate(t *testing.T) {
	vocab := map[string][]string{
		"style":          {"Modern", "Rustic"},
		"room_type":      {"Kitchen"},
		"indoor_outdoor": {"Indoor", "Outdoor"},
		"climate":        {"Temperate"},
	}

	Convey("Given a seeded generator", t, func() {
		reqs := probe.Generate(30, vocab, 99)

		Convey("Then the same seed should give the same requests", func() {
			So(probe.Generate(30, vocab, 99), ShouldResemble, reqs)
		})

		Convey("Then requests should be well formed", func() {
			So(reqs, ShouldHaveLength, 30)
			for _, r := range reqs {
				p := r.UserPreferences
				So(p.BudgetMax, ShouldBeGreaterThan, p.BudgetMin)
				So(p.RoomType, ShouldEqual, "Kitchen")
				So(r.RequestSettings.MaxResults, ShouldBeBetweenOrEqual, 1, 5)
			}
		})

		Convey("Then every tenth request should carry an unknown style", func() {
			So(reqs[9].UserPreferences.StylePreference, ShouldEqual, "Gothic")
			So(reqs[19].UserPreferences.StylePreference, ShouldEqual, "Gothic")
			So(reqs[1].UserPreferences.StylePreference, ShouldBeIn, []string{"Modern", "Rustic"})
		})

		Convey("Then the first request should use the first vocabulary entries", func() {
			p := reqs[0].UserPreferences
			So(p.StylePreference, ShouldEqual, "Modern")
			So(p.IndoorOutdoor, ShouldEqual, "Indoor")
		})
	})
}
