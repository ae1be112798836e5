package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it uses the service namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "homespark")
				So(manager.subsystem, ShouldEqual, "recommender")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metric names and labels follow the options", func() {
				manager.filterWidenings.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				found := false
				for _, mf := range families {
					if mf.GetName() != "test_namespace_test_subsystem_filter_widenings_total" {
						continue
					}
					found = true
					labels := mf.GetMetric()[0].GetLabel()
					So(len(labels), ShouldEqual, 1)
					So(labels[0].GetName(), ShouldEqual, "env")
					So(labels[0].GetValue(), ShouldEqual, "test")
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsOptionsValidation(t *testing.T) {
	Convey("Given empty option values", t, func() {
		manager := NewManager(
			WithNamespace(""),
			WithSubsystem(""),
			WithHistogramBuckets(nil),
			WithCustomLabels(nil),
			WithPrometheusRegistry(prometheus.NewRegistry()),
		)

		Convey("Then defaults are kept", func() {
			So(manager.namespace, ShouldEqual, "homespark")
			So(manager.subsystem, ShouldEqual, "recommender")
			So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			So(manager.customLabels, ShouldNotBeNil)
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording recommendation metrics", func() {
			before := testutil.ToFloat64(globalManager.recommendations.WithLabelValues("fallback"))
			RecordRecommendation("fallback")
			RecordRecommendation("fallback")

			Convey("Then the path counter advances", func() {
				So(testutil.ToFloat64(globalManager.recommendations.WithLabelValues("fallback")), ShouldEqual, before+2)
			})
		})

		Convey("When recording dimension and tier counters", func() {
			before := testutil.ToFloat64(globalManager.unresolvedDimensions.WithLabelValues("style"))
			RecordUnresolvedDimension("style")
			So(testutil.ToFloat64(globalManager.unresolvedDimensions.WithLabelValues("style")), ShouldEqual, before+1)

			So(func() {
				RecordTierReturned("Perfect")
				RecordFallback("insufficient_candidates")
				RecordFilterWidening()
				RecordCandidateCount(7)
				RecordEngineLatency(0.4)
			}, ShouldNotPanic)
		})

		Convey("When updating catalog metrics", func() {
			UpdateCatalogItems(42)
			RecordCatalogLoad("json", "ok", 12.5)

			Convey("Then the gauges hold the last value", func() {
				So(testutil.ToFloat64(globalManager.catalogItems), ShouldEqual, 42)
				So(testutil.ToFloat64(globalManager.catalogLoadDuration), ShouldEqual, 12.5)
			})
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("/api/health", "GET", "200")
				RecordHTTPRequestDuration("/api/health", "GET", "200", 1.5)
				RecordErrorByComponent("http", "client_error")
				RecordErrorByType("client_error", "low")
				RecordErrorByEndpoint("/api/recommendations", "POST", "client_error")
				RecordErrorLatency("http", "client_error", 3)
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry gathers them", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		before := testutil.ToFloat64(globalManager.filterWidenings)
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordFilterWidening()
				}
			}()
		}
		wg.Wait()

		So(testutil.ToFloat64(globalManager.filterWidenings), ShouldEqual, before+1000)
	})
}
