package metrics

import (
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

			Convey("Then metrics should be registered under the default namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.coldStarts.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "huddle_recommender_cold_starts_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.modelResets.Inc()

			Convey("Then names and constant labels should follow the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() != "test_unit_model_resets_total" {
						continue
					}
					found = true
					labels := f.GetMetric()[0].GetLabel()
					So(labels, ShouldHaveLength, 1)
					So(labels[0].GetName(), ShouldEqual, "env")
					So(labels[0].GetValue(), ShouldEqual, "test")
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty option values are given", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithCustomLabels(nil),
				WithPrometheusRegistry(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "huddle")
				So(manager.subsystem, ShouldEqual, "recommender")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.constLabels, ShouldBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording learning metrics", func() {
			before := testutil.ToFloat64(globalManager.interactionsRecorded.WithLabelValues("join"))
			RecordInteraction("join")
			RecordInteraction("join")

			Convey("Then the labelled counter should grow", func() {
				after := testutil.ToFloat64(globalManager.interactionsRecorded.WithLabelValues("join"))
				So(after-before, ShouldEqual, 2)
			})

			Convey("And gauges should hold the last value", func() {
				UpdateTrackedUsers(7)
				UpdateStoredInteractions(42)
				So(testutil.ToFloat64(globalManager.trackedUsers), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.storedInteractions), ShouldEqual, 42)
			})
		})

		Convey("When recording catalog metrics", func() {
			before := testutil.ToFloat64(globalManager.catalogOperations.WithLabelValues("join", "full"))
			RecordCatalogOperation("join", "full")
			UpdateCatalogEvents(10)

			Convey("Then they should be visible", func() {
				So(testutil.ToFloat64(globalManager.catalogOperations.WithLabelValues("join", "full"))-before, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.catalogEvents), ShouldEqual, 10)
			})
		})

		Convey("When recording every other metric", func() {
			Convey("Then nothing should panic", func() {
				So(func() {
					RecordInteractionDuplicate()
					RecordInteractionRejected("backpressure")
					RecordModelReset()
					RecordRecommendationServed()
					RecordColdStart()
					RecordRankingLatency(0.4)
					RecordCategorization("keyword")
					UpdateQueueSize(3)
					UpdateQueueCapacity(100)
					UpdateQueueUtilization(0.03)
					UpdateQueuePartitions(4)
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					RecordQueueProcessingLatency(1.5)
					UpdateWorkerActiveCount(4)
					RecordWorkerProcessingLatency(0.2)
					RecordWorkerError()
					RecordHTTPRequest("/events", "GET", "200")
					RecordHTTPRequestDuration("/events", "GET", "200", 1.2)
					RecordErrorByComponent("queue", "full")
					RecordErrorByEndpoint("/events", "POST", "validation")
					UpdateSystemMemoryUsage(1024)
					UpdateSystemGoroutineCount(12)
				}, ShouldNotPanic)
			})
		})

		Convey("When asking for the registry", func() {
			Convey("Then the shared custom registry should be returned", func() {
				So(GetRegistry(), ShouldEqual, customRegistry)
			})
		})
	})
}
