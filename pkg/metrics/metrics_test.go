package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.enabled, ShouldBeTrue)
				So(manager.namespace, ShouldEqual, "elorank")
			})
		})

		Convey("When creating with custom options", func() {
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "unit")
				So(manager.latencyBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.customLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When empty option values are given", func() {
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "elorank")
				So(len(manager.latencyBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording comparisons", func() {
			manager.RecordComparison(16)
			manager.RecordComparison(-7.5)
			manager.RecordInvalidOutcome()
			manager.UpdateTableSize(12)
			manager.UpdateTotalComparisons(40)

			Convey("Then the collectors reflect them", func() {
				So(testutil.ToFloat64(manager.comparisons), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.invalidOutcomes), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.tableSize), ShouldEqual, 12)
				So(testutil.ToFloat64(manager.totalComparisons), ShouldEqual, 40)
			})
		})

		Convey("When recording simulations", func() {
			manager.RecordSimulation("least+closer", 100, 0.8, 3, 1.2)
			manager.RecordSimulation("least+closer", 100, 0.6, 2, 1.1)
			manager.RecordError("simulation", "invalid_params")

			Convey("Then they are counted per configuration", func() {
				So(testutil.ToFloat64(manager.simulations.WithLabelValues("least+closer")), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.simComparisonsUsed), ShouldEqual, 200)
				So(testutil.ToFloat64(manager.errorsByComponent.WithLabelValues("simulation", "invalid_params")), ShouldEqual, 1)
			})
		})

		Convey("When metrics are disabled", func() {
			disabled := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))
			disabled.RecordComparison(16)
			disabled.UpdateTableSize(3)

			Convey("Then nothing is recorded", func() {
				So(testutil.ToFloat64(disabled.comparisons), ShouldEqual, 0)
				So(testutil.ToFloat64(disabled.tableSize), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then package-level recorders do not panic", func() {
			So(func() {
				RecordComparison(16)
				RecordInvalidOutcome()
				RecordSelectionLatency(0.02)
				UpdateTableSize(5)
				UpdateTotalComparisons(9)
				RecordSimulation("uniform", 10, 1.5, 4, 0.3)
				UpdateSimulationWorkers(2)
				RecordError("session", "io")
			}, ShouldNotPanic)
			So(GetRegistry(), ShouldNotBeNil)
		})

		Convey("When exporting to a textfile", func() {
			RecordComparison(16)
			path := filepath.Join(t.TempDir(), "elorank.prom")
			err := WriteTextfile(path)

			Convey("Then the file holds the exposition text", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "elorank_ranking_comparisons_total")
			})
		})

		Convey("When exporting to an unwritable path", func() {
			err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))

			Convey("Then an export error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
