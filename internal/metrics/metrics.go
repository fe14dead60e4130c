// Package metrics exposes Prometheus counters for document analysis. Call
// Init once at startup to register the collectors; the helpers are safe to
// call either way.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	documentsAnalyzed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pdfanalyzer",
			Name:      "documents_analyzed_total",
			Help:      "Total documents analyzed",
		},
	)

	pagesAnalyzed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdfanalyzer",
			Name:      "pages_analyzed_total",
			Help:      "Total pages analyzed by result (ok, degraded)",
		},
		[]string{"result"},
	)

	imageRecognitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdfanalyzer",
			Name:      "image_recognitions_total",
			Help:      "Image recognition attempts by outcome (text, no_text, skipped, error)",
		},
		[]string{"outcome"},
	)

	complianceChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdfanalyzer",
			Name:      "compliance_checks_total",
			Help:      "Conformance checks by standard and verdict",
		},
		[]string{"standard", "compliant"},
	)
)

// Init registers collectors.
func Init() {
	prometheus.MustRegister(documentsAnalyzed, pagesAnalyzed, imageRecognitions, complianceChecks)
}

// Handler returns the http.Handler for /metrics.
func Handler() http.Handler { return promhttp.Handler() }

func IncDocument() { documentsAnalyzed.Inc() }

func IncPage(result string) { pagesAnalyzed.WithLabelValues(result).Inc() }

func IncRecognition(outcome string) { imageRecognitions.WithLabelValues(outcome).Inc() }

func IncCompliance(standard string, compliant bool) {
	complianceChecks.WithLabelValues(standard, boolToStr(compliant)).Inc()
}

func boolToStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
