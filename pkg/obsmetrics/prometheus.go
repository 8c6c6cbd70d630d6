package obsmetrics

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
)

// PrometheusExporter exports metrics in Prometheus text format.
type PrometheusExporter struct {
	collector *Collector
	namespace string
}

// NewPrometheusExporter creates a new Prometheus exporter for the
// given collector. The namespace is prepended to all metric names
// (e.g. "naclypt").
func NewPrometheusExporter(c *Collector, namespace string) *PrometheusExporter {
	return &PrometheusExporter{collector: c, namespace: namespace}
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (e *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		e.WriteMetrics(w)
	})
}

// WriteMetrics writes all metrics in Prometheus text format to the writer.
func (e *PrometheusExporter) WriteMetrics(w io.Writer) {
	snap := e.collector.Snapshot()
	labels := e.formatLabels(snap.Labels)

	e.writeHelp(w, "kdf_calls_total", "Total key-derivation calls")
	e.writeType(w, "kdf_calls_total", "counter")
	e.writeMetric(w, "kdf_calls_total", labels, float64(snap.KDFCalls))

	e.writeHelp(w, "kdf_failures_total", "Total key-derivation failures")
	e.writeType(w, "kdf_failures_total", "counter")
	e.writeMetric(w, "kdf_failures_total", labels, float64(snap.KDFFailures))

	e.writeHelp(w, "chunks_encrypted_total", "Total chunks sealed")
	e.writeType(w, "chunks_encrypted_total", "counter")
	e.writeMetric(w, "chunks_encrypted_total", labels, float64(snap.ChunksEncrypted))

	e.writeHelp(w, "chunks_decrypted_total", "Total chunks opened")
	e.writeType(w, "chunks_decrypted_total", "counter")
	e.writeMetric(w, "chunks_decrypted_total", labels, float64(snap.ChunksDecrypted))

	e.writeHelp(w, "bytes_encrypted_total", "Total plaintext octets sealed")
	e.writeType(w, "bytes_encrypted_total", "counter")
	e.writeMetric(w, "bytes_encrypted_total", labels, float64(snap.BytesEncrypted))

	e.writeHelp(w, "bytes_decrypted_total", "Total plaintext octets opened")
	e.writeType(w, "bytes_decrypted_total", "counter")
	e.writeMetric(w, "bytes_decrypted_total", labels, float64(snap.BytesDecrypted))

	e.writeHelp(w, "epoch_refreshes_total", "Total nonce epoch refreshes/recoveries")
	e.writeType(w, "epoch_refreshes_total", "counter")
	e.writeMetric(w, "epoch_refreshes_total", labels, float64(snap.EpochRefreshes))

	e.writeHelp(w, "structural_errors_total", "Total framing/header errors (excludes authentication failures, which are silent)")
	e.writeType(w, "structural_errors_total", "counter")
	e.writeMetric(w, "structural_errors_total", labels, float64(snap.StructuralErrors))

	e.writeHelp(w, "uptime_seconds", "Time since the collector was created")
	e.writeType(w, "uptime_seconds", "gauge")
	e.writeMetric(w, "uptime_seconds", labels, snap.Uptime.Seconds())

	e.writeHistogram(w, "derivation_duration_milliseconds", "Key-derivation duration in milliseconds", labels, snap.DerivationTime)
	e.writeHistogram(w, "encrypt_chunk_duration_microseconds", "Per-chunk seal duration in microseconds", labels, snap.EncryptChunkLatency)
	e.writeHistogram(w, "decrypt_chunk_duration_microseconds", "Per-chunk open duration in microseconds", labels, snap.DecryptChunkLatency)
}

func (e *PrometheusExporter) writeHelp(w io.Writer, name, help string) {
	fmt.Fprintf(w, "# HELP %s_%s %s\n", e.namespace, name, help)
}

func (e *PrometheusExporter) writeType(w io.Writer, name, typ string) {
	fmt.Fprintf(w, "# TYPE %s_%s %s\n", e.namespace, name, typ)
}

func (e *PrometheusExporter) writeMetric(w io.Writer, name, labels string, value float64) {
	if labels != "" {
		fmt.Fprintf(w, "%s_%s{%s} %g\n", e.namespace, name, labels, value)
	} else {
		fmt.Fprintf(w, "%s_%s %g\n", e.namespace, name, value)
	}
}

func (e *PrometheusExporter) writeHistogram(w io.Writer, name, help, labels string, h HistogramSummary) {
	e.writeHelp(w, name, help)
	e.writeType(w, name, "histogram")

	fullName := e.namespace + "_" + name

	for _, b := range h.Buckets {
		le := fmt.Sprintf("%g", b.UpperBound)
		if math.IsInf(b.UpperBound, 1) {
			le = "+Inf"
		}
		if labels != "" {
			fmt.Fprintf(w, "%s_bucket{%s,le=\"%s\"} %d\n", fullName, labels, le, b.Count)
		} else {
			fmt.Fprintf(w, "%s_bucket{le=\"%s\"} %d\n", fullName, le, b.Count)
		}
	}

	if labels != "" {
		fmt.Fprintf(w, "%s_sum{%s} %g\n", fullName, labels, h.Sum)
		fmt.Fprintf(w, "%s_count{%s} %d\n", fullName, labels, h.Count)
	} else {
		fmt.Fprintf(w, "%s_sum %g\n", fullName, h.Sum)
		fmt.Fprintf(w, "%s_count %d\n", fullName, h.Count)
	}
}

func (e *PrometheusExporter) formatLabels(labels Labels) string {
	if len(labels) == 0 {
		return ""
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=\"%s\"", k, escapePromValue(labels[k])))
	}
	return strings.Join(parts, ",")
}

func escapePromValue(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// ServePrometheus starts an HTTP server serving Prometheus metrics at
// /metrics, used by `naclypt bench --metrics-addr`.
func ServePrometheus(addr string, c *Collector, namespace string) error {
	exp := NewPrometheusExporter(c, namespace)
	mux := http.NewServeMux()
	mux.Handle("/metrics", exp.Handler())
	return http.ListenAndServe(addr, mux)
}
