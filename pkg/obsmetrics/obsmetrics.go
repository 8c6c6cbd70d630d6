// Package obsmetrics provides observability primitives for the naclypt
// streaming cipher: counters and histograms for the KDF call and the
// chunk loop, a hand-rolled Prometheus text exporter, and an
// OpenTelemetry tracer pair selected by the "otel" build tag.
package obsmetrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector aggregates metrics from a single naclypt invocation.
type Collector struct {
	// KDF metrics
	kdfCalls       atomic.Uint64
	kdfFailures    atomic.Uint64
	derivationTime *Histogram

	// Chunk loop metrics
	chunksEncrypted atomic.Uint64
	chunksDecrypted atomic.Uint64
	bytesEncrypted  atomic.Uint64
	bytesDecrypted  atomic.Uint64
	epochRefreshes  atomic.Uint64

	// Error metrics
	structuralErrors atomic.Uint64

	// Performance histograms
	encryptChunkLatency *Histogram
	decryptChunkLatency *Histogram

	createdAt time.Time
	labels    Labels
}

// Labels represents key-value pairs for metric labeling.
type Labels map[string]string

// NewCollector creates a new metrics collector.
func NewCollector(labels Labels) *Collector {
	if labels == nil {
		labels = make(Labels)
	}
	return &Collector{
		derivationTime:      NewHistogram(DerivationLatencyBuckets),
		encryptChunkLatency: NewHistogram(ChunkLatencyBuckets),
		decryptChunkLatency: NewHistogram(ChunkLatencyBuckets),
		createdAt:           time.Now(),
		labels:              labels,
	}
}

// Default bucket configurations for histograms.
var (
	// DerivationLatencyBuckets for a full KDF call (milliseconds) — a
	// deliberately-slow operation, unlike the chunk loop below.
	DerivationLatencyBuckets = []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

	// ChunkLatencyBuckets for a single Seal/Open over one chunk (microseconds).
	ChunkLatencyBuckets = []float64{10, 50, 100, 250, 500, 1000, 5000, 10000, 50000}
)

// --- KDF metrics ---

// RecordKDFCall records a completed key-derivation call.
func (c *Collector) RecordKDFCall(d time.Duration, err error) {
	c.kdfCalls.Add(1)
	if err != nil {
		c.kdfFailures.Add(1)
		return
	}
	c.derivationTime.Observe(float64(d.Milliseconds()))
}

// --- Chunk loop metrics ---

// RecordChunkEncrypted records one sealed chunk.
func (c *Collector) RecordChunkEncrypted(plaintextLen int, d time.Duration) {
	c.chunksEncrypted.Add(1)
	c.bytesEncrypted.Add(uint64(plaintextLen))
	c.encryptChunkLatency.Observe(float64(d.Microseconds()))
}

// RecordChunkDecrypted records one opened chunk.
func (c *Collector) RecordChunkDecrypted(plaintextLen int, d time.Duration) {
	c.chunksDecrypted.Add(1)
	c.bytesDecrypted.Add(uint64(plaintextLen))
	c.decryptChunkLatency.Observe(float64(d.Microseconds()))
}

// RecordEpochRefresh records a nonce epoch refresh or recovery.
func (c *Collector) RecordEpochRefresh() {
	c.epochRefreshes.Add(1)
}

// RecordStructuralError records a framing/header error (never an
// authentication failure — those are silent, by design).
func (c *Collector) RecordStructuralError() {
	c.structuralErrors.Add(1)
}

// --- Snapshot ---

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	Timestamp time.Time
	Uptime    time.Duration

	KDFCalls    uint64
	KDFFailures uint64

	ChunksEncrypted uint64
	ChunksDecrypted uint64
	BytesEncrypted  uint64
	BytesDecrypted  uint64
	EpochRefreshes  uint64

	StructuralErrors uint64

	DerivationTime      HistogramSummary
	EncryptChunkLatency HistogramSummary
	DecryptChunkLatency HistogramSummary

	Labels Labels
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Timestamp:           time.Now(),
		Uptime:              time.Since(c.createdAt),
		KDFCalls:            c.kdfCalls.Load(),
		KDFFailures:         c.kdfFailures.Load(),
		ChunksEncrypted:     c.chunksEncrypted.Load(),
		ChunksDecrypted:     c.chunksDecrypted.Load(),
		BytesEncrypted:      c.bytesEncrypted.Load(),
		BytesDecrypted:      c.bytesDecrypted.Load(),
		EpochRefreshes:      c.epochRefreshes.Load(),
		StructuralErrors:    c.structuralErrors.Load(),
		DerivationTime:      c.derivationTime.Summary(),
		EncryptChunkLatency: c.encryptChunkLatency.Summary(),
		DecryptChunkLatency: c.decryptChunkLatency.Summary(),
		Labels:              c.labels,
	}
}

// Reset clears all metrics. Useful for testing.
func (c *Collector) Reset() {
	c.kdfCalls.Store(0)
	c.kdfFailures.Store(0)
	c.chunksEncrypted.Store(0)
	c.chunksDecrypted.Store(0)
	c.bytesEncrypted.Store(0)
	c.bytesDecrypted.Store(0)
	c.epochRefreshes.Store(0)
	c.structuralErrors.Store(0)
	c.derivationTime.Reset()
	c.encryptChunkLatency.Reset()
	c.decryptChunkLatency.Reset()
	c.createdAt = time.Now()
}

// --- Global collector ---

var (
	globalCollector     *Collector
	globalCollectorOnce sync.Once
)

// Global returns the global metrics collector, creating one with
// default settings on first use.
func Global() *Collector {
	globalCollectorOnce.Do(func() {
		globalCollector = NewCollector(Labels{"instance": "default"})
	})
	return globalCollector
}

// SetGlobal replaces the global metrics collector. Call before any
// metrics are recorded.
func SetGlobal(c *Collector) {
	globalCollectorOnce.Do(func() {})
	globalCollector = c
}
