// Package promadapters provides a Prometheus-backed implementation of the
// statestore metrics interface.
//
// The collector creates Prometheus metric vectors on demand, the first time a
// metric name is recorded. The label keys of that first observation become the
// label names of the vector, so callers should record a metric with the same
// label set throughout. Registering with an already populated registry reuses
// the existing collector instead of failing.
//
// Unlike the OpenTelemetry adapters, Prometheus instruments carry no context,
// so this collector implements only the plain statestore.MetricsCollector
// interface. State store engines and handlers fall back to the non-context
// recording methods automatically.
package promadapters

import (
	"errors"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/openshelf/circulation-go/statestore"
)

// MetricsCollector implements statestore.MetricsCollector using Prometheus metric vectors:
//   - RecordDuration -> HistogramVec (for measuring operation durations)
//   - IncrementCounter -> CounterVec (for counting operations and errors)
//   - RecordValue -> GaugeVec (for current values like state versions)
type MetricsCollector struct {
	registerer prometheus.Registerer
	histograms map[string]*histogramEntry
	counters   map[string]*counterEntry
	gauges     map[string]*gaugeEntry
}

type histogramEntry struct {
	vec       *prometheus.HistogramVec
	labelKeys []string
}

type counterEntry struct {
	vec       *prometheus.CounterVec
	labelKeys []string
}

type gaugeEntry struct {
	vec       *prometheus.GaugeVec
	labelKeys []string
}

// NewMetricsCollector creates a new Prometheus metrics collector registering
// its metric vectors with the given registerer.
// Passing nil registers with the default Prometheus registerer.
func NewMetricsCollector(registerer prometheus.Registerer) *MetricsCollector {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &MetricsCollector{
		registerer: registerer,
		histograms: make(map[string]*histogramEntry),
		counters:   make(map[string]*counterEntry),
		gauges:     make(map[string]*gaugeEntry),
	}
}

// RecordDuration records a duration observation on a Prometheus histogram.
// Durations are observed in seconds, following the Prometheus convention.
func (m *MetricsCollector) RecordDuration(metricName string, duration time.Duration, labels map[string]string) {
	entry := m.getOrCreateHistogram(metricName, labels)
	if entry == nil {
		return
	}

	entry.vec.With(labelValuesFor(entry.labelKeys, labels)).Observe(duration.Seconds())
}

// IncrementCounter increments a Prometheus counter.
func (m *MetricsCollector) IncrementCounter(metricName string, labels map[string]string) {
	entry := m.getOrCreateCounter(metricName, labels)
	if entry == nil {
		return
	}

	entry.vec.With(labelValuesFor(entry.labelKeys, labels)).Inc()
}

// RecordValue sets the current value of a Prometheus gauge.
func (m *MetricsCollector) RecordValue(metricName string, value float64, labels map[string]string) {
	entry := m.getOrCreateGauge(metricName, labels)
	if entry == nil {
		return
	}

	entry.vec.With(labelValuesFor(entry.labelKeys, labels)).Set(value)
}

func (m *MetricsCollector) getOrCreateHistogram(metricName string, labels map[string]string) *histogramEntry {
	if entry, exists := m.histograms[metricName]; exists {
		return entry
	}

	labelKeys := sortedLabelKeys(labels)
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: metricName,
		Help: "Duration of circulation operations in seconds",
	}, labelKeys)

	if registerErr := m.registerer.Register(vec); registerErr != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if !errors.As(registerErr, &alreadyRegistered) {
			return nil // registration failures silently drop measurements
		}

		existing, isHistogramVec := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
		if !isHistogramVec {
			return nil
		}

		vec = existing
	}

	entry := &histogramEntry{vec: vec, labelKeys: labelKeys}
	m.histograms[metricName] = entry

	return entry
}

func (m *MetricsCollector) getOrCreateCounter(metricName string, labels map[string]string) *counterEntry {
	if entry, exists := m.counters[metricName]; exists {
		return entry
	}

	labelKeys := sortedLabelKeys(labels)
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricName,
		Help: "Total number of circulation operations",
	}, labelKeys)

	if registerErr := m.registerer.Register(vec); registerErr != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if !errors.As(registerErr, &alreadyRegistered) {
			return nil // registration failures silently drop measurements
		}

		existing, isCounterVec := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
		if !isCounterVec {
			return nil
		}

		vec = existing
	}

	entry := &counterEntry{vec: vec, labelKeys: labelKeys}
	m.counters[metricName] = entry

	return entry
}

func (m *MetricsCollector) getOrCreateGauge(metricName string, labels map[string]string) *gaugeEntry {
	if entry, exists := m.gauges[metricName]; exists {
		return entry
	}

	labelKeys := sortedLabelKeys(labels)
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: metricName,
		Help: "Current value of a circulation gauge",
	}, labelKeys)

	if registerErr := m.registerer.Register(vec); registerErr != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if !errors.As(registerErr, &alreadyRegistered) {
			return nil // registration failures silently drop measurements
		}

		existing, isGaugeVec := alreadyRegistered.ExistingCollector.(*prometheus.GaugeVec)
		if !isGaugeVec {
			return nil
		}

		vec = existing
	}

	entry := &gaugeEntry{vec: vec, labelKeys: labelKeys}
	m.gauges[metricName] = entry

	return entry
}

// sortedLabelKeys extracts the label names in a deterministic order, so the
// same label set always produces the same Prometheus vector definition.
func sortedLabelKeys(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for key := range labels {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// labelValuesFor builds the Prometheus label set from the registered label
// keys. Labels missing from the observation are recorded as empty strings,
// labels not registered with the vector are dropped.
func labelValuesFor(labelKeys []string, labels map[string]string) prometheus.Labels {
	values := make(prometheus.Labels, len(labelKeys))
	for _, key := range labelKeys {
		values[key] = labels[key]
	}

	return values
}

// Ensure MetricsCollector implements statestore.MetricsCollector.
var _ statestore.MetricsCollector = (*MetricsCollector)(nil)
