// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package metrics exposes the Prometheus metrics of the navigator, the GPS
// producer and the web server. All recording methods are nil-safe so a
// component can run without a collector.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Location update results.
const (
	LocationAccepted = "accepted"
	LocationIgnored  = "ignored"
	LocationInvalid  = "invalid"
)

// Collector bundles the application metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Ticks           prometheus.Counter
	TickDuration    prometheus.Histogram
	LocationUpdates *prometheus.CounterVec
	NMEASentences   *prometheus.CounterVec
	NMEAErrors      prometheus.Counter
	PublishErrors   *prometheus.CounterVec

	Heading       prometheus.Gauge
	VisiblePlaces prometheus.Gauge
	WebClients    prometheus.Gauge
}

// NewCollector registers the metrics against reg, defaulting to the global
// registry when nil. Registering twice against the same registry returns
// the existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	if c.Ticks, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ar_fuser_ticks_total",
		Help: "Sensor samples fused by the navigator.",
	})); err != nil {
		return nil, err
	}
	if c.TickDuration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ar_fuser_tick_duration_seconds",
		Help:    "Time spent fusing one sample and building the snapshot.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})); err != nil {
		return nil, err
	}
	if c.LocationUpdates, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ar_location_updates_total",
		Help: "GPS fixes offered to the navigator, labeled by result.",
	}, []string{"result"})); err != nil {
		return nil, err
	}
	if c.NMEASentences, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ar_nmea_sentences_total",
		Help: "NMEA sentences decoded, labeled by sentence type.",
	}, []string{"type"})); err != nil {
		return nil, err
	}
	if c.NMEAErrors, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ar_nmea_errors_total",
		Help: "NMEA lines that failed to parse.",
	})); err != nil {
		return nil, err
	}
	if c.PublishErrors, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ar_mqtt_publish_errors_total",
		Help: "Failed MQTT publishes, labeled by topic.",
	}, []string{"topic"})); err != nil {
		return nil, err
	}
	if c.Heading, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ar_heading_degrees",
		Help: "Last reported heading.",
	})); err != nil {
		return nil, err
	}
	if c.VisiblePlaces, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ar_visible_places",
		Help: "Places arranged in the last snapshot.",
	})); err != nil {
		return nil, err
	}
	if c.WebClients, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ar_web_clients",
		Help: "Connected websocket clients.",
	})); err != nil {
		return nil, err
	}

	return c, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveTick records one fused sample.
func (c *Collector) ObserveTick(d time.Duration, heading float64, places int) {
	if c == nil {
		return
	}
	c.Ticks.Inc()
	c.TickDuration.Observe(d.Seconds())
	c.Heading.Set(heading)
	c.VisiblePlaces.Set(float64(places))
}

// ObserveLocation records the outcome of one GPS fix.
func (c *Collector) ObserveLocation(result string) {
	if c == nil {
		return
	}
	c.LocationUpdates.WithLabelValues(result).Inc()
}

// ObserveSentence records one decoded NMEA sentence.
func (c *Collector) ObserveSentence(kind string) {
	if c == nil {
		return
	}
	c.NMEASentences.WithLabelValues(kind).Inc()
}

// ObserveSentenceError records one NMEA line that failed to parse.
func (c *Collector) ObserveSentenceError() {
	if c == nil {
		return
	}
	c.NMEAErrors.Inc()
}

// ObservePublishError records one failed publish.
func (c *Collector) ObservePublishError(topic string) {
	if c == nil {
		return
	}
	c.PublishErrors.WithLabelValues(topic).Inc()
}

// SetWebClients sets the websocket client gauge.
func (c *Collector) SetWebClients(n int) {
	if c == nil {
		return
	}
	c.WebClients.Set(float64(n))
}

func register[T prometheus.Collector](reg prometheus.Registerer, collector T) (T, error) {
	if err := reg.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector already registered with incompatible type: %w", err)
		}
		var zero T
		return zero, err
	}
	return collector, nil
}
