/*
Package metrics exports the state of a decoded SMBIOS table and the address
resolutions served from it as Prometheus metrics.
*/
package metrics

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"dmimap/internal/dmi"

	"github.com/prometheus/client_golang/prometheus"
)

const promMetricPrefix = "dmimap_"

// resolution outcomes
const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
)

// Collector holds the dmimap metrics registered with one registry.
type Collector struct {
	records     *prometheus.GaugeVec
	skipped     prometheus.Gauge
	reliable    prometheus.Gauge
	resolutions *prometheus.CounterVec
	dimmHits    *prometheus.CounterVec
	latency     prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		records: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: promMetricPrefix + "records",
				Help: "Decoded SMBIOS memory records by structure type",
			},
			[]string{"type"},
		),
		skipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: promMetricPrefix + "skipped_records",
			Help: "Memory records rejected as too short or empty",
		}),
		reliable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: promMetricPrefix + "dataset_reliable",
			Help: "1 if the decoded memory records passed the sanity check",
		}),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: promMetricPrefix + "resolutions_total",
				Help: "Address resolutions by result",
			},
			[]string{"result"},
		),
		dimmHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: promMetricPrefix + "dimm_resolutions_total",
				Help: "Addresses resolved to each DIMM",
			},
			[]string{"handle", "locator"},
		),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    promMetricPrefix + "resolution_seconds",
			Help:    "Time spent resolving one address",
			Buckets: prometheus.ExponentialBuckets(1e-7, 4, 10),
		}),
	}
	for _, collector := range []prometheus.Collector{c.records, c.skipped, c.reliable, c.resolutions, c.dimmHits, c.latency} {
		if err := reg.Register(collector); err != nil {
			slog.Error("failed to register Prometheus metric", slog.String("error", err.Error()))
		}
	}
	return c
}

// Observe records the decoded state of d.
func (c *Collector) Observe(d *dmi.Decoder) {
	c.records.WithLabelValues(strconv.Itoa(dmi.TypeMemoryArray)).Set(float64(len(d.Arrays())))
	c.records.WithLabelValues(strconv.Itoa(dmi.TypeMemoryDevice)).Set(float64(len(d.Devices())))
	c.records.WithLabelValues(strconv.Itoa(dmi.TypeMemoryArrayAddress)).Set(float64(len(d.ArrayRanges())))
	c.records.WithLabelValues(strconv.Itoa(dmi.TypeMemoryDeviceAddr)).Set(float64(len(d.DeviceRanges())))
	c.skipped.Set(float64(d.Skipped()))
	if d.IsDatasetReliable() {
		c.reliable.Set(1)
	} else {
		c.reliable.Set(0)
	}
}

// Resolved records one resolution and the DIMMs it returned.
func (c *Collector) Resolved(devs []dmi.MemoryDevice, elapsed time.Duration) {
	c.latency.Observe(elapsed.Seconds())
	if len(devs) == 0 {
		c.resolutions.WithLabelValues(ResultNotFound).Inc()
		return
	}
	c.resolutions.WithLabelValues(ResultFound).Inc()
	for _, dev := range devs {
		locator, _ := dev.DeviceLocator()
		c.dimmHits.WithLabelValues(fmt.Sprintf("%#06x", dev.Handle), locator).Inc()
	}
}

// Resolve resolves addr against d and records the outcome.
func (c *Collector) Resolve(d *dmi.Decoder, addr uint64) []dmi.MemoryDevice {
	start := time.Now()
	devs := d.ResolveAddress(addr)
	c.Resolved(devs, time.Since(start))
	return devs
}
