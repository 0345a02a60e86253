// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/GermanBionicSystems/paper/epd47"
)

// statsCollector exports epd47.Stats. mu must be held by anyone driving dev.
type statsCollector struct {
	mu  *sync.Mutex
	dev *epd47.Dev

	frames, rows, clocks *prometheus.Desc
}

func newStatsCollector(mu *sync.Mutex, dev *epd47.Dev) *statsCollector {
	return &statsCollector{
		mu:     mu,
		dev:    dev,
		frames: prometheus.NewDesc("epd47_frames_total", "Frames driven to the panel.", nil, nil),
		rows:   prometheus.NewDesc("epd47_rows_total", "Rows staged, replicas excluded.", nil, nil),
		clocks: prometheus.NewDesc("epd47_row_clocks_total", "Row clocks, trailing rows included.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *statsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.frames
	ch <- c.rows
	ch <- c.clocks
}

// Collect implements prometheus.Collector.
func (c *statsCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	s := c.dev.Stats()
	c.mu.Unlock()
	ch <- prometheus.MustNewConstMetric(c.frames, prometheus.CounterValue, float64(s.Frames))
	ch <- prometheus.MustNewConstMetric(c.rows, prometheus.CounterValue, float64(s.Rows))
	ch <- prometheus.MustNewConstMetric(c.clocks, prometheus.CounterValue, float64(s.RowClocks))
}
