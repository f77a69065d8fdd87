// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// metrics to expose to Prometheus
var (
	gaugeTVOC        = newGauge("air_tvoc", "Total Volatile Organic Compounds (units: ppb)")
	gaugeResistance  = newGauge("air_gas_resistance", "Gas sensing element resistance (units: ohm)")
	gaugeHumidity    = newGauge("air_humidity", "Humidity (units: % of relative Humidity)")
	gaugeTemperature = newGauge("air_temperature", "Air Temperature (units: degrees Celsius)")
	sensorErrors     = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "air_sensor_errors_total",
			Help: "Sensor reads that failed after all retries",
		},
		[]string{"sensor"},
	)
)

func newGauge(name string, help string) prometheus.Gauge {
	return prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
	)
}

func init() {
	prometheus.MustRegister(gaugeTVOC)
	prometheus.MustRegister(gaugeResistance)
	prometheus.MustRegister(gaugeHumidity)
	prometheus.MustRegister(gaugeTemperature)
	prometheus.MustRegister(sensorErrors)

	// Add Go module build info.
	prometheus.MustRegister(prometheus.NewBuildInfoCollector())
}

// serveMetrics exposes the registered metrics via HTTP. It does not return.
func serveMetrics(addr string) {
	http.Handle("/metrics", promhttp.HandlerFor(
		prometheus.DefaultGatherer,
		promhttp.HandlerOpts{
			// Opt into OpenMetrics to support exemplars.
			EnableOpenMetrics: true,
		},
	))
	log.Panic(http.ListenAndServe(addr, nil))
}
