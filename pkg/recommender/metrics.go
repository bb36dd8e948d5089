/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package recommender

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recommendGenerateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "playfit_recommend_generation_duration_seconds",
			Help:    "Time taken to generate a recommendation",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	recommendGenerateTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playfit_recommend_generation_total",
			Help: "Total number of recommendation generation attempts",
		},
		[]string{"status"}, // success or error
	)

	compatibleTitles = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "playfit_filter_compatible_titles",
			Help:    "Number of catalog titles that fit the hardware profile",
			Buckets: []float64{0, 1, 5, 10, 20, 30, 40, 50, 100},
		},
	)
)
