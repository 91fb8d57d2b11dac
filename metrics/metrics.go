/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/
// Package metrics holds the prometheus collectors of the tree engine and
// the middleware chain.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (

	// MIDDLEWARE

	MiddlewareOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veritree_middleware_operations_total",
			Help: "Number of operations that went through a middleware layer.",
		},
		[]string{"layer", "operation"},
	)
	MiddlewareErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veritree_middleware_errors_total",
			Help: "Number of operations that failed in a middleware layer.",
		},
		[]string{"layer", "operation"},
	)
	CommitDurationSeconds = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Name: "veritree_commit_duration_seconds",
			Help: "Duration of the commit operation.",
		},
	)
	CommitBatchSize = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Name: "veritree_commit_batch_size",
			Help: "Number of operations forwarded by each commit.",
		},
	)
	CachePendingOperations = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "veritree_cache_pending_operations",
			Help: "Number of operations buffered by the cache layer.",
		},
	)

	// TREE

	TreeNodeReads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veritree_tree_node_reads_total",
			Help: "Number of node digests resolved, by source (cache, store or default).",
		},
		[]string{"source"},
	)

	// PROMETHEUS

	metricsList = []prometheus.Collector{
		MiddlewareOperationsTotal,
		MiddlewareErrorsTotal,
		CommitDurationSeconds,
		CommitBatchSize,
		CachePendingOperations,
		TreeNodeReads,
	}
)

// Register all metrics.
func Register(r prometheus.Registerer) {
	for _, metric := range metricsList {
		r.MustRegister(metric)
	}
}
