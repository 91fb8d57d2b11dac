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
package middleware

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bbva/veritree/db"
	"github.com/bbva/veritree/metrics"
	"github.com/bbva/veritree/protocol"
)

// Metrics counts the operations and errors of the layer below it and
// times its commits.
type Metrics struct {
	inner Middleware
	layer string
}

func NewMetrics(inner Middleware) *Metrics {
	return &Metrics{inner: inner, layer: layerName(inner)}
}

func (m *Metrics) Inner() Middleware {
	return m.inner
}

func (m *Metrics) observe(operation string, err error) {
	metrics.MiddlewareOperationsTotal.WithLabelValues(m.layer, operation).Inc()
	if err != nil {
		metrics.MiddlewareErrorsTotal.WithLabelValues(m.layer, operation).Inc()
	}
}

// pending publishes the size of the buffer below when there is one.
func (m *Metrics) pending() {
	if c, ok := m.inner.(interface{ Len() int }); ok {
		metrics.CachePendingOperations.Set(float64(c.Len()))
	}
}

func (m *Metrics) Get(key []byte) ([]byte, bool, error) {
	value, found, err := m.inner.Get(key)
	m.observe("get", err)
	return value, found, err
}

func (m *Metrics) Set(key, value []byte) ([]byte, error) {
	k, err := m.inner.Set(key, value)
	m.observe("set", err)
	m.pending()
	return k, err
}

func (m *Metrics) Delete(key []byte) error {
	err := m.inner.Delete(key)
	m.observe("delete", err)
	m.pending()
	return err
}

func (m *Metrics) Prove(req *protocol.ProveRequest) (*protocol.ProveResponse, error) {
	resp, err := m.inner.Prove(req)
	m.observe("prove", err)
	return resp, err
}

func (m *Metrics) Verify(req *protocol.VerifyRequest) (*protocol.VerifyResponse, error) {
	resp, err := m.inner.Verify(req)
	m.observe("verify", err)
	return resp, err
}

func (m *Metrics) Commit(ops []db.Operation) error {
	size := len(ops)
	if c, ok := m.inner.(interface{ Len() int }); ok {
		size += c.Len()
	}
	timer := prometheus.NewTimer(metrics.CommitDurationSeconds)
	err := m.inner.Commit(ops)
	timer.ObserveDuration()
	if err == nil {
		metrics.CommitBatchSize.Observe(float64(size))
	}
	m.observe("commit", err)
	m.pending()
	return err
}

func (m *Metrics) RootHash() db.Root {
	m.observe("root_hash", nil)
	return m.inner.RootHash()
}

func (m *Metrics) Clean() error {
	err := m.inner.Clean()
	m.observe("clean", err)
	m.pending()
	return err
}
