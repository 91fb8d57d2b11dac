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
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/bbva/veritree/metrics"
)

func TestBuild(t *testing.T) {
	testCases := []struct {
		testname string
		layers   []Layer
		expected string
	}{
		{"bare", nil, "passthrough"},
		{"cache", []Layer{CacheLayer}, "cache > passthrough"},
		{"metered cache", []Layer{CacheLayer, MetricsLayer}, "metrics > cache > passthrough"},
		{"two caches", []Layer{CacheLayer, CacheLayer}, "cache > cache > passthrough"},
	}

	for _, test := range testCases {
		m, err := Build(newRecordingDB(), test.layers...)
		require.NoErrorf(t, err, "Unexpected error in test: %s", test.testname)
		require.Equalf(t, test.expected, Describe(m), "Wrong chain in test: %s", test.testname)
	}

	_, err := Build(newRecordingDB(), Layer(42))
	require.Error(t, err)
}

func TestFindCache(t *testing.T) {
	m, err := Build(newRecordingDB(), CacheLayer, MetricsLayer)
	require.NoError(t, err)
	c, ok := FindCache(m)
	require.True(t, ok)
	require.NotNil(t, c)

	bare, err := Build(newRecordingDB())
	require.NoError(t, err)
	_, ok = FindCache(bare)
	require.False(t, ok)
}

func TestNestedCachesCommitOutward(t *testing.T) {
	base := newRecordingDB()
	m, err := Build(base, CacheLayer, CacheLayer)
	require.NoError(t, err)

	_, err = m.Set([]byte("outer"), []byte("1"))
	require.NoError(t, err)
	inner := m.(*Cache).Inner()
	_, err = inner.Set([]byte("inner"), []byte("2"))
	require.NoError(t, err)

	require.NoError(t, m.Commit(nil))
	require.Len(t, base.commits, 1)
	require.Len(t, base.commits[0], 2)
}

func TestMetricsLayerCounts(t *testing.T) {
	base := newRecordingDB()
	m, err := Build(base, CacheLayer, MetricsLayer)
	require.NoError(t, err)

	sets := metrics.MiddlewareOperationsTotal.WithLabelValues("cache", "set")
	commitErrors := metrics.MiddlewareErrorsTotal.WithLabelValues("cache", "commit")
	setsBefore := testutil.ToFloat64(sets)
	errorsBefore := testutil.ToFloat64(commitErrors)

	_, err = m.Set([]byte("a"), []byte("1"))
	require.NoError(t, err)
	_, err = m.Set([]byte("b"), []byte("2"))
	require.NoError(t, err)
	require.Equal(t, setsBefore+2, testutil.ToFloat64(sets))
	require.Equal(t, float64(2), testutil.ToFloat64(metrics.CachePendingOperations))

	base.fail = true
	require.Error(t, m.Commit(nil))
	require.Equal(t, errorsBefore+1, testutil.ToFloat64(commitErrors))
	require.Equal(t, float64(2), testutil.ToFloat64(metrics.CachePendingOperations))

	base.fail = false
	require.NoError(t, m.Commit(nil))
	require.Equal(t, float64(0), testutil.ToFloat64(metrics.CachePendingOperations))
}
