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
	"fmt"
	"strings"

	"github.com/bbva/veritree/db"
)

// Layer names a middleware that Build can stack.
type Layer int

const (
	CacheLayer Layer = iota
	MetricsLayer
)

func (l Layer) String() string {
	switch l {
	case CacheLayer:
		return "cache"
	case MetricsLayer:
		return "metrics"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

// Build wraps base in a Passthrough and stacks layers on top of it, the
// first one closest to base. Build(base, CacheLayer, MetricsLayer) counts
// the calls made to the cache.
func Build(base db.TreeDB, layers ...Layer) (Middleware, error) {
	var m Middleware = NewPassthrough(base)
	for _, layer := range layers {
		switch layer {
		case CacheLayer:
			m = NewCache(m)
		case MetricsLayer:
			m = NewMetrics(m)
		default:
			return nil, fmt.Errorf("unknown middleware layer %s", layer)
		}
	}
	return m, nil
}

type wrapper interface {
	Inner() Middleware
}

func layerName(m Middleware) string {
	switch m.(type) {
	case *Passthrough:
		return "passthrough"
	case *Cache:
		return CacheLayer.String()
	case *Metrics:
		return MetricsLayer.String()
	default:
		return fmt.Sprintf("%T", m)
	}
}

// Describe lists the layers of a chain from the outermost down to the
// Passthrough, e.g. "metrics > cache > passthrough".
func Describe(m Middleware) string {
	names := []string{layerName(m)}
	for {
		w, ok := m.(wrapper)
		if !ok {
			break
		}
		m = w.Inner()
		names = append(names, layerName(m))
	}
	return strings.Join(names, " > ")
}

// FindCache returns the outermost Cache in the chain, if any.
func FindCache(m Middleware) (*Cache, bool) {
	for {
		if c, ok := m.(*Cache); ok {
			return c, true
		}
		w, ok := m.(wrapper)
		if !ok {
			return nil, false
		}
		m = w.Inner()
	}
}
