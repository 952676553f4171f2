// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/ooneex/eagle-sub001/middleware"
	"github.com/ooneex/eagle-sub001/web"
)

const (
	startKey  = "metrics.start"
	unmatched = "unmatched"
)

// Entries returns the request and response entries that feed the recorder.
// The request entry runs first and the response entry last.
func (r *Recorder) Entries(opts ...EntryOption) []middleware.Entry {
	pf := newPathFilter()
	for _, opt := range opts {
		opt(pf)
	}
	if err := errors.Join(pf.errs...); err != nil {
		panic(err)
	}

	start := middleware.Func(func(c *web.Context) (*web.Context, error) {
		if pf.shouldExclude(c.Request.Path) {
			return c, nil
		}
		r.inFlight.Inc()
		c.Store.Set(startKey, time.Now())

		return c, nil
	})

	finish := middleware.Func(func(c *web.Context) (*web.Context, error) {
		started, ok := web.StoreValue[time.Time](c.Store, startKey)
		if !ok {
			return c, nil
		}
		r.inFlight.Dec()
		r.observe(c, time.Since(started))

		return c, nil
	})

	return []middleware.Entry{
		{Event: middleware.EventRequest, Priority: math.MinInt32, Middleware: start},
		{Event: middleware.EventResponse, Priority: math.MaxInt32, Middleware: finish},
	}
}

func (r *Recorder) observe(c *web.Context, elapsed time.Duration) {
	route := unmatched
	if c.Route != nil {
		route = c.Route.Name
	}
	method := c.Request.Method
	status := c.Response.Status()

	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.duration.WithLabelValues(method, route, statusClass(status)).Observe(elapsed.Seconds())
	r.size.WithLabelValues(method, route).Observe(float64(len(c.Response.Body())))
}
