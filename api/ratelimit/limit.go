// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ratelimit - token bucket limiting for api requests
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pantry-io/pantryd/fault"
)

// limiting for a single request
func Limit(limiter *rate.Limiter) error {
	r := limiter.Reserve()
	if !r.OK() {
		return fault.ErrRateLimiting
	}
	time.Sleep(r.Delay())
	return nil
}

// limiting for a request counted as multiple operations
func LimitN(limiter *rate.Limiter, count int, maximumCount int) error {
	// invalid count gets limited as a single request
	if count <= 0 || count > maximumCount {

		r := limiter.Reserve()
		if !r.OK() {
			return fault.ErrRateLimiting
		}
		time.Sleep(r.Delay())

		return fault.ErrInvalidCount
	}

	r := limiter.ReserveN(time.Now(), count)
	if !r.OK() {
		return fault.ErrRateLimiting
	}
	time.Sleep(r.Delay())

	return nil
}

// PerClient - one limiter per client address
type PerClient struct {
	sync.Mutex
	rate     rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewPerClient - a per-client limiter table
func NewPerClient(r rate.Limit, burst int) *PerClient {
	return &PerClient{
		rate:     r,
		burst:    burst,
		limiters: map[string]*rate.Limiter{},
	}
}

// For - the limiter of one client, created on first sight
func (p *PerClient) For(client string) *rate.Limiter {
	p.Lock()
	defer p.Unlock()

	limiter, ok := p.limiters[client]
	if !ok {
		limiter = rate.NewLimiter(p.rate, p.burst)
		p.limiters[client] = limiter
	}
	return limiter
}
