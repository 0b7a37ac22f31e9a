// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pantry-io/pantryd/background"
)

// a sweeper style process: ticks until told to stop, then records
// that its shutdown path ran
type sweeper struct {
	ticks   uint64
	stopped uint64
}

func (s *sweeper) Run(args interface{}, shutdown <-chan struct{}) {
	interval := args.(time.Duration)
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-time.After(interval):
			atomic.AddUint64(&s.ticks, 1)
		}
	}
	atomic.StoreUint64(&s.stopped, 1)
}

func TestStartAndStop(t *testing.T) {

	one := &sweeper{}
	two := &sweeper{}

	processes := background.Processes{
		one,
		two,
	}

	p := background.Start(processes, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	p.Stop()

	assert.NotZero(t, atomic.LoadUint64(&one.ticks), "first process never ran")
	assert.NotZero(t, atomic.LoadUint64(&two.ticks), "second process never ran")

	// Stop only returns after every Run has finished
	assert.Equal(t, uint64(1), atomic.LoadUint64(&one.stopped), "first process still running")
	assert.Equal(t, uint64(1), atomic.LoadUint64(&two.stopped), "second process still running")
}

func TestStopNil(t *testing.T) {
	var p *background.T
	p.Stop() // must not panic
}

func TestStopIsIdleAfterShutdown(t *testing.T) {

	s := &sweeper{}
	p := background.Start(background.Processes{s}, time.Millisecond)
	p.Stop()

	before := atomic.LoadUint64(&s.ticks)
	time.Sleep(20 * time.Millisecond)
	after := atomic.LoadUint64(&s.ticks)

	assert.Equal(t, before, after, "process ticked after stop")
}
