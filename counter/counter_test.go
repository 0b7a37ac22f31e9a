// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pantry-io/pantryd/counter"
)

func TestIncrementDecrement(t *testing.T) {

	var c counter.Counter

	assert.True(t, c.IsZero(), "new counter not zero")

	for i := 0; i < 7; i += 1 {
		c.Increment()
	}
	assert.Equal(t, uint64(7), c.Uint64())

	for i := 0; i < 7; i += 1 {
		c.Decrement()
	}
	assert.True(t, c.IsZero(), "counter did not return to zero")

	// decrement past zero wraps, two's complement -1
	c.Decrement()
	assert.Equal(t, ^uint64(0), c.Uint64())
}

func TestConcurrentBalance(t *testing.T) {

	const workers = 8
	const rounds = 1000

	var c counter.Counter
	var wg sync.WaitGroup

	for i := 0; i < workers; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j += 1 {
				c.Increment()
				c.Decrement()
			}
		}()
	}
	wg.Wait()

	assert.True(t, c.IsZero(), "unbalanced after concurrent use: %d", c.Uint64())
}
