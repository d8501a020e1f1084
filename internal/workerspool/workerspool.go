// Copyright 2026 The ops-generator Authors. SPDX-License-Identifier: Apache-2.0

// Package workerspool bounds how many generation tasks run at once. The
// driver hands it one task per specification file and waits for the batch.
package workerspool

import (
	"sync"
)

type Pool struct {
	// maxParallelism limits the number of tasks running at once.
	// 0 disables parallelism (tasks run inline), negative is unlimited.
	maxParallelism int

	mu         sync.Mutex
	cond       sync.Cond // Broadcast whenever numRunning decreases.
	numRunning int
}

// New returns a Pool running at most maxParallelism tasks at once. With 0
// tasks run inline on the calling goroutine; negative means unlimited.
func New(maxParallelism int) *Pool {
	p := &Pool{maxParallelism: maxParallelism}
	p.cond = sync.Cond{L: &p.mu}
	return p
}

// IsSerial returns whether tasks run inline on the calling goroutine.
func (p *Pool) IsSerial() bool {
	return p.maxParallelism == 0
}

// IsUnlimited returns whether the number of parallel tasks is unbounded.
func (p *Pool) IsUnlimited() bool {
	return p.maxParallelism < 0
}

// lockedIsFull returns whether all workers are in use.
//
// It must be called with p.mu acquired.
func (p *Pool) lockedIsFull() bool {
	if p.IsUnlimited() {
		return false
	}
	return p.numRunning >= p.maxParallelism
}

// Go runs task on an available worker, blocking until one frees up. If
// parallelism is disabled the task runs inline, and Go returns once it is
// finished.
func (p *Pool) Go(task func()) {
	if p.IsSerial() {
		task()
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.lockedIsFull() {
		p.cond.Wait()
	}
	p.numRunning++
	go func() {
		task()
		p.mu.Lock()
		p.numRunning--
		p.cond.Broadcast()
		p.mu.Unlock()
	}()
}

// Wait blocks until every task handed to Go has finished.
func (p *Pool) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.numRunning > 0 {
		p.cond.Wait()
	}
}
