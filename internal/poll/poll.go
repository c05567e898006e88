// Copyright 2026 The RentDesk Authors
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

// Package poll runs a fetch on a fixed interval for as long as a view is
// open.
package poll

import (
	"context"
	"sync"
	"time"
)

// Func is one poll. It receives the poller's context and must return once
// that context is cancelled.
type Func func(ctx context.Context)

// Poller calls a Func immediately and then every interval. Calls never
// overlap: ticks that fire while a call is running are dropped.
type Poller struct {
	interval time.Duration
	fn       Func
}

// New creates a Poller.
func New(interval time.Duration, fn Func) *Poller {
	return &Poller{interval: interval, fn: fn}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	p.fn(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			p.fn(ctx)
			select {
			case <-ticker.C:
			default:
			}
		}
	}
}

// Start runs the poller in the background. The returned stop function
// cancels it and waits until the last call has returned; after stop
// returns the Func is never called again. stop may be called more than once.
func (p *Poller) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
		<-done
	}
}
