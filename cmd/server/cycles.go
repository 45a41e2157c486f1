package main

import (
	"context"
	"sync"

	"offramp/internal/platform/runnerlock"
	"offramp/internal/reconcile"
	dErrors "offramp/pkg/domain-errors"
)

// guardedCycles serializes cycle runs. The mutex covers the scheduler and
// the ops API racing inside one process; the redis lease covers multiple
// processes sharing the same scope.
type guardedCycles struct {
	mu     sync.Mutex
	engine *reconcile.Service
	lock   *runnerlock.Lock
}

func (g *guardedCycles) RunCycle(ctx context.Context) (*reconcile.CycleReport, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.lock != nil {
		if err := g.lock.Acquire(ctx); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "another runner holds the cycle lock")
		}
		defer func() { _ = g.lock.Release(ctx) }()
	}
	return g.engine.RunCycle(ctx)
}
