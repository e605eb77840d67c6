package spectral

import (
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

// PlanCache memoizes FFT execution plans by buffer length. Building a plan
// is measurably more expensive than executing one, and analysis buffer
// sizes repeat across calls, so plans live for the lifetime of the cache.
//
// gonum's CmplxFFT carries internal scratch state and must not be shared
// between concurrent executions, so the cache keeps one sync.Pool per
// length: the mutex is held only long enough to locate the pool, and the
// transform itself always runs outside the lock on a privately held plan.
type PlanCache struct {
	mu    sync.Mutex
	plans map[int]*sync.Pool
}

// NewPlanCache creates an empty plan cache
func NewPlanCache() *PlanCache {
	return &PlanCache{
		plans: make(map[int]*sync.Pool),
	}
}

// Acquire returns a forward FFT plan for buffers of length n together with
// a release function that must be called once the transform has executed.
func (c *PlanCache) Acquire(n int) (*fourier.CmplxFFT, func()) {
	c.mu.Lock()
	pool, ok := c.plans[n]
	if !ok {
		pool = &sync.Pool{
			New: func() any { return fourier.NewCmplxFFT(n) },
		}
		c.plans[n] = pool
	}
	c.mu.Unlock()

	plan := pool.Get().(*fourier.CmplxFFT)
	return plan, func() { pool.Put(plan) }
}

// Sizes returns the buffer lengths that currently have a cached plan pool
func (c *PlanCache) Sizes() []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	sizes := make([]int, 0, len(c.plans))
	for n := range c.plans {
		sizes = append(sizes, n)
	}
	return sizes
}
