// Package bench issues repeated independent one-shot requests and reports
// latency percentiles.
package bench

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/studiowebux/jsonfetch/packages/request"
)

// Config controls a bench run.
type Config struct {
	// Requests is the total number of calls to perform.
	Requests int
	// Concurrency caps the number of in-flight calls.
	Concurrency int
	// Rate, when positive, limits the request start rate per second.
	Rate float64
}

// Runner issues the configured number of calls through request.Do. Each call
// is a complete, independent request with its own transport handle.
type Runner struct {
	config  Config
	limiter *rate.Limiter
	sem     chan struct{}
}

// New creates a Runner, applying defaults for zero config values.
func New(config Config) *Runner {
	if config.Requests < 1 {
		config.Requests = 1
	}
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}

	r := &Runner{
		config: config,
		sem:    make(chan struct{}, config.Concurrency),
	}

	if config.Rate > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(config.Rate), 1)
	}

	return r
}

// Run performs the bench and returns the aggregated report. It stops early
// when ctx is canceled, returning ctx.Err() alongside a report covering only
// the calls performed so far.
func (r *Runner) Run(ctx context.Context, params request.Params) (*Report, error) {
	m := newMetrics()
	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < r.config.Requests; i++ {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				wg.Wait()
				return m.report(time.Since(start)), ctx.Err()
			}
		}

		select {
		case r.sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return m.report(time.Since(start)), ctx.Err()
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-r.sem }()

			callStart := time.Now()
			_, err := request.Do(params)
			latency := time.Since(callStart)

			if err != nil {
				m.recordFailure(latency)
				return
			}
			m.recordSuccess(latency)
		}()
	}

	wg.Wait()
	return m.report(time.Since(start)), nil
}
