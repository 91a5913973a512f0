// Package driver runs the background score perturbation loop.
package driver

import (
	"context"
	"math/rand"
	"time"

	"github.com/okian/ladder/pkg/logger"
)

// Default driver configuration constants.
const (
	defaultMaxBatch    = 200
	defaultMinInterval = 1 * time.Second
	defaultMaxInterval = 10 * time.Second
)

// Mutator is the engine's public mutation contract. The driver goes
// through it like any other caller; it holds no privileged access to
// engine internals.
type Mutator interface {
	Mutate(ctx context.Context, batchSize int) (int, error)
}

// Driver issues mutation batches of random size at random intervals
// until stopped.
type Driver struct {
	mutator     Mutator
	maxBatch    int
	minInterval time.Duration
	maxInterval time.Duration

	stopCh chan struct{}
	done   chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Driver.
type Option func(*Driver)

// WithMaxBatch caps the number of users touched per batch.
func WithMaxBatch(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.maxBatch = n
		}
	}
}

// WithIntervalRange bounds the random pause between batches.
func WithIntervalRange(min, max time.Duration) Option {
	return func(d *Driver) {
		if min > 0 && max >= min {
			d.minInterval = min
			d.maxInterval = max
		}
	}
}

// WithLogger sets a custom logger for the driver.
func WithLogger(l logger.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// New constructs a driver around the given mutator.
func New(mutator Mutator, opts ...Option) *Driver {
	d := &Driver{
		mutator:     mutator,
		maxBatch:    defaultMaxBatch,
		minInterval: defaultMinInterval,
		maxInterval: defaultMaxInterval,
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = logger.Get().Named("driver")
	}

	return d
}

// Start launches the mutation loop. It runs until ctx is canceled or
// Stop is called.
func (d *Driver) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Driver) run(ctx context.Context) {
	defer close(d.done)

	timer := time.NewTimer(d.randomInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stopCh:
			return
		case <-timer.C:
			batch := 1 + rand.Intn(d.maxBatch)
			changed, err := d.mutator.Mutate(ctx, batch)
			if err != nil {
				d.logger.Error(ctx, "mutation batch failed", logger.Error(err))
			} else {
				d.logger.Debug(ctx, "mutation batch applied",
					logger.Int("batch", batch),
					logger.Int("changed", changed),
				)
			}
			timer.Reset(d.randomInterval())
		}
	}
}

func (d *Driver) randomInterval() time.Duration {
	spread := d.maxInterval - d.minInterval
	if spread <= 0 {
		return d.minInterval
	}
	return d.minInterval + time.Duration(rand.Int63n(int64(spread)))
}

// Stop signals the loop to exit and waits for it to drain.
func (d *Driver) Stop() {
	select {
	case <-d.stopCh:
		// already stopped
	default:
		close(d.stopCh)
	}
	<-d.done
}
