// Package batch runs the simulator's seed range with bounded concurrency
// and writes one CSV row per seed.
package batch

import (
	"fmt"
	"sync"

	"github.com/faascluster/simulator/helper"
	"github.com/faascluster/simulator/internal/engine"
	"github.com/faascluster/simulator/internal/simerrors"
	"github.com/faascluster/simulator/logging"
	"github.com/faascluster/simulator/notifier"
)

// Params configures a batch run. Template carries every engine.Params
// field except Seed, which each worker fills in per seed.
type Params struct {
	SeedInit    int64
	SeedEnd     int64
	Concurrency int
	Template    engine.Params

	OutputPath       string
	Append           bool
	AdditionalFields []string
	AdditionalHeader []string

	// Notifier, when non-nil, receives one SendNotification call for the
	// seed whose invariant violation aborted the batch.
	Notifier notifier.Notifier
}

// Run executes one simulation per seed in [SeedInit, SeedEnd), up to
// Concurrency in parallel, and appends each seed's result to OutputPath.
// A placement-policy configuration error or an internal invariant
// violation in any worker aborts the whole batch immediately; other
// in-flight workers finish their current seed but no new seed starts.
func Run(p Params) error {
	if p.SeedEnd <= p.SeedInit {
		return simerrors.NewConfigError(fmt.Errorf("seed-end must be greater than seed-init"))
	}

	w, err := newWriter(p.OutputPath, p.Append, p.AdditionalHeader)
	if err != nil {
		return err
	}
	defer w.Close()

	seedCount := int(p.SeedEnd - p.SeedInit)
	concurrency := helper.Min(p.Concurrency, seedCount)

	seeds := make(chan int64, seedCount)
	for seed := p.SeedInit; seed < p.SeedEnd; seed++ {
		seeds <- seed
	}
	close(seeds)

	stop := make(chan struct{})
	var stopOnce sync.Once
	var firstErr error
	var errMu sync.Mutex

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for worker := 0; worker < concurrency; worker++ {
		go func(id int) {
			defer wg.Done()
			runWorker(id, seeds, stop, &stopOnce, &errMu, &firstErr, w, p)
		}(worker)
	}
	wg.Wait()

	errMu.Lock()
	defer errMu.Unlock()
	return firstErr
}

func runWorker(
	id int,
	seeds <-chan int64,
	stop chan struct{},
	stopOnce *sync.Once,
	errMu *sync.Mutex,
	firstErr *error,
	w *writer,
	p Params,
) {
	for seed := range seeds {
		select {
		case <-stop:
			continue
		default:
		}

		params := p.Template
		params.Seed = seed

		sim, err := engine.New(params)
		if err == nil {
			logging.Debug("batch: worker %d starting seed %d", id, seed)
			var result engine.Result
			result, err = sim.Run()
			if err == nil {
				if writeErr := w.WriteRow(result, p.AdditionalFields); writeErr != nil {
					err = writeErr
				} else {
					logging.Debug("batch: worker %d finished seed %d", id, seed)
				}
			}
		}

		if err != nil {
			if invariant, fatal := err.(*simerrors.Invariant); fatal {
				logging.Error("batch: seed %d hit an internal invariant violation: %v", seed, err)
				if p.Notifier != nil {
					p.Notifier.SendNotification(notifier.FailureMessage{
						AlertUID:  "faascluster-simulator",
						Seed:      seed,
						Component: invariant.Component,
						Reason:    invariant.Reason,
					})
				}
			} else {
				logging.Error("batch: seed %d failed: %v", seed, err)
			}

			errMu.Lock()
			if *firstErr == nil {
				*firstErr = err
			}
			errMu.Unlock()

			stopOnce.Do(func() { close(stop) })
		}
	}
}
