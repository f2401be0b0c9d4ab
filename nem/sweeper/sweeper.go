// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/optakt/nem-adapter/models/nem"
	"github.com/optakt/nem-adapter/nem/resolver"
	"github.com/optakt/nem-adapter/service/storage"
)

var (
	sweepRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sweep_runs_total",
		Help: "number of sweep passes over the deadline index",
	})
	sweepSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sweep_settled_operations_total",
		Help: "number of operations driven to a terminal state by sweeps",
	})
	sweepFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sweep_resolution_failures_total",
		Help: "number of operations a sweep failed to resolve",
	})
)

// Resolver settles the outcome of a single operation.
type Resolver interface {
	Resolve(ctx context.Context, operationID uuid.UUID) (*resolver.Status, error)
}

// ExpiryReader reads the deadline index.
type ExpiryReader interface {
	ExpiryRange(from time.Time, to time.Time) ([]storage.ExpiryEntry, error)
	IterateOperations(process func(*nem.Operation) error) error
}

// ExpiryWriter maintains the deadline index.
type ExpiryWriter interface {
	RemoveExpiry(entry storage.ExpiryEntry) error
	IndexExpiry(expiry time.Time, operationID uuid.UUID) error
}

// Sweeper periodically drives operations whose deadline has passed to a
// terminal state. Each sweep covers the window from the previous sweep's
// upper bound to the current time, so every deadline index entry is
// visited at least once.
type Sweeper struct {
	log      zerolog.Logger
	resolve  Resolver
	read     ExpiryReader
	write    ExpiryWriter
	interval time.Duration
	mark     time.Time
}

// New creates a new sweeper that resolves operations past their
// deadline. The first sweep covers everything up to the current time.
func New(log zerolog.Logger, resolve Resolver, read ExpiryReader, write ExpiryWriter, interval time.Duration) *Sweeper {

	s := Sweeper{
		log:      log.With().Str("component", "sweeper").Logger(),
		resolve:  resolve,
		read:     read,
		write:    write,
		interval: interval,
	}

	return &s
}

// Run sweeps the deadline index on the configured interval until the
// context is canceled.
func (s *Sweeper) Run(ctx context.Context) error {

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		now := time.Now().UTC()
		processed, err := s.Sweep(ctx, s.mark, now)
		if err != nil {
			s.log.Error().Err(err).Msg("sweep failed")
			continue
		}
		s.mark = now

		s.log.Debug().
			Time("until", now).
			Int("processed", processed).
			Msg("sweep finished")
	}
}

// Sweep resolves every operation whose deadline falls within the given
// window and prunes index entries for operations that reached a terminal
// state. It returns the number of entries processed. Entries whose
// operation stays in progress are kept, so a later sweep with an
// overlapping window picks them up again; sweeping the same window twice
// is therefore harmless.
func (s *Sweeper) Sweep(ctx context.Context, from time.Time, to time.Time) (int, error) {

	entries, err := s.read.ExpiryRange(from, to)
	if err != nil {
		return 0, fmt.Errorf("could not read deadline index: %w", err)
	}

	processed := 0
	for _, entry := range entries {
		processed++

		status, err := s.resolve.Resolve(ctx, entry.OperationID)
		if err != nil {
			sweepFailures.Inc()
			s.log.Warn().Err(err).
				Str("operation", entry.OperationID.String()).
				Msg("could not resolve expired operation")
			continue
		}

		if status.State == resolver.StateInProgress {
			continue
		}

		err = s.write.RemoveExpiry(entry)
		if err != nil {
			return processed, fmt.Errorf("could not remove deadline entry: %w", err)
		}
		sweepSettled.Inc()
	}

	sweepRuns.Inc()

	return processed, nil
}

// Reconcile walks all operations and re-creates deadline index entries
// for sent, non-terminal operations that are missing one. It repairs the
// index after a crash between indexing a deadline and recording the
// claim on the operation.
func (s *Sweeper) Reconcile(ctx context.Context) (int, error) {

	repaired := 0
	err := s.read.IterateOperations(func(operation *nem.Operation) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !operation.IsSent() || operation.IsFinal() || operation.ExpiryTime == nil {
			return nil
		}

		entries, err := s.read.ExpiryRange(operation.ExpiryTime.Add(-time.Nanosecond), *operation.ExpiryTime)
		if err != nil {
			return fmt.Errorf("could not read deadline index: %w", err)
		}
		for _, entry := range entries {
			if entry.OperationID == operation.ID {
				return nil
			}
		}

		err = s.write.IndexExpiry(*operation.ExpiryTime, operation.ID)
		if err != nil {
			return fmt.Errorf("could not index deadline: %w", err)
		}
		repaired++

		s.log.Info().
			Str("operation", operation.ID.String()).
			Time("expiry", *operation.ExpiryTime).
			Msg("repaired missing deadline entry")

		return nil
	})
	if err != nil {
		return repaired, fmt.Errorf("could not reconcile deadline index: %w", err)
	}

	return repaired, nil
}
