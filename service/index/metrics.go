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

package index

import (
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/optakt/nem-adapter/models/nem"
	"github.com/optakt/nem-adapter/service/storage"
)

// MetricsWriter wraps the writer and records metrics for the lifecycle
// transitions it commits.
type MetricsWriter struct {
	write *Writer

	built     prometheus.Counter
	claimed   prometheus.Counter
	completed prometheus.Counter
	failed    prometheus.Counter
}

// NewMetricsWriter creates a new index writer that records Prometheus
// counters for the lifecycle transitions written to the given writer.
func NewMetricsWriter(write *Writer) *MetricsWriter {
	built := promauto.NewCounter(prometheus.CounterOpts{
		Name: "built_operations",
		Help: "the number of operation skeletons built",
	})
	claimed := promauto.NewCounter(prometheus.CounterOpts{
		Name: "sent_operations",
		Help: "the number of operations committed for broadcast",
	})
	completed := promauto.NewCounter(prometheus.CounterOpts{
		Name: "completed_operations",
		Help: "the number of operations confirmed on the ledger",
	})
	failed := promauto.NewCounter(prometheus.CounterOpts{
		Name: "failed_operations",
		Help: "the number of operations that failed or expired",
	})

	w := MetricsWriter{
		write:     write,
		built:     built,
		claimed:   claimed,
		completed: completed,
		failed:    failed,
	}

	return &w
}

func (w *MetricsWriter) Built(operation *nem.Operation) error {
	err := w.write.Built(operation)
	if err != nil {
		return err
	}
	w.built.Inc()
	return nil
}

func (w *MetricsWriter) Claimed(operationID uuid.UUID, sendTime time.Time, expiry time.Time) error {
	err := w.write.Claimed(operationID, sendTime, expiry)
	if err != nil {
		return err
	}
	w.claimed.Inc()
	return nil
}

func (w *MetricsWriter) Completed(operationID uuid.UUID, block uint64, blockTime time.Time) error {
	err := w.write.Completed(operationID, block, blockTime)
	if err != nil {
		return err
	}
	w.completed.Inc()
	return nil
}

func (w *MetricsWriter) Failed(operationID uuid.UUID, reason string) error {
	err := w.write.Failed(operationID, reason)
	if err != nil {
		return err
	}
	w.failed.Inc()
	return nil
}

func (w *MetricsWriter) Unclaimed(operationID uuid.UUID, expiry time.Time) error {
	return w.write.Unclaimed(operationID, expiry)
}

func (w *MetricsWriter) Announced(operationID uuid.UUID, txID string) error {
	return w.write.Announced(operationID, txID)
}

func (w *MetricsWriter) Deleted(operationID uuid.UUID) error {
	return w.write.Deleted(operationID)
}

func (w *MetricsWriter) RemoveExpiry(entry storage.ExpiryEntry) error {
	return w.write.RemoveExpiry(entry)
}

func (w *MetricsWriter) IndexExpiry(expiry time.Time, operationID uuid.UUID) error {
	return w.write.IndexExpiry(expiry, operationID)
}

func (w *MetricsWriter) Observed(address string) error {
	return w.write.Observed(address)
}

func (w *MetricsWriter) Unobserved(address string) error {
	return w.write.Unobserved(address)
}

func (w *MetricsWriter) Asset(asset *nem.Asset) error {
	return w.write.Asset(asset)
}
