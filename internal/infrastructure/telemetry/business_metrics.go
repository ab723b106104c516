// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics tracks due lifecycle activity: creation volume, payment
// activity, clearance throughput and the pending backlog per department.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	dueCreatedTotal   *Counter
	dueAmountTotal    *Counter
	paymentMarkedTotal *Counter
	dueClearedTotal   *Counter

	// Gauge metrics (point-in-time values)
	pendingDuesCount  *Gauge
	pendingDuesAmount *FloatGauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	backlogProvider BacklogMetricsProvider
}

// BacklogRow is one department's pending backlog snapshot
type BacklogRow struct {
	Department string
	Count      int64
	Amount     decimal.Decimal
}

// BacklogMetricsProvider supplies the pending backlog for periodic gauge
// collection. This interface keeps the telemetry layer off the reporting
// package; the reporting repository satisfies it through a small adapter.
type BacklogMetricsProvider interface {
	PendingBacklog(ctx context.Context) ([]BacklogRow, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	BacklogProvider BacklogMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:           cfg.Meter,
		logger:          logger,
		stopChan:        make(chan struct{}),
		backlogProvider: cfg.BacklogProvider,
	}

	var err error

	bm.dueCreatedTotal, err = NewCounter(
		cfg.Meter,
		"clearance_due_created_total",
		"Total number of dues recorded",
		"{dues}",
	)
	if err != nil {
		return nil, err
	}

	bm.dueAmountTotal, err = NewCounter(
		cfg.Meter,
		"clearance_due_amount_total",
		"Total recorded due amount in paise",
		"{paise}",
	)
	if err != nil {
		return nil, err
	}

	bm.paymentMarkedTotal, err = NewCounter(
		cfg.Meter,
		"clearance_payment_marked_total",
		"Total number of payments marked done",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	bm.dueClearedTotal, err = NewCounter(
		cfg.Meter,
		"clearance_due_cleared_total",
		"Total number of dues resolved",
		"{dues}",
	)
	if err != nil {
		return nil, err
	}

	bm.pendingDuesCount, err = NewGauge(
		cfg.Meter,
		"clearance_pending_dues",
		"Current number of pending dues",
		"{dues}",
	)
	if err != nil {
		return nil, err
	}

	bm.pendingDuesAmount, err = NewFloatGauge(
		cfg.Meter,
		"clearance_pending_amount",
		"Current pending due amount in rupees",
		"{rupees}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordDueCreated records a due creation event
func (bm *BusinessMetrics) RecordDueCreated(ctx context.Context, department string, dueType string, amount decimal.Decimal) {
	bm.dueCreatedTotal.Inc(ctx,
		AttrDepartment.String(department),
		AttrDueType.String(dueType),
	)
	bm.dueAmountTotal.Add(ctx, toPaise(amount),
		AttrDepartment.String(department),
		AttrDueType.String(dueType),
	)
}

// RecordPaymentMarked records a payment being marked done
func (bm *BusinessMetrics) RecordPaymentMarked(ctx context.Context, department string, amount decimal.Decimal) {
	bm.paymentMarkedTotal.Inc(ctx,
		AttrDepartment.String(department),
	)
}

// RecordDueCleared records a due resolution. Path is "regular" or "permission".
func (bm *BusinessMetrics) RecordDueCleared(ctx context.Context, department string, path string, amount decimal.Decimal) {
	bm.dueClearedTotal.Inc(ctx,
		AttrDepartment.String(department),
		AttrClearancePath.String(path),
	)
}

// RecordPendingBacklog records the pending backlog gauges for one department
func (bm *BusinessMetrics) RecordPendingBacklog(ctx context.Context, department string, count int64, amount decimal.Decimal) {
	bm.pendingDuesCount.Record(ctx, count,
		AttrDepartment.String(department),
	)
	amountFloat, _ := amount.Float64()
	bm.pendingDuesAmount.Record(ctx, amountFloat,
		AttrDepartment.String(department),
	)
}

// StartPeriodicCollection starts periodic collection of the backlog gauges.
// Non-blocking; use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectBacklogMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectBacklogMetrics(ctx)
		}
	}
}

func (bm *BusinessMetrics) collectBacklogMetrics(ctx context.Context) {
	if bm.backlogProvider == nil {
		bm.logger.Debug("No backlog provider configured, skipping backlog metrics collection")
		return
	}

	rows, err := bm.backlogProvider.PendingBacklog(ctx)
	if err != nil {
		bm.logger.Error("Failed to collect pending backlog metrics", zap.Error(err))
		return
	}

	for _, row := range rows {
		bm.RecordPendingBacklog(ctx, row.Department, row.Count, row.Amount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// toPaise converts a rupee amount to its smallest currency unit
func toPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
