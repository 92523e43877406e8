package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// SLAWorker periodically marks complaints whose deadline passed while still
// in a non-terminal status.
type SLAWorker struct {
	complaints repository.ComplaintRepository
	history    repository.ComplaintHistoryRepository
	dispatcher events.Dispatcher
	interval   time.Duration
	logger     *zap.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewSLAWorker constructs the worker.
func NewSLAWorker(complaints repository.ComplaintRepository, history repository.ComplaintHistoryRepository, dispatcher events.Dispatcher, interval time.Duration, logger *zap.Logger) *SLAWorker {
	return &SLAWorker{
		complaints: complaints,
		history:    history,
		dispatcher: dispatcher,
		interval:   interval,
		logger:     logger,
	}
}

// Start launches the sweep loop. The first sweep runs immediately.
func (w *SLAWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.logger.Info("sla worker started", zap.Duration("interval", w.interval))

		w.Sweep(ctx)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				w.logger.Info("sla worker stopped")
				return
			case <-ticker.C:
				w.Sweep(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for the in-flight sweep.
func (w *SLAWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

// Sweep marks overdue complaints as breached and records the change.
func (w *SLAWorker) Sweep(ctx context.Context) {
	breached, err := w.complaints.MarkSLABreaches(ctx, time.Now())
	if err != nil {
		w.logger.Error("sla sweep failed", zap.Error(err))
		return
	}
	if len(breached) == 0 {
		return
	}
	w.logger.Warn("sla deadlines breached", zap.Int("count", len(breached)))

	for i := range breached {
		complaint := &breached[i]
		w.recordBreach(ctx, complaint)
		w.publishBreach(ctx, complaint)
	}
}

func (w *SLAWorker) recordBreach(ctx context.Context, complaint *domain.Complaint) {
	if w.history == nil {
		return
	}
	entry := &domain.ComplaintHistory{
		ComplaintID: complaint.ID,
		ChangeType:  domain.ChangeTypeSLABreach,
		OldValue:    map[string]any{"sla_breached": false},
		NewValue:    map[string]any{"sla_breached": true, "deadline": complaint.SLADeadline},
	}
	if err := w.history.Create(ctx, entry); err != nil {
		w.logger.Error("sla breach history write failed",
			zap.String("complaint_id", complaint.ID), zap.Error(err))
	}
}

func (w *SLAWorker) publishBreach(ctx context.Context, complaint *domain.Complaint) {
	if w.dispatcher == nil || complaint.SLADeadline == nil {
		return
	}
	event := events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventComplaintSLABreached,
		ComplaintID: complaint.ID,
		Timestamp:   time.Now(),
		Payload: events.ComplaintSLABreachedPayload{
			Deadline:        *complaint.SLADeadline,
			AssignedStaffID: complaint.AssignedStaffID,
		},
	}
	_ = w.dispatcher.Publish(ctx, event)
}
