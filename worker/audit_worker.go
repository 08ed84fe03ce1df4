package worker

import (
	"context"
	"crimewatch/models"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// AuditStore persists a batch of audit entries
type AuditStore interface {
	InsertBatch(ctx context.Context, entries []models.ModerationAudit) error
}

// LogStore writes audit entries to the log when no database is configured
type LogStore struct {
	Log *zap.SugaredLogger
}

func (s LogStore) InsertBatch(_ context.Context, entries []models.ModerationAudit) error {
	for _, e := range entries {
		s.Log.Infow("moderation audit",
			"audit_id", e.AuditID,
			"report_id", e.ReportID,
			"action", e.Action,
			"old_status", e.OldStatus,
			"new_status", e.NewStatus,
			"actor_id", e.ActorID,
			"request_id", e.RequestID,
		)
	}
	return nil
}

// AuditWorker buffers moderation audit entries and writes them in batches
// on a fixed schedule and when stopped. Failed batches are logged and dropped.
type AuditWorker struct {
	store     AuditStore
	queue     chan models.ModerationAudit
	batchSize int
	interval  time.Duration
	timeout   time.Duration
	scheduler *gocron.Scheduler
	log       *zap.SugaredLogger

	mu      sync.Mutex
	running bool
	flushMu sync.Mutex
}

// NewAuditWorker creates a new audit worker
func NewAuditWorker(store AuditStore, queueSize, batchSize int, interval time.Duration, log *zap.SugaredLogger) *AuditWorker {
	if queueSize < 1 {
		queueSize = 1
	}
	if batchSize < 1 {
		batchSize = 1
	}
	return &AuditWorker{
		store:     store,
		queue:     make(chan models.ModerationAudit, queueSize),
		batchSize: batchSize,
		interval:  interval,
		timeout:   10 * time.Second,
		scheduler: gocron.NewScheduler(time.UTC),
		log:       log,
	}
}

// Enqueue adds an entry without blocking. It returns false when the queue is full.
func (w *AuditWorker) Enqueue(entry models.ModerationAudit) bool {
	select {
	case w.queue <- entry:
		return true
	default:
		return false
	}
}

// Start schedules periodic flushes
func (w *AuditWorker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		w.log.Warnw("audit worker is already running")
		return nil
	}

	if _, err := w.scheduler.Every(w.interval).SingletonMode().Do(w.Flush); err != nil {
		return err
	}
	w.scheduler.StartAsync()
	w.running = true
	w.log.Infow("audit worker started", "interval", w.interval, "batch_size", w.batchSize)
	return nil
}

// Stop halts the schedule and writes whatever is still queued
func (w *AuditWorker) Stop() {
	w.mu.Lock()
	if w.running {
		w.scheduler.Stop()
		w.running = false
	}
	w.mu.Unlock()

	w.Flush()
	w.log.Infow("audit worker stopped")
}

// Flush drains the queue in batches. Safe to call concurrently with Enqueue.
func (w *AuditWorker) Flush() {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	written, failed := 0, 0
	for {
		batch := w.drain()
		if len(batch) == 0 {
			break
		}
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		err := w.store.InsertBatch(ctx, batch)
		cancel()
		if err != nil {
			failed += len(batch)
			w.log.Errorw("failed to write audit batch", "count", len(batch), "error", err)
			continue
		}
		written += len(batch)
	}
	if written > 0 || failed > 0 {
		w.log.Debugw("audit flush completed", "written", written, "failed", failed)
	}
}

func (w *AuditWorker) drain() []models.ModerationAudit {
	batch := make([]models.ModerationAudit, 0, w.batchSize)
	for len(batch) < w.batchSize {
		select {
		case e := <-w.queue:
			batch = append(batch, e)
		default:
			return batch
		}
	}
	return batch
}
