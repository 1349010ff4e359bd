package workers

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

type Syncer interface {
	Run(ctx context.Context, reason string) (*domain.SyncRun, error)
}

type SyncJob struct {
	Reason string
}

// SyncWorker serializes sync runs: manual triggers are queued, and an optional
// ticker enqueues a periodic run. Only one run executes at a time.
type SyncWorker struct {
	syncer   Syncer
	jobs     chan SyncJob
	interval time.Duration

	mu      sync.RWMutex
	last    *domain.SyncRun
	running bool
}

const defaultQueueSize = 8

func NewSyncWorker(syncer Syncer, interval time.Duration, queueSize int) *SyncWorker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &SyncWorker{
		syncer:   syncer,
		jobs:     make(chan SyncJob, queueSize),
		interval: interval,
	}
}

func (w *SyncWorker) Start(ctx context.Context) {
	go func() {
		log.Println("[WORKER] Sync worker started in background...")

		var tick <-chan time.Time
		if w.interval > 0 {
			ticker := time.NewTicker(w.interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case job := <-w.jobs:
				w.process(ctx, job)
			case <-tick:
				w.process(ctx, SyncJob{Reason: "schedule"})
			case <-ctx.Done():
				log.Println("[WORKER] Sync worker shutting down...")
				return
			}
		}
	}()
}

// Enqueue reports false when the queue is full and the job was dropped.
func (w *SyncWorker) Enqueue(reason string) bool {
	select {
	case w.jobs <- SyncJob{Reason: reason}:
		return true
	default:
		log.Printf("[WORKER] Queue full! Dropping sync job (%s)", reason)
		return false
	}
}

// Status returns the last finished run, if any, and whether a run is in progress.
func (w *SyncWorker) Status() (*domain.SyncRun, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.last == nil {
		return nil, w.running
	}
	last := *w.last
	return &last, w.running
}

func (w *SyncWorker) process(ctx context.Context, job SyncJob) {
	w.setRunning(true)
	defer w.setRunning(false)

	run, err := w.syncer.Run(ctx, job.Reason)
	if err != nil {
		log.Printf("[WORKER] Sync (%s) failed: %v", job.Reason, err)
	}
	if run == nil {
		return
	}

	w.mu.Lock()
	w.last = run
	w.mu.Unlock()
}

func (w *SyncWorker) setRunning(v bool) {
	w.mu.Lock()
	w.running = v
	w.mu.Unlock()
}
