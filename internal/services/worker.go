package services

import (
	"context"
	"sync"
	"time"

	"alfredoptarigan/hiremind/internal/logger"
	"alfredoptarigan/hiremind/internal/repositories"
)

const (
	jobQueueSize    = 100
	pendingJobBatch = 10
)

// Worker runs queued ATS analyses in the background.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(analysisID uint)
}

type worker struct {
	analysisRepo repositories.AnalysisRepository
	atsService   ATSService
	jobQueue     chan uint
	concurrency  int
	pollInterval time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

func NewWorker(
	analysisRepo repositories.AnalysisRepository,
	atsService ATSService,
	concurrency int,
	pollInterval time.Duration,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &worker{
		analysisRepo: analysisRepo,
		atsService:   atsService,
		jobQueue:     make(chan uint, jobQueueSize),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	logger.Logger.Infof("🚀 Starting worker with %d concurrent workers", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	// Picks up jobs queued before a restart or dropped from a full queue.
	w.wg.Add(1)
	go w.pollPendingJobs(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		logger.Logger.Info("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		logger.Logger.Info("✅ Worker stopped")
	})
}

// EnqueueJob implements Worker. It never blocks: a full queue leaves the job
// for the poller.
func (w *worker) EnqueueJob(analysisID uint) {
	select {
	case <-w.stopChan:
		logger.Logger.Warnf("⚠️  Worker stopped, cannot enqueue job %d", analysisID)
	case w.jobQueue <- analysisID:
		logger.Logger.Debugf("📥 Job %d enqueued", analysisID)
	default:
		logger.Logger.Warnf("⚠️  Job queue full, job %d left for the poller", analysisID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := logger.Logger.WithField("worker", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Debug("👷 Worker stopped")
			return
		case <-ctx.Done():
			return
		case analysisID := <-w.jobQueue:
			log.Infof("👷 Processing job %d", analysisID)
			if err := w.atsService.AnalyzeJob(ctx, analysisID); err != nil {
				log.Errorf("❌ Failed to process job %d: %v", analysisID, err)
			} else {
				log.Infof("✅ Completed job %d", analysisID)
			}
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			logger.Logger.Debug("🔄 Pending jobs poller stopped")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pendingJobs, err := w.analysisRepo.FindPendingJobs(pendingJobBatch)
			if err != nil {
				logger.Logger.Warnf("⚠️  Failed to fetch pending jobs: %v", err)
				continue
			}

			if len(pendingJobs) > 0 {
				logger.Logger.Infof("📋 Found %d pending jobs", len(pendingJobs))
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
