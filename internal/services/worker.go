package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"inclusiveai/skill-assessment/internal/models"
	"inclusiveai/skill-assessment/internal/repositories"
)

// Worker processes queued hiring-report jobs in the background. Each job is
// one full pipeline run; runs are independent and safe to execute
// concurrently.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(reportID uuid.UUID)
}

type worker struct {
	reportRepo  repositories.ReportRepository
	crew        *HiringCrew
	jobQueue    chan uuid.UUID
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
}

func NewWorker(
	reportRepo repositories.ReportRepository,
	crew *HiringCrew,
	concurrency int,
) Worker {
	return &worker{
		reportRepo:  reportRepo,
		crew:        crew,
		jobQueue:    make(chan uuid.UUID, 100),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting report worker with %d concurrent workers", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping report worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Report worker stopped")
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(reportID uuid.UUID) {
	select {
	case w.jobQueue <- reportID:
		log.Printf("📥 Report job %s enqueued", reportID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue report job %s", reportID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped", workerID)
			return
		case reportID := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing report %s", workerID, reportID)
			if err := w.buildReport(ctx, reportID); err != nil {
				log.Printf("❌ Worker #%d failed report %s: %v", workerID, reportID, err)
			} else {
				log.Printf("✅ Worker #%d completed report %s", workerID, reportID)
			}
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			pending, err := w.reportRepo.FindPendingJobs(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending report jobs: %v", err)
				continue
			}
			for _, job := range pending {
				w.EnqueueJob(job.ID)
			}
		}
	}
}

func (w *worker) buildReport(ctx context.Context, reportID uuid.UUID) error {
	if err := w.reportRepo.UpdateStatus(reportID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to mark report processing: %w", err)
	}

	job, err := w.reportRepo.FindByID(reportID)
	if err != nil {
		w.reportRepo.UpdateError(reportID, err.Error())
		return fmt.Errorf("failed to load report job: %w", err)
	}

	report, err := w.crew.BuildHiringReport(
		ctx,
		job.CandidateEmail,
		job.ResumeText,
		job.Domain,
		models.AccessibilityMode(job.AccessibilityMode),
	)
	if err != nil {
		w.reportRepo.UpdateError(reportID, err.Error())
		if errors.Is(err, ErrInvalidInput) {
			return fmt.Errorf("rejected report job: %w", err)
		}
		return fmt.Errorf("failed to build report: %w", err)
	}

	resultJSON, err := json.Marshal(report)
	if err != nil {
		w.reportRepo.UpdateError(reportID, err.Error())
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := w.reportRepo.UpdateResult(reportID, resultJSON); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}
