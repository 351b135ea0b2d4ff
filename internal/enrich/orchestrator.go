// Package enrich runs the report-to-template pipeline: download the
// finished inventory report, extract its item ids, fan out to the
// Trading API for per-item detail and render the revise template.
package enrich

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Staninbui/wood/internal/artifact"
	"github.com/Staninbui/wood/internal/config"
	"github.com/Staninbui/wood/internal/models"
	"github.com/Staninbui/wood/internal/progress"
	"github.com/Staninbui/wood/internal/report"
	"github.com/Staninbui/wood/internal/template"
)

// ErrAlreadyRunning means the task already has a non-terminal run.
var ErrAlreadyRunning = errors.New("enrich: task already running")

// ReportSource downloads a finished report archive for a task.
type ReportSource interface {
	DownloadResult(ctx context.Context, accessToken, taskID string) ([]byte, error)
}

// ItemFetcher retrieves the detail of a single listing.
type ItemFetcher interface {
	GetItem(ctx context.Context, itemID, authToken string) (*models.ItemDetails, error)
}

// Broadcaster pushes progress payloads to connected WebSocket clients.
type Broadcaster interface {
	BroadcastJSON(v interface{})
}

// Service owns the enrichment pipeline for inventory report tasks.
type Service struct {
	cfg       *config.Config
	tracker   *progress.Tracker
	reports   ReportSource
	items     ItemFetcher
	artifacts *artifact.Store
	hub       Broadcaster
}

func NewService(cfg *config.Config, tracker *progress.Tracker, reports ReportSource, items ItemFetcher, artifacts *artifact.Store, hub Broadcaster) *Service {
	return &Service{
		cfg:       cfg,
		tracker:   tracker,
		reports:   reports,
		items:     items,
		artifacts: artifacts,
		hub:       hub,
	}
}

// Enrich starts the pipeline for a task in the background. At most one
// run per task id can be in flight; a second call while one is running
// returns ErrAlreadyRunning.
func (s *Service) Enrich(taskID, accessToken string) error {
	if !s.tracker.StartIfAbsent(taskID) {
		return ErrAlreadyRunning
	}

	go func() {
		timeout := time.Duration(s.cfg.TaskTimeout) * time.Second
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s.run(ctx, taskID, accessToken)
	}()

	return nil
}

func (s *Service) run(ctx context.Context, taskID, accessToken string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Task %s: enrichment panicked: %v", taskID, r)
			s.tracker.Complete(taskID, false, fmt.Sprintf("Enrichment panicked: %v", r))
			s.broadcast(taskID)
		}
	}()

	start := time.Now()

	// Step 1: download the report archive.
	s.advance(taskID, progress.StatusDownloading, 1, "Downloading report file")
	archive, err := s.reports.DownloadResult(ctx, accessToken, taskID)
	if err != nil {
		s.fail(taskID, fmt.Sprintf("Report download failed: %v", err))
		return
	}

	// Step 2: pull the item ids out of the report.
	s.advance(taskID, progress.StatusExtracting, 2, "Extracting item IDs from report")
	itemIDs, err := report.ExtractItemIDs(ctx, archive)
	if err != nil {
		s.fail(taskID, fmt.Sprintf("Report parsing failed: %v", err))
		return
	}
	if len(itemIDs) == 0 {
		s.fail(taskID, "Report contains no items")
		return
	}
	log.Printf("Task %s: extracted %d unique item IDs", taskID, len(itemIDs))

	// Step 3: fetch per-item detail with a bounded worker pool.
	s.tracker.Update(taskID, progress.StatusProcessing,
		progress.WithStep(3),
		progress.WithTotalItems(len(itemIDs)),
		progress.WithMessage(fmt.Sprintf("Fetching details for %d items", len(itemIDs))))
	s.broadcast(taskID)

	details := s.fetchAll(ctx, taskID, accessToken, itemIDs)
	if ctx.Err() != nil {
		s.fail(taskID, "Enrichment timed out")
		return
	}
	if len(details) == 0 {
		s.fail(taskID, "No item details could be obtained")
		return
	}

	// Step 4: render and store the template artifacts.
	s.advance(taskID, progress.StatusGenerating, 4, "Generating revise template")
	if err := s.generate(taskID, details); err != nil {
		s.fail(taskID, fmt.Sprintf("Template generation failed: %v", err))
		return
	}

	// Step 5: done.
	elapsed := time.Since(start).Seconds()
	s.tracker.Complete(taskID, true, fmt.Sprintf("Completed with %d items in %.1fs", len(details), elapsed))
	s.broadcast(taskID)
	log.Printf("Task %s: enrichment completed, %d of %d items kept, %.1fs", taskID, len(details), len(itemIDs), elapsed)
}

// fetchAll fans the item ids out over MaxWorkers concurrent GetItem
// calls. The per-item counter tracks attempts, not successes, so the
// bar reaches 100% even when some items fail or get filtered. Items in
// another currency are dropped without failing the run.
func (s *Service) fetchAll(ctx context.Context, taskID, accessToken string, itemIDs []string) []*models.ItemDetails {
	workers := s.cfg.MaxWorkers
	if workers < 1 {
		workers = 1
	}

	ids := make(chan string)
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		kept      []*models.ItemDetails
		attempted int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range ids {
				detail, err := s.items.GetItem(ctx, id, accessToken)

				// The counter update and the tracker write stay under the
				// same lock so readers never see current_item go backwards.
				mu.Lock()
				attempted++
				switch {
				case err != nil:
					log.Printf("Task %s: item %s failed: %v", taskID, id, err)
				case detail == nil:
					log.Printf("Task %s: item %s returned no detail", taskID, id)
				case detail.Currency != s.cfg.Ebay.AcceptedCurrency:
					log.Printf("Task %s: item %s skipped, currency %q", taskID, id, detail.Currency)
				default:
					kept = append(kept, detail)
				}
				s.tracker.Update(taskID, progress.StatusProcessing,
					progress.WithItem(attempted),
					progress.WithMessage(fmt.Sprintf("Processed %d/%d items", attempted, len(itemIDs))))
				s.broadcast(taskID)
				mu.Unlock()
			}
		}()
	}

feed:
	for _, id := range itemIDs {
		select {
		case ids <- id:
		case <-ctx.Done():
			break feed
		}
	}
	close(ids)
	wg.Wait()

	return kept
}

func (s *Service) generate(taskID string, details []*models.ItemDetails) error {
	table, err := template.Build(details)
	if err != nil {
		return err
	}

	var csvBuf bytes.Buffer
	if err := table.WriteCSV(&csvBuf); err != nil {
		return err
	}
	if err := s.artifacts.Save(taskID, "csv", csvBuf.Bytes()); err != nil {
		return err
	}

	var xlsxBuf bytes.Buffer
	if err := table.WriteXLSX(&xlsxBuf); err != nil {
		return err
	}
	return s.artifacts.Save(taskID, "xlsx", xlsxBuf.Bytes())
}

func (s *Service) advance(taskID string, status progress.Status, step int, message string) {
	s.tracker.Update(taskID, status, progress.WithStep(step), progress.WithMessage(message))
	s.broadcast(taskID)
}

func (s *Service) fail(taskID, message string) {
	log.Printf("Task %s: %s", taskID, message)
	s.tracker.Complete(taskID, false, message)
	s.broadcast(taskID)
}

func (s *Service) broadcast(taskID string) {
	if s.hub == nil {
		return
	}
	info, ok := s.tracker.Get(taskID)
	if !ok {
		return
	}
	s.hub.BroadcastJSON(models.ProgressUpdate{
		TaskID:   taskID,
		Message:  info.Message,
		Progress: info.ProgressPercentage,
		Status:   string(info.Status),
		Done:     info.Status.Terminal(),
	})
}
