// In-memory progress tracking for enrichment runs. One record per task,
// guarded by a single mutex so multi-field updates appear atomic to
// readers polling or streaming the state.

package progress

import (
	"sync"
	"time"
)

// Status is the pipeline position of one enrichment run.
type Status string

const (
	StatusPending     Status = "pending"
	StatusDownloading Status = "downloading"
	StatusExtracting  Status = "extracting"
	StatusProcessing  Status = "processing"
	StatusGenerating  Status = "generating"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

// Terminal reports whether a run in this status has finished.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// The pipeline has five coarse steps: download, extract, process,
// generate, done.
const totalSteps = 5

// Info is a point-in-time snapshot of one run. Copies are handed out to
// callers; the tracker never shares its internal record.
type Info struct {
	TaskID      string    `json:"task_id"`
	Status      Status    `json:"status"`
	CurrentStep int       `json:"current_step"`
	TotalSteps  int       `json:"total_steps"`
	CurrentItem int       `json:"current_item"`
	TotalItems  int       `json:"total_items"`
	Message     string    `json:"message"`
	StartTime   time.Time `json:"-"`

	// Derived on read.
	ProgressPercentage float64 `json:"progress_percentage"`
	ElapsedTime        float64 `json:"elapsed_time"`
}

type record struct {
	info       Info
	finishedAt time.Time // zero until the run reaches a terminal status
}

// Tracker is a thread-safe map of task id to progress record. Records
// survive completion so callers can poll results after the fact; an
// explicit Cleanup or the TTL sweep removes them.
type Tracker struct {
	mu      sync.Mutex
	records map[string]*record
}

func NewTracker() *Tracker {
	return &Tracker{records: make(map[string]*record)}
}

// Start registers a new record in the pending state, replacing any
// previous record for the same task.
func (t *Tracker) Start(taskID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.start(taskID)
}

// StartIfAbsent registers a new record only if no non-terminal record
// exists for the task. It returns false when a run is already in flight,
// making the at-most-one-run check and the registration a single atomic
// step.
func (t *Tracker) StartIfAbsent(taskID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if rec, ok := t.records[taskID]; ok && !rec.info.Status.Terminal() {
		return false
	}
	t.start(taskID)
	return true
}

func (t *Tracker) start(taskID string) {
	t.records[taskID] = &record{
		info: Info{
			TaskID:     taskID,
			Status:     StatusPending,
			TotalSteps: totalSteps,
			Message:    "Task started",
			StartTime:  time.Now(),
		},
	}
}

// Update applies a partial update to a record. Nil fields keep their
// previous value. Unknown task ids are ignored.
func (t *Tracker) Update(taskID string, status Status, opts ...UpdateOption) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[taskID]
	if !ok {
		return
	}
	rec.info.Status = status
	for _, opt := range opts {
		opt(&rec.info)
	}
}

// UpdateOption mutates selected fields of a record during Update.
type UpdateOption func(*Info)

func WithStep(step int) UpdateOption {
	return func(i *Info) { i.CurrentStep = step }
}

func WithItem(item int) UpdateOption {
	return func(i *Info) { i.CurrentItem = item }
}

func WithTotalItems(total int) UpdateOption {
	return func(i *Info) { i.TotalItems = total }
}

func WithMessage(msg string) UpdateOption {
	return func(i *Info) { i.Message = msg }
}

// Get returns a snapshot of the record, or ok=false if the task is
// unknown. ElapsedTime and ProgressPercentage are computed at read time.
func (t *Tracker) Get(taskID string) (Info, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[taskID]
	if !ok {
		return Info{}, false
	}
	info := rec.info
	info.ElapsedTime = time.Since(info.StartTime).Seconds()
	if info.TotalItems > 0 {
		info.ProgressPercentage = float64(info.CurrentItem) / float64(info.TotalItems) * 100
	}
	return info, true
}

// Complete moves a record to its terminal status and forces the step and
// item counters to their totals. Unknown task ids are ignored.
func (t *Tracker) Complete(taskID string, success bool, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[taskID]
	if !ok {
		return
	}
	if success {
		rec.info.Status = StatusCompleted
	} else {
		rec.info.Status = StatusFailed
	}
	rec.info.CurrentStep = rec.info.TotalSteps
	rec.info.CurrentItem = rec.info.TotalItems
	if message != "" {
		rec.info.Message = message
	}
	rec.finishedAt = time.Now()
}

// Cleanup removes a record. No-op if absent.
func (t *Tracker) Cleanup(taskID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, taskID)
}

// Sweep removes terminal records that finished more than ttl ago and
// returns how many were removed. Non-terminal records are never swept.
func (t *Tracker) Sweep(ttl time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-ttl)
	removed := 0
	for id, rec := range t.records {
		if rec.info.Status.Terminal() && !rec.finishedAt.IsZero() && rec.finishedAt.Before(cutoff) {
			delete(t.records, id)
			removed++
		}
	}
	return removed
}
