package jobs

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

const (
	JobSessionCleanup = "session-cleanup"
	JobProgressSweep  = "progress-sweep"
	JobArtifactSweep  = "artifact-sweep"
)

// RegisterAll registers the periodic maintenance jobs with the manager
// so they can also be triggered manually through the admin API.
func RegisterAll(jm *JobManager) {
	jm.Register(JobSessionCleanup, cleanupSessions)
	jm.Register(JobProgressSweep, sweepProgress)
	jm.Register(JobArtifactSweep, sweepArtifacts)
}

// StartJobs starts the background job scheduler.
func StartJobs(app JobContext) {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	schedule(s, app, JobSessionCleanup, 15)
	schedule(s, app, JobProgressSweep, 10)
	schedule(s, app, JobArtifactSweep, 30)

	log.Println("Starting background job scheduler...")
	s.StartAsync()
}

func schedule(s *gocron.Scheduler, app JobContext, jobId string, minutes int) {
	log.Printf("Scheduling job: '%s' to run every %d minutes.", jobId, minutes)

	_, err := s.Every(minutes).Minutes().Do(func() {
		// Submit the job to the manager instead of running it directly.
		// This prevents conflicts with manually triggered jobs.
		err := app.JobManager().RunJob(jobId, app)
		if err != nil {
			log.Printf("Scheduled job '%s' could not start: %v", jobId, err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling '%s' job: %v", jobId, err)
	}
}

func cleanupSessions(ctx JobContext) {
	removed, err := ctx.Store().DeleteExpiredSessions()
	if err != nil {
		log.Printf("Session cleanup failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Session cleanup removed %d expired sessions", removed)
	}
}

func sweepProgress(ctx JobContext) {
	ttl := time.Duration(ctx.Config().ProgressTTL) * time.Minute
	removed := ctx.Tracker().Sweep(ttl)
	if removed > 0 {
		log.Printf("Progress sweep removed %d finished records", removed)
	}
}

func sweepArtifacts(ctx JobContext) {
	ttl := time.Duration(ctx.Config().ProgressTTL) * time.Minute
	removed := ctx.Artifacts().SweepOlderThan(ttl)
	if removed > 0 {
		log.Printf("Artifact sweep removed %d stale files", removed)
	}
}
