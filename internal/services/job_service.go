package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahamhfc/aham-cms-api/internal/jobs"
	"github.com/ahamhfc/aham-cms-api/internal/models"
	"github.com/ahamhfc/aham-cms-api/pkg/logger"
)

// Job names as they appear in logs and worker stats.
const (
	JobOrphanSweep    = "media_orphan_sweep"
	JobAccountCreated = "account_created_email"
)

// ErrJobBusy is returned when a manual job cannot be queued right now.
var ErrJobBusy = errors.New("background worker is busy")

// JobService schedules the maintenance jobs of the media library and lets an
// admin trigger them by hand.
type JobService struct {
	worker *jobs.Worker
	media  *MediaService
	email  *EmailService
}

func NewJobService(worker *jobs.Worker, media *MediaService, email *EmailService) *JobService {
	return &JobService{
		worker: worker,
		media:  media,
		email:  email,
	}
}

// Start registers the recurring jobs.
func (s *JobService) Start(sweepEvery time.Duration) {
	s.worker.ScheduleEvery(JobOrphanSweep, sweepEvery, s.sweep)
	logger.Info("Scheduled media orphan sweep", "every", sweepEvery.String())
}

// TriggerOrphanSweep queues an immediate sweep.
func (s *JobService) TriggerOrphanSweep() error {
	if err := s.worker.Enqueue(JobOrphanSweep, s.sweep); err != nil {
		return fmt.Errorf("%w: %v", ErrJobBusy, err)
	}
	return nil
}

// QueueAccountCreatedEmail sends the welcome email off the request path.
// A full queue drops the email with a warning.
func (s *JobService) QueueAccountCreatedEmail(user models.User) {
	if s.email == nil || !s.email.Enabled() {
		return
	}
	err := s.worker.Enqueue(JobAccountCreated, func(ctx context.Context) error {
		return s.email.SendAccountCreated(ctx, &user)
	})
	if err != nil {
		logger.Warn("Account email not queued", "to", user.Email, "error", err)
	}
}

func (s *JobService) sweep(ctx context.Context) error {
	_, err := s.media.SweepOrphans(ctx)
	return err
}

func (s *JobService) GetStatus() jobs.WorkerStats {
	return s.worker.GetStats()
}
