package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"org-knowledge-platform/internal/logger"
)

// Scheduler runs periodic maintenance jobs, currently the knowledge base
// backup.
type Scheduler struct {
	scheduler *gocron.Scheduler
}

func NewScheduler() *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()
	return &Scheduler{scheduler: s}
}

// ScheduleBackup registers the backup job under the given cron expression.
func (s *Scheduler) ScheduleBackup(cronExpr string, backup *BackupService) error {
	_, err := s.scheduler.Cron(cronExpr).Tag("kb-backup").Do(func() {
		if _, err := backup.Run(context.Background()); err != nil {
			logger.Error("Scheduled backup failed", "error", err)
		}
	})
	return err
}

// Start starts the scheduler in the background.
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}
