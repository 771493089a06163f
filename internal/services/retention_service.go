package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"jurisai-api/internal/database"

	"github.com/robfig/cron/v3"
)

// RetentionService periodically evicts old terminal tasks from the in-memory
// registry. When an archive is configured, tasks are archived before
// eviction so their status stays queryable.
type RetentionService struct {
	tasks    *TaskService
	archive  *database.MongoDBClient
	cron     *cron.Cron
	schedule string
	ttl      time.Duration
}

// NewRetentionService creates a retention sweeper. schedule uses cron format
// with seconds precision. The archive may be nil, in which case old tasks
// are dropped without archival.
func NewRetentionService(tasks *TaskService, archive *database.MongoDBClient, schedule string, ttl time.Duration) (*RetentionService, error) {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	s := &RetentionService{
		tasks:    tasks,
		archive:  archive,
		cron:     c,
		schedule: schedule,
		ttl:      ttl,
	}

	if _, err := c.AddFunc(schedule, s.Sweep); err != nil {
		return nil, fmt.Errorf("failed to schedule retention sweep: %w", err)
	}

	return s, nil
}

// Start starts the cron scheduler
func (s *RetentionService) Start() {
	s.cron.Start()
	log.Printf("Task retention scheduler started (schedule: %s, ttl: %s)", s.schedule, s.ttl)
}

// Stop stops the cron scheduler
func (s *RetentionService) Stop() {
	s.cron.Stop()
	log.Println("Task retention scheduler stopped")
}

// Sweep archives and evicts terminal tasks older than the TTL
func (s *RetentionService) Sweep() {
	cutoff := time.Now().Add(-s.ttl)
	old := s.tasks.TerminalTasksOlderThan(cutoff)
	if len(old) == 0 {
		return
	}

	evicted := 0
	for i := range old {
		task := &old[i]
		if s.archive != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := s.archive.ArchiveTask(ctx, task)
			cancel()
			if err != nil {
				// Keep the task in memory and retry on the next sweep
				log.Printf("WARNING: Failed to archive task %s, keeping in memory: %v", task.ID, err)
				continue
			}
		}
		s.tasks.DeleteTask(task.ID)
		evicted++
	}

	log.Printf("Retention sweep evicted %d of %d expired tasks", evicted, len(old))
}
