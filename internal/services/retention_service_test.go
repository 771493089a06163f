package services

import (
	"errors"
	"testing"
	"time"

	"jurisai-api/internal/models"
)

func TestNewRetentionServiceRejectsBadSchedule(t *testing.T) {
	tasks := NewTaskService()

	if _, err := NewRetentionService(tasks, nil, "not a cron expr", time.Hour); err == nil {
		t.Fatal("expected error for invalid cron schedule")
	}
	if _, err := NewRetentionService(tasks, nil, "0 0 * * * *", time.Hour); err != nil {
		t.Fatalf("valid schedule rejected: %v", err)
	}
}

func TestSweepEvictsOldTerminalTasks(t *testing.T) {
	tasks := NewTaskService()

	expired, _ := tasks.CreateTask(models.TaskTypeLegalQuery)
	_ = tasks.MarkProcessing(expired.ID)
	_ = tasks.SetTaskResult(expired.ID, &models.TaskResult{Output: "old"})

	pending, _ := tasks.CreateTask(models.TaskTypeLegalQuery)

	time.Sleep(5 * time.Millisecond)

	// TTL of zero makes every terminal task immediately eligible
	svc, err := NewRetentionService(tasks, nil, "0 0 * * * *", 0)
	if err != nil {
		t.Fatalf("NewRetentionService failed: %v", err)
	}
	svc.Sweep()

	if _, err := tasks.GetTask(expired.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected terminal task to be evicted, got %v", err)
	}
	if _, err := tasks.GetTask(pending.ID); err != nil {
		t.Errorf("pending task must survive the sweep: %v", err)
	}
}

func TestSweepKeepsYoungTerminalTasks(t *testing.T) {
	tasks := NewTaskService()

	task, _ := tasks.CreateTask(models.TaskTypeLegalQuery)
	_ = tasks.MarkProcessing(task.ID)
	_ = tasks.SetTaskResult(task.ID, &models.TaskResult{Output: "fresh"})

	svc, err := NewRetentionService(tasks, nil, "0 0 * * * *", time.Hour)
	if err != nil {
		t.Fatalf("NewRetentionService failed: %v", err)
	}
	svc.Sweep()

	if _, err := tasks.GetTask(task.ID); err != nil {
		t.Errorf("task inside the TTL must survive the sweep: %v", err)
	}
}
