package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"jurisai-api/internal/models"
	"jurisai-api/internal/utils"
)

var (
	// ErrTaskNotFound is returned when a task identifier is unknown
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskTerminal is returned when a write targets a completed or
	// failed task. Terminal records are immutable.
	ErrTaskTerminal = errors.New("task already in a terminal state")
)

// TaskService is the process-wide task registry. It exclusively owns all
// task records: reads hand out copies, and status transitions are monotonic
// (pending -> processing -> completed|failed).
type TaskService struct {
	tasks map[string]*models.Task
	mutex sync.RWMutex
}

// NewTaskService creates a new task registry
func NewTaskService() *TaskService {
	return &TaskService{
		tasks: make(map[string]*models.Task),
	}
}

// CreateTask registers a new pending task and returns a copy of it
func (s *TaskService) CreateTask(taskType models.TaskType) (*models.Task, error) {
	return s.create(taskType, "")
}

// CreateUploadTask registers a pending document-upload task carrying the
// uploaded file's name
func (s *TaskService) CreateUploadTask(filename string) (*models.Task, error) {
	return s.create(models.TaskTypeDocumentUpload, filename)
}

func (s *TaskService) create(taskType models.TaskType, filename string) (*models.Task, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	taskID := utils.GenerateUUID()
	now := time.Now()

	task := &models.Task{
		ID:        taskID,
		Type:      taskType,
		Status:    models.TaskStatusPending,
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.tasks[taskID] = task
	return snapshot(task), nil
}

// GetTask retrieves a copy of a task by ID
func (s *TaskService) GetTask(taskID string) (*models.Task, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}

	return snapshot(task), nil
}

// MarkProcessing moves a pending task to processing
func (s *TaskService) MarkProcessing(taskID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if task.Status.Terminal() {
		return fmt.Errorf("%w: %s", ErrTaskTerminal, taskID)
	}

	task.Status = models.TaskStatusProcessing
	task.UpdatedAt = time.Now()
	return nil
}

// SetTaskResult completes a task with its result payload
func (s *TaskService) SetTaskResult(taskID string, result *models.TaskResult) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if task.Status.Terminal() {
		return fmt.Errorf("%w: %s", ErrTaskTerminal, taskID)
	}

	now := time.Now()
	task.Status = models.TaskStatusCompleted
	task.Result = result
	task.Error = ""
	task.UpdatedAt = now
	task.CompletedAt = &now
	return nil
}

// SetTaskError marks a task as failed with an error message
func (s *TaskService) SetTaskError(taskID string, taskErr error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if task.Status.Terminal() {
		return fmt.Errorf("%w: %s", ErrTaskTerminal, taskID)
	}

	now := time.Now()
	task.Status = models.TaskStatusFailed
	task.Error = taskErr.Error()
	task.Result = nil
	task.UpdatedAt = now
	task.CompletedAt = &now
	return nil
}

// ListTasks returns summaries of all tasks, newest first
func (s *TaskService) ListTasks() []models.TaskSummary {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	tasks := make([]*models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	summaries := make([]models.TaskSummary, len(tasks))
	for i, task := range tasks {
		summaries[i] = models.TaskSummary{
			TaskID:    task.ID,
			Status:    string(task.Status),
			Type:      string(task.Type),
			CreatedAt: task.CreatedAt.Format(time.RFC3339),
		}
	}
	return summaries
}

// Count returns the number of tasks in the registry
func (s *TaskService) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.tasks)
}

// DeleteTask removes a task from memory (after it's been archived)
func (s *TaskService) DeleteTask(taskID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.tasks, taskID)
}

// TerminalTasksOlderThan returns copies of terminal tasks that completed
// before the cutoff. Used by the retention sweeper.
func (s *TaskService) TerminalTasksOlderThan(cutoff time.Time) []models.Task {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var old []models.Task
	for _, task := range s.tasks {
		if task.Status.Terminal() && task.CompletedAt != nil && task.CompletedAt.Before(cutoff) {
			old = append(old, *snapshot(task))
		}
	}
	return old
}

// snapshot returns a copy of the task safe to hand outside the registry.
// Result payloads are value-copied so callers cannot mutate stored state.
func snapshot(task *models.Task) *models.Task {
	copied := *task
	if task.CompletedAt != nil {
		at := *task.CompletedAt
		copied.CompletedAt = &at
	}
	if task.Result != nil {
		result := *task.Result
		copied.Result = &result
	}
	return &copied
}
