package models

import "time"

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Terminal reports whether the status is completed or failed.
// Terminal records are never mutated again.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// TaskType identifies which workflow a task runs
type TaskType string

const (
	TaskTypeLegalQuery       TaskType = "legal_query"
	TaskTypeDocumentAnalysis TaskType = "document_analysis"
	TaskTypeClientIntake     TaskType = "client_intake"
	TaskTypeDocumentUpload   TaskType = "document_upload"
)

// Task represents an async legal-assistance task
type Task struct {
	ID          string      `json:"id" bson:"_id"`
	Type        TaskType    `json:"type" bson:"type"`
	Status      TaskStatus  `json:"status" bson:"status"`
	Filename    string      `json:"filename,omitempty" bson:"filename,omitempty"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updatedAt"`
	CompletedAt *time.Time  `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	Result      *TaskResult `json:"result,omitempty" bson:"result,omitempty"`
	Error       string      `json:"error,omitempty" bson:"error,omitempty"`
}
