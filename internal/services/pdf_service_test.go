package services

import (
	"bytes"
	"testing"
	"time"

	"jurisai-api/internal/models"
)

func TestGenerateTaskPDF(t *testing.T) {
	svc := NewPDFService()
	now := time.Now()

	task := &models.Task{
		ID:          "task-1",
		Type:        models.TaskTypeLegalQuery,
		Status:      models.TaskStatusCompleted,
		CreatedAt:   now,
		UpdatedAt:   now,
		CompletedAt: &now,
		Result: &models.TaskResult{
			Output:     "You may terminate the lease with 30 days notice.\n\nKey Points:\n- Review clause 7\n- Send written notice",
			TaskType:   models.TaskTypeLegalQuery,
			ClientType: "citizen",
		},
	}

	pdfBytes, err := svc.GenerateTaskPDF(task)
	if err != nil {
		t.Fatalf("GenerateTaskPDF failed: %v", err)
	}
	if len(pdfBytes) == 0 {
		t.Fatal("expected non-empty PDF output")
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF, starts with %q", pdfBytes[:4])
	}
}

func TestGenerateTaskPDFWithoutResult(t *testing.T) {
	svc := NewPDFService()

	if _, err := svc.GenerateTaskPDF(&models.Task{ID: "x", Status: models.TaskStatusPending}); err == nil {
		t.Error("expected error for task without result")
	}
	if _, err := svc.GenerateTaskPDF(nil); err == nil {
		t.Error("expected error for nil task")
	}
}
