package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"jurisai-api/internal/database"
	"jurisai-api/internal/models"
	"jurisai-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// maxUploadSize bounds uploaded document size (10 MB)
const maxUploadSize = 10 << 20

// Handlers contains all HTTP handlers
type Handlers struct {
	dispatcher  *services.Dispatcher
	taskService *services.TaskService
	pdfService  *services.PDFService
	mongoClient *database.MongoDBClient
	upgrader    websocket.Upgrader
}

// NewHandlers creates a new handlers instance. mongoClient may be nil when
// no task archive is configured.
func NewHandlers(
	dispatcher *services.Dispatcher,
	taskService *services.TaskService,
	pdfService *services.PDFService,
	mongoClient *database.MongoDBClient,
) *Handlers {
	return &Handlers{
		dispatcher:  dispatcher,
		taskService: taskService,
		pdfService:  pdfService,
		mongoClient: mongoClient,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// LegalQueryHandler handles POST /api/legal-query
func (h *Handlers) LegalQueryHandler(c *gin.Context) {
	var req models.LegalQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.dispatcher.SubmitLegalQuery(req)
	if err != nil {
		h.submissionError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, models.TaskResponse{
		TaskID:  task.ID,
		Status:  string(task.Status),
		Message: "Legal query submitted for processing",
	})
}

// AnalyzeDocumentHandler handles POST /api/analyze-document
func (h *Handlers) AnalyzeDocumentHandler(c *gin.Context) {
	var req models.DocumentAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.dispatcher.SubmitDocumentAnalysis(req)
	if err != nil {
		h.submissionError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, models.TaskResponse{
		TaskID:  task.ID,
		Status:  string(task.Status),
		Message: "Document analysis submitted for processing",
	})
}

// ClientIntakeHandler handles POST /api/client-intake
func (h *Handlers) ClientIntakeHandler(c *gin.Context) {
	var req models.ClientIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.dispatcher.SubmitClientIntake(req)
	if err != nil {
		h.submissionError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, models.TaskResponse{
		TaskID:  task.ID,
		Status:  string(task.Status),
		Message: "Client intake submitted for processing",
	})
}

// UploadDocumentHandler handles POST /api/upload-document (multipart form)
func (h *Handlers) UploadDocumentHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds maximum size of 10MB"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return
	}

	clientType := c.PostForm("client_type")

	task, err := h.dispatcher.SubmitDocumentUpload(fileHeader.Filename, content, clientType)
	if err != nil {
		h.submissionError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, models.TaskResponse{
		TaskID:  task.ID,
		Status:  string(task.Status),
		Message: fmt.Sprintf("Document '%s' uploaded for analysis", fileHeader.Filename),
	})
}

// GetTaskStatusHandler handles GET /api/task-status/:taskId
func (h *Handlers) GetTaskStatusHandler(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId is required"})
		return
	}

	task, err := h.lookupTask(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	c.JSON(http.StatusOK, statusResponse(task))
}

// ListTasksHandler handles GET /api/tasks
func (h *Handlers) ListTasksHandler(c *gin.Context) {
	tasks := h.taskService.ListTasks()
	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// TaskPDFHandler handles GET /api/tasks/:taskId/pdf
// Renders a completed task's result as a downloadable PDF
func (h *Handlers) TaskPDFHandler(c *gin.Context) {
	taskID := c.Param("taskId")

	task, err := h.lookupTask(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	if task.Status != models.TaskStatusCompleted || task.Result == nil {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("task is %s, PDF is only available for completed tasks", task.Status)})
		return
	}

	pdfBytes, err := h.pdfService.GenerateTaskPDF(task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to generate PDF: %v", err)})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=task-%s.pdf", task.ID))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// TaskStatusStreamHandler handles GET /api/task-status/:taskId/ws
// Upgrades to a WebSocket and streams status updates until the task
// reaches a terminal state
func (h *Handlers) TaskStatusStreamHandler(c *gin.Context) {
	taskID := c.Param("taskId")

	if _, err := h.taskService.GetTask(taskID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed for task %s: %v", taskID, err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	var lastStatus models.TaskStatus
	for {
		task, err := h.taskService.GetTask(taskID)
		if err != nil {
			// Task was evicted while streaming
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "task evicted"),
				time.Now().Add(time.Second))
			return
		}

		if task.Status != lastStatus {
			lastStatus = task.Status
			if err := conn.WriteJSON(statusResponse(task)); err != nil {
				return
			}
		}

		if task.Status.Terminal() {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		}

		select {
		case <-ticker.C:
		case <-c.Request.Context().Done():
			return
		}
	}
}

// HealthHandler handles GET /health
func (h *Handlers) HealthHandler(c *gin.Context) {
	orchestratorState := "not ready"
	if h.dispatcher.Ready() {
		orchestratorState = "ready"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
		"orchestrator":      orchestratorState,
		"tasks_in_registry": h.taskService.Count(),
	})
}

// RootHandler handles GET /
func (h *Handlers) RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "JurisAI Legal Assistant API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"legal_query":       "POST /api/legal-query",
			"analyze_document":  "POST /api/analyze-document",
			"upload_document":   "POST /api/upload-document",
			"client_intake":     "POST /api/client-intake",
			"task_status":       "GET /api/task-status/{task_id}",
			"task_status_ws":    "GET /api/task-status/{task_id}/ws",
			"task_pdf":          "GET /api/tasks/{task_id}/pdf",
			"list_tasks":        "GET /api/tasks",
			"health":            "GET /health",
		},
	})
}

// lookupTask reads a task from the registry, falling back to the archive
// for tasks already evicted by the retention sweep
func (h *Handlers) lookupTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := h.taskService.GetTask(taskID)
	if err == nil {
		return task, nil
	}

	if h.mongoClient != nil {
		lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		archived, archiveErr := h.mongoClient.GetArchivedTask(lookupCtx, taskID)
		if archiveErr != nil {
			log.Printf("WARNING: Archive lookup failed for task %s: %v", taskID, archiveErr)
		} else if archived != nil {
			return archived, nil
		}
	}

	return nil, err
}

// submissionError maps dispatcher submission failures onto HTTP responses
func (h *Handlers) submissionError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrOrchestratorUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service not ready. Orchestrator not initialized."})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
}

// statusResponse builds the status payload for a task. The result is only
// included for completed tasks and the error only for failed ones.
func statusResponse(task *models.Task) models.TaskStatusResponse {
	response := models.TaskStatusResponse{
		TaskID:    task.ID,
		Type:      string(task.Type),
		Status:    string(task.Status),
		CreatedAt: task.CreatedAt.Format(time.RFC3339),
	}

	if task.Status == models.TaskStatusCompleted {
		response.Result = task.Result
	} else if task.Status == models.TaskStatusFailed {
		response.Error = task.Error
	}

	if task.CompletedAt != nil {
		completedAt := task.CompletedAt.Format(time.RFC3339)
		response.CompletedAt = &completedAt
	}

	return response
}
