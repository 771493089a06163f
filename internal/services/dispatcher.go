package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"jurisai-api/internal/database"
	"jurisai-api/internal/models"
	"jurisai-api/internal/orchestrator"
)

// ErrOrchestratorUnavailable is returned by submit methods when no
// orchestrator was configured at startup
var ErrOrchestratorUnavailable = errors.New("orchestrator not initialized")

const taskTimeout = 5 * time.Minute

// Dispatcher accepts task submissions, registers them in the task registry
// and runs them on background goroutines. Archive, metrics, storage and
// email services are optional and skipped when nil.
type Dispatcher struct {
	tasks        *TaskService
	orchestrator orchestrator.Orchestrator
	archive      *database.MongoDBClient
	metrics      *database.InfluxClient
	storage      *StorageService
	email        *EmailService
	pdf          *PDFService
}

// NewDispatcher creates a dispatcher. The orchestrator may be nil, in which
// case all submissions fail with ErrOrchestratorUnavailable.
func NewDispatcher(tasks *TaskService, orch orchestrator.Orchestrator, archive *database.MongoDBClient, metrics *database.InfluxClient, storage *StorageService, email *EmailService, pdf *PDFService) *Dispatcher {
	return &Dispatcher{
		tasks:        tasks,
		orchestrator: orch,
		archive:      archive,
		metrics:      metrics,
		storage:      storage,
		email:        email,
		pdf:          pdf,
	}
}

// Ready reports whether the dispatcher can accept submissions
func (d *Dispatcher) Ready() bool {
	return d.orchestrator != nil
}

// SubmitLegalQuery registers a legal query task and starts processing it
func (d *Dispatcher) SubmitLegalQuery(req models.LegalQueryRequest) (*models.Task, error) {
	if d.orchestrator == nil {
		return nil, ErrOrchestratorUnavailable
	}

	task, err := d.tasks.CreateTask(models.TaskTypeLegalQuery)
	if err != nil {
		return nil, err
	}

	go d.runLegalQuery(task.ID, req)
	return task, nil
}

// SubmitDocumentAnalysis registers a document analysis task and starts
// processing it
func (d *Dispatcher) SubmitDocumentAnalysis(req models.DocumentAnalysisRequest) (*models.Task, error) {
	if d.orchestrator == nil {
		return nil, ErrOrchestratorUnavailable
	}

	task, err := d.tasks.CreateTask(models.TaskTypeDocumentAnalysis)
	if err != nil {
		return nil, err
	}

	go d.runDocumentAnalysis(task.ID, req)
	return task, nil
}

// SubmitClientIntake registers a client intake task and starts processing it
func (d *Dispatcher) SubmitClientIntake(req models.ClientIntakeRequest) (*models.Task, error) {
	if d.orchestrator == nil {
		return nil, ErrOrchestratorUnavailable
	}

	task, err := d.tasks.CreateTask(models.TaskTypeClientIntake)
	if err != nil {
		return nil, err
	}

	go d.runClientIntake(task.ID, req)
	return task, nil
}

// SubmitDocumentUpload registers an upload task and starts analysing the
// uploaded document's text
func (d *Dispatcher) SubmitDocumentUpload(filename string, content []byte, clientType string) (*models.Task, error) {
	if d.orchestrator == nil {
		return nil, ErrOrchestratorUnavailable
	}

	task, err := d.tasks.CreateUploadTask(filename)
	if err != nil {
		return nil, err
	}

	go d.runDocumentUpload(task.ID, filename, content, clientType)
	return task, nil
}

func (d *Dispatcher) runLegalQuery(taskID string, req models.LegalQueryRequest) {
	defer d.recover(taskID)

	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	if err := d.tasks.MarkProcessing(taskID); err != nil {
		log.Printf("Task %s: %v", taskID, err)
		return
	}

	clientType := ClientTypeForCase(req.CaseType)
	query := req.Query
	if req.AdditionalContext != "" {
		query = query + "\n\nAdditional Context: " + req.AdditionalContext
	}

	result, err := d.orchestrator.ProcessQuery(ctx, query, clientType, orDefault(req.Jurisdiction, "federal"))
	d.finish(taskID, result, err, &models.TaskResult{
		TaskType:   models.TaskTypeLegalQuery,
		ClientType: clientType,
		Query:      req.Query,
	})
}

func (d *Dispatcher) runDocumentAnalysis(taskID string, req models.DocumentAnalysisRequest) {
	defer d.recover(taskID)

	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	if err := d.tasks.MarkProcessing(taskID); err != nil {
		log.Printf("Task %s: %v", taskID, err)
		return
	}

	clientType := req.ClientType
	if clientType == "" {
		clientType = "citizen"
	}
	focus := AnalysisFocus(req.AnalysisType)

	content := req.DocumentText
	if len(req.SpecificSections) > 0 {
		content = content + "\n\nFocus on these sections: " + strings.Join(req.SpecificSections, ", ")
	}

	result, err := d.orchestrator.AnalyzeDocument(ctx, content, focus, clientType)
	d.finish(taskID, result, err, &models.TaskResult{
		TaskType:      models.TaskTypeDocumentAnalysis,
		ClientType:    clientType,
		AnalysisFocus: focus,
	})
}

func (d *Dispatcher) runClientIntake(taskID string, req models.ClientIntakeRequest) {
	defer d.recover(taskID)

	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	if err := d.tasks.MarkProcessing(taskID); err != nil {
		log.Printf("Task %s: %v", taskID, err)
		return
	}

	clientType := ClientTypeForCase(req.CaseType)
	brief := BuildIntakeBrief(req)

	result, err := d.orchestrator.ProcessQuery(ctx, brief, clientType, orDefault(req.Jurisdiction, "federal"))
	d.finish(taskID, result, err, &models.TaskResult{
		TaskType:   models.TaskTypeClientIntake,
		ClientType: clientType,
		ClientName: req.ClientName,
		CaseType:   req.CaseType,
	})

	if req.NotifyEmail != "" && d.email != nil {
		d.notifyIntake(taskID, req)
	}
}

func (d *Dispatcher) runDocumentUpload(taskID string, filename string, content []byte, clientType string) {
	defer d.recover(taskID)

	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	if err := d.tasks.MarkProcessing(taskID); err != nil {
		log.Printf("Task %s: %v", taskID, err)
		return
	}

	if clientType == "" {
		clientType = "citizen"
	}

	var documentKey string
	if d.storage != nil {
		key, err := d.storage.StoreDocument(ctx, taskID, filename, content)
		if err != nil {
			log.Printf("Task %s: failed to store document: %v", taskID, err)
		} else {
			documentKey = key
		}
	}

	text := strings.ToValidUTF8(string(content), "")
	result, err := d.orchestrator.AnalyzeDocument(ctx, text, "general", clientType)
	d.finish(taskID, result, err, &models.TaskResult{
		TaskType:    models.TaskTypeDocumentUpload,
		ClientType:  clientType,
		Filename:    filename,
		DocumentKey: documentKey,
	})
}

// finish applies the orchestrator outcome to the task and runs the
// post-completion hooks. base carries the request echo fields and is
// populated with the orchestrator output on success.
func (d *Dispatcher) finish(taskID string, result *orchestrator.Result, err error, base *models.TaskResult) {
	if err == nil && result == nil {
		err = errors.New("orchestrator returned no result")
	}
	if err == nil && result.Status == orchestrator.StatusError {
		err = errors.New(result.Error)
	}

	if err != nil {
		log.Printf("Task %s failed: %v", taskID, err)
		if setErr := d.tasks.SetTaskError(taskID, err); setErr != nil {
			log.Printf("Task %s: %v", taskID, setErr)
			return
		}
	} else {
		base.Output = result.Output
		if result.ClientType != "" {
			base.ClientType = result.ClientType
		}
		if setErr := d.tasks.SetTaskResult(taskID, base); setErr != nil {
			log.Printf("Task %s: %v", taskID, setErr)
			return
		}
	}

	d.observe(taskID)
}

// observe archives the terminal task and records its outcome metric
func (d *Dispatcher) observe(taskID string) {
	task, err := d.tasks.GetTask(taskID)
	if err != nil {
		log.Printf("Task %s: %v", taskID, err)
		return
	}

	if d.archive != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := d.archive.ArchiveTask(ctx, task); err != nil {
			log.Printf("Task %s: failed to archive: %v", taskID, err)
		}
		cancel()
	}

	if d.metrics != nil {
		duration := task.UpdatedAt.Sub(task.CreatedAt)
		if task.CompletedAt != nil {
			duration = task.CompletedAt.Sub(task.CreatedAt)
		}
		d.metrics.RecordTaskOutcome(string(task.Type), string(task.Status), duration)
	}
}

func (d *Dispatcher) notifyIntake(taskID string, req models.ClientIntakeRequest) {
	task, err := d.tasks.GetTask(taskID)
	if err != nil || task.Status != models.TaskStatusCompleted {
		return
	}

	var pdfBytes []byte
	if d.pdf != nil {
		pdfBytes, err = d.pdf.GenerateTaskPDF(task)
		if err != nil {
			log.Printf("Task %s: failed to generate intake PDF: %v", taskID, err)
			pdfBytes = nil
		}
	}

	if err := d.email.SendIntakeNotification(req.NotifyEmail, req.ClientName, task, pdfBytes); err != nil {
		log.Printf("Task %s: failed to send intake notification: %v", taskID, err)
	}
}

// recover converts a panic in a task goroutine into a failed task
func (d *Dispatcher) recover(taskID string) {
	if r := recover(); r != nil {
		log.Printf("Task %s panicked: %v", taskID, r)
		if err := d.tasks.SetTaskError(taskID, fmt.Errorf("internal error: %v", r)); err != nil {
			log.Printf("Task %s: %v", taskID, err)
			return
		}
		d.observe(taskID)
	}
}

// ClientTypeForCase maps a case type onto the advice audience
func ClientTypeForCase(caseType string) string {
	switch strings.ToLower(caseType) {
	case "corporate", "intellectual_property", "business":
		return "business"
	case "complex_litigation", "appeals":
		return "lawyer"
	default:
		return "citizen"
	}
}

// AnalysisFocus maps a requested analysis type onto an orchestrator focus
func AnalysisFocus(analysisType string) string {
	switch strings.ToLower(analysisType) {
	case "risk_assessment":
		return "risk"
	case "contract_review":
		return "contract"
	case "compliance":
		return "compliance"
	default:
		return "general"
	}
}

// BuildIntakeBrief composes the advice request for a new client intake
func BuildIntakeBrief(req models.ClientIntakeRequest) string {
	jurisdiction := orDefault(req.Jurisdiction, "Not specified")
	outcome := orDefault(req.PreferredOutcome, "Not specified")
	budget := orDefault(req.BudgetRange, "Not specified")
	timeline := orDefault(req.Timeline, "Not specified")

	return fmt.Sprintf(`New client intake:
Client Name: %s
Case Type: %s
Case Description: %s
Jurisdiction: %s
Preferred Outcome: %s
Budget Range: %s
Timeline: %s

Please provide comprehensive legal advice and next steps for this client.`,
		req.ClientName, req.CaseType, req.CaseDescription,
		jurisdiction, outcome, budget, timeline)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
