package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"jurisai-api/internal/models"
	"jurisai-api/internal/orchestrator"
)

// fakeOrchestrator records calls and returns canned results
type fakeOrchestrator struct {
	result *orchestrator.Result
	err    error

	lastQuery        string
	lastClientType   string
	lastJurisdiction string
	lastContent      string
	lastFocus        string
}

func (f *fakeOrchestrator) ProcessQuery(ctx context.Context, query, clientType, jurisdiction string) (*orchestrator.Result, error) {
	f.lastQuery = query
	f.lastClientType = clientType
	f.lastJurisdiction = jurisdiction
	return f.result, f.err
}

func (f *fakeOrchestrator) AnalyzeDocument(ctx context.Context, content, focus, clientType string) (*orchestrator.Result, error) {
	f.lastContent = content
	f.lastFocus = focus
	f.lastClientType = clientType
	return f.result, f.err
}

func successResult(output string) *orchestrator.Result {
	return &orchestrator.Result{Status: orchestrator.StatusSuccess, Output: output}
}

// waitTerminal polls until the task reaches a terminal state
func waitTerminal(t *testing.T, tasks *TaskService, taskID string) *models.Task {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		task, err := tasks.GetTask(taskID)
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if task.Status.Terminal() {
			return task
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("task %s never reached a terminal state", taskID)
	return nil
}

func newTestDispatcher(orch orchestrator.Orchestrator) (*Dispatcher, *TaskService) {
	tasks := NewTaskService()
	return NewDispatcher(tasks, orch, nil, nil, nil, nil, nil), tasks
}

func TestSubmitWithoutOrchestrator(t *testing.T) {
	d, tasks := newTestDispatcher(nil)

	_, err := d.SubmitLegalQuery(models.LegalQueryRequest{Query: "q"})
	if !errors.Is(err, ErrOrchestratorUnavailable) {
		t.Errorf("expected ErrOrchestratorUnavailable, got %v", err)
	}
	if tasks.Count() != 0 {
		t.Errorf("rejected submission must not create a task, registry has %d", tasks.Count())
	}
	if d.Ready() {
		t.Error("dispatcher without orchestrator must not report ready")
	}
}

func TestLegalQuerySuccess(t *testing.T) {
	fake := &fakeOrchestrator{result: successResult("the advice")}
	d, tasks := newTestDispatcher(fake)

	task, err := d.SubmitLegalQuery(models.LegalQueryRequest{
		Query:             "Can I break my lease?",
		CaseType:          "corporate",
		AdditionalContext: "tenant since 2020",
	})
	if err != nil {
		t.Fatalf("SubmitLegalQuery failed: %v", err)
	}
	if task.Status != models.TaskStatusPending {
		t.Errorf("submission should return a pending task, got %s", task.Status)
	}

	done := waitTerminal(t, tasks, task.ID)
	if done.Status != models.TaskStatusCompleted {
		t.Fatalf("expected completed, got %s (error: %s)", done.Status, done.Error)
	}
	if done.Result.Output != "the advice" {
		t.Errorf("expected orchestrator output, got %q", done.Result.Output)
	}
	if done.Result.TaskType != models.TaskTypeLegalQuery {
		t.Errorf("expected task_type legal_query, got %s", done.Result.TaskType)
	}
	if done.Result.Query != "Can I break my lease?" {
		t.Errorf("result should echo the original query, got %q", done.Result.Query)
	}

	if fake.lastClientType != "business" {
		t.Errorf("corporate case should map to business client, got %q", fake.lastClientType)
	}
	if fake.lastJurisdiction != "federal" {
		t.Errorf("empty jurisdiction should default to federal, got %q", fake.lastJurisdiction)
	}
	if !strings.Contains(fake.lastQuery, "Additional Context: tenant since 2020") {
		t.Errorf("additional context missing from query: %q", fake.lastQuery)
	}
}

func TestLegalQueryOrchestratorError(t *testing.T) {
	fake := &fakeOrchestrator{err: errors.New("LLM unreachable")}
	d, tasks := newTestDispatcher(fake)

	task, err := d.SubmitLegalQuery(models.LegalQueryRequest{Query: "q"})
	if err != nil {
		t.Fatalf("SubmitLegalQuery failed: %v", err)
	}

	done := waitTerminal(t, tasks, task.ID)
	if done.Status != models.TaskStatusFailed {
		t.Fatalf("expected failed, got %s", done.Status)
	}
	if !strings.Contains(done.Error, "LLM unreachable") {
		t.Errorf("expected error message on task, got %q", done.Error)
	}
	if done.Result != nil {
		t.Error("failed task should not carry a result")
	}
}

func TestLegalQueryErrorStatusResult(t *testing.T) {
	fake := &fakeOrchestrator{result: &orchestrator.Result{
		Status: orchestrator.StatusError,
		Error:  "validation rejected advice",
	}}
	d, tasks := newTestDispatcher(fake)

	task, _ := d.SubmitLegalQuery(models.LegalQueryRequest{Query: "q"})

	done := waitTerminal(t, tasks, task.ID)
	if done.Status != models.TaskStatusFailed {
		t.Fatalf("expected failed, got %s", done.Status)
	}
	if done.Error != "validation rejected advice" {
		t.Errorf("expected collaborator error message, got %q", done.Error)
	}
}

func TestLegalQueryNilResult(t *testing.T) {
	// A collaborator returning neither a result nor an error fails the
	// task cleanly instead of crashing the worker
	fake := &fakeOrchestrator{}
	d, tasks := newTestDispatcher(fake)

	task, err := d.SubmitLegalQuery(models.LegalQueryRequest{Query: "q"})
	if err != nil {
		t.Fatalf("SubmitLegalQuery failed: %v", err)
	}

	done := waitTerminal(t, tasks, task.ID)
	if done.Status != models.TaskStatusFailed {
		t.Fatalf("expected failed, got %s", done.Status)
	}
	if done.Error != "orchestrator returned no result" {
		t.Errorf("expected explicit no-result error, got %q", done.Error)
	}
	if strings.Contains(done.Error, "internal error") {
		t.Errorf("nil result should not surface as a recovered panic: %q", done.Error)
	}
}

func TestDocumentAnalysisFocusMapping(t *testing.T) {
	fake := &fakeOrchestrator{result: successResult("analysis")}
	d, tasks := newTestDispatcher(fake)

	task, err := d.SubmitDocumentAnalysis(models.DocumentAnalysisRequest{
		DocumentText:     "THIS AGREEMENT is made...",
		AnalysisType:     "risk_assessment",
		SpecificSections: []string{"indemnity", "termination"},
	})
	if err != nil {
		t.Fatalf("SubmitDocumentAnalysis failed: %v", err)
	}

	done := waitTerminal(t, tasks, task.ID)
	if done.Status != models.TaskStatusCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}
	if done.Result.AnalysisFocus != "risk" {
		t.Errorf("expected analysis focus risk, got %q", done.Result.AnalysisFocus)
	}

	if fake.lastFocus != "risk" {
		t.Errorf("risk_assessment should map to risk focus, got %q", fake.lastFocus)
	}
	if fake.lastClientType != "citizen" {
		t.Errorf("empty client type should default to citizen, got %q", fake.lastClientType)
	}
	if !strings.Contains(fake.lastContent, "Focus on these sections: indemnity, termination") {
		t.Errorf("specific sections missing from content: %q", fake.lastContent)
	}
}

func TestClientIntakeBuildsBrief(t *testing.T) {
	fake := &fakeOrchestrator{result: successResult("intake assessment")}
	d, tasks := newTestDispatcher(fake)

	task, err := d.SubmitClientIntake(models.ClientIntakeRequest{
		ClientName:      "Acme Corp",
		CaseDescription: "Supplier breached delivery terms",
		CaseType:        "complex_litigation",
		BudgetRange:     "50k-100k",
	})
	if err != nil {
		t.Fatalf("SubmitClientIntake failed: %v", err)
	}

	done := waitTerminal(t, tasks, task.ID)
	if done.Status != models.TaskStatusCompleted {
		t.Fatalf("expected completed, got %s (error: %s)", done.Status, done.Error)
	}
	if done.Result.ClientName != "Acme Corp" {
		t.Errorf("result should echo client name, got %q", done.Result.ClientName)
	}
	if done.Result.CaseType != "complex_litigation" {
		t.Errorf("result should echo case type, got %q", done.Result.CaseType)
	}

	if fake.lastClientType != "lawyer" {
		t.Errorf("complex_litigation should map to lawyer client, got %q", fake.lastClientType)
	}
	for _, want := range []string{
		"Client Name: Acme Corp",
		"Case Description: Supplier breached delivery terms",
		"Budget Range: 50k-100k",
		"Jurisdiction: Not specified",
		"Please provide comprehensive legal advice and next steps for this client.",
	} {
		if !strings.Contains(fake.lastQuery, want) {
			t.Errorf("intake brief missing %q:\n%s", want, fake.lastQuery)
		}
	}
}

func TestDocumentUploadSanitizesText(t *testing.T) {
	fake := &fakeOrchestrator{result: successResult("upload analysis")}
	d, tasks := newTestDispatcher(fake)

	content := []byte("valid text \xff\xfe more text")
	task, err := d.SubmitDocumentUpload("notes.txt", content, "")
	if err != nil {
		t.Fatalf("SubmitDocumentUpload failed: %v", err)
	}
	if task.Filename != "notes.txt" {
		t.Errorf("upload task should carry the filename, got %q", task.Filename)
	}

	done := waitTerminal(t, tasks, task.ID)
	if done.Status != models.TaskStatusCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}
	if done.Result.Filename != "notes.txt" {
		t.Errorf("result should echo the filename, got %q", done.Result.Filename)
	}

	if strings.Contains(fake.lastContent, "\xff") {
		t.Error("invalid UTF-8 bytes should be stripped before analysis")
	}
	if !strings.Contains(fake.lastContent, "valid text") || !strings.Contains(fake.lastContent, "more text") {
		t.Errorf("valid text lost during sanitization: %q", fake.lastContent)
	}
	if fake.lastFocus != "general" {
		t.Errorf("uploads use the general focus, got %q", fake.lastFocus)
	}
}

// panicOrchestrator always panics inside the call
type panicOrchestrator struct{}

func (panicOrchestrator) ProcessQuery(ctx context.Context, query, clientType, jurisdiction string) (*orchestrator.Result, error) {
	panic("orchestrator bug")
}

func (panicOrchestrator) AnalyzeDocument(ctx context.Context, content, focus, clientType string) (*orchestrator.Result, error) {
	panic("orchestrator bug")
}

func TestPanicMarksTaskFailed(t *testing.T) {
	d, tasks := newTestDispatcher(panicOrchestrator{})

	task, err := d.SubmitLegalQuery(models.LegalQueryRequest{Query: "q"})
	if err != nil {
		t.Fatalf("SubmitLegalQuery failed: %v", err)
	}

	done := waitTerminal(t, tasks, task.ID)
	if done.Status != models.TaskStatusFailed {
		t.Fatalf("expected failed, got %s", done.Status)
	}
	if !strings.Contains(done.Error, "internal error") {
		t.Errorf("expected internal error message, got %q", done.Error)
	}
}

func TestClientTypeForCase(t *testing.T) {
	cases := map[string]string{
		"corporate":             "business",
		"intellectual_property": "business",
		"business":              "business",
		"complex_litigation":    "lawyer",
		"appeals":               "lawyer",
		"family":                "citizen",
		"general":               "citizen",
		"":                      "citizen",
		"CORPORATE":             "business",
	}
	for caseType, want := range cases {
		if got := ClientTypeForCase(caseType); got != want {
			t.Errorf("ClientTypeForCase(%q) = %q, want %q", caseType, got, want)
		}
	}
}

func TestAnalysisFocus(t *testing.T) {
	cases := map[string]string{
		"comprehensive":   "general",
		"risk_assessment": "risk",
		"contract_review": "contract",
		"compliance":      "compliance",
		"unknown":         "general",
		"":                "general",
	}
	for analysisType, want := range cases {
		if got := AnalysisFocus(analysisType); got != want {
			t.Errorf("AnalysisFocus(%q) = %q, want %q", analysisType, got, want)
		}
	}
}

func TestBuildIntakeBriefDefaults(t *testing.T) {
	brief := BuildIntakeBrief(models.ClientIntakeRequest{
		ClientName:      "Jo Doe",
		CaseDescription: "desc",
		CaseType:        "family",
	})

	for _, want := range []string{
		"Jurisdiction: Not specified",
		"Preferred Outcome: Not specified",
		"Budget Range: Not specified",
		"Timeline: Not specified",
	} {
		if !strings.Contains(brief, want) {
			t.Errorf("brief missing default %q:\n%s", want, brief)
		}
	}
}
