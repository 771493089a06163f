package models

// LegalQueryRequest represents the request to submit a legal query
type LegalQueryRequest struct {
	Query             string `json:"query" binding:"required"`
	CaseType          string `json:"case_type"`    // Optional, defaults to "general"
	Jurisdiction      string `json:"jurisdiction"` // Optional, defaults to "federal"
	Urgency           string `json:"urgency"`      // Optional, defaults to "normal"
	AdditionalContext string `json:"additional_context"`
}

// DocumentAnalysisRequest represents the request to analyze a document
type DocumentAnalysisRequest struct {
	DocumentText     string   `json:"document_text" binding:"required"`
	AnalysisType     string   `json:"analysis_type"` // comprehensive, risk_assessment, contract_review, compliance
	ClientType       string   `json:"client_type"`   // Optional, defaults to "citizen"
	SpecificSections []string `json:"specific_sections"`
}

// ClientIntakeRequest represents a new client intake submission
type ClientIntakeRequest struct {
	ClientName       string `json:"client_name" binding:"required"`
	CaseDescription  string `json:"case_description" binding:"required"`
	CaseType         string `json:"case_type" binding:"required"`
	Jurisdiction     string `json:"jurisdiction"`
	PreferredOutcome string `json:"preferred_outcome"`
	BudgetRange      string `json:"budget_range"`
	Timeline         string `json:"timeline"`
	NotifyEmail      string `json:"notify_email" binding:"omitempty,email"` // Optional completion notification
}

// TaskResponse represents the response when submitting a task
type TaskResponse struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"` // always "pending" on submission
	Message string `json:"message"`
}

// TaskStatusResponse represents the response when checking task status
type TaskStatusResponse struct {
	TaskID      string      `json:"task_id"`
	Type        string      `json:"type"`
	Status      string      `json:"status"`
	Result      *TaskResult `json:"result,omitempty"`
	Error       string      `json:"error,omitempty"`
	CreatedAt   string      `json:"created_at"`
	CompletedAt *string     `json:"completed_at,omitempty"`
}

// TaskSummary is the compact task view returned by the list endpoint
type TaskSummary struct {
	TaskID    string `json:"task_id"`
	Status    string `json:"status"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
}
