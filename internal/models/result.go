package models

// TaskResult is the structured payload stored on a completed task.
// Besides the advice text it echoes back the request fields that matter
// for the task type, so clients can render results without re-fetching
// the original submission.
type TaskResult struct {
	Output        string   `json:"output" bson:"output"`
	TaskType      TaskType `json:"task_type" bson:"task_type"`
	ClientType    string   `json:"client_type,omitempty" bson:"client_type,omitempty"`
	Query         string   `json:"query,omitempty" bson:"query,omitempty"`
	AnalysisFocus string   `json:"analysis_focus,omitempty" bson:"analysis_focus,omitempty"`
	ClientName    string   `json:"client_name,omitempty" bson:"client_name,omitempty"`
	CaseType      string   `json:"case_type,omitempty" bson:"case_type,omitempty"`
	Filename      string   `json:"filename,omitempty" bson:"filename,omitempty"`
	DocumentKey   string   `json:"document_key,omitempty" bson:"document_key,omitempty"`
}

// Advice is the structured JSON the LLM backend is asked to produce.
// Validated against schemas/advice_schema.json before use.
type Advice struct {
	Output     string   `json:"output"`
	KeyPoints  []string `json:"key_points,omitempty"`
	Disclaimer string   `json:"disclaimer,omitempty"`
}
