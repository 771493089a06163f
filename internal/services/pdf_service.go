package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"jurisai-api/internal/models"

	"github.com/jung-kurt/gofpdf/v2"
)

// PDFService generates PDF documents from completed task results
type PDFService struct{}

// NewPDFService creates a new PDF service
func NewPDFService() *PDFService {
	return &PDFService{}
}

// GenerateTaskPDF renders a completed task's legal advice as a PDF
func (s *PDFService) GenerateTaskPDF(task *models.Task) ([]byte, error) {
	if task == nil || task.Result == nil {
		return nil, fmt.Errorf("task has no result to render")
	}

	// Create PDF document (A4, portrait)
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)

	// Set total page count alias for footer
	pdf.AliasNbPages("{nb}")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(108, 117, 125) // Gray
		pdf.SetX(15)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(0, 102, 204) // Blue
	pdf.CellFormat(0, 20, titleForTaskType(task.Type), "", 0, "C", false, 0, "")

	pdf.Ln(15)
	pdf.SetFont("Arial", "", 12)
	pdf.SetTextColor(108, 117, 125) // Gray
	completedAt := task.UpdatedAt
	if task.CompletedAt != nil {
		completedAt = *task.CompletedAt
	}
	pdf.CellFormat(0, 10, fmt.Sprintf("Generated: %s", completedAt.Format(time.RFC1123)), "", 0, "C", false, 0, "")
	pdf.Ln(12)

	s.addMetadata(pdf, task)
	s.addBody(pdf, task.Result.Output)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// addMetadata adds the task detail lines under the title
func (s *PDFService) addMetadata(pdf *gofpdf.Fpdf, task *models.Task) {
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(33, 37, 41) // Dark gray

	lines := []string{
		fmt.Sprintf("Task ID: %s", task.ID),
		fmt.Sprintf("Status: %s", task.Status),
	}
	if task.Result.ClientType != "" {
		lines = append(lines, fmt.Sprintf("Client Type: %s", task.Result.ClientType))
	}
	if task.Result.ClientName != "" {
		lines = append(lines, fmt.Sprintf("Client: %s", task.Result.ClientName))
	}
	if task.Result.CaseType != "" {
		lines = append(lines, fmt.Sprintf("Case Type: %s", task.Result.CaseType))
	}
	if task.Result.Filename != "" {
		lines = append(lines, fmt.Sprintf("Document: %s", task.Result.Filename))
	}

	for _, line := range lines {
		pdf.CellFormat(0, 6, line, "", 0, "L", false, 0, "")
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetLineWidth(0.5)
	pdf.SetDrawColor(0, 102, 204) // Blue
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(8)
}

// addBody writes the advice text, wrapping paragraphs to the page width
func (s *PDFService) addBody(pdf *gofpdf.Fpdf, output string) {
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(33, 37, 41)

	textWidth := 180.0
	for _, paragraph := range strings.Split(output, "\n") {
		paragraph = strings.TrimRight(paragraph, " ")
		if paragraph == "" {
			pdf.Ln(3)
			continue
		}
		for _, line := range pdf.SplitText(paragraph, textWidth) {
			pdf.CellFormat(0, 5, strings.TrimSpace(line), "", 0, "L", false, 0, "")
			pdf.Ln(5)
		}
	}
}

func titleForTaskType(taskType models.TaskType) string {
	switch taskType {
	case models.TaskTypeLegalQuery:
		return "Legal Advice Report"
	case models.TaskTypeDocumentAnalysis, models.TaskTypeDocumentUpload:
		return "Document Analysis Report"
	case models.TaskTypeClientIntake:
		return "Client Intake Assessment"
	default:
		return "Legal Task Report"
	}
}
