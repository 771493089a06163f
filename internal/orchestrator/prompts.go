package orchestrator

import "fmt"

// Client-type descriptions used to calibrate the register of the advice
var clientTypeGuidance = map[string]string{
	"citizen":  "The client is a private citizen without legal training. Use plain language and explain legal terms when they are unavoidable.",
	"lawyer":   "The client is a practicing lawyer. Use precise legal terminology, cite relevant authority, and skip basic explanations.",
	"business": "The client is a business. Focus on commercial risk, compliance obligations, and practical next steps.",
}

func guidanceFor(clientType string) string {
	if g, ok := clientTypeGuidance[clientType]; ok {
		return g
	}
	return clientTypeGuidance["citizen"]
}

const adviceFormatInstructions = `Respond with ONLY valid JSON in this exact format, no markdown, no code fences, no explanatory text:
{
  "output": "the full advice text",
  "key_points": ["short actionable point", "..."],
  "disclaimer": "one-sentence reminder that this is general information, not legal advice"
}`

func querySystemPrompt(clientType, jurisdiction string) string {
	return fmt.Sprintf(`You are a legal research and advisory assistant. Research the question, identify the applicable law, and provide clear, actionable advice for the %s jurisdiction.

%s

%s`, jurisdiction, guidanceFor(clientType), adviceFormatInstructions)
}

func queryUserPrompt(query string) string {
	return fmt.Sprintf("Legal question:\n\n%s", query)
}

func documentSystemPrompt(focus, clientType string) string {
	focusLine := map[string]string{
		"general":    "Provide a comprehensive review of the document.",
		"risk":       "Focus on risk factors: liability exposure, missing protections, and unfavorable terms.",
		"contract":   "Focus on contract terms: obligations, termination, payment, and dispute resolution clauses.",
		"compliance": "Focus on compliance: statutory requirements, required disclosures, and execution formalities.",
	}[focus]
	if focusLine == "" {
		focusLine = "Provide a comprehensive review of the document."
	}

	return fmt.Sprintf(`You are a legal document analyst. Identify the document type, extract the key terms, and flag risks and compliance issues. %s

%s

%s`, focusLine, guidanceFor(clientType), adviceFormatInstructions)
}

func documentUserPrompt(content string) string {
	return fmt.Sprintf("Document content:\n\n%s", content)
}
