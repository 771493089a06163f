package validation

import (
	"strings"
	"testing"
)

const schemaPath = "../../schemas/advice_schema.json"

func TestValidateAndParseAdvice(t *testing.T) {
	advice, err := ValidateAndParseAdvice(`{
		"output": "You should review clause 7 before signing.",
		"key_points": ["Clause 7 limits liability", "Notice period is 30 days"],
		"disclaimer": "This is general information, not legal advice."
	}`, schemaPath)
	if err != nil {
		t.Fatalf("ValidateAndParseAdvice failed: %v", err)
	}

	if advice.Output != "You should review clause 7 before signing." {
		t.Errorf("unexpected output: %q", advice.Output)
	}
	if len(advice.KeyPoints) != 2 {
		t.Errorf("expected 2 key points, got %d", len(advice.KeyPoints))
	}
	if advice.Disclaimer == "" {
		t.Error("expected disclaimer to be parsed")
	}
}

func TestValidateAndParseAdviceMinimal(t *testing.T) {
	advice, err := ValidateAndParseAdvice(`{"output": "Short answer."}`, schemaPath)
	if err != nil {
		t.Fatalf("minimal advice should validate: %v", err)
	}
	if advice.Output != "Short answer." {
		t.Errorf("unexpected output: %q", advice.Output)
	}
}

func TestValidateRejectsMissingOutput(t *testing.T) {
	_, err := ValidateAndParseAdvice(`{"key_points": ["point"]}`, schemaPath)
	if err == nil {
		t.Fatal("expected validation error for missing output")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRejectsEmptyOutput(t *testing.T) {
	if _, err := ValidateAndParseAdvice(`{"output": ""}`, schemaPath); err == nil {
		t.Fatal("expected validation error for empty output")
	}
}

func TestValidateRejectsUnknownFields(t *testing.T) {
	if _, err := ValidateAndParseAdvice(`{"output": "ok", "confidence": 0.9}`, schemaPath); err == nil {
		t.Fatal("expected validation error for unknown field")
	}
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	if _, err := ValidateAndParseAdvice(`{"output": "ok"`, schemaPath); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestLoadSchemaMissingFile(t *testing.T) {
	if _, err := ValidateAndParseAdvice(`{"output": "ok"}`, "no-such-schema.json"); err == nil {
		t.Fatal("expected error for missing schema file")
	}
}
