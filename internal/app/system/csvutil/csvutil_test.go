package csvutil

import (
	"strings"
	"testing"

	"github.com/madrichim/leadhub/internal/domain/models"
)

func TestParseLeadCSV_ValidRows(t *testing.T) {
	csv := `first_name,last_name,email,city
Dana,Levy,dana@example.com,Paris
Marc,Cohen,marc@example.com,Lyon
Noa,Mizrahi,noa@example.com,Haifa`

	result, err := ParseLeadCSV(strings.NewReader(csv), DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseLeadCSV() error = %v", err)
	}

	if len(result.Rows) != 3 {
		t.Errorf("ParseLeadCSV() got %d rows, want 3", len(result.Rows))
	}
	if result.HasErrors() {
		t.Errorf("ParseLeadCSV() unexpected errors: %v", result.Errors)
	}

	if result.Rows[0].FirstName != "Dana" {
		t.Errorf("Row 0 FirstName = %q, want %q", result.Rows[0].FirstName, "Dana")
	}
	if result.Rows[0].Fields[models.FieldEmail] != "dana@example.com" {
		t.Errorf("Row 0 email = %q", result.Rows[0].Fields[models.FieldEmail])
	}
	if result.Rows[0].Fields[models.FieldCity] != "Paris" {
		t.Errorf("Row 0 city = %q", result.Rows[0].Fields[models.FieldCity])
	}
}

func TestParseLeadCSV_BOMHandling(t *testing.T) {
	csv := "\ufefffirst_name,last_name\nDana,Levy"

	result, err := ParseLeadCSV(strings.NewReader(csv), DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseLeadCSV() error = %v", err)
	}

	if len(result.Rows) != 1 {
		t.Errorf("ParseLeadCSV() got %d rows, want 1", len(result.Rows))
	}
	if result.HasErrors() {
		t.Errorf("ParseLeadCSV() unexpected errors with BOM: %v", result.Errors)
	}
}

func TestParseLeadCSV_EmptyFile(t *testing.T) {
	result, err := ParseLeadCSV(strings.NewReader(""), DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseLeadCSV() error = %v", err)
	}

	if len(result.Rows) != 0 {
		t.Errorf("ParseLeadCSV() got %d rows, want 0", len(result.Rows))
	}
}

func TestParseLeadCSV_HeaderValidation(t *testing.T) {
	tests := []struct {
		name        string
		csv         string
		errContains string
	}{
		{
			name:        "unknown column",
			csv:         "first_name,last_name,shoe_size\nDana,Levy,43",
			errContains: "unknown column",
		},
		{
			name:        "missing name columns",
			csv:         "email,city\ndana@example.com,Paris",
			errContains: "first_name and last_name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseLeadCSV(strings.NewReader(tt.csv), DefaultParseOptions())
			if err != nil {
				t.Fatalf("ParseLeadCSV() error = %v", err)
			}
			if !result.HasErrors() {
				t.Fatal("expected header errors")
			}
			if !strings.Contains(result.Errors[0].Reason, tt.errContains) {
				t.Errorf("Error reason %q doesn't contain %q", result.Errors[0].Reason, tt.errContains)
			}
			if len(result.Rows) != 0 {
				t.Errorf("rejected file should produce no rows, got %d", len(result.Rows))
			}
		})
	}
}

func TestParseLeadCSV_MissingNames(t *testing.T) {
	csv := `first_name,last_name,email
,Levy,dana@example.com
Marc,,marc@example.com`

	result, err := ParseLeadCSV(strings.NewReader(csv), DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseLeadCSV() error = %v", err)
	}

	if len(result.Errors) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(result.Errors), result.Errors)
	}
	if !strings.Contains(result.Errors[0].Reason, "missing first name") {
		t.Errorf("Error 0 reason = %q", result.Errors[0].Reason)
	}
	if !strings.Contains(result.Errors[1].Reason, "missing last name") {
		t.Errorf("Error 1 reason = %q", result.Errors[1].Reason)
	}
}

func TestParseLeadCSV_DuplicateEmails(t *testing.T) {
	csv := `first_name,last_name,email
Dana,Levy,dana@example.com
Noa,Mizrahi,Dana@example.com`

	result, err := ParseLeadCSV(strings.NewReader(csv), DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseLeadCSV() error = %v", err)
	}

	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1 for duplicate: %v", len(result.Errors), result.Errors)
	}
	if !strings.Contains(result.Errors[0].Reason, "duplicate") {
		t.Errorf("Error reason %q doesn't mention duplicate", result.Errors[0].Reason)
	}
}

func TestParseLeadCSV_MaxRows(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("first_name,last_name\n")
	for i := 0; i < 10; i++ {
		sb.WriteString("Dana,Levy\n")
	}

	opts := ParseOptions{MaxRows: 5}
	_, err := ParseLeadCSV(strings.NewReader(sb.String()), opts)

	if err != ErrTooManyRows {
		t.Errorf("ParseLeadCSV() error = %v, want ErrTooManyRows", err)
	}
}

func TestParseLeadCSV_SkipsEmptyRows(t *testing.T) {
	csv := `first_name,last_name
Dana,Levy

Marc,Cohen

`

	result, err := ParseLeadCSV(strings.NewReader(csv), DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseLeadCSV() error = %v", err)
	}

	if len(result.Rows) != 2 {
		t.Errorf("ParseLeadCSV() got %d rows, want 2", len(result.Rows))
	}
}

func TestParseLeadCSV_NormalizesDateColumns(t *testing.T) {
	csv := `first_name,last_name,birth_date
Dana,Levy,15/01/2000`

	result, err := ParseLeadCSV(strings.NewReader(csv), DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseLeadCSV() error = %v", err)
	}
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	if got := result.Rows[0].Fields[models.FieldBirthDate]; got != "2000-01-15" {
		t.Errorf("birth_date = %q, want storage form 2000-01-15", got)
	}
}
