// internal/app/system/csvutil/leads.go
package csvutil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/madrichim/leadhub/internal/app/system/dates"
	"github.com/madrichim/leadhub/internal/domain/models"
)

// ErrTooManyRows is returned when the file exceeds the configured row limit.
var ErrTooManyRows = errors.New("csv exceeds the maximum row count")

// ParseOptions controls CSV parsing limits.
type ParseOptions struct {
	MaxRows int
}

// DefaultParseOptions returns the standard limits for lead imports.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{MaxRows: MaxRows}
}

// LeadRow is one normalized row of a lead import file. Fields holds the
// tracked-field values keyed by column name; first and last name are also
// surfaced directly since every row must carry them.
type LeadRow struct {
	Line      int
	FirstName string
	LastName  string
	Fields    map[string]string
}

// RowError describes one invalid row or column.
type RowError struct {
	Line   int
	Reason string
}

// Result holds the outcome of a parse: either usable rows or per-row errors.
// A file with any error is rejected as a whole; nothing is imported.
type Result struct {
	Rows   []LeadRow
	Errors []RowError
}

// HasErrors reports whether any row failed validation.
func (r Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// ParseLeadCSV reads a lead import file. The first row must be a header whose
// column names are tracked lead field names (first_name and last_name are
// required columns). It never writes to a DB; call it before any mutations.
func ParseLeadCSV(r io.Reader, opts ParseOptions) (Result, error) {
	var result Result

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	haveFirst, haveLast := false, false
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		columns[i] = name
		switch {
		case name == models.FieldFirstName:
			haveFirst = true
		case name == models.FieldLastName:
			haveLast = true
		case models.IsLeadField(name):
			// ok
		default:
			result.Errors = append(result.Errors, RowError{
				Line:   1,
				Reason: fmt.Sprintf("unknown column %q", name),
			})
		}
	}
	if !haveFirst || !haveLast {
		result.Errors = append(result.Errors, RowError{
			Line:   1,
			Reason: "header must include first_name and last_name columns",
		})
	}
	if result.HasErrors() {
		return result, nil
	}

	seenEmails := map[string]int{}
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, RowError{Line: line, Reason: err.Error()})
			continue
		}

		fields := map[string]string{}
		empty := true
		for i, col := range columns {
			if i >= len(rec) {
				break
			}
			v := strings.TrimSpace(rec[i])
			if v == "" {
				continue
			}
			empty = false
			if strings.HasSuffix(col, "_date") {
				v = dates.NormalizeStorage(v)
			}
			fields[col] = v
		}
		if empty {
			continue
		}

		row := LeadRow{
			Line:      line,
			FirstName: fields[models.FieldFirstName],
			LastName:  fields[models.FieldLastName],
			Fields:    fields,
		}
		if row.FirstName == "" {
			result.Errors = append(result.Errors, RowError{Line: line, Reason: "missing first name"})
			continue
		}
		if row.LastName == "" {
			result.Errors = append(result.Errors, RowError{Line: line, Reason: "missing last name"})
			continue
		}
		if email := strings.ToLower(fields[models.FieldEmail]); email != "" {
			if prev, dup := seenEmails[email]; dup {
				result.Errors = append(result.Errors, RowError{
					Line:   line,
					Reason: fmt.Sprintf("duplicate email (first seen on line %d)", prev),
				})
				continue
			}
			seenEmails[email] = line
		}

		result.Rows = append(result.Rows, row)
		if opts.MaxRows > 0 && len(result.Rows) > opts.MaxRows {
			return Result{}, ErrTooManyRows
		}
	}

	return result, nil
}
