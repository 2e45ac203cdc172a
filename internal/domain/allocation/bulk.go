package allocation

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"staffing/internal/validation"
)

var requiredColumns = []string{"project_name", "start_date", "end_date", "allocation", "employee_id"}

// ImportCSV applies one allocation per row. Rows are judged independently:
// a bad row is reported and skipped, later rows still apply. Rows accepted
// earlier in the file count against capacity for later rows of the same
// employee. Accepted rows are saved together; if that write fails none are.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return ImportResult{}, ErrMissingColumns
	}
	if err != nil {
		return ImportResult{}, csvReadError("header", err)
	}
	columns, err := indexColumns(header)
	if err != nil {
		return ImportResult{}, err
	}

	// Read the whole body before taking the lock.
	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ImportResult{}, csvReadError(fmt.Sprintf("row %d", len(records)+2), err)
		}
		records = append(records, record)
	}
	if err := ctx.Err(); err != nil {
		return ImportResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	employees := s.employees.LoadEmployees(ctx)
	ledger := NewLedger(s.store.LoadAllocations(ctx))
	queued := make(map[string]int)

	result := ImportResult{Rows: len(records)}
	var accepted []Allocation
	for index, record := range records {
		rowNum := index + 2
		row := func(name string) string {
			i := columns[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		employeeID := row("employee_id")

		v := validation.New()
		v.Required("employee_id", employeeID, "Employee ID is missing.")
		assignment, issues := ValidateTerms(Terms{
			ProjectName: row("project_name"),
			StartDate:   row("start_date"),
			EndDate:     row("end_date"),
			Percentage:  parsePercentage(row("allocation")),
		})
		v.Merge(issues)
		if v.HasIssues() {
			s.recorder.AllocationRejected(RejectValidation)
			result.Errors = append(result.Errors, rowError(rowNum, employeeID, v.Issues()))
			continue
		}

		emp, ok := findEmployee(employees, employeeID)
		if !ok {
			s.recorder.AllocationRejected(RejectNotFound)
			result.Errors = append(result.Errors, RowError{
				Row:        rowNum,
				EmployeeID: employeeID,
				Messages:   []string{fmt.Sprintf("Employee with ID '%s' not found.", employeeID)},
			})
			continue
		}

		inFile := queued[employeeID]
		if !ledger.Fits(employeeID, assignment.Percentage, inFile) {
			s.recorder.AllocationRejected(RejectCapacity)
			result.Errors = append(result.Errors, RowError{
				Row:        rowNum,
				EmployeeID: employeeID,
				Messages: []string{fmt.Sprintf("Cannot allocate %d%% to employee %s. Already allocated %d%%. Total allocation would exceed 100%%.",
					assignment.Percentage, employeeID, ledger.Total(employeeID)+inFile)},
			})
			continue
		}

		accepted = append(accepted, s.newRecord(emp, assignment))
		queued[employeeID] = inFile + assignment.Percentage
	}

	if len(accepted) > 0 {
		if err := s.store.AppendAllocations(ctx, accepted); err != nil {
			return ImportResult{}, fmt.Errorf("save bulk allocations: %w", err)
		}
		s.recorder.AllocationAccepted(len(accepted))
	}
	result.Imported = len(accepted)
	result.Allocations = accepted
	return result, nil
}

// csvReadError keeps a body-size failure distinct from bad CSV syntax.
func csvReadError(where string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %s: %v", ErrMalformedCSV, where, err)
	}
	return fmt.Errorf("read csv %s: %w", where, err)
}

func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, ErrMissingColumns
		}
	}
	return columns, nil
}

func parsePercentage(raw string) *float64 {
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		invalid := -1.0
		return &invalid
	}
	return &value
}

func rowError(row int, employeeID string, issues []validation.Issue) RowError {
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.Reason)
	}
	return RowError{Row: row, EmployeeID: employeeID, Messages: messages}
}
