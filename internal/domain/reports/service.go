package reports

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"staffing/internal/domain/allocation"
	"staffing/internal/domain/employee"
)

type EmployeeSource interface {
	LoadEmployees(ctx context.Context) []employee.Employee
}

type AllocationSource interface {
	LoadAllocations(ctx context.Context) []allocation.Allocation
}

type Service struct {
	employees   EmployeeSource
	allocations AllocationSource
	dir         string
	now         func() time.Time
}

func NewService(employees EmployeeSource, allocations AllocationSource, dir string) *Service {
	return &Service{employees: employees, allocations: allocations, dir: dir, now: time.Now}
}

func (s *Service) Summary(ctx context.Context) Summary {
	return BuildSummary(s.employees.LoadEmployees(ctx), s.allocations.LoadAllocations(ctx))
}

// AllocationsPDF renders the allocation ledger under the reports directory
// and returns the file path.
func (s *Service) AllocationsPDF(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	now := s.now().UTC()
	filePath := filepath.Join(s.dir, fmt.Sprintf("allocations-%s.pdf", now.Format("20060102-150405")))

	f, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	if err := s.WriteAllocationsPDF(ctx, f); err != nil {
		f.Close()
		os.Remove(filePath)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return filePath, nil
}

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Employee ID", 24},
	{"Name", 42},
	{"Designation", 40},
	{"Project", 40},
	{"Start", 22},
	{"End", 22},
	{"%", 12},
}

func (s *Service) WriteAllocationsPDF(ctx context.Context, w io.Writer) error {
	records := s.allocations.LoadAllocations(ctx)
	summary := BuildSummary(s.employees.LoadEmployees(ctx), records)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Project Allocations")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Generated: %s", s.now().UTC().Format(time.RFC3339)))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Employees: %d   Allocations: %d   Fully allocated: %d",
		summary.TotalEmployees, summary.Allocations, summary.FullyAllocated))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, rec := range records {
		row := []string{rec.EmployeeID, rec.Name, rec.Designation, rec.ProjectName, rec.StartDate, rec.EndDate, strconv.Itoa(rec.Allocation)}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 6, row[i], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(summary.ProjectTotals) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Totals by project")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		for _, p := range summary.ProjectTotals {
			pdf.Cell(0, 6, fmt.Sprintf("%s: %d%% across %d employee(s)", p.Project, p.TotalAllocation, p.Members))
			pdf.Ln(6)
		}
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
