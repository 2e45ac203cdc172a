package allocation

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"staffing/internal/domain/employee"
	"staffing/internal/validation"
)

type memStore struct {
	mu      sync.Mutex
	records []Allocation
	failErr error
}

func (m *memStore) LoadAllocations(ctx context.Context) []Allocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Allocation(nil), m.records...)
}

func (m *memStore) AppendAllocation(ctx context.Context, rec Allocation) error {
	return m.AppendAllocations(ctx, []Allocation{rec})
}

func (m *memStore) AppendAllocations(ctx context.Context, recs []Allocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.records = append(m.records, recs...)
	return nil
}

type staticEmployees []employee.Employee

func (s staticEmployees) LoadEmployees(ctx context.Context) []employee.Employee {
	return s
}

type countingRecorder struct {
	accepted int
	rejected map[string]int
}

func (c *countingRecorder) AllocationAccepted(n int) { c.accepted += n }
func (c *countingRecorder) AllocationRejected(reason string) {
	if c.rejected == nil {
		c.rejected = make(map[string]int)
	}
	c.rejected[reason]++
}

var fixedNow = time.Date(2025, 9, 15, 10, 30, 0, 0, time.UTC)

var roster = staticEmployees{
	{EmployeeID: "TM00001", Name: "Asha Verma", Designation: "DevOps Engineer", Skills: []string{"AWS"}},
	{EmployeeID: "TM00002", Name: "Ravi Kumar", Designation: "Python Developer", Skills: []string{"Django"}},
}

func pct(v float64) *float64 { return &v }

func newTestService(store *memStore) (*Service, *countingRecorder) {
	rec := &countingRecorder{}
	return NewService(store, roster, WithClock(func() time.Time { return fixedNow }), WithRecorder(rec)), rec
}

func TestAllocateStoresDenormalizedRecord(t *testing.T) {
	store := &memStore{}
	svc, rec := newTestService(store)

	got, err := svc.Allocate(context.Background(), Request{
		EmployeeID:  "TM00001",
		ProjectName: " Apollo ",
		StartDate:   "2025-10-01",
		EndDate:     "2025-12-31",
		Allocation:  pct(60),
	})
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if got.Name != "Asha Verma" || got.ProjectName != "Apollo" || got.Allocation != 60 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if !got.AllocatedAt.Equal(fixedNow) {
		t.Fatalf("expected allocated_at %v, got %v", fixedNow, got.AllocatedAt)
	}
	if len(store.records) != 1 || rec.accepted != 1 {
		t.Fatalf("expected one stored record, got %d (accepted %d)", len(store.records), rec.accepted)
	}
}

func TestAllocateRejectsOverCapacity(t *testing.T) {
	store := &memStore{records: []Allocation{{Employee: roster[0], Allocation: 80}}}
	svc, rec := newTestService(store)

	_, err := svc.Allocate(context.Background(), Request{
		EmployeeID:  "TM00001",
		ProjectName: "Apollo",
		StartDate:   "2025-10-01",
		EndDate:     "2025-12-31",
		Allocation:  pct(30),
	})
	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if capErr.Current != 80 || capErr.Requested != 30 {
		t.Fatalf("unexpected capacity error: %+v", capErr)
	}
	want := "Cannot allocate. Asha Verma is already allocated 80%. This allocation would exceed 100%."
	if capErr.Error() != want {
		t.Fatalf("expected %q, got %q", want, capErr.Error())
	}
	if len(store.records) != 1 || rec.rejected[RejectCapacity] != 1 {
		t.Fatalf("store should be unchanged, got %d records", len(store.records))
	}
}

func TestAllocateFillsExactlyToCapacity(t *testing.T) {
	store := &memStore{records: []Allocation{{Employee: roster[0], Allocation: 70}}}
	svc, _ := newTestService(store)

	if _, err := svc.Allocate(context.Background(), Request{
		EmployeeID: "TM00001", ProjectName: "Apollo",
		StartDate: "2025-10-01", EndDate: "2025-10-01", Allocation: pct(30),
	}); err != nil {
		t.Fatalf("expected 100%% total to be accepted: %v", err)
	}
	if total := NewValidator(store).TotalAllocation(context.Background(), "TM00001"); total != 100 {
		t.Fatalf("expected total 100, got %d", total)
	}
}

func TestAllocateCollectsValidationIssues(t *testing.T) {
	store := &memStore{}
	svc, _ := newTestService(store)

	_, err := svc.Allocate(context.Background(), Request{
		StartDate:  "2025-12-31",
		EndDate:    "2025-10-01",
		Allocation: pct(150),
	})
	var vErr *validation.Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	messages := strings.Join(vErr.Messages(), "|")
	for _, want := range []string{
		"Employee ID is required.",
		"Project name is missing.",
		"Start date cannot be after end date.",
		"Allocation percentage must be a number between 1 and 100.",
	} {
		if !strings.Contains(messages, want) {
			t.Fatalf("expected %q in %q", want, messages)
		}
	}
	if len(store.records) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestAllocateUnknownEmployee(t *testing.T) {
	svc, _ := newTestService(&memStore{})
	_, err := svc.Allocate(context.Background(), Request{
		EmployeeID: "TM99999", ProjectName: "Apollo",
		StartDate: "2025-10-01", EndDate: "2025-10-02", Allocation: pct(10),
	})
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAllocateSurfacesWriteFailure(t *testing.T) {
	store := &memStore{failErr: errors.New("disk full")}
	svc, _ := newTestService(store)
	_, err := svc.Allocate(context.Background(), Request{
		EmployeeID: "TM00001", ProjectName: "Apollo",
		StartDate: "2025-10-01", EndDate: "2025-10-02", Allocation: pct(10),
	})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected write failure, got %v", err)
	}
}

func TestConcurrentAllocationsNeverExceedCapacity(t *testing.T) {
	store := &memStore{}
	svc, _ := newTestService(store)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Allocate(context.Background(), Request{
				EmployeeID: "TM00001", ProjectName: "Apollo",
				StartDate: "2025-10-01", EndDate: "2025-10-02", Allocation: pct(30),
			})
		}()
	}
	wg.Wait()

	if total := TotalAllocation(store.LoadAllocations(context.Background()), "TM00001"); total != 90 {
		t.Fatalf("expected 90%% after racing 30%% requests, got %d", total)
	}
}

func TestImportCSVAccountsForEarlierRows(t *testing.T) {
	store := &memStore{records: []Allocation{{Employee: roster[0], Allocation: 20}}}
	svc, _ := newTestService(store)

	input := strings.Join([]string{
		"project_name,start_date,end_date,allocation,employee_id",
		"Apollo,2025-10-01,2025-12-31,40,TM00001",
		"Gemini,2025-10-01,2025-12-31,40,TM00001",
		"Mercury,2025-10-01,2025-12-31,10,TM00001",
		"Vostok,2025-10-01,2025-12-31,50,TM00002",
	}, "\n")

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Rows != 4 || result.Imported != 3 {
		t.Fatalf("expected 3 of 4 rows imported, got %+v", result)
	}
	if len(result.Errors) != 1 || result.Errors[0].Row != 4 {
		t.Fatalf("expected a single error on row 4, got %+v", result.Errors)
	}
	if !strings.Contains(result.Errors[0].Messages[0], "Total allocation would exceed 100%") {
		t.Fatalf("unexpected message: %v", result.Errors[0].Messages)
	}
	records := store.LoadAllocations(context.Background())
	if TotalAllocation(records, "TM00001") != 100 || TotalAllocation(records, "TM00002") != 50 {
		t.Fatalf("unexpected totals after import: %+v", records)
	}
}

func TestImportCSVReportsRowProblems(t *testing.T) {
	store := &memStore{}
	svc, _ := newTestService(store)

	input := "\ufeffEmployee_ID,project_name,start_date,end_date,allocation\n" +
		"TM00001,Apollo,2025-13-01,2025-12-31,abc\n" +
		"TM55555,Apollo,2025-10-01,2025-12-31,10\n" +
		"TM00002,Apollo,2025-10-01,2025-12-31,10\n"

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 1 || len(result.Errors) != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Errors[0].Row != 2 || len(result.Errors[0].Messages) != 2 {
		t.Fatalf("expected both row 2 problems collected, got %+v", result.Errors[0])
	}
	if result.Errors[1].Messages[0] != "Employee with ID 'TM55555' not found." {
		t.Fatalf("unexpected not-found message: %v", result.Errors[1].Messages)
	}
}

func TestImportCSVSlowBodyDoesNotBlockAllocate(t *testing.T) {
	store := &memStore{}
	svc, _ := newTestService(store)

	body, upload := io.Pipe()
	type outcome struct {
		result ImportResult
		err    error
	}
	imported := make(chan outcome, 1)
	go func() {
		result, err := svc.ImportCSV(context.Background(), body)
		imported <- outcome{result, err}
	}()

	if _, err := io.WriteString(upload, "project_name,start_date,end_date,allocation,employee_id\nApollo,2025-10-01,2025-12-31,30,TM00002\n"); err != nil {
		t.Fatalf("write upload: %v", err)
	}

	allocated := make(chan error, 1)
	go func() {
		_, err := svc.Allocate(context.Background(), Request{
			EmployeeID:  "TM00001",
			ProjectName: "Gemini",
			StartDate:   "2025-10-01",
			EndDate:     "2025-12-31",
			Allocation:  pct(50),
		})
		allocated <- err
	}()
	select {
	case err := <-allocated:
		if err != nil {
			t.Fatalf("allocate: %v", err)
		}
	case <-time.After(2 * time.Second):
		_ = upload.Close()
		t.Fatalf("allocate blocked behind an unfinished upload")
	}

	_ = upload.Close()
	got := <-imported
	if got.err != nil {
		t.Fatalf("import: %v", got.err)
	}
	if got.result.Imported != 1 {
		t.Fatalf("expected the uploaded row to import, got %+v", got.result)
	}
	if n := len(store.LoadAllocations(context.Background())); n != 2 {
		t.Fatalf("expected two stored records, got %d", n)
	}
}

func TestImportCSVRequiresColumns(t *testing.T) {
	svc, _ := newTestService(&memStore{})
	_, err := svc.ImportCSV(context.Background(), strings.NewReader("project_name,allocation\nApollo,10\n"))
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected missing columns, got %v", err)
	}
}

func TestImportCSVWriteFailureSavesNothing(t *testing.T) {
	store := &memStore{failErr: errors.New("disk full")}
	svc, _ := newTestService(store)
	input := "project_name,start_date,end_date,allocation,employee_id\nApollo,2025-10-01,2025-12-31,10,TM00001\n"
	if _, err := svc.ImportCSV(context.Background(), strings.NewReader(input)); err == nil {
		t.Fatalf("expected write failure")
	}
	if len(store.records) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestValidateTermsWholeNumber(t *testing.T) {
	_, issues := ValidateTerms(Terms{ProjectName: "Apollo", StartDate: "2025-10-01", EndDate: "2025-10-02", Percentage: pct(12.5)})
	if len(issues) != 1 || issues[0].Reason != "Allocation percentage must be a whole number." {
		t.Fatalf("unexpected issues: %+v", issues)
	}
}

func TestLedgerFits(t *testing.T) {
	l := NewLedger([]Allocation{{Employee: roster[0], Allocation: 60}})
	if !l.Fits("TM00001", 20, 20) {
		t.Fatalf("60+20+20 should fit")
	}
	if l.Fits("TM00001", 21, 20) {
		t.Fatalf("60+20+21 should not fit")
	}
	if l.Available("TM00002") != 100 {
		t.Fatalf("unallocated employee should have full capacity")
	}
}
