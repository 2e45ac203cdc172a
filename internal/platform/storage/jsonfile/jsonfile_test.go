package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"staffing/internal/domain/allocation"
	"staffing/internal/domain/employee"
)

func sampleEmployee() employee.Employee {
	return employee.Employee{
		EmployeeID:      "TM01418",
		Name:            "Abhinandan Rao",
		Email:           "abhinandan.rao@gmail.com",
		Phone:           "9876543210",
		Designation:     "DevOps Engineer",
		Department:      "Software Engineering",
		DateOfJoining:   "2023-04-01",
		Location:        "Hyderabad",
		ExperienceYears: 4.5,
		Skills:          []string{"Docker", "Kubernetes"},
		SkillsCount:     2,
		CreatedAt:       employee.NewTimestamp(time.Date(2025, 9, 15, 10, 30, 0, 123456000, time.UTC)),
	}
}

func TestEmployeeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	stores := Open(dir, nil)
	want := sampleEmployee()

	if err := stores.AppendEmployee(context.Background(), want); err != nil {
		t.Fatalf("append: %v", err)
	}
	got := Open(dir, nil).LoadEmployees(context.Background())
	if len(got) != 1 {
		t.Fatalf("expected one employee, got %d", len(got))
	}
	if !got[0].CreatedAt.Equal(want.CreatedAt.Time) {
		t.Fatalf("created_at changed: %v vs %v", got[0].CreatedAt, want.CreatedAt)
	}
	got[0].CreatedAt = want.CreatedAt
	if !reflect.DeepEqual(got[0], want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got[0], want)
	}
}

func TestAllocationFlattensEmployeeFields(t *testing.T) {
	dir := t.TempDir()
	stores := Open(dir, nil)
	rec := allocation.Allocation{
		Employee:    sampleEmployee(),
		ProjectName: "Apollo",
		StartDate:   "2025-10-01",
		EndDate:     "2025-12-31",
		Allocation:  40,
		AllocatedAt: employee.NewTimestamp(time.Date(2025, 9, 16, 8, 0, 0, 0, time.UTC)),
	}
	if err := stores.AppendAllocations(context.Background(), []allocation.Allocation{rec, rec}); err != nil {
		t.Fatalf("append: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, AllocationsFile))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var flat []map[string]any
	if err := json.Unmarshal(raw, &flat); err != nil {
		t.Fatalf("decode file: %v", err)
	}
	if len(flat) != 2 || flat[0]["employee_id"] != "TM01418" || flat[0]["project_name"] != "Apollo" {
		t.Fatalf("unexpected on-disk shape: %v", flat)
	}
	if len(stores.LoadAllocations(context.Background())) != 2 {
		t.Fatalf("expected two records")
	}
}

func TestLoadDegradesOnCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, EmployeesFile)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	stores := Open(dir, nil)
	if got := stores.LoadEmployees(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty set, got %d", len(got))
	}
	if err := stores.AppendEmployee(context.Background(), sampleEmployee()); err == nil {
		t.Fatalf("append over a corrupt file should fail")
	}
	raw, _ := os.ReadFile(path)
	if string(raw) != "{not json" {
		t.Fatalf("corrupt file should be left untouched")
	}
}

func TestMissingFileIsEmpty(t *testing.T) {
	c := NewCollection[employee.Employee](filepath.Join(t.TempDir(), "nope", "x.json"), nil)
	if got := c.Load(); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
	if err := c.Append(sampleEmployee()); err != nil {
		t.Fatalf("append should create parent dirs: %v", err)
	}
}

func TestLoadsZonelessTimestamps(t *testing.T) {
	dir := t.TempDir()
	fixture := `[
    {
        "employee_id": "TM01418",
        "name": "Abhinandan Rao",
        "email": "abhinandan.rao@gmail.com",
        "phone": "9876543210",
        "designation": "DevOps Engineer",
        "department": "Software Engineering",
        "date_of_joining": "2023-04-01",
        "location": "Hyderabad",
        "experience_years": 4.5,
        "skills": ["Docker", "Kubernetes"],
        "skills_count": 2,
        "created_at": "2025-09-15T10:30:00.123456"
    }
]`
	if err := os.WriteFile(filepath.Join(dir, EmployeesFile), []byte(fixture), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	stores := Open(dir, nil)

	got := stores.LoadEmployees(context.Background())
	if len(got) != 1 {
		t.Fatalf("expected one employee, got %d", len(got))
	}
	want := time.Date(2025, 9, 15, 10, 30, 0, 123456000, time.UTC)
	if !got[0].CreatedAt.Equal(want) {
		t.Fatalf("expected created_at %v, got %v", want, got[0].CreatedAt)
	}

	next := sampleEmployee()
	next.EmployeeID = "TM01419"
	next.Email = "second@gmail.com"
	if err := stores.AppendEmployee(context.Background(), next); err != nil {
		t.Fatalf("append after zoneless record: %v", err)
	}
	if n := len(Open(dir, nil).LoadEmployees(context.Background())); n != 2 {
		t.Fatalf("expected two employees after append, got %d", n)
	}
}
