package intent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"staffing/internal/domain/allocation"
	"staffing/internal/domain/employee"
	"staffing/internal/validation"
)

type Employees interface {
	List(ctx context.Context) []employee.Employee
	Resolve(ctx context.Context, query string) (employee.Employee, error)
}

type Allocations interface {
	List(ctx context.Context) []allocation.Allocation
	ListForEmployee(ctx context.Context, employeeID string) []allocation.Allocation
	AllocateEmployee(ctx context.Context, emp employee.Employee, a allocation.Assignment) (allocation.Allocation, error)
}

// Outcome is the answer to one routed request.
type Outcome struct {
	Intent         string                  `json:"intent"`
	Message        string                  `json:"message"`
	Field          string                  `json:"field,omitempty"`
	Value          any                     `json:"value,omitempty"`
	Employee       *employee.Employee      `json:"employee,omitempty"`
	Allocations    []allocation.Allocation `json:"allocations,omitempty"`
	Allocation     *allocation.Allocation  `json:"allocation,omitempty"`
	Total          *int                    `json:"totalAllocation,omitempty"`
	Candidates     []Candidate             `json:"candidates,omitempty"`
	Interpretation *Parsed                 `json:"interpretation,omitempty"`
}

type Candidate struct {
	Name       string `json:"name"`
	EmployeeID string `json:"employeeId"`
	SkillMatch string `json:"skillMatch"`
	Score      int    `json:"score"`
	Available  int    `json:"availableAllocation"`
}

// Router dispatches parsed requests. It holds no state between calls.
type Router struct {
	employees   Employees
	allocations Allocations
	parser      Parser
	recorder    Recorder
	logger      *slog.Logger
}

type RouterOption func(*Router)

func WithParser(p Parser) RouterOption {
	return func(r *Router) { r.parser = p }
}

func WithRecorder(rec Recorder) RouterOption {
	return func(r *Router) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

func WithLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRouter(employees Employees, allocations Allocations, opts ...RouterOption) *Router {
	r := &Router{
		employees:   employees,
		allocations: allocations,
		recorder:    noopRecorder{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Enabled() bool {
	return r.parser != nil
}

// Handle parses text and routes the result across every intent.
func (r *Router) Handle(ctx context.Context, text string) (Outcome, error) {
	parsed, err := r.parse(ctx, text, "Please enter a question.")
	if err != nil {
		return Outcome{}, err
	}
	out, err := r.Route(ctx, parsed)
	if err != nil {
		return Outcome{}, err
	}
	out.Interpretation = &parsed
	return out, nil
}

// HandleAllocation accepts only allocation commands.
func (r *Router) HandleAllocation(ctx context.Context, text string) (Outcome, error) {
	parsed, err := r.parse(ctx, text, "Please enter an allocation request.")
	if err != nil {
		return Outcome{}, err
	}
	if parsed.Intent != AllocateProject {
		r.recorder.IntentRouted(Other)
		return Outcome{}, &UnrecognizedError{Intent: parsed.Intent, Message: msgUnrecognizedAllocation}
	}
	r.recorder.IntentRouted(AllocateProject)
	out, err := r.allocate(ctx, parsed.Entities)
	if err != nil {
		return Outcome{}, err
	}
	out.Interpretation = &parsed
	return out, nil
}

func (r *Router) parse(ctx context.Context, text, emptyMessage string) (Parsed, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		v := validation.New()
		v.Add("query", emptyMessage)
		return Parsed{}, v.Err()
	}
	if r.parser == nil {
		return Parsed{}, ErrAssistantDisabled
	}
	parsed, err := r.parser.Parse(ctx, text)
	if err != nil {
		r.recorder.ParseFailed()
		r.logger.Warn("intent parse failed", "error", err)
		var pe *ParseError
		if !errors.As(err, &pe) {
			err = &ParseError{Reason: "parser call failed", Err: err}
		}
		return Parsed{}, err
	}
	return parsed, nil
}

// Route acts on an already parsed request.
func (r *Router) Route(ctx context.Context, p Parsed) (Outcome, error) {
	switch {
	case IsLookup(p.Intent):
		r.recorder.IntentRouted(p.Intent)
		return r.lookup(ctx, p.Intent, p.Entities)
	case p.Intent == SearchCandidate:
		r.recorder.IntentRouted(p.Intent)
		return r.search(ctx, p.Entities)
	case p.Intent == AllocateProject:
		r.recorder.IntentRouted(p.Intent)
		return r.allocate(ctx, p.Entities)
	default:
		r.recorder.IntentRouted(Other)
		return Outcome{}, &UnrecognizedError{Intent: p.Intent, Message: msgUnrecognized}
	}
}

func (r *Router) lookup(ctx context.Context, name string, entities map[string]any) (Outcome, error) {
	slots, issues := DecodeLookup(entities)
	if len(issues) > 0 {
		return Outcome{}, &validation.Error{Issues: issues}
	}
	emp, err := r.employees.Resolve(ctx, slots.EmployeeName)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Intent: name, Employee: &emp}
	switch name {
	case GetEmployeeAllocation:
		total := allocation.TotalAllocation(r.allocations.ListForEmployee(ctx, emp.EmployeeID), emp.EmployeeID)
		out.Total = &total
		out.Field, out.Value = "allocation", total
		out.Message = fmt.Sprintf("%s has a total allocation of %d%%.", emp.Name, total)
	case FindEmployeeProjects:
		out.Allocations = r.allocations.ListForEmployee(ctx, emp.EmployeeID)
		out.Message = projectsMessage(emp.Name, out.Allocations)
	case GetEmployeeSkills:
		out.Field, out.Value = "skills", emp.Skills
		if len(emp.Skills) == 0 {
			out.Message = fmt.Sprintf("No skills are listed for %s.", emp.Name)
		} else {
			out.Message = fmt.Sprintf("%s has the following skills: %s", emp.Name, strings.Join(emp.Skills, ", "))
		}
	case GetEmployeePhone:
		out.Field, out.Value = "phone", emp.Phone
		out.Message = fmt.Sprintf("The phone number for %s is %s.", emp.Name, emp.Phone)
	case GetEmployeeDepartment:
		out.Field, out.Value = "department", emp.Department
		out.Message = fmt.Sprintf("%s works in the %s department.", emp.Name, emp.Department)
	case GetEmployeeDesignation:
		out.Field, out.Value = "designation", emp.Designation
		out.Message = fmt.Sprintf("The designation of %s is %s.", emp.Name, emp.Designation)
	case GetEmployeeID:
		out.Field, out.Value = "employee_id", emp.EmployeeID
		out.Message = fmt.Sprintf("The Employee ID for %s is %s.", emp.Name, emp.EmployeeID)
	case GetEmployeeExperience:
		out.Field, out.Value = "experience_years", emp.ExperienceYears
		out.Message = fmt.Sprintf("%s has %s years of experience.", emp.Name, strconv.FormatFloat(emp.ExperienceYears, 'f', -1, 64))
	case GetEmployeeEmail:
		out.Field, out.Value = "email", emp.Email
		out.Message = fmt.Sprintf("The email for %s is %s.", emp.Name, emp.Email)
	case GetEmployeeDOJ:
		out.Field, out.Value = "date_of_joining", emp.DateOfJoining
		out.Message = fmt.Sprintf("%s joined on %s.", emp.Name, emp.DateOfJoining)
	case GetEmployeeLocation:
		out.Field, out.Value = "location", emp.Location
		out.Message = fmt.Sprintf("%s is located in %s.", emp.Name, emp.Location)
	case GetEmployeeDetails:
		out.Allocations = r.allocations.ListForEmployee(ctx, emp.EmployeeID)
		total := allocation.TotalAllocation(out.Allocations, emp.EmployeeID)
		out.Total = &total
		out.Message = fmt.Sprintf("Showing all details for %s", emp.Name)
	}
	return out, nil
}

func projectsMessage(name string, recs []allocation.Allocation) string {
	if len(recs) == 0 {
		return fmt.Sprintf("%s is not currently allocated to any projects.", name)
	}
	parts := make([]string, 0, len(recs))
	for _, rec := range recs {
		parts = append(parts, fmt.Sprintf("%s (Allocation: %d%%)", rec.ProjectName, rec.Allocation))
	}
	return fmt.Sprintf("%s is working on the following projects: %s", name, strings.Join(parts, ", "))
}

func (r *Router) search(ctx context.Context, entities map[string]any) (Outcome, error) {
	slots, issues := DecodeSearch(entities)
	if len(issues) > 0 {
		return Outcome{}, &validation.Error{Issues: issues}
	}

	out := Outcome{Intent: SearchCandidate, Candidates: []Candidate{}}
	var pool []employee.Employee
	for _, emp := range r.employees.List(ctx) {
		if emp.Designation == slots.Designation {
			pool = append(pool, emp)
		}
	}
	if len(pool) == 0 {
		out.Message = "No employees found with the designation: " + slots.Designation
		return out, nil
	}

	ledger := allocation.NewLedger(r.allocations.List(ctx))
	for _, emp := range pool {
		available := ledger.Available(emp.EmployeeID)
		if available < slots.AllocationNeeded {
			continue
		}
		score := 0
		for _, skill := range slots.Skills {
			if emp.HasSkill(skill) {
				score++
			}
		}
		if len(slots.Skills) > 0 && score == 0 {
			continue
		}
		out.Candidates = append(out.Candidates, Candidate{
			Name:       emp.Name,
			EmployeeID: emp.EmployeeID,
			SkillMatch: fmt.Sprintf("%d / %d", score, len(slots.Skills)),
			Score:      score,
			Available:  available,
		})
	}
	sort.SliceStable(out.Candidates, func(i, j int) bool {
		return out.Candidates[i].Score > out.Candidates[j].Score
	})

	if len(out.Candidates) == 0 {
		out.Message = "No candidates found matching all criteria (designation, skills, and required allocation)."
	} else {
		out.Message = fmt.Sprintf("Found %d candidate(s) for %s.", len(out.Candidates), slots.Designation)
	}
	return out, nil
}

func (r *Router) allocate(ctx context.Context, entities map[string]any) (Outcome, error) {
	slots, issues := DecodeAllocate(entities)
	v := validation.New()
	v.Merge(issues)

	assignment, termIssues := allocation.ValidateTerms(slots.Terms)

	var emp employee.Employee
	if slots.EmployeeName != "" {
		found, err := r.employees.Resolve(ctx, slots.EmployeeName)
		switch {
		case errors.Is(err, employee.ErrEmployeeNotFound):
			v.Add("employee_name", err.Error())
		case err != nil:
			return Outcome{}, err
		default:
			emp = found
		}
	}
	v.Merge(termIssues)
	if err := v.Err(); err != nil {
		return Outcome{}, err
	}

	rec, err := r.allocations.AllocateEmployee(ctx, emp, assignment)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Intent:     AllocateProject,
		Message:    fmt.Sprintf("Successfully allocated %s to %s with %d%% allocation.", rec.ProjectName, rec.Name, rec.Allocation),
		Employee:   &emp,
		Allocation: &rec,
	}, nil
}
