package intent

import (
	"context"
	"errors"
	"fmt"
)

const (
	GetEmployeeAllocation  = "get_employee_allocation"
	FindEmployeeProjects   = "find_employee_projects"
	GetEmployeeSkills      = "get_employee_skills"
	GetEmployeePhone       = "get_employee_phone"
	GetEmployeeDepartment  = "get_employee_department"
	GetEmployeeDesignation = "get_employee_designation"
	GetEmployeeID          = "get_employee_id"
	GetEmployeeExperience  = "get_employee_experience"
	GetEmployeeEmail       = "get_employee_email"
	GetEmployeeDOJ         = "get_employee_doj"
	GetEmployeeLocation    = "get_employee_location"
	GetEmployeeDetails     = "get_employee_details"

	SearchCandidate = "search_candidate"
	AllocateProject = "allocate_project"
	Other           = "other"
)

var lookupIntents = map[string]struct{}{
	GetEmployeeAllocation:  {},
	FindEmployeeProjects:   {},
	GetEmployeeSkills:      {},
	GetEmployeePhone:       {},
	GetEmployeeDepartment:  {},
	GetEmployeeDesignation: {},
	GetEmployeeID:          {},
	GetEmployeeExperience:  {},
	GetEmployeeEmail:       {},
	GetEmployeeDOJ:         {},
	GetEmployeeLocation:    {},
	GetEmployeeDetails:     {},
}

// IsLookup reports whether name is one of the single-employee lookup intents.
func IsLookup(name string) bool {
	_, ok := lookupIntents[name]
	return ok
}

// Known reports whether name is a recognized intent, "other" included.
func Known(name string) bool {
	return IsLookup(name) || name == SearchCandidate || name == AllocateProject || name == Other
}

// Parsed is the structured reading of one free-text request.
type Parsed struct {
	Intent   string         `json:"intent"`
	Entities map[string]any `json:"entities"`
}

// Parser turns free text into a Parsed value. Implementations must return a
// *ParseError for any failure; callers do not retry.
type Parser interface {
	Parse(ctx context.Context, text string) (Parsed, error)
}

var (
	ErrUnrecognizedIntent = errors.New("unrecognized intent")
	ErrAssistantDisabled  = errors.New("assistant is not configured")
)

const (
	msgUnrecognized           = "Sorry, I could not understand your request. Please try phrasing it differently."
	msgUnrecognizedAllocation = "Sorry, I could not understand your request as an allocation command. Please try phrasing it differently."
)

// UnrecognizedError is returned for "other" and for intents a mode does not handle.
type UnrecognizedError struct {
	Intent  string
	Message string
}

func (e *UnrecognizedError) Error() string {
	return e.Message
}

func (e *UnrecognizedError) Is(target error) bool {
	return target == ErrUnrecognizedIntent
}

type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "intent parser: " + e.Reason
	}
	return fmt.Sprintf("intent parser: %s: %v", e.Reason, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Recorder receives routing outcomes; the metrics collector implements it.
type Recorder interface {
	IntentRouted(intent string)
	ParseFailed()
}

type noopRecorder struct{}

func (noopRecorder) IntentRouted(string) {}
func (noopRecorder) ParseFailed()        {}
