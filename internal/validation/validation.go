package validation

import (
	"strings"
)

type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error carries every issue found for one request, in the order they were found.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	return strings.Join(e.Messages(), "; ")
}

func (e *Error) Messages() []string {
	out := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		out = append(out, issue.Reason)
	}
	return out
}

type Validator struct {
	issues []Issue
}

func New() *Validator {
	return &Validator{issues: make([]Issue, 0, 4)}
}

func (v *Validator) Add(field, reason string) {
	if v == nil {
		return
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return
	}
	v.issues = append(v.issues, Issue{Field: strings.TrimSpace(field), Reason: reason})
}

func (v *Validator) Merge(issues []Issue) {
	for _, issue := range issues {
		v.Add(issue.Field, issue.Reason)
	}
}

// Required records reason when value is blank and reports whether value was present.
func (v *Validator) Required(field, value, reason string) bool {
	if strings.TrimSpace(value) == "" {
		v.Add(field, reason)
		return false
	}
	return true
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.issues) > 0
}

func (v *Validator) Issues() []Issue {
	if v == nil || len(v.issues) == 0 {
		return nil
	}
	out := make([]Issue, len(v.issues))
	copy(out, v.issues)
	return out
}

// Err returns nil when nothing was recorded.
func (v *Validator) Err() error {
	if !v.HasIssues() {
		return nil
	}
	return &Error{Issues: v.Issues()}
}
