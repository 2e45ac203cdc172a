package shared

import (
	"net/http"
	"strings"

	"staffing/internal/transport/http/api"
	"staffing/internal/validation"
)

// FailValidation reports every issue; the top-level message joins them in order.
func FailValidation(w http.ResponseWriter, requestID string, issues []validation.Issue) {
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.Reason)
	}
	message := "payload validation failed"
	if len(messages) > 0 {
		message = strings.Join(messages, " ")
	}
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		message,
		map[string]any{"fields": issues, "messages": messages},
		requestID,
	)
}

// Reject writes a validation failure when v holds issues.
func Reject(w http.ResponseWriter, requestID string, v *validation.Validator) bool {
	if !v.HasIssues() {
		return false
	}
	FailValidation(w, requestID, v.Issues())
	return true
}
