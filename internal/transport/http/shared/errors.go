package shared

import (
	"errors"
	"log/slog"
	"net/http"

	"staffing/internal/domain/allocation"
	"staffing/internal/domain/employee"
	"staffing/internal/domain/intent"
	"staffing/internal/transport/http/api"
	"staffing/internal/validation"
)

// WriteError maps domain errors onto the response envelope.
func WriteError(w http.ResponseWriter, r *http.Request, requestID string, err error) {
	var (
		vErr     *validation.Error
		capErr   *allocation.CapacityError
		parseErr *intent.ParseError
		unrecErr *intent.UnrecognizedError
		notFound *employee.NotFoundError
		maxErr   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &vErr):
		FailValidation(w, requestID, vErr.Issues)
	case errors.As(err, &capErr):
		api.FailWithDetails(w, http.StatusConflict, "capacity_exceeded", capErr.Error(), map[string]any{
			"employeeId": capErr.EmployeeID,
			"current":    capErr.Current,
			"requested":  capErr.Requested,
		}, requestID)
	case errors.As(err, &notFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", notFound.Error(), requestID)
	case errors.As(err, &unrecErr):
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "intent_unrecognized", unrecErr.Message, map[string]any{
			"intent": unrecErr.Intent,
		}, requestID)
	case errors.As(err, &parseErr):
		api.Fail(w, http.StatusBadGateway, "parser_failed", "An error occurred while contacting the AI model.", requestID)
	case errors.Is(err, intent.ErrAssistantDisabled):
		api.Fail(w, http.StatusServiceUnavailable, "assistant_disabled", "the assistant is not configured", requestID)
	case errors.Is(err, allocation.ErrMissingColumns), errors.Is(err, allocation.ErrMalformedCSV):
		api.Fail(w, http.StatusBadRequest, "invalid_csv", err.Error(), requestID)
	case errors.As(err, &maxErr):
		api.Fail(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large", requestID)
	default:
		slog.Error("request failed", "error", err, "path", r.URL.Path, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "the request could not be completed", requestID)
	}
}
