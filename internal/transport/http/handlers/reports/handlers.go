package reportshandler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"staffing/internal/domain/auth"
	"staffing/internal/domain/reports"
	"staffing/internal/transport/http/api"
	"staffing/internal/transport/http/middleware"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/summary", h.handleSummary)
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/allocations.pdf", h.handleAllocationsPDF)
	})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.Summary(r.Context()), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAllocationsPDF(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Service.WriteAllocationsPDF(r.Context(), &buf); err != nil {
		slog.Error("allocations pdf failed", "error", err, "requestId", middleware.GetRequestID(r.Context()))
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render report", middleware.GetRequestID(r.Context()))
		return
	}
	name := fmt.Sprintf("allocations-%s.pdf", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
