package allocationshandler

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffing/internal/domain/allocation"
	"staffing/internal/domain/auth"
	"staffing/internal/transport/http/api"
	"staffing/internal/transport/http/middleware"
	"staffing/internal/transport/http/shared"
	"staffing/internal/validation"
)

type Handler struct {
	Service     *allocation.Service
	Idempotency *middleware.IdempotencyStore
}

func NewHandler(service *allocation.Service, idempotency *middleware.IdempotencyStore) *Handler {
	return &Handler{Service: service, Idempotency: idempotency}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/allocations", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAllocationsRead)).Get("/", h.handleListAllocations)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(auth.PermAllocationsWrite))
			if h.Idempotency != nil {
				r.Use(middleware.Idempotent(h.Idempotency))
			}
			r.Post("/", h.handleCreateAllocation)
			r.Post("/bulk", h.handleBulkImport)
		})
	})
}

func (h *Handler) handleListAllocations(w http.ResponseWriter, r *http.Request) {
	records := h.Service.List(r.Context())
	if records == nil {
		records = []allocation.Allocation{}
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateAllocation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload allocation.Request
	if !shared.DecodeJSON(w, r, requestID, &payload) {
		return
	}

	rec, err := h.Service.Allocate(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, requestID, err)
		return
	}
	api.Created(w, rec, requestID)
}

// handleBulkImport accepts the CSV either as the raw body or as the "file"
// part of a multipart form.
func (h *Handler) handleBulkImport(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var src io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			shared.WriteError(w, r, requestID, err)
			return
		case err != nil:
			v := validation.New()
			v.Add("file", "A CSV file is required.")
			shared.Reject(w, requestID, v)
			return
		}
		defer file.Close()
		src = file
	}

	result, err := h.Service.ImportCSV(r.Context(), src)
	if err != nil {
		shared.WriteError(w, r, requestID, err)
		return
	}
	api.Success(w, result, requestID)
}
