package assistanthandler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"staffing/internal/domain/auth"
	"staffing/internal/domain/intent"
	"staffing/internal/transport/http/api"
	"staffing/internal/transport/http/middleware"
	"staffing/internal/transport/http/shared"
)

type Handler struct {
	Router    *intent.Router
	RateLimit int
}

func NewHandler(router *intent.Router, rateLimitPerMinute int) *Handler {
	return &Handler{Router: router, RateLimit: rateLimitPerMinute}
}

type queryRequest struct {
	Query string `json:"query"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/assistant", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermAssistantUse))
		if h.RateLimit > 0 {
			r.Use(middleware.RateLimit(h.RateLimit, time.Minute))
		}
		r.Get("/status", h.handleStatus)
		r.Post("/query", h.handle(h.Router.Handle))
		r.Post("/allocate", h.handle(h.Router.HandleAllocation))
	})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]bool{"enabled": h.Router.Enabled()}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handle(fn func(context.Context, string) (intent.Outcome, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetRequestID(r.Context())
		var payload queryRequest
		if !shared.DecodeJSON(w, r, requestID, &payload) {
			return
		}

		out, err := fn(r.Context(), payload.Query)
		if err != nil {
			shared.WriteError(w, r, requestID, err)
			return
		}
		if out.Allocation != nil {
			api.Created(w, out, requestID)
			return
		}
		api.Success(w, out, requestID)
	}
}
