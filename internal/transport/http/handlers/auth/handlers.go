package authhandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"staffing/internal/domain/auth"
	"staffing/internal/transport/http/api"
	"staffing/internal/transport/http/middleware"
	"staffing/internal/transport/http/shared"
	"staffing/internal/validation"
)

type Handler struct {
	Service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{Service: service}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.DecodeJSON(w, r, requestID, &payload) {
		return
	}
	payload.Username = strings.TrimSpace(payload.Username)

	v := validation.New()
	v.Required("username", payload.Username, "Username is required.")
	v.Required("password", payload.Password, "Password is required.")
	if shared.Reject(w, requestID, v) {
		return
	}

	session, err := h.Service.Login(r.Context(), payload.Username, payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		slog.Info("login rejected", "username", payload.Username, "requestId", requestID)
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestID)
		return
	}
	api.Success(w, session, requestID)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	perms := make([]string, 0, len(auth.DefaultPermissions))
	for _, p := range auth.DefaultPermissions {
		if auth.HasPermission(user.Role, p) {
			perms = append(perms, p)
		}
	}
	api.Success(w, map[string]any{
		"username":    user.Username,
		"role":        user.Role,
		"permissions": perms,
	}, middleware.GetRequestID(r.Context()))
}
