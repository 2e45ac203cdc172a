package employeeshandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"staffing/internal/domain/allocation"
	"staffing/internal/domain/auth"
	"staffing/internal/domain/employee"
	"staffing/internal/transport/http/api"
	"staffing/internal/transport/http/middleware"
	"staffing/internal/transport/http/shared"
)

type Handler struct {
	Employees   *employee.Service
	Allocations *allocation.Service
}

func NewHandler(employees *employee.Service, allocations *allocation.Service) *Handler {
	return &Handler{Employees: employees, Allocations: allocations}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireAuth).Get("/catalog", h.handleCatalog)
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/", h.handleListEmployees)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Post("/", h.handleRegisterEmployee)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/{employeeID}", h.handleGetEmployee)
	})
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Employees.Catalog(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees := h.Employees.List(r.Context())
	if employees == nil {
		employees = []employee.Employee{}
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRegisterEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload employee.Registration
	if !shared.DecodeJSON(w, r, requestID, &payload) {
		return
	}

	emp, err := h.Employees.Register(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, requestID, err)
		return
	}
	api.Created(w, emp, requestID)
}

type employeeDetail struct {
	Employee        employee.Employee       `json:"employee"`
	Allocations     []allocation.Allocation `json:"allocations"`
	TotalAllocation int                     `json:"totalAllocation"`
	Available       int                     `json:"availableAllocation"`
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := strings.TrimSpace(chi.URLParam(r, "employeeID"))

	emp, err := h.Employees.Get(r.Context(), employeeID)
	if err != nil {
		shared.WriteError(w, r, requestID, err)
		return
	}
	records := h.Allocations.ListForEmployee(r.Context(), emp.EmployeeID)
	if records == nil {
		records = []allocation.Allocation{}
	}
	total := allocation.TotalAllocation(records, emp.EmployeeID)
	api.Success(w, employeeDetail{
		Employee:        emp,
		Allocations:     records,
		TotalAllocation: total,
		Available:       allocation.MaxCapacity - total,
	}, requestID)
}
