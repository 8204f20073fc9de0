package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/billing-backend-go/internal/domain/plan"
	"github.com/cmlabs-hris/billing-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/billing-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// PlanHandler handles plan catalog and upgrade pricing requests
type PlanHandler interface {
	// Public endpoints
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)

	// Authenticated endpoints
	UpgradePrice(w http.ResponseWriter, r *http.Request)

	// Admin-only endpoints
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type planHandlerImpl struct {
	planService plan.PlanService
}

func NewPlanHandler(planService plan.PlanService) PlanHandler {
	return &planHandlerImpl{planService: planService}
}

func planIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, validator.ValidationErrors{{Field: "id", Message: "id must be a positive integer"}}
	}
	return id, nil
}

// List retrieves every plan
// GET /api/v1/plans - Public
func (h *planHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.planService.GetPlans(r.Context())
	if err != nil {
		slog.Error("GetPlans service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, plans)
}

// GetByID retrieves a single plan
// GET /api/v1/plans/{id} - Public
func (h *planHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := planIDParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	p, err := h.planService.GetPlanByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, p)
}

// Create adds a plan
// POST /api/v1/plans - Admin
func (h *planHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req plan.CreatePlanRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreatePlan decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.planService.CreatePlan(r.Context(), req)
	if err != nil {
		slog.Error("CreatePlan service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Plan created", "plan_id", created.ID)
	response.Created(w, "Plan created successfully", created)
}

// Update changes the name and/or price of a plan
// PUT /api/v1/plans/{id} - Admin
func (h *planHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, err := planIDParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req plan.UpdatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdatePlan decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.planService.UpdatePlan(r.Context(), id, req)
	if err != nil {
		slog.Error("UpdatePlan service error", "plan_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Plan updated", "plan_id", updated.ID)
	response.SuccessWithMessage(w, "Plan updated successfully", updated)
}

// UpgradePrice quotes the prorated price of switching plans
// POST /api/v1/plans/upgrade - Authenticated
func (h *planHandlerImpl) UpgradePrice(w http.ResponseWriter, r *http.Request) {
	var req plan.UpgradePriceRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpgradePrice decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	quote, err := h.planService.UpgradePrice(r.Context(), req)
	if err != nil {
		slog.Warn("UpgradePrice rejected", "current_plan_id", req.CurrentPlanID, "new_plan_id", req.NewPlanID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, quote)
}
