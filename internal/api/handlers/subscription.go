package handlers

import (
	"net/http"

	"github.com/devforge/codelab/internal/api/dto"
	"github.com/devforge/codelab/internal/api/middleware"
	"github.com/devforge/codelab/internal/domain/plan"
	"github.com/devforge/codelab/internal/domain/subscription"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/pkg/utils"
	"github.com/devforge/codelab/internal/pkg/validator"
)

// SubscriptionHandler handles plan catalog, subscription and payment requests
type SubscriptionHandler struct {
	subscriptions subscription.Service
	logger        *logger.Logger
	validator     *validator.Validator
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subs subscription.Service, log *logger.Logger, val *validator.Validator) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptions: subs,
		logger:        log,
		validator:     val,
	}
}

// GetPlans returns the public plan catalog
// @Summary List plans
// @Description Get the plan catalog with prices and features
// @Tags Subscription
// @Produce json
// @Success 200 {array} dto.PlanDTO "Plan catalog"
// @Router /subscription/plans [get]
func (h *SubscriptionHandler) GetPlans(w http.ResponseWriter, r *http.Request) {
	plans := plan.All()
	out := make([]dto.PlanDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, dto.NewPlanDTO(p))
	}
	utils.WriteSuccess(w, http.StatusOK, out)
}

// GetDetails returns the user's subscription with resolved plan limits
// @Summary Get subscription details
// @Description Get the current subscription, plan limits and payment history
// @Tags Subscription
// @Produce json
// @Success 200 {object} dto.SubscriptionDetailsResponse "Subscription details"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /subscription [get]
func (h *SubscriptionHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	details, err := h.subscriptions.GetDetails(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to load subscription", err))
		return
	}

	resp := dto.SubscriptionDetailsResponse{
		Subscription: dto.NewSubscriptionDTO(details.Subscription),
		Plan:         dto.NewPlanDTO(details.Plan),
		Active:       details.Active,
	}
	if details.Subscription != nil {
		for _, p := range details.Subscription.Payments {
			resp.Payments = append(resp.Payments, dto.NewPaymentDTO(p))
		}
	}

	utils.WriteSuccess(w, http.StatusOK, resp)
}

// GetStatus returns the lightweight subscription validity probe
// @Summary Get subscription status
// @Description Check whether the current subscription grants access
// @Tags Subscription
// @Produce json
// @Success 200 {object} dto.SubscriptionStatusResponse "Subscription status"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /subscription/status [get]
func (h *SubscriptionHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	status, err := h.subscriptions.GetStatus(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to load subscription status", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.SubscriptionStatusResponse{
		Status: status.Status,
		Plan:   status.Plan,
		Active: status.Active,
	})
}

// Activate puts the user on a plan
// @Summary Activate subscription
// @Description Activate a plan for the current user; re-activation restarts the period
// @Tags Subscription
// @Accept json
// @Produce json
// @Param request body dto.ActivateSubscriptionRequest true "Plan selection"
// @Success 200 {object} dto.SubscriptionDTO "Subscription activated"
// @Failure 400 {object} utils.ErrorResponse "Unknown plan"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /subscription/activate [post]
func (h *SubscriptionHandler) Activate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	var req dto.ActivateSubscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	sub, err := h.subscriptions.Activate(r.Context(), userID, req.Plan)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to activate subscription", err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Subscription activated", dto.NewSubscriptionDTO(sub))
}

// Cancel cancels the subscription
// @Summary Cancel subscription
// @Description Cancel the current subscription, ending access immediately
// @Tags Subscription
// @Produce json
// @Success 200 {object} dto.SubscriptionDTO "Subscription cancelled"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Failure 404 {object} utils.ErrorResponse "No subscription"
// @Security BearerAuth
// @Router /subscription/cancel [post]
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	sub, err := h.subscriptions.Cancel(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to cancel subscription", err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Subscription cancelled", dto.NewSubscriptionDTO(sub))
}

// TestPayment runs the simulated payment flow
// @Summary Test payment
// @Description Run the simulated payment provider and activate the chosen plan
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.TestPaymentRequest true "Plan selection"
// @Success 200 {object} dto.TestPaymentResponse "Payment processed"
// @Failure 400 {object} utils.ErrorResponse "Unknown plan"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /payment/test [post]
func (h *SubscriptionHandler) TestPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	var req dto.TestPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.(*errors.AppError))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	payment, sub, err := h.subscriptions.ProcessPayment(r.Context(), userID, req.Plan)
	if err != nil {
		writeServiceError(w, err, errors.Internal("Failed to process payment", err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Payment processed", dto.TestPaymentResponse{
		Payment:      dto.NewPaymentDTO(*payment),
		Subscription: dto.NewSubscriptionDTO(sub),
	})
}
