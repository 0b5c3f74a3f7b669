package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/lunaria-app/lunaria/internal/api/dto"
	"github.com/lunaria-app/lunaria/internal/api/middleware"
	"github.com/lunaria-app/lunaria/internal/domain/payment"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
	"github.com/lunaria-app/lunaria/internal/pkg/logger"
	"github.com/lunaria-app/lunaria/internal/pkg/utils"
	"github.com/lunaria-app/lunaria/internal/pkg/validator"
)

// maxWebhookBody caps the webhook payload size.
const maxWebhookBody = 1 << 20

// PaymentHandler handles charges, subscriptions, and processor webhooks
type PaymentHandler struct {
	payments  payment.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(
	payments payment.Service,
	log *logger.Logger,
	val *validator.Validator,
) *PaymentHandler {
	return &PaymentHandler{
		payments:  payments,
		logger:    log,
		validator: val,
	}
}

// CreatePaymentIntent starts a one-time charge
func (h *PaymentHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUser(r)

	var req dto.CreatePaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	amountCents := int64(req.Amount * 100)
	result, err := h.payments.CreatePaymentIntent(r.Context(), u.ID, amountCents)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

// GetOrCreateSubscription returns or starts the user's subscription
func (h *PaymentHandler) GetOrCreateSubscription(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUser(r)

	result, err := h.payments.GetOrCreateSubscription(r.Context(), u.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

// List returns the user's payments, newest first
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUser(r)

	payments, err := h.payments.ListByUser(r.Context(), u.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.NewPaymentDTOs(payments))
}

// Webhook receives processor events. It is unauthenticated; the signature
// header is the credential.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Failed to read payload"))
		return
	}

	sig := r.Header.Get("Stripe-Signature")
	if err := h.payments.HandleWebhook(r.Context(), payload, sig); err != nil {
		h.logger.ErrorWithErr(err, "Webhook rejected")
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}
