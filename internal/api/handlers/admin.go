package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lunaria-app/lunaria/internal/api/dto"
	"github.com/lunaria-app/lunaria/internal/domain/insight"
	"github.com/lunaria-app/lunaria/internal/domain/payment"
	"github.com/lunaria-app/lunaria/internal/domain/questionnaire"
	"github.com/lunaria-app/lunaria/internal/domain/user"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
	"github.com/lunaria-app/lunaria/internal/pkg/logger"
	"github.com/lunaria-app/lunaria/internal/pkg/utils"
	"github.com/lunaria-app/lunaria/internal/pkg/validator"
	"github.com/lunaria-app/lunaria/internal/services"
)

// AdminHandler serves the admin dashboard endpoints
type AdminHandler struct {
	users          user.Service
	questionnaires questionnaire.Service
	payments       payment.Service
	insights       insight.Service
	stats          *services.StatsService
	logger         *logger.Logger
	validator      *validator.Validator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	users user.Service,
	questionnaires questionnaire.Service,
	payments payment.Service,
	insights insight.Service,
	stats *services.StatsService,
	log *logger.Logger,
	val *validator.Validator,
) *AdminHandler {
	return &AdminHandler{
		users:          users,
		questionnaires: questionnaires,
		payments:       payments,
		insights:       insights,
		stats:          stats,
		logger:         log,
		validator:      val,
	}
}

// Stats returns platform-wide counters
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Collect(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, stats)
}

// ListUsers returns all users, paginated
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := utils.ParsePaginationParams(r)

	users, total, err := h.users.List(r.Context(), params.PageSize, params.Offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]*dto.UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, dto.NewUserDTO(u))
	}

	utils.WriteJSON(w, http.StatusOK,
		utils.NewPaginatedResponse(dtos, params.Page, params.PageSize, total))
}

// ListQuestionnaires returns all questionnaires, paginated
func (h *AdminHandler) ListQuestionnaires(w http.ResponseWriter, r *http.Request) {
	params := utils.ParsePaginationParams(r)

	qs, total, err := h.questionnaires.List(r.Context(), params.PageSize, params.Offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK,
		utils.NewPaginatedResponse(qs, params.Page, params.PageSize, total))
}

// ListPayments returns all payments, paginated
func (h *AdminHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	params := utils.ParsePaginationParams(r)

	payments, total, err := h.payments.List(r.Context(), params.PageSize, params.Offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK,
		utils.NewPaginatedResponse(dto.NewPaymentDTOs(payments), params.Page, params.PageSize, total))
}

// ListInsights returns all daily insights, paginated
func (h *AdminHandler) ListInsights(w http.ResponseWriter, r *http.Request) {
	params := utils.ParsePaginationParams(r)

	insights, total, err := h.insights.List(r.Context(), params.PageSize, params.Offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK,
		utils.NewPaginatedResponse(insights, params.Page, params.PageSize, total))
}

// CreateInsight stores a new daily insight
func (h *AdminHandler) CreateInsight(w http.ResponseWriter, r *http.Request) {
	var req dto.InsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	i := &insight.Insight{
		Title:      req.Title,
		Content:    req.Content,
		Date:       req.Date,
		ZodiacSign: req.ZodiacSign,
		IsActive:   true,
	}
	if req.IsActive != nil {
		i.IsActive = *req.IsActive
	}

	if err := h.insights.Create(r.Context(), i); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, i)
}

// UpdateInsight replaces an existing daily insight
func (h *AdminHandler) UpdateInsight(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req dto.InsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	i := &insight.Insight{
		ID:         id,
		Title:      req.Title,
		Content:    req.Content,
		Date:       req.Date,
		ZodiacSign: req.ZodiacSign,
		IsActive:   true,
	}
	if req.IsActive != nil {
		i.IsActive = *req.IsActive
	}

	if err := h.insights.Update(r.Context(), i); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, i)
}
