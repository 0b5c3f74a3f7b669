package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lunaria-app/lunaria/internal/api/dto"
	"github.com/lunaria-app/lunaria/internal/api/middleware"
	"github.com/lunaria-app/lunaria/internal/domain/reading"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
	"github.com/lunaria-app/lunaria/internal/pkg/logger"
	"github.com/lunaria-app/lunaria/internal/pkg/utils"
	"github.com/lunaria-app/lunaria/internal/pkg/validator"
)

// ReadingHandler handles reading retrieval and generation
type ReadingHandler struct {
	readings  reading.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewReadingHandler creates a new reading handler
func NewReadingHandler(
	readings reading.Service,
	log *logger.Logger,
	val *validator.Validator,
) *ReadingHandler {
	return &ReadingHandler{
		readings:  readings,
		logger:    log,
		validator: val,
	}
}

// List returns the user's readings, newest first
func (h *ReadingHandler) List(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUser(r)

	rds, err := h.readings.ListForUser(r.Context(), u.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.ReadingsResponse{Readings: rds})
}

// Get returns one reading the user owns
func (h *ReadingHandler) Get(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUser(r)

	id, err := urlParamInt64(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	rd, err := h.readings.GetForUser(r.Context(), u.ID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.ReadingResponse{Reading: rd})
}

// Generate produces a new reading from one of the user's questionnaires
func (h *ReadingHandler) Generate(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUser(r)

	var req dto.GenerateReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	rd, err := h.readings.Generate(r.Context(), u.ID, req.QuestionnaireID, req.ReadingType)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, dto.ReadingResponse{Reading: rd})
}
