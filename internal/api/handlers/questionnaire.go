package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lunaria-app/lunaria/internal/api/dto"
	"github.com/lunaria-app/lunaria/internal/api/middleware"
	"github.com/lunaria-app/lunaria/internal/domain/questionnaire"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
	"github.com/lunaria-app/lunaria/internal/pkg/logger"
	"github.com/lunaria-app/lunaria/internal/pkg/utils"
	"github.com/lunaria-app/lunaria/internal/pkg/validator"
)

// QuestionnaireHandler handles questionnaire submission and retrieval
type QuestionnaireHandler struct {
	questionnaires questionnaire.Service
	logger         *logger.Logger
	validator      *validator.Validator
}

// NewQuestionnaireHandler creates a new questionnaire handler
func NewQuestionnaireHandler(
	questionnaires questionnaire.Service,
	log *logger.Logger,
	val *validator.Validator,
) *QuestionnaireHandler {
	return &QuestionnaireHandler{
		questionnaires: questionnaires,
		logger:         log,
		validator:      val,
	}
}

// Submit stores a completed questionnaire. The response includes the
// generated reading when generation succeeded inline.
func (h *QuestionnaireHandler) Submit(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUser(r)

	var req dto.QuestionnaireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	q := &questionnaire.Questionnaire{
		UserID:              u.ID,
		BirthDate:           req.BirthDate,
		BirthTime:           req.BirthTime,
		BirthCity:           req.BirthCity,
		BirthCountry:        req.BirthCountry,
		ZodiacSign:          req.ZodiacSign,
		PersonalityTraits:   req.PersonalityTraits,
		SpiritualGoals:      req.SpiritualGoals,
		RelationshipHistory: req.RelationshipHistory,
		LifeIntentions:      req.LifeIntentions,
		SpecificQuestions:   req.SpecificQuestions,
	}

	rd, err := h.questionnaires.Submit(r.Context(), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, dto.QuestionnaireResponse{Questionnaire: q, Reading: rd})
}

// Latest returns the user's most recent questionnaire
func (h *QuestionnaireHandler) Latest(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUser(r)

	q, err := h.questionnaires.Latest(r.Context(), u.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.QuestionnaireResponse{Questionnaire: q})
}

// List returns the user's questionnaires, newest first
func (h *QuestionnaireHandler) List(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUser(r)

	qs, err := h.questionnaires.ListByUser(r.Context(), u.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.QuestionnairesResponse{Questionnaires: qs})
}
