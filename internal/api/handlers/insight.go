package handlers

import (
	"net/http"
	"time"

	"github.com/lunaria-app/lunaria/internal/api/dto"
	"github.com/lunaria-app/lunaria/internal/domain/insight"
	"github.com/lunaria-app/lunaria/internal/pkg/logger"
	"github.com/lunaria-app/lunaria/internal/pkg/utils"
)

// InsightHandler serves the public daily insight
type InsightHandler struct {
	insights insight.Service
	logger   *logger.Logger
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(insights insight.Service, log *logger.Logger) *InsightHandler {
	return &InsightHandler{insights: insights, logger: log}
}

// Daily returns today's active insight
func (h *InsightHandler) Daily(w http.ResponseWriter, r *http.Request) {
	i, err := h.insights.Daily(r.Context(), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.InsightResponse{Insight: i})
}
