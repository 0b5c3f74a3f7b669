package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lunaria-app/lunaria/internal/pkg/errors"
	"github.com/lunaria-app/lunaria/internal/pkg/utils"
)

// urlParamInt64 parses a chi URL parameter as a positive int64.
func urlParamInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("Invalid " + name)
	}
	return id, nil
}

// writeServiceError maps a service error to the HTTP response, keeping
// unexpected errors opaque to the client.
func writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		utils.WriteError(w, appErr)
		return
	}
	utils.WriteError(w, errors.Internal("Internal server error", err))
}
