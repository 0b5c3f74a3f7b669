package utils

import (
	"encoding/json"
	"net/http"

	"github.com/lunaria-app/lunaria/internal/pkg/errors"
)

// ErrorResponse is the body sent for every failed request. Errors carries
// field-level validation details and is omitted otherwise.
type ErrorResponse struct {
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes an error JSON response from AppError. Internal detail is
// never echoed to the client.
func WriteError(w http.ResponseWriter, err *errors.AppError) error {
	return WriteJSON(w, err.StatusCode, ErrorResponse{
		Message: err.Message,
		Errors:  err.Details,
	})
}

// WriteErrorMessage writes a simple error message
func WriteErrorMessage(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, ErrorResponse{Message: message})
}

// WriteMessage writes a success body holding only a message
func WriteMessage(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, map[string]string{"message": message})
}
