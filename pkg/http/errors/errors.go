package errors

import (
	"encoding/json"
	"net/http"
)

// Fixed messages carried by the error body for each status.
const (
	MessageBadRequest          = "bad request"
	MessageNotFound            = "resource not found"
	MessageMethodNotAllowed    = "method not allowed"
	MessageUnprocessableEntity = "Unprocessable Entity"
	MessageInternalError       = "internal server error"
	MessageServiceUnavailable  = "service unavailable"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// RespondError writes a standardized error response to the HTTP response writer
func RespondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   status,
		Message: message,
	})
}

// RespondBadRequest writes a bad request error response
func RespondBadRequest(w http.ResponseWriter) {
	RespondError(w, http.StatusBadRequest, MessageBadRequest)
}

// RespondNotFound writes a not found error response
func RespondNotFound(w http.ResponseWriter) {
	RespondError(w, http.StatusNotFound, MessageNotFound)
}

// RespondMethodNotAllowed writes a method not allowed error response
func RespondMethodNotAllowed(w http.ResponseWriter) {
	RespondError(w, http.StatusMethodNotAllowed, MessageMethodNotAllowed)
}

// RespondUnprocessable writes an unprocessable entity error response.
// No handler reaches it today; kept so the 422 body matches the others.
func RespondUnprocessable(w http.ResponseWriter) {
	RespondError(w, http.StatusUnprocessableEntity, MessageUnprocessableEntity)
}

// RespondInternalError writes an internal server error response
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, MessageInternalError)
}

// RespondServiceUnavailable writes a service unavailable error response
func RespondServiceUnavailable(w http.ResponseWriter) {
	RespondError(w, http.StatusServiceUnavailable, MessageServiceUnavailable)
}
