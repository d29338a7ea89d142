package contact

import (
	"encoding/json"
	"net/http"

	rldomain "contact-gateway/middleware/ratelimit/domain"
)

const (
	msgThanks       = "Thank you for your message! I will get back to you soon."
	msgOperational  = "Contact API is operational"
	msgTooMany      = "Too many requests. Please try again later."
	msgInvalidJSON  = "Invalid JSON in request body"
	msgUnexpected   = "An unexpected error occurred. Please try again."
	validationLabel = "Validation failed: "
)

// Response é o envelope de todas as respostas do endpoint.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type messageData struct {
	Message string `json:"message"`
}

type statusData struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Response{Success: false, Error: msg})
}

// RejectTooManyRequests é o RejectHandler do middleware de rate limit.
func RejectTooManyRequests(w http.ResponseWriter, _ *http.Request, _ rldomain.Decision) {
	writeError(w, http.StatusTooManyRequests, msgTooMany)
}

// InternalError é o ErrorHandler do middleware de rate limit: não vaza detalhe.
func InternalError(w http.ResponseWriter, _ *http.Request, _ error) {
	writeError(w, http.StatusInternalServerError, msgUnexpected)
}
