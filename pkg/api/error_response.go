package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danharrold/lessons-api/pkg/domain"
)

// ErrorResponse represents a standard JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// MsgResponse is the soft status body used by update/delete and the
// not-found case: {"msg": "..."}
type MsgResponse struct {
	Msg string `json:"msg"`
}

// WriteJSONError writes a JSON error response with the given status code and message
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	json.NewEncoder(w).Encode(response)
}

// WriteStoreError maps a store failure onto a status code: 503 while the
// store is still connecting, 500 for everything else. Not-found is not
// handled here since only the get-by-id route treats it specially.
func WriteStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotInitialized) {
		WriteJSONError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	WriteJSONError(w, http.StatusInternalServerError, err.Error())
}

// writeMsg writes a {"msg": ...} body with the given status code.
func writeMsg(w http.ResponseWriter, statusCode int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(MsgResponse{Msg: msg})
}

// writeJSON writes any value as a JSON 200 response.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
