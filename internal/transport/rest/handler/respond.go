package handler

import (
	"encoding/json"
	"liveroom/internal/apperror"
	"net/http"
)

// errorBody is the uniform failure shape: a stable machine-readable code
// plus a human-readable message. Failures are never hidden inside a 200.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Code: "INTERNAL", Message: message})
}

// respondError maps typed engine failures to their HTTP status; anything
// untyped is a 500.
func respondError(w http.ResponseWriter, err error) {
	if e, ok := apperror.AsError(err); ok {
		writeJSON(w, e.Status, errorBody{Code: e.Code, Message: e.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorBody{Code: "INTERNAL", Message: err.Error()})
}
