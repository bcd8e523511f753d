package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeBadRequest reports a decode or validation failure.
func writeBadRequest(w http.ResponseWriter, err error) {
	var fe *FieldsError
	if errors.As(err, &fe) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: fe.Fields})
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
