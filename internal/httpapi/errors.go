package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"vagas-dashboard/internal/apiclient"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeBackendError maps a failed backend call onto our envelope: 4xx
// answers are passed through, anything else is a bad gateway.
func writeBackendError(w http.ResponseWriter, r *http.Request, err error) {
	var he *apiclient.HTTPError
	if errors.As(err, &he) && he.StatusCode >= 400 && he.StatusCode < 500 {
		WriteError(w, r, he.StatusCode, "backend_rejected", he.Detail)
		return
	}
	var ne *apiclient.NetworkError
	if errors.As(err, &ne) {
		WriteError(w, r, http.StatusBadGateway, "backend_unreachable", err.Error())
		return
	}
	WriteError(w, r, http.StatusBadGateway, "backend_error", err.Error())
}
