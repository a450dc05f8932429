package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/canela-app/canela/internal/errs"
)

// envelope is the standard API response wrapper used across handlers.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Code: status, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, message, nil)
}

// writeServiceError maps service sentinels to HTTP statuses. Everything the
// service layer can signal becomes a user-visible message here; nothing is
// retried automatically.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, errs.ErrAlreadyOwned):
		writeError(w, http.StatusConflict, "costume already owned")
	case errors.Is(err, errs.ErrAliasTaken):
		writeError(w, http.StatusConflict, "that alias is already taken")
	case errors.Is(err, errs.ErrInsufficientFunds):
		writeError(w, http.StatusPaymentRequired, "not enough coins")
	case errors.Is(err, errs.ErrDataUnavailable):
		writeError(w, http.StatusServiceUnavailable, "task library unavailable, try again")
	case errors.Is(err, errs.ErrPurchaseFailed):
		writeError(w, http.StatusInternalServerError, "purchase failed, try again")
	case errors.Is(err, errs.ErrCategoryLookup):
		writeError(w, http.StatusInternalServerError, "could not resolve costume category")
	default:
		writeError(w, http.StatusInternalServerError, "something went wrong")
	}
}
