package httpapi

import (
    "errors"
    "net/http"

    "github.com/fintrack/fintrackd/internal/errs"
)

// errorResponse is the uniform error payload.
type errorResponse struct {
    Error string `json:"error"`
    Code  string `json:"code"`
}

// Machine-readable error codes carried next to the human message.
const (
    codeValidation    = "validation_error"
    codeNoActiveCycle = "no_active_cycle"
    codeNotFound      = "not_found"
    codeStore         = "store_error"
)

// writeErr emits the uniform error payload.
func writeErr(w http.ResponseWriter, status int, msg, code string) {
    toJSON(w, status, errorResponse{Error: msg, Code: code})
}

// respondErr maps service errors onto HTTP statuses and error codes.
func (s *Server) respondErr(w http.ResponseWriter, err error) {
    switch {
    case errors.Is(err, errs.ErrInvalid):
        writeErr(w, http.StatusBadRequest, err.Error(), codeValidation)
    case errors.Is(err, errs.ErrNoActiveCycle):
        writeErr(w, http.StatusNotFound, err.Error(), codeNoActiveCycle)
    case errors.Is(err, errs.ErrNotFound):
        writeErr(w, http.StatusNotFound, err.Error(), codeNotFound)
    case errors.Is(err, errs.ErrConflict):
        writeErr(w, http.StatusConflict, err.Error(), codeStore)
    default:
        s.log.Error("request failed", "error", err)
        writeErr(w, http.StatusInternalServerError, "internal error", codeStore)
    }
}
