package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zentraxx/storefront/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeMissingRequiredField = "missing_required_field"
	codeInvalidQuantity      = "invalid_quantity"
	codeInvalidAmount        = "invalid_amount"
	codeInvalidID            = "invalid_id"
	codeInvalidReference     = "invalid_reference"
	codeProofRequired        = "proof_required"
	codeAccountNotFound      = "account_not_found"
	codeProductNotFound      = "product_not_found"
	codeOrderNotFound        = "order_not_found"
	codeProductUnavailable   = "product_unavailable"
	codeInsufficientStock    = "insufficient_stock"
	codeInsufficientFunds    = "insufficient_funds"
	codeDuplicateReference   = "duplicate_reference"
	codeDuplicateProof       = "duplicate_proof"
	codeChannelDisabled      = "channel_disabled"
	codeOrderNotPending      = "order_not_pending"
	codeOrderNotSubmitted    = "order_not_submitted"
	codeOrderNotCompleted    = "order_not_completed"
	codeAlreadyCompleted     = "already_completed"
	codeForbidden            = "forbidden"
	codeBusy                 = "busy"
	codeStorageFailure       = "storage_failure"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps the settlement error taxonomy onto HTTP statuses.
// Busy is the only retryable kind and is surfaced as 503.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, codeInvalidAmount, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrInvalidReference):
		writeError(w, http.StatusBadRequest, codeInvalidReference, err.Error())
	case errors.Is(err, domain.ErrProofRequired):
		writeError(w, http.StatusBadRequest, codeProofRequired, err.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, codeAccountNotFound, err.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, codeProductNotFound, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
	case errors.Is(err, domain.ErrProductUnavailable):
		writeError(w, http.StatusConflict, codeProductUnavailable, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		writeError(w, http.StatusConflict, codeInsufficientStock, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeError(w, http.StatusConflict, codeInsufficientFunds, err.Error())
	case errors.Is(err, domain.ErrDuplicateReference):
		writeError(w, http.StatusConflict, codeDuplicateReference, err.Error())
	case errors.Is(err, domain.ErrDuplicateProof):
		writeError(w, http.StatusConflict, codeDuplicateProof, err.Error())
	case errors.Is(err, domain.ErrChannelDisabled):
		writeError(w, http.StatusConflict, codeChannelDisabled, err.Error())
	case errors.Is(err, domain.ErrOrderNotPending):
		writeError(w, http.StatusConflict, codeOrderNotPending, err.Error())
	case errors.Is(err, domain.ErrOrderNotSubmitted):
		writeError(w, http.StatusConflict, codeOrderNotSubmitted, err.Error())
	case errors.Is(err, domain.ErrOrderNotCompleted):
		writeError(w, http.StatusConflict, codeOrderNotCompleted, err.Error())
	case errors.Is(err, domain.ErrAlreadyCompleted):
		writeError(w, http.StatusConflict, codeAlreadyCompleted, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
	case errors.Is(err, domain.ErrBusy):
		writeError(w, http.StatusServiceUnavailable, codeBusy, err.Error())
	case errors.Is(err, domain.ErrStorage):
		writeError(w, http.StatusBadGateway, codeStorageFailure, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
