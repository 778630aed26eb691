// internal/adapters/in/http/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	usecase "localix/internal/application/usecase"
	catalogdom "localix/internal/domain/catalog"
	customerdom "localix/internal/domain/customer"
	installmentdom "localix/internal/domain/installment"
	orderdom "localix/internal/domain/order"
	saledom "localix/internal/domain/sale"
	stockdom "localix/internal/domain/stock"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	body := map[string]any{"error": err.Error()}

	// Insufficient stock reports the offending counter.
	var insuf *stockdom.InsufficientError
	if errors.As(err, &insuf) {
		body["target"] = insuf.Target.String()
		body["requested"] = insuf.Requested
		body["available"] = insuf.Available
	}

	writeJSON(w, statusOf(err), body)
}

// statusOf maps domain sentinels onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, saledom.ErrNotFound),
		errors.Is(err, orderdom.ErrNotFound),
		errors.Is(err, installmentdom.ErrNotFound),
		errors.Is(err, customerdom.ErrNotFound),
		errors.Is(err, catalogdom.ErrNotFound),
		errors.Is(err, catalogdom.ErrColorNotFound),
		errors.Is(err, catalogdom.ErrVariantNotFound),
		errors.Is(err, stockdom.ErrTargetNotFound):
		return http.StatusNotFound

	case errors.Is(err, stockdom.ErrInsufficientStock),
		errors.Is(err, saledom.ErrDuplicateLineItem),
		errors.Is(err, saledom.ErrConflict),
		errors.Is(err, orderdom.ErrConflict),
		errors.Is(err, orderdom.ErrInvalidTransition),
		errors.Is(err, orderdom.ErrTerminal),
		errors.Is(err, orderdom.ErrReconciliationFailure),
		errors.Is(err, installmentdom.ErrInvalidTransition),
		errors.Is(err, catalogdom.ErrConflict),
		errors.Is(err, usecase.ErrNotLayaway):
		return http.StatusConflict

	case errors.Is(err, stockdom.ErrInvalidSelection),
		errors.Is(err, stockdom.ErrInvalidQuantity),
		errors.Is(err, orderdom.ErrInvalidStatus),
		errors.Is(err, usecase.ErrCustomerRequired),
		errors.Is(err, usecase.ErrCustomerConflict):
		return http.StatusBadRequest
	}

	// Validation sentinels all share the "invalid" prefix convention; check a
	// representative set per package.
	for _, e := range []error{
		saledom.ErrInvalidID, saledom.ErrInvalidOwnerID, saledom.ErrInvalidCustomer,
		saledom.ErrInvalidStatus, saledom.ErrInvalidPaymentMethod, saledom.ErrInvalidDiscount,
		saledom.ErrNoLineItems, saledom.ErrInvalidQuantity,
		orderdom.ErrInvalidID, orderdom.ErrInvalidOwnerID, orderdom.ErrInvalidChannel,
		orderdom.ErrInvalidPaymentStatus, orderdom.ErrInvalidAmount,
		installmentdom.ErrInvalidID, installmentdom.ErrInvalidOrderRef, installmentdom.ErrInvalidAmount,
		installmentdom.ErrInvalidMethod, installmentdom.ErrInvalidStatus,
		customerdom.ErrInvalidID, customerdom.ErrInvalidOwnerID, customerdom.ErrInvalidName,
		customerdom.ErrInvalidDocumentType,
		catalogdom.ErrInvalidID, catalogdom.ErrInvalidOwnerID, catalogdom.ErrInvalidSKU,
		catalogdom.ErrInvalidName, catalogdom.ErrInvalidPrice, catalogdom.ErrInvalidStock,
	} {
		if errors.Is(err, e) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return false
	}
	return true
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
}
