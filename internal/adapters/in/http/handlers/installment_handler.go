// internal/adapters/in/http/handlers/installment_handler.go
package handlers

import (
	"io"
	"net/http"
	"strings"

	usecase "localix/internal/application/usecase"
)

// 5 MiB cap on receipt uploads.
const maxReceiptBytes = 5 << 20

// InstallmentHandler serves /installments/{id} and its confirm/reject/receipt
// actions. Recording new installments happens on the order resource.
type InstallmentHandler struct {
	uc *usecase.InstallmentUsecase
}

func NewInstallmentHandler(uc *usecase.InstallmentUsecase) http.Handler {
	return &InstallmentHandler{uc: uc}
}

func (h *InstallmentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	rest := strings.TrimPrefix(r.URL.Path, "/installments/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case r.Method == http.MethodGet && len(parts) == 1 && parts[0] != "":
		h.get(w, r, parts[0])
	case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "confirm":
		h.confirm(w, r, parts[0])
	case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "reject":
		h.reject(w, r, parts[0])
	case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "cancel":
		h.cancel(w, r, parts[0])
	case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "receipt":
		h.receipt(w, r, parts[0])
	default:
		notFound(w)
	}
}

// GET /installments/{id}
func (h *InstallmentHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// POST /installments/{id}/confirm
func (h *InstallmentHandler) confirm(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.uc.Confirm(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// POST /installments/{id}/reject
func (h *InstallmentHandler) reject(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.uc.Reject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// POST /installments/{id}/cancel
func (h *InstallmentHandler) cancel(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.uc.Cancel(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// POST /installments/{id}/receipt  (multipart form, field "file")
func (h *InstallmentHandler) receipt(w http.ResponseWriter, r *http.Request, id string) {
	if err := r.ParseMultipartForm(maxReceiptBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxReceiptBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable file"})
		return
	}

	p, err := h.uc.AttachReceipt(r.Context(), id, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
