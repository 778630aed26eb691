// internal/adapters/in/http/handlers/order_handler.go
package handlers

import (
	"net/http"
	"strings"

	usecase "localix/internal/application/usecase"
	installmentdom "localix/internal/domain/installment"
	orderdom "localix/internal/domain/order"
)

// OrderHandler serves everything under /orders/: lifecycle, history, summary,
// and the order-scoped installment endpoints.
type OrderHandler struct {
	uc  *usecase.OrderUsecase
	ins *usecase.InstallmentUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase, ins *usecase.InstallmentUsecase) http.Handler {
	return &OrderHandler{uc: uc, ins: ins}
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	rest := strings.TrimPrefix(r.URL.Path, "/orders/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case r.Method == http.MethodGet && rest == "":
		h.list(w, r)
	case r.Method == http.MethodGet && len(parts) == 1 && parts[0] == "summary":
		h.summary(w, r)
	case r.Method == http.MethodGet && len(parts) == 1 && parts[0] != "":
		h.get(w, r, parts[0])
	case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "status":
		h.changeStatus(w, r, parts[0])
	case r.Method == http.MethodGet && len(parts) == 2 && parts[1] == "history":
		h.history(w, r, parts[0])
	case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "installments":
		h.recordInstallment(w, r, parts[0])
	case r.Method == http.MethodGet && len(parts) == 2 && parts[1] == "installments":
		h.listInstallments(w, r, parts[0])
	default:
		notFound(w)
	}
}

// GET /orders/{id}
func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	o, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// GET /orders/?ownerId=...&status=pending,layaway&page=1
func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := orderdom.Filter{
		OwnerID:    q.Get("ownerId"),
		Number:     q.Get("number"),
		CustomerID: q.Get("customerId"),
		Channel:    orderdom.Channel(strings.ToLower(q.Get("channel"))),
	}
	for _, s := range splitCSV(q.Get("status")) {
		filter.Statuses = append(filter.Statuses, orderdom.Status(s))
	}
	for _, s := range splitCSV(q.Get("paymentStatus")) {
		filter.PaymentStatus = append(filter.PaymentStatus, orderdom.PaymentStatus(s))
	}

	sort := orderdom.Sort{
		Column: orderdom.SortColumn(q.Get("sortBy")),
		Order:  orderdom.SortOrder(q.Get("sortOrder")),
	}
	page := orderdom.Page{
		Number:  atoiDefault(q.Get("page"), 0),
		PerPage: atoiDefault(q.Get("perPage"), 0),
	}

	res, err := h.uc.List(r.Context(), filter, sort, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /orders/summary?ownerId=...
func (h *OrderHandler) summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.uc.Summary(r.Context(), r.URL.Query().Get("ownerId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

type changeStatusReq struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// POST /orders/{id}/status
func (h *OrderHandler) changeStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req changeStatusReq
	if !decodeJSON(w, r, &req) {
		return
	}
	o, err := h.uc.ChangeStatus(r.Context(), id, req.Status, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// GET /orders/{id}/history
func (h *OrderHandler) history(w http.ResponseWriter, r *http.Request, id string) {
	entries, err := h.uc.History(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type recordInstallmentReq struct {
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
	Reference string `json:"reference,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Status    string `json:"status,omitempty"` // pending (default) or confirmed
}

// POST /orders/{id}/installments
func (h *OrderHandler) recordInstallment(w http.ResponseWriter, r *http.Request, orderID string) {
	var req recordInstallmentReq
	if !decodeJSON(w, r, &req) {
		return
	}

	status := installmentdom.Status(strings.ToLower(strings.TrimSpace(req.Status)))
	if status == "" {
		status = installmentdom.StatusPending
	}

	p, err := h.ins.Record(r.Context(), usecase.RecordInstallmentInput{
		OrderID:   orderID,
		Amount:    req.Amount,
		Method:    installmentdom.Method(strings.ToLower(strings.TrimSpace(req.Method))),
		Reference: req.Reference,
		Notes:     req.Notes,
		Status:    status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// GET /orders/{id}/installments
func (h *OrderHandler) listInstallments(w http.ResponseWriter, r *http.Request, orderID string) {
	items, err := h.ins.ListByOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
