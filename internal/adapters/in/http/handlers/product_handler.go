// internal/adapters/in/http/handlers/product_handler.go
package handlers

import (
	"net/http"
	"strings"

	usecase "localix/internal/application/usecase"
	catalogdom "localix/internal/domain/catalog"
)

// ProductHandler serves catalog reads and the stock report.
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewProductHandler(uc *usecase.ProductUsecase) http.Handler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	rest := strings.TrimPrefix(r.URL.Path, "/products/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case r.Method == http.MethodGet && rest == "":
		h.list(w, r)
	case r.Method == http.MethodGet && len(parts) == 1 && parts[0] != "":
		h.get(w, r, parts[0])
	case r.Method == http.MethodGet && len(parts) == 2 && parts[1] == "stock":
		h.stock(w, r, parts[0])
	case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "recompute":
		h.recompute(w, r, parts[0])
	default:
		notFound(w)
	}
}

// GET /products/{id}
func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	view, err := h.uc.GetView(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GET /products/{id}/stock
func (h *ProductHandler) stock(w http.ResponseWriter, r *http.Request, id string) {
	report, err := h.uc.Stock(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// POST /products/{id}/recompute
func (h *ProductHandler) recompute(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.uc.RecomputeTotal(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /products/?ownerId=...&lowStock=true
func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := catalogdom.Filter{
		OwnerID: q.Get("ownerId"),
		SKU:     q.Get("sku"),
		Name:    q.Get("name"),
	}
	if v := q.Get("lowStock"); v == "true" {
		t := true
		filter.LowStock = &t
	}

	sort := catalogdom.Sort{
		Column: catalogdom.SortColumn(q.Get("sortBy")),
		Order:  catalogdom.SortOrder(q.Get("sortOrder")),
	}
	page := catalogdom.Page{
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
