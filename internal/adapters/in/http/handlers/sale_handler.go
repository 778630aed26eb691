// internal/adapters/in/http/handlers/sale_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	usecase "localix/internal/application/usecase"
	saledom "localix/internal/domain/sale"
)

// SaleHandler serves read access under /sales/.
type SaleHandler struct {
	uc *usecase.SaleUsecase
}

func NewSaleHandler(uc *usecase.SaleUsecase) http.Handler {
	return &SaleHandler{uc: uc}
}

func (h *SaleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	rest := strings.TrimPrefix(r.URL.Path, "/sales/")
	switch {
	case r.Method == http.MethodGet && rest == "":
		h.list(w, r)
	case r.Method == http.MethodGet && rest != "":
		h.get(w, r, rest)
	default:
		notFound(w)
	}
}

// GET /sales/{id}
func (h *SaleHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	s, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// GET /sales/?ownerId=...&status=...&page=1&perPage=50
func (h *SaleHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := saledom.Filter{
		OwnerID:    q.Get("ownerId"),
		Number:     q.Get("number"),
		CustomerID: q.Get("customerId"),
	}
	for _, s := range splitCSV(q.Get("status")) {
		filter.Statuses = append(filter.Statuses, saledom.Status(s))
	}

	sort := saledom.Sort{
		Column: saledom.SortColumn(q.Get("sortBy")),
		Order:  saledom.SortOrder(q.Get("sortOrder")),
	}
	page := saledom.Page{
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

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.ToLower(strings.TrimSpace(p)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
