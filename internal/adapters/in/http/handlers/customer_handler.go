// internal/adapters/in/http/handlers/customer_handler.go
package handlers

import (
	"net/http"
	"strings"

	usecase "localix/internal/application/usecase"
	customerdom "localix/internal/domain/customer"
)

// CustomerHandler serves the customer directory: lookups and quick-create.
type CustomerHandler struct {
	uc *usecase.CustomerUsecase
}

func NewCustomerHandler(uc *usecase.CustomerUsecase) http.Handler {
	return &CustomerHandler{uc: uc}
}

func (h *CustomerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	rest := strings.TrimPrefix(r.URL.Path, "/customers/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case r.Method == http.MethodGet && rest == "":
		h.list(w, r)
	case r.Method == http.MethodPost && len(parts) == 1 && parts[0] == "quick":
		h.quick(w, r)
	case r.Method == http.MethodGet && len(parts) == 1 && parts[0] != "":
		h.get(w, r, parts[0])
	default:
		notFound(w)
	}
}

// GET /customers/{id}
func (h *CustomerHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	c, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GET /customers/?ownerId=...&name=...
func (h *CustomerHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := customerdom.Filter{
		OwnerID:        q.Get("ownerId"),
		Name:           q.Get("name"),
		Email:          q.Get("email"),
		DocumentNumber: q.Get("documentNumber"),
	}
	if v := q.Get("active"); v == "true" || v == "false" {
		b := v == "true"
		filter.Active = &b
	}
	page := customerdom.Page{
		Number:  atoiDefault(q.Get("page"), 0),
		PerPage: atoiDefault(q.Get("perPage"), 0),
	}

	res, err := h.uc.List(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type quickCustomerReq struct {
	OwnerID        string `json:"ownerId"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	DocumentType   string `json:"documentType,omitempty"`
	DocumentNumber string `json:"documentNumber,omitempty"`
	Address        string `json:"address,omitempty"`
}

// POST /customers/quick
func (h *CustomerHandler) quick(w http.ResponseWriter, r *http.Request) {
	var req quickCustomerReq
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.uc.QuickCreate(r.Context(), req.OwnerID, usecase.QuickCustomerInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		DocumentType:   customerdom.DocumentType(strings.ToLower(strings.TrimSpace(req.DocumentType))),
		DocumentNumber: req.DocumentNumber,
		Address:        req.Address,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
