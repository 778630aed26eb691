// internal/adapters/in/http/handlers/checkout_handler.go
package handlers

import (
	"net/http"
	"strings"

	usecase "localix/internal/application/usecase"
	customerdom "localix/internal/domain/customer"
	orderdom "localix/internal/domain/order"
	saledom "localix/internal/domain/sale"
)

// CheckoutHandler serves POST /checkout, the single entry point that creates
// a sale, its stock movements, and the tracking order.
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) http.Handler {
	return &CheckoutHandler{uc: uc}
}

type checkoutLineReq struct {
	ProductID    string  `json:"productId"`
	VariantID    *string `json:"variantId,omitempty"`
	ColorID      *string `json:"colorId,omitempty"`
	Quantity     int     `json:"quantity"`
	LineDiscount int64   `json:"lineDiscount,omitempty"`
}

type checkoutCustomerReq struct {
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	DocumentType   string `json:"documentType,omitempty"`
	DocumentNumber string `json:"documentNumber,omitempty"`
	Address        string `json:"address,omitempty"`
}

type checkoutReq struct {
	OwnerID      string               `json:"ownerId"`
	CustomerID   *string              `json:"customerId,omitempty"`
	NewCustomer  *checkoutCustomerReq `json:"newCustomer,omitempty"`
	CustomerName string               `json:"customerName,omitempty"`

	Lines           []checkoutLineReq `json:"lines"`
	DiscountPercent float64           `json:"discountPercent,omitempty"`
	PaymentMethod   string            `json:"paymentMethod"`
	Seller          string            `json:"seller,omitempty"`
	Notes           string            `json:"notes,omitempty"`

	Channel string `json:"channel"`
	Layaway bool   `json:"layaway,omitempty"`

	DeliveryAddress      string `json:"deliveryAddress,omitempty"`
	ContactPhone         string `json:"contactPhone,omitempty"`
	DeliveryInstructions string `json:"deliveryInstructions,omitempty"`
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost || strings.TrimSuffix(r.URL.Path, "/") != "/checkout" {
		notFound(w)
		return
	}

	var req checkoutReq
	if !decodeJSON(w, r, &req) {
		return
	}

	in := usecase.CheckoutInput{
		OwnerID:              req.OwnerID,
		CustomerID:           req.CustomerID,
		CustomerName:         req.CustomerName,
		DiscountPercent:      req.DiscountPercent,
		PaymentMethod:        saledom.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
		Seller:               req.Seller,
		Notes:                req.Notes,
		Channel:              orderdom.Channel(strings.ToLower(strings.TrimSpace(req.Channel))),
		Layaway:              req.Layaway,
		DeliveryAddress:      req.DeliveryAddress,
		ContactPhone:         req.ContactPhone,
		DeliveryInstructions: req.DeliveryInstructions,
	}
	if req.NewCustomer != nil {
		in.NewCustomer = &usecase.QuickCustomerInput{
			Name:           req.NewCustomer.Name,
			Email:          req.NewCustomer.Email,
			Phone:          req.NewCustomer.Phone,
			DocumentType:   customerdom.DocumentType(strings.ToLower(strings.TrimSpace(req.NewCustomer.DocumentType))),
			DocumentNumber: req.NewCustomer.DocumentNumber,
			Address:        req.NewCustomer.Address,
		}
	}
	for _, l := range req.Lines {
		in.Lines = append(in.Lines, usecase.CheckoutLine{
			ProductID:    l.ProductID,
			VariantID:    l.VariantID,
			ColorID:      l.ColorID,
			Quantity:     l.Quantity,
			LineDiscount: l.LineDiscount,
		})
	}

	res, err := h.uc.Checkout(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"sale":  res.Sale,
		"order": res.Order,
	})
}
