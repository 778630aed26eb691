// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"localix/internal/adapters/in/http/handlers"
	"localix/internal/adapters/in/http/middleware"
	usecase "localix/internal/application/usecase"
)

// RouterDeps collects all usecases (and other dependencies) injected from main.go.
type RouterDeps struct {
	CheckoutUC    *usecase.CheckoutUsecase
	SaleUC        *usecase.SaleUsecase
	OrderUC       *usecase.OrderUsecase
	InstallmentUC *usecase.InstallmentUsecase
	ProductUC     *usecase.ProductUsecase
	CustomerUC    *usecase.CustomerUsecase

	// Auth is optional: when nil (local development) requests pass through
	// with an empty actor.
	Auth *middleware.AuthMiddleware

	AllowedOrigin string
}

// NewRouter sets up HTTP routing for all endpoints. The health check is
// always mounted and bypasses auth.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	if deps.CheckoutUC != nil {
		mux.Handle("/checkout", handlers.NewCheckoutHandler(deps.CheckoutUC))
	}
	if deps.SaleUC != nil {
		mux.Handle("/sales/", handlers.NewSaleHandler(deps.SaleUC))
	}
	if deps.OrderUC != nil && deps.InstallmentUC != nil {
		mux.Handle("/orders/", handlers.NewOrderHandler(deps.OrderUC, deps.InstallmentUC))
	}
	if deps.InstallmentUC != nil {
		mux.Handle("/installments/", handlers.NewInstallmentHandler(deps.InstallmentUC))
	}
	if deps.ProductUC != nil {
		mux.Handle("/products/", handlers.NewProductHandler(deps.ProductUC))
	}
	if deps.CustomerUC != nil {
		mux.Handle("/customers/", handlers.NewCustomerHandler(deps.CustomerUC))
	}

	var protected http.Handler = mux
	if deps.Auth != nil {
		protected = deps.Auth.Handler(mux)
	}

	// Health check (always on, unauthenticated)
	outer := http.NewServeMux()
	outer.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	outer.Handle("/", protected)

	return middleware.CORS(deps.AllowedOrigin)(outer)
}
