// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"

	httpin "localix/internal/adapters/in/http"
	"localix/internal/adapters/in/http/middleware"
	fsadapter "localix/internal/adapters/out/firestore"
	"localix/internal/adapters/out/gcs"
	"localix/internal/adapters/out/mail"

	dbadapter "localix/internal/adapters/out/db"
	usecase "localix/internal/application/usecase"
	auditdom "localix/internal/domain/audit"
	stockdom "localix/internal/domain/stock"
	"localix/internal/infra/config"
	"localix/internal/infra/database"
	firestoreinfra "localix/internal/infra/firestore"
	"localix/internal/infra/secrets"
)

// Container wires the adapters into the usecases. Optional collaborators
// (Firestore, GCS, SendGrid, Firebase) degrade to nil and are skipped by the
// usecases; the database is mandatory.
type Container struct {
	Config *config.Config

	db *database.DB
	fs *firestoreinfra.ClientWrapper

	checkoutUC    *usecase.CheckoutUsecase
	saleUC        *usecase.SaleUsecase
	orderUC       *usecase.OrderUsecase
	installmentUC *usecase.InstallmentUsecase
	productUC     *usecase.ProductUsecase
	customerUC    *usecase.CustomerUsecase

	auth *middleware.AuthMiddleware
}

func NewContainer(ctx context.Context) (*Container, error) {
	cfg := config.Load()

	password := cfg.DBPassword
	if cfg.DBPasswordSecret != "" {
		resolved, err := secrets.Resolve(ctx, cfg.GCPProjectID, cfg.DBPasswordSecret)
		if err != nil {
			return nil, fmt.Errorf("di: resolve db password: %w", err)
		}
		password = resolved
		log.Printf("[di] db password resolved from secret manager")
	}

	db, err := database.NewConnection(cfg.DBHost, cfg.DBPort, cfg.DBUser, password, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("di: database: %w", err)
	}

	c := &Container{Config: cfg, db: db}

	// Repositories
	catalogRepo := dbadapter.NewCatalogRepositoryPG(db.Client)
	stockRepo := dbadapter.NewStockRepositoryPG(db.Client)
	saleRepo := dbadapter.NewSaleRepositoryPG(db.Client)
	orderRepo := dbadapter.NewOrderRepositoryPG(db.Client)
	installmentRepo := dbadapter.NewInstallmentRepositoryPG(db.Client)
	customerRepo := dbadapter.NewCustomerRepositoryPG(db.Client)

	ledger := stockdom.NewLedger(stockRepo)

	// Audit sink (optional)
	var sink auditdom.Sink
	if cfg.FirestoreProjectID != "" {
		fs, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.GCPCreds)
		if err != nil {
			log.Printf("[di] WARN: firestore unavailable, audit disabled: %v", err)
		} else {
			c.fs = fs
			sink = fsadapter.NewAuditSinkFS(fs.Client)
		}
	}

	// Receipt storage (optional)
	var receipts usecase.ReceiptStore
	if cfg.GCSBucket != "" {
		gcsClient, err := storage.NewClient(ctx)
		if err != nil {
			log.Printf("[di] WARN: gcs unavailable, receipt upload disabled: %v", err)
		} else {
			receipts = gcs.NewReceiptRepositoryGCS(gcsClient, cfg.GCSBucket)
		}
	}

	// Notifications (optional)
	var notifier usecase.Notifier
	if cfg.SendGridAPIKey != "" {
		notifier = mail.NewOrderMailer(mail.NewSendGridClient(cfg.SendGridAPIKey), cfg.MailFrom)
	}

	// Firebase auth (optional; requests pass unauthenticated without it)
	if cfg.FirebaseProjectID != "" {
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID})
		if err != nil {
			log.Printf("[di] WARN: firebase init failed, auth disabled: %v", err)
		} else if authClient, err := app.Auth(ctx); err != nil {
			log.Printf("[di] WARN: firebase auth client failed, auth disabled: %v", err)
		} else {
			c.auth = &middleware.AuthMiddleware{FirebaseAuth: authClient}
		}
	}

	// Usecases
	c.checkoutUC = usecase.NewCheckoutUsecase(saleRepo, orderRepo, catalogRepo, customerRepo, ledger, sink)
	c.saleUC = usecase.NewSaleUsecase(saleRepo)
	c.orderUC = usecase.NewOrderUsecase(orderRepo, saleRepo, catalogRepo, customerRepo, ledger, sink, notifier)
	c.installmentUC = usecase.NewInstallmentUsecase(installmentRepo, orderRepo, saleRepo, catalogRepo, customerRepo, ledger, receipts, sink, notifier)
	c.productUC = usecase.NewProductUsecase(catalogRepo, ledger)
	c.customerUC = usecase.NewCustomerUsecase(customerRepo)

	return c, nil
}

func (c *Container) RouterDeps() httpin.RouterDeps {
	return httpin.RouterDeps{
		CheckoutUC:    c.checkoutUC,
		SaleUC:        c.saleUC,
		OrderUC:       c.orderUC,
		InstallmentUC: c.installmentUC,
		ProductUC:     c.productUC,
		CustomerUC:    c.customerUC,
		Auth:          c.auth,
		AllowedOrigin: c.Config.AllowedOrigin,
	}
}

func (c *Container) Close() {
	if c.fs != nil {
		_ = c.fs.Close()
	}
	if c.db != nil {
		_ = c.db.Close()
	}
}
