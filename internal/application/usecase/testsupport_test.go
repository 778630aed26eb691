// internal/application/usecase/testsupport_test.go
//
// Shared in-memory fakes for the usecase tests. WithTx on the fakes runs the
// callback directly; transactional atomicity is covered by the repository
// integration tests.
package usecase

import (
	"context"
	"fmt"
	"time"

	auditdom "localix/internal/domain/audit"
	catalogdom "localix/internal/domain/catalog"
	customerdom "localix/internal/domain/customer"
	installmentdom "localix/internal/domain/installment"
	orderdom "localix/internal/domain/order"
	saledom "localix/internal/domain/sale"
	stockdom "localix/internal/domain/stock"
)

var testNow = time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)

// seqIDs yields id-1, id-2, ... so tests can predict generated identifiers.
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// ========================================
// Stock counters
// ========================================

type memStock struct {
	stock    map[stockdom.Target]int
	reserved map[stockdom.Target]int
	sold     map[string]int
	children map[string][]stockdom.Target
}

func newMemStock() *memStock {
	return &memStock{
		stock:    make(map[stockdom.Target]int),
		reserved: make(map[stockdom.Target]int),
		sold:     make(map[string]int),
		children: make(map[string][]stockdom.Target),
	}
}

func (m *memStock) Debit(_ context.Context, t stockdom.Target, qty int, fromReserved bool) error {
	if fromReserved {
		if m.reserved[t] < qty || m.stock[t] < qty {
			return stockdom.Insufficient(t, qty, m.reserved[t])
		}
		m.reserved[t] -= qty
		m.stock[t] -= qty
		return nil
	}
	avail := m.stock[t] - m.reserved[t]
	if avail < qty {
		return stockdom.Insufficient(t, qty, avail)
	}
	m.stock[t] -= qty
	return nil
}

func (m *memStock) Reserve(_ context.Context, t stockdom.Target, qty int) error {
	avail := m.stock[t] - m.reserved[t]
	if avail < qty {
		return stockdom.Insufficient(t, qty, avail)
	}
	m.reserved[t] += qty
	return nil
}

func (m *memStock) Release(_ context.Context, t stockdom.Target, qty int) error {
	if m.reserved[t] < qty {
		return stockdom.Insufficient(t, qty, m.reserved[t])
	}
	m.reserved[t] -= qty
	return nil
}

func (m *memStock) Credit(_ context.Context, t stockdom.Target, qty int) error {
	m.stock[t] += qty
	return nil
}

func (m *memStock) ChildSums(_ context.Context, productID string) (int, int, bool, error) {
	kids := m.children[productID]
	if len(kids) == 0 {
		return 0, 0, false, nil
	}
	var colorSum, variantSum int
	for _, t := range kids {
		switch t.Kind {
		case stockdom.KindColor:
			colorSum += m.stock[t]
		case stockdom.KindVariant:
			variantSum += m.stock[t]
		}
	}
	return colorSum, variantSum, true, nil
}

func (m *memStock) SetItemStock(_ context.Context, productID string, total int) error {
	m.stock[stockdom.ItemTarget(productID)] = total
	return nil
}

func (m *memStock) AddUnitsSold(_ context.Context, productID string, qty int) error {
	m.sold[productID] += qty
	return nil
}

// ========================================
// Sale repository
// ========================================

type fakeSaleRepo struct {
	sales map[string]saledom.Sale
	seq   int64
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[string]saledom.Sale)}
}

func (r *fakeSaleRepo) GetByID(_ context.Context, id string) (*saledom.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, saledom.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSaleRepo) List(_ context.Context, _ saledom.Filter, _ saledom.Sort, page saledom.Page) (saledom.PageResult, error) {
	return saledom.PageResult{Page: page.Number, PerPage: page.PerPage}, nil
}

func (r *fakeSaleRepo) NextNumber(_ context.Context) (int64, error) {
	r.seq++
	return r.seq, nil
}

func (r *fakeSaleRepo) Create(_ context.Context, s saledom.Sale) (*saledom.Sale, error) {
	r.sales[s.ID] = s
	return &s, nil
}

func (r *fakeSaleRepo) UpdateStatus(_ context.Context, id string, status saledom.Status) error {
	s, ok := r.sales[id]
	if !ok {
		return saledom.ErrNotFound
	}
	s.Status = status
	r.sales[id] = s
	return nil
}

func (r *fakeSaleRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *fakeSaleRepo) Reset(_ context.Context) error {
	r.sales = make(map[string]saledom.Sale)
	r.seq = 0
	return nil
}

// ========================================
// Order repository
// ========================================

type fakeOrderRepo struct {
	orders  map[string]orderdom.Order
	history []orderdom.StatusHistory
	seq     int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]orderdom.Order)}
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*orderdom.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, orderdom.ErrNotFound
	}
	return &o, nil
}

func (r *fakeOrderRepo) List(_ context.Context, _ orderdom.Filter, _ orderdom.Sort, page orderdom.Page) (orderdom.PageResult, error) {
	return orderdom.PageResult{Page: page.Number, PerPage: page.PerPage}, nil
}

func (r *fakeOrderRepo) Summarize(_ context.Context, ownerID string) (orderdom.Summary, error) {
	var s orderdom.Summary
	for _, o := range r.orders {
		if o.OwnerID != ownerID {
			continue
		}
		s.Total++
		switch o.Status {
		case orderdom.StatusPending:
			s.Pending++
		case orderdom.StatusConfirmed, orderdom.StatusPreparing:
			s.InProcess++
		case orderdom.StatusShipped:
			s.Shipped++
		case orderdom.StatusDelivered:
			s.Delivered++
		case orderdom.StatusCancelled:
			s.Cancelled++
		case orderdom.StatusLayaway:
			s.Layaway++
		}
	}
	return s, nil
}

func (r *fakeOrderRepo) NextNumber(_ context.Context) (int64, error) {
	r.seq++
	return r.seq, nil
}

func (r *fakeOrderRepo) Create(_ context.Context, o orderdom.Order) (*orderdom.Order, error) {
	r.orders[o.ID] = o
	return &o, nil
}

func (r *fakeOrderRepo) Save(_ context.Context, o orderdom.Order) error {
	if _, ok := r.orders[o.ID]; !ok {
		return orderdom.ErrNotFound
	}
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) AppendHistory(_ context.Context, h orderdom.StatusHistory) error {
	for i := range r.history {
		if r.history[i].OrderID == h.OrderID {
			r.history[i].Active = false
		}
	}
	r.history = append(r.history, h)
	return nil
}

func (r *fakeOrderRepo) History(_ context.Context, orderID string) ([]orderdom.StatusHistory, error) {
	var out []orderdom.StatusHistory
	for _, h := range r.history {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *fakeOrderRepo) Reset(_ context.Context) error {
	r.orders = make(map[string]orderdom.Order)
	r.history = nil
	r.seq = 0
	return nil
}

// activeHistory returns the single active entry for the order, nil if none.
func (r *fakeOrderRepo) activeHistory(orderID string) *orderdom.StatusHistory {
	var found *orderdom.StatusHistory
	for i := range r.history {
		if r.history[i].OrderID == orderID && r.history[i].Active {
			h := r.history[i]
			if found != nil {
				panic("more than one active history entry for " + orderID)
			}
			found = &h
		}
	}
	return found
}

// ========================================
// Catalog repository
// ========================================

type fakeCatalogRepo struct {
	views map[string]catalogdom.ProductView
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{views: make(map[string]catalogdom.ProductView)}
}

func (r *fakeCatalogRepo) add(v catalogdom.ProductView) {
	r.views[v.Product.ID] = v
}

func (r *fakeCatalogRepo) GetByID(_ context.Context, id string) (*catalogdom.Product, error) {
	v, ok := r.views[id]
	if !ok {
		return nil, catalogdom.ErrNotFound
	}
	p := v.Product
	return &p, nil
}

func (r *fakeCatalogRepo) GetView(_ context.Context, id string) (*catalogdom.ProductView, error) {
	v, ok := r.views[id]
	if !ok {
		return nil, catalogdom.ErrNotFound
	}
	return &v, nil
}

func (r *fakeCatalogRepo) List(_ context.Context, _ catalogdom.Filter, _ catalogdom.Sort, page catalogdom.Page) (catalogdom.PageResult, error) {
	return catalogdom.PageResult{Page: page.Number, PerPage: page.PerPage}, nil
}

func (r *fakeCatalogRepo) Create(_ context.Context, p catalogdom.Product) (*catalogdom.Product, error) {
	r.views[p.ID] = catalogdom.ProductView{Product: p}
	return &p, nil
}

func (r *fakeCatalogRepo) CreateColor(_ context.Context, c catalogdom.ColorVariant) (*catalogdom.ColorVariant, error) {
	v := r.views[c.ProductID]
	v.Colors = append(v.Colors, c)
	r.views[c.ProductID] = v
	return &c, nil
}

func (r *fakeCatalogRepo) CreateVariant(_ context.Context, av catalogdom.AttributeVariant) (*catalogdom.AttributeVariant, error) {
	v := r.views[av.ProductID]
	v.Variants = append(v.Variants, av)
	r.views[av.ProductID] = v
	return &av, nil
}

func (r *fakeCatalogRepo) Reset(_ context.Context) error {
	r.views = make(map[string]catalogdom.ProductView)
	return nil
}

// ========================================
// Customer repository
// ========================================

type fakeCustomerRepo struct {
	customers map[string]customerdom.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]customerdom.Customer)}
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*customerdom.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, customerdom.ErrNotFound
	}
	return &c, nil
}

func (r *fakeCustomerRepo) List(_ context.Context, _ customerdom.Filter, page customerdom.Page) (customerdom.PageResult, error) {
	return customerdom.PageResult{Page: page.Number, PerPage: page.PerPage}, nil
}

func (r *fakeCustomerRepo) Create(_ context.Context, c customerdom.Customer) (*customerdom.Customer, error) {
	r.customers[c.ID] = c
	return &c, nil
}

func (r *fakeCustomerRepo) Reset(_ context.Context) error {
	r.customers = make(map[string]customerdom.Customer)
	return nil
}

// ========================================
// Installment repository
// ========================================

type fakeInstallmentRepo struct {
	items map[string]installmentdom.Installment
	ids   []string // insertion order
}

func newFakeInstallmentRepo() *fakeInstallmentRepo {
	return &fakeInstallmentRepo{items: make(map[string]installmentdom.Installment)}
}

func (r *fakeInstallmentRepo) GetByID(_ context.Context, id string) (*installmentdom.Installment, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, installmentdom.ErrNotFound
	}
	return &p, nil
}

func (r *fakeInstallmentRepo) ListByOrder(_ context.Context, orderID string) ([]installmentdom.Installment, error) {
	var out []installmentdom.Installment
	for _, id := range r.ids {
		if p := r.items[id]; p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeInstallmentRepo) Create(_ context.Context, p installmentdom.Installment) (*installmentdom.Installment, error) {
	r.items[p.ID] = p
	r.ids = append(r.ids, p.ID)
	return &p, nil
}

func (r *fakeInstallmentRepo) Save(_ context.Context, p installmentdom.Installment) error {
	if _, ok := r.items[p.ID]; !ok {
		return installmentdom.ErrNotFound
	}
	r.items[p.ID] = p
	return nil
}

func (r *fakeInstallmentRepo) SumConfirmed(_ context.Context, orderID string) (int64, error) {
	var sum int64
	for _, p := range r.items {
		if p.OrderID == orderID && p.Status == installmentdom.StatusConfirmed {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (r *fakeInstallmentRepo) Reset(_ context.Context) error {
	r.items = make(map[string]installmentdom.Installment)
	r.ids = nil
	return nil
}

// ========================================
// Outbound fakes
// ========================================

type recordingSink struct {
	events []auditdom.Event
}

func (s *recordingSink) Record(_ context.Context, e auditdom.Event) error {
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) has(action string) bool {
	for _, e := range s.events {
		if e.Action == action {
			return true
		}
	}
	return false
}

type fakeNotifier struct {
	shipped []string // recipients
	settled []string
}

func (n *fakeNotifier) OrderShipped(_ context.Context, _ orderdom.Order, recipient string) error {
	n.shipped = append(n.shipped, recipient)
	return nil
}

func (n *fakeNotifier) LayawaySettled(_ context.Context, _ orderdom.Order, recipient string) error {
	n.settled = append(n.settled, recipient)
	return nil
}

type fakeReceipts struct {
	objects map[string][]byte
}

func newFakeReceipts() *fakeReceipts {
	return &fakeReceipts{objects: make(map[string][]byte)}
}

func (r *fakeReceipts) Upload(_ context.Context, objectName, _ string, data []byte) (string, error) {
	r.objects[objectName] = data
	return "https://files.test/" + objectName, nil
}

// ========================================
// Fixture
// ========================================

type fixture struct {
	sales        *fakeSaleRepo
	orders       *fakeOrderRepo
	catalog      *fakeCatalogRepo
	customers    *fakeCustomerRepo
	installments *fakeInstallmentRepo
	stock        *memStock
	audit        *recordingSink
	notifier     *fakeNotifier
	receipts     *fakeReceipts

	checkout *CheckoutUsecase
	orderUC  *OrderUsecase
	instUC   *InstallmentUsecase
}

func newFixture() *fixture {
	f := &fixture{
		sales:        newFakeSaleRepo(),
		orders:       newFakeOrderRepo(),
		catalog:      newFakeCatalogRepo(),
		customers:    newFakeCustomerRepo(),
		installments: newFakeInstallmentRepo(),
		stock:        newMemStock(),
		audit:        &recordingSink{},
		notifier:     &fakeNotifier{},
		receipts:     newFakeReceipts(),
	}
	ledger := stockdom.NewLedger(f.stock)

	f.checkout = NewCheckoutUsecase(f.sales, f.orders, f.catalog, f.customers, ledger, f.audit)
	f.checkout.now = func() time.Time { return testNow }
	f.checkout.newID = seqIDs()

	f.orderUC = NewOrderUsecase(f.orders, f.sales, f.catalog, f.customers, ledger, f.audit, f.notifier)
	f.orderUC.now = func() time.Time { return testNow }
	f.orderUC.newID = seqIDs()

	f.instUC = NewInstallmentUsecase(f.installments, f.orders, f.sales, f.catalog, f.customers, ledger, f.receipts, f.audit, f.notifier)
	f.instUC.now = func() time.Time { return testNow }
	f.instUC.newID = seqIDs()

	return f
}

// addPlainProduct registers a tracked product whose own counter is authoritative.
func (f *fixture) addPlainProduct(id string, price int64, stock int) {
	f.catalog.add(catalogdom.ProductView{Product: catalogdom.Product{
		ID: id, OwnerID: "owner-1", SKU: "SKU-" + id, Name: "Product " + id,
		Price: price, TracksStock: true, Stock: stock,
	}})
	f.stock.stock[stockdom.ItemTarget(id)] = stock
}

// addColorProduct registers a product with one active color carrying the stock.
func (f *fixture) addColorProduct(id string, price int64, colorID string, stock int) {
	f.catalog.add(catalogdom.ProductView{
		Product: catalogdom.Product{
			ID: id, OwnerID: "owner-1", SKU: "SKU-" + id, Name: "Product " + id,
			Price: price, TracksStock: true, Stock: stock,
		},
		Colors: []catalogdom.ColorVariant{
			{ID: colorID, ProductID: id, Name: "Red", Stock: stock, Active: true},
		},
	})
	t := stockdom.ColorTarget(colorID)
	f.stock.stock[t] = stock
	f.stock.children[id] = append(f.stock.children[id], t)
	f.stock.stock[stockdom.ItemTarget(id)] = stock
}

// addVariantProduct registers a colorless product with one surcharged variant.
func (f *fixture) addVariantProduct(id string, price, extra int64, variantID string, stock int) {
	f.catalog.add(catalogdom.ProductView{
		Product: catalogdom.Product{
			ID: id, OwnerID: "owner-1", SKU: "SKU-" + id, Name: "Product " + id,
			Price: price, TracksStock: true, Stock: stock,
		},
		Variants: []catalogdom.AttributeVariant{
			{ID: variantID, ProductID: id, Name: "Size", Value: "M", PriceExtra: extra, Stock: stock},
		},
	})
	t := stockdom.VariantTarget(variantID)
	f.stock.stock[t] = stock
	f.stock.children[id] = append(f.stock.children[id], t)
	f.stock.stock[stockdom.ItemTarget(id)] = stock
}

// addServiceProduct registers an untracked product.
func (f *fixture) addServiceProduct(id string, price int64) {
	f.catalog.add(catalogdom.ProductView{Product: catalogdom.Product{
		ID: id, OwnerID: "owner-1", SKU: "SKU-" + id, Name: "Service " + id,
		Price: price, TracksStock: false,
	}})
}

// addCustomer seeds a directory record.
func (f *fixture) addCustomer(id, name, email string) {
	f.customers.customers[id] = customerdom.Customer{
		ID: id, OwnerID: "owner-1", Name: name, Email: email,
		DocumentType: customerdom.DocDNI, Active: true, CreatedAt: testNow,
	}
}
