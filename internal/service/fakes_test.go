package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/repository"
	"github.com/GTDGit/warung_api/internal/utils"
	"github.com/GTDGit/warung_api/pkg/telegram"
)

type fakeStores struct {
	byID map[string]*models.Store
}

func newFakeStores(stores ...*models.Store) *fakeStores {
	f := &fakeStores{byID: map[string]*models.Store{}}
	for _, s := range stores {
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeStores) GetByID(_ context.Context, id string) (*models.Store, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStores) ListWithOwnerChat(_ context.Context) ([]models.Store, error) {
	var out []models.Store
	for _, s := range f.byID {
		if s.TelegramChatID != nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeUsers struct {
	byEmail       map[string]*models.User
	registerCalls int
	registerErr   error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*models.User{}}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeUsers) RegisterOwner(_ context.Context, store *models.Store, user *models.User) error {
	f.registerCalls++
	if f.registerErr != nil {
		return f.registerErr
	}
	if _, taken := f.byEmail[user.Email]; taken {
		return utils.ErrEmailTaken
	}
	user.ID = uuid.NewString()
	store.ID = uuid.NewString()
	store.OwnerID = user.ID
	user.StoreID = store.ID
	f.byEmail[user.Email] = user
	return nil
}

type fakeCategories struct {
	items []models.Category
}

func (f *fakeCategories) ListByStore(_ context.Context, storeID string) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.items {
		if c.StoreID == storeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategories) GetByID(_ context.Context, storeID, id string) (*models.Category, error) {
	for _, c := range f.items {
		if c.ID == id && c.StoreID == storeID {
			cp := c
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeCategories) Create(_ context.Context, c *models.Category) error {
	for _, existing := range f.items {
		if existing.StoreID == c.StoreID && existing.Name == c.Name {
			return utils.ErrDuplicate
		}
	}
	c.ID = uuid.NewString()
	f.items = append(f.items, *c)
	return nil
}

type fakeProducts struct {
	inventory *fakeInventory
	created   []models.Product
}

func (f *fakeProducts) CreateWithInventory(_ context.Context, p *models.Product, item *models.InventoryItem) error {
	p.ID = uuid.NewString()
	item.ID = uuid.NewString()
	item.ProductID = p.ID
	item.StoreID = p.StoreID
	f.created = append(f.created, *p)
	if f.inventory != nil {
		row := *item
		row.ProductName = p.Name
		f.inventory.items = append(f.inventory.items, row)
	}
	return nil
}

type fakeInventory struct {
	mu    sync.Mutex
	items []models.InventoryItem
}

func (f *fakeInventory) ListByStore(_ context.Context, storeID string) ([]models.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.InventoryItem
	for _, it := range f.items {
		if it.StoreID == storeID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeInventory) GetByID(_ context.Context, storeID, id string) (*models.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.ID == id && it.StoreID == storeID {
			cp := it
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeInventory) ListByProductIDs(_ context.Context, storeID string, ids []string) ([]models.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []models.InventoryItem
	for _, it := range f.items {
		if it.StoreID == storeID && want[it.ProductID] {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeInventory) UpdateQuantity(_ context.Context, storeID, id string, q float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].StoreID == storeID {
			f.items[i].Quantity = q
			return nil
		}
	}
	return utils.ErrNotFound
}

type fakeOrders struct {
	mu         sync.Mutex
	orders     []models.Order
	items      map[string][]models.OrderItem
	inv        *fakeInventory
	customers  *fakeCustomers
	failGet    error
	failCreate error
}

func (f *fakeOrders) ListByStore(_ context.Context, storeID string, flt repository.OrderFilter) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.StoreID == storeID && (flt.Status == "" || o.Status == flt.Status) {
			out = append(out, o)
		}
	}
	if flt.Offset >= len(out) {
		return nil, nil
	}
	out = out[flt.Offset:]
	if flt.Limit > 0 && len(out) > flt.Limit {
		out = out[:flt.Limit]
	}
	return out, nil
}

func (f *fakeOrders) CountByStatus(_ context.Context, storeID string) (map[models.OrderStatus]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[models.OrderStatus]int{}
	for _, o := range f.orders {
		if o.StoreID == storeID {
			out[o.Status]++
		}
	}
	return out, nil
}

func (f *fakeOrders) ListSince(_ context.Context, storeID string, since time.Time) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.StoreID == storeID && !o.CreatedAt.Before(since) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) ListUnpaid(_ context.Context, storeID string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.StoreID == storeID && o.PaymentStatus == models.PaymentStatusUnpaid {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	for _, o := range f.orders {
		if o.ID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeOrders) UpdateStatus(_ context.Context, storeID, id string, from, to models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		o := &f.orders[i]
		if o.ID == id && o.StoreID == storeID && o.Status == from {
			o.Status = to
			return nil
		}
	}
	return utils.ErrNotFound
}

func (f *fakeOrders) UpdatePaymentStatus(_ context.Context, storeID, id string, p models.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID == id && f.orders[i].StoreID == storeID {
			f.orders[i].PaymentStatus = p
			return nil
		}
	}
	return utils.ErrNotFound
}

func (f *fakeOrders) CreateWithItems(_ context.Context, c *models.Customer, o *models.Order, items []models.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return f.failCreate
	}
	if f.inv != nil {
		f.inv.mu.Lock()
		defer f.inv.mu.Unlock()
		for _, it := range items {
			for i := range f.inv.items {
				if f.inv.items[i].ProductID == it.ProductID && f.inv.items[i].Quantity < it.Quantity {
					return utils.ErrInsufficientStock
				}
			}
		}
		for _, it := range items {
			for i := range f.inv.items {
				if f.inv.items[i].ProductID == it.ProductID {
					f.inv.items[i].Quantity -= it.Quantity
				}
			}
		}
	}
	customer := c
	if f.customers != nil {
		customer = f.customers.upsert(c)
	} else if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	o.ID = uuid.NewString()
	o.CustomerID = customer.ID
	o.CustomerName = customer.Name
	o.CustomerPhone = customer.Phone
	o.CreatedAt = time.Now()
	if f.items == nil {
		f.items = map[string][]models.OrderItem{}
	}
	for i := range items {
		items[i].OrderID = o.ID
	}
	f.items[o.ID] = items
	f.orders = append(f.orders, *o)
	return nil
}

func (f *fakeOrders) ListItems(_ context.Context, orderID string) ([]models.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.OrderItem(nil), f.items[orderID]...), nil
}

func (f *fakeOrders) status(id string) models.OrderStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID == id {
			return o.Status
		}
	}
	return ""
}

type fakeCustomers struct {
	items []models.Customer
}

func (f *fakeCustomers) ListByStore(_ context.Context, storeID string) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range f.items {
		if c.StoreID == storeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCustomers) GetByPhone(_ context.Context, storeID, phone string) (*models.Customer, error) {
	for _, c := range f.items {
		if c.StoreID == storeID && c.Phone == phone {
			cp := c
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeCustomers) upsert(c *models.Customer) *models.Customer {
	for i := range f.items {
		if f.items[i].StoreID == c.StoreID && f.items[i].Phone == c.Phone {
			cp := f.items[i]
			return &cp
		}
	}
	c.ID = uuid.NewString()
	f.items = append(f.items, *c)
	return c
}

type fakeTemplates struct {
	byStore map[string]string
}

func (f *fakeTemplates) GetByStore(_ context.Context, storeID string) (*models.MessageTemplate, error) {
	text, ok := f.byStore[storeID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &models.MessageTemplate{StoreID: storeID, TemplateText: text}, nil
}

func (f *fakeTemplates) Upsert(_ context.Context, storeID, text string) (*models.MessageTemplate, error) {
	if f.byStore == nil {
		f.byStore = map[string]string{}
	}
	f.byStore[storeID] = text
	return &models.MessageTemplate{StoreID: storeID, TemplateText: text}, nil
}

type fakeSummaries struct {
	created []models.DailySummary
}

func (f *fakeSummaries) Create(_ context.Context, s *models.DailySummary) error {
	f.created = append(f.created, *s)
	return nil
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []telegram.SendMessageRequest
	err  error
}

func (f *fakeMessenger) SendMessage(_ context.Context, req telegram.SendMessageRequest) (*telegram.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, req)
	return &telegram.Message{MessageID: int64(len(f.sent))}, nil
}

type fakeRevoker struct {
	revoked map[string]time.Duration
}

func (f *fakeRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if f.revoked == nil {
		f.revoked = map[string]time.Duration{}
	}
	f.revoked[jti] = ttl
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := f.revoked[jti]
	return ok, nil
}

type recordingEvents struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingEvents) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingEvents) NotifyOrderCreated(o *models.Order)        { r.add("order.created") }
func (r *recordingEvents) NotifyOrderStatusChanged(o *models.Order)  { r.add("order.status_changed") }
func (r *recordingEvents) NotifyOrderPaymentChanged(o *models.Order) { r.add("order.payment_changed") }
func (r *recordingEvents) NotifyInventoryUpdated(item *models.InventoryItem, low bool) {
	r.add("inventory.updated")
}

var errBotDown = errors.New("bot unavailable")

func strPtr(s string) *string { return &s }
