// Package memstore is an in-memory implementation of the store interfaces.
// It backs tests and --demo runs, standing in for the browser-local storage
// of the original prototype. All methods are safe for concurrent use.
package memstore

import (
	"context"
	"sort"
	"sync"

	"agri-marketplace-api-server/internal/apperr"
	"agri-marketplace-api-server/internal/models"
)

// Catalog is an in-memory store.Catalog.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]*models.Product
	order    []string // insertion order, for deterministic listings
}

func NewCatalog() *Catalog {
	return &Catalog{products: make(map[string]*models.Product)}
}

func (c *Catalog) Insert(_ context.Context, p *models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *p
	c.products[p.ID] = &cp
	c.order = append(c.order, p.ID)
	return nil
}

func (c *Catalog) Get(_ context.Context, id string) (*models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, "product %s", id)
	}
	cp := *p
	return &cp, nil
}

func (c *Catalog) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.products[id]; !ok {
		return apperr.Wrap(apperr.ErrNotFound, "product %s", id)
	}
	delete(c.products, id)
	for i, pid := range c.order {
		if pid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *Catalog) UpdateStatus(_ context.Context, id string, status models.ProductStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return apperr.Wrap(apperr.ErrNotFound, "product %s", id)
	}
	p.Status = status
	return nil
}

func (c *Catalog) UpdateFeatured(_ context.Context, id string, featured bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return apperr.Wrap(apperr.ErrNotFound, "product %s", id)
	}
	p.Featured = featured
	return nil
}

func (c *Catalog) Decrement(_ context.Context, id string, amount float64) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, "product %s", id)
	}
	if p.Status != models.StatusVerified || p.Quantity < amount {
		return nil, apperr.Wrap(apperr.ErrInsufficientQuantity, "product %s has %v, want %v", id, p.Quantity, amount)
	}
	p.Quantity -= amount
	if p.Quantity <= 0 {
		p.Quantity = 0
		p.Status = models.StatusSold
	}
	cp := *p
	return &cp, nil
}

func (c *Catalog) ListByOwner(_ context.Context, farmerID string) ([]models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.collect(func(p *models.Product) bool { return p.FarmerID == farmerID }), nil
}

func (c *Catalog) ListByStatus(_ context.Context, status models.ProductStatus) ([]models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.collect(func(p *models.Product) bool { return p.Status == status }), nil
}

// collect walks insertion order under the caller's lock.
func (c *Catalog) collect(keep func(*models.Product) bool) []models.Product {
	out := []models.Product{}
	for _, id := range c.order {
		if p, ok := c.products[id]; ok && keep(p) {
			out = append(out, *p)
		}
	}
	return out
}

// Accounts is an in-memory store.Accounts.
type Accounts struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
	byMobile map[string]string
	order    []string
}

func NewAccounts() *Accounts {
	return &Accounts{
		accounts: make(map[string]*models.Account),
		byMobile: make(map[string]string),
	}
}

func (a *Accounts) Insert(_ context.Context, acct *models.Account) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.byMobile[acct.Mobile]; ok {
		return apperr.Wrap(apperr.ErrDuplicateAccount, "mobile %s", acct.Mobile)
	}
	cp := *acct
	a.accounts[acct.ID] = &cp
	a.byMobile[acct.Mobile] = acct.ID
	a.order = append(a.order, acct.ID)
	return nil
}

func (a *Accounts) Get(_ context.Context, id string) (*models.Account, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	acct, ok := a.accounts[id]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, "account %s", id)
	}
	cp := *acct
	return &cp, nil
}

func (a *Accounts) GetByMobile(_ context.Context, mobile string) (*models.Account, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id, ok := a.byMobile[mobile]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, "mobile %s", mobile)
	}
	cp := *a.accounts[id]
	return &cp, nil
}

func (a *Accounts) List(_ context.Context) ([]models.Account, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := []models.Account{}
	for _, id := range a.order {
		out = append(out, *a.accounts[id])
	}
	return out, nil
}

// Orders is an in-memory store.Orders.
type Orders struct {
	mu     sync.RWMutex
	orders map[string]*models.Order
	seq    []string
}

func NewOrders() *Orders {
	return &Orders{orders: make(map[string]*models.Order)}
}

func (o *Orders) Insert(_ context.Context, ord *models.Order) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	cp := *ord
	o.orders[ord.ID] = &cp
	o.seq = append(o.seq, ord.ID)
	return nil
}

func (o *Orders) Get(_ context.Context, id string) (*models.Order, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	ord, ok := o.orders[id]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, "order %s", id)
	}
	cp := *ord
	return &cp, nil
}

func (o *Orders) UpdateStatus(_ context.Context, id string, status models.OrderStatus) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	ord, ok := o.orders[id]
	if !ok {
		return apperr.Wrap(apperr.ErrNotFound, "order %s", id)
	}
	ord.Status = status
	return nil
}

func (o *Orders) ListByConsumer(_ context.Context, accountID string) ([]models.Order, error) {
	return o.collect(func(ord *models.Order) bool { return ord.Consumer.AccountID == accountID }), nil
}

func (o *Orders) ListByFarmer(_ context.Context, accountID string) ([]models.Order, error) {
	return o.collect(func(ord *models.Order) bool { return ord.Farmer.AccountID == accountID }), nil
}

// collect returns matching orders newest first.
func (o *Orders) collect(keep func(*models.Order) bool) []models.Order {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := []models.Order{}
	for _, id := range o.seq {
		if ord, ok := o.orders[id]; ok && keep(ord) {
			out = append(out, *ord)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
