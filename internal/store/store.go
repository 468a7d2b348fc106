// Package store defines the persistence interfaces behind the catalog,
// order ledger and account directory. Nothing above this layer reaches into
// storage directly. Two implementations exist: mongostore for real
// deployments and memstore for tests and demo runs.
package store

import (
	"context"

	"agri-marketplace-api-server/internal/models"
)

// Catalog is the durable collection of product listings.
type Catalog interface {
	Insert(ctx context.Context, p *models.Product) error
	// Get fails with apperr.ErrNotFound when the id is unknown.
	Get(ctx context.Context, id string) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status models.ProductStatus) error
	UpdateFeatured(ctx context.Context, id string, featured bool) error
	// Decrement subtracts amount from the listing's quantity. It fails with
	// apperr.ErrInsufficientQuantity unless the listing is verified and holds
	// at least amount; when the remaining quantity reaches zero the status
	// flips to sold in the same update. The returned product reflects the
	// state after the decrement.
	Decrement(ctx context.Context, id string, amount float64) (*models.Product, error)
	ListByOwner(ctx context.Context, farmerID string) ([]models.Product, error)
	ListByStatus(ctx context.Context, status models.ProductStatus) ([]models.Product, error)
}

// Accounts is the durable collection of user accounts.
type Accounts interface {
	// Insert fails with apperr.ErrDuplicateAccount when the mobile number is
	// already registered.
	Insert(ctx context.Context, a *models.Account) error
	Get(ctx context.Context, id string) (*models.Account, error)
	GetByMobile(ctx context.Context, mobile string) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
}

// Orders is the durable ledger of purchases. Orders are immutable once
// written except for their status field.
type Orders interface {
	Insert(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	ListByConsumer(ctx context.Context, accountID string) ([]models.Order, error)
	ListByFarmer(ctx context.Context, accountID string) ([]models.Order, error)
}
