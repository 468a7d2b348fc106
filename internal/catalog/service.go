// Package catalog owns the product listing lifecycle: creation, owner
// deletion, admin moderation and stock decrements at purchase time.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"agri-marketplace-api-server/internal/apperr"
	"agri-marketplace-api-server/internal/models"
	"agri-marketplace-api-server/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service wraps the catalog store with validation, the moderation state
// machine and per-product serialization of stock mutations.
type Service struct {
	store  store.Catalog
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(st store.Catalog, logger *zap.Logger) *Service {
	return &Service{
		store:  st,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// CreateInput carries the farmer-supplied listing fields.
type CreateInput struct {
	Name        string
	Category    string
	Quantity    float64
	Unit        string
	Price       float64
	Description string
	Images      []string
}

func (in CreateInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return apperr.Wrap(apperr.ErrInvalidInput, "name is required")
	case !models.IsValidCategory(in.Category):
		return apperr.Wrap(apperr.ErrInvalidInput, "unknown category %q", in.Category)
	case !models.IsValidUnit(in.Unit):
		return apperr.Wrap(apperr.ErrInvalidInput, "unknown unit %q", in.Unit)
	case strings.TrimSpace(in.Description) == "":
		return apperr.Wrap(apperr.ErrInvalidInput, "description is required")
	case in.Quantity < 0:
		return apperr.Wrap(apperr.ErrInvalidInput, "quantity must not be negative")
	case in.Price < 0:
		return apperr.Wrap(apperr.ErrInvalidInput, "price must not be negative")
	case len(in.Images) == 0:
		return apperr.Wrap(apperr.ErrInvalidInput, "at least one image is required")
	}
	return nil
}

// Create registers a new listing for owner. The listing starts pending and
// inherits the owner's location and display identity.
func (s *Service) Create(ctx context.Context, owner *models.Account, in CreateInput) (*models.Product, error) {
	if owner.Role != models.RoleFarmer {
		return nil, apperr.Wrap(apperr.ErrPermissionDenied, "only farmers can list products")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &models.Product{
		ID:          uuid.NewString(),
		FarmerID:    owner.ID,
		FarmerName:  owner.Name,
		FarmerPhone: owner.Mobile,
		Name:        strings.TrimSpace(in.Name),
		Category:    in.Category,
		Quantity:    in.Quantity,
		Unit:        in.Unit,
		Price:       in.Price,
		Description: strings.TrimSpace(in.Description),
		Images:      in.Images,
		Location:    owner.Location,
		Status:      models.StatusPending,
		UploadedAt:  time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("product listed",
		zap.String("productID", p.ID),
		zap.String("farmerID", p.FarmerID),
		zap.String("category", p.Category))
	return p, nil
}

// Delete removes a listing. Only the owning farmer may delete, and only
// while the listing is still pending; anything past moderation is immutable
// to the owner.
func (s *Service) Delete(ctx context.Context, id string, requester *models.Account) error {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.FarmerID != requester.ID {
		return apperr.Wrap(apperr.ErrPermissionDenied, "product %s is not owned by %s", id, requester.ID)
	}
	if p.Status != models.StatusPending {
		return apperr.Wrap(apperr.ErrPermissionDenied, "only pending products can be deleted")
	}
	return s.store.Delete(ctx, id)
}

// SetStatus applies an admin moderation decision. The only legal moves are
// pending -> verified and pending -> rejected.
func (s *Service) SetStatus(ctx context.Context, id string, next models.ProductStatus) (*models.Product, error) {
	unlock := s.LockProducts(id)
	defer unlock()

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Status.CanModerateTo(next) {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "cannot move product from %s to %s", p.Status, next)
	}
	if err := s.store.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	p.Status = next
	s.logger.Info("product moderated", zap.String("productID", id), zap.String("status", string(next)))
	return p, nil
}

// SetFeatured toggles the display-priority flag. Only verified listings can
// be featured; the flag never affects search ranking.
func (s *Service) SetFeatured(ctx context.Context, id string, featured bool) (*models.Product, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != models.StatusVerified {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "only verified products can be featured")
	}
	if err := s.store.UpdateFeatured(ctx, id, featured); err != nil {
		return nil, err
	}
	p.Featured = featured
	return p, nil
}

// Decrement takes amount units off a listing's stock. When stock reaches
// zero the listing flips to sold in the same update; an amount the stock
// cannot cover fails without touching the listing.
func (s *Service) Decrement(ctx context.Context, id string, amount float64) (*models.Product, error) {
	if amount <= 0 {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "decrement amount must be positive")
	}
	unlock := s.LockProducts(id)
	defer unlock()
	return s.store.Decrement(ctx, id, amount)
}

// DecrementHeld is Decrement for callers that already hold the product's
// lock via LockProducts, such as the order ledger during checkout.
func (s *Service) DecrementHeld(ctx context.Context, id string, amount float64) (*models.Product, error) {
	if amount <= 0 {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "decrement amount must be positive")
	}
	return s.store.Decrement(ctx, id, amount)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, farmerID string) ([]models.Product, error) {
	return s.store.ListByOwner(ctx, farmerID)
}

func (s *Service) ListByStatus(ctx context.Context, status models.ProductStatus) ([]models.Product, error) {
	if !status.IsValid() {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "unknown status %q", status)
	}
	return s.store.ListByStatus(ctx, status)
}

// LockProducts acquires the mutex of every listed product and returns the
// matching unlock. IDs are deduplicated and locked in sorted order so that
// two checkouts touching the same products can never deadlock.
func (s *Service) LockProducts(ids ...string) func() {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
		}
	}
	sort.Strings(uniq)

	locked := make([]*sync.Mutex, 0, len(uniq))
	for _, id := range uniq {
		mu := s.lockFor(id)
		mu.Lock()
		locked = append(locked, mu)
	}
	return func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].Unlock()
		}
	}
}

func (s *Service) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[id] = mu
	}
	return mu
}
