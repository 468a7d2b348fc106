// Package orders is the purchase ledger. Checkout is all-or-nothing: either
// every cart line is validated, paid for and recorded, or nothing changes.
package orders

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"agri-marketplace-api-server/internal/apperr"
	"agri-marketplace-api-server/internal/catalog"
	"agri-marketplace-api-server/internal/models"
	"agri-marketplace-api-server/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlatformFeeRate is the flat fee charged once on the cart subtotal,
// rounded to the nearest integer currency unit.
const PlatformFeeRate = 0.02

// CartLine is one requested purchase at checkout.
type CartLine struct {
	ProductID string  `json:"productId"`
	Quantity  float64 `json:"quantity"`
}

// Receipt summarises a completed checkout. The platform fee is applied once
// per checkout; per-order amounts exclude it.
type Receipt struct {
	Orders      []models.Order `json:"orders"`
	Subtotal    float64        `json:"subtotal"`
	PlatformFee float64        `json:"platformFee"`
	Total       float64        `json:"total"`
}

// PaymentProcessor settles the checkout total. The ledger commits nothing
// until Charge returns nil.
type PaymentProcessor interface {
	Charge(ctx context.Context, accountID string, amount float64) error
}

// SimulatedProcessor stands in for a real gateway: it waits for the
// configured delay and succeeds, unless the context expires first.
type SimulatedProcessor struct {
	Delay time.Duration
}

func (p SimulatedProcessor) Charge(ctx context.Context, _ string, _ float64) error {
	select {
	case <-time.After(p.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ledger records purchases and drives product stock through the catalog.
type Ledger struct {
	catalog        *catalog.Service
	store          store.Orders
	payments       PaymentProcessor
	paymentTimeout time.Duration
	logger         *zap.Logger
}

func NewLedger(cat *catalog.Service, st store.Orders, payments PaymentProcessor, paymentTimeout time.Duration, logger *zap.Logger) *Ledger {
	return &Ledger{
		catalog:        cat,
		store:          st,
		payments:       payments,
		paymentTimeout: paymentTimeout,
		logger:         logger,
	}
}

// PlaceOrder checks out a cart. All products involved are locked for the
// duration, every line is validated before anything is committed, and the
// payment step runs under a bounded timeout. On any failure no order is
// written and no stock moves.
func (l *Ledger) PlaceOrder(ctx context.Context, consumer *models.Account, lines []CartLine, deliveryAddress string) (*Receipt, error) {
	if consumer.Role != models.RoleConsumer {
		return nil, apperr.Wrap(apperr.ErrPermissionDenied, "only consumers can place orders")
	}
	if len(lines) == 0 {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "cart is empty")
	}
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, apperr.Wrap(apperr.ErrInvalidInput, "quantity must be positive for product %s", line.ProductID)
		}
		ids = append(ids, line.ProductID)
	}
	if strings.TrimSpace(deliveryAddress) == "" {
		deliveryAddress = consumer.Location.Address
	}

	unlock := l.catalog.LockProducts(ids...)
	defer unlock()

	// Validate every line while holding the locks, so the later decrements
	// cannot fail halfway through. Demand is summed per product so that
	// duplicate lines for the same listing are checked against the combined
	// quantity, not each on its own.
	products := make([]*models.Product, len(lines))
	requested := make(map[string]float64, len(lines))
	var subtotal float64
	for i, line := range lines {
		p, err := l.catalog.Get(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		requested[p.ID] += line.Quantity
		if p.Status != models.StatusVerified || p.Quantity < requested[p.ID] {
			return nil, apperr.Wrap(apperr.ErrInsufficientQuantity, "product %s has %v %s available", p.ID, p.Quantity, p.Unit)
		}
		products[i] = p
		subtotal += line.Quantity * p.Price
	}

	fee := math.Round(subtotal * PlatformFeeRate)
	total := subtotal + fee

	payCtx, cancel := context.WithTimeout(ctx, l.paymentTimeout)
	defer cancel()
	if err := l.payments.Charge(payCtx, consumer.ID, total); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.Wrap(apperr.ErrPaymentTimeout, "charge of %v not settled within %s", total, l.paymentTimeout)
		}
		return nil, err
	}

	now := time.Now().UTC()
	receipt := &Receipt{Subtotal: subtotal, PlatformFee: fee, Total: total}
	for i, line := range lines {
		p := products[i]
		if _, err := l.catalog.DecrementHeld(ctx, p.ID, line.Quantity); err != nil {
			// The aggregated validation above should make this unreachable
			// while the lock is held.
			l.logger.Error("decrement failed after validation", zap.String("productID", p.ID), zap.Error(err))
			return nil, err
		}
		order := models.Order{
			ID: uuid.NewString(),
			Product: models.ProductSnapshot{
				ProductID: p.ID,
				Name:      p.Name,
				Image:     firstImage(p),
				Unit:      p.Unit,
				UnitPrice: p.Price,
			},
			Consumer:        models.PartySnapshot{AccountID: consumer.ID, Name: consumer.Name, Phone: consumer.Mobile},
			Farmer:          models.PartySnapshot{AccountID: p.FarmerID, Name: p.FarmerName, Phone: p.FarmerPhone},
			Quantity:        line.Quantity,
			Amount:          line.Quantity * p.Price,
			Status:          models.OrderPending,
			DeliveryAddress: deliveryAddress,
			CreatedAt:       now,
		}
		if err := l.store.Insert(ctx, &order); err != nil {
			return nil, err
		}
		receipt.Orders = append(receipt.Orders, order)
	}

	l.logger.Info("checkout completed",
		zap.String("consumerID", consumer.ID),
		zap.Int("lines", len(lines)),
		zap.Float64("total", total))
	return receipt, nil
}

// UpdateStatus advances an order's delivery state. The farmer confirms and
// delivers; the consumer may cancel while the order is still pending.
// Cancelling does not restock the listing.
func (l *Ledger) UpdateStatus(ctx context.Context, actor *models.Account, orderID string, next models.OrderStatus) (*models.Order, error) {
	if !next.IsValid() {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "unknown status %q", next)
	}
	ord, err := l.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	allowed := false
	switch {
	case actor.ID == ord.Farmer.AccountID:
		allowed = (ord.Status == models.OrderPending && next == models.OrderConfirmed) ||
			(ord.Status == models.OrderConfirmed && next == models.OrderDelivered)
	case actor.ID == ord.Consumer.AccountID:
		allowed = ord.Status == models.OrderPending && next == models.OrderCancelled
	default:
		return nil, apperr.Wrap(apperr.ErrPermissionDenied, "order %s does not involve account %s", orderID, actor.ID)
	}
	if !allowed {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "cannot move order from %s to %s", ord.Status, next)
	}

	if err := l.store.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, err
	}
	ord.Status = next
	return ord, nil
}

func (l *Ledger) Get(ctx context.Context, id string) (*models.Order, error) {
	return l.store.Get(ctx, id)
}

func (l *Ledger) ListByConsumer(ctx context.Context, accountID string) ([]models.Order, error) {
	return l.store.ListByConsumer(ctx, accountID)
}

func (l *Ledger) ListByFarmer(ctx context.Context, accountID string) ([]models.Order, error) {
	return l.store.ListByFarmer(ctx, accountID)
}

func firstImage(p *models.Product) string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}
