// Package accounts is the user directory: registration, credential checks
// and the seeded admin account.
package accounts

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"agri-marketplace-api-server/internal/apperr"
	"agri-marketplace-api-server/internal/auth"
	"agri-marketplace-api-server/internal/models"
	"agri-marketplace-api-server/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Directory wraps the account store with validation and password hashing.
type Directory struct {
	store  store.Accounts
	logger *zap.Logger
}

func NewDirectory(st store.Accounts, logger *zap.Logger) *Directory {
	return &Directory{store: st, logger: logger}
}

// RegisterInput carries the signup fields.
type RegisterInput struct {
	Name     string
	Mobile   string
	Password string
	Role     models.Role
	Location models.Location
}

// Register creates a farmer or consumer account. The mobile number must be
// exactly ten digits and unique; the password is stored as a bcrypt hash.
// Admin accounts are seeded at startup and cannot be registered.
func (d *Directory) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "name is required")
	}
	if !mobilePattern.MatchString(in.Mobile) {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "mobile must be exactly 10 digits")
	}
	if len(in.Password) < 6 {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "password must be at least 6 characters")
	}
	if in.Role != models.RoleFarmer && in.Role != models.RoleConsumer {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "role must be farmer or consumer")
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	acct := &models.Account{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Mobile:    in.Mobile,
		Password:  hashed,
		Role:      in.Role,
		Location:  in.Location,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.store.Insert(ctx, acct); err != nil {
		return nil, err
	}
	d.logger.Info("account registered", zap.String("accountID", acct.ID), zap.String("role", string(acct.Role)))
	return acct, nil
}

// Authenticate checks mobile and password and returns the matching account.
// Unknown numbers and wrong passwords fail identically.
func (d *Directory) Authenticate(ctx context.Context, mobile, password string) (*models.Account, error) {
	acct, err := d.store.GetByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Wrap(apperr.ErrInvalidCredentials, "mobile or password incorrect")
		}
		return nil, err
	}
	if !auth.CheckPasswordHash(password, acct.Password) {
		return nil, apperr.Wrap(apperr.ErrInvalidCredentials, "mobile or password incorrect")
	}
	return acct, nil
}

func (d *Directory) Get(ctx context.Context, id string) (*models.Account, error) {
	return d.store.Get(ctx, id)
}

func (d *Directory) List(ctx context.Context) ([]models.Account, error) {
	return d.store.List(ctx)
}

// SeedAdmin creates the bootstrap admin account on first run. The admin
// never goes through Register; it exists out-of-band, identified by the
// configured mobile number.
func (d *Directory) SeedAdmin(ctx context.Context, name, mobile, password string) error {
	if _, err := d.store.GetByMobile(ctx, mobile); err == nil {
		d.logger.Info("admin already exists, seeding skipped")
		return nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.Account{
		ID:        uuid.NewString(),
		Name:      name,
		Mobile:    mobile,
		Password:  hashed,
		Role:      models.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.store.Insert(ctx, admin); err != nil {
		return err
	}
	d.logger.Info("admin seeded", zap.String("accountID", admin.ID))
	return nil
}
