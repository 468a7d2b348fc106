package mongostore

import (
	"context"
	"errors"

	"agri-marketplace-api-server/internal/apperr"
	"agri-marketplace-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Accounts stores user accounts in the "accounts" collection. A unique index
// on mobile backs the one-account-per-number rule.
type Accounts struct {
	coll *mongo.Collection
}

func NewAccounts(ctx context.Context, db *mongo.Database) (*Accounts, error) {
	coll := db.Collection("accounts")
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "mobile", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &Accounts{coll: coll}, nil
}

func (a *Accounts) Insert(ctx context.Context, acct *models.Account) error {
	_, err := a.coll.InsertOne(ctx, acct)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Wrap(apperr.ErrDuplicateAccount, "mobile %s", acct.Mobile)
	}
	return err
}

func (a *Accounts) Get(ctx context.Context, id string) (*models.Account, error) {
	return a.findOne(ctx, bson.M{"_id": id})
}

func (a *Accounts) GetByMobile(ctx context.Context, mobile string) (*models.Account, error) {
	return a.findOne(ctx, bson.M{"mobile": mobile})
}

func (a *Accounts) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var acct models.Account
	err := a.coll.FindOne(ctx, filter).Decode(&acct)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.Wrap(apperr.ErrNotFound, "account")
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (a *Accounts) List(ctx context.Context) ([]models.Account, error) {
	cursor, err := a.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var accounts []models.Account
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	return accounts, nil
}
