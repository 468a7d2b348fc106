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

// Orders stores purchases in the "orders" collection.
type Orders struct {
	coll *mongo.Collection
}

func NewOrders(db *mongo.Database) *Orders {
	return &Orders{coll: db.Collection("orders")}
}

func (o *Orders) Insert(ctx context.Context, ord *models.Order) error {
	_, err := o.coll.InsertOne(ctx, ord)
	return err
}

func (o *Orders) Get(ctx context.Context, id string) (*models.Order, error) {
	var ord models.Order
	err := o.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ord)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.Wrap(apperr.ErrNotFound, "order %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

func (o *Orders) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	res, err := o.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "order %s", id)
	}
	return nil
}

func (o *Orders) ListByConsumer(ctx context.Context, accountID string) ([]models.Order, error) {
	return o.list(ctx, bson.M{"consumer.accountID": accountID})
}

func (o *Orders) ListByFarmer(ctx context.Context, accountID string) ([]models.Order, error) {
	return o.list(ctx, bson.M{"farmer.accountID": accountID})
}

func (o *Orders) list(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := o.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}
