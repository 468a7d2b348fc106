// Package mongostore implements the store interfaces on MongoDB.
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

// Catalog stores product listings in the "products" collection.
type Catalog struct {
	coll *mongo.Collection
}

func NewCatalog(db *mongo.Database) *Catalog {
	return &Catalog{coll: db.Collection("products")}
}

func (c *Catalog) Insert(ctx context.Context, p *models.Product) error {
	_, err := c.coll.InsertOne(ctx, p)
	return err
}

func (c *Catalog) Get(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.Wrap(apperr.ErrNotFound, "product %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Catalog) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "product %s", id)
	}
	return nil
}

func (c *Catalog) UpdateStatus(ctx context.Context, id string, status models.ProductStatus) error {
	return c.setField(ctx, id, "status", status)
}

func (c *Catalog) UpdateFeatured(ctx context.Context, id string, featured bool) error {
	return c.setField(ctx, id, "featured", featured)
}

func (c *Catalog) setField(ctx context.Context, id, field string, value interface{}) error {
	res, err := c.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "product %s", id)
	}
	return nil
}

// Decrement runs a single conditional pipeline update so that the quantity
// check, the subtraction and the flip to sold are one atomic document write.
func (c *Catalog) Decrement(ctx context.Context, id string, amount float64) (*models.Product, error) {
	filter := bson.M{
		"_id":      id,
		"status":   models.StatusVerified,
		"quantity": bson.M{"$gte": amount},
	}
	remaining := bson.M{"$subtract": bson.A{"$quantity", amount}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"quantity": bson.M{"$max": bson.A{0, remaining}},
			"status": bson.M{"$cond": bson.A{
				bson.M{"$lte": bson.A{remaining, 0}},
				models.StatusSold,
				"$status",
			}},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Product
	err := c.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either the listing does not exist or it cannot cover the amount.
		if _, getErr := c.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, apperr.Wrap(apperr.ErrInsufficientQuantity, "product %s cannot cover %v", id, amount)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Catalog) ListByOwner(ctx context.Context, farmerID string) ([]models.Product, error) {
	return c.list(ctx, bson.M{"farmerID": farmerID})
}

func (c *Catalog) ListByStatus(ctx context.Context, status models.ProductStatus) ([]models.Product, error) {
	return c.list(ctx, bson.M{"status": status})
}

func (c *Catalog) list(ctx context.Context, filter bson.M) ([]models.Product, error) {
	cursor, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}
