package models

import "time"

// OrderStatus is the delivery state of a purchase. It advances externally
// (farmer confirms and delivers, consumer may cancel while pending); the
// ledger never advances it on its own.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// PartySnapshot captures the identity of a buyer or seller at checkout time.
// Orders snapshot by value so history stays stable if the account changes.
type PartySnapshot struct {
	AccountID string `bson:"accountID" json:"accountId"`
	Name      string `bson:"name" json:"name"`
	Phone     string `bson:"phone" json:"phone"`
}

// ProductSnapshot captures the display fields of the purchased listing.
type ProductSnapshot struct {
	ProductID string  `bson:"productID" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Image     string  `bson:"image" json:"image"`
	Unit      string  `bson:"unit" json:"unit"`
	UnitPrice float64 `bson:"unitPrice" json:"unitPrice"`
}

// Order matches the document stored in the orders collection.
// Amount is quantity times the unit price at checkout; the platform fee is
// charged once per checkout, not per order line.
type Order struct {
	ID              string          `bson:"_id" json:"id"`
	Product         ProductSnapshot `bson:"product" json:"product"`
	Consumer        PartySnapshot   `bson:"consumer" json:"consumer"`
	Farmer          PartySnapshot   `bson:"farmer" json:"farmer"`
	Quantity        float64         `bson:"quantity" json:"quantity"`
	Amount          float64         `bson:"amount" json:"amount"`
	Status          OrderStatus     `bson:"status" json:"status"`
	DeliveryAddress string          `bson:"deliveryAddress" json:"deliveryAddress"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
}
