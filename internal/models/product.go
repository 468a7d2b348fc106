package models

import "time"

// ProductStatus is the moderation / lifecycle state of a listing.
type ProductStatus string

const (
	StatusPending  ProductStatus = "pending"
	StatusVerified ProductStatus = "verified"
	StatusRejected ProductStatus = "rejected"
	StatusSold     ProductStatus = "sold"
)

func (s ProductStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected, StatusSold:
		return true
	}
	return false
}

// CanModerateTo reports whether an admin may move a listing from s to next.
// Only pending listings are moderatable: pending -> verified | rejected.
// A rejected listing cannot be resubmitted for review.
func (s ProductStatus) CanModerateTo(next ProductStatus) bool {
	return s == StatusPending && (next == StatusVerified || next == StatusRejected)
}

// Product matches the document stored in the products collection.
// Farmer identity fields are denormalized for display so listings render
// without a join against the accounts collection.
type Product struct {
	ID          string        `bson:"_id" json:"id"`
	FarmerID    string        `bson:"farmerID" json:"farmerId"`
	FarmerName  string        `bson:"farmerName" json:"farmerName"`
	FarmerPhone string        `bson:"farmerPhone" json:"farmerPhone"`
	Name        string        `bson:"name" json:"name"`
	Category    string        `bson:"category" json:"category"`
	Quantity    float64       `bson:"quantity" json:"quantity"`
	Unit        string        `bson:"unit" json:"unit"`
	Price       float64       `bson:"price" json:"price"`
	Description string        `bson:"description" json:"description"`
	Images      []string      `bson:"images" json:"images"`
	Location    Location      `bson:"location" json:"location"`
	Status      ProductStatus `bson:"status" json:"status"`
	Featured    bool          `bson:"featured" json:"featured"`
	UploadedAt  time.Time     `bson:"uploadedAt" json:"uploadedAt"`
}
