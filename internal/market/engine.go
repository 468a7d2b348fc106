// Package market answers the consumer-facing question "what should this
// viewer see right now": verified listings narrowed by search, category,
// price and distance filters.
package market

import (
	"context"
	"sort"
	"strings"

	"agri-marketplace-api-server/internal/catalog"
	"agri-marketplace-api-server/internal/geo"
	"agri-marketplace-api-server/internal/models"
)

// DefaultLimit caps a search result when the caller does not ask for less.
const DefaultLimit = 100

// Filters narrows a marketplace search. Every field is optional and each
// set field only shrinks the result; the zero value matches everything.
type Filters struct {
	// Query is matched case-insensitively as a substring of the product
	// name, the description or the farmer name.
	Query string
	// Category restricts to one category tag. "" and "all" are no-ops.
	Category string
	// MinPrice / MaxPrice are inclusive bounds when non-nil.
	MinPrice *float64
	MaxPrice *float64
	// MaxDistanceKm is an inclusive great-circle bound from the viewer.
	MaxDistanceKm *float64
	// Limit caps the result size; 0 or anything above DefaultLimit falls
	// back to DefaultLimit.
	Limit int
}

// Result is a listing annotated with its distance from the viewer.
// Featured stays a display annotation and never reorders results.
type Result struct {
	models.Product
	DistanceKm float64 `json:"distanceKm"`
}

// Engine composes the catalog with the geo utility.
type Engine struct {
	catalog *catalog.Service
}

func NewEngine(cat *catalog.Service) *Engine {
	return &Engine{catalog: cat}
}

// Search returns verified listings matching the filters, most recently
// uploaded first. Listings in any other status are never returned.
func (e *Engine) Search(ctx context.Context, viewer models.Location, f Filters) ([]Result, error) {
	products, err := e.catalog.ListByStatus(ctx, models.StatusVerified)
	if err != nil {
		return nil, err
	}

	// Newest first, with the id as tiebreak to keep the order deterministic.
	sort.SliceStable(products, func(i, j int) bool {
		if !products[i].UploadedAt.Equal(products[j].UploadedAt) {
			return products[i].UploadedAt.After(products[j].UploadedAt)
		}
		return products[i].ID < products[j].ID
	})

	limit := f.Limit
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	results := []Result{}
	for _, p := range products {
		if !matchesQuery(&p, query) || !matchesCategory(&p, f.Category) || !matchesPrice(&p, f) {
			continue
		}
		dist := geo.DistanceKm(viewer.Latitude, viewer.Longitude, p.Location.Latitude, p.Location.Longitude)
		if f.MaxDistanceKm != nil && dist > *f.MaxDistanceKm {
			continue
		}
		results = append(results, Result{Product: p, DistanceKm: dist})
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

func matchesQuery(p *models.Product, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Description), query) ||
		strings.Contains(strings.ToLower(p.FarmerName), query)
}

func matchesCategory(p *models.Product, category string) bool {
	return category == "" || category == "all" || p.Category == category
}

func matchesPrice(p *models.Product, f Filters) bool {
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}
