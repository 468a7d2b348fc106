package market

import (
	"context"
	"fmt"
	"testing"
	"time"

	"agri-marketplace-api-server/internal/catalog"
	"agri-marketplace-api-server/internal/models"
	"agri-marketplace-api-server/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	chandigarh = models.Location{Latitude: 30.7333, Longitude: 76.7794, Address: "Chandigarh, Punjab"}
	jaipur     = models.Location{Latitude: 26.9124, Longitude: 75.7873, Address: "Jaipur, Rajasthan"}
	bangalore  = models.Location{Latitude: 12.9716, Longitude: 77.5946, Address: "Bangalore, Karnataka"}
)

type fixture struct {
	svc    *catalog.Service
	engine *Engine
	ctx    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	svc := catalog.NewService(memstore.NewCatalog(), zap.NewNop())
	return &fixture{svc: svc, engine: NewEngine(svc), ctx: context.Background()}
}

// addProduct creates a listing and optionally verifies it.
func (f *fixture) addProduct(t *testing.T, name, category string, price float64, loc models.Location, verify bool) *models.Product {
	t.Helper()
	farmer := &models.Account{
		ID:       "farmer-" + name,
		Name:     "Grower of " + name,
		Mobile:   "9876543210",
		Role:     models.RoleFarmer,
		Location: loc,
	}
	p, err := f.svc.Create(f.ctx, farmer, catalog.CreateInput{
		Name:        name,
		Category:    category,
		Quantity:    50,
		Unit:        "kg",
		Price:       price,
		Description: fmt.Sprintf("Farm fresh %s straight from the field.", name),
		Images:      []string{"https://example.com/" + name + ".jpg"},
	})
	require.NoError(t, err)
	if verify {
		_, err = f.svc.SetStatus(f.ctx, p.ID, models.StatusVerified)
		require.NoError(t, err)
	}
	return p
}

func TestSearchOnlyReturnsVerified(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "Tomatoes", models.CategoryVegetables, 45, chandigarh, true)
	pending := f.addProduct(t, "Spinach", models.CategoryVegetables, 30, chandigarh, false)
	rejected := f.addProduct(t, "Okra", models.CategoryVegetables, 35, chandigarh, false)
	_, err := f.svc.SetStatus(f.ctx, rejected.ID, models.StatusRejected)
	require.NoError(t, err)

	results, err := f.engine.Search(f.ctx, chandigarh, Filters{})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "Tomatoes", results[0].Name)
	for _, r := range results {
		assert.NotEqual(t, pending.ID, r.ID)
		assert.Equal(t, models.StatusVerified, r.Status)
	}
}

func TestSearchVerifiedAppears(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Tomatoes", models.CategoryVegetables, 45, chandigarh, false)

	results, err := f.engine.Search(f.ctx, chandigarh, Filters{})
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = f.svc.SetStatus(f.ctx, p.ID, models.StatusVerified)
	require.NoError(t, err)

	maxDist := 50.0
	results, err = f.engine.Search(f.ctx, chandigarh, Filters{MaxDistanceKm: &maxDist})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, p.ID, results[0].ID)
}

func TestSearchFreeTextMatchesNameDescriptionFarmer(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "Basmati Rice", models.CategoryGrains, 120, chandigarh, true)
	f.addProduct(t, "Tomatoes", models.CategoryVegetables, 45, chandigarh, true)

	byName, err := f.engine.Search(f.ctx, chandigarh, Filters{Query: "BASMATI"})
	require.NoError(t, err)
	require.Len(t, byName, 1)

	byDescription, err := f.engine.Search(f.ctx, chandigarh, Filters{Query: "farm fresh tomatoes"})
	require.NoError(t, err)
	require.Len(t, byDescription, 1)
	assert.Equal(t, "Tomatoes", byDescription[0].Name)

	byFarmer, err := f.engine.Search(f.ctx, chandigarh, Filters{Query: "grower of basmati"})
	require.NoError(t, err)
	require.Len(t, byFarmer, 1)
	assert.Equal(t, "Basmati Rice", byFarmer[0].Name)

	none, err := f.engine.Search(f.ctx, chandigarh, Filters{Query: "mangoes"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchCategoryFilter(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "Tomatoes", models.CategoryVegetables, 45, chandigarh, true)
	f.addProduct(t, "Basmati Rice", models.CategoryGrains, 120, chandigarh, true)

	grains, err := f.engine.Search(f.ctx, chandigarh, Filters{Category: models.CategoryGrains})
	require.NoError(t, err)
	require.Len(t, grains, 1)
	assert.Equal(t, "Basmati Rice", grains[0].Name)

	all, err := f.engine.Search(f.ctx, chandigarh, Filters{Category: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSearchPriceRangeInclusive(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "Tomatoes", models.CategoryVegetables, 45, chandigarh, true)
	f.addProduct(t, "Basmati Rice", models.CategoryGrains, 120, chandigarh, true)

	min, max := 45.0, 45.0
	results, err := f.engine.Search(f.ctx, chandigarh, Filters{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Tomatoes", results[0].Name)
}

func TestSearchMaxDistanceExcludesFarProducts(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "Tomatoes", models.CategoryVegetables, 45, chandigarh, true)
	f.addProduct(t, "Coffee", models.CategoryOther, 400, bangalore, true)

	maxDist := 100.0
	near, err := f.engine.Search(f.ctx, chandigarh, Filters{MaxDistanceKm: &maxDist})
	require.NoError(t, err)
	require.Len(t, near, 1)
	assert.Equal(t, "Tomatoes", near[0].Name)
	assert.Less(t, near[0].DistanceKm, maxDist)

	// A viewer at the origin with a 1 km radius sees nothing listed at (10,10).
	far := f.addProduct(t, "Pepper", models.CategorySpices, 600, models.Location{Latitude: 10, Longitude: 10}, true)
	tight := 1.0
	results, err := f.engine.Search(f.ctx, models.Location{}, Filters{MaxDistanceKm: &tight})
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, far.ID, r.ID)
	}
}

func TestSearchNewestFirstAndLimit(t *testing.T) {
	f := newFixture(t)
	older := f.addProduct(t, "Tomatoes", models.CategoryVegetables, 45, jaipur, true)
	time.Sleep(5 * time.Millisecond)
	newer := f.addProduct(t, "Spinach", models.CategoryVegetables, 30, jaipur, true)

	results, err := f.engine.Search(f.ctx, jaipur, Filters{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, newer.ID, results[0].ID)
	assert.Equal(t, older.ID, results[1].ID)

	limited, err := f.engine.Search(f.ctx, jaipur, Filters{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, newer.ID, limited[0].ID)
}

func TestFeaturedDoesNotReorder(t *testing.T) {
	f := newFixture(t)
	older := f.addProduct(t, "Tomatoes", models.CategoryVegetables, 45, jaipur, true)
	time.Sleep(5 * time.Millisecond)
	newer := f.addProduct(t, "Spinach", models.CategoryVegetables, 30, jaipur, true)

	_, err := f.svc.SetFeatured(f.ctx, older.ID, true)
	require.NoError(t, err)

	results, err := f.engine.Search(f.ctx, jaipur, Filters{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, newer.ID, results[0].ID)
	assert.True(t, results[1].Featured)
}
