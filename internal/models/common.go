package models

// Location is a structured object holding a geographic position plus the
// human-readable address it was resolved from.
type Location struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
	Address   string  `bson:"address" json:"address"`
	Town      string  `bson:"town,omitempty" json:"town,omitempty"`
}

// Product categories offered on the marketplace.
const (
	CategoryVegetables = "vegetables"
	CategoryFruits     = "fruits"
	CategoryGrains     = "grains"
	CategoryDairy      = "dairy"
	CategoryPulses     = "pulses"
	CategorySpices     = "spices"
	CategoryHoney      = "honey"
	CategoryEggs       = "eggs"
	CategoryFlowers    = "flowers"
	CategoryOther      = "other"
)

var productCategories = map[string]bool{
	CategoryVegetables: true,
	CategoryFruits:     true,
	CategoryGrains:     true,
	CategoryDairy:      true,
	CategoryPulses:     true,
	CategorySpices:     true,
	CategoryHoney:      true,
	CategoryEggs:       true,
	CategoryFlowers:    true,
	CategoryOther:      true,
}

// IsValidCategory reports whether tag is one of the marketplace category tags.
func IsValidCategory(tag string) bool {
	return productCategories[tag]
}

var quantityUnits = map[string]bool{
	"kg":    true,
	"gram":  true,
	"liter": true,
	"ml":    true,
	"dozen": true,
	"piece": true,
	"bunch": true,
	"bag":   true,
}

// IsValidUnit reports whether unit is a recognised quantity unit.
func IsValidUnit(unit string) bool {
	return quantityUnits[unit]
}
