// internal/adapter/directory/category.go

package directory

import (
	"strings"

	"sitefix/internal/domain/geo"
)

// categoryTypes maps the directory provider's free-text categories onto the
// closed BusinessType set. Unmapped categories fall through to TypeOther so
// ranking and scoring stay closed over a finite type set.
var categoryTypes = map[string]geo.BusinessType{
	"restaurant":       geo.TypeRestaurant,
	"fast_food":        geo.TypeRestaurant,
	"food":             geo.TypeRestaurant,
	"meal_takeaway":    geo.TypeRestaurant,
	"bar":              geo.TypeRestaurant,
	"cafe":             geo.TypeCafe,
	"coffee_shop":      geo.TypeCafe,
	"bakery":           geo.TypeCafe,
	"store":            geo.TypeRetail,
	"retail":           geo.TypeRetail,
	"shopping":         geo.TypeRetail,
	"clothing_store":   geo.TypeRetail,
	"electronics":      geo.TypeRetail,
	"supermarket":      geo.TypeGrocery,
	"grocery":          geo.TypeGrocery,
	"convenience":      geo.TypeGrocery,
	"pharmacy":         geo.TypePharmacy,
	"drugstore":        geo.TypePharmacy,
	"gas_station":      geo.TypeFuel,
	"fuel":             geo.TypeFuel,
	"charging_station": geo.TypeFuel,
	"gym":              geo.TypeFitness,
	"fitness":          geo.TypeFitness,
	"hotel":            geo.TypeLodging,
	"lodging":          geo.TypeLodging,
	"motel":            geo.TypeLodging,
	"bank":             geo.TypeServices,
	"laundry":          geo.TypeServices,
	"salon":            geo.TypeServices,
	"car_repair":       geo.TypeServices,
	"services":         geo.TypeServices,
}

// MapCategory maps a provider category string to a BusinessType
func MapCategory(category string) geo.BusinessType {
	normalized := strings.ToLower(strings.TrimSpace(category))
	normalized = strings.ReplaceAll(normalized, " ", "_")

	if t, ok := categoryTypes[normalized]; ok {
		return t
	}

	return geo.TypeOther
}
