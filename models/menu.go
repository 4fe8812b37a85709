package models

// MenuItem is one orderable item. Price is in whole rupees. PriceSmall and
// PriceLarge are optional size variants (nil when the item has one size).
type MenuItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	PriceSmall  *int64 `json:"priceSmall,omitempty"`
	PriceLarge  *int64 `json:"priceLarge,omitempty"`
	Category    string `json:"category"`
	IsVeg       bool   `json:"isVeg"`
	IsAvailable bool   `json:"isAvailable"`
}

type MenuCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// CategoryAll is the sentinel category id meaning "no category filter".
const CategoryAll = "all"

// Categories is the fixed storefront category list. Slice order is display
// order; grouped menu output must iterate it, never a map.
var Categories = []MenuCategory{
	{ID: CategoryAll, Name: "All Items", Icon: "📋"},
	{ID: "quick-bites", Name: "Quick Bites", Icon: "🍟"},
	{ID: "eggy-pops", Name: "Eggy Pops", Icon: "🥚"},
	{ID: "sandwiches", Name: "Sandwiches", Icon: "🥪"},
	{ID: "pasta", Name: "Pasta", Icon: "🍝"},
	{ID: "chinese", Name: "Chinese", Icon: "🥡"},
	{ID: "fried-rice", Name: "Fried Rice", Icon: "🍚"},
	{ID: "mains", Name: "Mains", Icon: "🍛"},
	{ID: "soups", Name: "Soups", Icon: "🍲"},
	{ID: "winter-special", Name: "Winter Special", Icon: "❄️"},
	{ID: "fries", Name: "Fries", Icon: "🍟"},
	{ID: "cold-beverages", Name: "Cold Drinks", Icon: "🧊"},
	{ID: "hot-beverages", Name: "Hot Drinks", Icon: "☕"},
}

// VegFilter selects the dietary slice of the menu.
type VegFilter string

const (
	VegFilterAll    VegFilter = "all"
	VegFilterVeg    VegFilter = "veg"
	VegFilterNonVeg VegFilter = "non-veg"
)

// StockMap maps item id to availability. An absent id means available.
type StockMap map[string]bool
