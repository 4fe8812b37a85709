package services

import "cafe-jampot/models"

// MenuFilter is the storefront view state: one category (or the "all"
// sentinel), a dietary filter, a free-text search query and the current
// stock map.
type MenuFilter struct {
	Category string
	Veg      models.VegFilter
	Query    string
	Stock    models.StockMap
}

// FilterItems returns the visible slice of items for the filter, preserving
// the input order. Stages run in a fixed order: stock gate, category,
// fuzzy search, veg.
func FilterItems(items []models.MenuItem, f MenuFilter) []models.MenuItem {
	out := make([]models.MenuItem, 0, len(items))
	for _, it := range items {
		if avail, ok := f.Stock[it.ID]; ok && !avail {
			continue
		}
		if f.Category != "" && f.Category != models.CategoryAll && it.Category != f.Category {
			continue
		}
		if !Matches(it.Name, f.Query) {
			continue
		}
		switch f.Veg {
		case models.VegFilterVeg:
			if !it.IsVeg {
				continue
			}
		case models.VegFilterNonVeg:
			if it.IsVeg {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

// CategorySection is one displayed menu section.
type CategorySection struct {
	Category models.MenuCategory `json:"category"`
	Items    []models.MenuItem   `json:"items"`
}

// GroupByCategory splits items into sections following the declared category
// order (the "all" sentinel carries no items and is skipped). Empty sections
// are dropped; within a section the input item order is preserved.
func GroupByCategory(items []models.MenuItem) []CategorySection {
	byCategory := make(map[string][]models.MenuItem, len(models.Categories))
	for _, it := range items {
		byCategory[it.Category] = append(byCategory[it.Category], it)
	}

	var sections []CategorySection
	for _, c := range models.Categories {
		if c.ID == models.CategoryAll {
			continue
		}
		if group := byCategory[c.ID]; len(group) > 0 {
			sections = append(sections, CategorySection{Category: c, Items: group})
		}
	}
	return sections
}
