package services

import (
	"context"

	"cafe-jampot/db"
	"cafe-jampot/models"
)

// ListMenuItems returns items with is_available = true, ordered by name.
func ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return queryMenuItems(ctx, `
		SELECT id, name, price, price_small, price_large, category, is_veg, is_available
		FROM menu_items
		WHERE is_available = true
		ORDER BY name`)
}

// ListAllMenuItems returns every item regardless of availability (admin use).
func ListAllMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return queryMenuItems(ctx, `
		SELECT id, name, price, price_small, price_large, category, is_veg, is_available
		FROM menu_items
		ORDER BY name`)
}

func queryMenuItems(ctx context.Context, sql string) ([]models.MenuItem, error) {
	rows, err := db.Pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var it models.MenuItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.PriceSmall, &it.PriceLarge, &it.Category, &it.IsVeg, &it.IsAvailable); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetMenuItem returns one item by id, or pgx.ErrNoRows.
func GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var it models.MenuItem
	it.ID = id
	err := db.Pool.QueryRow(ctx, `
		SELECT name, price, price_small, price_large, category, is_veg, is_available
		FROM menu_items WHERE id = $1`, id,
	).Scan(&it.Name, &it.Price, &it.PriceSmall, &it.PriceLarge, &it.Category, &it.IsVeg, &it.IsAvailable)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// CategoryByID looks up a storefront category; ok is false for unknown ids.
func CategoryByID(id string) (models.MenuCategory, bool) {
	for _, c := range models.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.MenuCategory{}, false
}
