package services

import (
	"context"

	"cafe-jampot/db"
	"cafe-jampot/models"
)

// ListActiveAds returns the storefront carousel slides in display order.
func ListActiveAds(ctx context.Context) ([]models.Advertisement, error) {
	return queryAds(ctx, `
		SELECT id, title, image_url, link_url, is_active, position
		FROM advertisements
		WHERE is_active = true
		ORDER BY position, id`)
}

// ListAllAds returns every slide, active or not (admin view).
func ListAllAds(ctx context.Context) ([]models.Advertisement, error) {
	return queryAds(ctx, `
		SELECT id, title, image_url, link_url, is_active, position
		FROM advertisements
		ORDER BY position, id`)
}

// SetAdActive toggles a slide.
func SetAdActive(ctx context.Context, id int64, active bool) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE advertisements SET is_active = $1, updated_at = now() WHERE id = $2`,
		active, id,
	)
	return err
}

func queryAds(ctx context.Context, sql string) ([]models.Advertisement, error) {
	rows, err := db.Pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ads []models.Advertisement
	for rows.Next() {
		var a models.Advertisement
		if err := rows.Scan(&a.ID, &a.Title, &a.ImageURL, &a.LinkURL, &a.IsActive, &a.Position); err != nil {
			return nil, err
		}
		ads = append(ads, a)
	}
	return ads, rows.Err()
}
