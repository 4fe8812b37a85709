package services

import (
	"context"
	"strings"

	"cafe-jampot/db"
	"cafe-jampot/models"
)

// SaveFeedback stores a customer feedback entry.
func SaveFeedback(ctx context.Context, name string, rating int, comments string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, &ValidationError{Field: "name", Msg: "name is required"}
	}
	if rating < 1 || rating > 5 {
		return 0, &ValidationError{Field: "rating", Msg: "rating must be between 1 and 5"}
	}

	var id int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO feedback (name, rating, comments) VALUES ($1, $2, $3)
		RETURNING id`,
		name, rating, strings.TrimSpace(comments),
	).Scan(&id)
	return id, err
}

// ListFeedback returns all feedback, newest first (staff view).
func ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, rating, comments, created_at FROM feedback
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Feedback
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.Name, &f.Rating, &f.Comments, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
