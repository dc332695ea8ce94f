package repository

import (
	"context"
	"fmt"

	"complaint_portal/internal/model"
)

// CategoryRepository defines operations for complaint categories
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]model.Category, error)
}

type categoryRepository struct {
	db DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// FindAll retrieves all categories ordered by name
func (r *categoryRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	sql := `SELECT id, name FROM categories ORDER BY name`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}
