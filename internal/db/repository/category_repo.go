package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// CategoryRepository provides read access to categories plus the
// find-or-create used by the importer.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns every category, most recently created first.
func (r *CategoryRepository) List(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&categories).Error; err != nil {
		return nil, classify("list categories", err)
	}
	return categories, nil
}

// Get returns the category with the given id, or nil when absent.
func (r *CategoryRepository) Get(ctx context.Context, id int) (*Category, error) {
	var category Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classify("get category", err)
	}
	return &category, nil
}

// FindOrCreate returns the category labelled label, inserting it if needed.
func (r *CategoryRepository) FindOrCreate(ctx context.Context, label string) (Category, bool, error) {
	if label == "" {
		return Category{}, false, fmt.Errorf("find or create category: %w", ErrConstraintViolation)
	}
	var category Category
	res := r.db.WithContext(ctx).
		Where(Category{Type: label}).
		FirstOrCreate(&category)
	if res.Error != nil {
		return Category{}, false, classify("find or create category", res.Error)
	}
	// FirstOrCreate only affects rows when it inserted.
	return category, res.RowsAffected > 0, nil
}
