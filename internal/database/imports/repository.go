// Package imports keeps the history of catalog imports.
package imports

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record saves an import entry.
func (r *Repository) Record(ctx context.Context, imp *entities.CatalogImport) error {
	if imp.CreatedAt.IsZero() {
		imp.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(imp).Error
}

// Latest returns the most recent import, or nil when there has been none.
func (r *Repository) Latest(ctx context.Context) (*entities.CatalogImport, error) {
	var imp entities.CatalogImport
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").First(&imp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &imp, nil
}

// List returns imports, most recent first.
func (r *Repository) List(ctx context.Context, limit int) ([]entities.CatalogImport, error) {
	if limit <= 0 {
		limit = 50
	}
	var imps []entities.CatalogImport
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&imps).Error
	return imps, err
}
