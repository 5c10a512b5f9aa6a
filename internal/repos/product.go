package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skindiary/careplan-backend/internal/logger"
	"github.com/skindiary/careplan-backend/internal/types"
)

type ProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, products []*types.Product) ([]*types.Product, error)
	// ListPublished fetches the full eligible batch handed to the plan
	// engine: every published row, ordered hero/priority/recency.
	ListPublished(ctx context.Context, tx *gorm.DB) ([]types.Product, error)
	// QueryByBaseStep is the on-demand fallback lookup: published,
	// brand-active rows matching the base step (by legacy tag or any of
	// its fine-grained categories). Skin-type filtering happens in Go so
	// the JSON column query stays portable across postgres and sqlite.
	QueryByBaseStep(ctx context.Context, tx *gorm.DB, baseStep string, categories []string, skinType string, includeEmptySkinTypes bool) ([]types.Product, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	repoLog := baseLog.With("repo", "ProductRepo")
	return &productRepo{db: db, log: repoLog}
}

func (r *productRepo) Create(ctx context.Context, tx *gorm.DB, products []*types.Product) ([]*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(products) == 0 {
		return []*types.Product{}, nil
	}

	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
	}

	if err := transaction.WithContext(ctx).Create(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) ListPublished(ctx context.Context, tx *gorm.DB) ([]types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []types.Product
	if err := transaction.WithContext(ctx).
		Where("published = ?", true).
		Order("is_hero DESC").
		Order("priority DESC").
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *productRepo) QueryByBaseStep(ctx context.Context, tx *gorm.DB, baseStep string, categories []string, skinType string, includeEmptySkinTypes bool) ([]types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Where("published = ?", true).
		Where("brand_active = ?", true)
	if len(categories) > 0 {
		query = query.Where("legacy_step = ? OR step_category IN ?", baseStep, categories)
	} else {
		query = query.Where("legacy_step = ?", baseStep)
	}

	var rows []types.Product
	if err := query.
		Order("is_hero DESC").
		Order("priority DESC").
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	if skinType == "" {
		return rows, nil
	}
	filtered := make([]types.Product, 0, len(rows))
	for _, p := range rows {
		if len(p.SkinTypes) == 0 {
			if includeEmptySkinTypes {
				filtered = append(filtered, p)
			}
			continue
		}
		for _, st := range p.SkinTypes {
			if st == skinType {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}
