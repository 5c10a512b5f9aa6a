package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skindiary/careplan-backend/internal/logger"
	"github.com/skindiary/careplan-backend/internal/types"
)

type SkinProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profiles []*types.SkinProfile) ([]*types.SkinProfile, error)
	// GetLatestByUserID returns the highest-version profile for the user,
	// or (nil, nil) when the user has never completed the questionnaire.
	GetLatestByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.SkinProfile, error)
}

type skinProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkinProfileRepo(db *gorm.DB, baseLog *logger.Logger) SkinProfileRepo {
	repoLog := baseLog.With("repo", "SkinProfileRepo")
	return &skinProfileRepo{db: db, log: repoLog}
}

func (r *skinProfileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.SkinProfile) ([]*types.SkinProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(profiles) == 0 {
		return []*types.SkinProfile{}, nil
	}

	for _, p := range profiles {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
	}

	if err := transaction.WithContext(ctx).Create(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *skinProfileRepo) GetLatestByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.SkinProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.SkinProfile
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("version DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
