package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Product is a catalog row. Newer rows carry a fine-grained StepCategory
// (e.g. "toner_hydrating"); older rows only carry LegacyStep, the coarse
// base step ("toner"). The plan engine resolves both.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	BrandName   string    `gorm:"column:brand_name" json:"brand_name"`
	BrandActive bool      `gorm:"column:brand_active" json:"brand_active"`
	// Price in minor currency units; 0 means unpriced.
	Price        int                         `gorm:"column:price" json:"price"`
	SkinTypes    datatypes.JSONSlice[string] `gorm:"column:skin_types" json:"skin_types"`
	Concerns     datatypes.JSONSlice[string] `gorm:"column:concerns" json:"concerns"`
	AvoidIf      datatypes.JSONSlice[string] `gorm:"column:avoid_if" json:"avoid_if"`
	Ingredients  datatypes.JSONSlice[string] `gorm:"column:ingredients" json:"ingredients"`
	StepCategory string                      `gorm:"index;column:step_category" json:"step_category"`
	LegacyStep   string                      `gorm:"index;column:legacy_step" json:"legacy_step"`
	IsHero       bool                        `gorm:"column:is_hero" json:"is_hero"`
	Priority     int                         `gorm:"column:priority" json:"priority"`
	Published    bool                        `gorm:"index;column:published" json:"published"`
	CreatedAt    time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string {
	return "product"
}
