package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MedicalMarkers is the free-form medical block stored on a profile:
// diagnoses, contraindications, long-term goals and the optional routine
// complexity override set by a dermatologist.
type MedicalMarkers struct {
	Diagnoses          []string `json:"diagnoses,omitempty"`
	Contraindications  []string `json:"contraindications,omitempty"`
	Goals              []string `json:"goals,omitempty"`
	ComplexityOverride string   `json:"complexity_override,omitempty"`
}

type SkinProfile struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;index:idx_skin_profile_user_version;not null;column:user_id" json:"user_id"`
	SkinType         string         `gorm:"column:skin_type" json:"skin_type"`
	SensitivityLevel string         `gorm:"column:sensitivity_level" json:"sensitivity_level"`
	AcneLevel        string         `gorm:"column:acne_level" json:"acne_level"`
	AgeGroup         string         `gorm:"column:age_group" json:"age_group"`
	Pregnant         bool           `gorm:"column:pregnant" json:"pregnant"`
	MedicalMarkers   datatypes.JSON `gorm:"column:medical_markers" json:"medical_markers"`
	// Version is monotonic per user and bumped on every questionnaire retake.
	Version   int       `gorm:"index:idx_skin_profile_user_version;not null;column:version" json:"version"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (SkinProfile) TableName() string {
	return "skin_profile"
}
