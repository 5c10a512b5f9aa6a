package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuestionnaireAnswer struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;index:idx_answer_user_questionnaire;not null;column:user_id" json:"user_id"`
	QuestionnaireID string         `gorm:"index:idx_answer_user_questionnaire;not null;column:questionnaire_id" json:"questionnaire_id"`
	Answers         datatypes.JSON `gorm:"column:answers" json:"answers"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (QuestionnaireAnswer) TableName() string {
	return "questionnaire_answer"
}
