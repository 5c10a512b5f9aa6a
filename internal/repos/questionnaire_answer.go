package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skindiary/careplan-backend/internal/logger"
	"github.com/skindiary/careplan-backend/internal/types"
)

type QuestionnaireAnswerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, answers []*types.QuestionnaireAnswer) ([]*types.QuestionnaireAnswer, error)
	// GetAnswerMap returns the decoded answer map for the user's most
	// recent submission of a questionnaire, or (nil, nil) when absent.
	GetAnswerMap(ctx context.Context, tx *gorm.DB, userID uuid.UUID, questionnaireID string) (map[string]any, error)
}

type questionnaireAnswerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionnaireAnswerRepo(db *gorm.DB, baseLog *logger.Logger) QuestionnaireAnswerRepo {
	repoLog := baseLog.With("repo", "QuestionnaireAnswerRepo")
	return &questionnaireAnswerRepo{db: db, log: repoLog}
}

func (r *questionnaireAnswerRepo) Create(ctx context.Context, tx *gorm.DB, answers []*types.QuestionnaireAnswer) ([]*types.QuestionnaireAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(answers) == 0 {
		return []*types.QuestionnaireAnswer{}, nil
	}

	for _, a := range answers {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
	}

	if err := transaction.WithContext(ctx).Create(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *questionnaireAnswerRepo) GetAnswerMap(ctx context.Context, tx *gorm.DB, userID uuid.UUID, questionnaireID string) (map[string]any, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.QuestionnaireAnswer
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND questionnaire_id = ?", userID, questionnaireID).
		Order("created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	answerMap := map[string]any{}
	if len(row.Answers) > 0 {
		if err := json.Unmarshal(row.Answers, &answerMap); err != nil {
			return nil, fmt.Errorf("decode answers for user %s: %w", userID, err)
		}
	}
	return answerMap, nil
}
