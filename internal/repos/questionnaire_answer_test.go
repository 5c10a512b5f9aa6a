package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/skindiary/careplan-backend/internal/types"
)

func TestQuestionnaireAnswerRepoReturnsLatestSubmission(t *testing.T) {
	db, log := setupTestDB(t)
	repo := NewQuestionnaireAnswerRepo(db, log)
	ctx := context.Background()
	userID := uuid.New()

	older := &types.QuestionnaireAnswer{
		UserID:          userID,
		QuestionnaireID: "skin_v1",
		Answers:         datatypes.JSON([]byte(`{"goals":["old"]}`)),
		CreatedAt:       time.Now().Add(-time.Hour),
	}
	newer := &types.QuestionnaireAnswer{
		UserID:          userID,
		QuestionnaireID: "skin_v1",
		Answers:         datatypes.JSON([]byte(`{"goals":["Акне и высыпания"],"pregnant":true}`)),
		CreatedAt:       time.Now(),
	}
	if _, err := repo.Create(ctx, nil, []*types.QuestionnaireAnswer{older, newer}); err != nil {
		t.Fatalf("create answers: %v", err)
	}

	got, err := repo.GetAnswerMap(ctx, nil, userID, "skin_v1")
	if err != nil {
		t.Fatalf("GetAnswerMap: %v", err)
	}
	goals, ok := got["goals"].([]any)
	if !ok || len(goals) != 1 || goals[0] != "Акне и высыпания" {
		t.Fatalf("goals: want=[Акне и высыпания] got=%v", got["goals"])
	}
	if got["pregnant"] != true {
		t.Fatalf("pregnant: want=true got=%v", got["pregnant"])
	}
}

func TestQuestionnaireAnswerRepoScopedByQuestionnaire(t *testing.T) {
	db, log := setupTestDB(t)
	repo := NewQuestionnaireAnswerRepo(db, log)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := repo.Create(ctx, nil, []*types.QuestionnaireAnswer{{
		UserID:          userID,
		QuestionnaireID: "skin_v1",
		Answers:         datatypes.JSON([]byte(`{"budget":"mid"}`)),
	}}); err != nil {
		t.Fatalf("create answer: %v", err)
	}

	got, err := repo.GetAnswerMap(ctx, nil, userID, "hair_v1")
	if err != nil {
		t.Fatalf("GetAnswerMap: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil for unrelated questionnaire, got %v", got)
	}
}

func TestQuestionnaireAnswerRepoAbsentUser(t *testing.T) {
	db, log := setupTestDB(t)
	repo := NewQuestionnaireAnswerRepo(db, log)

	got, err := repo.GetAnswerMap(context.Background(), nil, uuid.New(), "skin_v1")
	if err != nil {
		t.Fatalf("GetAnswerMap: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil for absent user, got %v", got)
	}
}
