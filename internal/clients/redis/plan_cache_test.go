package redis

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/skindiary/careplan-backend/internal/plan"
)

func TestCacheKey(t *testing.T) {
	userID := uuid.MustParse("4f5e2a30-0000-0000-0000-000000000001")
	got := cacheKey(userID, 3)
	want := fmt.Sprintf("careplan:%s:v3", userID)
	if got != want {
		t.Fatalf("cache key: want=%s got=%s", want, got)
	}
}

func TestDecodePlanRoundTrip(t *testing.T) {
	generated := &plan.GeneratedPlan{
		Plan28: &plan.Plan28{
			UserID:    uuid.New(),
			MainGoals: []string{"acne"},
		},
	}
	raw, err := json.Marshal(generated)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, ok := decodePlan(raw)
	if !ok {
		t.Fatalf("round trip should decode")
	}
	if decoded.Plan28.UserID != generated.Plan28.UserID {
		t.Fatalf("user id: want=%s got=%s", generated.Plan28.UserID, decoded.Plan28.UserID)
	}
}

func TestDecodePlanTreatsLegacyEntryAsMiss(t *testing.T) {
	// An entry written before plan28 existed decodes but must be
	// regenerated.
	legacy := []byte(`{"profile":{"skin_type":"oily"},"weeks":[]}`)
	if _, ok := decodePlan(legacy); ok {
		t.Fatalf("entry without plan28 must be a miss")
	}
}

func TestDecodePlanRejectsGarbage(t *testing.T) {
	if _, ok := decodePlan([]byte("{not json")); ok {
		t.Fatalf("undecodable entry must be a miss")
	}
}
