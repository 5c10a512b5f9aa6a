package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/skindiary/careplan-backend/internal/types"
)

func TestSkinProfileRepoLatestVersionWins(t *testing.T) {
	db, log := setupTestDB(t)
	repo := NewSkinProfileRepo(db, log)
	ctx := context.Background()
	userID := uuid.New()

	_, err := repo.Create(ctx, nil, []*types.SkinProfile{
		{UserID: userID, SkinType: "dry", Version: 1},
		{UserID: userID, SkinType: "oily", Version: 3},
		{UserID: userID, SkinType: "combination", Version: 2},
	})
	if err != nil {
		t.Fatalf("create profiles: %v", err)
	}

	got, err := repo.GetLatestByUserID(ctx, nil, userID)
	if err != nil {
		t.Fatalf("GetLatestByUserID: %v", err)
	}
	if got == nil {
		t.Fatalf("profile not found")
	}
	if got.Version != 3 || got.SkinType != "oily" {
		t.Fatalf("latest profile: want=(3,oily) got=(%d,%s)", got.Version, got.SkinType)
	}
}

func TestSkinProfileRepoMissingUserReturnsNil(t *testing.T) {
	db, log := setupTestDB(t)
	repo := NewSkinProfileRepo(db, log)

	got, err := repo.GetLatestByUserID(context.Background(), nil, uuid.New())
	if err != nil {
		t.Fatalf("GetLatestByUserID: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil profile for unknown user, got %+v", got)
	}
}

func TestSkinProfileRepoCreateAssignsIDs(t *testing.T) {
	db, log := setupTestDB(t)
	repo := NewSkinProfileRepo(db, log)

	created, err := repo.Create(context.Background(), nil, []*types.SkinProfile{
		{UserID: uuid.New(), SkinType: "normal", Version: 1},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created[0].ID == uuid.Nil {
		t.Fatalf("ID not assigned on create")
	}
}
