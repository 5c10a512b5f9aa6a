package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/skindiary/careplan-backend/internal/types"
)

func seedProduct(name, category, legacyStep string, published, brandActive bool) *types.Product {
	return &types.Product{
		ID:           uuid.New(),
		Name:         name,
		BrandName:    "Brand",
		BrandActive:  brandActive,
		StepCategory: category,
		LegacyStep:   legacyStep,
		Published:    published,
		CreatedAt:    time.Now(),
	}
}

func TestProductRepoListPublished(t *testing.T) {
	db, log := setupTestDB(t)
	repo := NewProductRepo(db, log)
	ctx := context.Background()

	hero := seedProduct("Hero Wash", "cleanser_gentle", "", true, true)
	hero.IsHero = true
	prioritized := seedProduct("Priority Wash", "cleanser_gentle", "", true, true)
	prioritized.Priority = 5
	plain := seedProduct("Plain Wash", "cleanser_gentle", "", true, true)
	draft := seedProduct("Draft Wash", "cleanser_gentle", "", false, true)

	if _, err := repo.Create(ctx, nil, []*types.Product{plain, draft, prioritized, hero}); err != nil {
		t.Fatalf("create products: %v", err)
	}

	got, err := repo.ListPublished(ctx, nil)
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("published products: want=3 got=%d", len(got))
	}
	if got[0].Name != "Hero Wash" || got[1].Name != "Priority Wash" {
		t.Fatalf("ordering: want=[Hero Wash Priority Wash ...] got=[%s %s %s]", got[0].Name, got[1].Name, got[2].Name)
	}
	for _, p := range got {
		if !p.Published {
			t.Fatalf("unpublished product %s leaked into the batch", p.Name)
		}
	}
}

func TestProductRepoQueryByBaseStepMatchesLegacyAndCategory(t *testing.T) {
	db, log := setupTestDB(t)
	repo := NewProductRepo(db, log)
	ctx := context.Background()

	legacy := seedProduct("Legacy Toner", "", "toner", true, true)
	modern := seedProduct("Modern Toner", "toner_hydrating", "", true, true)
	inactive := seedProduct("Inactive Toner", "toner_hydrating", "", true, false)
	other := seedProduct("Serum", "serum_hydrating", "", true, true)

	if _, err := repo.Create(ctx, nil, []*types.Product{legacy, modern, inactive, other}); err != nil {
		t.Fatalf("create products: %v", err)
	}

	got, err := repo.QueryByBaseStep(ctx, nil, "toner", []string{"toner_hydrating", "toner_exfoliating", "toner_soothing"}, "", false)
	if err != nil {
		t.Fatalf("QueryByBaseStep: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("toner products: want=2 got=%d", len(got))
	}
	names := map[string]bool{}
	for _, p := range got {
		names[p.Name] = true
	}
	if !names["Legacy Toner"] || !names["Modern Toner"] {
		t.Fatalf("expected legacy and modern toners, got %v", names)
	}
}

func TestProductRepoQueryByBaseStepSkinTypeFiltering(t *testing.T) {
	db, log := setupTestDB(t)
	repo := NewProductRepo(db, log)
	ctx := context.Background()

	oily := seedProduct("Oily Toner", "toner_hydrating", "", true, true)
	oily.SkinTypes = datatypes.NewJSONSlice([]string{"oily", "combination"})
	dry := seedProduct("Dry Toner", "toner_hydrating", "", true, true)
	dry.SkinTypes = datatypes.NewJSONSlice([]string{"dry"})
	universal := seedProduct("Universal Toner", "toner_hydrating", "", true, true)

	if _, err := repo.Create(ctx, nil, []*types.Product{oily, dry, universal}); err != nil {
		t.Fatalf("create products: %v", err)
	}

	got, err := repo.QueryByBaseStep(ctx, nil, "toner", []string{"toner_hydrating"}, "oily", true)
	if err != nil {
		t.Fatalf("QueryByBaseStep: %v", err)
	}
	names := map[string]bool{}
	for _, p := range got {
		names[p.Name] = true
	}
	if len(got) != 2 || !names["Oily Toner"] || !names["Universal Toner"] {
		t.Fatalf("skin-typed query: want=[Oily Toner Universal Toner] got=%v", names)
	}

	strict, err := repo.QueryByBaseStep(ctx, nil, "toner", []string{"toner_hydrating"}, "oily", false)
	if err != nil {
		t.Fatalf("QueryByBaseStep strict: %v", err)
	}
	if len(strict) != 1 || strict[0].Name != "Oily Toner" {
		t.Fatalf("strict skin-typed query: want=[Oily Toner] got=%v", strict)
	}
}
