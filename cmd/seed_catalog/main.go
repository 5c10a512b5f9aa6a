package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/skindiary/careplan-backend/internal/db"
	"github.com/skindiary/careplan-backend/internal/logger"
	"github.com/skindiary/careplan-backend/internal/plan"
	"github.com/skindiary/careplan-backend/internal/repos"
	"github.com/skindiary/careplan-backend/internal/types"
)

// seed_catalog imports a JSON product file into the catalog store. Rows
// with an unknown step category are rejected before anything is written.
func main() {
	var file string
	var dryRun bool
	var publish bool
	flag.StringVar(&file, "file", "", "path to a JSON array of products")
	flag.BoolVar(&dryRun, "dry-run", false, "validate and print counts without writing")
	flag.BoolVar(&publish, "publish", false, "force published=true on every imported row")
	flag.Parse()

	if file == "" {
		fmt.Println("usage: seed_catalog -file products.json [-dry-run] [-publish]")
		os.Exit(1)
	}

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	raw, err := os.ReadFile(file)
	if err != nil {
		log.Error("Could not read product file", "file", file, "error", err)
		os.Exit(1)
	}
	var products []*types.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		log.Error("Could not parse product file", "file", file, "error", err)
		os.Exit(1)
	}

	var invalid int
	for _, p := range products {
		if publish {
			p.Published = true
		}
		_, catOK := plan.ParseStepCategory(p.StepCategory)
		_, legacyOK := plan.ParseBaseStep(p.LegacyStep)
		if !catOK && !legacyOK {
			log.Warn("Product carries no recognized step tag", "name", p.Name, "step_category", p.StepCategory, "legacy_step", p.LegacyStep)
			invalid++
		}
	}
	if invalid > 0 {
		log.Error("Refusing to import: products with unknown step tags", "count", invalid)
		os.Exit(1)
	}

	if dryRun {
		log.Info("Dry run, nothing written", "products", len(products))
		return
	}

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}

	productRepo := repos.NewProductRepo(postgresService.DB(), log)
	created, err := productRepo.Create(context.Background(), nil, products)
	if err != nil {
		log.Error("Import failed", "error", err)
		os.Exit(1)
	}
	log.Info("Imported products", "count", len(created))
}
