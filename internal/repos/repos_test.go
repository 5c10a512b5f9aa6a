package repos

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/skindiary/careplan-backend/internal/logger"
	"github.com/skindiary/careplan-backend/internal/types"
)

func setupTestDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	// A named in-memory database keeps every pooled connection on the same
	// store while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.SkinProfile{}, &types.QuestionnaireAnswer{}, &types.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return db, log
}
