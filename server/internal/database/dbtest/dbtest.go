// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/bait0ngxaxa/survey-sub000/server/internal/config"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/database"
	"go.uber.org/zap"
)

// Init points database.DB at a fresh SQLite file in the test's temp directory.
func Init(t testing.TB) {
	t.Helper()
	conf := config.DatabaseConfig{Driver: "sqlite", DBName: filepath.Join(t.TempDir(), "triage.db")}
	if err := database.Init(zap.NewNop(), conf); err != nil {
		t.Fatalf("failed to init test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB.DB(); err == nil {
			sqlDB.Close()
		}
	})
}
