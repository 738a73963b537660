package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ecotrack/backend/src/repository"
	"github.com/ecotrack/backend/src/utils"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const testDBName = "ecotrack_test"

// SetupTestDB connects to the database named by TEST_MONGO_URI, ensures the
// indexes and returns a scratch database. Tests are skipped when the variable
// is unset so the suite runs without a live store.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	_ = godotenv.Load(filepath.Join(utils.FindProjectRoot(), ".env"))

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	db := client.Database(testDBName)
	if err := db.Drop(ctx); err != nil {
		t.Fatalf("Failed to drop test database: %v", err)
	}
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("Failed to ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cleanupCancel()
		_ = db.Drop(cleanupCtx)
		_ = client.Disconnect(cleanupCtx)
	})

	return db
}
