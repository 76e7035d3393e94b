// Package dbtest opens throwaway in-memory databases carrying the full schema.
package dbtest

import (
	"io"
	"log"
	"testing"

	"github.com/angelmondragon/rateboard-backend/pkg/db"
	"github.com/angelmondragon/rateboard-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open returns a client over a fresh sqlite database migrated with every model.
func Open(t testing.TB) *db.Client {
	t.Helper()

	dsn := "file:rateboard_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(
			log.New(io.Discard, "", log.LstdFlags),
			gormlogger.Config{LogLevel: gormlogger.Silent},
		),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Store{}, &models.Rating{}, &models.Blog{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	client := db.NewWithConn(conn)
	t.Cleanup(func() { _ = client.Close() })
	return client
}
