package repo

import (
	"JourFlow/internal/model"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// newTestDB инициализирует in-memory SQLite (modernc.org/sqlite) для тестов репозитория.
// У каждого теста своя база.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func testPost(id, userID, day string) model.Post {
	d, _ := time.Parse("2006-01-02", day)
	return model.Post{
		ID: id, UserID: userID, Title: "t " + day, Content: "c",
		IconPath: "happy", PostDate: d, UpdateDate: d.Add(time.Hour),
	}
}
