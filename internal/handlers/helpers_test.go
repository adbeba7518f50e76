package handlers_test

import (
	"JourFlow/internal/config"
	"JourFlow/internal/handlers"
	"JourFlow/internal/middleware"
	"JourFlow/internal/repo"
	"JourFlow/internal/service"
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

const testSecret = "test-secret"

// fakeVerifier принимает токены вида "google:<email>".
type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, idToken string) (*service.GoogleProfile, error) {
	var email string
	if _, err := fmt.Sscanf(idToken, "google:%s", &email); err != nil || email == "" {
		return nil, service.ErrInvalidIDToken
	}
	return &service.GoogleProfile{Email: email, Name: "User " + email, Picture: "https://img/" + email}, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// newTestRouter собирает сервер на in-memory SQLite.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{AuthSecret: testSecret}
	logger := zap.NewNop().Sugar()
	db := newTestDB(t)

	userSvc := service.NewUserService(repo.NewUserRepository(db), fakeVerifier{}, cfg.AuthSecret, time.Hour)
	postSvc := service.NewPostService(repo.NewPostRepository(db), logger)
	return handlers.NewHandler(userSvc, postSvc, logger, cfg).Router
}

func addAuth(t *testing.T, req *http.Request, userID string) {
	t.Helper()
	tok, err := middleware.BuildJWT(userID, "", testSecret, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
}
