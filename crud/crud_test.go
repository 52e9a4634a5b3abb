package crud

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chirper/domain"
)

// testDB opens a fresh in-memory database with all tables migrated.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Follow{},
		&domain.Notification{},
		&domain.Post{},
		&domain.Like{},
		&domain.Comment{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// fakeAssets is an in-memory stand-in for the object storage.
type fakeAssets struct {
	uploads    int
	destroyed  []string
	failUpload bool
}

func (f *fakeAssets) Upload(ctx context.Context, payload string) (string, error) {
	if f.failUpload {
		return "", errors.New("upload failed")
	}
	f.uploads++
	return fmt.Sprintf("https://assets.test/uploads/img-%d", f.uploads), nil
}

func (f *fakeAssets) Destroy(ctx context.Context, assetKey string) error {
	f.destroyed = append(f.destroyed, assetKey)
	return nil
}

var _ domain.AssetService = &fakeAssets{}

// createTestUser registers a user through the real service so the record
// looks exactly like a production one.
func createTestUser(t *testing.T, us *UserService, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "Test " + username,
		Password: "password123",
	}
	if err := us.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	tx := db.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	if err := tx.Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}
