package services

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aeroforge/aerobbs/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&models.User{},
		&models.Thread{},
		&models.Comment{},
		&models.Vote{},
		&models.Attachment{},
		&models.AccessKey{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustUser(t *testing.T, db *gorm.DB, username, role string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		PasswordHash: "x",
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func mustThread(t *testing.T, db *gorm.DB, userID uint, title string) models.Thread {
	t.Helper()
	thread := models.Thread{
		UserID:  userID,
		Title:   title,
		Content: fmt.Sprintf("content of %s", title),
	}
	if err := db.Create(&thread).Error; err != nil {
		t.Fatalf("create thread %s: %v", title, err)
	}
	return thread
}

func mustThreadAt(t *testing.T, db *gorm.DB, userID uint, title string, created time.Time) models.Thread {
	t.Helper()
	thread := mustThread(t, db, userID, title)
	if err := db.Model(&thread).Update("created_at", created).Error; err != nil {
		t.Fatalf("backdate thread %s: %v", title, err)
	}
	thread.CreatedAt = created
	return thread
}

func mustComment(t *testing.T, db *gorm.DB, userID, threadID uint, content string) models.Comment {
	t.Helper()
	comment := models.Comment{
		ThreadID: threadID,
		UserID:   userID,
		Content:  content,
	}
	if err := db.Create(&comment).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return comment
}

func countVotes(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Vote{}).Count(&n).Error; err != nil {
		t.Fatalf("count votes: %v", err)
	}
	return n
}

func uintPtr(v uint) *uint { return &v }
