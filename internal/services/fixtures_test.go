package services

import (
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/OnRiseAI/content-automation/internal/ai"
	"github.com/OnRiseAI/content-automation/internal/config"
	"github.com/OnRiseAI/content-automation/internal/database/models"
)

// setupTestDB creates a temporary sqlite database for service tests
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	if err := db.AutoMigrate(&models.ContentIdea{}, &models.BlogPost{}, &models.Log{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})
	return db
}

// testConfig returns a config suitable for service tests
func testConfig() *config.Config {
	return &config.Config{
		IMAPHost:     "imap.example.com",
		IMAPPort:     993,
		IMAPUseSSL:   true,
		IMAPMailbox:  "INBOX",
		IMAPAuth:     config.AuthTypePassword,
		IMAPUsername: "editor@example.com",
		IMAPPassword: "secret",
		AlertSender:  "googlealerts-noreply@google.com",
		AIProvider:   "openai",
		AIAPIKey:     "test-key",
		AIModel:      "test-model",
		LogLevel:     "ERROR",
	}
}

// completerFunc adapts a function to the Completer interface
type completerFunc func(req ai.CompletionRequest) (string, error)

func (f completerFunc) Complete(req ai.CompletionRequest) (string, error) {
	return f(req)
}

// fakeSession is an in-memory MailSession
type fakeSession struct {
	messages map[uint32][]byte
	seen     map[uint32]bool
	selected string
	closed   bool
}

func newFakeSession(messages map[uint32][]byte) *fakeSession {
	return &fakeSession{
		messages: messages,
		seen:     make(map[uint32]bool),
	}
}

func (f *fakeSession) SelectMailbox(name string) error {
	f.selected = name
	return nil
}

func (f *fakeSession) SearchUnseenFrom(sender string) ([]uint32, error) {
	var uids []uint32
	// map iteration order is fine for tests with a single message; tests
	// needing ordering use distinct fixtures per message
	for uid := range f.messages {
		if !f.seen[uid] {
			uids = append(uids, uid)
		}
	}
	return uids, nil
}

func (f *fakeSession) FetchRaw(uid uint32) ([]byte, error) {
	raw, ok := f.messages[uid]
	if !ok {
		return nil, errors.New("no such message")
	}
	return raw, nil
}

func (f *fakeSession) MarkSeen(uid uint32) error {
	f.seen[uid] = true
	return nil
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

// testDBHandle bundles common row assertions
type testDBHandle struct {
	db *gorm.DB
}

func (h *testDBHandle) ideaCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := h.db.Model(&models.ContentIdea{}).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count ideas: %v", err)
	}
	return count
}

func (h *testDBHandle) singleIdea(t *testing.T) *models.ContentIdea {
	t.Helper()
	var ideas []models.ContentIdea
	if err := h.db.Find(&ideas).Error; err != nil {
		t.Fatalf("Failed to load ideas: %v", err)
	}
	if len(ideas) != 1 {
		t.Fatalf("Idea count = %d, want 1", len(ideas))
	}
	return &ideas[0]
}

// alertEmail builds a raw multipart Google Alert message
func alertEmail(subject string) []byte {
	return []byte("From: Google Alerts <googlealerts-noreply@google.com>\r\n" +
		"To: editor@example.com\r\n" +
		"Subject: " + subject + "\r\n" +
		"Date: Tue, 12 Aug 2025 09:30:00 +0000\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/alternative; boundary=\"sep\"\r\n" +
		"\r\n" +
		"--sep\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"New Dental Clinic\r\nhttps://news.example.com/dental-clinic\r\n" +
		"--sep\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<html><body><h3>New Dental Clinic</h3><p>A new clinic opened...</p></body></html>\r\n" +
		"--sep--\r\n")
}

const ideaJSON = `{
	"suggested_title": "Dental Implants Abroad: What Patients Should Know",
	"target_keywords": ["dental implants abroad", "dental tourism"],
	"target_audience": "Patients considering treatment abroad",
	"search_intent": "informational",
	"suggested_outline": {"sections": ["Introduction", "Costs", "Choosing a clinic"]},
	"word_count_estimate": 1800,
	"seo_priority_score": 8.5,
	"topic": "Dental Tourism",
	"urgency": "high"
}`
