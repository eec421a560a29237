package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/contractor-connect/internal/auth"
	"github.com/hugh/contractor-connect/internal/database"
	"github.com/hugh/contractor-connect/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a migrated in-memory SQLite database that is closed
// when the test finishes.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Every connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })

	return db
}

// TestLogger returns a logger that discards output.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CreateTestUser creates a user whose password is "testpassword123".
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		Name:         "Test User",
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// LeadOption customizes a fixture lead before it is inserted.
type LeadOption func(*models.Lead)

func WithStage(stage models.Stage) LeadOption {
	return func(l *models.Lead) { l.Stage = stage }
}

func WithValue(v float64) LeadOption {
	return func(l *models.Lead) { l.EstimatedValue = v }
}

func WithEmail(email string) LeadOption {
	return func(l *models.Lead) { l.Email = &email }
}

func WithPhone(phone string) LeadOption {
	return func(l *models.Lead) { l.Phone = &phone }
}

func WithAppointment(at string) LeadOption {
	return func(l *models.Lead) { l.AppointmentDatetime = &at }
}

func WithCreatedAt(at time.Time) LeadOption {
	return func(l *models.Lead) { l.CreatedAt = at }
}

// CreateTestLead inserts a lead in stage New owned by userID.
func CreateTestLead(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, opts ...LeadOption) *models.Lead {
	t.Helper()

	lead := &models.Lead{
		UserID:   userID,
		FullName: name,
		Stage:    models.StageNew,
	}
	for _, opt := range opts {
		opt(lead)
	}

	if err := db.Create(lead).Error; err != nil {
		t.Fatalf("failed to create test lead: %v", err)
	}

	return lead
}

// CreateTestNote attaches a note to a lead.
func CreateTestNote(t *testing.T, db *gorm.DB, lead *models.Lead, text string) *models.Note {
	t.Helper()

	note := &models.Note{
		LeadID:   lead.ID,
		UserID:   lead.UserID,
		NoteText: text,
	}
	if err := db.Create(note).Error; err != nil {
		t.Fatalf("failed to create test note: %v", err)
	}
	return note
}

// CreateTestNotification logs a notification row, optionally tied to a lead.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID uuid.UUID, leadID *uuid.UUID) *models.Notification {
	t.Helper()

	n := &models.Notification{
		UserID:  userID,
		LeadID:  leadID,
		Channel: models.ChannelEmail,
		ToValue: "someone@example.com",
		Message: "hello",
		Status:  models.NotificationLogged,
	}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 72*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// TestSetup bundles a database, a user and a token for handler tests.
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	User       *models.User
	Token      string
}

func NewTestSetup(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	user := CreateTestUser(t, db)

	return &TestSetup{
		DB:         db,
		JWTService: jwtService,
		User:       user,
		Token:      GenerateTestToken(t, jwtService, user),
	}
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}
