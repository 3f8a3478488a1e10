package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/campuslink/backend/internal/scheduler"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testWebhookSecret = "test-secret"

func setupWebhookTest(t *testing.T) (*WebhookHandler, repositories.UserRepository) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	userRepo := repositories.NewPostgresUserRepository(db)
	handler := NewWebhookHandler(testWebhookSecret, userRepo, nil, scheduler.New(nil))
	return handler, userRepo
}

func signBody(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(handler *WebhookHandler, body, signature string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/identity", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("X-Webhook-Signature", signature)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.HandleIdentityEvent(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	handler, _ := setupWebhookTest(t)
	body := `{"id":"evt-1","type":"user.created","data":{"uid":"u1"}}`

	rec := postWebhook(handler, body, "deadbeef")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postWebhook(handler, body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookUserCreated(t *testing.T) {
	handler, userRepo := setupWebhookTest(t)
	body := `{"id":"evt-1","type":"user.created","data":{"uid":"u1","email":"ada@campus.edu","name":"Ada","username":"ada"}}`

	rec := postWebhook(handler, body, signBody(testWebhookSecret, body))
	require.Equal(t, http.StatusOK, rec.Code)

	user, err := userRepo.GetUserByFirebaseUID("u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@campus.edu", user.Email)

	// Redelivery of the same event is a no-op, not a duplicate row.
	rec = postWebhook(handler, body, signBody(testWebhookSecret, body))
	assert.Equal(t, http.StatusOK, rec.Code)
	users, err := userRepo.SearchUsers("Ada")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestWebhookUserUpdated(t *testing.T) {
	handler, userRepo := setupWebhookTest(t)
	created := `{"id":"evt-1","type":"user.created","data":{"uid":"u1","email":"ada@campus.edu","name":"Ada","username":"ada"}}`
	postWebhook(handler, created, signBody(testWebhookSecret, created))

	updated := `{"id":"evt-2","type":"user.updated","data":{"uid":"u1","name":"Ada Lovelace"}}`
	rec := postWebhook(handler, updated, signBody(testWebhookSecret, updated))
	require.Equal(t, http.StatusOK, rec.Code)

	user, err := userRepo.GetUserByFirebaseUID("u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, "ada@campus.edu", user.Email, "unspecified fields untouched")
}

func TestWebhookUnknownEventIsAcknowledged(t *testing.T) {
	handler, _ := setupWebhookTest(t)
	body := `{"id":"evt-9","type":"user.suspended","data":{"uid":"u1"}}`

	rec := postWebhook(handler, body, signBody(testWebhookSecret, body))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ignored":true`)
}
