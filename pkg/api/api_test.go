package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quranbot/pkg/logger"
	"quranbot/pkg/models"
	"quranbot/service"
	"quranbot/storage"
	"quranbot/storage/memory"
)

func newTestRouter(t *testing.T, stg storage.IStorage) *gin.Engine {
	t.Helper()
	return NewRouter(service.New(stg, logger.NewNop()), "*", logger.NewNop())
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoot(t *testing.T) {
	r := newTestRouter(t, memory.New())

	w := do(t, r, http.MethodGet, "/api/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Telegram Bot API is running"}`, w.Body.String())
}

func TestStatusCreateThenList(t *testing.T) {
	r := newTestRouter(t, memory.New())

	w := do(t, r, http.MethodPost, "/api/status", map[string]string{"client_name": "x"})
	require.Equal(t, http.StatusOK, w.Code)
	var created models.StatusCheck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "x", created.ClientName)
	_, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	assert.False(t, created.Timestamp.IsZero())

	w = do(t, r, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var checks []models.StatusCheck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &checks))
	require.Len(t, checks, 1)
	assert.Equal(t, created.ID, checks[0].ID)
	assert.Equal(t, "x", checks[0].ClientName)
}

func TestStatusCreateRequiresClientName(t *testing.T) {
	r := newTestRouter(t, memory.New())

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/api/status", map[string]string{}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/api/status", "{not json").Code)
}

func TestStatusCreateAcceptsEmptyClientName(t *testing.T) {
	r := newTestRouter(t, memory.New())

	w := do(t, r, http.MethodPost, "/api/status", map[string]string{"client_name": ""})
	require.Equal(t, http.StatusOK, w.Code)
	var created models.StatusCheck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Empty(t, created.ClientName)
	assert.NotEmpty(t, created.ID)
}

func TestStatusListEmptyIsArray(t *testing.T) {
	r := newTestRouter(t, memory.New())

	w := do(t, r, http.MethodGet, "/api/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListUsers(t *testing.T) {
	stg := memory.New()
	svc := service.New(stg, logger.NewNop())
	require.NoError(t, svc.User().Register(context.Background(), "42", "abdu", "Abdu Kemal"))
	require.NoError(t, svc.User().SetLanguage(context.Background(), "42", "am"))
	r := NewRouter(svc, "*", logger.NewNop())

	w := do(t, r, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "42", users[0]["user_id"])
	assert.Equal(t, "am", users[0]["language"])
	assert.Equal(t, "abdu", users[0]["username"])
	assert.Equal(t, "Abdu Kemal", users[0]["full_name"])
	assert.Contains(t, users[0], "created_at")
}

func TestLogin(t *testing.T) {
	r := newTestRouter(t, memory.New())

	tests := []struct {
		path  string
		creds models.Credentials
		want  string
	}{
		{"/api/login/admin", models.Credentials{Username: "admin", Password: "admin123"}, `{"success":true,"message":"Admin login successful","role":"admin"}`},
		{"/api/login/teacher", models.Credentials{Username: "teacher", Password: "teacher123"}, `{"success":true,"message":"Teacher login successful","role":"teacher"}`},
		{"/api/login/student", models.Credentials{Username: "student", Password: "student123"}, `{"success":true,"message":"Student login successful","role":"student"}`},
		{"/api/login/admin", models.Credentials{Username: "admin", Password: "wrong"}, `{"success":false,"message":"Invalid credentials"}`},
		{"/api/login/teacher", models.Credentials{Username: "admin", Password: "admin123"}, `{"success":false,"message":"Invalid credentials"}`},
		{"/api/login/student", models.Credentials{}, `{"success":false,"message":"Invalid credentials"}`},
	}
	for _, tt := range tests {
		t.Run(tt.path+"/"+tt.creds.Username, func(t *testing.T) {
			w := do(t, r, http.MethodPost, tt.path, tt.creds)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestLoginMalformedBody(t *testing.T) {
	r := newTestRouter(t, memory.New())

	w := do(t, r, http.MethodPost, "/api/login/admin", "garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid credentials"}`, w.Body.String())
}

func TestLoginUnknownRole(t *testing.T) {
	r := newTestRouter(t, memory.New())

	w := do(t, r, http.MethodPost, "/api/login/root", models.Credentials{Username: "admin", Password: "admin123"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, memory.New())

	req := httptest.NewRequest(http.MethodOptions, "/api/status", nil)
	req.Header.Set("Origin", "https://portal.example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSConfigOrigins(t *testing.T) {
	cfg := corsConfig("https://a.example.org, https://b.example.org")
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.AllowOrigins)

	assert.True(t, corsConfig("*").AllowAllOrigins)
}

type brokenStorage struct{ storage.IStorage }

type brokenUsers struct{ storage.IUserStorage }

func (brokenUsers) GetAll(ctx context.Context) ([]*models.UserProfile, error) {
	return nil, errors.New("connection refused")
}

func (brokenStorage) User() storage.IUserStorage { return brokenUsers{} }

func TestListUsersStoreFailure(t *testing.T) {
	r := newTestRouter(t, brokenStorage{IStorage: memory.New()})

	w := do(t, r, http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}
