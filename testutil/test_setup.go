// Package testutil はテスト用のデータベースとルーターを用意します。
package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"go-sync-todo/internal/config"
	"go-sync-todo/internal/database"
	"go-sync-todo/internal/models"
	"go-sync-todo/internal/repositories"
	"go-sync-todo/internal/routes"
)

// TestJWTSecret はテストルーターが使う署名鍵です。
const TestJWTSecret = "test-secret"

// NewTestDB は一時ディレクトリに SQLite データベースを作成し、スキーマを適用します。
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.sqlite3")
	db, err := database.InitDB("sqlite", path)
	require.NoError(t, err, "Failed to set up test database")
	t.Cleanup(func() { db.Close() })
	return db
}

// SetupTestRouter はテスト用のGinルーターをセットアップします。
func SetupTestRouter(t *testing.T, db *sql.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r, err := routes.SetupRouter(db, &config.Server{
		DBDriver:    "sqlite",
		JWTSecret:   TestJWTSecret,
		CORSOrigins: []string{"http://localhost:3000"},
	})
	require.NoError(t, err)
	return r
}

// SetupTestDB はテスト用のデータベースとルーターを返します。
// normal_user@example.com (password123) と admin@example.com (adminpass) が登録済みです。
func SetupTestDB(t *testing.T) (*sql.DB, *gin.Engine, *repositories.UserRepository) {
	t.Helper()
	db := NewTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	CreateTestUser(t, userRepo, "normal_user", "normal_user@example.com", "password123", models.RoleUser)
	CreateTestUser(t, userRepo, "admin_user", "admin@example.com", "adminpass", models.RoleAdmin)
	return db, SetupTestRouter(t, db), userRepo
}

// CreateTestUser はテストユーザーを直接データベースに作成します。
func CreateTestUser(t *testing.T, userRepo *repositories.UserRepository, username, email, password, role string) *models.User {
	t.Helper()
	hashedPassword, err := repositories.HashPassword(password)
	require.NoError(t, err)

	createdUser, err := userRepo.Create(t.Context(), &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
	})
	require.NoError(t, err)
	require.NotEmpty(t, createdUser.ID)
	return createdUser
}

// PostJSON は JSON ボディでリクエストを送り、レコーダーを返します。token が空なら認証ヘッダーを付けません。
func PostJSON(t *testing.T, router http.Handler, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// LoginAndGetToken はログインしてトークンを返します。
func LoginAndGetToken(t *testing.T, router http.Handler, email, password string) (string, error) {
	t.Helper()
	w := PostJSON(t, router, "/api/login", "", map[string]string{"email": email, "password": password})
	if w.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", w.Code, w.Body.String())
	}
	var res models.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		return "", fmt.Errorf("failed to unmarshal login response: %w", err)
	}
	return res.Token, nil
}

// LoginAnonymous は匿名ログインしてレスポンスを返します。
func LoginAnonymous(t *testing.T, router http.Handler) models.LoginResponse {
	t.Helper()
	w := PostJSON(t, router, "/api/login/anonymous", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}
