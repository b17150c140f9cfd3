package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sync-todo/internal/models"
	"go-sync-todo/testutil"
)

func TestRegisterUser_Success(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)

	w := testutil.PostJSON(t, r, "/api/register", "", map[string]string{
		"username": "newuser",
		"email":    "newuser@example.com",
		"password": "newpassword",
	})

	assert.Equal(t, http.StatusCreated, w.Code, "Expected HTTP Status Code 201 Created")

	var responseUser models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseUser))
	assert.NotEmpty(t, responseUser.ID, "Expected a User ID")
	assert.Equal(t, "newuser", responseUser.Username)
	assert.Equal(t, "newuser@example.com", responseUser.Email)
	assert.Equal(t, "user", responseUser.Role, "Expected default role to be 'user'")
	assert.NotContains(t, w.Body.String(), "password", "Password hash should not be returned in response")
}

func TestRegisterUser_InvalidInput(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{"missing password", map[string]string{"username": "u", "email": "u@example.com"}},
		{"short password", map[string]string{"username": "u", "email": "u@example.com", "password": "short"}},
		{"bad email", map[string]string{"username": "u", "email": "not-an-email", "password": "longenough"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.PostJSON(t, r, "/api/register", "", tt.payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var response map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, "Invalid request payload", response["error"])
		})
	}
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)

	w := testutil.PostJSON(t, r, "/api/register", "", map[string]string{
		"username": "someone",
		"email":    "normal_user@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginUser_Success(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)

	w := testutil.PostJSON(t, r, "/api/login", "", map[string]string{
		"email":    "normal_user@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.UserID)
	assert.Equal(t, "user", res.Role)
}

func TestLoginUser_InvalidCredentials(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)

	for name, payload := range map[string]map[string]string{
		"wrong password": {"email": "normal_user@example.com", "password": "wrongpassword"},
		"unknown email":  {"email": "nobody@example.com", "password": "password123"},
	} {
		t.Run(name, func(t *testing.T) {
			w := testutil.PostJSON(t, r, "/api/login", "", payload)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAnonymousLogin(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)

	first := testutil.LoginAnonymous(t, r)
	second := testutil.LoginAnonymous(t, r)
	assert.NotEmpty(t, first.Token)
	assert.NotEqual(t, first.UserID, second.UserID, "each anonymous login is a fresh identity")

	req, _ := http.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+first.Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var me models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, first.UserID, me.ID)
	assert.Empty(t, me.Email)
}

func TestAuthMiddleware(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"no bearer prefix", "Token abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestHelloAndDBCheck(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)

	for _, path := range []string{"/api/hello", "/api/dbcheck"} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
