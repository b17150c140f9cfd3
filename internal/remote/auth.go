package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-sync-todo/internal/models"
)

// AuthClient はデータAPIの REST 認証エンドポイントを呼び出します。
type AuthClient struct {
	baseURL string
	http    *http.Client
}

// NewAuthClient は新しいAuthClientを作成します。
func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{baseURL: baseURL, http: &http.Client{Timeout: 15 * time.Second}}
}

// Login はメールアドレスとパスワードでログインします。
func (a *AuthClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var res models.LoginResponse
	req := models.UserLoginRequest{Email: email, Password: password}
	if err := a.post(ctx, "/api/login", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// LoginAnonymous は匿名ユーザーとしてログインします。
func (a *AuthClient) LoginAnonymous(ctx context.Context) (*models.LoginResponse, error) {
	var res models.LoginResponse
	if err := a.post(ctx, "/api/login/anonymous", struct{}{}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register はユーザーを登録します。トークンは返らないので続けて Login します。
func (a *AuthClient) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	var u models.User
	req := models.UserRegisterRequest{Username: username, Email: email, Password: password}
	if err := a.post(ctx, "/api/register", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Me はトークンのユーザーを返します。
func (a *AuthClient) Me(ctx context.Context, token string) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	var u models.User
	if err := a.do(req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (a *AuthClient) post(ctx context.Context, path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, out)
}

func (a *AuthClient) do(req *http.Request, out any) error {
	res, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if res.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = http.StatusText(res.StatusCode)
		}
		return fmt.Errorf("%s: %s", req.URL.Path, apiErr.Error)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
