// Package credentials は todo コマンドのログイン情報を保存します。
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	dirName      = ".synctodo"
	credFileName = "credentials.json"
)

// Source はトークンの取得元です。
const (
	SourceEnv  = "env"
	SourceFile = "file"
)

// Credentials はデータAPIのトークンとそのユーザーIDです。
type Credentials struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Anonymous bool      `json:"anonymous,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

func credFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName, credFileName), nil
}

// Get は保存されたログイン情報を返します。未ログインなら nil, nil です。
// envToken (TODO_TOKEN) が空でなければファイルより優先します。
func Get(envToken, envUserID string) (*Credentials, error) {
	if envToken = stripBearer(strings.TrimSpace(envToken)); envToken != "" {
		return &Credentials{Token: envToken, UserID: strings.TrimSpace(envUserID), Source: SourceEnv}, nil
	}

	p, err := credFilePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	c.Token = stripBearer(c.Token)
	c.Source = SourceFile
	return &c, nil
}

// Set はログイン情報を ~/.synctodo/credentials.json (0600) に書き込みます。
func Set(c Credentials) error {
	c.Token = stripBearer(strings.TrimSpace(c.Token))
	if c.Token == "" {
		return errors.New("empty token")
	}
	if c.UserID == "" {
		return errors.New("empty user id")
	}
	p, err := credFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	c.Source = SourceFile
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Delete は保存されたログイン情報を削除します。無ければ何もしません。
func Delete() error {
	p, err := credFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
