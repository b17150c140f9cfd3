// Package config は環境変数 (.env を含む) から設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv は .env を読み込みます。ファイルが無い場合はエラーにしません。
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Server はデータAPIサーバーの設定です。
type Server struct {
	Port        string
	DBDriver    string // "mysql" または "sqlite"
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBPath      string // sqlite のファイルパス
	JWTSecret   string
	CORSOrigins []string
	LogLevel    slog.Level
}

// ServerFromEnv は環境変数からサーバー設定を作成します。
func ServerFromEnv() (*Server, error) {
	cfg := &Server{
		Port:        getenv("PORT", "8080"),
		DBDriver:    getenv("DB_DRIVER", "mysql"),
		DBUser:      os.Getenv("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"),
		DBHost:      getenv("DB_HOST", "127.0.0.1"),
		DBPort:      getenv("DB_PORT", "3306"),
		DBName:      os.Getenv("DB_NAME"),
		DBPath:      getenv("DB_PATH", "todo.sqlite3"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigins: splitList(getenv("CORS_ORIGINS", "http://localhost:3000")),
		LogLevel:    parseLevel(os.Getenv("LOG_LEVEL")),
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable not set")
	}
	switch cfg.DBDriver {
	case "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

// DSN はドライバーに渡す接続文字列を返します。
// 例: user:pass@tcp(db:3306)/dbname?parseTime=true
func (c *Server) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.DBPath
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

// Client は todo コマンドの設定です。
type Client struct {
	APIURL string
	Token  string // 保存済みの認証情報より優先
	UserID string
	Debug  bool
}

// ClientFromEnv は環境変数からクライアント設定を作成します。
func ClientFromEnv() *Client {
	return &Client{
		APIURL: strings.TrimRight(getenv("TODO_API_URL", "http://localhost:8080"), "/"),
		Token:  strings.TrimSpace(os.Getenv("TODO_TOKEN")),
		UserID: strings.TrimSpace(os.Getenv("TODO_USER_ID")),
		Debug:  os.Getenv("TODO_DEBUG") != "",
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
