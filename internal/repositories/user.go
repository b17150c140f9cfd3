package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt" // パスワードのハッシュ化用

	"go-sync-todo/internal/database"
	"go-sync-todo/internal/models"
)

// UserRepository はデータベース操作を行うための構造体です。
type UserRepository struct {
	DB *sql.DB
}

// NewUserRepository は新しいUserRepositoryインスタンスを作成します。
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// HashPassword は与えられたパスワードをbcryptでハッシュ化します。
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// VerifyPassword はハッシュ化されたパスワードと平文のパスワードを比較します。
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

var (
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrUserNotFound   = errors.New("user not found")
)

// Create は新しいユーザーをデータベースに挿入します。IDはUUIDで採番します。
// Email が空のユーザー (匿名) は NULL として保存され、UNIQUE 制約にかかりません。
func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	var email sql.NullString
	if u.Email != "" {
		email = sql.NullString{String: u.Email, Valid: true}
	}

	query := "INSERT INTO users (id, username, email, password_hash, role) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.DB.ExecContext(ctx, query, u.ID, u.Username, email, u.PasswordHash, u.Role); err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrDuplicateEmail
		}
		slog.Error("user_insert_failed", "error", err)
		return nil, fmt.Errorf("could not insert user: %w", err)
	}
	return u, nil
}

// FindByEmail はメールアドレスでユーザーを検索します。
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByID はIDでユーザーを検索します。
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) findOne(ctx context.Context, cond string, arg any) (*models.User, error) {
	query := "SELECT id, username, email, password_hash, role FROM users WHERE " + cond
	var (
		u     models.User
		email sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &email, &u.PasswordHash, &u.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		slog.Error("user_query_failed", "error", err)
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	u.Email = email.String
	return &u, nil
}
