package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"go-sync-todo/internal/models"
	"go-sync-todo/internal/repositories"
)

// ErrInvalidCredentials はメールアドレスまたはパスワードが一致しないことを表します。
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService はユーザー関連のビジネスロジックを扱います。
type UserService struct {
	userRepo *repositories.UserRepository
}

// NewUserService は新しいUserServiceを作成します。
func NewUserService(userRepo *repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// RegisterUser はユーザーを登録します。
func (s *UserService) RegisterUser(ctx context.Context, req models.UserRegisterRequest) (*models.User, error) {
	hashedPassword, err := repositories.HashPassword(req.Password)
	if err != nil {
		slog.Error("password_hash_failed", "error", err)
		return nil, err
	}

	newUser := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         models.RoleUser,
	}

	createdUser, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		return nil, err
	}
	createdUser.PasswordHash = ""
	return createdUser, nil
}

// AuthenticateUser はユーザーを認証し、成功したらユーザーを返します。
// 存在しないメールアドレスも ErrInvalidCredentials になります。
func (s *UserService) AuthenticateUser(ctx context.Context, req models.UserLoginRequest) (*models.User, error) {
	foundUser, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := repositories.VerifyPassword(foundUser.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	foundUser.PasswordHash = ""
	return foundUser, nil
}

// LoginAnonymous は新しい匿名ユーザーを作成します。
func (s *UserService) LoginAnonymous(ctx context.Context) (*models.User, error) {
	id := uuid.NewString()
	u, err := s.userRepo.Create(ctx, &models.User{
		ID:       id,
		Username: "anonymous-" + id[:8],
		Role:     models.RoleUser,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create anonymous user: %w", err)
	}
	return u, nil
}

// GetUser はIDでユーザーを取得します。
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}
