package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-sync-todo/internal/models"
)

// TokenTTL はアクセストークンの有効期間です。
const TokenTTL = 24 * time.Hour

// JWTService はJWTトークンの生成と検証を扱います。
type JWTService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService は新しいJWTServiceを作成します。
func NewJWTService(secret string) (*JWTService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &JWTService{secret: []byte(secret), now: time.Now}, nil
}

// GenerateToken はJWTトークンを生成します。
func (s *JWTService) GenerateToken(userID, email, role string) (string, error) {
	now := s.now()
	claims := &jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken はJWTトークンを検証し、クレームを返します。
func (s *JWTService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("invalid user_id")
	}
	// 匿名ユーザーはメールを持たない
	email, _ := claims["email"].(string)
	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid role")
	}
	return &models.JWTClaims{UserID: userID, Email: email, Role: role}, nil
}
