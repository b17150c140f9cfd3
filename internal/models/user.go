package models

// User はユーザーのデータベース構造体を表します。
// 匿名ユーザーは Email と PasswordHash を持ちません。
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"-"` // JSONに出さない
	Role         string `json:"role"`
}

// UserRegisterRequest はユーザー登録リクエストの構造体です。
type UserRegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"` // 生パスワード
}

// UserLoginRequest はユーザーログインリクエストの構造体です。
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"` // 生パスワード
}

// LoginResponse はログイン成功時のレスポンスです。
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// JWTClaims はトークンから取り出したユーザー情報です。
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
