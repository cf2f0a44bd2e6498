// Package auth 提供注册、登录与 JWT 校验
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/agentxhq/agentx/internal/config"
	"github.com/agentxhq/agentx/internal/model"
	"github.com/agentxhq/agentx/internal/repository"
	"github.com/agentxhq/agentx/internal/service/types"
)

// Service 认证服务
type Service struct {
	repo *repository.Repositories
	cfg  *config.AuthConfig
}

// NewService 创建认证服务
func NewService(repo *repository.Repositories, cfg *config.AuthConfig) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	User  *model.UserInfo `json:"user"`
	Token string          `json:"token"`
}

// Register 注册用户
// 邮箱与用户名均要求唯一
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*model.UserInfo, error) {
	if existing, _ := s.repo.Auth.GetUserByEmail(req.Email); existing != nil {
		return nil, types.Validationf("user with this email already exists")
	}
	if existing, _ := s.repo.Auth.GetUserByUsername(req.Username); existing != nil {
		return nil, types.Validationf("user with this username already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleUser,
		IsActive:     true,
	}

	if err := s.repo.Auth.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user.ToUserInfo(), nil
}

// Login 用户登录
// 凭证错误与账号停用都返回同一类错误，不泄露具体原因
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.Auth.GetUserByEmail(req.Email)
	if err != nil || user == nil {
		return nil, types.AccessDeniedf("invalid email or password")
	}

	if !user.IsActive {
		return nil, types.AccessDeniedf("account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, types.AccessDeniedf("invalid email or password")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{User: user.ToUserInfo(), Token: token}, nil
}

// ValidateToken 验证令牌并返回对应用户
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*model.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, types.AccessDeniedf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, types.AccessDeniedf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, types.AccessDeniedf("invalid user ID in token")
	}

	user, err := s.repo.Auth.GetUserByID(userID)
	if err != nil || user == nil {
		return nil, types.AccessDeniedf("user not found")
	}
	if !user.IsActive {
		return nil, types.AccessDeniedf("account is disabled")
	}
	return user, nil
}

// ChangePassword 修改密码
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.repo.Auth.GetUserByID(userID)
	if err != nil {
		return types.NotFoundf("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return types.AccessDeniedf("invalid old password")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hashedPassword)
	return s.repo.Auth.UpdateUser(user)
}

// generateToken 生成访问令牌
func (s *Service) generateToken(user *model.User) (string, error) {
	expire := time.Duration(s.cfg.TokenExpireMinutes) * time.Minute
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(expire).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
