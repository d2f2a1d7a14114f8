package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/config"
	"github.com/levanhoang792/manage-building-sub000/pkg/utils"
)

// InterfaceJWTService 定义JWT服务接口
type InterfaceJWTService interface {
	GenerateToken(user *models.User) (string, time.Time, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
	Login(username, password string) (*LoginResult, error)
}

// LoginResult 表示登录结果
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// JWTService 提供JWT相关服务
type JWTService struct {
	secretKey string
	issuer    string
	expiry    time.Duration
	DB        *gorm.DB
}

// JWTClaims 定义JWT令牌的声明结构
type JWTClaims struct {
	UserID   uint        `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTService 创建一个新的JWT服务
func NewJWTService(cfg *config.Config, db *gorm.DB) InterfaceJWTService {
	expiry := cfg.JWTExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &JWTService{
		secretKey: cfg.JWTSecretKey,
		issuer:    "building-access-service",
		expiry:    expiry,
		DB:        db,
	}
}

// GenerateToken 生成JWT令牌
func (s *JWTService) GenerateToken(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiry)

	claims := &JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken 验证JWT令牌，过期与无效分别返回 TokenExpired / TokenInvalid
func (s *JWTService) ValidateToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, code.NewUnauthorized(code.TokenExpired, "%s", code.GetMessage(code.TokenExpired))
		}
		return nil, code.NewUnauthorized(code.TokenInvalid, "%s", code.GetMessage(code.TokenInvalid))
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, code.NewUnauthorized(code.TokenInvalid, "%s", code.GetMessage(code.TokenInvalid))
	}
	return claims, nil
}

// Login 处理用户登录请求
func (s *JWTService) Login(username, password string) (*LoginResult, error) {
	var user models.User
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.NewUnauthorized(code.InvalidCredentials, "%s", code.GetMessage(code.InvalidCredentials))
		}
		return nil, code.Wrap(err, "load user")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, code.NewUnauthorized(code.InvalidCredentials, "%s", code.GetMessage(code.InvalidCredentials))
	}
	if user.Status != "" && user.Status != models.UserStatusActive {
		return nil, code.NewForbidden(code.AccountDisabled, "%s", code.GetMessage(code.AccountDisabled))
	}

	token, expiresAt, err := s.GenerateToken(&user)
	if err != nil {
		return nil, code.Wrap(err, "sign token")
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: &user}, nil
}
