package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/error/response"
)

// 上下文中的认证信息键
const (
	ContextUserID = "userID"
	ContextRole   = "role"
	ContextClaims = "claims"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(svc services.InterfaceJWTService) {
	jwtService = svc
}

// extractToken 从授权头中提取token，格式必须为 Bearer {token}
func extractToken(authHeader string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// parseRequest 校验请求中的令牌；没有 Authorization 头时返回 TokenMissing
func parseRequest(c *gin.Context) (*services.JWTClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, code.NewUnauthorized(code.TokenMissing, "%s", code.GetMessage(code.TokenMissing))
	}
	tokenString, ok := extractToken(authHeader)
	if !ok {
		return nil, code.NewUnauthorized(code.TokenInvalid, "Authorization header format must be Bearer {token}")
	}
	return jwtService.ValidateToken(tokenString)
}

func setClaims(c *gin.Context, claims *services.JWTClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextClaims, claims)
}

// Authenticate 要求有效令牌
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseRequest(c)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthentication 有令牌时解析并写入上下文，无令牌或令牌无效时按匿名处理
func OptionalAuthentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if claims, err := parseRequest(c); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRole 要求当前用户至少具有指定角色，须放在 Authenticate 之后
func RequireRole(required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			response.Unauthorized(c, code.TokenMissing, "")
			c.Abort()
			return
		}
		if !role.Satisfies(required) {
			response.FailWithMessage(c, code.PermissionDenied, code.GetMessage(code.PermissionDenied), nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID 当前登录用户 ID，匿名请求返回 nil
func CurrentUserID(c *gin.Context) *uint {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		return nil
	}
	return &id
}

// CurrentRole 当前登录用户角色
func CurrentRole(c *gin.Context) (models.Role, bool) {
	v, ok := c.Get(ContextRole)
	if !ok {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}

// CurrentClaims 当前令牌内容
func CurrentClaims(c *gin.Context) (*services.JWTClaims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*services.JWTClaims)
	return claims, ok
}
