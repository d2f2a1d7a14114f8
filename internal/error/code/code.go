package code

// 响应码 r. 与 HTTP 状态码同值的部分直接复用.
const (
	// OK - 200: 成功.
	OK = 200
	// Created - 201: 已创建.
	Created = 201
	// BadRequest - 400: 请求参数错误或业务规则不满足.
	BadRequest = 400
	// Unauthorized - 401: 未授权.
	Unauthorized = 401
	// Forbidden - 403: 禁止访问.
	Forbidden = 403
	// NotFound - 404: 资源不存在.
	NotFound = 404
	// TooManyRequests - 429: 请求过多.
	TooManyRequests = 429
	// InternalServerError - 500: 服务器内部错误.
	InternalServerError = 500
)

// 认证相关响应码 (1000 系列).
const (
	// TokenMissing - 401: 缺少认证令牌.
	TokenMissing = iota + 1001
	// TokenInvalid - 401: 令牌无效.
	TokenInvalid
	// TokenExpired - 401: 令牌过期.
	TokenExpired
	// PermissionDenied - 403: 权限不足.
	PermissionDenied
	// InvalidCredentials - 401: 用户名或密码错误.
	InvalidCredentials
	// AccountDisabled - 403: 账户已停用.
	AccountDisabled
)
