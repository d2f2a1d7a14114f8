package code

// 响应码消息映射
var codeMessageMap = map[int]string{
	OK:                  "Success",
	Created:             "Created successfully",
	BadRequest:          "Bad request",
	Unauthorized:        "Unauthorized",
	Forbidden:           "Forbidden",
	NotFound:            "Resource not found",
	TooManyRequests:     "Too many requests, please try again later",
	InternalServerError: "Internal server error",

	TokenMissing:       "Authorization token is required",
	TokenInvalid:       "Invalid authorization token",
	TokenExpired:       "Authorization token has expired",
	PermissionDenied:   "You do not have permission to perform this action",
	InvalidCredentials: "Invalid username or password",
	AccountDisabled:    "Account is disabled",
}

// 响应码HTTP状态码映射
var codeStatusMap = map[int]int{
	OK:                  200,
	Created:             201,
	BadRequest:          400,
	Unauthorized:        401,
	Forbidden:           403,
	NotFound:            404,
	TooManyRequests:     429,
	InternalServerError: 500,

	TokenMissing:       401,
	TokenInvalid:       401,
	TokenExpired:       401,
	PermissionDenied:   403,
	InvalidCredentials: 401,
	AccountDisabled:    403,
}

// GetMessage 获取响应码对应的默认消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return codeMessageMap[InternalServerError]
}

// GetStatus 获取响应码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return 500
}
