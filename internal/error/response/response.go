package response

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/pkg/logger"
)

// Response 定义统一的响应格式
type Response struct {
	Message string      `json:"message"`
	R       int         `json:"r"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(code.GetStatus(code.OK), Response{
		Message: code.GetMessage(code.OK),
		R:       code.OK,
		Data:    data,
	})
}

// SuccessWithMessage 成功响应（自定义消息）
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(code.GetStatus(code.OK), Response{Message: message, R: code.OK, Data: data})
}

// Created 创建成功响应
func Created(c *gin.Context, message string, data interface{}) {
	if message == "" {
		message = code.GetMessage(code.Created)
	}
	c.JSON(code.GetStatus(code.Created), Response{Message: message, R: code.Created, Data: data})
}

// Fail 失败响应
func Fail(c *gin.Context, r int, data interface{}) {
	c.JSON(code.GetStatus(r), Response{
		Message: code.GetMessage(r),
		R:       r,
		Data:    data,
	})
}

// FailWithMessage 失败响应（自定义消息）
func FailWithMessage(c *gin.Context, r int, message string, data interface{}) {
	c.JSON(code.GetStatus(r), Response{
		Message: message,
		R:       r,
		Data:    data,
	})
}

// Error 将服务层错误翻译为响应信封；非结构化错误只返回通用 500 消息
func Error(c *gin.Context, err error) {
	if appErr, ok := code.As(err); ok && appErr.Kind != code.KindServer {
		FailWithMessage(c, appErr.Code, appErr.Message, nil)
		return
	}

	logger.L().Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	ServerError(c)
}

// ParamError 参数错误响应
func ParamError(c *gin.Context, message string) {
	if message == "" {
		message = code.GetMessage(code.BadRequest)
	}
	FailWithMessage(c, code.BadRequest, message, nil)
}

// ServerError 服务器错误响应
func ServerError(c *gin.Context) {
	Fail(c, code.InternalServerError, nil)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = code.GetMessage(code.NotFound)
	}
	FailWithMessage(c, code.NotFound, message, nil)
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context, r int, message string) {
	if message == "" {
		message = code.GetMessage(r)
	}
	FailWithMessage(c, r, message, nil)
}
