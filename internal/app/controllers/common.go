package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/levanhoang792/manage-building-sub000/internal/app/middleware"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/error/response"
)

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Message string      `json:"message" example:"Door not found"`
	R       int         `json:"r" example:"404"`
	Data    interface{} `json:"data"`
}

// actorFrom 当前登录用户（可为空）与来源 IP
func actorFrom(c *gin.Context) services.Actor {
	return services.Actor{
		UserID:    middleware.CurrentUserID(c),
		IPAddress: c.ClientIP(),
	}
}

// uintParam 解析路径参数；失败时写入 400 响应并返回 false
func uintParam(c *gin.Context, name, label string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		response.ParamError(c, "Invalid "+label+" ID")
		return 0, false
	}
	return uint(v), true
}

// doorPath 解析 /buildings/:building_id/floors/:floor_id/doors/:door_id
func doorPath(c *gin.Context) (buildingID, floorID, doorID uint, ok bool) {
	if buildingID, ok = uintParam(c, "building_id", "building"); !ok {
		return
	}
	if floorID, ok = uintParam(c, "floor_id", "floor"); !ok {
		return
	}
	doorID, ok = uintParam(c, "door_id", "door")
	return
}

// bindJSON 绑定请求体；失败时写入 400 响应
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.FailWithMessage(c, code.BadRequest, "Invalid request body: "+err.Error(), nil)
		return false
	}
	return true
}

// bindQuery 绑定查询参数；失败时写入 400 响应
func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.FailWithMessage(c, code.BadRequest, "Invalid query parameters: "+err.Error(), nil)
		return false
	}
	return true
}

// invalidMethod 路由表与控制器方法名不一致
func invalidMethod(c *gin.Context) {
	response.FailWithMessage(c, code.InternalServerError, "无效的方法", nil)
}
