package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/services"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services/container"
	"github.com/levanhoang792/manage-building-sub000/internal/error/response"
)

// HandleActivityLogFunc 操作日志查询，仅管理员
func HandleActivityLogFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		switch method {
		case "getActivityLogs":
			getActivityLogs(ctx, container)
		default:
			invalidMethod(ctx)
		}
	}
}

// getActivityLogs 操作日志列表
// @Summary 操作日志
// @Tags ActivityLog
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "操作人"
// @Param entity_type query string false "building|floor|door|door_type|door_coordinate|door_request|user"
// @Param entity_id query int false "实体ID"
// @Param action query string false "操作"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {object} models.PaginatedResult
// @Failure 403 {object} ErrorResponse
// @Router /activity-logs [get]
func getActivityLogs(ctx *gin.Context, container *container.ServiceContainer) {
	var filter services.ActivityLogFilter
	if !bindQuery(ctx, &filter) {
		return
	}
	activityService := container.GetService("activity_log").(services.InterfaceActivityLogService)
	result, err := activityService.GetActivityLogs(filter)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, result)
}
