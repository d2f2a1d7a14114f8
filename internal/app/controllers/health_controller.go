package controllers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/levanhoang792/manage-building-sub000/internal/app/middleware"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services/container"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/error/response"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/database"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/realtime"
)

var startedAt = time.Now()

// HealthCheckController 健康检查控制器
type HealthCheckController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewHealthCheckController 创建健康检查控制器实例
func NewHealthCheckController(ctx *gin.Context, container *container.ServiceContainer) *HealthCheckController {
	return &HealthCheckController{Ctx: ctx, Container: container}
}

// HandleHealthFunc 返回健康检查相关的处理函数
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthCheckController(ctx, container)

		switch method {
		case "ping":
			controller.Ping()
		case "status":
			controller.Status()
		case "cacheStats":
			controller.CacheStats()
		default:
			invalidMethod(ctx)
		}
	}
}

// Ping 健康检查端点
// @Summary Ping
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router /ping [get]
func (h *HealthCheckController) Ping() {
	response.Success(h.Ctx, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// Status 依赖组件状态：数据库、Redis、设备平台与 WebSocket 连接数
// @Summary 服务状态
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} ErrorResponse
// @Router /health/status [get]
func (h *HealthCheckController) Status() {
	components := gin.H{}
	healthy := true

	if err := database.Ping(h.Container.GetDB()); err != nil {
		healthy = false
		components["database"] = gin.H{"status": "down", "error": err.Error()}
	} else {
		components["database"] = gin.H{"status": "up"}
	}

	if client := h.Container.Redis(); client != nil {
		ctx, cancel := context.WithTimeout(h.Ctx.Request.Context(), 2*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			components["redis"] = gin.H{"status": "down", "error": err.Error()}
		} else {
			components["redis"] = gin.H{"status": "up"}
		}
	} else {
		components["redis"] = gin.H{"status": "disabled"}
	}

	if deviceSync, ok := h.Container.GetService("device_sync").(services.InterfaceDeviceSyncService); ok && deviceSync != nil {
		components["thingsboard"] = deviceSync.Status()
	}
	if hub, ok := h.Container.GetService("hub").(*realtime.Hub); ok && hub != nil {
		components["websocket"] = gin.H{"clients": hub.ClientCount()}
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	data := gin.H{
		"status":     "healthy",
		"uptime":     time.Since(startedAt).Round(time.Second).String(),
		"goroutines": runtime.NumGoroutine(),
		"memory_mb":  mem.Alloc / 1024 / 1024,
		"components": components,
	}
	if !healthy {
		data["status"] = "unhealthy"
		h.Ctx.JSON(http.StatusServiceUnavailable, response.Response{
			Message: "Service unhealthy",
			R:       code.InternalServerError,
			Data:    data,
		})
		return
	}
	response.Success(h.Ctx, data)
}

// CacheStats 响应缓存统计
// @Summary 缓存统计
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router /health/cache-stats [get]
func (h *HealthCheckController) CacheStats() {
	response.Success(h.Ctx, middleware.CacheStats())
}
