package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services/container"
	"github.com/levanhoang792/manage-building-sub000/internal/error/response"
)

// LockController 门锁状态与开关锁历史
type LockController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewLockController 创建门锁控制器
func NewLockController(ctx *gin.Context, container *container.ServiceContainer) *LockController {
	return &LockController{Ctx: ctx, Container: container}
}

// LockStatusRequest 手动开关锁
type LockStatusRequest struct {
	LockStatus models.LockStatus `json:"lock_status" binding:"required" example:"open"`
	Reason     string            `json:"reason" example:"Delivery"`
}

// HandleLockFunc 返回一个处理门锁请求的Gin处理函数
func HandleLockFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewLockController(ctx, container)

		switch method {
		case "getLockStatus":
			controller.GetLockStatus()
		case "updateLockStatus":
			controller.UpdateLockStatus()
		case "getLockHistory":
			controller.GetLockHistory()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *LockController) service() services.InterfaceLockService {
	return c.Container.GetService("lock").(services.InterfaceLockService)
}

// GetLockStatus 当前锁状态
// @Summary 门锁状态
// @Tags Lock
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Param door_id path int true "门ID"
// @Success 200 {object} services.LockStatusView
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id}/doors/{door_id}/lock [get]
func (c *LockController) GetLockStatus() {
	buildingID, floorID, doorID, ok := doorPath(c.Ctx)
	if !ok {
		return
	}
	view, err := c.service().GetLockStatus(buildingID, floorID, doorID)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, view)
}

// UpdateLockStatus 手动开锁或关锁
// @Summary 开关门锁
// @Description 只有启用中的门可以修改锁状态；目标状态与当前相同时拒绝
// @Tags Lock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Param door_id path int true "门ID"
// @Param request body LockStatusRequest true "目标状态"
// @Success 200 {object} services.LockChange
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id}/doors/{door_id}/lock [put]
func (c *LockController) UpdateLockStatus() {
	buildingID, floorID, doorID, ok := doorPath(c.Ctx)
	if !ok {
		return
	}
	var req LockStatusRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	change, err := c.service().UpdateLockStatus(c.Ctx.Request.Context(), services.LockUpdateInput{
		BuildingID: buildingID,
		FloorID:    floorID,
		DoorID:     doorID,
		LockStatus: req.LockStatus,
		Reason:     req.Reason,
		Actor:      actorFrom(c.Ctx),
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.SuccessWithMessage(c.Ctx, "Lock status updated successfully", change)
}

// GetLockHistory 开关锁历史
// @Summary 门锁历史
// @Tags Lock
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Param door_id path int true "门ID"
// @Param new_status query string false "open|closed"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {object} models.PaginatedResult
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id}/doors/{door_id}/lock-history [get]
func (c *LockController) GetLockHistory() {
	buildingID, floorID, doorID, ok := doorPath(c.Ctx)
	if !ok {
		return
	}
	var filter services.LockHistoryFilter
	if !bindQuery(c.Ctx, &filter) {
		return
	}
	result, err := c.service().GetLockHistory(buildingID, floorID, doorID, filter)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, result)
}
