package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services/container"
	"github.com/levanhoang792/manage-building-sub000/internal/error/response"
)

// DoorController 门的增删改查与启用状态
type DoorController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDoorController 创建门控制器
func NewDoorController(ctx *gin.Context, container *container.ServiceContainer) *DoorController {
	return &DoorController{Ctx: ctx, Container: container}
}

// DoorStatusRequest 修改门启用状态
type DoorStatusRequest struct {
	Status models.DoorStatus `json:"status" binding:"required" example:"maintenance"`
}

// HandleDoorFunc 返回一个处理门请求的Gin处理函数
func HandleDoorFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDoorController(ctx, container)

		switch method {
		case "getDoors":
			controller.GetDoors()
		case "getDoor":
			controller.GetDoor()
		case "createDoor":
			controller.CreateDoor()
		case "updateDoor":
			controller.UpdateDoor()
		case "deleteDoor":
			controller.DeleteDoor()
		case "updateDoorStatus":
			controller.UpdateDoorStatus()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *DoorController) service() services.InterfaceDoorService {
	return c.Container.GetService("door").(services.InterfaceDoorService)
}

// GetDoors 楼层下的门列表
// @Summary 门列表
// @Tags Door
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Param status query string false "active|inactive|maintenance"
// @Param lock_status query string false "open|closed"
// @Param door_type_id query int false "门类型"
// @Param search query string false "门名称"
// @Success 200 {object} models.PaginatedResult
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id}/doors [get]
func (c *DoorController) GetDoors() {
	buildingID, ok := uintParam(c.Ctx, "building_id", "building")
	if !ok {
		return
	}
	floorID, ok := uintParam(c.Ctx, "floor_id", "floor")
	if !ok {
		return
	}
	var filter services.DoorFilter
	if !bindQuery(c.Ctx, &filter) {
		return
	}
	result, err := c.service().GetDoors(buildingID, floorID, filter)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, result)
}

// GetDoor 门详情
// @Summary 门详情
// @Tags Door
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Param door_id path int true "门ID"
// @Success 200 {object} models.Door
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id}/doors/{door_id} [get]
func (c *DoorController) GetDoor() {
	buildingID, floorID, doorID, ok := doorPath(c.Ctx)
	if !ok {
		return
	}
	door, err := c.service().GetDoor(buildingID, floorID, doorID)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, door)
}

// CreateDoor 创建门
// @Summary 创建门
// @Tags Door
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Param request body services.DoorInput true "门信息"
// @Success 201 {object} models.Door
// @Failure 400 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id}/doors [post]
func (c *DoorController) CreateDoor() {
	buildingID, ok := uintParam(c.Ctx, "building_id", "building")
	if !ok {
		return
	}
	floorID, ok := uintParam(c.Ctx, "floor_id", "floor")
	if !ok {
		return
	}
	var input services.DoorInput
	if !bindJSON(c.Ctx, &input) {
		return
	}
	door, err := c.service().CreateDoor(buildingID, floorID, input, actorFrom(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "Door created successfully", door)
}

// UpdateDoor 更新门基本信息；锁状态与启用状态走各自的接口
// @Summary 更新门
// @Tags Door
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Param door_id path int true "门ID"
// @Param request body services.DoorUpdateInput true "需要修改的字段"
// @Success 200 {object} models.Door
// @Failure 400 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id}/doors/{door_id} [put]
func (c *DoorController) UpdateDoor() {
	buildingID, floorID, doorID, ok := doorPath(c.Ctx)
	if !ok {
		return
	}
	var input services.DoorUpdateInput
	if !bindJSON(c.Ctx, &input) {
		return
	}
	door, err := c.service().UpdateDoor(buildingID, floorID, doorID, input, actorFrom(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.SuccessWithMessage(c.Ctx, "Door updated successfully", door)
}

// DeleteDoor 删除门
// @Summary 删除门
// @Tags Door
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Param door_id path int true "门ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id}/doors/{door_id} [delete]
func (c *DoorController) DeleteDoor() {
	buildingID, floorID, doorID, ok := doorPath(c.Ctx)
	if !ok {
		return
	}
	if err := c.service().DeleteDoor(buildingID, floorID, doorID, actorFrom(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.SuccessWithMessage(c.Ctx, "Door deleted successfully", nil)
}

// UpdateDoorStatus 修改门启用状态并同步设备
// @Summary 修改门启用状态
// @Tags Door
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Param door_id path int true "门ID"
// @Param request body DoorStatusRequest true "新状态"
// @Success 200 {object} models.Door
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id}/doors/{door_id}/status [put]
func (c *DoorController) UpdateDoorStatus() {
	buildingID, floorID, doorID, ok := doorPath(c.Ctx)
	if !ok {
		return
	}
	var req DoorStatusRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	door, err := c.service().UpdateDoorStatus(c.Ctx.Request.Context(), buildingID, floorID, doorID, req.Status, actorFrom(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.SuccessWithMessage(c.Ctx, "Door status updated successfully", door)
}
