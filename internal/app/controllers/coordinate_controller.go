package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/services"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services/container"
	"github.com/levanhoang792/manage-building-sub000/internal/error/response"
)

// CoordinateController 门在楼层平面图上的坐标
type CoordinateController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCoordinateController 创建坐标控制器
func NewCoordinateController(ctx *gin.Context, container *container.ServiceContainer) *CoordinateController {
	return &CoordinateController{Ctx: ctx, Container: container}
}

// HandleCoordinateFunc 返回一个处理门坐标请求的Gin处理函数
func HandleCoordinateFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCoordinateController(ctx, container)

		switch method {
		case "getCoordinates":
			controller.GetCoordinates()
		case "getCoordinate":
			controller.GetCoordinate()
		case "createCoordinate":
			controller.CreateCoordinate()
		case "updateCoordinate":
			controller.UpdateCoordinate()
		case "deleteCoordinate":
			controller.DeleteCoordinate()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *CoordinateController) service() services.InterfaceCoordinateService {
	return c.Container.GetService("coordinate").(services.InterfaceCoordinateService)
}

// GetCoordinates 门的全部坐标
// @Summary 门坐标列表
// @Tags Coordinate
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Param door_id path int true "门ID"
// @Success 200 {array} models.DoorCoordinate
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id}/doors/{door_id}/coordinates [get]
func (c *CoordinateController) GetCoordinates() {
	buildingID, floorID, doorID, ok := doorPath(c.Ctx)
	if !ok {
		return
	}
	coordinates, err := c.service().GetCoordinates(buildingID, floorID, doorID)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, coordinates)
}

// GetCoordinate 单个坐标
// @Summary 门坐标详情
// @Tags Coordinate
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Param door_id path int true "门ID"
// @Param coordinate_id path int true "坐标ID"
// @Success 200 {object} models.DoorCoordinate
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id}/doors/{door_id}/coordinates/{coordinate_id} [get]
func (c *CoordinateController) GetCoordinate() {
	buildingID, floorID, doorID, ok := doorPath(c.Ctx)
	if !ok {
		return
	}
	coordinateID, ok := uintParam(c.Ctx, "coordinate_id", "coordinate")
	if !ok {
		return
	}
	coordinate, err := c.service().GetCoordinate(buildingID, floorID, doorID, coordinateID)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, coordinate)
}

// CreateCoordinate 新增坐标
// @Summary 新增门坐标
// @Tags Coordinate
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Param door_id path int true "门ID"
// @Param request body services.CoordinateInput true "坐标"
// @Success 201 {object} models.DoorCoordinate
// @Failure 400 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id}/doors/{door_id}/coordinates [post]
func (c *CoordinateController) CreateCoordinate() {
	buildingID, floorID, doorID, ok := doorPath(c.Ctx)
	if !ok {
		return
	}
	var input services.CoordinateInput
	if !bindJSON(c.Ctx, &input) {
		return
	}
	coordinate, err := c.service().CreateCoordinate(buildingID, floorID, doorID, input, actorFrom(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "Coordinate created successfully", coordinate)
}

// UpdateCoordinate 修改坐标
// @Summary 修改门坐标
// @Tags Coordinate
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Param door_id path int true "门ID"
// @Param coordinate_id path int true "坐标ID"
// @Param request body services.CoordinateUpdateInput true "需要修改的字段"
// @Success 200 {object} models.DoorCoordinate
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id}/doors/{door_id}/coordinates/{coordinate_id} [put]
func (c *CoordinateController) UpdateCoordinate() {
	buildingID, floorID, doorID, ok := doorPath(c.Ctx)
	if !ok {
		return
	}
	coordinateID, ok := uintParam(c.Ctx, "coordinate_id", "coordinate")
	if !ok {
		return
	}
	var input services.CoordinateUpdateInput
	if !bindJSON(c.Ctx, &input) {
		return
	}
	coordinate, err := c.service().UpdateCoordinate(buildingID, floorID, doorID, coordinateID, input, actorFrom(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.SuccessWithMessage(c.Ctx, "Coordinate updated successfully", coordinate)
}

// DeleteCoordinate 删除坐标
// @Summary 删除门坐标
// @Tags Coordinate
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Param door_id path int true "门ID"
// @Param coordinate_id path int true "坐标ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id}/doors/{door_id}/coordinates/{coordinate_id} [delete]
func (c *CoordinateController) DeleteCoordinate() {
	buildingID, floorID, doorID, ok := doorPath(c.Ctx)
	if !ok {
		return
	}
	coordinateID, ok := uintParam(c.Ctx, "coordinate_id", "coordinate")
	if !ok {
		return
	}
	if err := c.service().DeleteCoordinate(buildingID, floorID, doorID, coordinateID, actorFrom(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.SuccessWithMessage(c.Ctx, "Coordinate deleted successfully", nil)
}
