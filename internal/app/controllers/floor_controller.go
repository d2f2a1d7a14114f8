package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/services"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services/container"
	"github.com/levanhoang792/manage-building-sub000/internal/error/response"
)

// FloorController 处理楼层请求，所有路径都在楼栋之下
type FloorController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewFloorController 创建一个新的楼层控制器
func NewFloorController(ctx *gin.Context, container *container.ServiceContainer) *FloorController {
	return &FloorController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleFloorFunc 返回一个处理楼层请求的Gin处理函数
func HandleFloorFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewFloorController(ctx, container)

		switch method {
		case "getFloors":
			controller.GetFloors()
		case "getFloor":
			controller.GetFloor()
		case "createFloor":
			controller.CreateFloor()
		case "updateFloor":
			controller.UpdateFloor()
		case "deleteFloor":
			controller.DeleteFloor()
		case "getLayout":
			controller.GetLayout()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *FloorController) service() services.InterfaceFloorService {
	return c.Container.GetService("floor").(services.InterfaceFloorService)
}

func (c *FloorController) floorPath() (buildingID, floorID uint, ok bool) {
	if buildingID, ok = uintParam(c.Ctx, "building_id", "building"); !ok {
		return
	}
	floorID, ok = uintParam(c.Ctx, "floor_id", "floor")
	return
}

// GetFloors 获取楼层列表
// @Summary 获取楼层列表
// @Tags Floor
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Param status query string false "active|inactive"
// @Param search query string false "楼层名称"
// @Success 200 {object} models.PaginatedResult
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id}/floors [get]
func (c *FloorController) GetFloors() {
	buildingID, ok := uintParam(c.Ctx, "building_id", "building")
	if !ok {
		return
	}
	var filter services.FloorFilter
	if !bindQuery(c.Ctx, &filter) {
		return
	}
	result, err := c.service().GetFloors(buildingID, filter)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, result)
}

// GetFloor 获取楼层详情
// @Summary 获取楼层详情
// @Tags Floor
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Success 200 {object} models.Floor
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id} [get]
func (c *FloorController) GetFloor() {
	buildingID, floorID, ok := c.floorPath()
	if !ok {
		return
	}
	floor, err := c.service().GetFloor(buildingID, floorID)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, floor)
}

// CreateFloor 创建楼层
// @Summary 创建楼层
// @Tags Floor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param request body services.FloorInput true "楼层信息"
// @Success 201 {object} models.Floor
// @Failure 400 {object} ErrorResponse
// @Router /buildings/{building_id}/floors [post]
func (c *FloorController) CreateFloor() {
	buildingID, ok := uintParam(c.Ctx, "building_id", "building")
	if !ok {
		return
	}
	var input services.FloorInput
	if !bindJSON(c.Ctx, &input) {
		return
	}
	floor, err := c.service().CreateFloor(buildingID, input, actorFrom(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "Floor created successfully", floor)
}

// UpdateFloor 更新楼层
// @Summary 更新楼层
// @Tags Floor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Param request body services.FloorUpdateInput true "需要修改的字段"
// @Success 200 {object} models.Floor
// @Failure 400 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id} [put]
func (c *FloorController) UpdateFloor() {
	buildingID, floorID, ok := c.floorPath()
	if !ok {
		return
	}
	var input services.FloorUpdateInput
	if !bindJSON(c.Ctx, &input) {
		return
	}
	floor, err := c.service().UpdateFloor(buildingID, floorID, input, actorFrom(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.SuccessWithMessage(c.Ctx, "Floor updated successfully", floor)
}

// DeleteFloor 删除楼层
// @Summary 删除楼层
// @Tags Floor
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id} [delete]
func (c *FloorController) DeleteFloor() {
	buildingID, floorID, ok := c.floorPath()
	if !ok {
		return
	}
	if err := c.service().DeleteFloor(buildingID, floorID, actorFrom(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.SuccessWithMessage(c.Ctx, "Floor deleted successfully", nil)
}

// GetLayout 楼层平面图上的门位置（GeoJSON）
// @Summary 楼层门位置布局
// @Tags Floor
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param floor_id path int true "楼层ID"
// @Success 200 {object} services.FloorLayout
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id}/floors/{floor_id}/layout [get]
func (c *FloorController) GetLayout() {
	buildingID, floorID, ok := c.floorPath()
	if !ok {
		return
	}
	coordinateService := c.Container.GetService("coordinate").(services.InterfaceCoordinateService)
	layout, err := coordinateService.GetFloorLayout(buildingID, floorID)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, layout)
}
