package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/services"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services/container"
	"github.com/levanhoang792/manage-building-sub000/internal/error/response"
)

// InterfaceBuildingController 定义楼栋控制器接口
type InterfaceBuildingController interface {
	GetBuildings()
	GetBuilding()
	CreateBuilding()
	UpdateBuilding()
	DeleteBuilding()
}

// BuildingController 处理楼栋相关的请求
type BuildingController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewBuildingController 创建一个新的楼栋控制器
func NewBuildingController(ctx *gin.Context, container *container.ServiceContainer) *BuildingController {
	return &BuildingController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleBuildingFunc 返回一个处理楼栋请求的Gin处理函数
func HandleBuildingFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewBuildingController(ctx, container)

		switch method {
		case "getBuildings":
			controller.GetBuildings()
		case "getBuilding":
			controller.GetBuilding()
		case "createBuilding":
			controller.CreateBuilding()
		case "updateBuilding":
			controller.UpdateBuilding()
		case "deleteBuilding":
			controller.DeleteBuilding()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *BuildingController) service() services.InterfaceBuildingService {
	return c.Container.GetService("building").(services.InterfaceBuildingService)
}

// 1. GetBuildings 获取楼栋列表
// @Summary 获取楼栋列表
// @Description 分页获取楼栋，支持状态过滤与名称/地址搜索
// @Tags Building
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码，默认为1"
// @Param page_size query int false "每页条数，默认为10"
// @Param status query string false "active|inactive"
// @Param search query string false "名称或地址"
// @Param sort_by query string false "排序字段"
// @Param sort_order query string false "asc|desc"
// @Success 200 {object} models.PaginatedResult
// @Failure 400 {object} ErrorResponse
// @Router /buildings [get]
func (c *BuildingController) GetBuildings() {
	var filter services.BuildingFilter
	if !bindQuery(c.Ctx, &filter) {
		return
	}
	result, err := c.service().GetBuildings(filter)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, result)
}

// 2. GetBuilding 获取单个楼栋详情
// @Summary 获取楼栋详情
// @Tags Building
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Success 200 {object} models.Building
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id} [get]
func (c *BuildingController) GetBuilding() {
	id, ok := uintParam(c.Ctx, "building_id", "building")
	if !ok {
		return
	}
	building, err := c.service().GetBuildingByID(id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, building)
}

// 3. CreateBuilding 创建楼栋
// @Summary 创建楼栋
// @Tags Building
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.BuildingInput true "楼栋信息"
// @Success 201 {object} models.Building
// @Failure 400 {object} ErrorResponse
// @Router /buildings [post]
func (c *BuildingController) CreateBuilding() {
	var input services.BuildingInput
	if !bindJSON(c.Ctx, &input) {
		return
	}
	building, err := c.service().CreateBuilding(input, actorFrom(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "Building created successfully", building)
}

// 4. UpdateBuilding 更新楼栋
// @Summary 更新楼栋
// @Tags Building
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Param request body services.BuildingUpdateInput true "需要修改的字段"
// @Success 200 {object} models.Building
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id} [put]
func (c *BuildingController) UpdateBuilding() {
	id, ok := uintParam(c.Ctx, "building_id", "building")
	if !ok {
		return
	}
	var input services.BuildingUpdateInput
	if !bindJSON(c.Ctx, &input) {
		return
	}
	building, err := c.service().UpdateBuilding(id, input, actorFrom(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.SuccessWithMessage(c.Ctx, "Building updated successfully", building)
}

// 5. DeleteBuilding 删除楼栋
// @Summary 删除楼栋
// @Tags Building
// @Produce json
// @Security BearerAuth
// @Param building_id path int true "楼栋ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} ErrorResponse
// @Router /buildings/{building_id} [delete]
func (c *BuildingController) DeleteBuilding() {
	id, ok := uintParam(c.Ctx, "building_id", "building")
	if !ok {
		return
	}
	if err := c.service().DeleteBuilding(id, actorFrom(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.SuccessWithMessage(c.Ctx, "Building deleted successfully", nil)
}
