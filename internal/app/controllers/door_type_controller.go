package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/services"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services/container"
	"github.com/levanhoang792/manage-building-sub000/internal/error/response"
)

// DoorTypeController 门类型字典
type DoorTypeController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDoorTypeController 创建门类型控制器
func NewDoorTypeController(ctx *gin.Context, container *container.ServiceContainer) *DoorTypeController {
	return &DoorTypeController{Ctx: ctx, Container: container}
}

// HandleDoorTypeFunc 返回一个处理门类型请求的Gin处理函数
func HandleDoorTypeFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDoorTypeController(ctx, container)

		switch method {
		case "getDoorTypes":
			controller.GetDoorTypes()
		case "getDoorType":
			controller.GetDoorType()
		case "createDoorType":
			controller.CreateDoorType()
		case "updateDoorType":
			controller.UpdateDoorType()
		case "deleteDoorType":
			controller.DeleteDoorType()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *DoorTypeController) service() services.InterfaceDoorTypeService {
	return c.Container.GetService("door_type").(services.InterfaceDoorTypeService)
}

// GetDoorTypes 门类型列表
// @Summary 门类型列表
// @Tags DoorType
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Param search query string false "名称"
// @Success 200 {object} models.PaginatedResult
// @Router /door-types [get]
func (c *DoorTypeController) GetDoorTypes() {
	var filter services.DoorTypeFilter
	if !bindQuery(c.Ctx, &filter) {
		return
	}
	result, err := c.service().GetDoorTypes(filter)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, result)
}

// GetDoorType 门类型详情
// @Summary 门类型详情
// @Tags DoorType
// @Produce json
// @Security BearerAuth
// @Param id path int true "门类型ID"
// @Success 200 {object} models.DoorType
// @Failure 404 {object} ErrorResponse
// @Router /door-types/{id} [get]
func (c *DoorTypeController) GetDoorType() {
	id, ok := uintParam(c.Ctx, "id", "door type")
	if !ok {
		return
	}
	doorType, err := c.service().GetDoorTypeByID(id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, doorType)
}

// CreateDoorType 创建门类型
// @Summary 创建门类型
// @Tags DoorType
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.DoorTypeInput true "门类型"
// @Success 201 {object} models.DoorType
// @Failure 400 {object} ErrorResponse
// @Router /door-types [post]
func (c *DoorTypeController) CreateDoorType() {
	var input services.DoorTypeInput
	if !bindJSON(c.Ctx, &input) {
		return
	}
	doorType, err := c.service().CreateDoorType(input, actorFrom(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "Door type created successfully", doorType)
}

// UpdateDoorType 更新门类型
// @Summary 更新门类型
// @Tags DoorType
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "门类型ID"
// @Param request body services.DoorTypeUpdateInput true "需要修改的字段"
// @Success 200 {object} models.DoorType
// @Failure 400 {object} ErrorResponse
// @Router /door-types/{id} [put]
func (c *DoorTypeController) UpdateDoorType() {
	id, ok := uintParam(c.Ctx, "id", "door type")
	if !ok {
		return
	}
	var input services.DoorTypeUpdateInput
	if !bindJSON(c.Ctx, &input) {
		return
	}
	doorType, err := c.service().UpdateDoorType(id, input, actorFrom(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.SuccessWithMessage(c.Ctx, "Door type updated successfully", doorType)
}

// DeleteDoorType 删除门类型；仍被门引用时拒绝
// @Summary 删除门类型
// @Tags DoorType
// @Produce json
// @Security BearerAuth
// @Param id path int true "门类型ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} ErrorResponse
// @Router /door-types/{id} [delete]
func (c *DoorTypeController) DeleteDoorType() {
	id, ok := uintParam(c.Ctx, "id", "door type")
	if !ok {
		return
	}
	if err := c.service().DeleteDoorType(id, actorFrom(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.SuccessWithMessage(c.Ctx, "Door type deleted successfully", nil)
}
