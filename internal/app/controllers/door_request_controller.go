package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services/container"
	"github.com/levanhoang792/manage-building-sub000/internal/error/response"
)

// DoorRequestController 访客开门申请
type DoorRequestController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDoorRequestController 创建开门申请控制器
func NewDoorRequestController(ctx *gin.Context, container *container.ServiceContainer) *DoorRequestController {
	return &DoorRequestController{Ctx: ctx, Container: container}
}

// ResolveRequestBody 审批或拒绝申请
type ResolveRequestBody struct {
	Status models.DoorRequestStatus `json:"status" binding:"required" example:"approved"`
	Reason *string                  `json:"reason" example:"Visitor verified"`
}

// HandleDoorRequestFunc 返回一个处理开门申请的Gin处理函数
func HandleDoorRequestFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDoorRequestController(ctx, container)

		switch method {
		case "createRequest":
			controller.CreateRequest()
		case "getRequests":
			controller.GetRequests()
		case "getRequest":
			controller.GetRequest()
		case "resolveRequest":
			controller.ResolveRequest()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *DoorRequestController) service() services.InterfaceDoorRequestService {
	return c.Container.GetService("door_request").(services.InterfaceDoorRequestService)
}

// CreateRequest 提交开门申请，无需登录
// @Summary 提交开门申请
// @Tags DoorRequest
// @Accept json
// @Produce json
// @Param request body services.CreateDoorRequestInput true "申请信息"
// @Success 201 {object} models.DoorRequestDetail
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /door-requests [post]
func (c *DoorRequestController) CreateRequest() {
	var input services.CreateDoorRequestInput
	if !bindJSON(c.Ctx, &input) {
		return
	}
	detail, err := c.service().CreateRequest(c.Ctx.Request.Context(), input, actorFrom(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "Door request created successfully", detail)
}

// GetRequests 申请列表
// @Summary 开门申请列表
// @Tags DoorRequest
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending|approved|rejected"
// @Param door_id query int false "门ID"
// @Param building_id query int false "楼栋ID"
// @Param floor_id query int false "楼层ID"
// @Param search query string false "申请人/用途"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {object} models.PaginatedResult
// @Router /door-requests [get]
func (c *DoorRequestController) GetRequests() {
	var filter services.DoorRequestFilter
	if !bindQuery(c.Ctx, &filter) {
		return
	}
	result, err := c.service().ListRequests(filter)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, result)
}

// GetRequest 申请详情
// @Summary 开门申请详情
// @Tags DoorRequest
// @Produce json
// @Security BearerAuth
// @Param id path int true "申请ID"
// @Success 200 {object} models.DoorRequestDetail
// @Failure 404 {object} ErrorResponse
// @Router /door-requests/{id} [get]
func (c *DoorRequestController) GetRequest() {
	id, ok := uintParam(c.Ctx, "id", "door request")
	if !ok {
		return
	}
	detail, err := c.service().GetRequest(id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, detail)
}

// ResolveRequest 审批（切换门锁）或拒绝申请；每个申请只能处理一次
// @Summary 处理开门申请
// @Tags DoorRequest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "申请ID"
// @Param request body ResolveRequestBody true "approved|rejected"
// @Success 200 {object} models.DoorRequestDetail
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /door-requests/{id}/status [put]
func (c *DoorRequestController) ResolveRequest() {
	id, ok := uintParam(c.Ctx, "id", "door request")
	if !ok {
		return
	}
	var body ResolveRequestBody
	if !bindJSON(c.Ctx, &body) {
		return
	}
	detail, err := c.service().ResolveRequest(c.Ctx.Request.Context(), services.ResolveDoorRequestInput{
		ID:     id,
		Status: body.Status,
		Reason: body.Reason,
		Actor:  actorFrom(c.Ctx),
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.SuccessWithMessage(c.Ctx, "Door request "+string(detail.Status), detail)
}
