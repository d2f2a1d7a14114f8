package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/services"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services/container"
	"github.com/levanhoang792/manage-building-sub000/internal/error/response"
)

// InterfaceUserController 定义用户控制器接口
type InterfaceUserController interface {
	GetUsers()
	GetUser()
	CreateUser()
	UpdateUser()
	DeleteUser()
}

// UserController 管理后台用户，仅管理员可用
type UserController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewUserController 创建一个新的用户控制器
func NewUserController(ctx *gin.Context, container *container.ServiceContainer) *UserController {
	return &UserController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleUserFunc 返回一个处理用户请求的Gin处理函数
func HandleUserFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewUserController(ctx, container)

		switch method {
		case "getUsers":
			controller.GetUsers()
		case "getUser":
			controller.GetUser()
		case "createUser":
			controller.CreateUser()
		case "updateUser":
			controller.UpdateUser()
		case "deleteUser":
			controller.DeleteUser()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *UserController) service() services.InterfaceUserService {
	return c.Container.GetService("user").(services.InterfaceUserService)
}

// 1. GetUsers 获取用户列表
// @Summary 获取用户列表
// @Tags User
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Param role query string false "角色 admin|operator|viewer"
// @Param status query string false "状态 active|inactive"
// @Param search query string false "用户名/姓名/邮箱模糊搜索"
// @Success 200 {object} models.PaginatedResult
// @Failure 403 {object} ErrorResponse
// @Router /users [get]
func (c *UserController) GetUsers() {
	var filter services.UserFilter
	if !bindQuery(c.Ctx, &filter) {
		return
	}
	result, err := c.service().GetUsers(filter)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, result)
}

// 2. GetUser 获取用户详情
// @Summary 获取用户详情
// @Tags User
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get]
func (c *UserController) GetUser() {
	id, ok := uintParam(c.Ctx, "id", "user")
	if !ok {
		return
	}
	user, err := c.service().GetUserByID(id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, user)
}

// 3. CreateUser 创建用户
// @Summary 创建用户
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateUserInput true "用户信息"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Router /users [post]
func (c *UserController) CreateUser() {
	var input services.CreateUserInput
	if !bindJSON(c.Ctx, &input) {
		return
	}
	user, err := c.service().CreateUser(input, actorFrom(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, "User created successfully", user)
}

// 4. UpdateUser 更新用户
// @Summary 更新用户
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param request body services.UpdateUserInput true "需要修改的字段"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [put]
func (c *UserController) UpdateUser() {
	id, ok := uintParam(c.Ctx, "id", "user")
	if !ok {
		return
	}
	var input services.UpdateUserInput
	if !bindJSON(c.Ctx, &input) {
		return
	}
	user, err := c.service().UpdateUser(id, input, actorFrom(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.SuccessWithMessage(c.Ctx, "User updated successfully", user)
}

// 5. DeleteUser 删除用户；最后一个管理员不能删除
// @Summary 删除用户
// @Tags User
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [delete]
func (c *UserController) DeleteUser() {
	id, ok := uintParam(c.Ctx, "id", "user")
	if !ok {
		return
	}
	if err := c.service().DeleteUser(id, actorFrom(c.Ctx)); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.SuccessWithMessage(c.Ctx, "User deleted successfully", nil)
}
