package controller

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/middleware"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/response"
	"github.com/Xushengqwer/actor_hub/service/guard"
	service "github.com/Xushengqwer/actor_hub/service/userManage"
)

// UserManageController 处理管理员维护系统账户的请求。
type UserManageController struct {
	userService service.UserManageService
	logger      *core.ZapLogger
}

// NewUserManageController 创建一个新的 UserManageController 实例。
// 参数:
//   - userService: 用户管理服务。
//   - logger: 日志记录器。
func NewUserManageController(userService service.UserManageService, logger *core.ZapLogger) *UserManageController {
	return &UserManageController{userService: userService, logger: logger}
}

// ListUsersHandler 分页查询账户。
// @Summary 用户列表 (管理员)
// @Description 按角色、状态、用户名过滤账户；count_only=true 时只返回一条包含 total_count 的汇总记录。
// @Tags 用户管理 (User Management)
// @Produce json
// @Security BearerAuth
// @Param skip query int false "跳过条数"
// @Param limit query int false "返回条数，默认 100"
// @Param role query string false "角色" Enums(performer, manager, admin)
// @Param status query string false "状态" Enums(active, inactive, banned)
// @Param username query string false "用户名模糊匹配"
// @Param count_only query bool false "只返回总数"
// @Success 200 {object} docs.SwaggerAPIUserListVOResponse "查询成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "非管理员"
// @Router /api/v1/system/users [get]
func (ctrl *UserManageController) ListUsersHandler(c *gin.Context) {
	const operation = "UserManageController.ListUsersHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var query dto.UserListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.userService.ListUsers(c.Request.Context(), caller, &query)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res)
}

// GetUserHandler 查询单个账户。
// @Summary 获取用户 (管理员)
// @Tags 用户管理 (User Management)
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "用户 ID"
// @Success 200 {object} docs.SwaggerAPIUserVOResponse "查询成功"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "用户不存在"
// @Router /api/v1/system/users/{user_id} [get]
func (ctrl *UserManageController) GetUserHandler(c *gin.Context) {
	const operation = "UserManageController.GetUserHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	userID, ok := uintParam(c, ctrl.logger, operation, "user_id")
	if !ok {
		return
	}
	res, err := ctrl.userService.GetUser(c.Request.Context(), caller, userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res)
}

// UpdateUserHandler 更新账户信息。
// @Summary 更新用户 (管理员)
// @Description 只更新请求中提供的字段；修改角色会重置权限；不能停用或降级最后一个活跃管理员。
// @Tags 用户管理 (User Management)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "用户 ID"
// @Param body body dto.UpdateUserDTO true "待更新字段"
// @Success 200 {object} docs.SwaggerAPIUserVOResponse "更新成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "参数无效、用户名/手机号冲突或最后一个管理员"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "用户不存在"
// @Router /api/v1/system/users/{user_id} [put]
func (ctrl *UserManageController) UpdateUserHandler(c *gin.Context) {
	const operation = "UserManageController.UpdateUserHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	userID, ok := uintParam(c, ctrl.logger, operation, "user_id")
	if !ok {
		return
	}
	var req dto.UpdateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.userService.UpdateUser(c.Request.Context(), caller, userID, &req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res, "更新成功")
}

// DeleteUserHandler 删除账户。
// @Summary 删除用户 (管理员)
// @Description 不能删除自己或最后一个活跃管理员；关联的演员档案保留。
// @Tags 用户管理 (User Management)
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "用户 ID"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "删除成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "不能删除自己或最后一个管理员"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "用户不存在"
// @Router /api/v1/system/users/{user_id} [delete]
func (ctrl *UserManageController) DeleteUserHandler(c *gin.Context) {
	ctrl.userAction(c, "UserManageController.DeleteUserHandler", ctrl.userService.DeleteUser, "删除成功")
}

// BanUserHandler 禁止账户登录。
// @Summary 禁止用户 (管理员)
// @Tags 用户管理 (User Management)
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "用户 ID"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "操作成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "不能禁止自己或最后一个管理员"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "用户不存在"
// @Router /api/v1/system/users/{user_id}/ban [post]
func (ctrl *UserManageController) BanUserHandler(c *gin.Context) {
	ctrl.userAction(c, "UserManageController.BanUserHandler", ctrl.userService.BanUser, "用户已被禁止")
}

// ActivateUserHandler 恢复账户。
// @Summary 激活用户 (管理员)
// @Tags 用户管理 (User Management)
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "用户 ID"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "操作成功"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "用户不存在"
// @Router /api/v1/system/users/{user_id}/activate [post]
func (ctrl *UserManageController) ActivateUserHandler(c *gin.Context) {
	ctrl.userAction(c, "UserManageController.ActivateUserHandler", ctrl.userService.ActivateUser, "用户已激活")
}

func (ctrl *UserManageController) userAction(
	c *gin.Context,
	operation string,
	action func(ctx context.Context, caller guard.Caller, userID uint) error,
	successMsg string,
) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	userID, ok := uintParam(c, ctrl.logger, operation, "user_id")
	if !ok {
		return
	}
	if err := action(c.Request.Context(), caller, userID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, vo.Empty{}, successMsg)
}

// RegisterRoutes 全部路由仅限管理员。
func (ctrl *UserManageController) RegisterRoutes(group *gin.RouterGroup, authMW gin.HandlerFunc) {
	users := group.Group("/system/users", authMW, middleware.RequireRoles(enums.RoleAdmin))
	{
		users.GET("", ctrl.ListUsersHandler)
		users.GET("/:user_id", ctrl.GetUserHandler)
		users.PUT("/:user_id", ctrl.UpdateUserHandler)
		users.DELETE("/:user_id", ctrl.DeleteUserHandler)
		users.POST("/:user_id/ban", ctrl.BanUserHandler)
		users.POST("/:user_id/activate", ctrl.ActivateUserHandler)
	}
}
