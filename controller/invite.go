package controller

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/middleware"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/response"
	"github.com/Xushengqwer/actor_hub/service/invite"
)

// InviteController 处理经纪人邀请码的发放、查询、删除与公开校验。
type InviteController struct {
	inviteService invite.InviteService
	logger        *core.ZapLogger
}

// NewInviteController 创建一个新的 InviteController 实例。
func NewInviteController(inviteService invite.InviteService, logger *core.ZapLogger) *InviteController {
	return &InviteController{inviteService: inviteService, logger: logger}
}

// ListMineHandler 列出调用者发放的邀请码。
// @Summary 我的邀请码
// @Description 返回调用者发放的全部邀请码及其使用人。
// @Tags 邀请码 (Invite Codes)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} docs.SwaggerAPIInviteCodeListResponse "查询成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "非经纪人或管理员"
// @Router /api/v1/invite-codes [get]
func (ctrl *InviteController) ListMineHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	res, err := ctrl.inviteService.ListMine(c.Request.Context(), caller)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res)
}

// GenerateHandler 生成新的邀请码。
// @Summary 生成邀请码
// @Tags 邀请码 (Invite Codes)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} docs.SwaggerAPIInviteCodeResponse "生成成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "非经纪人或管理员"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "无法生成唯一邀请码"
// @Router /api/v1/invite-codes [post]
func (ctrl *InviteController) GenerateHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	res, err := ctrl.inviteService.Generate(c.Request.Context(), caller)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res, "邀请码已生成")
}

// DeleteHandler 删除邀请码。
// @Summary 删除邀请码
// @Description 经纪人只能删除自己的邀请码，管理员可删除任意邀请码。
// @Tags 邀请码 (Invite Codes)
// @Produce json
// @Security BearerAuth
// @Param invite_id path string true "邀请码记录 ID"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "删除成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "不是自己的邀请码"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "邀请码不存在"
// @Router /api/v1/invite-codes/{invite_id} [delete]
func (ctrl *InviteController) DeleteHandler(c *gin.Context) {
	const operation = "InviteController.DeleteHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id := c.Param("invite_id")
	if err := ctrl.inviteService.Delete(c.Request.Context(), caller, id); err != nil {
		response.RespondAppError(c, err)
		return
	}
	ctrl.logger.Debug("邀请码删除请求完成", zap.String("operation", operation), zap.String("inviteID", id))
	response.RespondSuccess(c, vo.Empty{}, "删除成功")
}

// VerifyHandler 公开校验邀请码。
// @Summary 校验邀请码
// @Description 注册前检查邀请码是否可用，可用时返回发放经纪人。
// @Tags 邀请码 (Invite Codes)
// @Produce json
// @Param code path string true "6 位邀请码"
// @Success 200 {object} docs.SwaggerAPIInviteVerifyResponse "邀请码可用"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "邀请码已失效或发放人不是经纪人"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "邀请码无效"
// @Router /api/v1/invite-codes/verify/{code} [get]
func (ctrl *InviteController) VerifyHandler(c *gin.Context) {
	res, err := ctrl.inviteService.Verify(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res)
}

// RegisterRoutes 校验接口公开，其余接口需要经纪人或管理员登录。
func (ctrl *InviteController) RegisterRoutes(group *gin.RouterGroup, authMW gin.HandlerFunc) {
	routes := group.Group("/invite-codes")
	{
		routes.GET("/verify/:code", ctrl.VerifyHandler)

		staff := routes.Group("", authMW, middleware.RequireRoles(enums.RoleManager, enums.RoleAdmin))
		staff.GET("", ctrl.ListMineHandler)
		staff.POST("", ctrl.GenerateHandler)
		staff.DELETE("/:invite_id", ctrl.DeleteHandler)
	}
}
