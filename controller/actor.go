package controller

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/middleware"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/response"
	"github.com/Xushengqwer/actor_hub/service/actorList"
	"github.com/Xushengqwer/actor_hub/service/agent"
	"github.com/Xushengqwer/actor_hub/service/guard"
	"github.com/Xushengqwer/actor_hub/service/profile"
)

// ActorController 处理演员档案、演员列表与经纪人分配相关的请求。
// 权限在服务层由 guard 判断，这里只做认证、参数绑定与响应转换。
type ActorController struct {
	profileService profile.ProfileService
	listService    actorList.ActorListService
	agentService   agent.AgentService
	logger         *core.ZapLogger
}

// NewActorController 创建一个新的 ActorController 实例。
func NewActorController(
	profileService profile.ProfileService,
	listService actorList.ActorListService,
	agentService agent.AgentService,
	logger *core.ZapLogger,
) *ActorController {
	return &ActorController{
		profileService: profileService,
		listService:    listService,
		agentService:   agentService,
		logger:         logger,
	}
}

// CreateActorHandler 创建演员档案。
// @Summary 创建演员
// @Description 一次性提交基础信息、专业信息与联系方式。经纪人创建时自动成为该演员的经纪人；管理员可通过 agent_id 指定经纪人。
// @Tags 演员 (Actors)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateActorDTO true "演员档案"
// @Success 200 {object} docs.SwaggerAPIActorVOResponse "创建成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "参数无效"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "无权创建"
// @Router /api/v1/actors [post]
func (ctrl *ActorController) CreateActorHandler(c *gin.Context) {
	const operation = "ActorController.CreateActorHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateActorDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.profileService.CreateActor(c.Request.Context(), caller, &req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	ctrl.logger.Info("演员创建成功", zap.String("operation", operation), zap.String("actorID", res.ID))
	response.RespondSuccess(c, res, "创建成功")
}

// ListActorsHandler 演员列表。
// @Summary 演员列表
// @Description 管理员查看全部演员，经纪人只看到自己名下的演员，演员本人只看到自己。年龄、身高为闭区间；count_only=true 时只返回一条汇总记录。
// @Tags 演员 (Actors)
// @Produce json
// @Security BearerAuth
// @Param skip query int false "跳过条数"
// @Param limit query int false "返回条数，默认 100"
// @Param name query string false "姓名或艺名模糊匹配"
// @Param age_min query int false "最小年龄"
// @Param age_max query int false "最大年龄"
// @Param height_min query int false "最小身高"
// @Param height_max query int false "最大身高"
// @Param gender query string false "性别 男/女/其他 或 male/female/other"
// @Param status query string false "演员状态"
// @Param user_id query int false "关联账户 ID"
// @Param count_only query bool false "只返回总数"
// @Success 200 {object} docs.SwaggerAPIActorListVOResponse "查询成功"
// @Router /api/v1/actors [get]
func (ctrl *ActorController) ListActorsHandler(c *gin.Context) {
	const operation = "ActorController.ListActorsHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var query dto.ActorListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.listService.ListActors(c.Request.Context(), caller, &query)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res)
}

// ListWithoutAgentHandler 未分配经纪人的演员。
// @Summary 未分配经纪人的演员
// @Description limit=0 时只返回全部匹配演员的编号 (ids)。
// @Tags 演员 (Actors)
// @Produce json
// @Security BearerAuth
// @Param skip query int false "跳过条数"
// @Param limit query int false "返回条数；0 表示只返回编号"
// @Param name query string false "姓名或艺名模糊匹配"
// @Param gender query string false "性别"
// @Param count_only query bool false "只返回总数"
// @Success 200 {object} docs.SwaggerAPIActorListVOResponse "查询成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "演员无权查看"
// @Router /api/v1/actors/without-agent [get]
func (ctrl *ActorController) ListWithoutAgentHandler(c *gin.Context) {
	const operation = "ActorController.ListWithoutAgentHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var query dto.ActorListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.listService.ListWithoutAgent(c.Request.Context(), caller, &query)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res)
}

// GetActorHandler 演员完整档案。
// @Summary 获取演员档案
// @Tags 演员 (Actors)
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Success 200 {object} docs.SwaggerAPIActorVOResponse "查询成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "无权查看"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "演员不存在"
// @Router /api/v1/actors/{id} [get]
func (ctrl *ActorController) GetActorHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	res, err := ctrl.profileService.GetActor(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res)
}

// GetMyActorHandler 当前演员本人的档案。
// @Summary 我的演员档案
// @Tags 演员 (Actors)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} docs.SwaggerAPIActorVOResponse "查询成功"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "尚未创建演员档案"
// @Router /api/v1/actors/me [get]
func (ctrl *ActorController) GetMyActorHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	res, err := ctrl.profileService.GetMyActor(c.Request.Context(), caller)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res)
}

// SelfUpdateHandler 演员本人创建或更新档案。
// @Summary 更新我的档案
// @Description 档案不存在时创建；不能修改签约信息。
// @Tags 演员 (Actors)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SelfUpdateDTO true "档案内容"
// @Success 200 {object} docs.SwaggerAPIActorVOResponse "保存成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "非演员账户"
// @Router /api/v1/actors/self-update [post]
func (ctrl *ActorController) SelfUpdateHandler(c *gin.Context) {
	const operation = "ActorController.SelfUpdateHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req dto.SelfUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.profileService.SelfUpdate(c.Request.Context(), caller, &req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res, "保存成功")
}

// UpdateBasicInfoHandler 更新基础信息。
// @Summary 更新基础信息
// @Tags 演员 (Actors)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Param body body dto.BasicInfoDTO true "基础信息"
// @Success 200 {object} docs.SwaggerAPIActorVOResponse "更新成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "无权修改"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "演员不存在"
// @Router /api/v1/actors/{id}/basic-info [put]
func (ctrl *ActorController) UpdateBasicInfoHandler(c *gin.Context) {
	var req dto.BasicInfoDTO
	updateSection(ctrl, c, "ActorController.UpdateBasicInfoHandler", &req, ctrl.profileService.UpdateBasicInfo)
}

// UpdateProfessionalInfoHandler 更新专业信息。
// @Summary 更新专业信息
// @Tags 演员 (Actors)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Param body body dto.ProfessionalInfoDTO true "专业信息"
// @Success 200 {object} docs.SwaggerAPIActorVOResponse "更新成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "无权修改"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "演员不存在"
// @Router /api/v1/actors/{id}/professional [put]
func (ctrl *ActorController) UpdateProfessionalInfoHandler(c *gin.Context) {
	var req dto.ProfessionalInfoDTO
	updateSection(ctrl, c, "ActorController.UpdateProfessionalInfoHandler", &req, ctrl.profileService.UpdateProfessionalInfo)
}

// UpdateContactInfoHandler 更新联系方式。
// @Summary 更新联系方式
// @Tags 演员 (Actors)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Param body body dto.ContactInfoDTO true "联系方式"
// @Success 200 {object} docs.SwaggerAPIActorVOResponse "更新成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "无权修改"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "演员不存在"
// @Router /api/v1/actors/{id}/contact [put]
func (ctrl *ActorController) UpdateContactInfoHandler(c *gin.Context) {
	var req dto.ContactInfoDTO
	updateSection(ctrl, c, "ActorController.UpdateContactInfoHandler", &req, ctrl.profileService.UpdateContactInfo)
}

// UpdateContractInfoHandler 更新签约信息。
// @Summary 更新签约信息
// @Description 仅管理员或该演员的经纪人可修改，演员本人不可修改。
// @Tags 演员 (Actors)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Param body body dto.ContractInfoDTO true "签约信息"
// @Success 200 {object} docs.SwaggerAPIActorVOResponse "更新成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "无权修改"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "演员不存在"
// @Router /api/v1/actors/{id}/contract [put]
func (ctrl *ActorController) UpdateContractInfoHandler(c *gin.Context) {
	var req dto.ContractInfoDTO
	updateSection(ctrl, c, "ActorController.UpdateContractInfoHandler", &req, ctrl.profileService.UpdateContractInfo)
}

// UpdateStatusHandler 修改演员状态。
// @Summary 修改演员状态
// @Description 同时写入一条状态变更历史。
// @Tags 演员 (Actors)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Param body body dto.UpdateActorStatusDTO true "新状态与原因"
// @Success 200 {object} docs.SwaggerAPIActorVOResponse "更新成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "无权修改"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "演员不存在"
// @Router /api/v1/actors/{id}/status [put]
func (ctrl *ActorController) UpdateStatusHandler(c *gin.Context) {
	var req dto.UpdateActorStatusDTO
	updateSection(ctrl, c, "ActorController.UpdateStatusHandler", &req, ctrl.profileService.UpdateStatus)
}

// ListStatusHistoryHandler 状态变更历史。
// @Summary 状态变更历史
// @Tags 演员 (Actors)
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Success 200 {object} docs.SwaggerAPIStatusHistoryListResponse "查询成功"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "演员不存在"
// @Router /api/v1/actors/{id}/status-history [get]
func (ctrl *ActorController) ListStatusHistoryHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	res, err := ctrl.profileService.ListStatusHistory(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res)
}

// DeleteActorHandler 删除演员。
// @Summary 删除演员 (管理员)
// @Description 默认软删除；permanent=true 时物理删除档案、子表、媒体、标签关联与状态历史。
// @Tags 演员 (Actors)
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Param permanent query bool false "物理删除"
// @Param delete_media query bool false "同时删除存储中的媒体文件"
// @Param reason query string false "删除原因"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "删除成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "非管理员"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "演员不存在"
// @Router /api/v1/actors/{id} [delete]
func (ctrl *ActorController) DeleteActorHandler(c *gin.Context) {
	const operation = "ActorController.DeleteActorHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var query dto.DeleteActorQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	if err := ctrl.profileService.DeleteActor(c.Request.Context(), caller, c.Param("id"), &query); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, vo.Empty{}, "删除成功")
}

// AssignAgentHandler 为演员分配经纪人。
// @Summary 分配经纪人
// @Description 管理员可分配给任意经纪人；经纪人只能把未分配或已属于自己的演员分配给自己。
// @Tags 经纪人 (Agents)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AssignAgentDTO true "演员与经纪人"
// @Success 200 {object} docs.SwaggerAPIContractInfoVOResponse "分配成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "指定的用户不是经纪人"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "无权分配"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "演员或经纪人不存在"
// @Router /api/v1/actors/assign-agent [post]
func (ctrl *ActorController) AssignAgentHandler(c *gin.Context) {
	const operation = "ActorController.AssignAgentHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req dto.AssignAgentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.agentService.AssignAgent(c.Request.Context(), caller, &req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res, "分配成功")
}

// UnassignAgentHandler 解除演员的经纪人。
// @Summary 解除经纪人
// @Description 保留签约信息中的其他条款，只清空经纪人。
// @Tags 经纪人 (Agents)
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "解除成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "无权操作"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "演员不存在或尚未分配经纪人"
// @Router /api/v1/actors/{id}/agent [delete]
func (ctrl *ActorController) UnassignAgentHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	if err := ctrl.agentService.UnassignAgent(c.Request.Context(), caller, c.Param("id")); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, vo.Empty{}, "解除成功")
}

// ListAgentActorsHandler 经纪人名下的演员。
// @Summary 经纪人名下演员
// @Tags 经纪人 (Agents)
// @Produce json
// @Security BearerAuth
// @Param agent_id path int true "经纪人账户 ID"
// @Param skip query int false "跳过条数"
// @Param limit query int false "返回条数，默认 100"
// @Param count_only query bool false "只返回总数"
// @Success 200 {object} docs.SwaggerAPIActorListVOResponse "查询成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "只能查看自己名下的演员"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "经纪人不存在"
// @Router /api/v1/actors/agent/{agent_id}/actors [get]
func (ctrl *ActorController) ListAgentActorsHandler(c *gin.Context) {
	const operation = "ActorController.ListAgentActorsHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	agentID, ok := uintParam(c, ctrl.logger, operation, "agent_id")
	if !ok {
		return
	}
	var query dto.ActorListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.agentService.ListAgentActors(c.Request.Context(), caller, agentID, &query)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res)
}

// sectionUpdater 按演员编号更新档案某一部分的服务方法
type sectionUpdater[T any] func(ctx context.Context, caller guard.Caller, actorID string, req *T) (*vo.ActorVO, error)

func updateSection[T any](ctrl *ActorController, c *gin.Context, operation string, req *T, update sectionUpdater[T]) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	if err := c.ShouldBindJSON(req); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := update(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res, "更新成功")
}

// RegisterRoutes 注册演员与经纪人相关路由，全部需要登录。
func (ctrl *ActorController) RegisterRoutes(group *gin.RouterGroup, authMW gin.HandlerFunc) {
	actors := group.Group("/actors", authMW)
	{
		staff := middleware.RequireRoles(enums.RoleManager, enums.RoleAdmin)

		actors.POST("", staff, ctrl.CreateActorHandler)
		actors.GET("", ctrl.ListActorsHandler)
		actors.GET("/without-agent", staff, ctrl.ListWithoutAgentHandler)
		actors.GET("/me", ctrl.GetMyActorHandler)
		actors.POST("/self-update", ctrl.SelfUpdateHandler)
		actors.POST("/assign-agent", staff, ctrl.AssignAgentHandler)
		actors.GET("/agent/:agent_id/actors", staff, ctrl.ListAgentActorsHandler)

		actors.GET("/:id", ctrl.GetActorHandler)
		actors.DELETE("/:id", ctrl.DeleteActorHandler)
		actors.PUT("/:id/basic-info", ctrl.UpdateBasicInfoHandler)
		actors.PUT("/:id/professional", ctrl.UpdateProfessionalInfoHandler)
		actors.PUT("/:id/contact", ctrl.UpdateContactInfoHandler)
		actors.PUT("/:id/contract", ctrl.UpdateContractInfoHandler)
		actors.PUT("/:id/status", ctrl.UpdateStatusHandler)
		actors.GET("/:id/status-history", ctrl.ListStatusHistoryHandler)
		actors.DELETE("/:id/agent", ctrl.UnassignAgentHandler)
	}
}
