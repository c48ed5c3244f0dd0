package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/middleware"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/response"
	"github.com/Xushengqwer/actor_hub/service/tag"
)

// TagController 处理标签目录与演员标签关联。
type TagController struct {
	tagService tag.TagService
	logger     *core.ZapLogger
}

// NewTagController 创建一个新的 TagController 实例。
func NewTagController(tagService tag.TagService, logger *core.ZapLogger) *TagController {
	return &TagController{tagService: tagService, logger: logger}
}

// ListTagsHandler 标签目录。
// @Summary 标签列表
// @Tags 标签 (Tags)
// @Produce json
// @Security BearerAuth
// @Param category query string false "分类"
// @Param sort_by query string false "排序字段" Enums(name, category, created_at)
// @Param sort_desc query bool false "降序"
// @Success 200 {object} docs.SwaggerAPITagListResponse "查询成功"
// @Router /api/v1/actors/tags [get]
func (ctrl *TagController) ListTagsHandler(c *gin.Context) {
	const operation = "TagController.ListTagsHandler"
	var query dto.TagListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.tagService.ListTags(c.Request.Context(), &query)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res)
}

// CreateTagHandler 新建标签。
// @Summary 创建标签 (管理员)
// @Tags 标签 (Tags)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateTagDTO true "标签"
// @Success 200 {object} docs.SwaggerAPITagVOResponse "创建成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "标签名称已存在"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "非管理员"
// @Router /api/v1/actors/tags [post]
func (ctrl *TagController) CreateTagHandler(c *gin.Context) {
	const operation = "TagController.CreateTagHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateTagDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.tagService.CreateTag(c.Request.Context(), caller, &req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res, "创建成功")
}

// UpdateTagHandler 修改标签。
// @Summary 修改标签 (管理员)
// @Tags 标签 (Tags)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tag_id path int true "标签 ID"
// @Param body body dto.UpdateTagDTO true "待更新字段"
// @Success 200 {object} docs.SwaggerAPITagVOResponse "更新成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "标签名称已存在"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "标签不存在"
// @Router /api/v1/actors/tags/{tag_id} [put]
func (ctrl *TagController) UpdateTagHandler(c *gin.Context) {
	const operation = "TagController.UpdateTagHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	tagID, ok := uintParam(c, ctrl.logger, operation, "tag_id")
	if !ok {
		return
	}
	var req dto.UpdateTagDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.tagService.UpdateTag(c.Request.Context(), caller, tagID, &req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res, "更新成功")
}

// DeleteTagHandler 删除标签及其全部关联。
// @Summary 删除标签 (管理员)
// @Tags 标签 (Tags)
// @Produce json
// @Security BearerAuth
// @Param tag_id path int true "标签 ID"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "删除成功"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "标签不存在"
// @Router /api/v1/actors/tags/{tag_id} [delete]
func (ctrl *TagController) DeleteTagHandler(c *gin.Context) {
	const operation = "TagController.DeleteTagHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	tagID, ok := uintParam(c, ctrl.logger, operation, "tag_id")
	if !ok {
		return
	}
	if err := ctrl.tagService.DeleteTag(c.Request.Context(), caller, tagID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, vo.Empty{}, "删除成功")
}

// CountUsageHandler 每个标签关联的演员数。
// @Summary 标签使用统计
// @Tags 标签 (Tags)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} docs.SwaggerAPITagCountListResponse "查询成功"
// @Router /api/v1/actors/tags/count [get]
func (ctrl *TagController) CountUsageHandler(c *gin.Context) {
	res, err := ctrl.tagService.CountUsage(c.Request.Context())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res)
}

// SearchActorsHandler 按标签查找演员。
// @Summary 按标签搜索演员
// @Description 返回带有任一指定标签的演员，范围按调用者角色收窄。
// @Tags 标签 (Tags)
// @Produce json
// @Security BearerAuth
// @Param tag_ids query []int true "标签 ID，可重复" collectionFormat(multi)
// @Param skip query int false "跳过条数"
// @Param limit query int false "返回条数，默认 100"
// @Param count_only query bool false "只返回总数"
// @Success 200 {object} docs.SwaggerAPIActorListVOResponse "查询成功"
// @Router /api/v1/actors/tags/search [get]
func (ctrl *TagController) SearchActorsHandler(c *gin.Context) {
	const operation = "TagController.SearchActorsHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var ids dto.TagIDsQuery
	if err := c.ShouldBindQuery(&ids); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	var query dto.ActorListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.tagService.SearchActors(c.Request.Context(), caller, ids.TagIDs, &query)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res)
}

// GetActorTagsHandler 演员的标签。
// @Summary 演员标签
// @Tags 标签 (Tags)
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Success 200 {object} docs.SwaggerAPIActorTagsResponse "查询成功"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "演员不存在"
// @Router /api/v1/actors/{id}/tags [get]
func (ctrl *TagController) GetActorTagsHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	res, err := ctrl.tagService.GetActorTags(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res)
}

// SetActorTagsHandler 替换演员的全部标签。
// @Summary 设置演员标签
// @Description 用请求中的集合替换演员现有标签；空集合表示清空。任一标签不存在时整体拒绝。
// @Tags 标签 (Tags)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Param body body dto.TagIDsDTO true "标签 ID 列表"
// @Success 200 {object} docs.SwaggerAPIActorTagsResponse "设置成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "部分标签不存在"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "无权操作"
// @Router /api/v1/actors/{id}/tags [put]
func (ctrl *TagController) SetActorTagsHandler(c *gin.Context) {
	const operation = "TagController.SetActorTagsHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req dto.TagIDsDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.tagService.SetActorTags(c.Request.Context(), caller, c.Param("id"), req.TagIDs)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res, "设置成功")
}

// AddActorTagsHandler 为演员追加标签。
// @Summary 追加演员标签
// @Description 已存在的关联被忽略。
// @Tags 标签 (Tags)
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Param tag_ids query []int true "标签 ID，可重复" collectionFormat(multi)
// @Success 200 {object} docs.SwaggerAPIActorTagsResponse "添加成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "部分标签不存在"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "无权操作"
// @Router /api/v1/actors/{id}/tags [post]
func (ctrl *TagController) AddActorTagsHandler(c *gin.Context) {
	const operation = "TagController.AddActorTagsHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var ids dto.TagIDsQuery
	if err := c.ShouldBindQuery(&ids); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.tagService.AddActorTags(c.Request.Context(), caller, c.Param("id"), ids.TagIDs)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res, "添加成功")
}

// RemoveActorTagHandler 删除演员的单个标签。
// @Summary 删除演员标签
// @Tags 标签 (Tags)
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Param tag_id path int true "标签 ID"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "删除成功"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "演员没有此标签"
// @Router /api/v1/actors/{id}/tags/{tag_id} [delete]
func (ctrl *TagController) RemoveActorTagHandler(c *gin.Context) {
	const operation = "TagController.RemoveActorTagHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	tagID, ok := uintParam(c, ctrl.logger, operation, "tag_id")
	if !ok {
		return
	}
	if err := ctrl.tagService.RemoveActorTag(c.Request.Context(), caller, c.Param("id"), tagID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, vo.Empty{}, "删除成功")
}

// RegisterRoutes 标签目录的写操作限管理员，关联操作的权限由服务层判断。
func (ctrl *TagController) RegisterRoutes(group *gin.RouterGroup, authMW gin.HandlerFunc) {
	tags := group.Group("/actors/tags", authMW)
	{
		adminOnly := middleware.RequireRoles(enums.RoleAdmin)

		tags.GET("", ctrl.ListTagsHandler)
		tags.GET("/count", ctrl.CountUsageHandler)
		tags.GET("/search", ctrl.SearchActorsHandler)
		tags.POST("", adminOnly, ctrl.CreateTagHandler)
		tags.PUT("/:tag_id", adminOnly, ctrl.UpdateTagHandler)
		tags.DELETE("/:tag_id", adminOnly, ctrl.DeleteTagHandler)
	}

	actorTags := group.Group("/actors/:id/tags", authMW)
	{
		actorTags.GET("", ctrl.GetActorTagsHandler)
		actorTags.PUT("", ctrl.SetActorTagsHandler)
		actorTags.POST("", ctrl.AddActorTagsHandler)
		actorTags.DELETE("/:tag_id", ctrl.RemoveActorTagHandler)
	}
}
