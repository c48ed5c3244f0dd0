package controller

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/response"
	"github.com/Xushengqwer/actor_hub/service/media"
)

const msgNoFile = "请选择要上传的文件"

// MediaController 处理演员头像、照片、视频的上传、查询与删除。
type MediaController struct {
	mediaService media.MediaService
	logger       *core.ZapLogger
}

// NewMediaController 创建一个新的 MediaController 实例。
func NewMediaController(mediaService media.MediaService, logger *core.ZapLogger) *MediaController {
	return &MediaController{mediaService: mediaService, logger: logger}
}

// UploadAvatarHandler 上传演员头像。
// @Summary 上传头像
// @Description 只保留一张头像，旧头像在新头像保存后删除；同时更新演员的 avatar_url。
// @Tags 媒体 (Media)
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Param file formData file true "头像图片"
// @Success 200 {object} docs.SwaggerAPIUploadResultResponse "上传成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "文件类型不支持或文件过大"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "无权操作"
// @Failure 502 {object} docs.SwaggerAPIErrorResponseString "对象存储不可用"
// @Router /api/v1/actors/{id}/media/avatar [post]
func (ctrl *MediaController) UploadAvatarHandler(c *gin.Context) {
	ctrl.upload(c, "MediaController.UploadAvatarHandler", enums.MediaAvatar, false)
}

// UploadPhotosHandler 批量上传照片。
// @Summary 上传照片
// @Description 数量上限针对整批校验；单个文件失败时记录在 failed 中，全部失败时返回错误。
// @Tags 媒体 (Media)
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Param files formData file true "照片，可多选"
// @Param description formData string false "相册 / 分类"
// @Success 200 {object} docs.SwaggerAPIUploadResultResponse "上传成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "数量超限或没有成功上传的文件"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "无权操作"
// @Router /api/v1/actors/{id}/media/photos [post]
func (ctrl *MediaController) UploadPhotosHandler(c *gin.Context) {
	ctrl.upload(c, "MediaController.UploadPhotosHandler", enums.MediaPhoto, false)
}

// UploadVideosHandler 批量上传视频。
// @Summary 上传视频
// @Tags 媒体 (Media)
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Param files formData file true "视频，可多选"
// @Param description formData string false "相册 / 分类"
// @Success 200 {object} docs.SwaggerAPIUploadResultResponse "上传成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "数量超限或没有成功上传的文件"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "无权操作"
// @Router /api/v1/actors/{id}/media/videos [post]
func (ctrl *MediaController) UploadVideosHandler(c *gin.Context) {
	ctrl.upload(c, "MediaController.UploadVideosHandler", enums.MediaVideo, false)
}

// UploadSelfAvatarHandler 演员本人上传头像。
// @Summary 上传我的头像
// @Tags 媒体 (Media)
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "头像图片"
// @Success 200 {object} docs.SwaggerAPIUploadResultResponse "上传成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "非演员账户"
// @Router /api/v1/actors/self-media/avatar [post]
func (ctrl *MediaController) UploadSelfAvatarHandler(c *gin.Context) {
	ctrl.upload(c, "MediaController.UploadSelfAvatarHandler", enums.MediaAvatar, true)
}

// UploadSelfPhotosHandler 演员本人上传照片。
// @Summary 上传我的照片
// @Tags 媒体 (Media)
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param files formData file true "照片，可多选"
// @Param description formData string false "相册 / 分类"
// @Success 200 {object} docs.SwaggerAPIUploadResultResponse "上传成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "非演员账户"
// @Router /api/v1/actors/self-media/photos [post]
func (ctrl *MediaController) UploadSelfPhotosHandler(c *gin.Context) {
	ctrl.upload(c, "MediaController.UploadSelfPhotosHandler", enums.MediaPhoto, true)
}

// UploadSelfVideosHandler 演员本人上传视频。
// @Summary 上传我的视频
// @Tags 媒体 (Media)
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param files formData file true "视频，可多选"
// @Param description formData string false "相册 / 分类"
// @Success 200 {object} docs.SwaggerAPIUploadResultResponse "上传成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "非演员账户"
// @Router /api/v1/actors/self-media/videos [post]
func (ctrl *MediaController) UploadSelfVideosHandler(c *gin.Context) {
	ctrl.upload(c, "MediaController.UploadSelfVideosHandler", enums.MediaVideo, true)
}

// ListMediaHandler 演员的媒体文件。
// @Summary 媒体列表
// @Description 按类型分组返回 {avatar, photos, videos}。
// @Tags 媒体 (Media)
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Param media_type query string false "媒体类型" Enums(avatar, photo, video)
// @Success 200 {object} docs.SwaggerAPIActorMediaResponse "查询成功"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "演员不存在"
// @Router /api/v1/actors/{id}/media [get]
func (ctrl *MediaController) ListMediaHandler(c *gin.Context) {
	const operation = "MediaController.ListMediaHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var query dto.MediaListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.mediaService.List(c.Request.Context(), caller, c.Param("id"), enums.MediaType(query.MediaType))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res)
}

// ListSelfMediaHandler 演员本人的媒体文件。
// @Summary 我的媒体列表
// @Tags 媒体 (Media)
// @Produce json
// @Security BearerAuth
// @Param media_type query string false "媒体类型" Enums(avatar, photo, video)
// @Success 200 {object} docs.SwaggerAPIActorMediaResponse "查询成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "非演员账户"
// @Router /api/v1/actors/self-media [get]
func (ctrl *MediaController) ListSelfMediaHandler(c *gin.Context) {
	const operation = "MediaController.ListSelfMediaHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var query dto.MediaListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.mediaService.ListSelf(c.Request.Context(), caller, enums.MediaType(query.MediaType))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, res)
}

// DeleteMediaHandler 删除媒体文件。
// @Summary 删除媒体
// @Tags 媒体 (Media)
// @Produce json
// @Security BearerAuth
// @Param id path string true "演员编号"
// @Param media_id path int true "媒体 ID"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "删除成功"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "未找到指定的媒体文件"
// @Router /api/v1/actors/{id}/media/{media_id} [delete]
func (ctrl *MediaController) DeleteMediaHandler(c *gin.Context) {
	const operation = "MediaController.DeleteMediaHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	mediaID, ok := uintParam(c, ctrl.logger, operation, "media_id")
	if !ok {
		return
	}
	if err := ctrl.mediaService.Delete(c.Request.Context(), caller, c.Param("id"), mediaID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, vo.Empty{}, "删除成功")
}

// DeleteSelfMediaHandler 演员本人删除媒体文件。
// @Summary 删除我的媒体
// @Tags 媒体 (Media)
// @Produce json
// @Security BearerAuth
// @Param media_id path int true "媒体 ID"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "删除成功"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "未找到指定的媒体文件"
// @Router /api/v1/actors/self-media/{media_id} [delete]
func (ctrl *MediaController) DeleteSelfMediaHandler(c *gin.Context) {
	const operation = "MediaController.DeleteSelfMediaHandler"
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	mediaID, ok := uintParam(c, ctrl.logger, operation, "media_id")
	if !ok {
		return
	}
	if err := ctrl.mediaService.DeleteSelf(c.Request.Context(), caller, mediaID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, vo.Empty{}, "删除成功")
}

func (ctrl *MediaController) upload(c *gin.Context, operation string, kind enums.MediaType, self bool) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		ctrl.logger.Warn("解析上传表单失败", zap.String("operation", operation), zap.Error(err))
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, msgNoFile)
		return
	}
	headers := make([]*multipart.FileHeader, 0, len(form.File["file"])+len(form.File["files"]))
	headers = append(headers, form.File["file"]...)
	headers = append(headers, form.File["files"]...)
	if len(headers) == 0 {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, msgNoFile)
		return
	}

	req := &dto.UploadRequest{
		ActorID: c.Param("id"),
		Kind:    kind,
		Files:   toUploadFiles(headers),
	}
	if desc := strings.TrimSpace(c.PostForm("description")); desc != "" {
		req.Description = &desc
	}

	var res *vo.UploadResultVO
	if self {
		res, err = ctrl.mediaService.UploadSelf(c.Request.Context(), caller, req)
	} else {
		res, err = ctrl.mediaService.Upload(c.Request.Context(), caller, req)
	}
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	ctrl.logger.Info("媒体上传完成",
		zap.String("operation", operation),
		zap.String("kind", string(kind)),
		zap.Int("uploaded", len(res.Uploaded)),
		zap.Int("failed", len(res.Failed)),
	)
	response.RespondSuccess(c, res, "上传成功")
}

func toUploadFiles(headers []*multipart.FileHeader) []dto.UploadFile {
	files := make([]dto.UploadFile, 0, len(headers))
	for _, h := range headers {
		h := h
		files = append(files, dto.UploadFile{
			FileName: h.Filename,
			Size:     h.Size,
			Open: func() (io.ReadCloser, error) {
				return h.Open()
			},
		})
	}
	return files
}

// RegisterRoutes 注册媒体路由，全部需要登录；权限由服务层判断。
func (ctrl *MediaController) RegisterRoutes(group *gin.RouterGroup, authMW gin.HandlerFunc) {
	actors := group.Group("/actors", authMW)
	{
		actors.POST("/self-media/avatar", ctrl.UploadSelfAvatarHandler)
		actors.POST("/self-media/photos", ctrl.UploadSelfPhotosHandler)
		actors.POST("/self-media/videos", ctrl.UploadSelfVideosHandler)
		actors.GET("/self-media", ctrl.ListSelfMediaHandler)
		actors.DELETE("/self-media/:media_id", ctrl.DeleteSelfMediaHandler)

		actors.POST("/:id/media/avatar", ctrl.UploadAvatarHandler)
		actors.POST("/:id/media/photos", ctrl.UploadPhotosHandler)
		actors.POST("/:id/media/videos", ctrl.UploadVideosHandler)
		actors.GET("/:id/media", ctrl.ListMediaHandler)
		actors.DELETE("/:id/media/:media_id", ctrl.DeleteMediaHandler)
	}
}
