package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/config"
	"github.com/Xushengqwer/actor_hub/constants"
	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/dependencies"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/repository/mysql"
	"github.com/Xushengqwer/actor_hub/service/guard"
	"github.com/Xushengqwer/actor_hub/service/profile"
	"github.com/Xushengqwer/actor_hub/utils"
)

const (
	msgInvalidKind     = "无效的媒体类型"
	msgNoFiles         = "请选择要上传的文件"
	msgSingleAvatar    = "头像只能上传一个文件"
	msgMediaNotFound   = "未找到指定的媒体文件"
	msgPerformerOnly   = "只有演员本人才能使用此API"
	msgUploadFailed    = "文件上传失败，请稍后重试"
	msgNoPhotoUploaded = "没有成功上传的照片"
	msgNoVideoUploaded = "没有成功上传的视频"
)

// 对象键的一级目录
var kindFolders = map[enums.MediaType]string{
	enums.MediaAvatar: "avatars",
	enums.MediaPhoto:  "photos",
	enums.MediaVideo:  "videos",
}

const thumbnailFolder = "thumbnails"

// MediaService 定义了演员头像、照片与视频的上传、查询和删除。
type MediaService interface {
	// Upload 为指定演员上传一批同类媒体。
	// - 数量上限针对整批校验，超限时整批拒绝。
	// - 每个文件独立处理，单个文件失败记录在结果中；全部失败时返回错误。
	// - 头像只保留一条记录，旧头像在新头像写入后删除。
	Upload(ctx context.Context, caller guard.Caller, req *dto.UploadRequest) (*vo.UploadResultVO, error)

	// UploadSelf 演员本人上传，演员由调用者账户确定，忽略 req.ActorID。
	UploadSelf(ctx context.Context, caller guard.Caller, req *dto.UploadRequest) (*vo.UploadResultVO, error)

	List(ctx context.Context, caller guard.Caller, actorID string, mediaType enums.MediaType) (*vo.ActorMediaVO, error)
	ListSelf(ctx context.Context, caller guard.Caller, mediaType enums.MediaType) (*vo.ActorMediaVO, error)

	// Delete 删除媒体记录，存储对象尽力删除。
	Delete(ctx context.Context, caller guard.Caller, actorID string, mediaID uint) error
	DeleteSelf(ctx context.Context, caller guard.Caller, mediaID uint) error
}

type mediaService struct {
	mediaRepo mysql.MediaRepository
	actorRepo mysql.ActorRepository
	profiles  profile.ProfileService
	processor Processor
	storage   dependencies.ObjectStorage
	maxPhotos int
	maxVideos int
	db        *gorm.DB
	logger    *core.ZapLogger
}

// NewMediaService 创建一个新的 mediaService 实例。
func NewMediaService(
	mediaRepo mysql.MediaRepository,
	actorRepo mysql.ActorRepository,
	profiles profile.ProfileService,
	processor Processor,
	storage dependencies.ObjectStorage,
	cfg config.MediaConfig,
	db *gorm.DB,
	logger *core.ZapLogger,
) MediaService {
	s := &mediaService{
		mediaRepo: mediaRepo,
		actorRepo: actorRepo,
		profiles:  profiles,
		processor: processor,
		storage:   storage,
		maxPhotos: cfg.MaxPhotos,
		maxVideos: cfg.MaxVideos,
		db:        db,
		logger:    logger,
	}
	if s.maxPhotos <= 0 {
		s.maxPhotos = constants.MaxPhotosPerActor
	}
	if s.maxVideos <= 0 {
		s.maxVideos = constants.MaxVideosPerActor
	}
	return s
}

func (s *mediaService) Upload(ctx context.Context, caller guard.Caller, req *dto.UploadRequest) (*vo.UploadResultVO, error) {
	const operation = "MediaService.Upload"

	if !req.Kind.IsValid() {
		return nil, commonerrors.NewValidation(msgInvalidKind)
	}
	if len(req.Files) == 0 {
		return nil, commonerrors.NewValidation(msgNoFiles)
	}
	if req.Kind == enums.MediaAvatar && len(req.Files) > 1 {
		return nil, commonerrors.NewValidation(msgSingleAvatar)
	}

	actor, err := s.profiles.AuthorizeActor(ctx, s.db, caller, req.ActorID, guard.ActionManageMedia)
	if err != nil {
		s.logFailure(operation, req.ActorID, err)
		return nil, err
	}
	if err := s.checkQuota(ctx, actor.ID, req.Kind, len(req.Files)); err != nil {
		s.logFailure(operation, actor.ID, err)
		return nil, err
	}

	album := albumPath(req.Description)
	result := &vo.UploadResultVO{Uploaded: []*vo.MediaVO{}, Failed: []vo.UploadFailureVO{}}
	var firstErr error
	for _, f := range req.Files {
		m, err := s.uploadOne(ctx, caller, actor.ID, req.Kind, album, req.Description, f)
		if err != nil {
			s.logFailure(operation, actor.ID, err)
			result.Failed = append(result.Failed, vo.UploadFailureVO{FileName: f.FileName, Reason: commonerrors.PublicMessage(err)})
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		result.Uploaded = append(result.Uploaded, toMediaVO(m))
	}

	if len(result.Uploaded) == 0 {
		if len(req.Files) == 1 {
			return nil, firstErr
		}
		if req.Kind == enums.MediaVideo {
			return nil, commonerrors.NewValidation(msgNoVideoUploaded)
		}
		return nil, commonerrors.NewValidation(msgNoPhotoUploaded)
	}

	s.logger.Info("媒体上传完成",
		zap.String("operation", operation),
		zap.String("actorID", actor.ID),
		zap.String("kind", string(req.Kind)),
		zap.Int("uploaded", len(result.Uploaded)),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

func (s *mediaService) UploadSelf(ctx context.Context, caller guard.Caller, req *dto.UploadRequest) (*vo.UploadResultVO, error) {
	actor, err := s.selfActor(ctx, caller)
	if err != nil {
		return nil, err
	}
	scoped := *req
	scoped.ActorID = actor.ID
	return s.Upload(ctx, caller, &scoped)
}

// checkQuota 整批校验数量上限，头像不受限制
func (s *mediaService) checkQuota(ctx context.Context, actorID string, kind enums.MediaType, incoming int) error {
	var limit int
	var msg string
	switch kind {
	case enums.MediaPhoto:
		limit = s.maxPhotos
		msg = fmt.Sprintf("照片数量超过限制，每个演员最多允许%d张照片", limit)
	case enums.MediaVideo:
		limit = s.maxVideos
		msg = fmt.Sprintf("视频数量超过限制，每个演员最多允许%d个视频", limit)
	default:
		return nil
	}

	count, err := s.mediaRepo.CountMedia(ctx, s.db, actorID, kind)
	if err != nil {
		return commonerrors.NewInternal(err)
	}
	if count+int64(incoming) > int64(limit) {
		return commonerrors.NewValidation(msg)
	}
	return nil
}

func (s *mediaService) uploadOne(
	ctx context.Context,
	caller guard.Caller,
	actorID string,
	kind enums.MediaType,
	album string,
	description *string,
	file dto.UploadFile,
) (*entities.ActorMedia, error) {
	const operation = "MediaService.uploadOne"

	processed, err := s.processor.Process(ctx, kind, file)
	if err != nil {
		return nil, err
	}
	defer processed.Cleanup()

	key := objectKey(kindFolders[kind], actorID, album, processed.FileName)
	thumbKey := objectKey(thumbnailFolder, actorID, album, "thumb_"+withExt(processed.FileName, ".jpg"))

	body, err := processed.Open()
	if err != nil {
		return nil, commonerrors.NewInternal(err)
	}
	fileURL, err := s.storage.UploadFile(ctx, key, body, processed.Size, processed.ContentType)
	_ = body.Close()
	if err != nil {
		return nil, commonerrors.NewStorage(msgUploadFailed, err)
	}
	thumbURL, err := s.storage.UploadFile(ctx, thumbKey, bytes.NewReader(processed.Thumbnail), int64(len(processed.Thumbnail)), "image/jpeg")
	if err != nil {
		s.removeObjects(ctx, key)
		return nil, commonerrors.NewStorage(msgUploadFailed, err)
	}

	media := &entities.ActorMedia{
		ActorID:             actorID,
		MediaType:           kind,
		FileName:            processed.FileName,
		FilePath:            fileURL,
		FileSize:            processed.Size,
		MimeType:            processed.ContentType,
		ThumbnailPath:       &thumbURL,
		Description:         utils.SanitizeTextPtr(description),
		BucketName:          s.storage.Bucket(),
		ObjectName:          key,
		ThumbnailObjectName: &thumbKey,
		UploadedBy:          caller.UserID,
	}

	var replaced []*entities.ActorMedia
	if kind == enums.MediaAvatar {
		replaced, err = s.replaceAvatar(ctx, media)
	} else {
		err = s.mediaRepo.CreateMedia(ctx, s.db, media)
		if err != nil {
			err = commonerrors.NewInternal(err)
		}
	}
	if err != nil {
		// 记录写入失败，已上传的对象不再被引用
		s.removeObjects(ctx, key, thumbKey)
		return nil, err
	}

	profile.RemoveMediaObjects(ctx, s.storage, s.logger, replaced)
	s.logger.Debug("媒体文件已保存",
		zap.String("operation", operation),
		zap.String("actorID", actorID),
		zap.String("objectKey", key),
		zap.Int64("size", processed.Size),
	)
	return media, nil
}

// replaceAvatar 写入新头像并删除旧头像记录，返回被替换的记录
func (s *mediaService) replaceAvatar(ctx context.Context, media *entities.ActorMedia) ([]*entities.ActorMedia, error) {
	var old []*entities.ActorMedia
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁住演员行，同一演员的头像替换串行执行
		if _, err := s.actorRepo.LockActorByID(ctx, tx, media.ActorID); err != nil {
			return err
		}
		var err error
		old, err = s.mediaRepo.ListMedia(ctx, tx, media.ActorID, enums.MediaAvatar)
		if err != nil {
			return err
		}
		for _, m := range old {
			if err := s.mediaRepo.DeleteMediaByID(ctx, tx, m.ID); err != nil {
				return err
			}
		}
		if err := s.mediaRepo.CreateMedia(ctx, tx, media); err != nil {
			return err
		}
		return s.actorRepo.UpdateActorFields(ctx, tx, media.ActorID, map[string]interface{}{"avatar_url": media.FilePath})
	})
	if err != nil {
		return nil, commonerrors.NewInternal(err)
	}
	return old, nil
}

func (s *mediaService) List(ctx context.Context, caller guard.Caller, actorID string, mediaType enums.MediaType) (*vo.ActorMediaVO, error) {
	const operation = "MediaService.List"
	if mediaType != "" && !mediaType.IsValid() {
		return nil, commonerrors.NewValidation(msgInvalidKind)
	}
	if _, err := s.profiles.AuthorizeActor(ctx, s.db, caller, actorID, guard.ActionViewActor); err != nil {
		s.logFailure(operation, actorID, err)
		return nil, err
	}

	list, err := s.mediaRepo.ListMedia(ctx, s.db, actorID, mediaType)
	if err != nil {
		s.logger.Error("查询媒体列表失败", zap.String("operation", operation), zap.String("actorID", actorID), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}

	out := &vo.ActorMediaVO{ActorID: actorID, Photos: []*vo.MediaVO{}, Videos: []*vo.MediaVO{}}
	for _, m := range list {
		switch m.MediaType {
		case enums.MediaAvatar:
			if out.Avatar == nil {
				out.Avatar = toMediaVO(m)
			}
		case enums.MediaPhoto:
			out.Photos = append(out.Photos, toMediaVO(m))
		case enums.MediaVideo:
			out.Videos = append(out.Videos, toMediaVO(m))
		}
	}
	return out, nil
}

func (s *mediaService) ListSelf(ctx context.Context, caller guard.Caller, mediaType enums.MediaType) (*vo.ActorMediaVO, error) {
	actor, err := s.selfActor(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, caller, actor.ID, mediaType)
}

func (s *mediaService) Delete(ctx context.Context, caller guard.Caller, actorID string, mediaID uint) error {
	const operation = "MediaService.Delete"

	var removed *entities.ActorMedia
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.profiles.AuthorizeActor(ctx, tx, caller, actorID, guard.ActionManageMedia); err != nil {
			return err
		}
		m, err := s.mediaRepo.GetMediaByID(ctx, tx, mediaID)
		if err != nil {
			if errors.Is(err, commonerrors.ErrRepoNotFound) {
				return commonerrors.NewNotFound(msgMediaNotFound)
			}
			return commonerrors.NewInternal(err)
		}
		// 媒体必须属于路径中的演员
		if m.ActorID != actorID {
			return commonerrors.NewNotFound(msgMediaNotFound)
		}
		if err := s.mediaRepo.DeleteMediaByID(ctx, tx, mediaID); err != nil {
			return commonerrors.NewInternal(err)
		}
		if m.MediaType == enums.MediaAvatar {
			if err := s.actorRepo.UpdateActorFields(ctx, tx, actorID, map[string]interface{}{"avatar_url": nil}); err != nil {
				return commonerrors.NewInternal(err)
			}
		}
		removed = m
		return nil
	})
	if err != nil {
		s.logFailure(operation, actorID, err)
		return err
	}

	profile.RemoveMediaObjects(ctx, s.storage, s.logger, []*entities.ActorMedia{removed})
	s.logger.Info("媒体已删除", zap.String("operation", operation), zap.String("actorID", actorID), zap.Uint("mediaID", mediaID))
	return nil
}

func (s *mediaService) DeleteSelf(ctx context.Context, caller guard.Caller, mediaID uint) error {
	actor, err := s.selfActor(ctx, caller)
	if err != nil {
		return err
	}
	return s.Delete(ctx, caller, actor.ID, mediaID)
}

// selfActor 演员本人接口通过账户查找演员，不信任路径参数
func (s *mediaService) selfActor(ctx context.Context, caller guard.Caller) (*entities.Actor, error) {
	if caller.Role != enums.RolePerformer {
		return nil, commonerrors.NewForbidden(msgPerformerOnly)
	}
	return s.profiles.ResolveSelfActor(ctx, s.db, caller)
}

func (s *mediaService) removeObjects(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.storage.DeleteObject(ctx, key); err != nil {
			s.logger.Warn("清理已上传对象失败", zap.String("objectKey", key), zap.Error(err))
		}
	}
}

func (s *mediaService) logFailure(operation, actorID string, err error) {
	switch commonerrors.KindOf(err) {
	case commonerrors.KindInternal, commonerrors.KindStorage:
		s.logger.Error("媒体操作失败", zap.String("operation", operation), zap.String("actorID", actorID), zap.Error(err))
	default:
		s.logger.Info("媒体操作被拒绝", zap.String("operation", operation), zap.String("actorID", actorID), zap.String("reason", commonerrors.PublicMessage(err)))
	}
}

func toMediaVO(m *entities.ActorMedia) *vo.MediaVO {
	return &vo.MediaVO{
		ID:            m.ID,
		ActorID:       m.ActorID,
		MediaType:     string(m.MediaType),
		FileName:      m.FileName,
		FilePath:      m.FilePath,
		FileSize:      m.FileSize,
		MimeType:      m.MimeType,
		ThumbnailPath: m.ThumbnailPath,
		Description:   m.Description,
		UploadedBy:    m.UploadedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// albumPath 把相册名转换为对象键中的一级目录，去掉路径分隔符
func albumPath(description *string) string {
	if description == nil {
		return ""
	}
	album := strings.TrimSpace(utils.SanitizeText(*description))
	album = strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(album)
	return album
}

// objectKey 格式为 {folder}/{actor_id}/{album}/{filename}，album 为空时省略
func objectKey(folder, actorID, album, fileName string) string {
	if album == "" {
		return path.Join(folder, actorID, fileName)
	}
	return path.Join(folder, actorID, album, fileName)
}

// newObjectFileName 用随机名替换原始文件名，保留小写扩展名
func newObjectFileName(original string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(original))
}
