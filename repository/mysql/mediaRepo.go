package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
)

// MediaRepository 定义了演员媒体元数据的数据存储操作。
type MediaRepository interface {
	CreateMedia(ctx context.Context, db *gorm.DB, media *entities.ActorMedia) error

	// GetMediaByID 未找到时返回 commonerrors.ErrRepoNotFound。
	GetMediaByID(ctx context.Context, db *gorm.DB, mediaID uint) (*entities.ActorMedia, error)

	// ListMedia 按上传时间倒序列出演员媒体，mediaType 为空时返回全部类型。
	ListMedia(ctx context.Context, db *gorm.DB, actorID string, mediaType enums.MediaType) ([]*entities.ActorMedia, error)

	// CountMedia 统计演员某类媒体的数量，用于配额校验。
	CountMedia(ctx context.Context, db *gorm.DB, actorID string, mediaType enums.MediaType) (int64, error)

	DeleteMediaByID(ctx context.Context, db *gorm.DB, mediaID uint) error

	// DeleteMediaByActor 删除演员的全部媒体记录。
	DeleteMediaByActor(ctx context.Context, db *gorm.DB, actorID string) error
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository 创建一个新的 mediaRepository 实例。
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) CreateMedia(ctx context.Context, db *gorm.DB, media *entities.ActorMedia) error {
	if err := db.WithContext(ctx).Create(media).Error; err != nil {
		return fmt.Errorf("mediaRepo.CreateMedia: 保存媒体记录失败 (ActorID: %s): %w", media.ActorID, err)
	}
	return nil
}

func (r *mediaRepository) GetMediaByID(ctx context.Context, db *gorm.DB, mediaID uint) (*entities.ActorMedia, error) {
	var media entities.ActorMedia
	if err := db.WithContext(ctx).Where("id = ?", mediaID).First(&media).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("mediaRepo.GetMediaByID: 查询媒体失败 (MediaID: %d): %w", mediaID, err)
	}
	return &media, nil
}

func (r *mediaRepository) ListMedia(ctx context.Context, db *gorm.DB, actorID string, mediaType enums.MediaType) ([]*entities.ActorMedia, error) {
	var list []*entities.ActorMedia
	query := db.WithContext(ctx).Where("actor_id = ?", actorID)
	if mediaType != "" {
		query = query.Where("media_type = ?", mediaType)
	}
	if err := query.Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("mediaRepo.ListMedia: 查询媒体列表失败 (ActorID: %s): %w", actorID, err)
	}
	return list, nil
}

func (r *mediaRepository) CountMedia(ctx context.Context, db *gorm.DB, actorID string, mediaType enums.MediaType) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&entities.ActorMedia{}).
		Where("actor_id = ? AND media_type = ?", actorID, mediaType).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("mediaRepo.CountMedia: 统计媒体数量失败 (ActorID: %s): %w", actorID, err)
	}
	return count, nil
}

func (r *mediaRepository) DeleteMediaByID(ctx context.Context, db *gorm.DB, mediaID uint) error {
	if err := db.WithContext(ctx).Where("id = ?", mediaID).Delete(&entities.ActorMedia{}).Error; err != nil {
		return fmt.Errorf("mediaRepo.DeleteMediaByID: 删除媒体记录失败 (MediaID: %d): %w", mediaID, err)
	}
	return nil
}

func (r *mediaRepository) DeleteMediaByActor(ctx context.Context, db *gorm.DB, actorID string) error {
	if err := db.WithContext(ctx).Where("actor_id = ?", actorID).Delete(&entities.ActorMedia{}).Error; err != nil {
		return fmt.Errorf("mediaRepo.DeleteMediaByActor: 删除演员媒体记录失败 (ActorID: %s): %w", actorID, err)
	}
	return nil
}
