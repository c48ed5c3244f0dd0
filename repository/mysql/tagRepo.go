package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/vo"
)

// 标签列表允许的排序字段
var allowedTagOrderBy = map[string]string{
	"name":       "tags.name",
	"category":   "tags.category",
	"created_at": "tags.created_at",
}

// TagRepository 定义了标签及演员标签关联的数据存储操作。
type TagRepository interface {
	// CreateTag 名称冲突时返回 commonerrors.ErrRepoDuplicate。
	CreateTag(ctx context.Context, tag *entities.Tag) error

	// GetTagByID 未找到时返回 commonerrors.ErrRepoNotFound。
	GetTagByID(ctx context.Context, tagID uint) (*entities.Tag, error)

	// ExistsTagName 检查名称是否被其他标签占用，excludeID 为 0 时不排除。
	ExistsTagName(ctx context.Context, name string, excludeID uint) (bool, error)

	UpdateTagFields(ctx context.Context, tagID uint, fields map[string]interface{}) error

	// DeleteTag 删除标签，调用方负责先删除关联。
	DeleteTag(ctx context.Context, db *gorm.DB, tagID uint) error

	// ListTags 列出标签，sortBy 只接受 name / category / created_at，其余值按名称排序。
	ListTags(ctx context.Context, category string, sortBy string, desc bool) ([]*entities.Tag, error)

	// FindTagsByIDs 返回存在的标签，调用方比较数量判断是否有未知 ID。
	FindTagsByIDs(ctx context.Context, db *gorm.DB, tagIDs []uint) ([]*entities.Tag, error)

	// CountTagUsage 返回每个标签关联的演员数量。
	CountTagUsage(ctx context.Context) ([]*vo.TagCountVO, error)

	ListActorTags(ctx context.Context, db *gorm.DB, actorID string) ([]*entities.Tag, error)
	ListActorTagIDs(ctx context.Context, db *gorm.DB, actorID string) ([]uint, error)
	CreateActorTags(ctx context.Context, db *gorm.DB, links []*entities.ActorTag) error

	// DeleteActorTag 删除单个关联并返回影响行数，为 0 表示关联不存在。
	DeleteActorTag(ctx context.Context, db *gorm.DB, actorID string, tagID uint) (int64, error)

	// DeleteActorTags 删除演员的全部标签关联。
	DeleteActorTags(ctx context.Context, db *gorm.DB, actorID string) error

	// DeleteLinksByTag 删除某个标签的全部关联。
	DeleteLinksByTag(ctx context.Context, db *gorm.DB, tagID uint) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository 创建一个新的 tagRepository 实例。
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) CreateTag(ctx context.Context, tag *entities.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return commonerrors.ErrRepoDuplicate
		}
		return fmt.Errorf("tagRepo.CreateTag: 创建标签失败: %w", err)
	}
	return nil
}

func (r *tagRepository) GetTagByID(ctx context.Context, tagID uint) (*entities.Tag, error) {
	var tag entities.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", tagID).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("tagRepo.GetTagByID: 查询标签失败 (TagID: %d): %w", tagID, err)
	}
	return &tag, nil
}

func (r *tagRepository) ExistsTagName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entities.Tag{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("tagRepo.ExistsTagName: 检查标签名称失败: %w", err)
	}
	return count > 0, nil
}

func (r *tagRepository) UpdateTagFields(ctx context.Context, tagID uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&entities.Tag{}).Where("id = ?", tagID).Updates(fields).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return commonerrors.ErrRepoDuplicate
		}
		return fmt.Errorf("tagRepo.UpdateTagFields: 更新标签失败 (TagID: %d): %w", tagID, err)
	}
	return nil
}

func (r *tagRepository) DeleteTag(ctx context.Context, db *gorm.DB, tagID uint) error {
	if err := db.WithContext(ctx).Where("id = ?", tagID).Delete(&entities.Tag{}).Error; err != nil {
		return fmt.Errorf("tagRepo.DeleteTag: 删除标签失败 (TagID: %d): %w", tagID, err)
	}
	return nil
}

func (r *tagRepository) ListTags(ctx context.Context, category string, sortBy string, desc bool) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	query := r.db.WithContext(ctx).Model(&entities.Tag{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	orderColumn, ok := allowedTagOrderBy[sortBy]
	if !ok {
		orderColumn = allowedTagOrderBy["name"]
	}
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	if err := query.Order(orderColumn + " " + direction).Order("tags.id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("tagRepo.ListTags: 查询标签列表失败: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) FindTagsByIDs(ctx context.Context, db *gorm.DB, tagIDs []uint) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	if len(tagIDs) == 0 {
		return tags, nil
	}
	if err := db.WithContext(ctx).Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("tagRepo.FindTagsByIDs: 查询标签失败: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) CountTagUsage(ctx context.Context) ([]*vo.TagCountVO, error) {
	var results []*vo.TagCountVO
	err := r.db.WithContext(ctx).
		Table("tags").
		Joins("LEFT JOIN actor_tags ON actor_tags.tag_id = tags.id").
		Select("tags.id, tags.name, tags.category, COUNT(actor_tags.id) AS actor_count").
		Group("tags.id, tags.name, tags.category").
		Order("actor_count DESC, tags.id ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("tagRepo.CountTagUsage: 统计标签使用次数失败: %w", err)
	}
	return results, nil
}

func (r *tagRepository) ListActorTags(ctx context.Context, db *gorm.DB, actorID string) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	err := db.WithContext(ctx).
		Model(&entities.Tag{}).
		Joins("JOIN actor_tags ON actor_tags.tag_id = tags.id").
		Where("actor_tags.actor_id = ?", actorID).
		Order("tags.name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("tagRepo.ListActorTags: 查询演员标签失败 (ActorID: %s): %w", actorID, err)
	}
	return tags, nil
}

func (r *tagRepository) ListActorTagIDs(ctx context.Context, db *gorm.DB, actorID string) ([]uint, error) {
	var ids []uint
	if err := db.WithContext(ctx).Model(&entities.ActorTag{}).Where("actor_id = ?", actorID).Pluck("tag_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("tagRepo.ListActorTagIDs: 查询演员标签 ID 失败 (ActorID: %s): %w", actorID, err)
	}
	return ids, nil
}

func (r *tagRepository) CreateActorTags(ctx context.Context, db *gorm.DB, links []*entities.ActorTag) error {
	if len(links) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).Create(&links).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return commonerrors.ErrRepoDuplicate
		}
		return fmt.Errorf("tagRepo.CreateActorTags: 写入演员标签失败: %w", err)
	}
	return nil
}

func (r *tagRepository) DeleteActorTag(ctx context.Context, db *gorm.DB, actorID string, tagID uint) (int64, error) {
	result := db.WithContext(ctx).Where("actor_id = ? AND tag_id = ?", actorID, tagID).Delete(&entities.ActorTag{})
	if result.Error != nil {
		return 0, fmt.Errorf("tagRepo.DeleteActorTag: 删除演员标签失败 (ActorID: %s, TagID: %d): %w", actorID, tagID, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *tagRepository) DeleteActorTags(ctx context.Context, db *gorm.DB, actorID string) error {
	if err := db.WithContext(ctx).Where("actor_id = ?", actorID).Delete(&entities.ActorTag{}).Error; err != nil {
		return fmt.Errorf("tagRepo.DeleteActorTags: 清空演员标签失败 (ActorID: %s): %w", actorID, err)
	}
	return nil
}

func (r *tagRepository) DeleteLinksByTag(ctx context.Context, db *gorm.DB, tagID uint) error {
	if err := db.WithContext(ctx).Where("tag_id = ?", tagID).Delete(&entities.ActorTag{}).Error; err != nil {
		return fmt.Errorf("tagRepo.DeleteLinksByTag: 删除标签关联失败 (TagID: %d): %w", tagID, err)
	}
	return nil
}
