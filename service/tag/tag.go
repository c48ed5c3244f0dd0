package tag

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/repository/mysql"
	"github.com/Xushengqwer/actor_hub/service/actorList"
	"github.com/Xushengqwer/actor_hub/service/guard"
	"github.com/Xushengqwer/actor_hub/service/profile"
	"github.com/Xushengqwer/actor_hub/utils"
)

const (
	msgTagNotFound     = "标签不存在"
	msgTagNameTaken    = "标签名称已存在"
	msgTagNameRequired = "标签名称不能为空"
	msgUnknownTags     = "部分标签不存在"
	msgEmptyTagIDs     = "标签列表不能为空"
	msgLinkNotFound    = "演员没有此标签"
)

// TagService 管理标签字典以及演员与标签的关联。
type TagService interface {
	ListTags(ctx context.Context, query *dto.TagListQuery) ([]*vo.TagVO, error)
	CreateTag(ctx context.Context, caller guard.Caller, req *dto.CreateTagDTO) (*vo.TagVO, error)
	UpdateTag(ctx context.Context, caller guard.Caller, tagID uint, req *dto.UpdateTagDTO) (*vo.TagVO, error)

	// DeleteTag 删除标签及其全部演员关联。
	DeleteTag(ctx context.Context, caller guard.Caller, tagID uint) error

	// CountUsage 返回每个标签关联的演员数量，按数量降序。
	CountUsage(ctx context.Context) ([]*vo.TagCountVO, error)

	// SearchActors 查询带有任一指定标签的演员，范围按调用者角色收窄。
	SearchActors(ctx context.Context, caller guard.Caller, tagIDs []uint, query *dto.ActorListQuery) (*vo.ActorListVO, error)

	GetActorTags(ctx context.Context, caller guard.Caller, actorID string) (*vo.ActorTagsVO, error)

	// SetActorTags 用给定集合替换演员的全部标签，空集合表示清空。
	SetActorTags(ctx context.Context, caller guard.Caller, actorID string, tagIDs []uint) (*vo.ActorTagsVO, error)

	// AddActorTags 追加标签，已存在的关联被忽略。
	AddActorTags(ctx context.Context, caller guard.Caller, actorID string, tagIDs []uint) (*vo.ActorTagsVO, error)

	// RemoveActorTag 删除单个关联，关联不存在时返回 NotFound。
	RemoveActorTag(ctx context.Context, caller guard.Caller, actorID string, tagID uint) error
}

type tagService struct {
	tagRepo  mysql.TagRepository
	profiles profile.ProfileService
	lists    actorList.ActorListService
	db       *gorm.DB
	logger   *core.ZapLogger
}

// NewTagService 创建一个新的 tagService 实例。
func NewTagService(
	tagRepo mysql.TagRepository,
	profiles profile.ProfileService,
	lists actorList.ActorListService,
	db *gorm.DB,
	logger *core.ZapLogger,
) TagService {
	return &tagService{tagRepo: tagRepo, profiles: profiles, lists: lists, db: db, logger: logger}
}

func toTagVO(t *entities.Tag) *vo.TagVO {
	return &vo.TagVO{ID: t.ID, Name: t.Name, Category: t.Category, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

func toTagVOs(tags []*entities.Tag) []*vo.TagVO {
	out := make([]*vo.TagVO, 0, len(tags))
	for _, t := range tags {
		out = append(out, toTagVO(t))
	}
	return out
}

// uniqueIDs 去重并保持原有顺序
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *tagService) ListTags(ctx context.Context, query *dto.TagListQuery) ([]*vo.TagVO, error) {
	const operation = "TagService.ListTags"
	tags, err := s.tagRepo.ListTags(ctx, query.Category, query.SortBy, query.SortDesc)
	if err != nil {
		s.logger.Error("查询标签列表失败", zap.String("operation", operation), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}
	return toTagVOs(tags), nil
}

func (s *tagService) CreateTag(ctx context.Context, caller guard.Caller, req *dto.CreateTagDTO) (*vo.TagVO, error) {
	const operation = "TagService.CreateTag"
	if err := guard.Authorize(caller, guard.ActionEditTagCatalog, guard.Resource{}); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(utils.SanitizeText(req.Name))
	if name == "" {
		return nil, commonerrors.NewValidation(msgTagNameRequired)
	}

	exists, err := s.tagRepo.ExistsTagName(ctx, name, 0)
	if err != nil {
		s.logger.Error("检查标签名称失败", zap.String("operation", operation), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}
	if exists {
		return nil, commonerrors.NewConflict(msgTagNameTaken)
	}

	t := &entities.Tag{Name: name, Category: utils.SanitizeTextPtr(req.Category)}
	if err := s.tagRepo.CreateTag(ctx, t); err != nil {
		// 并发创建同名标签时由唯一索引兜底
		if errors.Is(err, commonerrors.ErrRepoDuplicate) {
			return nil, commonerrors.NewConflict(msgTagNameTaken)
		}
		s.logger.Error("创建标签失败", zap.String("operation", operation), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}
	s.logger.Info("标签创建成功", zap.String("operation", operation), zap.Uint("tagID", t.ID), zap.String("name", name))
	return toTagVO(t), nil
}

func (s *tagService) UpdateTag(ctx context.Context, caller guard.Caller, tagID uint, req *dto.UpdateTagDTO) (*vo.TagVO, error) {
	const operation = "TagService.UpdateTag"
	if err := guard.Authorize(caller, guard.ActionEditTagCatalog, guard.Resource{}); err != nil {
		return nil, err
	}
	if _, err := s.getTag(ctx, tagID); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(utils.SanitizeText(*req.Name))
		if name == "" {
			return nil, commonerrors.NewValidation(msgTagNameRequired)
		}
		exists, err := s.tagRepo.ExistsTagName(ctx, name, tagID)
		if err != nil {
			s.logger.Error("检查标签名称失败", zap.String("operation", operation), zap.Error(err))
			return nil, commonerrors.NewInternal(err)
		}
		if exists {
			return nil, commonerrors.NewConflict(msgTagNameTaken)
		}
		fields["name"] = name
	}
	if req.Category != nil {
		fields["category"] = utils.SanitizeTextPtr(req.Category)
	}

	if err := s.tagRepo.UpdateTagFields(ctx, tagID, fields); err != nil {
		if errors.Is(err, commonerrors.ErrRepoDuplicate) {
			return nil, commonerrors.NewConflict(msgTagNameTaken)
		}
		s.logger.Error("更新标签失败", zap.String("operation", operation), zap.Uint("tagID", tagID), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}
	updated, err := s.getTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	return toTagVO(updated), nil
}

func (s *tagService) DeleteTag(ctx context.Context, caller guard.Caller, tagID uint) error {
	const operation = "TagService.DeleteTag"
	if err := guard.Authorize(caller, guard.ActionEditTagCatalog, guard.Resource{}); err != nil {
		return err
	}
	if _, err := s.getTag(ctx, tagID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tagRepo.DeleteLinksByTag(ctx, tx, tagID); err != nil {
			return err
		}
		return s.tagRepo.DeleteTag(ctx, tx, tagID)
	})
	if err != nil {
		s.logger.Error("删除标签失败", zap.String("operation", operation), zap.Uint("tagID", tagID), zap.Error(err))
		return commonerrors.NewInternal(err)
	}
	s.logger.Info("标签已删除", zap.String("operation", operation), zap.Uint("tagID", tagID))
	return nil
}

func (s *tagService) getTag(ctx context.Context, tagID uint) (*entities.Tag, error) {
	t, err := s.tagRepo.GetTagByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, commonerrors.NewNotFound(msgTagNotFound)
		}
		return nil, commonerrors.NewInternal(err)
	}
	return t, nil
}

func (s *tagService) CountUsage(ctx context.Context) ([]*vo.TagCountVO, error) {
	counts, err := s.tagRepo.CountTagUsage(ctx)
	if err != nil {
		s.logger.Error("统计标签使用次数失败", zap.String("operation", "TagService.CountUsage"), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}
	return counts, nil
}

func (s *tagService) SearchActors(ctx context.Context, caller guard.Caller, tagIDs []uint, query *dto.ActorListQuery) (*vo.ActorListVO, error) {
	ids := uniqueIDs(tagIDs)
	if len(ids) == 0 {
		return nil, commonerrors.NewValidation(msgEmptyTagIDs)
	}
	filter, err := actorList.BuildFilter(query)
	if err != nil {
		return nil, err
	}
	filter.TagIDs = ids
	actorList.ScopeFilter(caller, filter)
	return s.lists.List(ctx, filter, query.CountOnly)
}
