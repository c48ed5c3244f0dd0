package tag

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/service/guard"
)

// validateTagSet 校验整组标签都存在，任一未知 ID 拒绝整个操作
func (s *tagService) validateTagSet(ctx context.Context, tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.tagRepo.FindTagsByIDs(ctx, tx, ids)
	if err != nil {
		return commonerrors.NewInternal(err)
	}
	if len(found) != len(ids) {
		return commonerrors.NewValidation(msgUnknownTags)
	}
	return nil
}

func (s *tagService) actorTags(ctx context.Context, db *gorm.DB, actor *entities.Actor) (*vo.ActorTagsVO, error) {
	tags, err := s.tagRepo.ListActorTags(ctx, db, actor.ID)
	if err != nil {
		return nil, commonerrors.NewInternal(err)
	}
	return &vo.ActorTagsVO{ActorID: actor.ID, ActorName: actor.RealName, Tags: toTagVOs(tags)}, nil
}

func (s *tagService) GetActorTags(ctx context.Context, caller guard.Caller, actorID string) (*vo.ActorTagsVO, error) {
	const operation = "TagService.GetActorTags"
	actor, err := s.profiles.AuthorizeActor(ctx, s.db, caller, actorID, guard.ActionViewActor)
	if err != nil {
		s.logFailure(operation, actorID, err)
		return nil, err
	}
	return s.actorTags(ctx, s.db, actor)
}

func (s *tagService) SetActorTags(ctx context.Context, caller guard.Caller, actorID string, tagIDs []uint) (*vo.ActorTagsVO, error) {
	const operation = "TagService.SetActorTags"
	ids := uniqueIDs(tagIDs)

	var result *vo.ActorTagsVO
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := s.profiles.AuthorizeActor(ctx, tx, caller, actorID, guard.ActionManageTags)
		if err != nil {
			return err
		}
		if err := s.validateTagSet(ctx, tx, ids); err != nil {
			return err
		}
		if err := s.tagRepo.DeleteActorTags(ctx, tx, actorID); err != nil {
			return commonerrors.NewInternal(err)
		}
		if err := s.tagRepo.CreateActorTags(ctx, tx, links(actorID, ids, caller.UserID)); err != nil {
			return commonerrors.NewInternal(err)
		}
		result, err = s.actorTags(ctx, tx, actor)
		return err
	})
	if err != nil {
		s.logFailure(operation, actorID, err)
		return nil, err
	}
	s.logger.Info("演员标签已替换", zap.String("operation", operation), zap.String("actorID", actorID), zap.Int("count", len(ids)))
	return result, nil
}

func (s *tagService) AddActorTags(ctx context.Context, caller guard.Caller, actorID string, tagIDs []uint) (*vo.ActorTagsVO, error) {
	const operation = "TagService.AddActorTags"
	ids := uniqueIDs(tagIDs)
	if len(ids) == 0 {
		return nil, commonerrors.NewValidation(msgEmptyTagIDs)
	}

	var result *vo.ActorTagsVO
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := s.profiles.AuthorizeActor(ctx, tx, caller, actorID, guard.ActionManageTags)
		if err != nil {
			return err
		}
		if err := s.validateTagSet(ctx, tx, ids); err != nil {
			return err
		}

		existing, err := s.tagRepo.ListActorTagIDs(ctx, tx, actorID)
		if err != nil {
			return commonerrors.NewInternal(err)
		}
		have := make(map[uint]struct{}, len(existing))
		for _, id := range existing {
			have[id] = struct{}{}
		}
		var missing []uint
		for _, id := range ids {
			if _, ok := have[id]; !ok {
				missing = append(missing, id)
			}
		}

		if err := s.tagRepo.CreateActorTags(ctx, tx, links(actorID, missing, caller.UserID)); err != nil {
			// 并发追加同一标签时唯一索引会拒绝重复关联
			if errors.Is(err, commonerrors.ErrRepoDuplicate) {
				return commonerrors.NewConflict("标签正在被并发修改，请重试")
			}
			return commonerrors.NewInternal(err)
		}
		result, err = s.actorTags(ctx, tx, actor)
		return err
	})
	if err != nil {
		s.logFailure(operation, actorID, err)
		return nil, err
	}
	s.logger.Info("演员标签已追加", zap.String("operation", operation), zap.String("actorID", actorID), zap.Int("total", len(result.Tags)))
	return result, nil
}

func (s *tagService) RemoveActorTag(ctx context.Context, caller guard.Caller, actorID string, tagID uint) error {
	const operation = "TagService.RemoveActorTag"
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.profiles.AuthorizeActor(ctx, tx, caller, actorID, guard.ActionManageTags); err != nil {
			return err
		}
		affected, err := s.tagRepo.DeleteActorTag(ctx, tx, actorID, tagID)
		if err != nil {
			return commonerrors.NewInternal(err)
		}
		if affected == 0 {
			return commonerrors.NewNotFound(msgLinkNotFound)
		}
		return nil
	})
	if err != nil {
		s.logFailure(operation, actorID, err)
		return err
	}
	s.logger.Info("演员标签已移除", zap.String("operation", operation), zap.String("actorID", actorID), zap.Uint("tagID", tagID))
	return nil
}

func links(actorID string, tagIDs []uint, createdBy uint) []*entities.ActorTag {
	out := make([]*entities.ActorTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		by := createdBy
		out = append(out, &entities.ActorTag{ActorID: actorID, TagID: id, CreatedBy: &by})
	}
	return out
}

func (s *tagService) logFailure(operation, actorID string, err error) {
	if commonerrors.KindOf(err) == commonerrors.KindInternal {
		s.logger.Error("演员标签操作失败", zap.String("operation", operation), zap.String("actorID", actorID), zap.Error(err))
		return
	}
	s.logger.Info("演员标签操作被拒绝", zap.String("operation", operation), zap.String("actorID", actorID), zap.String("reason", commonerrors.PublicMessage(err)))
}
