package profile

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/dependencies"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/service/guard"
)

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func (s *profileService) UpdateStatus(ctx context.Context, caller guard.Caller, actorID string, req *dto.UpdateActorStatusDTO) (*vo.ActorVO, error) {
	const operation = "ProfileService.UpdateStatus"
	status := enums.ActorStatus(req.Status)
	if !status.IsValid() {
		return nil, commonerrors.NewValidation("无效的演员状态")
	}
	if status == enums.ActorStatusDeleted {
		return nil, commonerrors.NewValidation("请使用删除接口删除演员")
	}

	var result *vo.ActorVO
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.AuthorizeActor(ctx, tx, caller, actorID, guard.ActionChangeStatus); err != nil {
			return err
		}
		actor, err := s.actorRepo.LockActorByID(ctx, tx, actorID)
		if err != nil {
			return commonerrors.NewInternal(err)
		}
		if actor.Status != status {
			// 从软删除状态恢复时清除删除信息
			fields := map[string]interface{}{"status": status}
			if actor.Status == enums.ActorStatusDeleted {
				fields["deletion_reason"] = nil
				fields["deleted_at"] = nil
			}
			if err := s.actorRepo.UpdateActorFields(ctx, tx, actorID, fields); err != nil {
				return commonerrors.NewInternal(err)
			}
			history := &entities.ActorStatusHistory{
				ActorID:        actorID,
				PreviousStatus: actor.Status,
				NewStatus:      status,
				Reason:         req.Reason,
				ChangedBy:      caller.UserID,
			}
			if err := s.actorRepo.CreateStatusHistory(ctx, tx, history); err != nil {
				return commonerrors.NewInternal(err)
			}
		}
		result, err = s.aggregate(ctx, tx, actorID)
		return err
	})
	if err != nil {
		s.logFailure(operation, actorID, err)
		return nil, err
	}
	s.logger.Info("演员状态已更新", zap.String("operation", operation), zap.String("actorID", actorID), zap.String("status", string(status)))
	return result, nil
}

func (s *profileService) ListStatusHistory(ctx context.Context, caller guard.Caller, actorID string) ([]*vo.StatusHistoryVO, error) {
	const operation = "ProfileService.ListStatusHistory"
	if _, err := s.AuthorizeActor(ctx, s.db, caller, actorID, guard.ActionViewActor); err != nil {
		return nil, err
	}
	list, err := s.actorRepo.ListStatusHistory(ctx, actorID)
	if err != nil {
		s.logger.Error("查询状态变更记录失败", zap.String("operation", operation), zap.String("actorID", actorID), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}
	result := make([]*vo.StatusHistoryVO, 0, len(list))
	for _, h := range list {
		result = append(result, &vo.StatusHistoryVO{
			ID:             h.ID,
			PreviousStatus: string(h.PreviousStatus),
			NewStatus:      string(h.NewStatus),
			Reason:         h.Reason,
			ChangedBy:      h.ChangedBy,
			CreatedAt:      h.CreatedAt,
		})
	}
	return result, nil
}

func (s *profileService) DeleteActor(ctx context.Context, caller guard.Caller, actorID string, q *dto.DeleteActorQuery) error {
	const operation = "ProfileService.DeleteActor"

	var removed []*entities.ActorMedia
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.AuthorizeActor(ctx, tx, caller, actorID, guard.ActionDeleteActor); err != nil {
			return err
		}
		actor, err := s.actorRepo.LockActorByID(ctx, tx, actorID)
		if err != nil {
			return commonerrors.NewInternal(err)
		}

		// 物理删除或显式要求时一并删除媒体
		if q.Permanent || q.DeleteMedia {
			removed, err = s.mediaRepo.ListMedia(ctx, tx, actorID, "")
			if err != nil {
				return commonerrors.NewInternal(err)
			}
			if err := s.mediaRepo.DeleteMediaByActor(ctx, tx, actorID); err != nil {
				return commonerrors.NewInternal(err)
			}
		}

		if q.Permanent {
			return s.purgeActor(ctx, tx, actorID)
		}

		fields := map[string]interface{}{
			"status":          enums.ActorStatusDeleted,
			"deletion_reason": q.Reason,
			"deleted_at":      time.Now(),
		}
		if q.DeleteMedia {
			fields["avatar_url"] = nil
		}
		if err := s.actorRepo.UpdateActorFields(ctx, tx, actorID, fields); err != nil {
			return commonerrors.NewInternal(err)
		}
		if actor.Status != enums.ActorStatusDeleted {
			history := &entities.ActorStatusHistory{
				ActorID:        actorID,
				PreviousStatus: actor.Status,
				NewStatus:      enums.ActorStatusDeleted,
				Reason:         q.Reason,
				ChangedBy:      caller.UserID,
			}
			if err := s.actorRepo.CreateStatusHistory(ctx, tx, history); err != nil {
				return commonerrors.NewInternal(err)
			}
		}
		return nil
	})
	if err != nil {
		s.logFailure(operation, actorID, err)
		return err
	}

	// 事务提交后再删除存储对象，失败只记录日志
	RemoveMediaObjects(ctx, s.storage, s.logger, removed)

	s.logger.Info("演员已删除",
		zap.String("operation", operation),
		zap.String("actorID", actorID),
		zap.Bool("permanent", q.Permanent),
		zap.Int("removedMedia", len(removed)),
		zap.Uint("by", caller.UserID),
	)
	return nil
}

// purgeActor 物理删除演员及其全部附属行
func (s *profileService) purgeActor(ctx context.Context, tx *gorm.DB, actorID string) error {
	if err := s.tagRepo.DeleteActorTags(ctx, tx, actorID); err != nil {
		return commonerrors.NewInternal(err)
	}
	if err := s.actorRepo.DeleteStatusHistory(ctx, tx, actorID); err != nil {
		return commonerrors.NewInternal(err)
	}
	if err := s.profileRepo.DeleteSections(ctx, tx, actorID); err != nil {
		return commonerrors.NewInternal(err)
	}
	if err := s.actorRepo.DeleteActor(ctx, tx, actorID); err != nil {
		return commonerrors.NewInternal(err)
	}
	return nil
}

// RemoveMediaObjects 尽力删除媒体文件及其缩略图在对象存储中的对象。
// 删除失败不影响数据库中的删除结果，只记录警告。
func RemoveMediaObjects(ctx context.Context, storage dependencies.ObjectStorage, logger *core.ZapLogger, media []*entities.ActorMedia) {
	const operation = "profile.RemoveMediaObjects"
	for _, m := range media {
		keys := []string{m.ObjectName}
		if m.ThumbnailObjectName != nil && *m.ThumbnailObjectName != "" {
			keys = append(keys, *m.ThumbnailObjectName)
		}
		for _, key := range keys {
			if key == "" {
				continue
			}
			if err := storage.DeleteObject(ctx, key); err != nil {
				logger.Warn("删除存储对象失败",
					zap.String("operation", operation),
					zap.Uint("mediaID", m.ID),
					zap.String("objectKey", key),
					zap.Error(err),
				)
			}
		}
	}
}
