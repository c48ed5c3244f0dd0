package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/constants"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/utils"
)

// ActorRepository 定义了演员基础信息与状态历史的数据存储操作。
type ActorRepository interface {
	// CreateActor 持久化演员基础信息。
	// - 编号或 user_id 冲突时返回 commonerrors.ErrRepoDuplicate，服务层据此重试编号。
	CreateActor(ctx context.Context, db *gorm.DB, actor *entities.Actor) error

	// GetActorByID 查询演员基础信息，未找到时返回 commonerrors.ErrRepoNotFound。
	GetActorByID(ctx context.Context, db *gorm.DB, actorID string) (*entities.Actor, error)

	// GetActorByUserID 查询账户关联的演员，未找到时返回 commonerrors.ErrRepoNotFound。
	GetActorByUserID(ctx context.Context, db *gorm.DB, userID uint) (*entities.Actor, error)

	// ExistsActorID 检查编号是否已被使用。
	ExistsActorID(ctx context.Context, db *gorm.DB, actorID string) (bool, error)

	// GenerateActorID 生成一个尚未被使用的演员编号，最多尝试 constants.ActorIDMaxAttempts 次。
	GenerateActorID(ctx context.Context, db *gorm.DB) (string, error)

	// LockActorByID 在事务中以 FOR UPDATE 读取演员。
	LockActorByID(ctx context.Context, tx *gorm.DB, actorID string) (*entities.Actor, error)

	// UpdateActorFields 按列名更新演员字段。
	UpdateActorFields(ctx context.Context, db *gorm.DB, actorID string, fields map[string]interface{}) error

	// DeleteActor 物理删除演员基础信息行。
	DeleteActor(ctx context.Context, db *gorm.DB, actorID string) error

	// DetachUser 解除演员与账户的关联（删除账户时使用）。
	DetachUser(ctx context.Context, db *gorm.DB, userID uint) error

	// CreateStatusHistory 记录一次状态变更。
	CreateStatusHistory(ctx context.Context, db *gorm.DB, history *entities.ActorStatusHistory) error

	// ListStatusHistory 按时间倒序返回演员的状态变更记录。
	ListStatusHistory(ctx context.Context, actorID string) ([]*entities.ActorStatusHistory, error)

	// DeleteStatusHistory 删除演员的全部状态变更记录。
	DeleteStatusHistory(ctx context.Context, db *gorm.DB, actorID string) error
}

type actorRepository struct {
	db *gorm.DB
}

// NewActorRepository 创建一个新的 actorRepository 实例。
func NewActorRepository(db *gorm.DB) ActorRepository {
	return &actorRepository{db: db}
}

func (r *actorRepository) CreateActor(ctx context.Context, db *gorm.DB, actor *entities.Actor) error {
	if err := db.WithContext(ctx).Create(actor).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return commonerrors.ErrRepoDuplicate
		}
		return fmt.Errorf("actorRepo.CreateActor: 创建演员失败: %w", err)
	}
	return nil
}

func (r *actorRepository) GetActorByID(ctx context.Context, db *gorm.DB, actorID string) (*entities.Actor, error) {
	var actor entities.Actor
	if err := db.WithContext(ctx).Where("id = ?", actorID).First(&actor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("actorRepo.GetActorByID: 查询演员失败 (ActorID: %s): %w", actorID, err)
	}
	return &actor, nil
}

func (r *actorRepository) GetActorByUserID(ctx context.Context, db *gorm.DB, userID uint) (*entities.Actor, error) {
	var actor entities.Actor
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&actor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("actorRepo.GetActorByUserID: 查询演员失败 (UserID: %d): %w", userID, err)
	}
	return &actor, nil
}

func (r *actorRepository) ExistsActorID(ctx context.Context, db *gorm.DB, actorID string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&entities.Actor{}).Where("id = ?", actorID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("actorRepo.ExistsActorID: 检查演员编号失败: %w", err)
	}
	return count > 0, nil
}

func (r *actorRepository) GenerateActorID(ctx context.Context, db *gorm.DB) (string, error) {
	for i := 0; i < constants.ActorIDMaxAttempts; i++ {
		id := utils.NewActorID(time.Now())
		exists, err := r.ExistsActorID(ctx, db, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("actorRepo.GenerateActorID: %d 次尝试后仍未生成唯一编号", constants.ActorIDMaxAttempts)
}

func (r *actorRepository) LockActorByID(ctx context.Context, tx *gorm.DB, actorID string) (*entities.Actor, error) {
	var actor entities.Actor
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", actorID).
		First(&actor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("actorRepo.LockActorByID: 锁定演员失败 (ActorID: %s): %w", actorID, err)
	}
	return &actor, nil
}

func (r *actorRepository) UpdateActorFields(ctx context.Context, db *gorm.DB, actorID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).Model(&entities.Actor{}).Where("id = ?", actorID).Updates(fields).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return commonerrors.ErrRepoDuplicate
		}
		return fmt.Errorf("actorRepo.UpdateActorFields: 更新演员失败 (ActorID: %s): %w", actorID, err)
	}
	return nil
}

func (r *actorRepository) DeleteActor(ctx context.Context, db *gorm.DB, actorID string) error {
	if err := db.WithContext(ctx).Where("id = ?", actorID).Delete(&entities.Actor{}).Error; err != nil {
		return fmt.Errorf("actorRepo.DeleteActor: 删除演员失败 (ActorID: %s): %w", actorID, err)
	}
	return nil
}

func (r *actorRepository) DetachUser(ctx context.Context, db *gorm.DB, userID uint) error {
	err := db.WithContext(ctx).Model(&entities.Actor{}).Where("user_id = ?", userID).Update("user_id", nil).Error
	if err != nil {
		return fmt.Errorf("actorRepo.DetachUser: 解除演员账户关联失败 (UserID: %d): %w", userID, err)
	}
	return nil
}

func (r *actorRepository) CreateStatusHistory(ctx context.Context, db *gorm.DB, history *entities.ActorStatusHistory) error {
	if err := db.WithContext(ctx).Create(history).Error; err != nil {
		return fmt.Errorf("actorRepo.CreateStatusHistory: 记录状态变更失败 (ActorID: %s): %w", history.ActorID, err)
	}
	return nil
}

func (r *actorRepository) ListStatusHistory(ctx context.Context, actorID string) ([]*entities.ActorStatusHistory, error) {
	var list []*entities.ActorStatusHistory
	err := r.db.WithContext(ctx).Where("actor_id = ?", actorID).Order("created_at DESC, id DESC").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("actorRepo.ListStatusHistory: 查询状态变更记录失败 (ActorID: %s): %w", actorID, err)
	}
	return list, nil
}

func (r *actorRepository) DeleteStatusHistory(ctx context.Context, db *gorm.DB, actorID string) error {
	if err := db.WithContext(ctx).Where("actor_id = ?", actorID).Delete(&entities.ActorStatusHistory{}).Error; err != nil {
		return fmt.Errorf("actorRepo.DeleteStatusHistory: 删除状态变更记录失败 (ActorID: %s): %w", actorID, err)
	}
	return nil
}
