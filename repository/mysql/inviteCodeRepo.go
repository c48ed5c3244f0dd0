package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/models/entities"
)

// InviteUsageRow 邀请码使用记录及使用者用户名
type InviteUsageRow struct {
	InviteCodeID string
	UserID       uint
	Username     string
	CreatedAt    time.Time
}

// InviteCodeRepository 定义了邀请码及其使用记录的数据存储操作。
type InviteCodeRepository interface {
	// CreateInviteCode 邀请码重复时返回 commonerrors.ErrRepoDuplicate。
	CreateInviteCode(ctx context.Context, db *gorm.DB, code *entities.InviteCode) error

	ExistsCode(ctx context.Context, code string) (bool, error)

	// GetByCode 未找到时返回 commonerrors.ErrRepoNotFound。
	GetByCode(ctx context.Context, db *gorm.DB, code string) (*entities.InviteCode, error)

	// GetByID 未找到时返回 commonerrors.ErrRepoNotFound。
	GetByID(ctx context.Context, id string) (*entities.InviteCode, error)

	// ListByAgent 按创建时间倒序列出经纪人发放的邀请码。
	ListByAgent(ctx context.Context, agentID uint) ([]*entities.InviteCode, error)

	// ListUsages 返回一组邀请码的使用记录，附带使用者用户名。
	ListUsages(ctx context.Context, codeIDs []string) ([]*InviteUsageRow, error)

	CreateUsage(ctx context.Context, db *gorm.DB, usage *entities.InviteCodeUsage) error

	// DeleteInviteCode 删除邀请码及其使用记录。
	DeleteInviteCode(ctx context.Context, db *gorm.DB, id string) error
}

type inviteCodeRepository struct {
	db *gorm.DB
}

// NewInviteCodeRepository 创建一个新的 inviteCodeRepository 实例。
func NewInviteCodeRepository(db *gorm.DB) InviteCodeRepository {
	return &inviteCodeRepository{db: db}
}

func (r *inviteCodeRepository) CreateInviteCode(ctx context.Context, db *gorm.DB, code *entities.InviteCode) error {
	if err := db.WithContext(ctx).Create(code).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return commonerrors.ErrRepoDuplicate
		}
		return fmt.Errorf("inviteCodeRepo.CreateInviteCode: 创建邀请码失败: %w", err)
	}
	return nil
}

func (r *inviteCodeRepository) ExistsCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.InviteCode{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, fmt.Errorf("inviteCodeRepo.ExistsCode: 检查邀请码失败: %w", err)
	}
	return count > 0, nil
}

func (r *inviteCodeRepository) GetByCode(ctx context.Context, db *gorm.DB, code string) (*entities.InviteCode, error) {
	var invite entities.InviteCode
	if err := db.WithContext(ctx).Where("code = ?", code).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("inviteCodeRepo.GetByCode: 查询邀请码失败: %w", err)
	}
	return &invite, nil
}

func (r *inviteCodeRepository) GetByID(ctx context.Context, id string) (*entities.InviteCode, error) {
	var invite entities.InviteCode
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("inviteCodeRepo.GetByID: 查询邀请码失败 (ID: %s): %w", id, err)
	}
	return &invite, nil
}

func (r *inviteCodeRepository) ListByAgent(ctx context.Context, agentID uint) ([]*entities.InviteCode, error) {
	var list []*entities.InviteCode
	err := r.db.WithContext(ctx).Where("agent_id = ?", agentID).Order("created_at DESC").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("inviteCodeRepo.ListByAgent: 查询邀请码列表失败 (AgentID: %d): %w", agentID, err)
	}
	return list, nil
}

func (r *inviteCodeRepository) ListUsages(ctx context.Context, codeIDs []string) ([]*InviteUsageRow, error) {
	var rows []*InviteUsageRow
	if len(codeIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Table("invite_code_usages").
		Joins("JOIN users ON users.id = invite_code_usages.user_id").
		Select("invite_code_usages.invite_code_id, invite_code_usages.user_id, users.username, invite_code_usages.created_at").
		Where("invite_code_usages.invite_code_id IN ?", codeIDs).
		Order("invite_code_usages.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("inviteCodeRepo.ListUsages: 查询邀请码使用记录失败: %w", err)
	}
	return rows, nil
}

func (r *inviteCodeRepository) CreateUsage(ctx context.Context, db *gorm.DB, usage *entities.InviteCodeUsage) error {
	if err := db.WithContext(ctx).Create(usage).Error; err != nil {
		return fmt.Errorf("inviteCodeRepo.CreateUsage: 记录邀请码使用失败: %w", err)
	}
	return nil
}

func (r *inviteCodeRepository) DeleteInviteCode(ctx context.Context, db *gorm.DB, id string) error {
	if err := db.WithContext(ctx).Where("invite_code_id = ?", id).Delete(&entities.InviteCodeUsage{}).Error; err != nil {
		return fmt.Errorf("inviteCodeRepo.DeleteInviteCode: 删除邀请码使用记录失败 (ID: %s): %w", id, err)
	}
	if err := db.WithContext(ctx).Where("id = ?", id).Delete(&entities.InviteCode{}).Error; err != nil {
		return fmt.Errorf("inviteCodeRepo.DeleteInviteCode: 删除邀请码失败 (ID: %s): %w", id, err)
	}
	return nil
}
