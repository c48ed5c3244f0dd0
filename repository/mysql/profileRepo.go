package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/models/entities"
)

// ProfileRepository 定义了演员档案三个子表（专业信息、联系方式、签约信息）的数据存储操作。
// - 每个演员在每张子表中最多一行，行以 actor_id 定位。
// - 查询未找到时返回 commonerrors.ErrRepoNotFound，服务层据此决定新建还是更新。
type ProfileRepository interface {
	GetProfessionalInfo(ctx context.Context, db *gorm.DB, actorID string) (*entities.ActorProfessionalInfo, error)
	CreateProfessionalInfo(ctx context.Context, db *gorm.DB, info *entities.ActorProfessionalInfo) error
	UpdateProfessionalInfo(ctx context.Context, db *gorm.DB, actorID string, fields map[string]interface{}) error

	GetContactInfo(ctx context.Context, db *gorm.DB, actorID string) (*entities.ActorContactInfo, error)
	CreateContactInfo(ctx context.Context, db *gorm.DB, info *entities.ActorContactInfo) error
	UpdateContactInfo(ctx context.Context, db *gorm.DB, actorID string, fields map[string]interface{}) error

	GetContractInfo(ctx context.Context, db *gorm.DB, actorID string) (*entities.ActorContractInfo, error)
	CreateContractInfo(ctx context.Context, db *gorm.DB, info *entities.ActorContractInfo) error
	UpdateContractInfo(ctx context.Context, db *gorm.DB, actorID string, fields map[string]interface{}) error

	// ClearAgent 解除某个经纪人名下全部演员的签约关系，用于删除经纪人账户。
	ClearAgent(ctx context.Context, db *gorm.DB, agentID uint) error

	// DeleteSections 删除演员的全部子表记录，用于物理删除演员。
	DeleteSections(ctx context.Context, db *gorm.DB, actorID string) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建一个新的 profileRepository 实例。
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetProfessionalInfo(ctx context.Context, db *gorm.DB, actorID string) (*entities.ActorProfessionalInfo, error) {
	var info entities.ActorProfessionalInfo
	if err := r.getSection(ctx, db, actorID, &info, "GetProfessionalInfo"); err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *profileRepository) CreateProfessionalInfo(ctx context.Context, db *gorm.DB, info *entities.ActorProfessionalInfo) error {
	return r.createSection(ctx, db, info, "CreateProfessionalInfo")
}

func (r *profileRepository) UpdateProfessionalInfo(ctx context.Context, db *gorm.DB, actorID string, fields map[string]interface{}) error {
	return r.updateSection(ctx, db, &entities.ActorProfessionalInfo{}, actorID, fields, "UpdateProfessionalInfo")
}

func (r *profileRepository) GetContactInfo(ctx context.Context, db *gorm.DB, actorID string) (*entities.ActorContactInfo, error) {
	var info entities.ActorContactInfo
	if err := r.getSection(ctx, db, actorID, &info, "GetContactInfo"); err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *profileRepository) CreateContactInfo(ctx context.Context, db *gorm.DB, info *entities.ActorContactInfo) error {
	return r.createSection(ctx, db, info, "CreateContactInfo")
}

func (r *profileRepository) UpdateContactInfo(ctx context.Context, db *gorm.DB, actorID string, fields map[string]interface{}) error {
	return r.updateSection(ctx, db, &entities.ActorContactInfo{}, actorID, fields, "UpdateContactInfo")
}

func (r *profileRepository) GetContractInfo(ctx context.Context, db *gorm.DB, actorID string) (*entities.ActorContractInfo, error) {
	var info entities.ActorContractInfo
	if err := r.getSection(ctx, db, actorID, &info, "GetContractInfo"); err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *profileRepository) CreateContractInfo(ctx context.Context, db *gorm.DB, info *entities.ActorContractInfo) error {
	return r.createSection(ctx, db, info, "CreateContractInfo")
}

func (r *profileRepository) UpdateContractInfo(ctx context.Context, db *gorm.DB, actorID string, fields map[string]interface{}) error {
	return r.updateSection(ctx, db, &entities.ActorContractInfo{}, actorID, fields, "UpdateContractInfo")
}

func (r *profileRepository) ClearAgent(ctx context.Context, db *gorm.DB, agentID uint) error {
	err := db.WithContext(ctx).
		Model(&entities.ActorContractInfo{}).
		Where("agent_id = ?", agentID).
		Update("agent_id", nil).Error
	if err != nil {
		return fmt.Errorf("profileRepo.ClearAgent: 解除经纪人签约失败 (AgentID: %d): %w", agentID, err)
	}
	return nil
}

func (r *profileRepository) DeleteSections(ctx context.Context, db *gorm.DB, actorID string) error {
	for _, model := range []interface{}{
		&entities.ActorProfessionalInfo{},
		&entities.ActorContactInfo{},
		&entities.ActorContractInfo{},
	} {
		if err := db.WithContext(ctx).Where("actor_id = ?", actorID).Delete(model).Error; err != nil {
			return fmt.Errorf("profileRepo.DeleteSections: 删除演员子表失败 (ActorID: %s): %w", actorID, err)
		}
	}
	return nil
}

func (r *profileRepository) getSection(ctx context.Context, db *gorm.DB, actorID string, dest interface{}, method string) error {
	if err := db.WithContext(ctx).Where("actor_id = ?", actorID).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return commonerrors.ErrRepoNotFound
		}
		return fmt.Errorf("profileRepo.%s: 查询失败 (ActorID: %s): %w", method, actorID, err)
	}
	return nil
}

func (r *profileRepository) createSection(ctx context.Context, db *gorm.DB, section interface{}, method string) error {
	if err := db.WithContext(ctx).Create(section).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return commonerrors.ErrRepoDuplicate
		}
		return fmt.Errorf("profileRepo.%s: 创建失败: %w", method, err)
	}
	return nil
}

func (r *profileRepository) updateSection(ctx context.Context, db *gorm.DB, model interface{}, actorID string, fields map[string]interface{}, method string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).Model(model).Where("actor_id = ?", actorID).Updates(fields).Error; err != nil {
		return fmt.Errorf("profileRepo.%s: 更新失败 (ActorID: %s): %w", method, actorID, err)
	}
	return nil
}
