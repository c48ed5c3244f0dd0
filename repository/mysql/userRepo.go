package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
)

// UserRepository 定义了系统账户（User）及其权限的数据存储操作。
// - 写操作与可能出现在事务中的读操作都接收 db 参数，服务层可以传入事务 tx。
type UserRepository interface {
	// CreateUser 持久化一个新账户，user.Permissions 中的权限会一并写入。
	// - 用户名或手机号冲突时返回 commonerrors.ErrRepoDuplicate。
	CreateUser(ctx context.Context, db *gorm.DB, user *entities.User) error

	// GetUserByID 根据 ID 查询账户并预加载权限。
	// - 未找到时返回 commonerrors.ErrRepoNotFound。
	GetUserByID(ctx context.Context, db *gorm.DB, userID uint) (*entities.User, error)

	// GetUserByUsername 根据用户名查询账户并预加载权限，用于登录。
	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)

	// ExistsByUsername 检查用户名是否已被其他账户占用，excludeID 为 0 时不排除任何账户。
	ExistsByUsername(ctx context.Context, db *gorm.DB, username string, excludeID uint) (bool, error)

	// ExistsByPhone 检查手机号是否已被其他账户占用。
	ExistsByPhone(ctx context.Context, db *gorm.DB, phone string, excludeID uint) (bool, error)

	// LockUserByID 在事务中以 FOR UPDATE 读取账户。
	LockUserByID(ctx context.Context, tx *gorm.DB, userID uint) (*entities.User, error)

	// LockActiveAdminIDs 在事务中锁定所有活跃管理员并返回其 ID，用于“最后一个管理员”校验。
	LockActiveAdminIDs(ctx context.Context, tx *gorm.DB) ([]uint, error)

	// UpdateUserFields 按列名更新账户字段。
	UpdateUserFields(ctx context.Context, db *gorm.DB, userID uint, fields map[string]interface{}) error

	// DeleteUser 物理删除账户。
	DeleteUser(ctx context.Context, db *gorm.DB, userID uint) error

	// ReplacePermissions 用给定列表覆盖账户的全部权限。
	ReplacePermissions(ctx context.Context, db *gorm.DB, userID uint, permissions []string) error

	// DeletePermissions 删除账户的全部权限。
	DeletePermissions(ctx context.Context, db *gorm.DB, userID uint) error
}

// userRepository 是 UserRepository 接口基于 GORM 的实现。
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建一个新的 userRepository 实例。
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, db *gorm.DB, user *entities.User) error {
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return commonerrors.ErrRepoDuplicate
		}
		return fmt.Errorf("userRepo.CreateUser: 创建用户失败: %w", err)
	}
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, db *gorm.DB, userID uint) (*entities.User, error) {
	var user entities.User
	err := db.WithContext(ctx).Preload("Permissions").Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("userRepo.GetUserByID: 查询用户失败 (UserID: %d): %w", userID, err)
	}
	return &user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Preload("Permissions").Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("userRepo.GetUserByUsername: 查询用户失败 (Username: %s): %w", username, err)
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, db *gorm.DB, username string, excludeID uint) (bool, error) {
	return r.exists(ctx, db, "username", username, excludeID)
}

func (r *userRepository) ExistsByPhone(ctx context.Context, db *gorm.DB, phone string, excludeID uint) (bool, error) {
	return r.exists(ctx, db, "phone", phone, excludeID)
}

// exists 统计某个唯一列上的占用情况，column 只由本文件传入固定值
func (r *userRepository) exists(ctx context.Context, db *gorm.DB, column, value string, excludeID uint) (bool, error) {
	var count int64
	query := db.WithContext(ctx).Model(&entities.User{}).Where(column+" = ?", value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("userRepo.exists: 检查 %s 是否占用失败: %w", column, err)
	}
	return count > 0, nil
}

func (r *userRepository) LockUserByID(ctx context.Context, tx *gorm.DB, userID uint) (*entities.User, error) {
	var user entities.User
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("userRepo.LockUserByID: 锁定用户失败 (UserID: %d): %w", userID, err)
	}
	return &user, nil
}

func (r *userRepository) LockActiveAdminIDs(ctx context.Context, tx *gorm.DB) ([]uint, error) {
	var ids []uint
	err := tx.WithContext(ctx).
		Model(&entities.User{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("role = ? AND status = ?", enums.RoleAdmin, enums.UserStatusActive).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("userRepo.LockActiveAdminIDs: 查询活跃管理员失败: %w", err)
	}
	return ids, nil
}

func (r *userRepository) UpdateUserFields(ctx context.Context, db *gorm.DB, userID uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	err := db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", userID).Updates(fields).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return commonerrors.ErrRepoDuplicate
		}
		return fmt.Errorf("userRepo.UpdateUserFields: 更新用户失败 (UserID: %d): %w", userID, err)
	}
	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, db *gorm.DB, userID uint) error {
	if err := db.WithContext(ctx).Where("id = ?", userID).Delete(&entities.User{}).Error; err != nil {
		return fmt.Errorf("userRepo.DeleteUser: 删除用户失败 (UserID: %d): %w", userID, err)
	}
	return nil
}

func (r *userRepository) ReplacePermissions(ctx context.Context, db *gorm.DB, userID uint, permissions []string) error {
	if err := r.DeletePermissions(ctx, db, userID); err != nil {
		return err
	}
	if len(permissions) == 0 {
		return nil
	}
	rows := make([]entities.UserPermission, 0, len(permissions))
	for _, p := range permissions {
		rows = append(rows, entities.UserPermission{UserID: userID, Permission: p})
	}
	if err := db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("userRepo.ReplacePermissions: 写入权限失败 (UserID: %d): %w", userID, err)
	}
	return nil
}

func (r *userRepository) DeletePermissions(ctx context.Context, db *gorm.DB, userID uint) error {
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entities.UserPermission{}).Error; err != nil {
		return fmt.Errorf("userRepo.DeletePermissions: 删除权限失败 (UserID: %d): %w", userID, err)
	}
	return nil
}
