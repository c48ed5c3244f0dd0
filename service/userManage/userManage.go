package userManage

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/constants"
	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/repository/mysql"
	"github.com/Xushengqwer/actor_hub/service/guard"
	"github.com/Xushengqwer/actor_hub/utils"
)

const (
	msgUserNotFound      = "用户不存在"
	msgUsernameTaken     = "用户名已存在"
	msgPhoneTaken        = "手机号已被注册"
	msgDuplicateAccount  = "用户名或手机号已存在"
	msgLastAdminDisable  = "不能禁用唯一的管理员账户"
	msgLastAdminDelete   = "不能删除唯一的管理员账户"
	msgLastAdminBan      = "不能禁止唯一的管理员账户"
	msgCannotDeleteSelf  = "不能删除自己的账户"
	msgCannotBanSelf     = "不能禁止自己的账户"
	msgInvalidRole       = "无效的用户角色"
	msgInvalidUserStatus = "无效的用户状态"
)

// UserManageService 定义了管理员维护系统账户的服务接口。
// 设计目的:
//   - 所有操作只对管理员开放，由 guard 统一判断。
//   - 任何操作都不能让系统失去最后一个活跃管理员；相关校验在锁定活跃管理员后进行。
type UserManageService interface {
	// ListUsers 分页查询账户。
	// 参数:
	//   - query: Limit 未指定或不大于 0 时使用默认值；CountOnly 为 true 时只返回一条带 TotalCount 的汇总记录。
	ListUsers(ctx context.Context, caller guard.Caller, query *dto.UserListQuery) (*vo.UserListVO, error)

	// GetUser 查询单个账户，不存在时返回 NotFound。
	GetUser(ctx context.Context, caller guard.Caller, userID uint) (*vo.UserVO, error)

	// UpdateUser 按 DTO 中的非 nil 字段更新账户。
	// - 修改角色时按新角色重置权限列表。
	// - 修改密码时只保存哈希。
	UpdateUser(ctx context.Context, caller guard.Caller, userID uint, req *dto.UpdateUserDTO) (*vo.UserVO, error)

	// DeleteUser 物理删除账户。
	// - 关联的演员档案保留，只解除关联；经纪人名下演员变为未分配状态。
	DeleteUser(ctx context.Context, caller guard.Caller, userID uint) error

	// BanUser 将账户标记为禁止登录。
	BanUser(ctx context.Context, caller guard.Caller, userID uint) error

	// ActivateUser 恢复账户为活跃状态。
	ActivateUser(ctx context.Context, caller guard.Caller, userID uint) error
}

// userManageService 是 UserManageService 接口的实现。
type userManageService struct {
	userRepo    mysql.UserRepository
	actorRepo   mysql.ActorRepository
	profileRepo mysql.ProfileRepository
	joinQuery   mysql.JoinQuery
	db          *gorm.DB
	logger      *core.ZapLogger
}

// NewUserManageService 创建一个新的 userManageService 实例。
func NewUserManageService(
	userRepo mysql.UserRepository,
	actorRepo mysql.ActorRepository,
	profileRepo mysql.ProfileRepository,
	joinQuery mysql.JoinQuery,
	db *gorm.DB,
	logger *core.ZapLogger,
) UserManageService {
	return &userManageService{
		userRepo:    userRepo,
		actorRepo:   actorRepo,
		profileRepo: profileRepo,
		joinQuery:   joinQuery,
		db:          db,
		logger:      logger,
	}
}

func (s *userManageService) ListUsers(ctx context.Context, caller guard.Caller, query *dto.UserListQuery) (*vo.UserListVO, error) {
	const operation = "UserManageService.ListUsers"
	if err := guard.Authorize(caller, guard.ActionManageUsers, guard.Resource{}); err != nil {
		return nil, err
	}

	q := *query
	if q.Limit <= 0 {
		q.Limit = constants.DefaultListLimit
	}
	if q.Role != "" && !enums.UserRole(q.Role).IsValid() {
		return nil, commonerrors.NewValidation(msgInvalidRole)
	}
	if q.Status != "" && !enums.UserStatus(q.Status).IsValid() {
		return nil, commonerrors.NewValidation(msgInvalidUserStatus)
	}

	users, total, err := s.joinQuery.ListUsers(ctx, &q)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.String("operation", operation), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}

	if q.CountOnly {
		return &vo.UserListVO{
			Total: total,
			Items: []*vo.UserVO{{Username: "count", Permissions: []string{}, TotalCount: &total}},
		}, nil
	}

	items := make([]*vo.UserVO, 0, len(users))
	for _, u := range users {
		items = append(items, vo.NewUserVO(u))
	}
	return &vo.UserListVO{Total: total, Items: items}, nil
}

func (s *userManageService) GetUser(ctx context.Context, caller guard.Caller, userID uint) (*vo.UserVO, error) {
	const operation = "UserManageService.GetUser"
	if err := guard.Authorize(caller, guard.ActionManageUsers, guard.Resource{}); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, commonerrors.NewNotFound(msgUserNotFound)
		}
		s.logger.Error("查询用户失败", zap.String("operation", operation), zap.Uint("userID", userID), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}
	return vo.NewUserVO(user), nil
}

func (s *userManageService) UpdateUser(ctx context.Context, caller guard.Caller, userID uint, req *dto.UpdateUserDTO) (*vo.UserVO, error) {
	const operation = "UserManageService.UpdateUser"
	if err := guard.Authorize(caller, guard.ActionManageUsers, guard.Resource{}); err != nil {
		return nil, err
	}

	var result *vo.UserVO
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		fields := make(map[string]interface{})
		newRole := user.Role
		newStatus := user.Status

		if req.Username != nil && *req.Username != user.Username {
			taken, err := s.userRepo.ExistsByUsername(ctx, tx, *req.Username, userID)
			if err != nil {
				return commonerrors.NewInternal(err)
			}
			if taken {
				return commonerrors.NewConflict(msgUsernameTaken)
			}
			fields["username"] = *req.Username
		}
		if req.Phone != nil && *req.Phone != user.Phone {
			taken, err := s.userRepo.ExistsByPhone(ctx, tx, *req.Phone, userID)
			if err != nil {
				return commonerrors.NewInternal(err)
			}
			if taken {
				return commonerrors.NewConflict(msgPhoneTaken)
			}
			fields["phone"] = *req.Phone
		}
		if req.Email != nil {
			fields["email"] = *req.Email
		}
		if req.Password != nil {
			hash, err := utils.HashPassword(*req.Password)
			if err != nil {
				return commonerrors.NewInternal(err)
			}
			fields["password_hash"] = hash
		}
		if req.Status != nil {
			newStatus = enums.UserStatus(*req.Status)
			if !newStatus.IsValid() {
				return commonerrors.NewValidation(msgInvalidUserStatus)
			}
			fields["status"] = newStatus
		}
		if req.Role != nil {
			newRole = enums.UserRole(*req.Role)
			if !newRole.IsValid() {
				return commonerrors.NewValidation(msgInvalidRole)
			}
			fields["role"] = newRole
		}

		// 活跃管理员被降级或停用时，必须还有其他活跃管理员
		if isActiveAdmin(user.Role, user.Status) && !isActiveAdmin(newRole, newStatus) {
			if err := s.ensureOtherAdmin(ctx, tx, userID, msgLastAdminDisable); err != nil {
				return err
			}
		}

		if err := s.userRepo.UpdateUserFields(ctx, tx, userID, fields); err != nil {
			if errors.Is(err, commonerrors.ErrRepoDuplicate) {
				return commonerrors.NewConflict(msgDuplicateAccount)
			}
			return commonerrors.NewInternal(err)
		}
		if newRole != user.Role {
			if err := s.userRepo.ReplacePermissions(ctx, tx, userID, enums.DefaultPermissions(newRole)); err != nil {
				return commonerrors.NewInternal(err)
			}
		}

		updated, err := s.userRepo.GetUserByID(ctx, tx, userID)
		if err != nil {
			return commonerrors.NewInternal(err)
		}
		result = vo.NewUserVO(updated)
		return nil
	})
	if err != nil {
		s.logFailure(operation, userID, err)
		return nil, err
	}

	s.logger.Info("用户信息已更新", zap.String("operation", operation), zap.Uint("userID", userID), zap.Uint("by", caller.UserID))
	return result, nil
}

func (s *userManageService) DeleteUser(ctx context.Context, caller guard.Caller, userID uint) error {
	const operation = "UserManageService.DeleteUser"
	if err := guard.Authorize(caller, guard.ActionManageUsers, guard.Resource{}); err != nil {
		return err
	}
	if userID == caller.UserID {
		return commonerrors.NewValidation(msgCannotDeleteSelf)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if isActiveAdmin(user.Role, user.Status) {
			if err := s.ensureOtherAdmin(ctx, tx, userID, msgLastAdminDelete); err != nil {
				return err
			}
		}

		if err := s.actorRepo.DetachUser(ctx, tx, userID); err != nil {
			return commonerrors.NewInternal(err)
		}
		if user.Role == enums.RoleManager {
			if err := s.profileRepo.ClearAgent(ctx, tx, userID); err != nil {
				return commonerrors.NewInternal(err)
			}
		}
		if err := s.userRepo.DeletePermissions(ctx, tx, userID); err != nil {
			return commonerrors.NewInternal(err)
		}
		if err := s.userRepo.DeleteUser(ctx, tx, userID); err != nil {
			return commonerrors.NewInternal(err)
		}
		return nil
	})
	if err != nil {
		s.logFailure(operation, userID, err)
		return err
	}

	s.logger.Info("用户已删除", zap.String("operation", operation), zap.Uint("userID", userID), zap.Uint("by", caller.UserID))
	return nil
}

func (s *userManageService) BanUser(ctx context.Context, caller guard.Caller, userID uint) error {
	const operation = "UserManageService.BanUser"
	if err := guard.Authorize(caller, guard.ActionManageUsers, guard.Resource{}); err != nil {
		return err
	}
	if userID == caller.UserID {
		return commonerrors.NewValidation(msgCannotBanSelf)
	}

	err := s.setStatus(ctx, userID, enums.UserStatusBanned, msgLastAdminBan)
	if err != nil {
		s.logFailure(operation, userID, err)
		return err
	}
	s.logger.Info("用户已被禁止", zap.String("operation", operation), zap.Uint("userID", userID), zap.Uint("by", caller.UserID))
	return nil
}

func (s *userManageService) ActivateUser(ctx context.Context, caller guard.Caller, userID uint) error {
	const operation = "UserManageService.ActivateUser"
	if err := guard.Authorize(caller, guard.ActionManageUsers, guard.Resource{}); err != nil {
		return err
	}

	err := s.setStatus(ctx, userID, enums.UserStatusActive, "")
	if err != nil {
		s.logFailure(operation, userID, err)
		return err
	}
	s.logger.Info("用户已激活", zap.String("operation", operation), zap.Uint("userID", userID), zap.Uint("by", caller.UserID))
	return nil
}

// setStatus 修改账户状态；lastAdminMsg 是停用最后一个活跃管理员时返回的提示
func (s *userManageService) setStatus(ctx context.Context, userID uint, status enums.UserStatus, lastAdminMsg string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if user.Status == status {
			return nil
		}
		if isActiveAdmin(user.Role, user.Status) && status != enums.UserStatusActive {
			if err := s.ensureOtherAdmin(ctx, tx, userID, lastAdminMsg); err != nil {
				return err
			}
		}
		if err := s.userRepo.UpdateUserFields(ctx, tx, userID, map[string]interface{}{"status": status}); err != nil {
			return commonerrors.NewInternal(err)
		}
		return nil
	})
}

func (s *userManageService) lockUser(ctx context.Context, tx *gorm.DB, userID uint) (*entities.User, error) {
	user, err := s.userRepo.LockUserByID(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, commonerrors.NewNotFound(msgUserNotFound)
		}
		return nil, commonerrors.NewInternal(err)
	}
	return user, nil
}

// ensureOtherAdmin 锁定全部活跃管理员，除 userID 外至少还要有一个
func (s *userManageService) ensureOtherAdmin(ctx context.Context, tx *gorm.DB, userID uint, msg string) error {
	ids, err := s.userRepo.LockActiveAdminIDs(ctx, tx)
	if err != nil {
		return commonerrors.NewInternal(err)
	}
	for _, id := range ids {
		if id != userID {
			return nil
		}
	}
	return commonerrors.NewConflict(msg)
}

func isActiveAdmin(role enums.UserRole, status enums.UserStatus) bool {
	return role == enums.RoleAdmin && status == enums.UserStatusActive
}

func (s *userManageService) logFailure(operation string, userID uint, err error) {
	if commonerrors.KindOf(err) == commonerrors.KindInternal {
		s.logger.Error("用户管理操作失败", zap.String("operation", operation), zap.Uint("userID", userID), zap.Error(err))
		return
	}
	s.logger.Info("用户管理操作被拒绝", zap.String("operation", operation), zap.Uint("userID", userID), zap.String("reason", commonerrors.PublicMessage(err)))
}
