package register

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/repository/mysql"
	"github.com/Xushengqwer/actor_hub/utils"
)

const (
	msgUsernameTaken    = "用户名已存在"
	msgPhoneTaken       = "手机号已被注册"
	msgInvalidInvite    = "无效的邀请码"
	msgIssuerNotManager = "邀请码关联的用户不是经纪人"
	msgInvalidRole      = "只能创建经纪人或管理员账号"
)

// RegisterService 负责账户注册。
// - 演员必须通过有效的经纪人邀请码自助注册，账户与演员档案在同一事务中创建。
// - 经纪人与管理员账号只能由管理员创建，不需要邀请码。
type RegisterService interface {
	// RegisterPerformer 演员自助注册：创建账户、默认权限、演员档案、空的专业信息与联系方式、邀请码使用记录。
	RegisterPerformer(ctx context.Context, req *dto.RegisterPerformerDTO) (*vo.RegisterVO, error)

	// RegisterStaff 管理员创建经纪人或管理员账号。
	RegisterStaff(ctx context.Context, req *dto.RegisterStaffDTO, role enums.UserRole) (*vo.RegisterVO, error)

	// EnsureAdmin 系统中没有活跃管理员时用给定信息创建一个，已存在时什么也不做。
	// 返回是否新建了账号。
	EnsureAdmin(ctx context.Context, req *dto.RegisterStaffDTO) (bool, error)
}

type registerService struct {
	userRepo    mysql.UserRepository
	actorRepo   mysql.ActorRepository
	profileRepo mysql.ProfileRepository
	inviteRepo  mysql.InviteCodeRepository
	db          *gorm.DB
	logger      *core.ZapLogger
}

// NewRegisterService 创建一个新的 registerService 实例。
func NewRegisterService(
	userRepo mysql.UserRepository,
	actorRepo mysql.ActorRepository,
	profileRepo mysql.ProfileRepository,
	inviteRepo mysql.InviteCodeRepository,
	db *gorm.DB,
	logger *core.ZapLogger,
) RegisterService {
	return &registerService{
		userRepo:    userRepo,
		actorRepo:   actorRepo,
		profileRepo: profileRepo,
		inviteRepo:  inviteRepo,
		db:          db,
		logger:      logger,
	}
}

func (s *registerService) RegisterPerformer(ctx context.Context, req *dto.RegisterPerformerDTO) (*vo.RegisterVO, error) {
	const operation = "RegisterService.RegisterPerformer"
	s.logger.Info("开始演员注册", zap.String("operation", operation), zap.String("username", req.Username))

	var result *vo.RegisterVO
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 用户名、手机号唯一
		if err := s.checkUnique(ctx, tx, req.Username, req.Phone); err != nil {
			return err
		}

		// 2. 邀请码有效，且发放人是活跃的经纪人
		invite, err := s.validateInvite(ctx, tx, req.InviteCode)
		if err != nil {
			return err
		}

		// 3. 账户与默认权限
		user, err := s.createUser(ctx, tx, req.Username, req.Password, req.Phone, req.Email, enums.RolePerformer)
		if err != nil {
			return err
		}

		// 4. 演员档案，姓名缺省使用用户名
		actorID, err := s.actorRepo.GenerateActorID(ctx, tx)
		if err != nil {
			return commonerrors.NewInternal(err)
		}
		realName := req.Username
		if req.RealName != nil && *req.RealName != "" {
			realName = utils.SanitizeText(*req.RealName)
		}
		actor := &entities.Actor{
			ID:       actorID,
			UserID:   &user.ID,
			RealName: realName,
			Status:   enums.ActorStatusActive,
		}
		if err := s.actorRepo.CreateActor(ctx, tx, actor); err != nil {
			return commonerrors.NewInternal(err)
		}
		if err := s.profileRepo.CreateProfessionalInfo(ctx, tx, &entities.ActorProfessionalInfo{ActorID: actorID}); err != nil {
			return commonerrors.NewInternal(err)
		}
		if err := s.profileRepo.CreateContactInfo(ctx, tx, &entities.ActorContactInfo{ActorID: actorID, Email: req.Email}); err != nil {
			return commonerrors.NewInternal(err)
		}

		// 5. 邀请码使用记录
		if err := s.inviteRepo.CreateUsage(ctx, tx, &entities.InviteCodeUsage{InviteCodeID: invite.ID, UserID: user.ID}); err != nil {
			return commonerrors.NewInternal(err)
		}

		result = &vo.RegisterVO{User: vo.NewUserVO(user), ActorID: actorID}
		return nil
	})
	if err != nil {
		s.logEnd(operation, req.Username, err)
		return nil, err
	}

	s.logger.Info("演员注册成功", zap.String("operation", operation), zap.Uint("userID", result.User.ID), zap.String("actorID", result.ActorID))
	return result, nil
}

func (s *registerService) RegisterStaff(ctx context.Context, req *dto.RegisterStaffDTO, role enums.UserRole) (*vo.RegisterVO, error) {
	const operation = "RegisterService.RegisterStaff"
	if role != enums.RoleManager && role != enums.RoleAdmin {
		return nil, commonerrors.NewValidation(msgInvalidRole)
	}

	var result *vo.RegisterVO
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkUnique(ctx, tx, req.Username, req.Phone); err != nil {
			return err
		}
		user, err := s.createUser(ctx, tx, req.Username, req.Password, req.Phone, req.Email, role)
		if err != nil {
			return err
		}
		result = &vo.RegisterVO{User: vo.NewUserVO(user)}
		return nil
	})
	if err != nil {
		s.logEnd(operation, req.Username, err)
		return nil, err
	}

	s.logger.Info("创建员工账号成功", zap.String("operation", operation), zap.Uint("userID", result.User.ID), zap.String("role", string(role)))
	return result, nil
}

func (s *registerService) EnsureAdmin(ctx context.Context, req *dto.RegisterStaffDTO) (bool, error) {
	const operation = "RegisterService.EnsureAdmin"
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := s.userRepo.LockActiveAdminIDs(ctx, tx)
		if err != nil {
			return commonerrors.NewInternal(err)
		}
		if len(ids) > 0 {
			return nil
		}
		if err := s.checkUnique(ctx, tx, req.Username, req.Phone); err != nil {
			return err
		}
		if _, err := s.createUser(ctx, tx, req.Username, req.Password, req.Phone, req.Email, enums.RoleAdmin); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		s.logEnd(operation, req.Username, err)
		return false, err
	}
	if created {
		s.logger.Info("已创建初始管理员账号", zap.String("operation", operation), zap.String("username", req.Username))
	}
	return created, nil
}

func (s *registerService) checkUnique(ctx context.Context, tx *gorm.DB, username, phone string) error {
	taken, err := s.userRepo.ExistsByUsername(ctx, tx, username, 0)
	if err != nil {
		return commonerrors.NewInternal(err)
	}
	if taken {
		return commonerrors.NewConflict(msgUsernameTaken)
	}
	taken, err = s.userRepo.ExistsByPhone(ctx, tx, phone, 0)
	if err != nil {
		return commonerrors.NewInternal(err)
	}
	if taken {
		return commonerrors.NewConflict(msgPhoneTaken)
	}
	return nil
}

func (s *registerService) validateInvite(ctx context.Context, tx *gorm.DB, code string) (*entities.InviteCode, error) {
	invite, err := s.inviteRepo.GetByCode(ctx, tx, code)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, commonerrors.NewValidation(msgInvalidInvite)
		}
		return nil, commonerrors.NewInternal(err)
	}
	if invite.Status != enums.InviteCodeActive {
		return nil, commonerrors.NewValidation(msgInvalidInvite)
	}

	issuer, err := s.userRepo.GetUserByID(ctx, tx, invite.AgentID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, commonerrors.NewValidation(msgIssuerNotManager)
		}
		return nil, commonerrors.NewInternal(err)
	}
	if issuer.Role != enums.RoleManager || issuer.Status != enums.UserStatusActive {
		return nil, commonerrors.NewValidation(msgIssuerNotManager)
	}
	return invite, nil
}

func (s *registerService) createUser(ctx context.Context, tx *gorm.DB, username, password, phone string, email *string, role enums.UserRole) (*entities.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, commonerrors.NewInternal(err)
	}
	user := &entities.User{
		Username:     username,
		PasswordHash: hash,
		Phone:        phone,
		Email:        email,
		Role:         role,
		Status:       enums.UserStatusActive,
	}
	for _, p := range enums.DefaultPermissions(role) {
		user.Permissions = append(user.Permissions, entities.UserPermission{Permission: p})
	}
	if err := s.userRepo.CreateUser(ctx, tx, user); err != nil {
		// 并发注册时由唯一索引兜底
		if errors.Is(err, commonerrors.ErrRepoDuplicate) {
			return nil, commonerrors.NewConflict(msgUsernameTaken)
		}
		return nil, commonerrors.NewInternal(err)
	}
	return user, nil
}

// logEnd 业务拒绝记 Info，基础设施失败记 Error
func (s *registerService) logEnd(operation, username string, err error) {
	if commonerrors.KindOf(err) == commonerrors.KindInternal {
		s.logger.Error("注册失败", zap.String("operation", operation), zap.String("username", username), zap.Error(err))
		return
	}
	s.logger.Info("注册被拒绝", zap.String("operation", operation), zap.String("username", username), zap.String("reason", commonerrors.PublicMessage(err)))
}
