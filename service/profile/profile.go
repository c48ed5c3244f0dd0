package profile

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/dependencies"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/repository/mysql"
	"github.com/Xushengqwer/actor_hub/service/guard"
)

const (
	msgActorNotFound    = "演员不存在"
	msgNoOwnActor       = "您还没有演员档案"
	msgRealNameRequired = "真实姓名不能为空"
	msgInvalidAgent     = "指定的经纪人不存在或不是经纪人"
	msgUserNotFound     = "关联的用户不存在"
	msgUserHasActor     = "该用户已关联演员档案"
	msgPerformerOnly    = "只有演员可以维护自己的档案"
)

// ProfileService 把演员的基础信息、专业信息、联系方式与签约信息作为一份完整档案读写。
type ProfileService interface {
	// CreateActor 管理员或经纪人创建演员档案；经纪人创建时自动成为该演员的经纪人。
	CreateActor(ctx context.Context, caller guard.Caller, req *dto.CreateActorDTO) (*vo.ActorVO, error)

	// GetActor 返回演员完整档案。
	GetActor(ctx context.Context, caller guard.Caller, actorID string) (*vo.ActorVO, error)

	// GetMyActor 返回与调用者账户关联的演员档案。
	GetMyActor(ctx context.Context, caller guard.Caller) (*vo.ActorVO, error)

	// SelfUpdate 演员本人创建或更新自己的档案，不能修改签约信息。
	SelfUpdate(ctx context.Context, caller guard.Caller, req *dto.SelfUpdateDTO) (*vo.ActorVO, error)

	UpdateBasicInfo(ctx context.Context, caller guard.Caller, actorID string, req *dto.BasicInfoDTO) (*vo.ActorVO, error)
	UpdateProfessionalInfo(ctx context.Context, caller guard.Caller, actorID string, req *dto.ProfessionalInfoDTO) (*vo.ActorVO, error)
	UpdateContactInfo(ctx context.Context, caller guard.Caller, actorID string, req *dto.ContactInfoDTO) (*vo.ActorVO, error)
	UpdateContractInfo(ctx context.Context, caller guard.Caller, actorID string, req *dto.ContractInfoDTO) (*vo.ActorVO, error)

	// UpdateStatus 修改演员状态并记录状态变更历史。
	UpdateStatus(ctx context.Context, caller guard.Caller, actorID string, req *dto.UpdateActorStatusDTO) (*vo.ActorVO, error)

	ListStatusHistory(ctx context.Context, caller guard.Caller, actorID string) ([]*vo.StatusHistoryVO, error)

	// DeleteActor 默认软删除；permanent 时物理删除演员及其全部附属数据。
	DeleteActor(ctx context.Context, caller guard.Caller, actorID string, q *dto.DeleteActorQuery) error

	// AuthorizeActor 加载演员并校验调用者对其执行 action 的权限。
	// - 演员不存在返回 NotFound，先于权限检查。
	AuthorizeActor(ctx context.Context, db *gorm.DB, caller guard.Caller, actorID string, action guard.Action) (*entities.Actor, error)

	// ResolveSelfActor 返回与调用者账户关联的演员，不存在返回 NotFound。
	ResolveSelfActor(ctx context.Context, db *gorm.DB, caller guard.Caller) (*entities.Actor, error)
}

type profileService struct {
	actorRepo   mysql.ActorRepository
	profileRepo mysql.ProfileRepository
	userRepo    mysql.UserRepository
	mediaRepo   mysql.MediaRepository
	tagRepo     mysql.TagRepository
	storage     dependencies.ObjectStorage
	db          *gorm.DB
	logger      *core.ZapLogger
}

// NewProfileService 创建一个新的 profileService 实例。
func NewProfileService(
	actorRepo mysql.ActorRepository,
	profileRepo mysql.ProfileRepository,
	userRepo mysql.UserRepository,
	mediaRepo mysql.MediaRepository,
	tagRepo mysql.TagRepository,
	storage dependencies.ObjectStorage,
	db *gorm.DB,
	logger *core.ZapLogger,
) ProfileService {
	return &profileService{
		actorRepo:   actorRepo,
		profileRepo: profileRepo,
		userRepo:    userRepo,
		mediaRepo:   mediaRepo,
		tagRepo:     tagRepo,
		storage:     storage,
		db:          db,
		logger:      logger,
	}
}

func (s *profileService) AuthorizeActor(ctx context.Context, db *gorm.DB, caller guard.Caller, actorID string, action guard.Action) (*entities.Actor, error) {
	actor, err := s.actorRepo.GetActorByID(ctx, db, actorID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, commonerrors.NewNotFound(msgActorNotFound)
		}
		return nil, commonerrors.NewInternal(err)
	}
	res, err := s.resourceOf(ctx, db, actor)
	if err != nil {
		return nil, err
	}
	if err := guard.Authorize(caller, action, res); err != nil {
		return nil, err
	}
	return actor, nil
}

// resourceOf 读取演员的归属信息：关联账户与当前经纪人
func (s *profileService) resourceOf(ctx context.Context, db *gorm.DB, actor *entities.Actor) (guard.Resource, error) {
	res := guard.Resource{ActorUserID: actor.UserID}
	contract, err := s.profileRepo.GetContractInfo(ctx, db, actor.ID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return res, nil
		}
		return res, commonerrors.NewInternal(err)
	}
	res.AgentID = contract.AgentID
	return res, nil
}

func (s *profileService) ResolveSelfActor(ctx context.Context, db *gorm.DB, caller guard.Caller) (*entities.Actor, error) {
	actor, err := s.actorRepo.GetActorByUserID(ctx, db, caller.UserID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, commonerrors.NewNotFound(msgNoOwnActor)
		}
		return nil, commonerrors.NewInternal(err)
	}
	return actor, nil
}

func (s *profileService) CreateActor(ctx context.Context, caller guard.Caller, req *dto.CreateActorDTO) (*vo.ActorVO, error) {
	const operation = "ProfileService.CreateActor"
	if err := guard.Authorize(caller, guard.ActionCreateActor, guard.Resource{}); err != nil {
		return nil, err
	}
	if req.RealName == nil || *req.RealName == "" {
		return nil, commonerrors.NewValidation(msgRealNameRequired)
	}

	// 经纪人创建的演员归属自己；管理员可以指定经纪人
	var agentID *uint
	if caller.Role == enums.RoleManager {
		id := caller.UserID
		agentID = &id
	} else if req.AgentID != nil {
		agentID = req.AgentID
	}

	basic, err := basicFields(&req.BasicInfoDTO)
	if err != nil {
		return nil, err
	}
	professional, err := professionalFields(req.Professional)
	if err != nil {
		return nil, err
	}
	contact, err := contactFields(req.Contact)
	if err != nil {
		return nil, err
	}

	var result *vo.ActorVO
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if agentID != nil && caller.Role == enums.RoleAdmin {
			if err := s.checkManager(ctx, tx, *agentID); err != nil {
				return err
			}
		}
		if req.UserID != nil {
			if err := s.checkLinkableUser(ctx, tx, *req.UserID); err != nil {
				return err
			}
		}

		actorID, err := s.actorRepo.GenerateActorID(ctx, tx)
		if err != nil {
			return commonerrors.NewInternal(err)
		}
		actor := &entities.Actor{
			ID:       actorID,
			UserID:   req.UserID,
			RealName: basic["real_name"].(string),
			Status:   enums.ActorStatusActive,
		}
		if err := s.actorRepo.CreateActor(ctx, tx, actor); err != nil {
			if errors.Is(err, commonerrors.ErrRepoDuplicate) {
				return commonerrors.NewConflict(msgUserHasActor)
			}
			return commonerrors.NewInternal(err)
		}
		if err := s.writeSections(ctx, tx, actorID, basic, professional, contact); err != nil {
			return err
		}
		if agentID != nil {
			if err := s.profileRepo.CreateContractInfo(ctx, tx, &entities.ActorContractInfo{ActorID: actorID, AgentID: agentID}); err != nil {
				return commonerrors.NewInternal(err)
			}
		}

		result, err = s.aggregate(ctx, tx, actorID)
		return err
	})
	if err != nil {
		s.logFailure(operation, "", err)
		return nil, err
	}

	s.logger.Info("演员档案创建成功", zap.String("operation", operation), zap.String("actorID", result.ID), zap.Uint("by", caller.UserID))
	return result, nil
}

func (s *profileService) checkManager(ctx context.Context, tx *gorm.DB, userID uint) error {
	user, err := s.userRepo.GetUserByID(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return commonerrors.NewValidation(msgInvalidAgent)
		}
		return commonerrors.NewInternal(err)
	}
	if user.Role != enums.RoleManager {
		return commonerrors.NewValidation(msgInvalidAgent)
	}
	return nil
}

func (s *profileService) checkLinkableUser(ctx context.Context, tx *gorm.DB, userID uint) error {
	if _, err := s.userRepo.GetUserByID(ctx, tx, userID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return commonerrors.NewValidation(msgUserNotFound)
		}
		return commonerrors.NewInternal(err)
	}
	_, err := s.actorRepo.GetActorByUserID(ctx, tx, userID)
	if err == nil {
		return commonerrors.NewConflict(msgUserHasActor)
	}
	if !errors.Is(err, commonerrors.ErrRepoNotFound) {
		return commonerrors.NewInternal(err)
	}
	return nil
}

func (s *profileService) GetActor(ctx context.Context, caller guard.Caller, actorID string) (*vo.ActorVO, error) {
	const operation = "ProfileService.GetActor"
	if _, err := s.AuthorizeActor(ctx, s.db, caller, actorID, guard.ActionViewActor); err != nil {
		s.logFailure(operation, actorID, err)
		return nil, err
	}
	result, err := s.aggregate(ctx, s.db, actorID)
	if err != nil {
		s.logFailure(operation, actorID, err)
		return nil, err
	}
	return result, nil
}

func (s *profileService) GetMyActor(ctx context.Context, caller guard.Caller) (*vo.ActorVO, error) {
	const operation = "ProfileService.GetMyActor"
	actor, err := s.ResolveSelfActor(ctx, s.db, caller)
	if err != nil {
		s.logFailure(operation, "", err)
		return nil, err
	}
	return s.aggregate(ctx, s.db, actor.ID)
}

func (s *profileService) SelfUpdate(ctx context.Context, caller guard.Caller, req *dto.SelfUpdateDTO) (*vo.ActorVO, error) {
	const operation = "ProfileService.SelfUpdate"
	if caller.Role != enums.RolePerformer {
		return nil, commonerrors.NewForbidden(msgPerformerOnly)
	}

	basic, err := basicFields(&req.BasicInfoDTO)
	if err != nil {
		return nil, err
	}
	professional, err := professionalFields(req.Professional)
	if err != nil {
		return nil, err
	}
	contact, err := contactFields(req.Contact)
	if err != nil {
		return nil, err
	}

	var result *vo.ActorVO
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := s.actorRepo.GetActorByUserID(ctx, tx, caller.UserID)
		switch {
		case err == nil:
		case errors.Is(err, commonerrors.ErrRepoNotFound):
			// 首次填写档案
			name, ok := basic["real_name"].(string)
			if !ok || name == "" {
				return commonerrors.NewValidation(msgRealNameRequired)
			}
			actorID, genErr := s.actorRepo.GenerateActorID(ctx, tx)
			if genErr != nil {
				return commonerrors.NewInternal(genErr)
			}
			userID := caller.UserID
			actor = &entities.Actor{ID: actorID, UserID: &userID, RealName: name, Status: enums.ActorStatusActive}
			if err := s.actorRepo.CreateActor(ctx, tx, actor); err != nil {
				return commonerrors.NewInternal(err)
			}
		default:
			return commonerrors.NewInternal(err)
		}

		if err := s.writeSections(ctx, tx, actor.ID, basic, professional, contact); err != nil {
			return err
		}
		result, err = s.aggregate(ctx, tx, actor.ID)
		return err
	})
	if err != nil {
		s.logFailure(operation, "", err)
		return nil, err
	}
	s.logger.Info("演员本人更新档案", zap.String("operation", operation), zap.String("actorID", result.ID), zap.Uint("userID", caller.UserID))
	return result, nil
}

// logFailure 业务拒绝记 Info，基础设施失败记 Error
func (s *profileService) logFailure(operation, actorID string, err error) {
	if commonerrors.KindOf(err) == commonerrors.KindInternal {
		s.logger.Error("演员档案操作失败", zap.String("operation", operation), zap.String("actorID", actorID), zap.Error(err))
		return
	}
	s.logger.Info("演员档案操作被拒绝", zap.String("operation", operation), zap.String("actorID", actorID), zap.String("reason", commonerrors.PublicMessage(err)))
}
