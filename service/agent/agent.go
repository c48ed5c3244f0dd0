package agent

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
	"github.com/Xushengqwer/actor_hub/service/actorList"
	"github.com/Xushengqwer/actor_hub/service/guard"
	"github.com/Xushengqwer/actor_hub/service/profile"
)

const (
	msgActorNotFound = "演员不存在"
	msgAgentNotFound = "经纪人不存在"
	msgNotManager    = "指定的用户不是经纪人"
	msgNoAgent       = "该演员尚未分配经纪人"
)

// AgentService 维护演员与经纪人之间的签约关系。
type AgentService interface {
	// AssignAgent 为演员分配经纪人，签约行不存在时创建。
	AssignAgent(ctx context.Context, caller guard.Caller, req *dto.AssignAgentDTO) (*vo.ContractInfoVO, error)

	// UnassignAgent 解除演员的经纪人，保留签约行中的其他条款。
	UnassignAgent(ctx context.Context, caller guard.Caller, actorID string) error

	// ListAgentActors 查询经纪人名下的演员。
	ListAgentActors(ctx context.Context, caller guard.Caller, agentID uint, query *dto.ActorListQuery) (*vo.ActorListVO, error)
}

type agentService struct {
	actorRepo   mysql.ActorRepository
	profileRepo mysql.ProfileRepository
	userRepo    mysql.UserRepository
	profiles    profile.ProfileService
	lists       actorList.ActorListService
	db          *gorm.DB
	logger      *core.ZapLogger
}

// NewAgentService 创建一个新的 agentService 实例。
func NewAgentService(
	actorRepo mysql.ActorRepository,
	profileRepo mysql.ProfileRepository,
	userRepo mysql.UserRepository,
	profiles profile.ProfileService,
	lists actorList.ActorListService,
	db *gorm.DB,
	logger *core.ZapLogger,
) AgentService {
	return &agentService{
		actorRepo:   actorRepo,
		profileRepo: profileRepo,
		userRepo:    userRepo,
		profiles:    profiles,
		lists:       lists,
		db:          db,
		logger:      logger,
	}
}

func (s *agentService) AssignAgent(ctx context.Context, caller guard.Caller, req *dto.AssignAgentDTO) (*vo.ContractInfoVO, error) {
	const operation = "AgentService.AssignAgent"

	var result *vo.ContractInfoVO
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁住演员行，并发分配按顺序执行
		if _, err := s.actorRepo.LockActorByID(ctx, tx, req.ActorID); err != nil {
			if errors.Is(err, commonerrors.ErrRepoNotFound) {
				return commonerrors.NewNotFound(msgActorNotFound)
			}
			return commonerrors.NewInternal(err)
		}

		contract, err := s.profileRepo.GetContractInfo(ctx, tx, req.ActorID)
		if err != nil && !errors.Is(err, commonerrors.ErrRepoNotFound) {
			return commonerrors.NewInternal(err)
		}

		res := guard.Resource{TargetAgentID: &req.AgentID}
		if contract != nil {
			res.AgentID = contract.AgentID
		}
		if err := guard.Authorize(caller, guard.ActionAssignAgent, res); err != nil {
			return err
		}

		agent, err := s.userRepo.GetUserByID(ctx, tx, req.AgentID)
		if err != nil {
			if errors.Is(err, commonerrors.ErrRepoNotFound) {
				return commonerrors.NewNotFound(msgAgentNotFound)
			}
			return commonerrors.NewInternal(err)
		}
		if agent.Role != enums.RoleManager {
			return commonerrors.NewValidation(msgNotManager)
		}

		if contract == nil {
			contract = &entities.ActorContractInfo{ActorID: req.ActorID, AgentID: &agent.ID}
			if err := s.profileRepo.CreateContractInfo(ctx, tx, contract); err != nil {
				return commonerrors.NewInternal(err)
			}
		} else {
			if err := s.profileRepo.UpdateContractInfo(ctx, tx, req.ActorID, map[string]interface{}{"agent_id": agent.ID}); err != nil {
				return commonerrors.NewInternal(err)
			}
			contract.AgentID = &agent.ID
		}

		result = profile.NewContractInfoVO(contract, &agent.Username)
		return nil
	})
	if err != nil {
		s.logFailure(operation, req.ActorID, err)
		return nil, err
	}

	s.logger.Info("演员已分配经纪人",
		zap.String("operation", operation),
		zap.String("actorID", req.ActorID),
		zap.Uint("agentID", req.AgentID),
		zap.Uint("by", caller.UserID),
	)
	return result, nil
}

func (s *agentService) UnassignAgent(ctx context.Context, caller guard.Caller, actorID string) error {
	const operation = "AgentService.UnassignAgent"

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.profiles.AuthorizeActor(ctx, tx, caller, actorID, guard.ActionUnassignAgent); err != nil {
			return err
		}
		contract, err := s.profileRepo.GetContractInfo(ctx, tx, actorID)
		if err != nil {
			if errors.Is(err, commonerrors.ErrRepoNotFound) {
				return commonerrors.NewNotFound(msgNoAgent)
			}
			return commonerrors.NewInternal(err)
		}
		if contract.AgentID == nil {
			return commonerrors.NewNotFound(msgNoAgent)
		}
		if err := s.profileRepo.UpdateContractInfo(ctx, tx, actorID, map[string]interface{}{"agent_id": nil}); err != nil {
			return commonerrors.NewInternal(err)
		}
		return nil
	})
	if err != nil {
		s.logFailure(operation, actorID, err)
		return err
	}

	s.logger.Info("已解除演员的经纪人", zap.String("operation", operation), zap.String("actorID", actorID), zap.Uint("by", caller.UserID))
	return nil
}

func (s *agentService) ListAgentActors(ctx context.Context, caller guard.Caller, agentID uint, query *dto.ActorListQuery) (*vo.ActorListVO, error) {
	const operation = "AgentService.ListAgentActors"
	agent, err := s.userRepo.GetUserByID(ctx, s.db, agentID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, commonerrors.NewNotFound(msgAgentNotFound)
		}
		s.logger.Error("查询经纪人失败", zap.String("operation", operation), zap.Uint("agentID", agentID), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}
	if agent.Role != enums.RoleManager {
		return nil, commonerrors.NewValidation(msgNotManager)
	}
	if err := guard.Authorize(caller, guard.ActionViewAgentActors, guard.Resource{AgentID: &agentID}); err != nil {
		return nil, err
	}

	filter, err := actorList.BuildFilter(query)
	if err != nil {
		return nil, err
	}
	filter.AgentID = &agentID
	return s.lists.List(ctx, filter, query.CountOnly)
}

func (s *agentService) logFailure(operation, actorID string, err error) {
	if commonerrors.KindOf(err) == commonerrors.KindInternal {
		s.logger.Error("经纪人操作失败", zap.String("operation", operation), zap.String("actorID", actorID), zap.Error(err))
		return
	}
	s.logger.Info("经纪人操作被拒绝", zap.String("operation", operation), zap.String("actorID", actorID), zap.String("reason", commonerrors.PublicMessage(err)))
}
