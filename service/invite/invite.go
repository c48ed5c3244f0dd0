package invite

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/constants"
	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/repository/mysql"
	"github.com/Xushengqwer/actor_hub/service/guard"
	"github.com/Xushengqwer/actor_hub/utils"
)

const (
	msgCodeNotFound     = "邀请码无效"
	msgCodeUnusable     = "邀请码已被使用或已失效"
	msgIssuerNotManager = "邀请码关联的用户不是经纪人"
	msgGenerateFailed   = "无法生成唯一邀请码，请稍后重试"
	msgInviteNotFound   = "邀请码不存在"
)

// InviteService 管理经纪人发放的注册邀请码。
type InviteService interface {
	// Generate 为调用者生成一个新的 6 位数字邀请码。
	Generate(ctx context.Context, caller guard.Caller) (*vo.InviteCodeVO, error)

	// ListMine 列出调用者发放的邀请码及其使用情况。
	ListMine(ctx context.Context, caller guard.Caller) ([]*vo.InviteCodeVO, error)

	// Delete 删除邀请码；经纪人只能删除自己的邀请码。
	Delete(ctx context.Context, caller guard.Caller, id string) error

	// Verify 公开接口，注册前校验邀请码是否可用。
	Verify(ctx context.Context, code string) (*vo.InviteVerifyVO, error)
}

type inviteService struct {
	inviteRepo mysql.InviteCodeRepository
	userRepo   mysql.UserRepository
	db         *gorm.DB
	logger     *core.ZapLogger
}

// NewInviteService 创建一个新的 inviteService 实例。
func NewInviteService(inviteRepo mysql.InviteCodeRepository, userRepo mysql.UserRepository, db *gorm.DB, logger *core.ZapLogger) InviteService {
	return &inviteService{inviteRepo: inviteRepo, userRepo: userRepo, db: db, logger: logger}
}

func (s *inviteService) Generate(ctx context.Context, caller guard.Caller) (*vo.InviteCodeVO, error) {
	const operation = "InviteService.Generate"
	if err := guard.Authorize(caller, guard.ActionIssueInvite, guard.Resource{}); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= constants.InviteCodeMaxAttempts; attempt++ {
		code := utils.GenerateInviteCode()
		exists, err := s.inviteRepo.ExistsCode(ctx, code)
		if err != nil {
			s.logger.Error("检查邀请码失败", zap.String("operation", operation), zap.Error(err))
			return nil, commonerrors.NewInternal(err)
		}
		if exists {
			continue
		}

		invite := &entities.InviteCode{
			ID:      uuid.NewString(),
			Code:    code,
			AgentID: caller.UserID,
			Status:  enums.InviteCodeActive,
		}
		if err := s.inviteRepo.CreateInviteCode(ctx, s.db, invite); err != nil {
			// 检查与写入之间被并发占用，换一个重试
			if errors.Is(err, commonerrors.ErrRepoDuplicate) {
				continue
			}
			s.logger.Error("保存邀请码失败", zap.String("operation", operation), zap.Error(err))
			return nil, commonerrors.NewInternal(err)
		}

		s.logger.Info("生成邀请码成功", zap.String("operation", operation), zap.Uint("agentID", caller.UserID), zap.Int("attempt", attempt))
		return toVO(invite, nil), nil
	}

	s.logger.Error("多次尝试后仍无法生成唯一邀请码", zap.String("operation", operation), zap.Uint("agentID", caller.UserID))
	return nil, &commonerrors.AppError{Kind: commonerrors.KindInternal, Message: msgGenerateFailed, Err: commonerrors.ErrSystemError}
}

func (s *inviteService) ListMine(ctx context.Context, caller guard.Caller) ([]*vo.InviteCodeVO, error) {
	const operation = "InviteService.ListMine"
	if err := guard.Authorize(caller, guard.ActionIssueInvite, guard.Resource{}); err != nil {
		return nil, err
	}

	codes, err := s.inviteRepo.ListByAgent(ctx, caller.UserID)
	if err != nil {
		s.logger.Error("查询邀请码失败", zap.String("operation", operation), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}
	ids := make([]string, 0, len(codes))
	for _, c := range codes {
		ids = append(ids, c.ID)
	}
	usages, err := s.inviteRepo.ListUsages(ctx, ids)
	if err != nil {
		s.logger.Error("查询邀请码使用记录失败", zap.String("operation", operation), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}

	byCode := make(map[string][]*mysql.InviteUsageRow, len(codes))
	for _, u := range usages {
		byCode[u.InviteCodeID] = append(byCode[u.InviteCodeID], u)
	}
	result := make([]*vo.InviteCodeVO, 0, len(codes))
	for _, c := range codes {
		result = append(result, toVO(c, byCode[c.ID]))
	}
	return result, nil
}

func (s *inviteService) Delete(ctx context.Context, caller guard.Caller, id string) error {
	const operation = "InviteService.Delete"
	invite, err := s.inviteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return commonerrors.NewNotFound(msgInviteNotFound)
		}
		s.logger.Error("查询邀请码失败", zap.String("operation", operation), zap.String("inviteID", id), zap.Error(err))
		return commonerrors.NewInternal(err)
	}
	if err := guard.Authorize(caller, guard.ActionDeleteInvite, guard.Resource{OwnerID: &invite.AgentID}); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.inviteRepo.DeleteInviteCode(ctx, tx, id)
	})
	if err != nil {
		s.logger.Error("删除邀请码失败", zap.String("operation", operation), zap.String("inviteID", id), zap.Error(err))
		return commonerrors.NewInternal(err)
	}
	s.logger.Info("邀请码已删除", zap.String("operation", operation), zap.String("inviteID", id), zap.Uint("by", caller.UserID))
	return nil
}

func (s *inviteService) Verify(ctx context.Context, code string) (*vo.InviteVerifyVO, error) {
	const operation = "InviteService.Verify"
	invite, err := s.inviteRepo.GetByCode(ctx, s.db, code)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, commonerrors.NewNotFound(msgCodeNotFound)
		}
		s.logger.Error("查询邀请码失败", zap.String("operation", operation), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}
	if invite.Status != enums.InviteCodeActive {
		return nil, commonerrors.NewValidation(msgCodeUnusable)
	}

	issuer, err := s.userRepo.GetUserByID(ctx, s.db, invite.AgentID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, commonerrors.NewValidation(msgIssuerNotManager)
		}
		s.logger.Error("查询邀请码发放人失败", zap.String("operation", operation), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}
	if issuer.Role != enums.RoleManager || issuer.Status != enums.UserStatusActive {
		return nil, commonerrors.NewValidation(msgIssuerNotManager)
	}

	return &vo.InviteVerifyVO{Code: invite.Code, Valid: true, AgentID: issuer.ID, AgentName: issuer.Username}, nil
}

func toVO(invite *entities.InviteCode, usages []*mysql.InviteUsageRow) *vo.InviteCodeVO {
	users := make([]*vo.InviteUserVO, 0, len(usages))
	for _, u := range usages {
		users = append(users, &vo.InviteUserVO{ID: u.UserID, Username: u.Username, UsedAt: u.CreatedAt})
	}
	return &vo.InviteCodeVO{
		ID:        invite.ID,
		Code:      invite.Code,
		AgentID:   invite.AgentID,
		Status:    string(invite.Status),
		UsedCount: len(users),
		UsedBy:    users,
		CreatedAt: invite.CreatedAt,
	}
}
