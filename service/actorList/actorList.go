package actorList

import (
	"context"

	"go.uber.org/zap"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/constants"
	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/repository/mysql"
	"github.com/Xushengqwer/actor_hub/service/guard"
)

// count_only 查询返回的汇总记录
const (
	summaryID   = "count"
	summaryName = "计数"
)

// ActorListService 定义了演员列表查询的服务接口。
// - 查询范围按调用者角色收窄：经纪人只看到自己名下的演员，演员只看到自己的档案。
type ActorListService interface {
	// ListActors 按过滤条件分页查询演员。
	ListActors(ctx context.Context, caller guard.Caller, query *dto.ActorListQuery) (*vo.ActorListVO, error)

	// ListWithoutAgent 查询尚未分配经纪人的演员。
	// - limit 显式为 0 时只返回全部匹配演员的编号。
	ListWithoutAgent(ctx context.Context, caller guard.Caller, query *dto.ActorListQuery) (*vo.ActorListVO, error)

	// List 执行已经完成权限收窄的过滤查询，供其他服务复用。
	List(ctx context.Context, filter *dto.ActorFilter, countOnly bool) (*vo.ActorListVO, error)
}

type actorListService struct {
	joinQuery mysql.JoinQuery
	logger    *core.ZapLogger
}

// NewActorListService 创建一个新的 actorListService 实例。
func NewActorListService(joinQuery mysql.JoinQuery, logger *core.ZapLogger) ActorListService {
	return &actorListService{joinQuery: joinQuery, logger: logger}
}

// NormalizeLimit 未提供或不大于 0 的 limit 使用默认上限
func NormalizeLimit(limit *int) int {
	if limit == nil || *limit <= 0 {
		return constants.DefaultListLimit
	}
	return *limit
}

// BuildFilter 把查询参数转换为仓库层过滤条件，性别统一为存储值。
func BuildFilter(query *dto.ActorListQuery) (*dto.ActorFilter, error) {
	filter := &dto.ActorFilter{
		Name:      query.Name,
		AgeMin:    query.AgeMin,
		AgeMax:    query.AgeMax,
		HeightMin: query.HeightMin,
		HeightMax: query.HeightMax,
		Status:    query.Status,
		UserID:    query.UserID,
		Skip:      query.Skip,
		Limit:     NormalizeLimit(query.Limit),
	}
	if query.Gender != "" {
		g, ok := enums.NormalizeGender(query.Gender)
		if !ok {
			return nil, commonerrors.NewValidation("无效的性别")
		}
		filter.Gender = string(g)
	}
	return filter, nil
}

func (s *actorListService) ListActors(ctx context.Context, caller guard.Caller, query *dto.ActorListQuery) (*vo.ActorListVO, error) {
	filter, err := BuildFilter(query)
	if err != nil {
		return nil, err
	}

	ScopeFilter(caller, filter)
	return s.List(ctx, filter, query.CountOnly)
}

// ScopeFilter 按调用者角色收窄查询范围，管理员不受限制
func ScopeFilter(caller guard.Caller, filter *dto.ActorFilter) {
	switch caller.Role {
	case enums.RoleManager:
		agentID := caller.UserID
		filter.AgentID = &agentID
	case enums.RolePerformer:
		userID := caller.UserID
		filter.UserID = &userID
	}
}

func (s *actorListService) ListWithoutAgent(ctx context.Context, caller guard.Caller, query *dto.ActorListQuery) (*vo.ActorListVO, error) {
	const operation = "ActorListService.ListWithoutAgent"
	if err := guard.Authorize(caller, guard.ActionListUnassigned, guard.Resource{}); err != nil {
		return nil, err
	}
	filter, err := BuildFilter(query)
	if err != nil {
		return nil, err
	}
	filter.WithoutAgent = true

	if query.Limit != nil && *query.Limit == 0 && !query.CountOnly {
		ids, err := s.joinQuery.ListActorIDs(ctx, filter)
		if err != nil {
			s.logger.Error("查询未分配演员编号失败", zap.String("operation", operation), zap.Error(err))
			return nil, commonerrors.NewInternal(err)
		}
		return &vo.ActorListVO{Total: int64(len(ids)), IDs: ids}, nil
	}
	return s.List(ctx, filter, query.CountOnly)
}

func (s *actorListService) List(ctx context.Context, filter *dto.ActorFilter, countOnly bool) (*vo.ActorListVO, error) {
	const operation = "ActorListService.List"

	if countOnly {
		total, err := s.joinQuery.CountActors(ctx, filter)
		if err != nil {
			s.logger.Error("统计演员数量失败", zap.String("operation", operation), zap.Error(err))
			return nil, commonerrors.NewInternal(err)
		}
		summary := &vo.ActorListItemVO{ID: summaryID, RealName: summaryName, TotalCount: &total}
		return &vo.ActorListVO{Total: total, Items: []*vo.ActorListItemVO{summary}}, nil
	}

	items, total, err := s.joinQuery.ListActors(ctx, filter)
	if err != nil {
		s.logger.Error("查询演员列表失败", zap.String("operation", operation), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}
	if items == nil {
		items = []*vo.ActorListItemVO{}
	}
	s.logger.Debug("演员列表查询完成",
		zap.String("operation", operation),
		zap.Int("count", len(items)),
		zap.Int64("total", total),
	)
	return &vo.ActorListVO{Total: total, Items: items}, nil
}
