package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/models/vo"
)

// 演员列表返回的列，经纪人信息来自签约表与经纪人账户
const actorListColumns = "actors.id, actors.user_id, actors.real_name, actors.stage_name, actors.gender, " +
	"actors.age, actors.height, actors.weight, actors.status, actors.avatar_url, " +
	"actor_contract_info.agent_id, agents.username AS agent_name, actors.created_at"

// JoinQuery 定义了专注于多表联合查询与列表过滤的操作接口。
type JoinQuery interface {
	// ListActors 按过滤条件分页查询演员摘要，并返回过滤后的总数。
	// - 未指定状态时排除已软删除的演员。
	ListActors(ctx context.Context, filter *dto.ActorFilter) ([]*vo.ActorListItemVO, int64, error)

	// CountActors 只返回过滤后的总数。
	CountActors(ctx context.Context, filter *dto.ActorFilter) (int64, error)

	// ListActorIDs 返回全部匹配演员的编号，不分页。
	ListActorIDs(ctx context.Context, filter *dto.ActorFilter) ([]string, error)

	// ListUsers 分页查询账户并预加载权限，返回过滤后的总数。
	ListUsers(ctx context.Context, query *dto.UserListQuery) ([]*entities.User, int64, error)
}

type joinQuery struct {
	db *gorm.DB
}

// NewJoinQuery 创建一个新的 joinQuery 实例。
func NewJoinQuery(db *gorm.DB) JoinQuery {
	return &joinQuery{db: db}
}

// actorQuery 构建带过滤条件的演员查询，每次调用返回新的查询链
func (r *joinQuery) actorQuery(ctx context.Context, f *dto.ActorFilter) *gorm.DB {
	db := r.db.WithContext(ctx).
		Table("actors").
		Joins("LEFT JOIN actor_contract_info ON actor_contract_info.actor_id = actors.id").
		Joins("LEFT JOIN users AS agents ON agents.id = actor_contract_info.agent_id")

	if f.Status != "" {
		db = db.Where("actors.status = ?", f.Status)
	} else {
		db = db.Where("actors.status <> ?", enums.ActorStatusDeleted)
	}
	if f.Name != "" {
		like := "%" + f.Name + "%"
		db = db.Where("(actors.real_name LIKE ? OR actors.stage_name LIKE ?)", like, like)
	}
	// 范围条件均为闭区间
	if f.AgeMin != nil {
		db = db.Where("actors.age >= ?", *f.AgeMin)
	}
	if f.AgeMax != nil {
		db = db.Where("actors.age <= ?", *f.AgeMax)
	}
	if f.HeightMin != nil {
		db = db.Where("actors.height >= ?", *f.HeightMin)
	}
	if f.HeightMax != nil {
		db = db.Where("actors.height <= ?", *f.HeightMax)
	}
	if f.Gender != "" {
		db = db.Where("actors.gender = ?", f.Gender)
	}
	if f.UserID != nil {
		db = db.Where("actors.user_id = ?", *f.UserID)
	}
	if f.AgentID != nil {
		db = db.Where("actor_contract_info.agent_id = ?", *f.AgentID)
	}
	if f.WithoutAgent {
		// 没有签约行时 LEFT JOIN 得到的 agent_id 同样为 NULL
		db = db.Where("actor_contract_info.agent_id IS NULL")
	}
	if len(f.TagIDs) > 0 {
		sub := r.db.Model(&entities.ActorTag{}).Select("actor_id").Where("tag_id IN ?", f.TagIDs)
		db = db.Where("actors.id IN (?)", sub)
	}
	return db
}

func (r *joinQuery) ListActors(ctx context.Context, filter *dto.ActorFilter) ([]*vo.ActorListItemVO, int64, error) {
	total, err := r.CountActors(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	var results []*vo.ActorListItemVO
	err = r.actorQuery(ctx, filter).
		Select(actorListColumns).
		Order("actors.created_at DESC, actors.id DESC").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Scan(&results).Error
	if err != nil {
		return nil, 0, fmt.Errorf("joinQuery.ListActors: 查询演员列表失败: %w", err)
	}
	return results, total, nil
}

func (r *joinQuery) CountActors(ctx context.Context, filter *dto.ActorFilter) (int64, error) {
	var total int64
	if err := r.actorQuery(ctx, filter).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("joinQuery.CountActors: 查询演员总数失败: %w", err)
	}
	return total, nil
}

func (r *joinQuery) ListActorIDs(ctx context.Context, filter *dto.ActorFilter) ([]string, error) {
	var ids []string
	err := r.actorQuery(ctx, filter).
		Order("actors.created_at DESC, actors.id DESC").
		Pluck("actors.id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("joinQuery.ListActorIDs: 查询演员编号失败: %w", err)
	}
	return ids, nil
}

// userQuery 构建带过滤条件的账户查询
func (r *joinQuery) userQuery(ctx context.Context, q *dto.UserListQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&entities.User{})
	if q.Role != "" {
		db = db.Where("role = ?", q.Role)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Username != "" {
		db = db.Where("username LIKE ?", "%"+q.Username+"%")
	}
	return db
}

func (r *joinQuery) ListUsers(ctx context.Context, query *dto.UserListQuery) ([]*entities.User, int64, error) {
	var total int64
	if err := r.userQuery(ctx, query).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("joinQuery.ListUsers: 查询用户总数失败: %w", err)
	}

	var users []*entities.User
	err := r.userQuery(ctx, query).
		Preload("Permissions").
		Order("id ASC").
		Offset(query.Skip).
		Limit(query.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("joinQuery.ListUsers: 查询用户列表失败: %w", err)
	}
	return users, total, nil
}
