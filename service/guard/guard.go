// Package guard 根据调用者角色与资源归属判断某个操作是否被允许。
//
// 规则概览:
//   - 管理员不受限制。
//   - 经纪人可以创建演员，可以查看和修改签约在自己名下的演员，可以为演员分配自己作为经纪人，
//     可以发放和删除自己的邀请码；不能操作其他经纪人的演员。
//   - 演员本人只能查看和修改与自己账户关联的演员档案，不能修改签约信息。
package guard

import (
	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/models/enums"
)

// Action 受保护的操作
type Action string

const (
	ActionViewActor       Action = "view_actor"
	ActionEditActor       Action = "edit_actor"
	ActionEditContract    Action = "edit_contract"
	ActionChangeStatus    Action = "change_status"
	ActionCreateActor     Action = "create_actor"
	ActionDeleteActor     Action = "delete_actor"
	ActionAssignAgent     Action = "assign_agent"
	ActionUnassignAgent   Action = "unassign_agent"
	ActionViewAgentActors Action = "view_agent_actors"
	ActionListUnassigned  Action = "list_unassigned"
	ActionManageTags      Action = "manage_tags"
	ActionEditTagCatalog  Action = "edit_tag_catalog"
	ActionManageMedia     Action = "manage_media"
	ActionIssueInvite     Action = "issue_invite"
	ActionDeleteInvite    Action = "delete_invite"
	ActionManageUsers     Action = "manage_users"
)

// Caller 当前请求的调用者
type Caller struct {
	UserID uint
	Role   enums.UserRole
}

// Resource 判断权限所需的资源归属信息
type Resource struct {
	// ActorUserID 演员关联的账户
	ActorUserID *uint
	// AgentID 演员当前的经纪人；查看经纪人名下演员时为被查看的经纪人
	AgentID *uint
	// TargetAgentID 分配经纪人时的目标经纪人
	TargetAgentID *uint
	// OwnerID 邀请码的发放人
	OwnerID *uint
}

// 拒绝原因
const (
	msgAdminOnly       = "只有管理员可以执行此操作"
	msgOwnActorOnly    = "您只能更新自己的演员信息"
	msgNotYourActor    = "您没有权限更新该演员的信息"
	msgNoViewActor     = "您没有权限查看该演员的信息"
	msgNoContract      = "演员不能修改签约信息"
	msgAssignSelfOnly  = "经纪人只能将演员分配给自己"
	msgOtherAgentActor = "该演员已由其他经纪人负责"
	msgOtherAgentList  = "您只能查看自己名下的演员"
	msgOwnInviteOnly   = "您只能删除自己的邀请码"
	msgStaffOnly       = "只有经纪人或管理员可以执行此操作"
)

// Authorize 返回 nil 表示允许；拒绝时返回 Forbidden 类型的 *commonerrors.AppError。
// 资源是否存在由调用方在此之前检查。
func Authorize(caller Caller, action Action, res Resource) error {
	switch caller.Role {
	case enums.RoleAdmin:
		return nil
	case enums.RoleManager:
		return authorizeManager(caller, action, res)
	case enums.RolePerformer:
		return authorizePerformer(caller, action, res)
	}
	return commonerrors.NewForbidden(msgAdminOnly)
}

func authorizeManager(caller Caller, action Action, res Resource) error {
	ownsActor := matches(res.AgentID, caller.UserID)

	switch action {
	case ActionCreateActor, ActionIssueInvite, ActionListUnassigned:
		return nil
	case ActionViewActor:
		if ownsActor {
			return nil
		}
		return commonerrors.NewForbidden(msgNoViewActor)
	case ActionEditActor, ActionEditContract, ActionChangeStatus, ActionManageTags, ActionManageMedia, ActionUnassignAgent:
		if ownsActor {
			return nil
		}
		return commonerrors.NewForbidden(msgNotYourActor)
	case ActionAssignAgent:
		if !matches(res.TargetAgentID, caller.UserID) {
			return commonerrors.NewForbidden(msgAssignSelfOnly)
		}
		if res.AgentID != nil && !ownsActor {
			return commonerrors.NewForbidden(msgOtherAgentActor)
		}
		return nil
	case ActionViewAgentActors:
		if ownsActor {
			return nil
		}
		return commonerrors.NewForbidden(msgOtherAgentList)
	case ActionDeleteInvite:
		if matches(res.OwnerID, caller.UserID) {
			return nil
		}
		return commonerrors.NewForbidden(msgOwnInviteOnly)
	}
	return commonerrors.NewForbidden(msgAdminOnly)
}

func authorizePerformer(caller Caller, action Action, res Resource) error {
	ownsActor := matches(res.ActorUserID, caller.UserID)

	switch action {
	case ActionViewActor:
		if ownsActor {
			return nil
		}
		return commonerrors.NewForbidden(msgNoViewActor)
	case ActionEditActor, ActionManageMedia:
		if ownsActor {
			return nil
		}
		return commonerrors.NewForbidden(msgOwnActorOnly)
	case ActionEditContract, ActionAssignAgent, ActionUnassignAgent:
		return commonerrors.NewForbidden(msgNoContract)
	case ActionIssueInvite, ActionDeleteInvite, ActionCreateActor, ActionViewAgentActors, ActionManageTags, ActionChangeStatus, ActionListUnassigned:
		return commonerrors.NewForbidden(msgStaffOnly)
	}
	return commonerrors.NewForbidden(msgAdminOnly)
}

func matches(id *uint, userID uint) bool {
	return id != nil && *id == userID
}
