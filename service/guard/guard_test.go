package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/models/enums"
)

func uintPtr(v uint) *uint { return &v }

func TestAuthorize(t *testing.T) {
	admin := Caller{UserID: 1, Role: enums.RoleAdmin}
	manager := Caller{UserID: 2, Role: enums.RoleManager}
	performer := Caller{UserID: 3, Role: enums.RolePerformer}

	ownActor := Resource{ActorUserID: uintPtr(3), AgentID: uintPtr(2)}
	otherActor := Resource{ActorUserID: uintPtr(4), AgentID: uintPtr(9)}
	unassigned := Resource{}

	tests := []struct {
		name    string
		caller  Caller
		action  Action
		res     Resource
		allowed bool
		message string
	}{
		{"管理员可以删除演员", admin, ActionDeleteActor, otherActor, true, ""},
		{"管理员可以管理用户", admin, ActionManageUsers, Resource{}, true, ""},
		{"经纪人可以创建演员", manager, ActionCreateActor, unassigned, true, ""},
		{"经纪人可以修改自己名下的演员", manager, ActionEditActor, ownActor, true, ""},
		{"经纪人不能修改其他经纪人的演员", manager, ActionEditActor, otherActor, false, msgNotYourActor},
		{"经纪人不能查看未分配的演员详情", manager, ActionViewActor, unassigned, false, msgNoViewActor},
		{"经纪人可以把未分配演员分配给自己", manager, ActionAssignAgent, Resource{TargetAgentID: uintPtr(2)}, true, ""},
		{"经纪人不能分配给其他经纪人", manager, ActionAssignAgent, Resource{TargetAgentID: uintPtr(9)}, false, msgAssignSelfOnly},
		{"经纪人不能抢其他经纪人的演员", manager, ActionAssignAgent, Resource{AgentID: uintPtr(9), TargetAgentID: uintPtr(2)}, false, msgOtherAgentActor},
		{"经纪人不能删除演员", manager, ActionDeleteActor, ownActor, false, msgAdminOnly},
		{"经纪人只能删除自己的邀请码", manager, ActionDeleteInvite, Resource{OwnerID: uintPtr(9)}, false, msgOwnInviteOnly},
		{"演员可以修改自己的档案", performer, ActionEditActor, ownActor, true, ""},
		{"演员不能修改他人档案", performer, ActionEditActor, otherActor, false, msgOwnActorOnly},
		{"演员不能修改签约信息", performer, ActionEditContract, ownActor, false, msgNoContract},
		{"演员不能管理标签", performer, ActionManageTags, ownActor, false, msgStaffOnly},
		{"演员可以管理自己的媒体", performer, ActionManageMedia, ownActor, true, ""},
		{"经纪人不能维护标签字典", manager, ActionEditTagCatalog, Resource{}, false, msgAdminOnly},
		{"经纪人可以查看未分配演员列表", manager, ActionListUnassigned, Resource{}, true, ""},
		{"演员不能查看未分配演员列表", performer, ActionListUnassigned, Resource{}, false, msgStaffOnly},
		{"经纪人只能查看自己的演员列表", manager, ActionViewAgentActors, Resource{AgentID: uintPtr(9)}, false, msgOtherAgentList},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.caller, tt.action, tt.res)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, commonerrors.ErrForbidden)
			assert.Equal(t, tt.message, commonerrors.PublicMessage(err))
		})
	}
}
