package enums

// 权限标识，注册或由管理员创建账号时按角色写入 user_permissions
const (
	PermEditSelf        = "edit_self"
	PermViewSelf        = "view_self"
	PermCreateActor     = "create_actor"
	PermEditActor       = "edit_actor"
	PermDeleteActor     = "delete_actor"
	PermAssignActor     = "assign_actor"
	PermViewActorDetail = "view_actor_detail"
	PermViewAllActors   = "view_all_actors"
	PermManageUsers     = "manage_users"
	PermCreateManager   = "create_manager"
)

// DefaultPermissions 返回角色的默认权限列表
func DefaultPermissions(role UserRole) []string {
	switch role {
	case RolePerformer:
		return []string{PermEditSelf, PermViewSelf}
	case RoleManager:
		return []string{PermEditSelf, PermCreateActor, PermEditActor, PermAssignActor, PermViewActorDetail}
	case RoleAdmin:
		return []string{PermManageUsers, PermCreateActor, PermEditActor, PermDeleteActor, PermViewAllActors, PermAssignActor, PermCreateManager}
	}
	return nil
}
