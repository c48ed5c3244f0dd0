package enums

// UserRole 用户角色
type UserRole string

const (
	RolePerformer UserRole = "performer" // 演员本人
	RoleManager   UserRole = "manager"   // 经纪人
	RoleAdmin     UserRole = "admin"     // 管理员
)

func (r UserRole) IsValid() bool {
	return r == RolePerformer || r == RoleManager || r == RoleAdmin
}

// UserStatus 用户账户状态
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusBanned   UserStatus = "banned"
)

func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusInactive || s == UserStatusBanned
}
