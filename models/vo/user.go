package vo

import (
	"time"

	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
)

// UserVO 用户信息
type UserVO struct {
	ID          uint             `json:"id"`
	Username    string           `json:"username"`
	Phone       string           `json:"phone"`
	Email       *string          `json:"email"`
	Role        enums.UserRole   `json:"role"`
	Status      enums.UserStatus `json:"status"`
	Permissions []string         `json:"permissions"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	// TotalCount 仅出现在 count_only 查询返回的汇总记录中
	TotalCount *int64 `json:"total_count,omitempty"`
}

// UserListVO 用户列表
type UserListVO struct {
	Total int64     `json:"total"`
	Items []*UserVO `json:"items"`
}

// LoginVO 登录结果
type LoginVO struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   int64   `json:"expires_in"` // 秒
	User        *UserVO `json:"user"`
}

// NewUserVO 将账户实体转换为视图对象，不包含密码哈希
func NewUserVO(user *entities.User) *UserVO {
	if user == nil {
		return nil
	}
	perms := make([]string, 0, len(user.Permissions))
	for _, p := range user.Permissions {
		perms = append(perms, p.Permission)
	}
	return &UserVO{
		ID:          user.ID,
		Username:    user.Username,
		Phone:       user.Phone,
		Email:       user.Email,
		Role:        user.Role,
		Status:      user.Status,
		Permissions: perms,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// RegisterVO 注册结果，演员自助注册时同时返回新建的演员编号
type RegisterVO struct {
	User    *UserVO `json:"user"`
	ActorID string  `json:"actor_id,omitempty"`
}
