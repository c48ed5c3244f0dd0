package dto

// UserListQuery 管理员查询用户列表
type UserListQuery struct {
	Skip      int    `form:"skip" binding:"omitempty,min=0"`
	Limit     int    `form:"limit"`
	Role      string `form:"role" binding:"omitempty,Role"`
	Status    string `form:"status" binding:"omitempty,UserStatus"`
	Username  string `form:"username"`
	CountOnly bool   `form:"count_only"`
}

// UpdateUserDTO 管理员更新用户，字段为 nil 表示不修改
type UpdateUserDTO struct {
	Username *string `json:"username" binding:"omitempty,Account"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,ChinesePhone"`
	Password *string `json:"password" binding:"omitempty,Password"`
	Status   *string `json:"status" binding:"omitempty,UserStatus"`
	Role     *string `json:"role" binding:"omitempty,Role"`
}
