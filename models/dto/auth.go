package dto

// LoginDTO 用户名密码登录，同时支持表单与 JSON
type LoginDTO struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterPerformerDTO 演员通过经纪人邀请码自助注册
type RegisterPerformerDTO struct {
	Username   string  `json:"username" binding:"required,Account"`
	Password   string  `json:"password" binding:"required,Password"`
	Phone      string  `json:"phone" binding:"required,ChinesePhone"`
	Email      *string `json:"email" binding:"omitempty,email"`
	InviteCode string  `json:"invite_code" binding:"required,InviteCode"`
	// RealName 为空时使用用户名作为演员档案的真实姓名
	RealName *string `json:"real_name" binding:"omitempty,max=50"`
}

// RegisterStaffDTO 管理员创建经纪人或管理员账号
type RegisterStaffDTO struct {
	Username string  `json:"username" binding:"required,Account"`
	Password string  `json:"password" binding:"required,Password"`
	Phone    string  `json:"phone" binding:"required,ChinesePhone"`
	Email    *string `json:"email" binding:"omitempty,email"`
}
