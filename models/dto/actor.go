package dto

// BasicInfoDTO 演员基础信息，更新时字段为 nil 表示不修改
type BasicInfoDTO struct {
	RealName  *string `json:"real_name" binding:"omitempty,min=1,max=50"`
	StageName *string `json:"stage_name" binding:"omitempty,max=50"`
	// Gender 支持 男/女/其他 与 male/female/other
	Gender *string `json:"gender" binding:"omitempty,Gender"`
	Age    *int    `json:"age" binding:"omitempty,min=0,max=150"`
	Height *int    `json:"height" binding:"omitempty,min=0,max=300"`
	Weight *int    `json:"weight" binding:"omitempty,min=0,max=500"`
	Bust   *int    `json:"bust" binding:"omitempty,min=0"`
	Waist  *int    `json:"waist" binding:"omitempty,min=0"`
	Hip    *int    `json:"hip" binding:"omitempty,min=0"`
}

// ProfessionalInfoDTO 专业信息。列表字段以 JSON 数组提交
type ProfessionalInfoDTO struct {
	Bio        *string   `json:"bio" binding:"omitempty,max=2000"`
	Skills     *[]string `json:"skills"`
	Experience *[]string `json:"experience"`
	Education  *[]string `json:"education"`
	Awards     *[]string `json:"awards"`
	Languages  *[]string `json:"languages"`
	Rank       *string   `json:"current_rank" binding:"omitempty,Rank"`
	MinimumFee *float64  `json:"minimum_fee" binding:"omitempty,min=0"`
}

// ContactInfoDTO 联系方式
type ContactInfoDTO struct {
	Phone            *string            `json:"phone" binding:"omitempty,max=20"`
	Email            *string            `json:"email" binding:"omitempty,email"`
	Address          *string            `json:"address" binding:"omitempty,max=200"`
	Wechat           *string            `json:"wechat" binding:"omitempty,max=50"`
	SocialMedia      *map[string]string `json:"social_media"`
	EmergencyContact *string            `json:"emergency_contact" binding:"omitempty,max=50"`
	EmergencyPhone   *string            `json:"emergency_phone" binding:"omitempty,max=20"`
}

// ContractInfoDTO 签约信息（不含经纪人，经纪人通过分配接口维护）。日期格式 2006-01-02
type ContractInfoDTO struct {
	FeeStandard       *string `json:"fee_standard" binding:"omitempty,max=500"`
	ContractStartDate *string `json:"contract_start_date" binding:"omitempty,datetime=2006-01-02"`
	ContractEndDate   *string `json:"contract_end_date" binding:"omitempty,datetime=2006-01-02"`
	ContractTerms     *string `json:"contract_terms" binding:"omitempty,max=1000"`
	CommissionRate    *int    `json:"commission_rate" binding:"omitempty,min=0,max=100"`
}

// CreateActorDTO 管理员或经纪人创建演员档案
type CreateActorDTO struct {
	BasicInfoDTO
	Professional *ProfessionalInfoDTO `json:"professional_info"`
	Contact      *ContactInfoDTO      `json:"contact_info"`
	// UserID 关联已有的登录账户，可选
	UserID *uint `json:"user_id"`
	// AgentID 仅管理员可指定；经纪人创建时自动成为经纪人
	AgentID *uint `json:"agent_id"`
}

// SelfUpdateDTO 演员本人创建或更新自己的档案
type SelfUpdateDTO struct {
	BasicInfoDTO
	Professional *ProfessionalInfoDTO `json:"professional_info"`
	Contact      *ContactInfoDTO      `json:"contact_info"`
}

// UpdateActorStatusDTO 修改演员状态
type UpdateActorStatusDTO struct {
	Status string  `json:"status" binding:"required,ActorStatus"`
	Reason *string `json:"reason" binding:"omitempty,max=255"`
}

// DeleteActorQuery 删除演员的查询参数
type DeleteActorQuery struct {
	Permanent   bool    `form:"permanent"`
	DeleteMedia bool    `form:"delete_media"`
	Reason      *string `form:"reason"`
}

// ActorListQuery 演员列表查询参数
type ActorListQuery struct {
	Skip int `form:"skip" binding:"omitempty,min=0"`
	// Limit 为 nil 时取默认值；未分配经纪人列表中 limit=0 表示只返回编号
	Limit     *int   `form:"limit"`
	Name      string `form:"name"`
	AgeMin    *int   `form:"age_min"`
	AgeMax    *int   `form:"age_max"`
	HeightMin *int   `form:"height_min"`
	HeightMax *int   `form:"height_max"`
	Gender    string `form:"gender" binding:"omitempty,Gender"`
	Status    string `form:"status" binding:"omitempty,ActorStatus"`
	UserID    *uint  `form:"user_id"`
	CountOnly bool   `form:"count_only"`
}

// ActorFilter 仓库层使用的演员过滤条件
type ActorFilter struct {
	Name      string
	AgeMin    *int
	AgeMax    *int
	HeightMin *int
	HeightMax *int
	Gender    string
	Status    string
	UserID    *uint
	// AgentID 非空时只返回该经纪人名下的演员
	AgentID *uint
	// WithoutAgent 只返回没有经纪人的演员
	WithoutAgent bool
	// TagIDs 非空时返回带有任一标签的演员
	TagIDs []uint
	Skip   int
	Limit  int
}

// AssignAgentDTO 分配经纪人
type AssignAgentDTO struct {
	ActorID string `json:"actor_id" binding:"required"`
	AgentID uint   `json:"agent_id" binding:"required"`
}
