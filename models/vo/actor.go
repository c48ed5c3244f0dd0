package vo

import (
	"encoding/json"
	"time"
)

// ContractInfoVO 签约信息，AgentName 为经纪人用户名
type ContractInfoVO struct {
	AgentID           *uint   `json:"agent_id"`
	AgentName         *string `json:"agent_name"`
	FeeStandard       *string `json:"fee_standard"`
	ContractStartDate *string `json:"contract_start_date"`
	ContractEndDate   *string `json:"contract_end_date"`
	ContractTerms     *string `json:"contract_terms"`
	CommissionRate    *int    `json:"commission_rate"`
}

// ActorVO 演员完整档案：基础信息、专业信息、联系方式平铺，签约信息嵌套（无签约时为 null）
type ActorVO struct {
	ID        string  `json:"id"`
	UserID    *uint   `json:"user_id"`
	RealName  string  `json:"real_name"`
	StageName *string `json:"stage_name"`
	Gender    *string `json:"gender"`
	Age       *int    `json:"age"`
	Height    *int    `json:"height"`
	Weight    *int    `json:"weight"`
	Bust      *int    `json:"bust"`
	Waist     *int    `json:"waist"`
	Hip       *int    `json:"hip"`
	Status    string  `json:"status"`
	AvatarURL *string `json:"avatar_url"`

	DeletionReason *string    `json:"deletion_reason,omitempty"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`

	// 专业信息；列表字段解析失败时为原始字符串
	Bio         *string     `json:"bio"`
	Skills      interface{} `json:"skills"`
	Experience  interface{} `json:"experience"`
	Education   interface{} `json:"education"`
	Awards      interface{} `json:"awards"`
	Languages   interface{} `json:"languages"`
	CurrentRank *string     `json:"current_rank"`
	MinimumFee  *float64    `json:"minimum_fee"`

	// 联系方式
	Phone            *string     `json:"phone"`
	Email            *string     `json:"email"`
	Address          *string     `json:"address"`
	Wechat           *string     `json:"wechat"`
	SocialMedia      interface{} `json:"social_media"`
	EmergencyContact *string     `json:"emergency_contact"`
	EmergencyPhone   *string     `json:"emergency_phone"`

	ContractInfo *ContractInfoVO `json:"contract_info"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActorListItemVO 列表中的演员摘要
type ActorListItemVO struct {
	ID        string    `json:"id"`
	UserID    *uint     `json:"user_id"`
	RealName  string    `json:"real_name"`
	StageName *string   `json:"stage_name"`
	Gender    *string   `json:"gender"`
	Age       *int      `json:"age"`
	Height    *int      `json:"height"`
	Weight    *int      `json:"weight"`
	Status    string    `json:"status"`
	AvatarURL *string   `json:"avatar_url"`
	AgentID   *uint     `json:"agent_id"`
	AgentName *string   `json:"agent_name"`
	CreatedAt time.Time `json:"created_at"`
	// TotalCount 仅出现在 count_only 查询返回的汇总记录中
	TotalCount *int64 `json:"total_count,omitempty" gorm:"-"`
}

// ActorCountVO count_only 汇总记录的输出形态
type ActorCountVO struct {
	ID         string `json:"id"`
	RealName   string `json:"real_name"`
	TotalCount int64  `json:"total_count"`
}

// MarshalJSON 汇总记录只输出 ActorCountVO 的字段
func (v ActorListItemVO) MarshalJSON() ([]byte, error) {
	if v.TotalCount != nil {
		return json.Marshal(ActorCountVO{ID: v.ID, RealName: v.RealName, TotalCount: *v.TotalCount})
	}
	type plain ActorListItemVO
	return json.Marshal(plain(v))
}

// ActorListVO 演员列表。
// count_only 时 Items 只有一条汇总记录；未分配经纪人列表 limit=0 时只返回 IDs。
type ActorListVO struct {
	Total int64              `json:"total"`
	Items []*ActorListItemVO `json:"items,omitempty"`
	IDs   []string           `json:"ids,omitempty"`
}

// StatusHistoryVO 演员状态变更记录
type StatusHistoryVO struct {
	ID             uint      `json:"id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Reason         *string   `json:"reason"`
	ChangedBy      uint      `json:"changed_by"`
	CreatedAt      time.Time `json:"created_at"`
}
