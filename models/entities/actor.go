package entities

import (
	"time"

	"github.com/Xushengqwer/actor_hub/models/enums"
)

// Actor 演员基础信息
type Actor struct {
	// 演员编号，格式 AC + yyyyMMdd + 8 位随机串
	ID string `gorm:"type:varchar(20);primaryKey"`

	// 关联的登录账户，可为空（由管理员或经纪人代建的档案）
	UserID *uint `gorm:"uniqueIndex"`

	RealName  string        `gorm:"type:varchar(50);not null;index"`
	StageName *string       `gorm:"type:varchar(50)"`
	Gender    *enums.Gender `gorm:"type:varchar(10)"`

	Age    *int `gorm:"index"`
	Height *int `gorm:"index"` // cm
	Weight *int // kg
	Bust   *int
	Waist  *int
	Hip    *int

	Status    enums.ActorStatus `gorm:"type:varchar(20);not null;default:active;index"`
	AvatarURL *string           `gorm:"type:varchar(500)"`

	// 软删除信息，不使用 gorm.DeletedAt，软删除的档案仍可被管理员查询
	DeletionReason *string `gorm:"type:varchar(255)"`
	DeletedAt      *time.Time

	CreatedAt time.Time `gorm:"type:datetime;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:datetime;autoUpdateTime"`
}

// ActorProfessionalInfo 专业信息。列表类字段以 JSON 文本存储
type ActorProfessionalInfo struct {
	ID         uint             `gorm:"primaryKey;autoIncrement"`
	ActorID    string           `gorm:"type:varchar(20);not null;uniqueIndex"`
	Bio        *string          `gorm:"type:varchar(2000)"`
	Skills     *string          `gorm:"type:varchar(500)"`
	Experience *string          `gorm:"type:varchar(2000)"`
	Education  *string          `gorm:"type:varchar(1000)"`
	Awards     *string          `gorm:"type:varchar(1000)"`
	Languages  *string          `gorm:"type:varchar(500)"`
	Rank       *enums.ActorRank `gorm:"column:current_rank;type:varchar(10)"`
	MinimumFee *float64
	CreatedAt  time.Time `gorm:"type:datetime;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"type:datetime;autoUpdateTime"`
}

func (ActorProfessionalInfo) TableName() string { return "actor_professional_info" }

// ActorContactInfo 联系方式。social_media 以 JSON 对象文本存储
type ActorContactInfo struct {
	ID               uint      `gorm:"primaryKey;autoIncrement"`
	ActorID          string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Phone            *string   `gorm:"type:varchar(20)"`
	Email            *string   `gorm:"type:varchar(100)"`
	Address          *string   `gorm:"type:varchar(200)"`
	Wechat           *string   `gorm:"type:varchar(50)"`
	SocialMedia      *string   `gorm:"type:varchar(1000)"`
	EmergencyContact *string   `gorm:"type:varchar(50)"`
	EmergencyPhone   *string   `gorm:"type:varchar(20)"`
	CreatedAt        time.Time `gorm:"type:datetime;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"type:datetime;autoUpdateTime"`
}

func (ActorContactInfo) TableName() string { return "actor_contact_info" }

// ActorContractInfo 签约信息。
// 行不存在或 AgentID 为空都表示该演员尚未分配经纪人。
type ActorContractInfo struct {
	ID                uint       `gorm:"primaryKey;autoIncrement"`
	ActorID           string     `gorm:"type:varchar(20);not null;uniqueIndex"`
	AgentID           *uint      `gorm:"index"`
	FeeStandard       *string    `gorm:"type:varchar(500)"`
	ContractStartDate *time.Time `gorm:"type:date"`
	ContractEndDate   *time.Time `gorm:"type:date"`
	ContractTerms     *string    `gorm:"type:varchar(1000)"`
	CommissionRate    *int
	CreatedAt         time.Time `gorm:"type:datetime;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"type:datetime;autoUpdateTime"`
}

func (ActorContractInfo) TableName() string { return "actor_contract_info" }

// ActorStatusHistory 状态变更记录
type ActorStatusHistory struct {
	ID             uint              `gorm:"primaryKey;autoIncrement"`
	ActorID        string            `gorm:"type:varchar(20);not null;index"`
	PreviousStatus enums.ActorStatus `gorm:"type:varchar(20)"`
	NewStatus      enums.ActorStatus `gorm:"type:varchar(20);not null"`
	Reason         *string           `gorm:"type:varchar(255)"`
	ChangedBy      uint
	CreatedAt      time.Time `gorm:"type:datetime;autoCreateTime"`
}

func (ActorStatusHistory) TableName() string { return "actor_status_history" }
