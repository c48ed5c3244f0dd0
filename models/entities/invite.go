package entities

import (
	"time"

	"github.com/Xushengqwer/actor_hub/models/enums"
)

// InviteCode 经纪人发放的邀请码，可被多名演员使用
type InviteCode struct {
	ID        string                 `gorm:"type:char(36);primaryKey"`
	Code      string                 `gorm:"type:char(6);not null;uniqueIndex"`
	AgentID   uint                   `gorm:"not null;index"`
	Status    enums.InviteCodeStatus `gorm:"type:varchar(10);not null;default:active"`
	CreatedAt time.Time              `gorm:"type:datetime;autoCreateTime"`
	UpdatedAt time.Time              `gorm:"type:datetime;autoUpdateTime"`

	Usages []InviteCodeUsage `gorm:"foreignKey:InviteCodeID"`
}

// InviteCodeUsage 邀请码使用记录，一个用户只会通过一个邀请码注册
type InviteCodeUsage struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	InviteCodeID string    `gorm:"type:char(36);not null;index"`
	UserID       uint      `gorm:"not null;uniqueIndex"`
	CreatedAt    time.Time `gorm:"type:datetime;autoCreateTime"`
}

// AllModels 返回需要自动迁移的全部实体
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&UserPermission{},
		&Actor{},
		&ActorProfessionalInfo{},
		&ActorContactInfo{},
		&ActorContractInfo{},
		&ActorStatusHistory{},
		&ActorMedia{},
		&Tag{},
		&ActorTag{},
		&InviteCode{},
		&InviteCodeUsage{},
	}
}
