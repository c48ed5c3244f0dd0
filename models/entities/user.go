package entities

import (
	"time"

	"github.com/Xushengqwer/actor_hub/models/enums"
)

// User 系统账户：演员本人、经纪人或管理员
type User struct {
	ID uint `gorm:"primaryKey;autoIncrement"`

	// 登录用户名，全局唯一
	Username string `gorm:"type:varchar(50);uniqueIndex;not null"`

	// bcrypt 哈希
	PasswordHash string `gorm:"type:varchar(255);not null"`

	// 手机号，全局唯一
	Phone string `gorm:"type:varchar(20);uniqueIndex;not null"`

	Email *string `gorm:"type:varchar(100)"`

	Role   enums.UserRole   `gorm:"type:varchar(20);not null;default:performer;index"`
	Status enums.UserStatus `gorm:"type:varchar(20);not null;default:active;index"`

	CreatedAt time.Time `gorm:"type:datetime;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:datetime;autoUpdateTime"`

	Permissions []UserPermission `gorm:"foreignKey:UserID"`
}

// UserPermission 账户的单条权限标识
type UserPermission struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	UserID     uint      `gorm:"not null;uniqueIndex:uk_user_permission"`
	Permission string    `gorm:"type:varchar(50);not null;uniqueIndex:uk_user_permission"`
	CreatedAt  time.Time `gorm:"type:datetime;autoCreateTime"`
}
