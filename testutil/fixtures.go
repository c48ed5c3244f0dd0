package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/utils"
)

// DefaultPassword 测试账户统一使用的明文密码
const DefaultPassword = "secret123"

// CreateUser 直接写入一个带默认权限的活跃账户
func CreateUser(t *testing.T, db *gorm.DB, username string, role enums.UserRole) *entities.User {
	t.Helper()

	hash, err := utils.HashPassword(DefaultPassword)
	require.NoError(t, err)

	user := &entities.User{
		Username:     username,
		PasswordHash: hash,
		Phone:        "138" + phoneSuffix(username),
		Role:         role,
		Status:       enums.UserStatusActive,
	}
	for _, p := range enums.DefaultPermissions(role) {
		user.Permissions = append(user.Permissions, entities.UserPermission{Permission: p})
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateActor 写入一个演员及空的专业信息和联系方式
func CreateActor(t *testing.T, db *gorm.DB, realName string, userID *uint) *entities.Actor {
	t.Helper()

	actor := &entities.Actor{
		ID:       utils.NewActorID(time.Now()),
		UserID:   userID,
		RealName: realName,
		Status:   enums.ActorStatusActive,
	}
	require.NoError(t, db.Create(actor).Error)
	require.NoError(t, db.Create(&entities.ActorProfessionalInfo{ActorID: actor.ID}).Error)
	require.NoError(t, db.Create(&entities.ActorContactInfo{ActorID: actor.ID}).Error)
	return actor
}

// AssignAgent 为演员写入签约信息
func AssignAgent(t *testing.T, db *gorm.DB, actorID string, agentID uint) {
	t.Helper()
	require.NoError(t, db.Create(&entities.ActorContractInfo{ActorID: actorID, AgentID: &agentID}).Error)
}

// phoneSuffix 根据用户名生成 8 位数字，保证不同用户名的手机号不同
func phoneSuffix(username string) string {
	var h uint32 = 2166136261
	for i := 0; i < len(username); i++ {
		h ^= uint32(username[i])
		h *= 16777619
	}
	digits := make([]byte, 8)
	for i := range digits {
		digits[i] = byte('0' + h%10)
		h /= 10
	}
	return string(digits)
}
