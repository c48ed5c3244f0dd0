package utils

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Xushengqwer/actor_hub/constants"
)

// GenerateInviteCode 生成 6 位数字邀请码
func GenerateInviteCode() string {
	code := rand.IntN(900000) + 100000 // 100000~999999
	return fmt.Sprintf("%06d", code)
}

// NewActorID 生成演员编号：AC + 日期 + uuid 前 8 位（大写）
func NewActorID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return constants.ActorIDPrefix + now.Format("20060102") + strings.ToUpper(suffix)
}
