package vo

import "time"

// InviteUserVO 使用过邀请码的用户
type InviteUserVO struct {
	ID       uint      `json:"id"`
	Username string    `json:"username"`
	UsedAt   time.Time `json:"used_at"`
}

type InviteCodeVO struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	AgentID   uint            `json:"agent_id"`
	Status    string          `json:"status"`
	UsedCount int             `json:"used_count"`
	UsedBy    []*InviteUserVO `json:"used_by"`
	CreatedAt time.Time       `json:"created_at"`
}

// InviteVerifyVO 邀请码校验结果
type InviteVerifyVO struct {
	Code      string `json:"code"`
	Valid     bool   `json:"valid"`
	AgentID   uint   `json:"agent_id"`
	AgentName string `json:"agent_name"`
}
