package constants

const (
	ServiceName    = "actor-hub"
	ServiceVersion = "1.0.0"
)

// gin.Context 中保存认证信息使用的键
const (
	ContextUserKey   = "currentUser"
	ContextClaimsKey = "tokenClaims"
)
