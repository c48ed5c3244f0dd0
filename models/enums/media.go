package enums

// MediaType 演员媒体文件类型
type MediaType string

const (
	MediaAvatar MediaType = "avatar"
	MediaPhoto  MediaType = "photo"
	MediaVideo  MediaType = "video"
)

func (m MediaType) IsValid() bool {
	return m == MediaAvatar || m == MediaPhoto || m == MediaVideo
}

// InviteCodeStatus 邀请码状态
type InviteCodeStatus string

const (
	InviteCodeActive   InviteCodeStatus = "active"
	InviteCodeInactive InviteCodeStatus = "inactive"
)
