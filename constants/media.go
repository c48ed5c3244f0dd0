package constants

// 媒体上传相关的默认限制
const (
	MaxImageSize = 10 * 1024 * 1024  // 头像与照片最大 10MB
	MaxVideoSize = 100 * 1024 * 1024 // 视频最大 100MB

	MaxPhotosPerActor = 50
	MaxVideosPerActor = 20

	DefaultJPEGQuality = 85

	ThumbnailMaxWidth  = 300
	ThumbnailMaxHeight = 300

	VideoThumbnailWidth  = 480
	VideoThumbnailHeight = 270

	// VideoThumbnailOffset 截取视频缩略图的时间点
	VideoThumbnailOffset = "00:00:01"
)

// ActorIDPrefix 演员编号前缀，完整格式为 AC + yyyyMMdd + 8 位随机串
const ActorIDPrefix = "AC"

// 列表查询
const (
	DefaultListLimit = 100
)

// InviteCodeMaxAttempts 生成唯一邀请码的最大尝试次数
const InviteCodeMaxAttempts = 10

// ActorIDMaxAttempts 生成演员编号遇到冲突时的最大重试次数
const ActorIDMaxAttempts = 5
