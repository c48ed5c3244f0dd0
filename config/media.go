package config

// MediaConfig 媒体处理相关配置。数值为 0 时使用 constants 中的默认值。
type MediaConfig struct {
	TempDir        string `mapstructure:"temp_dir" yaml:"temp_dir"`       // 临时文件目录，为空时使用系统临时目录
	FFmpegPath     string `mapstructure:"ffmpeg_path" yaml:"ffmpeg_path"` // ffmpeg 可执行文件路径，为空时在 PATH 中查找
	MaxImageSizeMB int    `mapstructure:"max_image_size_mb" yaml:"max_image_size_mb"`
	MaxVideoSizeMB int    `mapstructure:"max_video_size_mb" yaml:"max_video_size_mb"`
	MaxPhotos      int    `mapstructure:"max_photos" yaml:"max_photos"`
	MaxVideos      int    `mapstructure:"max_videos" yaml:"max_videos"`
	JPEGQuality    int    `mapstructure:"jpeg_quality" yaml:"jpeg_quality"`
}
