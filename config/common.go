package config

// ZapConfig 定义 zap 日志记录器的配置
type ZapConfig struct {
	Level    string `mapstructure:"level" json:"level" yaml:"level"`          // 日志级别: debug / info / warn / error
	Encoding string `mapstructure:"encoding" json:"encoding" yaml:"encoding"` // 编码格式: json 或 console

	// OutputPath 为空时只输出到标准输出；非空时额外写入文件并按大小切割
	OutputPath string `mapstructure:"output_path" json:"output_path" yaml:"output_path"`
	MaxSize    int    `mapstructure:"max_size" json:"max_size" yaml:"max_size"`          // 单个日志文件最大尺寸 (MB)
	MaxBackups int    `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"` // 保留的旧文件个数
	MaxAge     int    `mapstructure:"max_age" json:"max_age" yaml:"max_age"`             // 旧文件保留天数
	Compress   bool   `mapstructure:"compress" json:"compress" yaml:"compress"`
}

// GormLogConfig 定义 GORM 日志适配器的配置
type GormLogConfig struct {
	Level           string `mapstructure:"level" json:"level" yaml:"level"`                               // silent / error / warn / info
	SlowThresholdMs int    `mapstructure:"slow_threshold_ms" json:"slow_threshold_ms" yaml:"slow_threshold_ms"` // 慢查询阈值 (毫秒)

	IgnoreRecordNotFoundError bool `mapstructure:"ignore_record_not_found_error" json:"ignore_record_not_found_error" yaml:"ignore_record_not_found_error"`
}

// ServerConfig 定义 HTTP 服务配置
type ServerConfig struct {
	Port           string `mapstructure:"listen_addr" json:"listen_addr" yaml:"listen_addr"`
	RequestTimeout int    `mapstructure:"request_timeout" json:"request_timeout" yaml:"request_timeout"` // 单个请求的超时时间 (秒)
	Mode           string `mapstructure:"mode" json:"mode" yaml:"mode"`                                  // gin 运行模式: debug / release / test
}

// TracerConfig 定义分布式追踪配置
type TracerConfig struct {
	Enabled          bool    `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	ExporterType     string  `mapstructure:"exporter_type" json:"exporter_type" yaml:"exporter_type"`             // otlp_http 或 stdout
	ExporterEndpoint string  `mapstructure:"exporter_endpoint" json:"exporter_endpoint" yaml:"exporter_endpoint"` // 例如 localhost:4318
	SampleRatio      float64 `mapstructure:"sample_ratio" json:"sample_ratio" yaml:"sample_ratio"`
}
