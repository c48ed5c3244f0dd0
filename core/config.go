package core

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadConfig 读取 YAML 配置文件并反序列化到 cfg（需为指针）。
// 字段映射依赖结构体上的 mapstructure 标签。
func LoadConfig(path string, cfg interface{}) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("读取配置文件失败 (%s): %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("解析配置文件失败 (%s): %w", path, err)
	}
	return nil
}
