package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	UploadPath string        `mapstructure:"upload_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`

	DefaultRoom string `mapstructure:"default_room"`
	MicSlots    int    `mapstructure:"mic_slots"`
	ChatHistory int    `mapstructure:"chat_history"`
	ChatTail    int    `mapstructure:"chat_tail"`

	ChatRate       int           `mapstructure:"chat_rate"`
	ChatRateWindow time.Duration `mapstructure:"chat_rate_window"`

	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("upload_path", "./uploads")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("default_room", "hall")
	v.SetDefault("mic_slots", 8)
	v.SetDefault("chat_history", 200)
	v.SetDefault("chat_tail", 50)
	v.SetDefault("chat_rate", 10)
	v.SetDefault("chat_rate_window", "10s")
	v.SetDefault("max_upload_bytes", 5<<20)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("config file not found (%s), using defaults\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
