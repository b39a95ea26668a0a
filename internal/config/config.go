package config

import "github.com/spf13/viper"

type Config struct {
	ServerPort        string `mapstructure:"SERVER_PORT"`
	DBPath            string `mapstructure:"DB_PATH"`
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	ShareSecret       string `mapstructure:"SHARE_SECRET"`
	ExportDir         string `mapstructure:"EXPORT_DIR"`
	StorageQuotaBytes int64  `mapstructure:"STORAGE_QUOTA_BYTES"`
}

func Load() Config {
	viper.AutomaticEnv()
	viper.SetDefault("SERVER_PORT", ":8080")
	viper.SetDefault("DB_PATH", "natureaccess.db")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("SHARE_SECRET", "dev-secret-change-me")
	viper.SetDefault("EXPORT_DIR", "exports")
	// Matches the ~5 MB budget of the browser storage this replaces.
	viper.SetDefault("STORAGE_QUOTA_BYTES", 5*1024*1024)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
