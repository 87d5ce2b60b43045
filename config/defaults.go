// =============================================================================
// 📦 GenStudio 默认配置
// =============================================================================
// 提供所有配置项的合理默认值
// =============================================================================
package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Server:    DefaultServerConfig(),
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
		Redis:     DefaultRedisConfig(),
		Database:  DefaultDatabaseConfig(),
		Settings:  DefaultSettingsConfig(),
		Providers: DefaultProvidersConfig(),
		Community: DefaultCommunityConfig(),
	}
}

// DefaultServerConfig 返回默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:        8080,
		MetricsPort:     9091,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    6 * time.Minute, // 覆盖生成与社区代理的最长耗时
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		RateLimitRPS:    100,
		RateLimitBurst:  200,
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{"stdout"},
		EnableCaller:     true,
		EnableStacktrace: false,
	}
}

// DefaultTelemetryConfig 返回默认遥测配置
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "genstudio",
		SampleRate:   0.1,
	}
}

// DefaultRedisConfig 返回默认 Redis 配置
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:      false,
		Addr:         "localhost:6379",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		KeyPrefix:    "genstudio:",
	}
}

// DefaultDatabaseConfig 返回默认数据库配置（默认不连接）
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver:          "",
		Host:            "localhost",
		Port:            5432,
		User:            "genstudio",
		Name:            "genstudio",
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// DefaultSettingsConfig 返回默认设置存储配置
func DefaultSettingsConfig() SettingsConfig {
	return SettingsConfig{
		Backend:     "memory",
		Key:         "genstudio-settings",
		Dir:         "./data/settings",
		RedisPrefix: "genstudio:settings:",
	}
}

// DefaultProvidersConfig 返回默认生成服务配置
func DefaultProvidersConfig() ProvidersConfig {
	return ProvidersConfig{
		GenerationEndpoint: "http://localhost:3000/api/generate",
		Timeout:            5 * time.Minute,
	}
}

// DefaultCommunityConfig 返回默认社区工作流代理配置
func DefaultCommunityConfig() CommunityConfig {
	return CommunityConfig{
		MetadataBaseURL: "https://api.genstudio.app/community/workflows",
		Timeout:         90 * time.Second,
		FreshnessTTL:    60 * time.Second,
		MaxPayloadBytes: 32 << 20,
		CacheBackend:    "memory",
		CacheSize:       1024,
	}
}
