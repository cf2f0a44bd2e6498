// Package config 提供应用配置加载
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Media    MediaConfig
	RAG      RAGConfig
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string
	Environment string
	Version     string
	Debug       bool
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string
	Port         int
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret          string
	TokenExpireMinutes int
}

// MediaConfig 上传文件存储配置
type MediaConfig struct {
	Dir string
}

// RAGConfig RAG 查询配置
type RAGConfig struct {
	DefaultEmbeddingModel string
	HuggingFaceToken      string // 向量化调用 HuggingFace 推理接口的令牌
	PineconeTopK          int
	FAISSTopK             int
	RetrievalTimeout      int // 秒
	LLMTimeout            int // 秒
	MemoryTurns           int // 会话记忆保留的最近轮数
}

// Load 加载配置
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// 环境变量
	v.SetEnvPrefix("AGENTX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults 设置默认配置
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "AgentX")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.readtimeout", 30)
	v.SetDefault("server.writetimeout", 180)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxopenconns", 20)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.maxlifetime", 300)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("auth.tokenexpireminutes", 30)
	v.SetDefault("media.dir", "media")
	v.SetDefault("rag.defaultembeddingmodel", "sentence-transformers/all-mpnet-base-v2")
	v.SetDefault("rag.pineconetopk", 5)
	v.SetDefault("rag.faisstopk", 3)
	v.SetDefault("rag.retrievaltimeout", 30)
	v.SetDefault("rag.llmtimeout", 120)
	v.SetDefault("rag.memoryturns", 20)
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// GetAddr 获取服务监听地址
func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetAddr 获取 Redis 地址
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
