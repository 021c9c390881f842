package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// ShutdownTimeoutSeconds bounds how long in-flight requests may finish on shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// IsDebug reports whether the server runs in gin debug mode.
func (s *ServerConfig) IsDebug() bool {
	return s.Mode == "debug"
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LockConfig configures the per-address deposit lock.
type LockConfig struct {
	// Backend is "redis" or "memory".
	Backend    string `mapstructure:"backend"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
	KeyPrefix  string `mapstructure:"key_prefix"`
	// NodeID namespaces owner identifiers written by this node.
	NodeID string `mapstructure:"node_id"`
}

func (l *LockConfig) TTL() time.Duration {
	return time.Duration(l.TTLSeconds) * time.Second
}

// PresaleConfig holds the sale constants shared by every node of the network.
type PresaleConfig struct {
	AppID         uint32 `mapstructure:"app_id"`
	AppName       string `mapstructure:"app_name"`
	SigningDomain string `mapstructure:"signing_domain"`
	// StartTime is a unix timestamp in seconds, as stored by the presale contracts.
	StartTime         int64  `mapstructure:"start_time"`
	ParticipantTokens int64  `mapstructure:"participant_tokens"`
	FixedPrice        string `mapstructure:"fixed_price"`
	UserInfoIndex     uint8  `mapstructure:"user_info_index"`
	RegistryPath      string `mapstructure:"registry_path"`
}

// ChainConfig describes one chain hosting a presale contract.
type ChainConfig struct {
	Name            string `mapstructure:"name"`
	ChainID         uint64 `mapstructure:"chain_id"`
	RPCURL          string `mapstructure:"rpc_url"`
	PresaleContract string `mapstructure:"presale_contract"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
}

func (c *ChainConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RateLimitConfig limits requests per client IP. Requests of zero disables the
// limiter; it also stays off when no Redis is configured.
type RateLimitConfig struct {
	Requests      int `mapstructure:"requests"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

func (r *RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}
