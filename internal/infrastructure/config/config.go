package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	sharedConfig "github.com/mrc20-presale/presale-node/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	Lock      sharedConfig.LockConfig      `mapstructure:"lock"`
	Presale   sharedConfig.PresaleConfig   `mapstructure:"presale"`
	Chains    []sharedConfig.ChainConfig   `mapstructure:"chains"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"ratelimit"`
}

// Load reads configuration from configPath, or from config.yaml in the usual
// config directories when configPath is empty, then applies PRESALE_*
// environment overrides.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("PRESALE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects configurations the node cannot serve requests with.
func (c *Config) Validate() error {
	switch c.Lock.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("lock.backend must be redis or memory, got %q", c.Lock.Backend)
	}
	if c.Lock.TTLSeconds <= 0 {
		return fmt.Errorf("lock.ttl_seconds must be positive")
	}
	if c.Presale.StartTime <= 0 {
		return fmt.Errorf("presale.start_time is required")
	}
	if c.Presale.ParticipantTokens <= 0 {
		return fmt.Errorf("presale.participant_tokens must be positive")
	}
	if c.Presale.RegistryPath == "" {
		return fmt.Errorf("presale.registry_path is required")
	}
	if len(c.Chains) == 0 {
		return fmt.Errorf("at least one chain must be configured")
	}

	seen := make(map[uint64]bool, len(c.Chains))
	for _, ch := range c.Chains {
		if ch.ChainID == 0 {
			return fmt.Errorf("chain %q: chain_id is required", ch.Name)
		}
		if seen[ch.ChainID] {
			return fmt.Errorf("chain %d configured twice", ch.ChainID)
		}
		seen[ch.ChainID] = true
		if ch.RPCURL == "" || ch.PresaleContract == "" {
			return fmt.Errorf("chain %d: rpc_url and presale_contract are required", ch.ChainID)
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Lock defaults
	v.SetDefault("lock.backend", "redis")
	v.SetDefault("lock.ttl_seconds", 300)
	v.SetDefault("lock.key_prefix", "presale:lock:")
	v.SetDefault("lock.node_id", "")

	// Presale defaults
	v.SetDefault("presale.app_id", 6)
	v.SetDefault("presale.app_name", "mrc20_presale")
	v.SetDefault("presale.signing_domain", "MRC20 Presale")
	v.SetDefault("presale.participant_tokens", 0)
	v.SetDefault("presale.fixed_price", "1")
	v.SetDefault("presale.user_info_index", 6)
	v.SetDefault("presale.registry_path", "configs/registry.yaml")

	// Rate limit defaults
	v.SetDefault("ratelimit.requests", 30)
	v.SetDefault("ratelimit.window_seconds", 60)
}
