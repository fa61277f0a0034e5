// Package config 提供配置加载功能
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// DefaultConfigDir 默认配置目录
const DefaultConfigDir = "configs"

// Load 从默认目录加载配置
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigDir)
}

// LoadFrom 从指定目录加载配置
// 按优先级加载：默认配置 -> 环境配置 -> 环境变量
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := loadConfigFile(v, filepath.Join(dir, "config.yaml"), false); err != nil {
		return nil, err
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	envFile := filepath.Join(dir, fmt.Sprintf("config.%s.yaml", env))
	if err := loadConfigFile(v, envFile, true); err != nil {
		return nil, err
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// loadConfigFile 读取文件，执行环境变量替换，并加载到 viper
func loadConfigFile(v *viper.Viper, path string, optional bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	reader := strings.NewReader(expandEnv(string(content)))
	if v.ConfigFileUsed() == "" {
		if err := v.ReadConfig(reader); err != nil {
			return fmt.Errorf("failed to read processed config %s: %w", path, err)
		}
		// 标记已加载文件，后续文件走 MergeConfig
		v.SetConfigFile(path)
		return nil
	}
	if err := v.MergeConfig(reader); err != nil {
		return fmt.Errorf("failed to merge processed config %s: %w", path, err)
	}
	return nil
}

var envPattern = regexp.MustCompile(`\${(\w+)(:([^}]*))?}`)

// expandEnv 替换字符串中的 ${VAR} 与 ${VAR:default} 占位符
// 未定义且无默认值的变量保留原样，便于排查
func expandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		sub := envPattern.FindStringSubmatch(match)
		if val, ok := os.LookupEnv(sub[1]); ok {
			return val
		}
		if sub[2] != "" {
			return sub[3]
		}
		return match
	})
}

// MustLoad 加载配置，失败时 panic
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Validate 检查启动所需的凭据与连接信息是否存在
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Search.APIKey) == "" {
		errs = append(errs, errors.New("search.api_key is required"))
	}
	if strings.TrimSpace(c.Search.Endpoint) == "" {
		errs = append(errs, errors.New("search.endpoint is required"))
	}

	provider := strings.TrimSpace(c.LLM.DefaultProvider)
	if provider == "" {
		errs = append(errs, errors.New("llm.default_provider is required"))
	} else if p, ok := c.LLM.Providers[provider]; !ok {
		errs = append(errs, fmt.Errorf("llm provider %q not configured", provider))
	} else if strings.TrimSpace(p.APIKey) == "" {
		errs = append(errs, fmt.Errorf("llm.providers.%s.api_key is required", provider))
	}

	if strings.TrimSpace(c.Database.Postgres.Host) == "" || strings.TrimSpace(c.Database.Postgres.Database) == "" {
		errs = append(errs, errors.New("database.postgres host and database are required"))
	}

	if c.Research.Refinement.MarkerOpen == "" || c.Research.Refinement.MarkerClose == "" {
		errs = append(errs, errors.New("research.refinement markers must not be empty"))
	}

	return errors.Join(errs...)
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "citebot")
	v.SetDefault("app.version", "v0.0.0")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.read_timeout", "30s")
	v.SetDefault("server.http.write_timeout", "90s")
	v.SetDefault("server.http.idle_timeout", "120s")
	v.SetDefault("server.http.shutdown_timeout", "30s")
	v.SetDefault("server.http.max_body_bytes", 65536)

	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.database", "citebot")
	v.SetDefault("database.postgres.ssl_mode", "disable")
	v.SetDefault("database.postgres.max_open_conns", 20)
	v.SetDefault("database.postgres.max_idle_conns", 5)
	v.SetDefault("database.postgres.conn_max_lifetime", "30m")
	v.SetDefault("database.postgres.conn_max_idle_time", "5m")
	v.SetDefault("database.postgres.log_level", "warn")

	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 20)
	v.SetDefault("cache.redis.min_idle_conns", 2)
	v.SetDefault("cache.redis.dial_timeout", "5s")
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")

	v.SetDefault("llm.default_provider", "openai")

	v.SetDefault("search.provider", "exa")
	v.SetDefault("search.endpoint", "https://api.exa.ai")
	v.SetDefault("search.num_results", 5)
	v.SetDefault("search.include_domains", []string{
		"pubmed.ncbi.nlm.nih.gov",
		"nih.gov",
		"mayoclinic.org",
		"who.int",
		"cdc.gov",
	})
	v.SetDefault("search.use_autoprompt", true)
	v.SetDefault("search.highlights.num_sentences", 3)
	v.SetDefault("search.highlights.per_url", 3)
	v.SetDefault("search.timeout", "15s")

	v.SetDefault("research.request_timeout", "60s")
	v.SetDefault("research.refinement.max_depth", 1)
	v.SetDefault("research.refinement.marker_open", "<<")
	v.SetDefault("research.refinement.marker_close", ">>")
	v.SetDefault("research.refinement.strip_unresolved_marker", false)

	v.SetDefault("messaging.redis_stream.max_len", 100000)

	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("security.rate_limit.enabled", true)
	v.SetDefault("security.rate_limit.requests_per_window", 30)
	v.SetDefault("security.rate_limit.window", "1m")

	v.SetDefault("features.interaction_events.enabled", false)
	v.SetDefault("features.interaction_events.stream", "stream:research:interactions")
}
