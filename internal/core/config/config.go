package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var v *viper.Viper
var cfg *Config

// Config App-wide configuration
type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	App       AppConfig
	JWT       JWTConfig
	Cache     CacheConfig
	Snowflake SnowflakeConfig
	Logging   LoggingConfig
	Security  SecurityConfig
	Admin     AdminConfig
	SEO       SEOConfig
}

// DatabaseConfig SQL Database Configuration
// Driver 支持 mysql 和 postgres，SQL 统一写 ? 占位符，postgres 下由 sqlx.Rebind 转成 $n
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Username        string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// RedisConfig Redis Configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// AppConfig Application Configuration
type AppConfig struct {
	Host    string
	Port    int
	Mode    string
	BaseURL string
}

// JWTConfig JWT Configuration
type JWTConfig struct {
	Secret string
	Expiry int // Token过期时间(秒)
}

// CacheConfig Memo Cache Configuration
type CacheConfig struct {
	TTL           int // 条目默认存活时间(秒)
	SweepInterval int // 过期清理周期(秒)
}

// SnowflakeConfig Snowflake Configuration
type SnowflakeConfig struct {
	WorkerID int64
}

// LoggingConfig Logging Configuration
type LoggingConfig struct {
	Level      string
	Output     string
	Filename   string
	MaxSize    int
	MaxAge     int
	MaxBackups int
}

// CORSConfig CORS Configuration
type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig Security Configuration
type SecurityConfig struct {
	AllowIPs  []string // 管理端 IP 白名单
	DenyIPs   []string // IP 黑名单
	RateLimit int      // 每分钟请求上限
	CORS      CORSConfig
}

// AdminConfig 管理端账号配置
// PasswordHash 是 bcrypt 哈希，不存明文
type AdminConfig struct {
	Username     string
	PasswordHash string
}

// SEOConfig Sitemap Configuration
type SEOConfig struct {
	SitemapMaxURLs int
	SitemapTTL     int // sitemap 缓存时间(秒)
}

// Init Initialize configuration with Viper
func Init(configPath string) error {
	v = viper.New()
	cfg = &Config{}

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	setDefaults()

	// 环境变量覆盖
	v.SetEnvPrefix("GAMESHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvs()

	return parseConfig()
}

// setDefaults 设置默认值
func setDefaults() {
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.mode", "release")
	v.SetDefault("app.base_url", "")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 300)

	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("cache.ttl", 300)
	v.SetDefault("cache.sweep_interval", 600)

	v.SetDefault("snowflake.worker_id", 0)

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.expiry", 86400)

	v.SetDefault("security.allow_ips", []string{"127.0.0.1", "localhost", "::1"})
	v.SetDefault("security.rate_limit", 100)
	v.SetDefault("security.cors.enabled", false)
	v.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("security.cors.allowed_headers", []string{"Origin", "Content-Type", "Authorization"})
	v.SetDefault("security.cors.max_age", 3600)

	v.SetDefault("admin.username", "admin")
	// bcrypt("admin123")，仅供本地开发，生产必须通过环境变量覆盖
	v.SetDefault("admin.password_hash", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

	v.SetDefault("seo.sitemap_max_urls", 50000)
	v.SetDefault("seo.sitemap_ttl", 300)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.filename", "logs/gameshare.log")
}

// bindEnvs 绑定环境变量
func bindEnvs() {
	// Database
	v.BindEnv("database.driver", "GAMESHARE_DATABASE_DRIVER")
	v.BindEnv("database.host", "GAMESHARE_DATABASE_HOST")
	v.BindEnv("database.port", "GAMESHARE_DATABASE_PORT")
	v.BindEnv("database.username", "GAMESHARE_DATABASE_USERNAME")
	v.BindEnv("database.password", "GAMESHARE_DATABASE_PASSWORD")
	v.BindEnv("database.name", "GAMESHARE_DATABASE_NAME")

	// Redis
	v.BindEnv("redis.host", "GAMESHARE_REDIS_HOST")
	v.BindEnv("redis.port", "GAMESHARE_REDIS_PORT")
	v.BindEnv("redis.password", "GAMESHARE_REDIS_PASSWORD")

	// JWT / Admin
	v.BindEnv("jwt.secret", "GAMESHARE_JWT_SECRET")
	v.BindEnv("admin.username", "GAMESHARE_ADMIN_USERNAME")
	v.BindEnv("admin.password_hash", "GAMESHARE_ADMIN_PASSWORD_HASH")
}

// parseConfig 解析配置到结构体
func parseConfig() error {
	// Database
	cfg.Database.Driver = v.GetString("database.driver")
	cfg.Database.Host = v.GetString("database.host")
	cfg.Database.Port = v.GetInt("database.port")
	cfg.Database.Username = v.GetString("database.username")
	cfg.Database.Password = v.GetString("database.password")
	cfg.Database.Name = v.GetString("database.name")
	cfg.Database.MaxOpenConns = v.GetInt("database.max_open_conns")
	cfg.Database.MaxIdleConns = v.GetInt("database.max_idle_conns")
	cfg.Database.ConnMaxLifetime = v.GetInt("database.conn_max_lifetime")

	if cfg.Database.Driver != "mysql" && cfg.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	// Redis
	cfg.Redis.Host = v.GetString("redis.host")
	cfg.Redis.Port = v.GetInt("redis.port")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")
	cfg.Redis.PoolSize = v.GetInt("redis.pool_size")

	// App
	cfg.App.Host = v.GetString("app.host")
	cfg.App.Port = v.GetInt("app.port")
	cfg.App.Mode = v.GetString("app.mode")
	cfg.App.BaseURL = strings.TrimSpace(v.GetString("app.base_url"))

	// JWT
	cfg.JWT.Secret = v.GetString("jwt.secret")
	cfg.JWT.Expiry = v.GetInt("jwt.expiry")

	// Cache
	cfg.Cache.TTL = v.GetInt("cache.ttl")
	cfg.Cache.SweepInterval = v.GetInt("cache.sweep_interval")

	// Snowflake
	cfg.Snowflake.WorkerID = v.GetInt64("snowflake.worker_id")

	// Logging
	cfg.Logging.Level = v.GetString("logging.level")
	cfg.Logging.Output = v.GetString("logging.output")
	cfg.Logging.Filename = v.GetString("logging.filename")
	cfg.Logging.MaxSize = v.GetInt("logging.max_size")
	cfg.Logging.MaxAge = v.GetInt("logging.max_age")
	cfg.Logging.MaxBackups = v.GetInt("logging.max_backups")

	// Security
	cfg.Security.AllowIPs = v.GetStringSlice("security.allow_ips")
	cfg.Security.DenyIPs = v.GetStringSlice("security.deny_ips")
	cfg.Security.RateLimit = v.GetInt("security.rate_limit")
	cfg.Security.CORS.Enabled = v.GetBool("security.cors.enabled")
	cfg.Security.CORS.AllowedOrigins = v.GetStringSlice("security.cors.allowed_origins")
	cfg.Security.CORS.AllowedMethods = v.GetStringSlice("security.cors.allowed_methods")
	cfg.Security.CORS.AllowedHeaders = v.GetStringSlice("security.cors.allowed_headers")
	cfg.Security.CORS.AllowCredentials = v.GetBool("security.cors.allow_credentials")
	cfg.Security.CORS.MaxAge = v.GetInt("security.cors.max_age")

	// Admin
	cfg.Admin.Username = v.GetString("admin.username")
	cfg.Admin.PasswordHash = v.GetString("admin.password_hash")

	// SEO
	cfg.SEO.SitemapMaxURLs = v.GetInt("seo.sitemap_max_urls")
	cfg.SEO.SitemapTTL = v.GetInt("seo.sitemap_ttl")

	return nil
}

// Get 获取配置实例
func Get() *Config {
	return cfg
}

// GetDSN Get database DSN for the configured driver
func (c *DatabaseConfig) GetDSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.Host, c.Port, c.Username, c.Password, c.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Username, c.Password, c.Host, c.Port, c.Name)
}

// GetRedisAddr Get Redis address
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetServerAddr Get server address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
