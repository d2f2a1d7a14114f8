package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	config     *Config
	configOnce sync.Once
)

// Config stores all configuration of the application
type Config struct {
	// Environment type
	EnvType string

	// Database
	DBDriver        string // mysql(默认), postgres, sqlite
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	DBMigrationMode string // 数据库迁移模式: "auto"(默认), "drop"(删除重建)

	// Server
	ServerPort   string
	ClientOrigin string // 允许跨域及WebSocket连接的前端地址

	// Logging
	LogDir   string
	LogLevel string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisEnabled  bool
	EventChannel  string // 跨实例事件转发使用的 Redis 频道
	LockCacheTTL  time.Duration

	// ThingsBoard 设备平台
	ThingsboardURL      string
	ThingsboardWSURL    string
	ThingsboardUsername string
	ThingsboardPassword string
	ThingsboardTimeout  time.Duration
	ThingsboardMonitor  bool // 是否订阅设备遥测 WebSocket

	// MQTT配置
	MQTTBrokerURL   string // MQTT服务器地址，如 tcp://broker.example.com:1883
	MQTTClientID    string // MQTT客户端ID
	MQTTUsername    string // MQTT用户名
	MQTTPassword    string // MQTT密码
	MQTTQoS         int    // 服务质量 (0, 1, 2)
	MQTTRetained    bool   // 是否保留消息
	MQTTTopicPrefix string

	// JWT Authentication
	JWTSecretKey string
	JWTExpiry    time.Duration

	// Admin
	DefaultAdminPassword string
}

// LoadConfig loads config from environment variables based on ENV_TYPE
func LoadConfig() *Config {
	// Get environment type (default to LOCAL if not set)
	envType := strings.ToUpper(getEnv("ENV_TYPE", "LOCAL"))
	prefix := ""

	switch envType {
	case "LOCAL":
		prefix = "LOCAL_"
	case "SERVER":
		prefix = "SERVER_"
	default:
		fmt.Printf("Warning: Unknown ENV_TYPE '%s', defaulting to LOCAL environment\n", envType)
		prefix = "LOCAL_"
		envType = "LOCAL"
	}

	return &Config{
		EnvType: envType,

		// Database config - use environment-specific variables if available
		DBDriver:        strings.ToLower(getPrefixed(prefix, "DB_DRIVER", "mysql")),
		DBHost:          getPrefixed(prefix, "DB_HOST", "localhost"),
		DBUser:          getPrefixed(prefix, "DB_USER", ""),
		DBPassword:      getPrefixed(prefix, "DB_PASSWORD", ""),
		DBName:          getPrefixed(prefix, "DB_NAME", ""),
		DBPort:          getPrefixed(prefix, "DB_PORT", "3306"),
		DBMigrationMode: getPrefixed(prefix, "DB_MIGRATION_MODE", "auto"),

		// Server config
		ServerPort:   getPrefixed(prefix, "SERVER_PORT", "8080"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:3000"),

		LogDir:   getEnv("LOG_DIR", "logs"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Redis config
		RedisHost:     getPrefixed(prefix, "REDIS_HOST", "localhost"),
		RedisPort:     getPrefixed(prefix, "REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		RedisEnabled:  getEnvAsBool("REDIS_ENABLED", true),
		EventChannel:  getEnv("REDIS_EVENT_CHANNEL", "building-access:events"),
		LockCacheTTL:  getEnvAsDuration("LOCK_CACHE_TTL", 30*time.Second),

		// ThingsBoard config
		ThingsboardURL:      strings.TrimRight(getEnv("THINGSBOARD_URL", ""), "/"),
		ThingsboardWSURL:    strings.TrimRight(getEnv("THINGSBOARD_WS_URL", ""), "/"),
		ThingsboardUsername: getEnv("THINGSBOARD_USERNAME", ""),
		ThingsboardPassword: getEnv("THINGSBOARD_PASSWORD", ""),
		ThingsboardTimeout:  getEnvAsDuration("THINGSBOARD_TIMEOUT", 5*time.Second),
		ThingsboardMonitor:  getEnvAsBool("THINGSBOARD_MONITOR_ENABLED", false),

		// MQTT配置
		MQTTBrokerURL:   getEnv("MQTT_BROKER_URL", ""),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", "building_access_server"),
		MQTTUsername:    getEnv("MQTT_USERNAME", ""),
		MQTTPassword:    getEnv("MQTT_PASSWORD", ""),
		MQTTQoS:         getEnvAsInt("MQTT_QOS", 1),
		MQTTRetained:    getEnvAsBool("MQTT_RETAINED", false),
		MQTTTopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "building-access"),

		// JWT Config
		JWTSecretKey: getEnv("JWT_SECRET_KEY", "building-access-secret-change-in-production"),
		JWTExpiry:    getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),

		// Admin Config
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", ""),
	}
}

// GetConfig returns the application configuration as a singleton
func GetConfig() *Config {
	configOnce.Do(func() {
		config = LoadConfig()
	})
	return config
}

// Validate 检查必须提供的配置项
func (c *Config) Validate() error {
	var missing []string
	if c.DBDriver != "sqlite" {
		if c.DBUser == "" {
			missing = append(missing, "DB_USER")
		}
		if c.DBName == "" {
			missing = append(missing, "DB_NAME")
		}
	} else if c.DBName == "" {
		missing = append(missing, "DB_NAME")
	}
	if c.DefaultAdminPassword == "" {
		missing = append(missing, "DEFAULT_ADMIN_PASSWORD")
	}
	if c.ThingsboardURL != "" && c.ThingsboardUsername == "" {
		missing = append(missing, "THINGSBOARD_USERNAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.MQTTQoS < 0 || c.MQTTQoS > 2 {
		return fmt.Errorf("MQTT_QOS must be 0, 1 or 2, got %d", c.MQTTQoS)
	}
	return nil
}

// GetDSN returns the database connection string for the configured driver
func (c *Config) GetDSN() string {
	switch c.DBDriver {
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
	case "sqlite":
		return c.DBName
	default:
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local&allowNativePasswords=true"
	}
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// getPrefixed 优先读取带环境前缀的变量，其次读取不带前缀的变量
func getPrefixed(prefix, key, defaultValue string) string {
	return getEnv(prefix+key, getEnv(key, defaultValue))
}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as boolean with default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration 读取 time.ParseDuration 格式的时长
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
