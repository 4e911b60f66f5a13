package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via config files or the environment.
type AppConfig struct {
	AppPort   string
	JWTSecret string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Telegram mini app
	TelegramBotToken string
	// Referral program
	ReferralSignupBonus   int
	ReferralReferrerBonus int
	ReferralBaseURL       string
	// Rewards
	NextRewardThreshold int
	// HTTP
	RateLimitPerMinute int
	AllowedOrigins     []string
	// Database
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Redis for caching
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Object storage (S3 compatible) for avatar uploads
	StorageEndpoint   string
	StorageRegion     string
	StorageAccessKey  string
	StorageSecretKey  string
	StorageBucket     string
	StoragePublicBase string
	StorageUseSSL     bool
	// Daily reset job
	DailyResetCron string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
// Precedence: config/config.json -> defaults -> environment variable overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// SetForTest replaces the cached configuration. Test use only.
func SetForTest(c AppConfig) {
	cfg = c
	loaded = true
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads JSON file into cfg if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]any
	dec := json.NewDecoder(f)
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if v, ok := m[key]; ok {
			switch t := v.(type) {
			case float64:
				return int(t)
			case int:
				return t
			case json.Number:
				i, _ := t.Int64()
				return int(i)
			}
		}
		return 0
	}
	getBool := func(m map[string]any, key string) bool {
		if v, ok := m[key]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
		return false
	}
	getStringSlice := func(m map[string]any, key string) []string {
		if v, ok := m[key]; ok {
			if arr, ok := v.([]any); ok {
				res := make([]string, 0, len(arr))
				for _, it := range arr {
					if s, ok := it.(string); ok {
						res = append(res, s)
					}
				}
				return res
			}
		}
		return nil
	}

	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "AppPort")
		out.JWTSecret = getString(app, "JWTSecret")
		if v := getInt(app, "RateLimitPerMinute"); v != 0 {
			out.RateLimitPerMinute = v
		}
		if v := getInt(app, "NextRewardThreshold"); v != 0 {
			out.NextRewardThreshold = v
		}
		if list := getStringSlice(app, "AllowedOrigins"); len(list) > 0 {
			out.AllowedOrigins = list
		}
	}

	if g, ok := raw["gin"].(map[string]any); ok {
		if v := getString(g, "Mode"); v != "" {
			out.GinMode = v
		}
		if v := getString(g, "LogPath"); v != "" {
			out.GinPath = v
		}
	}

	if tg, ok := raw["telegram"].(map[string]any); ok {
		out.TelegramBotToken = getString(tg, "BotToken")
	}

	if ref, ok := raw["referral"].(map[string]any); ok {
		if v := getInt(ref, "SignupBonus"); v != 0 {
			out.ReferralSignupBonus = v
		}
		if v := getInt(ref, "ReferrerBonus"); v != 0 {
			out.ReferralReferrerBonus = v
		}
		if v := getString(ref, "BaseURL"); v != "" {
			out.ReferralBaseURL = v
		}
	}

	if dbs, ok := raw["database"].(map[string]any); ok {
		out.DatabaseURI = getString(dbs, "DatabaseURI")
		out.DBHost = getString(dbs, "DBHost")
		out.DBPort = getString(dbs, "DBPort")
		out.DBUser = getString(dbs, "DBUser")
		out.DBPassword = getString(dbs, "DBPassword")
		out.DBName = getString(dbs, "DBName")
	}

	if rds, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rds, "RedisHost")
		if v := getInt(rds, "RedisPort"); v != 0 {
			out.RedisPort = v
		}
		if v := getInt(rds, "RedisDB"); v != 0 {
			out.RedisDB = v
		}
		out.RedisPassword = getString(rds, "RedisPassword")
	}

	if st, ok := raw["storage"].(map[string]any); ok {
		out.StorageEndpoint = getString(st, "Endpoint")
		out.StorageRegion = getString(st, "Region")
		out.StorageAccessKey = getString(st, "AccessKey")
		out.StorageSecretKey = getString(st, "SecretKey")
		out.StorageBucket = getString(st, "Bucket")
		out.StoragePublicBase = getString(st, "PublicBase")
		out.StorageUseSSL = getBool(st, "UseSSL")
	}

	if jb, ok := raw["jobs"].(map[string]any); ok {
		if v := getString(jb, "DailyResetCron"); v != "" {
			out.DailyResetCron = v
		}
	}

	if lg, ok := raw["logging"].(map[string]any); ok {
		if v := getString(lg, "Level"); v != "" {
			out.LogLevel = v
		}
		if v := getString(lg, "Path"); v != "" {
			out.LogPath = v
		}
		if v := getInt(lg, "MaxSizeMB"); v != 0 {
			out.LogMaxSizeMB = v
		}
		if v := getInt(lg, "MaxBackups"); v != 0 {
			out.LogMaxBackups = v
		}
		if v := getInt(lg, "MaxAgeDays"); v != 0 {
			out.LogMaxAgeDays = v
		}
		out.LogCompress = getBool(lg, "Compress")
	}

	return nil
}

func applyDefaults(out *AppConfig) {
	if out.AppPort == "" {
		out.AppPort = "8080"
	}
	if out.GinMode == "" {
		out.GinMode = "release"
	}
	if out.GinPath == "" {
		out.GinPath = "logs/gin.log"
	}
	if out.ReferralSignupBonus == 0 {
		out.ReferralSignupBonus = 25
	}
	if out.ReferralReferrerBonus == 0 {
		out.ReferralReferrerBonus = 50
	}
	if out.ReferralBaseURL == "" {
		out.ReferralBaseURL = "https://t.me/oraville_bot/app"
	}
	if out.NextRewardThreshold == 0 {
		out.NextRewardThreshold = 2000
	}
	if out.RateLimitPerMinute == 0 {
		out.RateLimitPerMinute = 60
	}
	if len(out.AllowedOrigins) == 0 {
		out.AllowedOrigins = []string{"*"}
	}
	if out.DBHost == "" {
		out.DBHost = "127.0.0.1"
	}
	if out.DBPort == "" {
		out.DBPort = "3306"
	}
	if out.DBUser == "" {
		out.DBUser = "root"
	}
	if out.DBName == "" {
		out.DBName = "oraville"
	}
	if out.RedisHost == "" {
		out.RedisHost = "127.0.0.1"
	}
	if out.RedisPort == 0 {
		out.RedisPort = 6379
	}
	if out.StorageRegion == "" {
		out.StorageRegion = "us-west-004"
	}
	if out.StorageEndpoint == "" {
		out.StorageEndpoint = "s3." + out.StorageRegion + ".backblazeb2.com"
	}
	if out.StorageBucket == "" {
		out.StorageBucket = "oraville-avatars"
	}
	if out.DailyResetCron == "" {
		// UTC midnight; the scheduler itself is pinned to UTC
		out.DailyResetCron = "0 0 * * *"
	}
	if out.LogLevel == "" {
		out.LogLevel = "info"
	}
	if out.LogPath == "" {
		out.LogPath = "logs/app.log"
	}
	if out.LogMaxSizeMB == 0 {
		out.LogMaxSizeMB = 100
	}
	if out.LogMaxBackups == 0 {
		out.LogMaxBackups = 3
	}
	if out.LogMaxAgeDays == 0 {
		out.LogMaxAgeDays = 7
	}
}

func applyEnvOverrides(out *AppConfig) {
	out.AppPort = getEnv("APP_PORT", out.AppPort)
	out.JWTSecret = getEnv("JWT_SECRET", out.JWTSecret)
	out.GinMode = getEnv("GIN_MODE", out.GinMode)
	out.TelegramBotToken = getEnv("TELEGRAM_BOT_TOKEN", out.TelegramBotToken)
	out.ReferralBaseURL = getEnv("REFERRAL_BASE_URL", out.ReferralBaseURL)
	if v := getEnvInt("REFERRAL_SIGNUP_BONUS"); v != 0 {
		out.ReferralSignupBonus = v
	}
	if v := getEnvInt("REFERRAL_REFERRER_BONUS"); v != 0 {
		out.ReferralReferrerBonus = v
	}
	if v := getEnvInt("RATE_LIMIT_PER_MINUTE"); v != 0 {
		out.RateLimitPerMinute = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		res := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				res = append(res, p)
			}
		}
		if len(res) > 0 {
			out.AllowedOrigins = res
		}
	}
	out.DatabaseURI = getEnv("DATABASE_URI", out.DatabaseURI)
	out.DBHost = getEnv("DB_HOST", out.DBHost)
	out.DBPort = getEnv("DB_PORT", out.DBPort)
	out.DBUser = getEnv("DB_USER", out.DBUser)
	out.DBPassword = getEnv("DB_PASSWORD", out.DBPassword)
	out.DBName = getEnv("DB_NAME", out.DBName)
	out.RedisHost = getEnv("REDIS_HOST", out.RedisHost)
	if v := getEnvInt("REDIS_PORT"); v != 0 {
		out.RedisPort = v
	}
	if v := getEnvInt("REDIS_DB"); v != 0 {
		out.RedisDB = v
	}
	out.RedisPassword = getEnv("REDIS_PASSWORD", out.RedisPassword)
	out.StorageEndpoint = getEnv("STORAGE_ENDPOINT", out.StorageEndpoint)
	out.StorageRegion = getEnv("STORAGE_REGION", out.StorageRegion)
	out.StorageAccessKey = getEnv("STORAGE_ACCESS_KEY", out.StorageAccessKey)
	out.StorageSecretKey = getEnv("STORAGE_SECRET_KEY", out.StorageSecretKey)
	out.StorageBucket = getEnv("STORAGE_BUCKET", out.StorageBucket)
	out.StoragePublicBase = getEnv("STORAGE_PUBLIC_BASE", out.StoragePublicBase)
	if v := os.Getenv("STORAGE_USE_SSL"); v != "" {
		out.StorageUseSSL = v == "1" || strings.EqualFold(v, "true")
	}
	out.DailyResetCron = getEnv("DAILY_RESET_CRON", out.DailyResetCron)
	out.LogLevel = getEnv("LOG_LEVEL", out.LogLevel)
	out.LogPath = getEnv("LOG_PATH", out.LogPath)
}

func getEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
