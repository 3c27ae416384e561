package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
// It is built once by Load and passed by value to whatever needs it.
// Sensitive data should never have defaults inside code and must be provided via env files or the environment.
type AppConfig struct {
	AppPort     string
	JWTSecret   string
	JWTTTLHours int
	// Storage backend: mysql, mongo or memory
	DBDriver      string
	DatabaseURI   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	MongoURI      string
	MongoDatabase string
	// HTTP surface
	RateLimitPerMinute int
	AllowedOrigins     []string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Hosted image store: cloudinary or minio
	ImageHost        string
	CloudinaryURL    string
	CloudinaryFolder string
	MinioEndpoint    string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioBucket      string
	MinioUseSSL      bool
	MinioPublicURL   string
	// Local staging of multipart uploads
	UploadDir          string
	UploadMaxBytes     int64
	UploadStaleMinutes int
	// Redis for caching and token revocation; empty host disables both
	RedisHost       string
	RedisPort       int
	RedisDB         int
	RedisPassword   string
	CacheTTLSeconds int
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Domain switches
	UserDeleteCascade bool
	PostsPerPage      int
}

// ErrMissingSecret is returned by Load when no JWT secret is configured.
var ErrMissingSecret = errors.New("JWT_SECRET must be set in environment variables")

// Load reads configuration once at boot.
// Precedence: .env -> config/config.json -> defaults -> environment variable overrides.
func Load() (AppConfig, error) {
	var cfg AppConfig

	// .env is optional; real environment variables always win over it.
	_ = godotenv.Load()

	if err := loadJSONConfig(filepath.Join("config", "config.json"), &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		return cfg, ErrMissingSecret
	}
	return cfg, nil
}

// TokenTTL is the lifetime of issued access tokens.
func (c AppConfig) TokenTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

// CacheTTL is the lifetime of cached API responses.
func (c AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// UploadStaleAfter is the age after which a staged upload is considered leaked.
func (c AppConfig) UploadStaleAfter() time.Duration {
	return time.Duration(c.UploadStaleMinutes) * time.Minute
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads grouped JSON sections into cfg if the file is present.
// Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if s, ok := m[key].(string); ok {
			return s
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if f, ok := m[key].(float64); ok {
			return int(f)
		}
		return 0
	}
	getBool := func(m map[string]any, key string) bool {
		b, _ := m[key].(bool)
		return b
	}
	getStringSlice := func(m map[string]any, key string) []string {
		arr, ok := m[key].([]any)
		if !ok {
			return nil
		}
		res := make([]string, 0, len(arr))
		for _, it := range arr {
			if s, ok := it.(string); ok {
				res = append(res, s)
			}
		}
		return res
	}

	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "AppPort")
		out.JWTSecret = getString(app, "JWTSecret")
		out.JWTTTLHours = getInt(app, "JWTTTLHours")
		out.RateLimitPerMinute = getInt(app, "RateLimitPerMinute")
		out.AllowedOrigins = getStringSlice(app, "AllowedOrigins")
		out.GinMode = getString(app, "GinMode")
		out.GinPath = getString(app, "GinPath")
		out.UserDeleteCascade = getBool(app, "UserDeleteCascade")
		out.PostsPerPage = getInt(app, "PostsPerPage")
	}
	if db, ok := raw["database"].(map[string]any); ok {
		out.DBDriver = getString(db, "Driver")
		out.DatabaseURI = getString(db, "DatabaseURI")
		out.DBHost = getString(db, "Host")
		out.DBPort = getString(db, "Port")
		out.DBUser = getString(db, "User")
		out.DBPassword = getString(db, "Password")
		out.DBName = getString(db, "Name")
		out.MongoURI = getString(db, "MongoURI")
		out.MongoDatabase = getString(db, "MongoDatabase")
	}
	if img, ok := raw["images"].(map[string]any); ok {
		out.ImageHost = getString(img, "Host")
		out.CloudinaryURL = getString(img, "CloudinaryURL")
		out.CloudinaryFolder = getString(img, "CloudinaryFolder")
		out.MinioEndpoint = getString(img, "MinioEndpoint")
		out.MinioAccessKey = getString(img, "MinioAccessKey")
		out.MinioSecretKey = getString(img, "MinioSecretKey")
		out.MinioBucket = getString(img, "MinioBucket")
		out.MinioUseSSL = getBool(img, "MinioUseSSL")
		out.MinioPublicURL = getString(img, "MinioPublicURL")
		out.UploadDir = getString(img, "UploadDir")
		out.UploadMaxBytes = int64(getInt(img, "UploadMaxBytes"))
		out.UploadStaleMinutes = getInt(img, "UploadStaleMinutes")
	}
	if rd, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rd, "Host")
		out.RedisPort = getInt(rd, "Port")
		out.RedisDB = getInt(rd, "DB")
		out.RedisPassword = getString(rd, "Password")
		out.CacheTTLSeconds = getInt(rd, "CacheTTLSeconds")
	}
	if lg, ok := raw["log"].(map[string]any); ok {
		out.LogLevel = getString(lg, "Level")
		out.LogPath = getString(lg, "Path")
		out.LogMaxSizeMB = getInt(lg, "MaxSizeMB")
		out.LogMaxBackups = getInt(lg, "MaxBackups")
		out.LogMaxAgeDays = getInt(lg, "MaxAgeDays")
		out.LogCompress = getBool(lg, "Compress")
	}
	return nil
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.JWTTTLHours == 0 {
		c.JWTTTLHours = 30 * 24
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBName == "" {
		c.DBName = "blog"
	}
	if c.MongoURI == "" {
		c.MongoURI = "mongodb://127.0.0.1:27017"
	}
	if c.MongoDatabase == "" {
		c.MongoDatabase = "blog"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/gin.log"
	}
	if c.ImageHost == "" {
		c.ImageHost = "cloudinary"
	}
	if c.CloudinaryFolder == "" {
		c.CloudinaryFolder = "blog"
	}
	if c.MinioBucket == "" {
		c.MinioBucket = "blog-images"
	}
	if c.UploadDir == "" {
		c.UploadDir = filepath.Join("uploads", "images")
	}
	if c.UploadMaxBytes == 0 {
		c.UploadMaxBytes = 1 << 20
	}
	if c.UploadStaleMinutes == 0 {
		c.UploadStaleMinutes = 60
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = 3600
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/app.log"
	}
	if c.PostsPerPage == 0 {
		c.PostsPerPage = 3
	}
}

func applyEnvOverrides(c *AppConfig) {
	str := func(key string, dst *string) {
		if v := getEnv(key, ""); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := getEnv(key, ""); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	flag := func(key string, dst *bool) {
		if v := getEnv(key, ""); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	str("APP_PORT", &c.AppPort)
	str("JWT_SECRET", &c.JWTSecret)
	num("JWT_TTL_HOURS", &c.JWTTTLHours)
	str("DB_DRIVER", &c.DBDriver)
	str("DATABASE_URI", &c.DatabaseURI)
	str("DB_HOST", &c.DBHost)
	str("DB_PORT", &c.DBPort)
	str("DB_USER", &c.DBUser)
	str("DB_PASSWORD", &c.DBPassword)
	str("DB_NAME", &c.DBName)
	str("MONGODB_URI", &c.MongoURI)
	str("MONGODB_DATABASE", &c.MongoDatabase)
	num("RATE_LIMIT_PER_MINUTE", &c.RateLimitPerMinute)
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = splitList(v)
	}
	str("GIN_MODE", &c.GinMode)
	str("GIN_PATH", &c.GinPath)
	str("IMAGE_HOST", &c.ImageHost)
	str("CLOUDINARY_URL", &c.CloudinaryURL)
	str("CLOUDINARY_FOLDER", &c.CloudinaryFolder)
	str("MINIO_ENDPOINT", &c.MinioEndpoint)
	str("MINIO_ACCESS_KEY", &c.MinioAccessKey)
	str("MINIO_SECRET_KEY", &c.MinioSecretKey)
	str("MINIO_BUCKET", &c.MinioBucket)
	flag("MINIO_USE_SSL", &c.MinioUseSSL)
	str("MINIO_PUBLIC_URL", &c.MinioPublicURL)
	str("UPLOAD_DIR", &c.UploadDir)
	if v := getEnv("UPLOAD_MAX_BYTES", ""); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.UploadMaxBytes = n
		}
	}
	num("UPLOAD_STALE_MINUTES", &c.UploadStaleMinutes)
	str("REDIS_HOST", &c.RedisHost)
	num("REDIS_PORT", &c.RedisPort)
	num("REDIS_DB", &c.RedisDB)
	str("REDIS_PASSWORD", &c.RedisPassword)
	num("CACHE_TTL_SECONDS", &c.CacheTTLSeconds)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_PATH", &c.LogPath)
	num("LOG_MAX_SIZE_MB", &c.LogMaxSizeMB)
	num("LOG_MAX_BACKUPS", &c.LogMaxBackups)
	num("LOG_MAX_AGE_DAYS", &c.LogMaxAgeDays)
	flag("LOG_COMPRESS", &c.LogCompress)
	flag("USER_DELETE_CASCADE", &c.UserDeleteCascade)
	num("POSTS_PER_PAGE", &c.PostsPerPage)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
