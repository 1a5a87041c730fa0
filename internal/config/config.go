package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	JWTSecret      string
	AccessTokenTTL string

	Log      string
	LogLevel string
	Env      string // dev|prod

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	ContactEmail string

	SiteURL     string
	CORSOrigins []string

	GitHubToken    string
	GitHubUsername string
	GitHubAPIURL   string
	GitHubRawURL   string

	AdminEmail    string
	AdminPassword string
	AdminName     string

	RateLimitBackend string // memory|redis
	RedisURL         string

	StorageBackend string // local|s3
	UploadDir      string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicURL    string

	ResumeOwnerName string
	ResumeEmail     string
	ResumeLinkedIn  string
	ResumeGitHub    string
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует: чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: def(os.Getenv("ACCESS_TOKEN_EXPIRY"), "24h"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     def(os.Getenv("SMTP_PORT"), "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     def(os.Getenv("MAIL_FROM"), os.Getenv("SMTP_USER")),
		ContactEmail: os.Getenv("CONTACT_EMAIL"),

		SiteURL:     strings.TrimRight(def(os.Getenv("SITE_URL"), "http://localhost:3000"), "/"),
		CORSOrigins: splitList(def(os.Getenv("CORS_ORIGINS"), "*")),

		GitHubToken:    strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		GitHubUsername: strings.TrimSpace(os.Getenv("GITHUB_USERNAME")),
		GitHubAPIURL:   def(os.Getenv("GITHUB_API_URL"), "https://api.github.com"),
		GitHubRawURL:   def(os.Getenv("GITHUB_RAW_URL"), "https://raw.githubusercontent.com"),

		AdminEmail:    strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminName:     def(os.Getenv("ADMIN_NAME"), "Admin"),

		RateLimitBackend: strings.ToLower(def(os.Getenv("RATE_LIMIT_BACKEND"), "memory")),
		RedisURL:         os.Getenv("REDIS_URL"),

		StorageBackend: strings.ToLower(def(os.Getenv("STORAGE_BACKEND"), "local")),
		UploadDir:      def(os.Getenv("UPLOAD_DIR"), "public"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       def(os.Getenv("S3_REGION"), "us-east-1"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretKey:    os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3PublicURL:    strings.TrimRight(os.Getenv("S3_PUBLIC_URL"), "/"),

		ResumeOwnerName: def(os.Getenv("RESUME_OWNER_NAME"), "Portfolio Owner"),
		ResumeEmail:     os.Getenv("RESUME_EMAIL"),
		ResumeLinkedIn:  os.Getenv("RESUME_LINKEDIN"),
		ResumeGitHub:    def(os.Getenv("RESUME_GITHUB"), os.Getenv("GITHUB_USERNAME")),
	}

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
		return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	if _, err := time.ParseDuration(c.AccessTokenTTL); err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRY %q: %w", c.AccessTokenTTL, err)
	}

	// GitHub sync проверяет это сам на каждом запуске
	if c.GitHubToken == "" || c.GitHubUsername == "" {
		warnings = append(warnings, "GitHub token or username not configured, project sync disabled")
	}

	if c.SMTPHost == "" || c.SMTPUser == "" {
		warnings = append(warnings, "SMTP is not fully configured")
	}

	if c.RateLimitBackend == "redis" && c.RedisURL == "" {
		return nil, fmt.Errorf("RATE_LIMIT_BACKEND=redis requires REDIS_URL")
	}
	if c.RateLimitBackend != "memory" && c.RateLimitBackend != "redis" {
		return nil, fmt.Errorf("unsupported RATE_LIMIT_BACKEND %q", c.RateLimitBackend)
	}

	if c.StorageBackend == "s3" && c.S3Bucket == "" {
		warnings = append(warnings, "STORAGE_BACKEND=s3 without S3_BUCKET, falling back to local storage")
	}

	if c.AdminEmail != "" && len(c.AdminPassword) < 8 {
		warnings = append(warnings, "ADMIN_PASSWORD shorter than 8 characters, admin bootstrap skipped")
	}

	return warnings, nil
}

// SMTPConfigured сообщает, можно ли реально отправлять письма.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != ""
}

// AccessTTL парсит ACCESS_TOKEN_EXPIRY, при ошибке: сутки.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// GetDSN: полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe: DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// DBMaxConns: размер пула из DB_MAX_CONNS (по умолчанию 10).
func DBMaxConns() int32 {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("DB_MAX_CONNS")))
	if err != nil || n <= 0 {
		return 10
	}
	return int32(n)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
