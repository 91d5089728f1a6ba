package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config application-wide configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Mail     MailConfig     `mapstructure:"mail"`
	Log      LogConfig      `mapstructure:"log"`
	Tutoring TutoringConfig `mapstructure:"tutoring"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Export   ExportConfig   `mapstructure:"export"`
}

// ServerConfig HTTP server
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig cross-origin settings
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL connection
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig token blacklist and rate limiting backend
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT settings
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	LoginRateLimit int           `mapstructure:"login_rate_limit"` // attempts per minute per IP
}

// MailConfig outgoing notification mail
type MailConfig struct {
	Provider       string `mapstructure:"provider"` // console | sendgrid
	SendgridAPIKey string `mapstructure:"sendgrid_api_key"`
	FromName       string `mapstructure:"from_name"`
	FromAddress    string `mapstructure:"from_address"`
	SubjectPrefix  string `mapstructure:"subject_prefix"`
}

// LogConfig logging
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TutoringConfig defaults for the tutoring workflow. The threshold and default
// session count can be overridden at runtime through the settings endpoint.
type TutoringConfig struct {
	RiskThreshold           float64       `mapstructure:"risk_threshold"`
	DefaultRequiredSessions int           `mapstructure:"default_required_sessions"`
	MaxRequiredSessions     int           `mapstructure:"max_required_sessions"`
	Timezone                string        `mapstructure:"timezone"`
	OverdueSweepInterval    time.Duration `mapstructure:"overdue_sweep_interval"`
}

// Location resolves the configured timezone, falling back to UTC.
func (c *TutoringConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// StorageConfig uploaded report documents
type StorageConfig struct {
	UploadDir   string `mapstructure:"upload_dir"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`
}

// ExportConfig institutional header printed on exported documents
type ExportConfig struct {
	Institution string `mapstructure:"institution"`
	Faculty     string `mapstructure:"faculty"`
	School      string `mapstructure:"school"`
	Title       string `mapstructure:"title"`
}

// Load reads configuration.
// Priority: environment > config file > defaults. A local .env file is loaded into
// the environment first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "sai_tutoria")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "America/Guayaquil")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "8h")
	v.SetDefault("auth.login_rate_limit", 10)

	v.SetDefault("mail.provider", "console")
	v.SetDefault("mail.from_name", "SAI Tutorías")
	v.SetDefault("mail.from_address", "no-reply@utb.edu.ec")
	v.SetDefault("mail.subject_prefix", "[SAI] ")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tutoring.risk_threshold", 7.0)
	v.SetDefault("tutoring.default_required_sessions", 3)
	v.SetDefault("tutoring.max_required_sessions", 10)
	v.SetDefault("tutoring.timezone", "America/Guayaquil")
	v.SetDefault("tutoring.overdue_sweep_interval", "1h")

	v.SetDefault("storage.upload_dir", "./uploads")
	v.SetDefault("storage.max_upload_mb", 10)

	v.SetDefault("export.institution", "UNIVERSIDAD TÉCNICA DE BABAHOYO")
	v.SetDefault("export.faculty", "FACULTAD DE ADMINISTRACIÓN, FINANZAS E INFORMÁTICA")
	v.SetDefault("export.school", "ESCUELA DE TECNOLOGÍAS DE LA INFORMACIÓN Y LA COMUNICACIÓN")
	v.SetDefault("export.title", "CRONOGRAMA PARA LA ENTREGA DE LOS ANEXOS DE TUTORÍAS ACADÉMICAS")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("SAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the service cannot run without
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret is required")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be within 1-65535")
	}
	if c.Tutoring.RiskThreshold <= 0 || c.Tutoring.RiskThreshold > 10 {
		return fmt.Errorf("config: tutoring.risk_threshold must be within (0, 10]")
	}
	if c.Tutoring.MaxRequiredSessions < 1 {
		return fmt.Errorf("config: tutoring.max_required_sessions must be at least 1")
	}
	if c.Tutoring.DefaultRequiredSessions < 1 || c.Tutoring.DefaultRequiredSessions > c.Tutoring.MaxRequiredSessions {
		return fmt.Errorf("config: tutoring.default_required_sessions must be within 1-%d", c.Tutoring.MaxRequiredSessions)
	}
	if _, err := time.LoadLocation(c.Tutoring.Timezone); err != nil {
		return fmt.Errorf("config: tutoring.timezone %q: %w", c.Tutoring.Timezone, err)
	}
	switch c.Mail.Provider {
	case "console":
	case "sendgrid":
		if c.Mail.SendgridAPIKey == "" {
			return fmt.Errorf("config: mail.sendgrid_api_key is required for the sendgrid provider")
		}
	default:
		return fmt.Errorf("config: unknown mail.provider %q", c.Mail.Provider)
	}
	return nil
}
