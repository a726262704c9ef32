package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Identity   IdentityConfig   `mapstructure:"identity"`
	Payment    PaymentConfig    `mapstructure:"payment"`
	Generation GenerationConfig `mapstructure:"generation"`
	OSS        OSSConfig        `mapstructure:"oss"`
	Email      EmailConfig      `mapstructure:"email"`
	Queue      QueueConfig      `mapstructure:"queue"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Plans      map[string]Plan  `mapstructure:"plans"`
	Consent    ConsentConfig    `mapstructure:"consent"`
	Upload     UploadConfig     `mapstructure:"upload"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// IdentityConfig configures the hosted identity provider (OAuth2 code flow).
type IdentityConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	AuthURL      string   `mapstructure:"auth_url"`
	TokenURL     string   `mapstructure:"token_url"`
	UserInfoURL  string   `mapstructure:"userinfo_url"`
	RedirectURI  string   `mapstructure:"redirect_uri"`
	AdminEmails  []string `mapstructure:"admin_emails"`
}

type PaymentConfig struct {
	Stripe       StripeConfig       `mapstructure:"stripe"`
	LemonSqueezy LemonSqueezyConfig `mapstructure:"lemonsqueezy"`
	SuccessURL   string             `mapstructure:"success_url"`
	CancelURL    string             `mapstructure:"cancel_url"`
}

type StripeConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	BaseURL       string `mapstructure:"base_url"`
}

type LemonSqueezyConfig struct {
	APIKey        string `mapstructure:"api_key"`
	StoreID       string `mapstructure:"store_id"`
	SigningSecret string `mapstructure:"signing_secret"`
	BaseURL       string `mapstructure:"base_url"`
}

// GenerationConfig configures the external image-generation provider.
type GenerationConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	PollSeconds    int    `mapstructure:"poll_seconds"`
	MaxPolls       int    `mapstructure:"max_polls"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
	CDNDomain       string `mapstructure:"cdn_domain"`
}

type EmailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type QueueConfig struct {
	RenderQueue string `mapstructure:"render_queue"`
	MaxWorkers  int    `mapstructure:"max_workers"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// Plan is a subscription tier. Keyed by plan id in Config.Plans. The
// provider ids map our plan to the Stripe price / Lemon Squeezy variant
// selling it.
type Plan struct {
	Name                  string  `mapstructure:"name"`
	Price                 float64 `mapstructure:"price"`
	MonthlyCredits        int     `mapstructure:"monthly_credits"`
	Premium               bool    `mapstructure:"premium"`
	StripePriceID         string  `mapstructure:"stripe_price_id"`
	LemonSqueezyVariantID string  `mapstructure:"lemonsqueezy_variant_id"`
}

type ConsentConfig struct {
	ExpireDays int `mapstructure:"expire_days"` // 0 = requests never expire
}

type UploadConfig struct {
	MaxSize           int64    `mapstructure:"max_size"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

func Load(configPath string) (*Config, error) {
	// config.local.yaml holds real keys and is not committed; prefer it when present
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FreePlan returns the free tier, falling back to a zero-credit plan when the
// config omits it.
func (c *Config) FreePlan() Plan {
	if p, ok := c.Plans["free"]; ok {
		return p
	}
	return Plan{Name: "Free"}
}
