package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envRedisAddr             = "REDIS_ADDR"
	envRedisPassword         = "REDIS_PASSWORD"
	envRedisDB               = "REDIS_DB"
	envAWSRegion             = "REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envS3Bucket              = "S3_BUCKET"
	envS3PublicBaseURL       = "S3_PUBLIC_BASE_URL"
	envJWTSecret             = "JWT_SECRET"
	envBuyerTokenTTL         = "BUYER_TOKEN_TTL"
	envStaffTokenTTL         = "STAFF_TOKEN_TTL"
	envPasswordCost          = "PASSWORD_HASH_COST"
	envMaxImageBytes         = "MAX_IMAGE_BYTES"
	envMaxImagesPerUpload    = "MAX_IMAGES_PER_UPLOAD"
	envImageUploadWorkers    = "IMAGE_UPLOAD_WORKERS"
	envBootstrapOwnerEmail   = "BOOTSTRAP_OWNER_EMAIL"
	envBootstrapOwnerName    = "BOOTSTRAP_OWNER_NAME"
	envBootstrapOwnerSecret  = "BOOTSTRAP_OWNER_SECRET"
)

const (
	defaultServerPort          = "8080"
	defaultServerReadTimeout   = 10 * time.Second
	defaultServerWriteTimeout  = 30 * time.Second
	defaultServerShutdown      = 10 * time.Second
	defaultDBHost              = "localhost"
	defaultDBPort              = 5432
	defaultDBName              = "storefront"
	defaultDBUser              = "storefront_app"
	defaultDBSSLMode           = "disable"
	defaultDBMaxConns          = 25
	defaultDBMinConns          = 5
	defaultRedisDB             = 0
	defaultBuyerTokenTTL       = 72 * time.Hour
	defaultStaffTokenTTL       = 1 * time.Hour
	defaultPasswordCost        = 12
	defaultMaxImageBytes       = int64(5 * 1024 * 1024)
	defaultMaxImagesPerUpload  = 8
	defaultImageUploadWorkers  = 4
	defaultBootstrapOwnerName  = "Owner"
	minJWTSecretLength         = 32
	minUniqueCharsInSecret     = 16
	minRepeatedCharThreshold   = 4
	maxRepeatedChars           = 2
	errPortRequiredFmt         = "PORT must be set"
	errJWTSecretMinLengthFmt   = "JWT_SECRET must be at least %d characters"
	errJWTSecretLowEntropyFmt  = "JWT_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errTokenTTLPositiveFmt     = "%s must be positive"
	errStaffTTLTooLongFmt      = "STAFF_TOKEN_TTL (%s) must be shorter than BUYER_TOKEN_TTL (%s)"
	errPositiveIntFmt          = "%s must be greater than zero"
	errBootstrapIncompleteFmt  = "BOOTSTRAP_OWNER_EMAIL and BOOTSTRAP_OWNER_SECRET must be set together"
	errInvalidConfigurationFmt = "invalid configuration: %w"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	AWS       AWSConfig
	JWT       JWTConfig
	App       AppConfig
	Bootstrap BootstrapConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig is optional. An empty Addr keeps token revocation in process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

type JWTConfig struct {
	Secret   string
	BuyerTTL time.Duration
	StaffTTL time.Duration
}

type AppConfig struct {
	PasswordCost       int
	MaxImageBytes      int64
	MaxImagesPerUpload int
	ImageUploadWorkers int
}

// BootstrapConfig seeds the first owner account on an empty staff table.
type BootstrapConfig struct {
	OwnerEmail  string
	OwnerName   string
	OwnerSecret string
}

// Enabled reports whether an owner should be seeded at startup.
func (b BootstrapConfig) Enabled() bool {
	return b.OwnerEmail != "" && b.OwnerSecret != ""
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Database: DatabaseConfig{
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: os.Getenv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv(envRedisAddr),
			Password: os.Getenv(envRedisPassword),
			DB:       getIntEnv(envRedisDB, defaultRedisDB),
		},
		AWS: AWSConfig{
			Region:          os.Getenv(envAWSRegion),
			AccessKeyID:     os.Getenv(envAWSAccessKeyID),
			SecretAccessKey: os.Getenv(envAWSSecretAccessKey),
			Bucket:          os.Getenv(envS3Bucket),
			PublicBaseURL:   os.Getenv(envS3PublicBaseURL),
		},
		JWT: JWTConfig{
			Secret:   os.Getenv(envJWTSecret),
			BuyerTTL: getDurationEnv(envBuyerTokenTTL, defaultBuyerTokenTTL),
			StaffTTL: getDurationEnv(envStaffTokenTTL, defaultStaffTokenTTL),
		},
		App: AppConfig{
			PasswordCost:       getIntEnv(envPasswordCost, defaultPasswordCost),
			MaxImageBytes:      getInt64Env(envMaxImageBytes, defaultMaxImageBytes),
			MaxImagesPerUpload: getIntEnv(envMaxImagesPerUpload, defaultMaxImagesPerUpload),
			ImageUploadWorkers: getIntEnv(envImageUploadWorkers, defaultImageUploadWorkers),
		},
		Bootstrap: BootstrapConfig{
			OwnerEmail:  os.Getenv(envBootstrapOwnerEmail),
			OwnerName:   getEnv(envBootstrapOwnerName, defaultBootstrapOwnerName),
			OwnerSecret: os.Getenv(envBootstrapOwnerSecret),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New(errPortRequiredFmt)
	}

	required := []struct {
		key   string
		value string
	}{
		{envDBPassword, c.Database.Password},
		{envAWSRegion, c.AWS.Region},
		{envAWSAccessKeyID, c.AWS.AccessKeyID},
		{envAWSSecretAccessKey, c.AWS.SecretAccessKey},
		{envS3Bucket, c.AWS.Bucket},
		{envJWTSecret, c.JWT.Secret},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s", messages.requiredEnvNotSet(r.key))
		}
	}

	if len(c.JWT.Secret) < minJWTSecretLength {
		return fmt.Errorf(errJWTSecretMinLengthFmt, minJWTSecretLength)
	}

	if !hasMinimumEntropy(c.JWT.Secret) {
		return errors.New(errJWTSecretLowEntropyFmt)
	}

	if c.JWT.BuyerTTL <= 0 {
		return fmt.Errorf(errTokenTTLPositiveFmt, envBuyerTokenTTL)
	}
	if c.JWT.StaffTTL <= 0 {
		return fmt.Errorf(errTokenTTLPositiveFmt, envStaffTokenTTL)
	}
	if c.JWT.StaffTTL >= c.JWT.BuyerTTL {
		return fmt.Errorf(errStaffTTLTooLongFmt, c.JWT.StaffTTL, c.JWT.BuyerTTL)
	}

	positives := []struct {
		key   string
		value int64
	}{
		{envMaxImageBytes, c.App.MaxImageBytes},
		{envMaxImagesPerUpload, int64(c.App.MaxImagesPerUpload)},
		{envImageUploadWorkers, int64(c.App.ImageUploadWorkers)},
	}
	for _, p := range positives {
		if p.value <= 0 {
			return fmt.Errorf(errPositiveIntFmt, p.key)
		}
	}

	if (c.Bootstrap.OwnerEmail == "") != (c.Bootstrap.OwnerSecret == "") {
		return errors.New(errBootstrapIncompleteFmt)
	}

	return nil
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minJWTSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	uniqueChars := len(charCounts)
	if uniqueChars < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
