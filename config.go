package main

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from environment
// variables, an optional .env file and an optional config file.
type Config struct {
	Port      int
	Env       string
	Pepper    string
	JWTSecret string
	CSRFKey   string
	Database  PostgresConfig
	Storage   StorageConfig
}

// IsProd reports whether we're running in production.
func (c Config) IsProd() bool {
	return c.Env == "production"
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// ConnectionInfo builds the connection string for the Postgres driver.
func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

type StorageConfig struct {
	Bucket    string
	KeyPrefix string
	Region    string
	Endpoint  string
}

// BaseURL is the public URL under which the bucket's objects are reachable.
// A custom endpoint (minio and friends) serves buckets path-style.
func (sc StorageConfig) BaseURL() string {
	if sc.Endpoint != "" {
		return strings.TrimSuffix(sc.Endpoint, "/") + "/" + sc.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", sc.Bucket, sc.Region)
}

// LoadConfig reads configuration from environment variables and optional
// config files. Defaults cover the local dev setup; production deployments
// are expected to set everything explicitly.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CHIRPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", 8000)
	v.SetDefault("env", "dev")
	v.SetDefault("pepper", "secret-random-string")
	v.SetDefault("jwtsecret", "secret-jwt-key")
	v.SetDefault("csrfkey", "32-byte-long-auth-key-for-csrf!!")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "chirper")
	v.SetDefault("storage.bucket", "chirper-assets")
	v.SetDefault("storage.keyprefix", "uploads")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}
