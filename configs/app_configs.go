package configs

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env             string
	HTTPAddr        string
	GRPCAddr        string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	JWTSecret       string
	TokenTTL        time.Duration
	CORSOrigins     string
	ConsulAddress   string
	LoginRateLimit  int64
	LoginRateWindow time.Duration
}

// ClientConfig is what the note commands need to talk to a running server.
type ClientConfig struct {
	ServerURL string
	TokenFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "local")
	v.SetDefault("http_addr", ":4000")
	v.SetDefault("grpc_addr", ":50051")
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_database", "notes")
	v.SetDefault("redis_addr", "")
	v.SetDefault("token_ttl", "168h")
	v.SetDefault("cors_origins", "http://localhost:3000")
	v.SetDefault("consul_address", "")
	v.SetDefault("login_rate_limit", 10)
	v.SetDefault("login_rate_window", "15m")
	v.SetDefault("notes_server", "http://localhost:4000")
	v.SetDefault("notes_token_file", "")
}

// NewViper returns a viper instance reading the process environment, after
// loading a .env file from the working directory when one exists.
func NewViper() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Env:             v.GetString("app_env"),
		HTTPAddr:        v.GetString("http_addr"),
		GRPCAddr:        v.GetString("grpc_addr"),
		MongoURI:        v.GetString("mongo_uri"),
		MongoDatabase:   v.GetString("mongo_database"),
		RedisAddr:       v.GetString("redis_addr"),
		JWTSecret:       v.GetString("jwt_secret"),
		TokenTTL:        v.GetDuration("token_ttl"),
		CORSOrigins:     v.GetString("cors_origins"),
		ConsulAddress:   v.GetString("consul_address"),
		LoginRateLimit:  v.GetInt64("login_rate_limit"),
		LoginRateWindow: v.GetDuration("login_rate_window"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, errors.New("invalid TOKEN_TTL")
	}
	if cfg.LoginRateLimit > 0 && cfg.LoginRateWindow <= 0 {
		return Config{}, errors.New("invalid LOGIN_RATE_WINDOW")
	}
	return cfg, nil
}

func LoadClient(v *viper.Viper) (ClientConfig, error) {
	cfg := ClientConfig{
		ServerURL: v.GetString("notes_server"),
		TokenFile: v.GetString("notes_token_file"),
	}
	if cfg.ServerURL == "" {
		return ClientConfig{}, errors.New("NOTES_SERVER is required")
	}
	return cfg, nil
}
