package config

import "os"

type YieldServiceConfig struct {
	Port         string
	ComputeToken string
	ComputeMode  string
	PostgresCfg  PostgresConfig
	RedisCfg     RedisConfig
	MinioCfg     MinioConfig
	RabbitMQCfg  RabbitMQConfig
	ComputeCfg   ComputeConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MinioConfig struct {
	MinioURL         string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioLocation    string
	MinioSecure      string
	MinioResourceURL string
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

// ComputeConfig describes the external compute collaborator. TimeoutSeconds
// bounds the hand-off request; CallbackBaseURL is the address the collaborator
// posts results back to.
type ComputeConfig struct {
	BaseURL         string
	CallbackBaseURL string
	TimeoutSeconds  string
}

func New() *YieldServiceConfig {
	return &YieldServiceConfig{
		Port:         getEnvOrDefault("PORT", "8084"),
		ComputeToken: getEnvOrDefault("COMPUTE_TOKEN", ""),
		ComputeMode:  getEnvOrDefault("COMPUTE_MODE", "remote"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "yield_service"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		MinioCfg: MinioConfig{
			MinioURL:         getEnvOrDefault("MINIO_ENDPOINT", "http://localhost:9000"),
			MinioAccessKey:   getEnvOrDefault("MINIO_ACCESS_KEY", "minio"),
			MinioSecretKey:   getEnvOrDefault("MINIO_SECRET_KEY", "minio123"),
			MinioLocation:    getEnvOrDefault("MINIO_LOCATION", "us-east-1"),
			MinioSecure:      getEnvOrDefault("MINIO_SECURE", "false"),
			MinioResourceURL: getEnvOrDefault("MINIO_RESOURCE_URL", "http://localhost:9000/"),
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		ComputeCfg: ComputeConfig{
			BaseURL:         getEnvOrDefault("COMPUTE_SERVICE_URL", "http://localhost:8090"),
			CallbackBaseURL: getEnvOrDefault("COMPUTE_CALLBACK_BASE_URL", "http://localhost:8084"),
			TimeoutSeconds:  getEnvOrDefault("COMPUTE_TIMEOUT_SECONDS", "10"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
