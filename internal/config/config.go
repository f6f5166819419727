package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	AppPort         string
	AppEnv          string
	JWTSecret       string
	RedisAddr       string
	KafkaBrokers    string
	KafkaOrderTopic string
	StorageBaseURL  string
	StorageBucket   string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:          os.Getenv("DB_HOST"),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		DBPort:          os.Getenv("DB_PORT"),
		AppPort:         os.Getenv("APP_PORT"),
		AppEnv:          os.Getenv("APP_ENV"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		KafkaBrokers:    os.Getenv("KAFKA_BROKERS"),
		KafkaOrderTopic: os.Getenv("KAFKA_ORDER_TOPIC"),
		StorageBaseURL:  os.Getenv("STORAGE_BASE_URL"),
		StorageBucket:   os.Getenv("STORAGE_BUCKET"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}
