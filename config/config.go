package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServicePort      string
	MetricsPort      string
	Environment      string
	PostgreSQLConfig PostgreSQLConfig
	JWTSecret        string
	StripeConfig     StripeConfig
	KafkaConfig      KafkaConfig
	ProofStorageHost string
	TracingConfig    TracingConfig
	Currency         string
	CardFeeBps       int64
}

type PostgreSQLConfig struct {
	DBHost     string
	DBName     string
	DBPort     string
	DBUsername string
	DBPassword string
}

type StripeConfig struct {
	SecretKey string
}

type KafkaConfig struct {
	BrokerAddress   string
	BrokerTopic     string
	BrokerPartition int
}

type TracingConfig struct {
	CollectorHost string
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	brokerPartition, _ := strconv.Atoi(os.Getenv("BROKER_PARTITION"))

	cardFeeBps, err := strconv.ParseInt(os.Getenv("CARD_FEE_BPS"), 10, 64)
	if err != nil || cardFeeBps <= 0 {
		cardFeeBps = 300
	}

	currency := os.Getenv("CURRENCY")
	if currency == "" {
		currency = "cad"
	}

	conf := Config{
		ServicePort: os.Getenv("SERVICE_PORT"),
		MetricsPort: os.Getenv("METRICS_PORT"),
		Environment: os.Getenv("ENVIRONMENT"),
		PostgreSQLConfig: PostgreSQLConfig{
			DBHost:     os.Getenv("DB_HOST"),
			DBName:     os.Getenv("DB_NAME"),
			DBPort:     os.Getenv("DB_PORT"),
			DBUsername: os.Getenv("DB_USERNAME"),
			DBPassword: os.Getenv("DB_PASSWORD"),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress:   os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:     os.Getenv("BROKER_TOPIC"),
			BrokerPartition: brokerPartition,
		},
		JWTSecret: os.Getenv("JWT_SECRET"),
		StripeConfig: StripeConfig{
			SecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		},
		ProofStorageHost: os.Getenv("PROOF_STORAGE_HOST"),
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
		Currency:   currency,
		CardFeeBps: cardFeeBps,
	}

	return &conf
}
