package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For splitting the rate list

	"github.com/joho/godotenv" // For loading .env files
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Config holds the application configuration
type Config struct {
	AppPort         string            // Application port
	DBUser          string            // Database user
	DBPassword      string            // Database password
	DBHost          string            // Database host
	DBPort          string            // Database port
	DBName          string            // Database name
	JWTSecret       string            // JWT secret key
	RedisAddr       string            // Redis server address
	RedisPass       string            // Redis password
	RedisDB         int               // Redis database number
	IsProd          bool              // Is production environment
	CommissionRates []decimal.Decimal // Commission rate per sponsor level, level 1 first
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:         os.Getenv("APP_PORT"),                     // Application port
		DBUser:          os.Getenv("DB_USER"),                      // Database user
		DBPassword:      os.Getenv("DB_PASSWORD"),                  // Database password
		DBHost:          os.Getenv("DB_HOST"),                      // Database host
		DBPort:          os.Getenv("DB_PORT"),                      // Database port
		DBName:          os.Getenv("DB_NAME"),                      // Database name
		JWTSecret:       os.Getenv("JWT_SECRET"),                   // JWT secret key
		RedisAddr:       os.Getenv("REDIS_ADDR"),                   // Redis server address
		RedisPass:       os.Getenv("REDIS_PASS"),                   // Redis password
		RedisDB:         redisDB,                                   // Redis database number
		IsProd:          os.Getenv("IS_PROD") == "true",            // Is production environment
		CommissionRates: parseRates(os.Getenv("COMMISSION_RATES")), // e.g. "0.05,0.03,0.01"
	}
}

// parseRates parses the comma-separated commission rate list. The number of
// rates defines the maximum sponsor depth. Rates must sit in [0,1]; on any
// unparsable or out-of-range entry the whole list is discarded, so commission
// distribution is disabled rather than running with guessed values.
func parseRates(raw string) []decimal.Decimal {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	rates := make([]decimal.Decimal, 0, len(parts))
	for _, p := range parts {
		rate, err := decimal.NewFromString(strings.TrimSpace(p))
		if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			logrus.Warnf("ignoring commission rate config %q", raw)
			return nil
		}
		rates = append(rates, rate)
	}
	return rates
}
