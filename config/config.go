package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Loyalty  LoyaltyConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Environment string
	Port        string
}

// LoyaltyConfig holds loyalty program settings: membership tier thresholds
// and the fixed bonuses paid by the earning flows.
type LoyaltyConfig struct {
	SilverAt      int
	GoldAt        int
	VisitPoints   int
	ReferralBonus int
	WelcomeBonus  int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist in production
		fmt.Println("No .env file found")
	}

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "savvy_loyalty"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
		},
		Loyalty: LoyaltyConfig{
			SilverAt:      getEnvInt("LOYALTY_SILVER_AT", 200),
			GoldAt:        getEnvInt("LOYALTY_GOLD_AT", 550),
			VisitPoints:   getEnvInt("LOYALTY_VISIT_POINTS", 5),
			ReferralBonus: getEnvInt("LOYALTY_REFERRAL_BONUS", 15),
			WelcomeBonus:  getEnvInt("LOYALTY_WELCOME_BONUS", 10),
		},
	}

	if config.Loyalty.SilverAt > config.Loyalty.GoldAt {
		return nil, fmt.Errorf("invalid tier thresholds: silver (%d) above gold (%d)",
			config.Loyalty.SilverAt, config.Loyalty.GoldAt)
	}

	return config, nil
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an integer environment variable with a fallback value
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
