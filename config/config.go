package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	MinDepositAmount float64 // USD, minimum accepted deposit
	MinOrderQuantity int     // fallback when a service has no minimum of its own

	// Closed-ticket reply policy: admins may still reply to a closed
	// ticket when true; user replies to closed tickets are always rejected.
	TicketAdminReplyWhenClosed bool

	// Manual payment instructions shown to the user on deposit submission
	BTCAddress   string
	MpesaPaybill string
	MpesaAccount string

	CountsApiURL  string // live-counts provider, empty disables snapshots
	ReconcileCron string // schedule for the ledger reconciliation job

	AdminEmail string // account registered with this email gets the ADMIN role
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		MinDepositAmount: getEnvFloat("MIN_DEPOSIT_AMOUNT", 1.00),
		MinOrderQuantity: getEnvInt("MIN_ORDER_QUANTITY", 100),

		TicketAdminReplyWhenClosed: getEnvBool("TICKET_ADMIN_REPLY_WHEN_CLOSED", true),

		BTCAddress:   getEnv("BTC_ADDRESS", ""),
		MpesaPaybill: getEnv("MPESA_PAYBILL", ""),
		MpesaAccount: getEnv("MPESA_ACCOUNT", ""),

		CountsApiURL:  getEnv("COUNTS_API_URL", ""),
		ReconcileCron: getEnv("RECONCILE_CRON", "@hourly"),

		AdminEmail: getEnv("ADMIN_EMAIL", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvFloat retrieves an environment variable as a float or returns the default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Error converting environment variable %s to float: %v", key, err)
		return defaultValue
	}
	return floatValue
}

// getEnvBool retrieves an environment variable as a bool or returns the default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}
