package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FeeBand is the raw fee configuration for one currency: a flat component,
// a fractional percentage and a [min, max] clamp, all as decimal strings in
// that currency.
type FeeBand struct {
	Flat    string
	Percent string
	Min     string
	Max     string
}

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Refresh Token Config
	RefreshTokenExpiryDuration time.Duration
	RefreshTokenCookieName     string
	RefreshTokenCookiePath     string

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	// M-Pesa (Daraja) settings for the payment gateway.
	MpesaShortcode   string `mapstructure:"MPESA_SHORTCODE"`
	MpesaPasskey     string `mapstructure:"MPESA_PASSKEY"`
	MpesaCallbackURL string `mapstructure:"MPESA_CALLBACK_URL"`

	// Platform fee bands keyed by currency code.
	Fees map[string]FeeBand

	// PaymentExpiry is how long a pending payment request stays actionable.
	PaymentExpiry time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "pesabridge-backend")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_NAME", "rtid")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_PATH", "/api/v1/auth")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("MPESA_SHORTCODE", "174379")
	viper.SetDefault("MPESA_PASSKEY", "")
	viper.SetDefault("MPESA_CALLBACK_URL", "")
	viper.SetDefault("PAYMENT_EXPIRY_DURATION", "30m")

	// Fee band defaults per currency. Percent is a fraction, e.g. 0.01 is 1%.
	viper.SetDefault("FEE_KES_FLAT", "10")
	viper.SetDefault("FEE_KES_PERCENT", "0.01")
	viper.SetDefault("FEE_KES_MIN", "10")
	viper.SetDefault("FEE_KES_MAX", "1000")
	viper.SetDefault("FEE_USD_FLAT", "1")
	viper.SetDefault("FEE_USD_PERCENT", "0.01")
	viper.SetDefault("FEE_USD_MIN", "1")
	viper.SetDefault("FEE_USD_MAX", "100")
	viper.SetDefault("FEE_BTC_FLAT", "0.0001")
	viper.SetDefault("FEE_BTC_PERCENT", "0.005")
	viper.SetDefault("FEE_BTC_MIN", "0.0001")
	viper.SetDefault("FEE_BTC_MAX", "0.01")
	viper.SetDefault("FEE_USDT_FLAT", "1")
	viper.SetDefault("FEE_USDT_PERCENT", "0.005")
	viper.SetDefault("FEE_USDT_MIN", "1")
	viper.SetDefault("FEE_USDT_MAX", "250")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	refreshExpiryStr := viper.GetString("REFRESH_TOKEN_EXPIRY_DURATION")
	refreshExpiry, err := time.ParseDuration(refreshExpiryStr)
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
		log.Printf("Warning: Invalid value for REFRESH_TOKEN_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", refreshExpiryStr, refreshExpiry)
	}
	cfg.RefreshTokenExpiryDuration = refreshExpiry
	cfg.RefreshTokenCookieName = viper.GetString("REFRESH_TOKEN_COOKIE_NAME")
	cfg.RefreshTokenCookiePath = viper.GetString("REFRESH_TOKEN_COOKIE_PATH")

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}

	cfg.MpesaShortcode = viper.GetString("MPESA_SHORTCODE")
	cfg.MpesaPasskey = viper.GetString("MPESA_PASSKEY")
	cfg.MpesaCallbackURL = viper.GetString("MPESA_CALLBACK_URL")

	paymentExpiryStr := viper.GetString("PAYMENT_EXPIRY_DURATION")
	paymentExpiry, err := time.ParseDuration(paymentExpiryStr)
	if err != nil {
		paymentExpiry = 30 * time.Minute
		log.Printf("Warning: Invalid value for PAYMENT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", paymentExpiryStr, paymentExpiry)
	}
	cfg.PaymentExpiry = paymentExpiry

	cfg.Fees = make(map[string]FeeBand, 4)
	for _, code := range []string{"KES", "USD", "BTC", "USDT"} {
		cfg.Fees[code] = FeeBand{
			Flat:    viper.GetString("FEE_" + code + "_FLAT"),
			Percent: viper.GetString("FEE_" + code + "_PERCENT"),
			Min:     viper.GetString("FEE_" + code + "_MIN"),
			Max:     viper.GetString("FEE_" + code + "_MAX"),
		}
	}

	return cfg, nil
}
