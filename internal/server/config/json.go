package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/bvchub/internal/flagx"
	"github.com/dmitrijs2005/bvchub/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "5m" strings and integer nanoseconds are accepted.
// Absent keys leave the current value untouched.
type JsonConfig struct {
	HTTPAddr        *string         `json:"http_addr"`
	DatabaseDSN     *string         `json:"database_dsn"`
	SecretKey       *string         `json:"secret_key"`
	SessionTokenTTL *timex.Duration `json:"session_token_ttl"`
	OTPTTL          *timex.Duration `json:"otp_ttl"`
	EmailDomain     *string         `json:"email_domain"`
	BcryptCost      *int            `json:"bcrypt_cost"`

	S3RootUser     *string `json:"s3_root_user"`
	S3RootPassword *string `json:"s3_root_password"`
	S3Bucket       *string `json:"s3_bucket"`
	S3Region       *string `json:"s3_region"`
	S3BaseEndpoint *string `json:"s3_base_endpoint"`
	S3PublicURL    *string `json:"s3_public_url"`

	SMTPHost *string `json:"smtp_host"`
	SMTPPort *int    `json:"smtp_port"`
	SMTPUser *string `json:"smtp_user"`
	SMTPPass *string `json:"smtp_pass"`
	SMTPFrom *string `json:"smtp_from"`

	RedisAddr      *string         `json:"redis_addr"`
	RedisPassword  *string         `json:"redis_password"`
	RedisDB        *int            `json:"redis_db"`
	VerifyAttempts *int            `json:"verify_attempts"`
	VerifyWindow   *timex.Duration `json:"verify_window"`

	CORSAllowedOrigins []string `json:"cors_allowed_origins"`
	RateLimitRPM       *int     `json:"rate_limit_rpm"`
	LogBackend         *string  `json:"log_backend"`
}

// parseJson loads values from the file named by -c / -config. Without the
// flag nothing is loaded. Unreadable or malformed files panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setStr(&config.HTTPAddr, c.HTTPAddr)
	setStr(&config.DatabaseDSN, c.DatabaseDSN)
	setStr(&config.SecretKey, c.SecretKey)
	if c.SessionTokenTTL != nil {
		config.SessionTokenTTL = c.SessionTokenTTL.Duration
	}
	if c.OTPTTL != nil {
		config.OTPTTL = c.OTPTTL.Duration
	}
	setStr(&config.EmailDomain, c.EmailDomain)
	setInt(&config.BcryptCost, c.BcryptCost)

	setStr(&config.S3RootUser, c.S3RootUser)
	setStr(&config.S3RootPassword, c.S3RootPassword)
	setStr(&config.S3Bucket, c.S3Bucket)
	setStr(&config.S3Region, c.S3Region)
	setStr(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setStr(&config.S3PublicURL, c.S3PublicURL)

	setStr(&config.SMTPHost, c.SMTPHost)
	setInt(&config.SMTPPort, c.SMTPPort)
	setStr(&config.SMTPUser, c.SMTPUser)
	setStr(&config.SMTPPass, c.SMTPPass)
	setStr(&config.SMTPFrom, c.SMTPFrom)

	setStr(&config.RedisAddr, c.RedisAddr)
	setStr(&config.RedisPassword, c.RedisPassword)
	setInt(&config.RedisDB, c.RedisDB)
	setInt(&config.VerifyAttempts, c.VerifyAttempts)
	if c.VerifyWindow != nil {
		config.VerifyWindow = c.VerifyWindow.Duration
	}

	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	setInt(&config.RateLimitRPM, c.RateLimitRPM)
	setStr(&config.LogBackend, c.LogBackend)
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
