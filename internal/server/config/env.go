package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/bvchub/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "HUB_"

// parseEnv overlays HUB_* environment variables onto config. Variables from
// a .env file (or the file named by -env) are loaded first without overriding
// the real environment. A missing default .env is not an error.
func parseEnv(config *Config) {
	envFile := flagx.EnvFile(os.Args[1:])
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	str(&config.HTTPAddr, "HTTP_ADDR")
	str(&config.DatabaseDSN, "DATABASE_DSN")
	str(&config.SecretKey, "SECRET_KEY")
	dur(&config.SessionTokenTTL, "SESSION_TOKEN_TTL")
	dur(&config.OTPTTL, "OTP_TTL")
	str(&config.EmailDomain, "EMAIL_DOMAIN")
	num(&config.BcryptCost, "BCRYPT_COST")

	str(&config.S3RootUser, "S3_ROOT_USER")
	str(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	str(&config.S3Bucket, "S3_BUCKET")
	str(&config.S3Region, "S3_REGION")
	str(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	str(&config.S3PublicURL, "S3_PUBLIC_URL")

	str(&config.SMTPHost, "SMTP_HOST")
	num(&config.SMTPPort, "SMTP_PORT")
	str(&config.SMTPUser, "SMTP_USER")
	str(&config.SMTPPass, "SMTP_PASS")
	str(&config.SMTPFrom, "SMTP_FROM")

	str(&config.RedisAddr, "REDIS_ADDR")
	str(&config.RedisPassword, "REDIS_PASSWORD")
	num(&config.RedisDB, "REDIS_DB")
	num(&config.VerifyAttempts, "VERIFY_ATTEMPTS")
	dur(&config.VerifyWindow, "VERIFY_WINDOW")

	if v, ok := os.LookupEnv(envPrefix + "CORS_ALLOWED_ORIGINS"); ok {
		config.CORSAllowedOrigins = splitList(v)
	}
	num(&config.RateLimitRPM, "RATE_LIMIT_RPM")
	str(&config.LogBackend, "LOG_BACKEND")
}

func str(dst *string, key string) {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		*dst = v
	}
}

func num(dst *int, key string) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		panic(err)
	}
	*dst = n
}

func dur(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		panic(err)
	}
	*dst = d
}

func splitList(v string) []string {
	result := []string{}
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			result = append(result, p)
		}
	}
	return result
}
