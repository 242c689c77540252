package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/bvchub/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      session token validity, hours
//	-o int      OTP validity, minutes
//	-m string   required email domain (e.g., "bvc.edu")
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-r string   Redis address
//	-l string   log backend (slog | zap)
//
// os.Args is filtered to the flags above first, so -c / -env and unknown
// flags belonging to other layers do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		[]string{"-a", "-d", "-s", "-t", "-o", "-m", "-u", "-p", "-b", "-g", "-e", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionTTL := fs.Int("t", int(config.SessionTokenTTL.Hours()), "session token validity (in hours)")
	otpTTL := fs.Int("o", int(config.OTPTTL.Minutes()), "otp validity (in minutes)")

	fs.StringVar(&config.EmailDomain, "m", config.EmailDomain, "required email domain")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.LogBackend, "l", config.LogBackend, "log backend (slog|zap)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if h := time.Duration(*sessionTTL) * time.Hour; h != config.SessionTokenTTL.Truncate(time.Hour) {
		config.SessionTokenTTL = h
	}
	if m := time.Duration(*otpTTL) * time.Minute; m != config.OTPTTL.Truncate(time.Minute) {
		config.OTPTTL = m
	}
}
