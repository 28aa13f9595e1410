package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations,
// costs and limits.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	DBMaxConns     int    // bounded connection pool size
	JWTSecret      string // secret used to sign session tokens
	SessionTTLDays int    // session token and cookie lifetime in days
	BcryptCost     int    // bcrypt cost for password hashing
	UploadDir      string // directory holding uploaded video files
	AdminEmail     string // seeded administrator account email
	AdminPassword  string // seeded administrator account password
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Values with sane
// defaults (pool size, TTL, upload dir) fall back when unset.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),      // environment (dev/test/prod)
		Port:           must("APP_PORT"),     // port to bind the HTTP server
		DBUser:         must("DB_USER"),      // database user
		DBPass:         os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:         must("DB_HOST"),      // database host
		DBPort:         must("DB_PORT"),      // database port
		DBName:         must("DB_NAME"),      // database name
		DBMaxConns:     intOr("DB_MAX_CONNS", 5),
		JWTSecret:      must("JWT_SECRET"), // secret used for signing session tokens
		SessionTTLDays: intOr("SESSION_TTL_DAYS", 7),
		BcryptCost:     intOr("BCRYPT_COST", 10),
		UploadDir:      strOr("UPLOAD_DIR", "uploads"),
		AdminEmail:     strOr("ADMIN_EMAIL", "admin@uygunlik.uz"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"), // empty disables the admin seed
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// strOr returns the value of an optional environment variable or a default.
func strOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// intOr is like strOr but converts the retrieved string into an integer.
func intOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
