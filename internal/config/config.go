package config // package config loads application configuration from environment variables

import (
    "log"
    "os"
    "strconv"
    "time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Timezone and TimeOffsetHours feed the clock
// source: every hour comparison in the booking engine happens in the service
// timezone, shifted by the offset on staging installs.
type Config struct {
    Env             string         // application environment (e.g. "dev", "prod")
    Port            string         // HTTP port to listen on
    DBUser          string         // database username
    DBPass          string         // database password (optional)
    DBHost          string         // database host address
    DBPort          string         // database port number
    DBName          string         // database name
    JWTSecret       string         // secret used to sign JWTs
    AccessTTLMin    int            // access token time-to-live in minutes
    RefreshTTLDays  int            // refresh token time-to-live in days
    BcryptCost      int            // bcrypt cost for password hashing
    Timezone        *time.Location // service timezone for the daily slot grid
    TimeOffsetHours int            // staging-only whole-hour clock shift
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:             must("APP_ENV"),
        Port:            must("APP_PORT"),
        DBUser:          must("DB_USER"),
        DBPass:          os.Getenv("DB_PASS"), // empty allowed
        DBHost:          must("DB_HOST"),
        DBPort:          must("DB_PORT"),
        DBName:          must("DB_NAME"),
        JWTSecret:       must("JWT_SECRET"),
        AccessTTLMin:    mustInt("ACCESS_TOKEN_TTL_MIN"),
        RefreshTTLDays:  mustInt("REFRESH_TOKEN_TTL_DAYS"),
        BcryptCost:      mustInt("BCRYPT_COST"),
        Timezone:        location("TIMEZONE", "Asia/Seoul"),
        TimeOffsetHours: optInt("DEV_TIME_OFFSET", 0),
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

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// optInt reads an optional integer, falling back to def when unset and
// exiting on malformed values.
func optInt(key string, def int) int {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// location loads a timezone by env var, with a default.  An unknown zone is
// a deployment mistake worth failing fast on.
func location(key, def string) *time.Location {
    name := os.Getenv(key)
    if name == "" {
        name = def
    }
    loc, err := time.LoadLocation(name)
    if err != nil {
        log.Fatalf("invalid timezone for %s: %q", key, name)
    }
    return loc
}
