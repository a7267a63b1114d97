package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"appointment-booking-server/internal/service"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	LogLevel             string
	JWTSecret            string
	JWTExpirationMinutes int
	Database             DatabaseConfig
	Simulation           service.Config
	SimulationSeed       uint64
	Jobs                 JobsConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Enabled  bool
	Driver   string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// JobsConfig holds background job settings
type JobsConfig struct {
	CountdownRefresh time.Duration
	JoinWindow       time.Duration
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	p := &parser{}

	// Load database configuration
	driver := getEnv("DB_DRIVER", "mysql")
	defaultPort := "3306"
	if driver == "postgres" {
		defaultPort = "5432"
	}
	dbConfig := DatabaseConfig{
		Enabled:  p.getBool("DB_ENABLED", false),
		Driver:   driver,
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", defaultPort),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "medibook"),
	}

	// Build DSN (Data Source Name) for the selected driver
	switch driver {
	case "mysql":
		dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)
	case "postgres":
		dbConfig.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			dbConfig.Host, dbConfig.Username, dbConfig.Password, dbConfig.Name, dbConfig.Port)
	default:
		p.fail("DB_DRIVER", fmt.Errorf("unsupported driver %q", driver))
	}

	// Simulated backend: delays in milliseconds, rates in [0,1]
	defaults := service.DefaultConfig()
	sim := service.Config{
		BookDelay:             p.getMillis("SIM_BOOK_DELAY_MS", defaults.BookDelay),
		RescheduleDelay:       p.getMillis("SIM_RESCHEDULE_DELAY_MS", defaults.RescheduleDelay),
		CancelDelay:           p.getMillis("SIM_CANCEL_DELAY_MS", defaults.CancelDelay),
		RefundDelay:           p.getMillis("SIM_REFUND_DELAY_MS", defaults.RefundDelay),
		SlotsDelay:            p.getMillis("SIM_SLOTS_DELAY_MS", defaults.SlotsDelay),
		BookFailureRate:       p.getRate("SIM_BOOK_FAILURE_RATE", defaults.BookFailureRate),
		RescheduleFailureRate: p.getRate("SIM_RESCHEDULE_FAILURE_RATE", defaults.RescheduleFailureRate),
		CancelFailureRate:     p.getRate("SIM_CANCEL_FAILURE_RATE", defaults.CancelFailureRate),
		SlotAvailability:      p.getRate("SIM_SLOT_AVAILABILITY", defaults.SlotAvailability),
		DefaultFee:            p.getFloat("SIM_DEFAULT_FEE", defaults.DefaultFee),
		DefaultDuration:       p.getInt("SIM_DEFAULT_DURATION_MINUTES", defaults.DefaultDuration),
	}

	jobs := JobsConfig{
		CountdownRefresh: time.Duration(p.getInt("COUNTDOWN_REFRESH_MINUTES", 1)) * time.Minute,
		JoinWindow:       time.Duration(p.getInt("JOIN_WINDOW_MINUTES", 10)) * time.Minute,
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "3001"),
		Origin:               getEnv("ORIGIN", "http://localhost:8081"),
		Environment:          getEnv("APP_ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		JWTSecret:            getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTExpirationMinutes: p.getInt("JWT_EXPIRATION_MINUTES", 60),
		Database:             dbConfig,
		Simulation:           sim,
		SimulationSeed:       p.getUint("SIM_SEED", 0),
		Jobs:                 jobs,
	}
	if p.err != nil {
		return nil, p.err
	}
	if cfg.Jobs.CountdownRefresh <= 0 {
		return nil, fmt.Errorf("invalid COUNTDOWN_REFRESH_MINUTES: must be positive")
	}
	return cfg, nil
}

// parser reads typed variables and remembers the first failure.
type parser struct {
	err error
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
}

func (p *parser) getInt(key string, def int) int {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(def)))
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *parser) getUint(key string, def uint64) uint64 {
	v, err := strconv.ParseUint(getEnv(key, strconv.FormatUint(def, 10)), 10, 64)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *parser) getFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, strconv.FormatFloat(def, 'f', -1, 64)), 64)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *parser) getRate(key string, def float64) float64 {
	v := p.getFloat(key, def)
	if v < 0 || v > 1 {
		p.fail(key, fmt.Errorf("%v is outside [0,1]", v))
		return def
	}
	return v
}

func (p *parser) getMillis(key string, def time.Duration) time.Duration {
	ms := p.getInt(key, int(def/time.Millisecond))
	if ms < 0 {
		p.fail(key, fmt.Errorf("%d is negative", ms))
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func (p *parser) getBool(key string, def bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(def)))
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
