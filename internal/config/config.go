// internal/config/config.go
//
// Runtime configuration for the hosts.
// Sources, highest priority first:
//   1. Process environment.
//   2. A `.env` file in the working directory (godotenv; never overrides 1).
//   3. An optional YAML file named by CONFIG_FILE.
//   4. Built-in defaults.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is everything the hosts read at startup.
type Config struct {
	Port           string   `yaml:"port"`
	DBPath         string   `yaml:"db_path"`
	ClientOrigins  []string `yaml:"client_origins"`
	JWTSecret      string   `yaml:"jwt_secret"`
	JWTExpiresDays int      `yaml:"jwt_expires_days"`
	CookieName     string   `yaml:"cookie_name"`
	Production     bool     `yaml:"production"`
	DailySalt      string   `yaml:"daily_salt"`
	AnswersFile    string   `yaml:"words_answers_file"`
	AllowedFile    string   `yaml:"words_allowed_file"`
	KafkaBrokers   []string `yaml:"kafka_brokers"`
	LogLevel       string   `yaml:"log_level"`
	LogFormat      string   `yaml:"log_format"`
}

// Defaults returns the development configuration.
func Defaults() Config {
	return Config{
		Port:           "5175",
		DBPath:         "./data/app.db",
		ClientOrigins:  []string{"http://localhost:5173"},
		JWTSecret:      "dev_secret_change_me",
		JWTExpiresDays: 14,
		CookieName:     "wordle_token",
		DailySalt:      "local_dev_salt",
		LogLevel:       "info",
	}
}

// Load reads .env, the optional YAML file and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.mergeEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeFile overlays non-empty YAML values.
func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var fromFile Config
	if err := yaml.Unmarshal(b, &fromFile); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	setStr(&c.Port, fromFile.Port)
	setStr(&c.DBPath, fromFile.DBPath)
	setStr(&c.JWTSecret, fromFile.JWTSecret)
	setStr(&c.CookieName, fromFile.CookieName)
	setStr(&c.DailySalt, fromFile.DailySalt)
	setStr(&c.AnswersFile, fromFile.AnswersFile)
	setStr(&c.AllowedFile, fromFile.AllowedFile)
	setStr(&c.LogLevel, fromFile.LogLevel)
	setStr(&c.LogFormat, fromFile.LogFormat)
	if len(fromFile.ClientOrigins) > 0 {
		c.ClientOrigins = fromFile.ClientOrigins
	}
	if len(fromFile.KafkaBrokers) > 0 {
		c.KafkaBrokers = fromFile.KafkaBrokers
	}
	if fromFile.JWTExpiresDays > 0 {
		c.JWTExpiresDays = fromFile.JWTExpiresDays
	}
	if fromFile.Production {
		c.Production = true
	}
	return nil
}

// mergeEnv overlays set environment variables. getenv is os.Getenv outside tests.
func (c *Config) mergeEnv(getenv func(string) string) error {
	setStr(&c.Port, getenv("PORT"))
	setStr(&c.DBPath, getenv("DB_PATH"))
	setStr(&c.JWTSecret, getenv("JWT_SECRET"))
	setStr(&c.CookieName, getenv("COOKIE_NAME"))
	setStr(&c.DailySalt, getenv("DAILY_SALT"))
	setStr(&c.AnswersFile, getenv("WORDS_ANSWERS_FILE"))
	setStr(&c.AllowedFile, getenv("WORDS_ALLOWED_FILE"))
	setStr(&c.LogLevel, getenv("LOG_LEVEL"))
	setStr(&c.LogFormat, getenv("LOG_FORMAT"))
	if v := getenv("CLIENT_ORIGIN"); v != "" {
		c.ClientOrigins = splitList(v)
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.KafkaBrokers = splitList(v)
	}
	if v := getenv("JWT_EXPIRES_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("config: JWT_EXPIRES_DAYS=%q: want a positive integer", v)
		}
		c.JWTExpiresDays = n
	}
	if v := getenv("PRODUCTION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: PRODUCTION=%q: %w", v, err)
		}
		c.Production = b
	}
	return nil
}

func setStr(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// splitList parses "a, b,c" into ["a" "b" "c"].
func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
