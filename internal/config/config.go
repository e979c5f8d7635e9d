package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

const (
	// AppPort is fixed; the listener is not configurable from the environment.
	AppPort = "3000"

	defaultDBPort         = "3306"
	defaultMaxConns       = 10
	defaultAcquireTimeout = 10 * time.Second
	defaultQueryTimeout   = 10 * time.Second
)

type Config struct {
	AppPort string `validate:"required"`

	DBHost string `env:"DB_HOST" validate:"required"`
	DBPort string `env:"DB_PORT" validate:"required"`
	DBName string `env:"DB_NAME" validate:"required"`
	DBUser string `env:"DB_USER" validate:"required"`
	DBPass string `env:"DB_PASSWORD" validate:"required"`

	MaxConns        int           `validate:"gte=1"`
	AcquireTimeout  time.Duration `validate:"gt=0"`
	QueryTimeout    time.Duration `validate:"gt=0"`
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// Load reads .env from the working directory when present, then the
// process environment. Variables already set in the environment win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: ignoring .env: %v", err)
	}
	return &Config{
		AppPort: AppPort,

		DBHost: os.Getenv("DB_HOST"),
		DBPort: getenv("DB_PORT", defaultDBPort),
		DBName: os.Getenv("DB_NAME"),
		DBUser: os.Getenv("DB_USER"),
		DBPass: os.Getenv("DB_PASSWORD"),

		MaxConns:        defaultMaxConns,
		AcquireTimeout:  defaultAcquireTimeout,
		QueryTimeout:    defaultQueryTimeout,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by the env var that feeds them
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// Validate reports every missing required variable in one error.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		missing := make([]string, 0, len(ve))
		for _, fe := range ve {
			switch fe.Tag() {
			case "required":
				missing = append(missing, fe.Field())
			default:
				return fmt.Errorf("invalid %s: %s %s", fe.Field(), fe.Tag(), fe.Param())
			}
		}
		return fmt.Errorf("missing database config (%s)", strings.Join(missing, ", "))
	}
	if _, err := net.LookupPort("tcp", c.DBPort); err != nil {
		return fmt.Errorf("invalid DB_PORT %q: %w", c.DBPort, err)
	}
	return nil
}

func (c *Config) dbAddr() string { return net.JoinHostPort(c.DBHost, c.DBPort) }

// DSN builds a go-sql-driver DSN. parseTime is needed for TIMESTAMP columns
// to come back as time.Time.
func (c *Config) DSN() string {
	mc := mysql.NewConfig()
	mc.User = c.DBUser
	mc.Passwd = c.DBPass
	mc.Net = "tcp"
	mc.Addr = c.dbAddr()
	mc.DBName = c.DBName
	mc.ParseTime = true
	mc.Timeout = c.AcquireTimeout
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}
