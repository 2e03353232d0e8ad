package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, service window, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Schedule ScheduleConfig
	Jobs     JobsConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// ScheduleConfig describes the office's civil calendar: the timezone all
// day/slot math is done in, the daily service window, and the slot grid
// defaults applied when a procedure has no duration of its own.
type ScheduleConfig struct {
	TimeZone           string `envconfig:"SCHEDULE_TIMEZONE" default:"America/Bogota"`
	WindowStart        string `envconfig:"SCHEDULE_WINDOW_START" default:"08:00"`
	WindowEnd          string `envconfig:"SCHEDULE_WINDOW_END" default:"16:00"`
	DefaultSlotMinutes int    `envconfig:"SCHEDULE_DEFAULT_SLOT_MINUTES" default:"15"`
}

type JobsConfig struct {
	ReaperSpec           string `envconfig:"JOBS_REAPER_SPEC" default:"*/5 * * * *"`
	ReaperToleranceMin   int    `envconfig:"JOBS_REAPER_TOLERANCE_MINUTES" default:"30"`
	ReaperBatchSize      int    `envconfig:"JOBS_REAPER_BATCH_SIZE" default:"200"`
	CloseDaySpec         string `envconfig:"JOBS_CLOSE_DAY_SPEC" default:"0 20 * * *"`
	CounterResetSpec     string `envconfig:"JOBS_COUNTER_RESET_SPEC" default:"0 21 * * *"`
	NotificationSpec     string `envconfig:"JOBS_NOTIFICATION_SPEC" default:"* * * * *"`
	NotificationBatch    int    `envconfig:"JOBS_NOTIFICATION_BATCH" default:"50"`
	CloseDayActor        string `envconfig:"JOBS_CLOSE_DAY_ACTOR" default:"scheduler"`
	CloseDayReason       string `envconfig:"JOBS_CLOSE_DAY_REASON" default:"end_of_day"`
	DisableScheduledJobs bool   `envconfig:"JOBS_DISABLED" default:"false"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Schedule: ScheduleConfig{
			TimeZone:           "America/Bogota",
			WindowStart:        "08:00",
			WindowEnd:          "16:00",
			DefaultSlotMinutes: 15,
		},
		Jobs: JobsConfig{
			ReaperSpec:         "*/5 * * * *",
			ReaperToleranceMin: 30,
			ReaperBatchSize:    200,
			CloseDaySpec:       "0 20 * * *",
			CounterResetSpec:   "0 21 * * *",
			NotificationSpec:   "* * * * *",
			NotificationBatch:  50,
			CloseDayActor:      "scheduler",
			CloseDayReason:     "end_of_day",
		},
	}
}
