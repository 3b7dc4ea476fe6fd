// internal/telemetry/env.go
package telemetry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the relay's environment.
type Config struct {
	InfluxURL    string
	InfluxOrg    string
	InfluxBucket string
	InfluxToken  string

	TBHost  string
	TBPort  int
	TBToken string

	Interval time.Duration
	Window   time.Duration
}

const (
	DefaultTBPort   = 1883
	DefaultInterval = time.Second
	DefaultWindow   = 15 * time.Minute
)

// LoadEnv reads an optional .env file into the process environment, then
// builds the Config from it. Variables already set in the environment win.
// A missing file is not an error; an unreadable or malformed one is.
func LoadEnv(envPath string) (Config, bool, error) {
	loaded := false
	switch err := godotenv.Load(envPath); {
	case err == nil:
		loaded = true
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, false, fmt.Errorf("env file %s: %w", envPath, err)
	}
	c, err := FromEnv(os.Getenv)
	return c, loaded, err
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	c := Config{
		TBPort:   DefaultTBPort,
		Interval: DefaultInterval,
		Window:   DefaultWindow,
	}

	required := []struct {
		key string
		dst *string
	}{
		{"INFLUX_URL", &c.InfluxURL},
		{"INFLUX_ORG", &c.InfluxOrg},
		{"INFLUX_BUCKET", &c.InfluxBucket},
		{"INFLUX_TOKEN", &c.InfluxToken},
		{"TB_HOST", &c.TBHost},
		{"TB_TOKEN", &c.TBToken},
	}
	for _, r := range required {
		v := getenv(r.key)
		if v == "" {
			return Config{}, fmt.Errorf("telemetry: %s is required", r.key)
		}
		*r.dst = v
	}

	if v := getenv("TB_PORT"); v != "" {
		port, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return Config{}, fmt.Errorf("telemetry: TB_PORT: %w", err)
		}
		c.TBPort = int(port)
	}
	if v := getenv("PUSH_INTERVAL"); v != "" {
		secs, err := strconv.ParseUint(v, 10, 32)
		if err != nil || secs == 0 {
			return Config{}, fmt.Errorf("telemetry: PUSH_INTERVAL %q must be a positive number of seconds", v)
		}
		c.Interval = time.Duration(secs) * time.Second
	}
	if v := getenv("QUERY_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("telemetry: QUERY_WINDOW %q must be a positive duration", v)
		}
		c.Window = d
	}
	return c, nil
}
