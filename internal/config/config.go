// Package config parses command line flags and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
)

// ErrNoToken is returned when no bot token source is set.
var ErrNoToken = errors.New("telegram bot token not found: neither docker secret nor environment variable is set")

// secretPath is the docker secret holding the bot token.
var secretPath = "/run/secrets/telegram_bot_token"

type Config struct {
	DB        string `help:"SQLite database path." default:"data/bot.db" env:"DB_PATH" type:"path"`
	LogDir    string `help:"Directory for rotated log files, empty for stderr only." default:"logs" env:"LOG_DIR"`
	LogLevel  string `help:"Log level: debug, info, warn, error." default:"info" env:"LOG_LEVEL"`
	Debug     bool   `help:"Debug logging with caller info." env:"DEBUG"`
	TZ        string `help:"IANA time zone that defines the calendar day." default:"Europe/Moscow" env:"BOT_TZ"`
	AdminAddr string `help:"Listen address of the admin API, empty disables it." default:"127.0.0.1:8081" env:"ADMIN_ADDR"`

	WaterEvery      time.Duration `help:"Interval of the water check." default:"2h" env:"WATER_REMINDER_EVERY"`
	MotivationEvery time.Duration `help:"Interval of motivation messages." default:"4h" env:"MOTIVATION_EVERY"`
	WaterThreshold  int           `help:"Water (ml) below which a reminder is sent." default:"200" env:"WATER_REMINDER_THRESHOLD"`
	SendRate        int           `help:"Outbound Telegram messages per second." default:"25" env:"TELEGRAM_SEND_RATE"`

	Token string `kong:"-"`
}

// Parse reads args (without the program name) and the environment.
func Parse(args []string, options ...kong.Option) (*Config, error) {
	var cfg Config
	options = append([]kong.Option{
		kong.Name("selfrealization-bot"),
		kong.Description("Telegram bot tracking calories, water, activity, weight and notes."),
		kong.UsageOnError(),
	}, options...)

	parser, err := kong.New(&cfg, options...)
	if err != nil {
		return nil, err
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}
	if cfg.WaterThreshold <= 0 || cfg.SendRate <= 0 {
		return nil, fmt.Errorf("water threshold and send rate must be positive")
	}
	return &cfg, nil
}

// Location resolves TZ.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TZ)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", c.TZ, err)
	}
	return loc, nil
}

// LoadToken fills Token from the docker secret, TELEGRAM_BOT_TOKEN or
// BOT_TOKEN, in that order.
func (c *Config) LoadToken() error {
	c.Token = getBotToken()
	if c.Token == "" {
		return ErrNoToken
	}
	return nil
}

func getBotToken() string {
	if data, err := os.ReadFile(secretPath); err == nil {
		token := strings.TrimSpace(string(data))
		if token != "" {
			return token
		}
	}
	for _, key := range []string{"TELEGRAM_BOT_TOKEN", "BOT_TOKEN"} {
		if token := strings.TrimSpace(os.Getenv(key)); token != "" {
			return token
		}
	}
	return ""
}
