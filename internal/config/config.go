package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string   `yaml:"log-level" env-default:"info"`
	HTTPPort string   `yaml:"http-port" env-default:"9090"`
	Computer Computer `yaml:"computer"`
	Redis    Redis    `yaml:"redis"`
}

// Computer - pacing of the computer's reply.
type Computer struct {
	ThinkDelay time.Duration `yaml:"think-delay" env-default:"500ms"`
	PlaceDelay time.Duration `yaml:"place-delay" env-default:"700ms"`
}

// Redis - when enabled, game events are fanned out through redis pub/sub instead of in memory.
type Redis struct {
	Enabled bool   `yaml:"enabled" env-default:"false"`
	Host    string `yaml:"host" env-default:"localhost"`
	Port    string `yaml:"port" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" || that.Port == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
