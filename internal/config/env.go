package config

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/IllumiKnowLabs/execgate/internal/security"
	"github.com/IllumiKnowLabs/execgate/pkg/constants"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const dotenvPath = ".env"

type Config struct {
	EndpointURL     string        `env:"EG_ENDPOINT_URL,notEmpty"`
	Region          string        `env:"AWS_REGION,notEmpty"`
	RoleARN         string        `env:"EG_ROLE_ARN,notEmpty"`
	SolutionName    string        `env:"EG_SOLUTION_NAME" envDefault:"execgate"`
	SolutionVersion string        `env:"EG_SOLUTION_VERSION" envDefault:"0.0.0"`
	HTTPTimeout     time.Duration `env:"EG_HTTP_TIMEOUT" envDefault:"30s"`
}

func Load() (Config, error) {
	if err := godotenv.Load(dotenvPath); err != nil {
		slog.Debug("No .env file found, skipping...")
	} else {
		slog.Debug("Loaded .env file", "path", dotenvPath)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("could not parse environment: %w", err)
	}

	t := reflect.TypeOf(cfg)
	v := reflect.ValueOf(cfg)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		value := v.Field(i)

		env_var_name, _, _ := strings.Cut(field.Tag.Get("env"), ",")
		env_var_value := fmt.Sprintf("%v", value)

		if strings.Contains(env_var_name, "SECRET") || strings.Contains(env_var_name, "TOKEN") {
			if len(env_var_value) > 0 {
				env_var_value = security.Redacted
			} else {
				env_var_value = constants.Empty
			}
		}

		slog.Debug("Env var set", "name", env_var_name, "value", env_var_value)
	}

	return cfg, nil
}
