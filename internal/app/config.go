package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/florianilch/clibridge/internal/cliadapter/geminicli"
	"github.com/florianilch/clibridge/internal/invoker"
	"github.com/florianilch/clibridge/internal/observability"
)

// AuthModeEnv is always set for the tool so the Gemini CLI uses Google account (OAuth) auth.
const AuthModeEnv = "GOOGLE_GENAI_USE_GCA"

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Tool      ToolConfig      `koanf:"tool"`
	Models    ModelsConfig    `koanf:"models"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	MaxRequestBytes int64         `koanf:"max_request_bytes" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// ToolConfig describes the external inference CLI.
type ToolConfig struct {
	// Name identifies the bridge in health responses, e.g. "gemini-cli".
	Name       string            `koanf:"name" validate:"required"`
	Label      string            `koanf:"label"`
	Command    string            `koanf:"command" validate:"required"`
	PromptFlag string            `koanf:"prompt_flag"`
	ModelFlag  string            `koanf:"model_flag"`
	Timeout    time.Duration     `koanf:"timeout" validate:"gt=0"`
	Env        map[string]string `koanf:"env"`
}

// ModelsConfig is the tier table used for model selection.
type ModelsConfig struct {
	Highest            string `koanf:"highest" validate:"required"`
	Second             string `koanf:"second" validate:"required"`
	Third              string `koanf:"third" validate:"required"`
	Default            string `koanf:"default" validate:"required"`
	HighTokenThreshold int    `koanf:"high_token_threshold" validate:"gt=0"`
	MidTokenThreshold  int    `koanf:"mid_token_threshold" validate:"gt=0,ltefield=HighTokenThreshold"`
}

// LogConfig controls the stdout logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format string `koanf:"format" validate:"oneof=auto text json"`
}

// TelemetryConfig controls OpenTelemetry log export.
type TelemetryConfig struct {
	Exporter string `koanf:"exporter" validate:"oneof=none stdout otlp-grpc otlp-http"`
	Endpoint string `koanf:"endpoint"`
	Insecure bool   `koanf:"insecure"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	models := geminicli.DefaultModelTable()
	return Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            4001,
			MaxRequestBytes: 10 << 20,
			ShutdownTimeout: 5 * time.Second,
		},
		Tool: ToolConfig{
			Name:       "gemini-cli",
			Label:      "Gemini CLI",
			Command:    "gemini",
			PromptFlag: "-p",
			ModelFlag:  "--model",
			Timeout:    invoker.DefaultTimeout,
			Env:        map[string]string{},
		},
		Models: ModelsConfig{
			Highest:            models.Highest,
			Second:             models.Second,
			Third:              models.Third,
			Default:            models.Default,
			HighTokenThreshold: models.HighTokenThreshold,
			MidTokenThreshold:  models.MidTokenThreshold,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Telemetry: TelemetryConfig{
			Exporter: observability.ExporterNone,
		},
	}
}

// Validate checks value ranges and cross-field constraints.
func (c Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			msgs := make([]string, 0, len(validationErrs))
			for _, fe := range validationErrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SlogLevel parses the configured log level.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return level, fmt.Errorf("parse log level: %w", err)
	}
	return level, nil
}

// ModelTable converts the tier configuration for the adapter.
func (c ModelsConfig) ModelTable() geminicli.ModelTable {
	return geminicli.ModelTable{
		Highest:            c.Highest,
		Second:             c.Second,
		Third:              c.Third,
		Default:            c.Default,
		HighTokenThreshold: c.HighTokenThreshold,
		MidTokenThreshold:  c.MidTokenThreshold,
	}
}

// InvokerConfig converts the tool configuration for the invoker. The auth-mode
// variable is always forced on.
func (c ToolConfig) InvokerConfig() invoker.Config {
	env := make(map[string]string, len(c.Env)+1)
	for k, v := range c.Env {
		env[k] = v
	}
	env[AuthModeEnv] = "true"

	return invoker.Config{
		Command:    c.Command,
		PromptFlag: c.PromptFlag,
		ModelFlag:  c.ModelFlag,
		Label:      c.Label,
		Env:        env,
		Timeout:    c.Timeout,
	}
}
