package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"

	"github.com/florianilch/clibridge/internal/app"
)

const (
	// envPrefix scopes environment overrides, e.g. CLIBRIDGE_TOOL__TIMEOUT=90s.
	// A double underscore separates nesting levels.
	envPrefix = "CLIBRIDGE_"

	// legacyPortEnv is the port override understood by earlier bridge deployments.
	legacyPortEnv = "GEMINI_BRIDGE_PORT"
)

// loadConfig merges configuration sources, later ones winning:
// defaults, config file, CLIBRIDGE_* env, GEMINI_BRIDGE_PORT, command-line flags.
func loadConfig(path string, cmd *cli.Command, environ func() []string) (app.Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultValues(), "."), nil); err != nil {
		return app.Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return app.Config{}, fmt.Errorf("load config file %q: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: transformEnvKey,
		EnvironFunc:   environ,
	}), nil); err != nil {
		return app.Config{}, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: legacyPortEnv,
		TransformFunc: func(key, value string) (string, any) {
			if key != legacyPortEnv {
				return "", nil
			}
			return "server.port", value
		},
		EnvironFunc: environ,
	}), nil); err != nil {
		return app.Config{}, fmt.Errorf("load %s: %w", legacyPortEnv, err)
	}

	if cmd != nil {
		if err := k.Load(confmap.Provider(flagValues(cmd), "."), nil); err != nil {
			return app.Config{}, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg app.Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return app.Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// parserFor picks the config file parser by extension. TOML is the default.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// transformEnvKey maps CLIBRIDGE_SERVER__PORT to server.port. Keys below tool.env
// keep their case because they name environment variables of the tool.
func transformEnvKey(key, value string) (string, any) {
	path := strings.Split(strings.TrimPrefix(key, envPrefix), "__")
	for i, part := range path {
		if i >= 2 && strings.EqualFold(path[0], "tool") && strings.EqualFold(path[1], "env") {
			break
		}
		path[i] = strings.ToLower(part)
	}
	return strings.Join(path, "."), value
}

// defaultValues flattens app.DefaultConfig for the confmap provider.
func defaultValues() map[string]any {
	d := app.DefaultConfig()
	return map[string]any{
		"server.host":              d.Server.Host,
		"server.port":              d.Server.Port,
		"server.max_request_bytes": d.Server.MaxRequestBytes,
		"server.shutdown_timeout":  d.Server.ShutdownTimeout,

		"tool.name":        d.Tool.Name,
		"tool.label":       d.Tool.Label,
		"tool.command":     d.Tool.Command,
		"tool.prompt_flag": d.Tool.PromptFlag,
		"tool.model_flag":  d.Tool.ModelFlag,
		"tool.timeout":     d.Tool.Timeout,

		"models.highest":              d.Models.Highest,
		"models.second":               d.Models.Second,
		"models.third":                d.Models.Third,
		"models.default":              d.Models.Default,
		"models.high_token_threshold": d.Models.HighTokenThreshold,
		"models.mid_token_threshold":  d.Models.MidTokenThreshold,

		"log.level":  d.Log.Level,
		"log.format": d.Log.Format,

		"telemetry.exporter": d.Telemetry.Exporter,
	}
}

// flagValues collects explicitly set flags; unset flags keep lower-priority values.
func flagValues(cmd *cli.Command) map[string]any {
	values := map[string]any{}
	if cmd.IsSet("host") {
		values["server.host"] = cmd.String("host")
	}
	if cmd.IsSet("port") {
		values["server.port"] = cmd.Int("port")
	}
	if cmd.IsSet("log-level") {
		values["log.level"] = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		values["log.format"] = cmd.String("log-format")
	}
	return values
}
