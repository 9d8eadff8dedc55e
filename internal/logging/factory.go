package logging

import (
	"fmt"
	"os"
	"strings"

	"resume-parser/internal/logging/adapters"
	"resume-parser/internal/logging/types"
)

// AdapterFactory creates logging adapters from configuration
type AdapterFactory struct{}

func NewAdapterFactory() *AdapterFactory {
	return &AdapterFactory{}
}

// CreateAdapter builds the adapter named by cfg.Type
func (f *AdapterFactory) CreateAdapter(cfg types.AdapterConfig) (types.LogAdapter, error) {
	switch strings.ToLower(cfg.Type) {
	case "stdout":
		return adapters.NewStdoutAdapter(cfg.Name, streamConfig(cfg.Options)), nil
	case "stderr":
		return adapters.NewStderrAdapter(cfg.Name, streamConfig(cfg.Options)), nil
	case "file":
		return adapters.NewFileAdapter(cfg.Name, adapters.FileConfig{
			FilePath:    getStringOption(cfg.Options, "file_path", ""),
			Format:      getStringOption(cfg.Options, "format", "json"),
			MaxSize:     getInt64Option(cfg.Options, "max_size", 0),
			MaxBackups:  getIntOption(cfg.Options, "max_backups", 5),
			Compress:    getBoolOption(cfg.Options, "compress", false),
			CreateDirs:  getBoolOption(cfg.Options, "create_dirs", true),
			FileMode:    os.FileMode(getIntOption(cfg.Options, "file_mode", 0o644)),
			SyncOnWrite: getBoolOption(cfg.Options, "sync_on_write", false),
		})
	case "logrus":
		return adapters.NewLogrusAdapter(cfg.Name, adapters.LogrusConfig{
			Format:    getStringOption(cfg.Options, "format", "json"),
			Output:    getStringOption(cfg.Options, "output", "stdout"),
			Colorized: getBoolOption(cfg.Options, "colorized", false),
		}), nil
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", cfg.Type)
	}
}

func streamConfig(options map[string]interface{}) adapters.StreamConfig {
	return adapters.StreamConfig{
		Format:    getStringOption(options, "format", "json"),
		Colorized: getBoolOption(options, "colorized", false),
	}
}

// YAML decodes numbers as int, JSON as float64; accept both.

func getStringOption(options map[string]interface{}, key, defaultValue string) string {
	if s, ok := options[key].(string); ok {
		return s
	}
	return defaultValue
}

func getIntOption(options map[string]interface{}, key string, defaultValue int) int {
	switch v := options[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultValue
}

func getInt64Option(options map[string]interface{}, key string, defaultValue int64) int64 {
	switch v := options[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return defaultValue
}

func getBoolOption(options map[string]interface{}, key string, defaultValue bool) bool {
	if b, ok := options[key].(bool); ok {
		return b
	}
	return defaultValue
}
