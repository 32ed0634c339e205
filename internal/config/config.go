package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var defaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"http://localhost:5174",
}

type Config struct {
	Port     string
	LogLevel string

	ModelDir       string
	ModelFilename  string
	GDriveFileID   string
	GDriveAPIKey   string
	ModelURL       string
	OnnxRuntimeLib string

	CaptionProvider string
	CaptionModel    string
	CaptionTimeout  time.Duration
	OpenAIAPIKey    string
	GeminiAPIKey    string
	AnthropicAPIKey string

	CORSOrigins []string
}

// Load reads configuration from the environment. When CONFIG_FILE names a
// YAML file its values are used for anything the environment leaves unset.
func Load() (*Config, error) {
	src := source{}
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &src.file); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	timeout, err := time.ParseDuration(src.get("caption_timeout", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CAPTION_TIMEOUT: %w", err)
	}

	return &Config{
		Port:     src.get("port", "8080"),
		LogLevel: src.get("log_level", "info"),

		ModelDir:       src.get("model_dir", "models"),
		ModelFilename:  src.get("model_filename", "best_harmful_detector.onnx"),
		GDriveFileID:   src.get("gdrive_file_id", ""),
		GDriveAPIKey:   src.get("gdrive_api_key", ""),
		ModelURL:       src.get("model_url", ""),
		OnnxRuntimeLib: src.get("onnxruntime_lib", ""),

		CaptionProvider: strings.ToLower(src.get("caption_provider", "openai")),
		CaptionModel:    src.get("caption_model", ""),
		CaptionTimeout:  timeout,
		OpenAIAPIKey:    src.get("openai_api_key", ""),
		GeminiAPIKey:    src.get("gemini_api_key", ""),
		AnthropicAPIKey: src.get("anthropic_api_key", ""),

		CORSOrigins: src.list("cors_origins", defaultCORSOrigins),
	}, nil
}

func (c *Config) ModelPath() string {
	return filepath.Join(c.ModelDir, c.ModelFilename)
}

func (c *Config) MetadataPath() string {
	return filepath.Join(c.ModelDir, "model_metadata.json")
}

// CaptionAPIKey returns the credential for the selected caption provider.
func (c *Config) CaptionAPIKey() string {
	switch c.CaptionProvider {
	case "gemini":
		return c.GeminiAPIKey
	case "anthropic", "claude":
		return c.AnthropicAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

type source struct {
	file map[string]any
}

// get looks a key up in the environment (upper-cased), then the file.
func (s source) get(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(strings.ToUpper(key))); v != "" {
		return v
	}
	if v, ok := s.file[key]; ok && v != nil {
		if str := strings.TrimSpace(fmt.Sprint(v)); str != "" {
			return str
		}
	}
	return def
}

// list accepts a comma separated string or a YAML sequence.
func (s source) list(key string, def []string) []string {
	if v := os.Getenv(strings.ToUpper(key)); strings.TrimSpace(v) != "" {
		return splitList(v)
	}
	switch v := s.file[key].(type) {
	case string:
		if out := splitList(v); len(out) > 0 {
			return out
		}
	case []any:
		var out []string
		for _, item := range v {
			if str := strings.TrimSpace(fmt.Sprint(item)); str != "" {
				out = append(out, str)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
