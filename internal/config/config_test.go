package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

var configEnv = []string{
	"CONFIG_FILE", "PORT", "LOG_LEVEL", "MODEL_DIR", "MODEL_FILENAME",
	"GDRIVE_FILE_ID", "GDRIVE_API_KEY", "MODEL_URL", "ONNXRUNTIME_LIB",
	"CAPTION_PROVIDER", "CAPTION_MODEL", "CAPTION_TIMEOUT",
	"OPENAI_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY", "CORS_ORIGINS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.ModelPath() != filepath.Join("models", "best_harmful_detector.onnx") {
		t.Errorf("ModelPath = %q", cfg.ModelPath())
	}
	if cfg.CaptionProvider != "openai" || cfg.CaptionTimeout != 30*time.Second {
		t.Errorf("caption provider=%q timeout=%v", cfg.CaptionProvider, cfg.CaptionTimeout)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, defaultCORSOrigins) {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.CaptionAPIKey() != "" {
		t.Errorf("CaptionAPIKey = %q, want empty", cfg.CaptionAPIKey())
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `port: 9000
model_dir: /srv/models
caption_provider: gemini
gemini_api_key: file-key
caption_timeout: 5s
cors_origins:
  - https://a.example
  - https://b.example
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7000")
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7000" {
		t.Errorf("Port = %q, want env value", cfg.Port)
	}
	if cfg.ModelDir != "/srv/models" {
		t.Errorf("ModelDir = %q, want file value", cfg.ModelDir)
	}
	if cfg.CaptionTimeout != 5*time.Second {
		t.Errorf("CaptionTimeout = %v", cfg.CaptionTimeout)
	}
	if cfg.CaptionAPIKey() != "env-key" {
		t.Errorf("CaptionAPIKey = %q, want env-key", cfg.CaptionAPIKey())
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
	}
}

func TestLoadCORSFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ORIGINS", " https://x.example, ,https://y.example ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"https://x.example", "https://y.example"}
	if !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("CAPTION_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Error("Load with bad CAPTION_TIMEOUT succeeded")
	}

	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Error("Load with missing CONFIG_FILE succeeded")
	}
}
