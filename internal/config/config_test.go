package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	v, err := NewViper("")
	if err != nil {
		t.Fatalf("new viper: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surveygen.yaml")
	data := []byte(`
logging:
  level: debug
  format: json
server:
  addr: ":9090"
  session_ttl: 30m
storage:
  database: answers.db
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SURVEYGEN_REDIS_ADDR", "localhost:6379")
	t.Setenv("SURVEYGEN_SERVER_ADDR", ":7070")

	v, err := NewViper(path)
	if err != nil {
		t.Fatalf("new viper: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Default()
	want.Logging = LoggingConfig{Level: "debug", Format: "json"}
	want.Server.Addr = ":7070"
	want.Server.SessionTTL = 30 * time.Minute
	want.Storage.Database = "answers.db"
	want.Redis.Addr = "localhost:6379"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestNewViper_MissingExplicitFile(t *testing.T) {
	if _, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "loud"
	cfg.Logging.Format = "xml"
	cfg.Server.CookieName = " "

	errs := cfg.Validate()
	var fields []string
	for _, err := range errs {
		fields = append(fields, err.Field)
	}
	want := []string{"logging.level", "logging.format", "server.cookie_name"}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	var asErr ValidationErrors
	if !errors.As(error(errs), &asErr) || len(asErr) != 3 {
		t.Fatalf("expected ValidationErrors, got %v", errs)
	}
	if Default().Validate() != nil {
		t.Fatalf("expected defaults to validate")
	}
}
