package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type entrypointTestConfig struct {
	Port int `env:"LUME_ENTRYPOINT_TEST_PORT" envDefault:"4567"`
}

func TestParseConfigLoadsEnvDefaults(t *testing.T) {
	var cfg entrypointTestConfig
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 4567 {
		t.Fatalf("port = %d, want 4567", cfg.Port)
	}
}

func TestParseConfigNilTarget(t *testing.T) {
	if err := ParseConfig[entrypointTestConfig](nil); err == nil {
		t.Fatal("expected error for nil config target")
	}
}

func TestParseConfigFromArgsFlagOverridesEnv(t *testing.T) {
	t.Setenv("LUME_ENTRYPOINT_TEST_PORT", "1111")

	var cfg entrypointTestConfig
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "port")
	if err := ParseArgs(fs, []string{"-port", "2222"}); err != nil {
		t.Fatalf("parse args: %v", err)
	}
	if cfg.Port != 2222 {
		t.Fatalf("port = %d, want flag override 2222", cfg.Port)
	}
}

func TestParseArgsNilFlagSet(t *testing.T) {
	if err := ParseArgs(nil, nil); err == nil {
		t.Fatal("expected error for nil flag set")
	}
}

func TestRunWithTelemetryRequiresServiceName(t *testing.T) {
	err := RunWithTelemetry(context.Background(), " ", func(context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected error for empty service name")
	}
}

func TestRunWithTelemetryRequiresRunFunc(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), ServiceAPI, nil); err == nil {
		t.Fatal("expected error for nil run function")
	}
}

func TestRunWithTelemetryPropagatesRunError(t *testing.T) {
	t.Setenv("LUME_OTEL_ENDPOINT", "")

	wantErr := errors.New("run failed")
	err := RunWithTelemetry(context.Background(), ServiceAPI, func(context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}
