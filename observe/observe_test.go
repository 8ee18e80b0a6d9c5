package observe

import (
	"context"
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "missing service name",
			cfg:     Config{},
			wantErr: ErrMissingServiceName,
		},
		{
			name: "valid minimal",
			cfg:  Config{ServiceName: "audience"},
		},
		{
			name: "bad tracing exporter",
			cfg: Config{
				ServiceName: "audience",
				Tracing:     TracingConfig{Enabled: true, Exporter: "carrier-pigeon"},
			},
			wantErr: ErrInvalidTracingExporter,
		},
		{
			name: "bad sample pct",
			cfg: Config{
				ServiceName: "audience",
				Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.5},
			},
			wantErr: ErrInvalidSamplePct,
		},
		{
			name: "bad metrics exporter",
			cfg: Config{
				ServiceName: "audience",
				Metrics:     MetricsConfig{Enabled: true, Exporter: "csv"},
			},
			wantErr: ErrInvalidMetricsExporter,
		},
		{
			name: "bad log level",
			cfg: Config{
				ServiceName: "audience",
				Logging:     LoggingConfig{Enabled: true, Level: "loud"},
			},
			wantErr: ErrInvalidLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewObserver_AllDisabled(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "audience"})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	// Disabled subsystems still return usable no-op primitives
	if obs.Tracer() == nil {
		t.Error("Tracer() returned nil")
	}
	if obs.Meter() == nil {
		t.Error("Meter() returned nil")
	}
	if obs.Logger() == nil {
		t.Error("Logger() returned nil")
	}

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestNewObserver_InvalidConfig(t *testing.T) {
	_, err := NewObserver(context.Background(), Config{})
	if !errors.Is(err, ErrMissingServiceName) {
		t.Errorf("NewObserver error = %v, want %v", err, ErrMissingServiceName)
	}
}

func TestNewObserver_ShutdownIdempotent(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{
		ServiceName: "audience",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("first Shutdown failed: %v", err)
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown failed: %v", err)
	}
}
