package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_DefaultsAreValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := Validate(&cfg); err != nil {
		t.Errorf("Validate(defaults) error: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "bad color mode",
			mutate:    func(c *Config) { c.Color = "sometimes" },
			wantField: "color",
		},
		{
			name:      "job interval too small",
			mutate:    func(c *Config) { c.Poll.JobIntervalMs = 10 },
			wantField: "poll.job_interval_ms",
		},
		{
			name:      "file interval too small",
			mutate:    func(c *Config) { c.Poll.FileIntervalMs = 10 },
			wantField: "poll.file_interval_ms",
		},
		{
			name:      "negative retries",
			mutate:    func(c *Config) { c.Poll.MaxRetries = -1 },
			wantField: "poll.max_retries",
		},
		{
			name:      "zero query rate",
			mutate:    func(c *Config) { c.Poll.QueriesPerMinute = 0 },
			wantField: "poll.queries_per_minute",
		},
		{
			name:      "negative tail bytes",
			mutate:    func(c *Config) { c.Follow.TailBytes = -1 },
			wantField: "follow.tail_bytes",
		},
		{
			name:      "empty squeue path",
			mutate:    func(c *Config) { c.Slurm.SqueuePath = "" },
			wantField: "slurm.squeue_path",
		},
		{
			name:      "empty scontrol path",
			mutate:    func(c *Config) { c.Slurm.ScontrolPath = "" },
			wantField: "slurm.scontrol_path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(&cfg)

			err := Validate(&cfg)
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Validate() error type = %T, want ValidationErrors", err)
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("error %q does not mention field %q", err.Error(), tt.wantField)
			}
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Color = "bogus"
	cfg.Slurm.SqueuePath = ""

	err := Validate(&cfg)
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Validate() error type = %T, want ValidationErrors", err)
	}
	if len(verrs) != 2 {
		t.Errorf("len(ValidationErrors) = %d, want 2", len(verrs))
	}
}
