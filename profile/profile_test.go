package profile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleYAML = `
profiles:
  records-api:
    retry:
      max_attempts: 5
      base_delay: 100ms
      max_delay: 10s
      multiplier: 2.0
      jitter: true
    circuit:
      failure_threshold: 3
      recovery_timeout: 30s
    rate_limit:
      max_requests: 100
      window: 1m
    timeout: 5s
  billing-api:
    bulkhead:
      max_concurrent: 4
      max_wait: 500ms
    throttle:
      rate: 50
      burst: 5
`

func TestLoadFromBytes(t *testing.T) {
	f, err := LoadFromBytes([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("LoadFromBytes() error = %v", err)
	}

	if len(f.Profiles) != 2 {
		t.Fatalf("profiles = %d, want 2", len(f.Profiles))
	}

	p, err := f.Get("records-api")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if p.Retry == nil || p.Retry.MaxAttempts != 5 {
		t.Errorf("retry = %+v", p.Retry)
	}
	if p.Retry.BaseDelay != 100*time.Millisecond {
		t.Errorf("base_delay = %s, want 100ms", p.Retry.BaseDelay)
	}
	if !p.Retry.Jitter {
		t.Error("jitter should be true")
	}
	if p.Circuit == nil || p.Circuit.FailureThreshold != 3 || p.Circuit.RecoveryTimeout != 30*time.Second {
		t.Errorf("circuit = %+v", p.Circuit)
	}
	if p.RateLimit == nil || p.RateLimit.MaxRequests != 100 || p.RateLimit.Window != time.Minute {
		t.Errorf("rate_limit = %+v", p.RateLimit)
	}
	if p.Timeout != 5*time.Second {
		t.Errorf("timeout = %s, want 5s", p.Timeout)
	}
	if p.Bulkhead != nil || p.Throttle != nil {
		t.Error("absent sections should stay nil")
	}

	b, err := f.Get("billing-api")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if b.Retry != nil || b.Circuit != nil {
		t.Error("absent sections should stay nil")
	}
	if b.Bulkhead == nil || b.Bulkhead.MaxConcurrent != 4 {
		t.Errorf("bulkhead = %+v", b.Bulkhead)
	}
	if b.Throttle == nil || b.Throttle.Rate != 50 || b.Throttle.Burst != 5 {
		t.Errorf("throttle = %+v", b.Throttle)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(f.Profiles) != 2 {
		t.Errorf("profiles = %d, want 2", len(f.Profiles))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() should fail on a missing file")
	}
}

func TestLoadFromBytes_InvalidYAML(t *testing.T) {
	if _, err := LoadFromBytes([]byte("profiles: [not a map")); err == nil {
		t.Error("LoadFromBytes() should fail on malformed YAML")
	}
}

func TestLoadFromBytes_NoProfiles(t *testing.T) {
	if _, err := LoadFromBytes([]byte("profiles: {}")); !errors.Is(err, ErrNoProfiles) {
		t.Errorf("error = %v, want ErrNoProfiles", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	f, err := LoadFromBytes([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Get("absent"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("error = %v, want ErrProfileNotFound", err)
	}
}

func TestLoadFromBytes_EnvExpansion(t *testing.T) {
	t.Setenv("WARD_TEST_ATTEMPTS", "7")

	yaml := `
profiles:
  api:
    retry:
      max_attempts: ${WARD_TEST_ATTEMPTS}
`
	f, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadFromBytes() error = %v", err)
	}
	p, _ := f.Get("api")
	if p.Retry.MaxAttempts != 7 {
		t.Errorf("max_attempts = %d, want 7 from environment", p.Retry.MaxAttempts)
	}
}

func TestLoadFromBytes_MissingEnvVar(t *testing.T) {
	yaml := `
profiles:
  api:
    retry:
      max_attempts: ${WARD_TEST_DEFINITELY_UNSET}
`
	_, err := LoadFromBytes([]byte(yaml))
	if !errors.Is(err, ErrMissingEnvVars) {
		t.Fatalf("error = %v, want ErrMissingEnvVars", err)
	}
	if !strings.Contains(err.Error(), "WARD_TEST_DEFINITELY_UNSET") {
		t.Errorf("error should name the missing variable: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "negative timeout",
			yaml: "profiles:\n  api:\n    timeout: -1s\n",
		},
		{
			name: "negative max attempts",
			yaml: "profiles:\n  api:\n    retry:\n      max_attempts: -1\n",
		},
		{
			name: "fractional multiplier",
			yaml: "profiles:\n  api:\n    retry:\n      multiplier: 0.5\n",
		},
		{
			name: "max delay below base delay",
			yaml: "profiles:\n  api:\n    retry:\n      base_delay: 10s\n      max_delay: 1s\n",
		},
		{
			name: "negative failure threshold",
			yaml: "profiles:\n  api:\n    circuit:\n      failure_threshold: -2\n",
		},
		{
			name: "negative window",
			yaml: "profiles:\n  api:\n    rate_limit:\n      window: -1m\n",
		},
		{
			name: "negative throttle rate",
			yaml: "profiles:\n  api:\n    throttle:\n      rate: -5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFromBytes([]byte(tt.yaml)); err == nil {
				t.Error("LoadFromBytes() should reject invalid settings")
			}
		})
	}
}

func TestValidate_ZeroValuesAccepted(t *testing.T) {
	// Zero settings defer to component defaults and must pass.
	yaml := `
profiles:
  api:
    retry: {}
    circuit: {}
`
	if _, err := LoadFromBytes([]byte(yaml)); err != nil {
		t.Errorf("LoadFromBytes() error = %v, zero sections should be valid", err)
	}
}

func TestExpandEnvStrict_DollarEscape(t *testing.T) {
	got, err := expandEnvStrict("cost is $$5")
	if err != nil {
		t.Fatalf("expandEnvStrict() error = %v", err)
	}
	if got != "cost is $5" {
		t.Errorf("expanded = %q, want %q", got, "cost is $5")
	}
}
