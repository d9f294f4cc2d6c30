package formats

import (
	"errors"
	"strings"
	"testing"

	"github.com/nowwaveradio/datetime-normalizer/internal/chrono"
	"github.com/nowwaveradio/datetime-normalizer/internal/config"
)

func detectConfig() *config.Config {
	return &config.Config{
		Formats: map[string]config.FormatConfig{
			"iso-date": {
				Pattern:  "uuuu-MM-dd",
				Enabled:  true,
				Priority: 100,
			},
			"us-date": {
				Pattern:  "MM/dd/uuuu",
				Enabled:  true,
				Priority: 50,
			},
			"compact": {
				Pattern:  "uuuuMMdd",
				Enabled:  true,
				Priority: 10,
			},
			"disabled-format": {
				Pattern:  "dd.MM.uuuu",
				Enabled:  false,
				Priority: 200,
			},
		},
	}
}

func TestDetect(t *testing.T) {
	registry, err := NewRegistry(detectConfig())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	tests := []struct {
		name       string
		input      string
		wantFormat string
		wantYear   int
		wantMonth  int
		wantDay    int
	}{
		{
			name:       "iso date wins",
			input:      "2022-09-30",
			wantFormat: "iso-date",
			wantYear:   2022, wantMonth: 9, wantDay: 30,
		},
		{
			name:       "us date",
			input:      "09/30/2022",
			wantFormat: "us-date",
			wantYear:   2022, wantMonth: 9, wantDay: 30,
		},
		{
			name:       "compact date",
			input:      "20220930",
			wantFormat: "compact",
			wantYear:   2022, wantMonth: 9, wantDay: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, formatKey, err := registry.Detect(tt.input, chrono.ResolverSmart)
			if err != nil {
				t.Fatalf("Detect(%q) error = %v", tt.input, err)
			}

			if formatKey != tt.wantFormat {
				t.Errorf("Detect(%q) format = %q, want %q", tt.input, formatKey, tt.wantFormat)
			}
			if value.Year() != tt.wantYear || value.Month() != tt.wantMonth || value.Day() != tt.wantDay {
				t.Errorf("Detect(%q) = %v, want %04d-%02d-%02d",
					tt.input, value, tt.wantYear, tt.wantMonth, tt.wantDay)
			}
		})
	}
}

func TestDetectSkipsDisabledFormats(t *testing.T) {
	registry, err := NewRegistry(detectConfig())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	// Only the disabled format matches this shape
	_, _, err = registry.Detect("30.09.2022", chrono.ResolverSmart)
	if err == nil {
		t.Error("Detect() should not match disabled formats")
	}
}

func TestDetectNoMatch(t *testing.T) {
	registry, err := NewRegistry(detectConfig())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	_, _, err = registry.Detect("not a date", chrono.ResolverSmart)
	if err == nil {
		t.Fatal("Detect() should return error when nothing matches")
	}

	var detErr *DetectionError
	if !errors.As(err, &detErr) {
		t.Fatalf("Detect() error type = %T, want *DetectionError", err)
	}

	// The error names every format that was tried, in priority order
	msg := err.Error()
	for _, key := range []string{"iso-date", "us-date", "compact"} {
		if !strings.Contains(msg, key) {
			t.Errorf("DetectionError should mention %q, got: %s", key, msg)
		}
	}
	if strings.Contains(msg, "disabled-format") {
		t.Errorf("DetectionError should not mention disabled formats, got: %s", msg)
	}
}

func TestDetectHonorsResolverStyle(t *testing.T) {
	registry, err := NewRegistry(detectConfig())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	// September only has 30 days
	if _, _, err := registry.Detect("2022-09-31", chrono.ResolverStrict); err == nil {
		t.Error("Detect() with strict style should reject 2022-09-31")
	}

	value, formatKey, err := registry.Detect("2022-09-31", chrono.ResolverSmart)
	if err != nil {
		t.Fatalf("Detect() with smart style error = %v", err)
	}
	if formatKey != "iso-date" {
		t.Errorf("format = %q, want iso-date", formatKey)
	}
	if value.Day() != 30 {
		t.Errorf("smart resolution day = %d, want 30", value.Day())
	}
}

func TestDetectNoEnabledFormats(t *testing.T) {
	cfg := &config.Config{
		Formats: map[string]config.FormatConfig{
			"disabled": {Pattern: "uuuu-MM-dd", Enabled: false},
		},
	}

	registry, err := NewRegistry(cfg)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	_, _, err = registry.Detect("2022-09-30", chrono.ResolverSmart)
	if err == nil {
		t.Fatal("Detect() should fail with no enabled formats")
	}
	if !strings.Contains(err.Error(), "no formats are enabled") {
		t.Errorf("error should explain that no formats are enabled, got: %v", err)
	}
}
