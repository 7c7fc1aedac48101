package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// resetViper clears the global viper state and points $HOME at an empty
// directory so a developer's own ~/.ledgerocr/config.yaml cannot leak
// into the test.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
}

// ============================================================================
// Loading
// ============================================================================

func TestDefaultsWhenNoConfigFile(t *testing.T) {
	resetViper(t)

	cm, err := NewManager("")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	got := cm.Get()
	want := DefaultConfig()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get() = %+v, want defaults %+v", got, want)
	}
}

func TestLoadsConfigFile(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server:
  port: 9000
ocr:
  language: deu
parse:
  header_lines: 6
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cm, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	cfg := cm.Get()
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.OCR.Language != "deu" {
		t.Errorf("OCR.Language = %q, want deu", cfg.OCR.Language)
	}
	if cfg.Parse.HeaderLines != 6 {
		t.Errorf("Parse.HeaderLines = %d, want 6", cfg.Parse.HeaderLines)
	}

	// Keys absent from the file keep their defaults.
	if cfg.Cache.TTLDays != 7 {
		t.Errorf("Cache.TTLDays = %d, want default 7", cfg.Cache.TTLDays)
	}
	if cfg.Limit.PerMinute != 30 {
		t.Errorf("Limit.PerMinute = %d, want default 30", cfg.Limit.PerMinute)
	}
}

func TestEnvOverride(t *testing.T) {
	resetViper(t)
	t.Setenv("LEDGEROCR_SERVER_PORT", "7777")
	t.Setenv("LEDGEROCR_OCR_LANGUAGE", "fra")

	cm, err := NewManager("")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	cfg := cm.Get()
	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d, want env override 7777", cfg.Server.Port)
	}
	if cfg.OCR.Language != "fra" {
		t.Errorf("OCR.Language = %q, want env override fra", cfg.OCR.Language)
	}
}

func TestExplicitMissingFileErrors(t *testing.T) {
	resetViper(t)

	_, err := NewManager(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("NewManager succeeded with a missing explicit config file")
	}
	if !strings.Contains(err.Error(), "error reading config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMalformedConfigFileErrors(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not: a map\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := NewManager(path); err == nil {
		t.Fatal("NewManager accepted malformed YAML")
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# ledgerocr configuration") {
		t.Error("written config is missing the comment header")
	}

	cm, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager on written default: %v", err)
	}
	if !reflect.DeepEqual(cm.Get(), DefaultConfig()) {
		t.Errorf("written default did not round-trip: got %+v", cm.Get())
	}
}

// ============================================================================
// Env expansion and conversions
// ============================================================================

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("LEDGEROCR_TEST_ROOT", "/data/scans")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/plain/path", "/plain/path"},
		{"${LEDGEROCR_TEST_ROOT}", "/data/scans"},
		{"${LEDGEROCR_TEST_ROOT}/cache", "/data/scans/cache"},
		{"${LEDGEROCR_TEST_UNSET_VAR}/cache", "/cache"},
	}
	for _, tt := range tests {
		if got := ResolveEnvVars(tt.in); got != tt.want {
			t.Errorf("ResolveEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCacheConfigConversion(t *testing.T) {
	t.Setenv("LEDGEROCR_TEST_ROOT", "/data/scans")

	cfg := DefaultConfig()
	cfg.Cache.Dir = "${LEDGEROCR_TEST_ROOT}/cache"
	cfg.Cache.TTLDays = 2
	cfg.Cache.MaxBytes = 1 << 20

	cc := cfg.CacheConfig()
	if cc.Dir != "/data/scans/cache" {
		t.Errorf("Dir = %q, want /data/scans/cache", cc.Dir)
	}
	if cc.TTL != 48*time.Hour {
		t.Errorf("TTL = %v, want 48h", cc.TTL)
	}
	if cc.MaxBytes != 1<<20 {
		t.Errorf("MaxBytes = %d, want %d", cc.MaxBytes, 1<<20)
	}
}

func TestLimitConfigConversion(t *testing.T) {
	cfg := DefaultConfig()
	lc := cfg.LimitConfig()
	if lc.PerMinute != 30 || lc.Burst != 60 || lc.PageCost != 5 {
		t.Errorf("LimitConfig = %+v, want {30 60 5}", lc)
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerCfg{Host: "0.0.0.0", Port: 5001}
	if got := s.Addr(); got != "0.0.0.0:5001" {
		t.Errorf("Addr() = %q, want 0.0.0.0:5001", got)
	}
}
