package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/upnp-discover/internal/config"
)

func useConfigPath(t *testing.T, path string) {
	t.Helper()
	old := configPath
	configPath = path
	t.Cleanup(func() { configPath = old })
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	useConfigPath(t, filepath.Join(t.TempDir(), "missing.yaml"))

	cmd := &cobra.Command{}
	addSearchFlags(cmd)
	for name, value := range map[string]string{
		"mx":        "2",
		"bursts":    "4",
		"deadline":  "30s",
		"target":    "ssdp:all",
		"interface": "eth0",
	} {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("Set(%s) error = %v", name, err)
		}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	d := cfg.Discovery
	if d.MX != 2 || d.MaxBursts != 4 || d.Deadline != 30*time.Second {
		t.Errorf("overrides not applied: %+v", d)
	}
	if d.SearchTarget != "ssdp:all" || d.Interface != "eth0" {
		t.Errorf("overrides not applied: %+v", d)
	}
	if d.ListenAddress != config.Default().Discovery.ListenAddress {
		t.Errorf("unset flag changed ListenAddress to %q", d.ListenAddress)
	}
}

func TestLoadConfig_FileWinsOverFlagDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 1\ndiscovery:\n  mx: 5\n"), 0600); err != nil {
		t.Fatal(err)
	}
	useConfigPath(t, path)

	cmd := &cobra.Command{}
	addSearchFlags(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Discovery.MX != 5 {
		t.Errorf("MX = %d, want 5 from the config file", cfg.Discovery.MX)
	}
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	useConfigPath(t, filepath.Join(t.TempDir(), "missing.yaml"))

	cmd := &cobra.Command{}
	addSearchFlags(cmd)
	if err := cmd.Flags().Set("mx", "9"); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfig(cmd); err == nil {
		t.Error("loadConfig() should reject mx 9")
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upnp.yaml")
	useConfigPath(t, path)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	if err := runConfigInit(cmd, nil); err != nil {
		t.Fatalf("runConfigInit() error = %v", err)
	}
	if !strings.Contains(out.String(), path) {
		t.Errorf("output = %q, should name the file", out.String())
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Discovery != config.Default().Discovery {
		t.Errorf("written config = %+v, want defaults", cfg.Discovery)
	}

	if err := runConfigInit(cmd, nil); err == nil {
		t.Error("second init without --force should fail")
	}

	forceInit = true
	t.Cleanup(func() { forceInit = false })
	if err := runConfigInit(cmd, nil); err != nil {
		t.Errorf("init with --force error = %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	useConfigPath(t, filepath.Join(t.TempDir(), "missing.yaml"))

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	if err := runConfigShow(cmd, nil); err != nil {
		t.Fatalf("runConfigShow() error = %v", err)
	}
	for _, want := range []string{"multicast_address: 239.255.255.250:1900", "search_target: upnp:rootdevice", "mx: 3"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output should contain %q, got:\n%s", want, out.String())
		}
	}
}

func TestLoadConfig_MXSetsReadTimeout(t *testing.T) {
	useConfigPath(t, filepath.Join(t.TempDir(), "missing.yaml"))

	cmd := &cobra.Command{}
	addSearchFlags(cmd)
	if err := cmd.Flags().Set("mx", "5"); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if got := cfg.SessionOptions().ReadTimeout; got != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s for --mx 5", got)
	}
}
