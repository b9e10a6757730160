package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/treeprint/pkg/errors"
	"github.com/matzehuels/treeprint/pkg/layout"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.Layout != layout.DefaultConfig() {
		t.Errorf("Layout = %+v, want defaults", c.Layout)
	}
	if c.Render.Style != DefaultStyle || c.Cache.Backend != CacheFile || c.Server.Addr != DefaultServerAddr {
		t.Errorf("Default = %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	p := writeConfig(t, `
[layout]
box_width = 60
sibling_spacing = 15

[render]
style = "simple"
formats = ["svg", "png"]
pan_zoom = true

[cache]
backend = "redis"
ttl = "2h"

[server]
addr = "127.0.0.1:9000"
`)
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.Layout.BoxWidth != 60 || c.Layout.SiblingSpacing != 15 {
		t.Errorf("Layout = %+v", c.Layout)
	}
	if c.Layout.SpouseSpacing != 15 {
		t.Errorf("SpouseSpacing = %d, want SiblingSpacing", c.Layout.SpouseSpacing)
	}
	if c.Layout.BoxHeight != layout.DefaultBoxHeight {
		t.Errorf("BoxHeight = %d, want default", c.Layout.BoxHeight)
	}
	if c.Render.Style != "simple" || len(c.Render.Formats) != 2 || !c.Render.PanZoom {
		t.Errorf("Render = %+v", c.Render)
	}
	if c.Cache.Backend != CacheRedis || c.Cache.TTL != 2*time.Hour || c.Cache.RedisAddr != DefaultRedisAddr {
		t.Errorf("Cache = %+v", c.Cache)
	}
	if c.Server.Addr != "127.0.0.1:9000" || c.Server.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Errorf("Server = %+v", c.Server)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "[layout\n", errors.ErrCodeInvalidConfig},
		{"unknown key", "[layout]\nbox_depth = 3\n", errors.ErrCodeInvalidConfig},
		{"negative", "[layout]\nbox_width = -1\n", errors.ErrCodeInvalidConfig},
		{"backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidConfig},
		{"prefix", "[source]\nsqlite_prefix = \"a-b\"\n", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load default path: %v", err)
	}
	if c.Render.Style != DefaultStyle {
		t.Errorf("missing default file should yield defaults, got %+v", c.Render)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing explicit file = %v, want FILE_NOT_FOUND", err)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	if p, _ := Path(); p != filepath.Join("/tmp/xdg-config", appName, "config.toml") {
		t.Errorf("Path() = %q", p)
	}
	if d, _ := CacheDir(); d != filepath.Join("/tmp/xdg-cache", appName) {
		t.Errorf("CacheDir() = %q", d)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")
	home, _ := os.UserHomeDir()
	if p, _ := Path(); p != filepath.Join(home, ".config", appName, "config.toml") {
		t.Errorf("Path() without XDG = %q", p)
	}
	if d, _ := CacheDir(); d != filepath.Join(home, ".cache", appName) {
		t.Errorf("CacheDir() without XDG = %q", d)
	}
}
