//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config lookup at a fresh temporary home.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	t.Setenv(EnvFormat, "")
	t.Setenv(EnvTiming, "")
	t.Setenv(EnvLogLevel, "")
	return home
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "%X", cfg.Format)
	assert.Equal(t, 500*time.Millisecond, cfg.TransitionTiming.Duration)
	assert.Equal(t, 200*time.Millisecond, cfg.LogicTickInterval.Duration)
	assert.Equal(t, 10*time.Millisecond, cfg.RenderTickInterval.Duration)
	assert.True(t, cfg.Glyphs)
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_SearchPath(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "xdg", "clocktui", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("format: \"%H:%M\"\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "%H:%M", cfg.Format)
	assert.Equal(t, DefaultTransitionTiming, cfg.TransitionTiming.Duration)
}

func TestLoad_PartialYAMLKeepsDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
format: "%a %H:%M:%S"
transition_timing: 250ms
theme:
  border: thick
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "%a %H:%M:%S", cfg.Format)
	assert.Equal(t, 250*time.Millisecond, cfg.TransitionTiming.Duration)
	assert.Equal(t, "thick", cfg.Theme.Border)
	assert.Equal(t, DefaultColor, cfg.Theme.Color)
	assert.Equal(t, DefaultLogicTickInterval, cfg.LogicTickInterval.Duration)
}

func TestLoad_TOML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	data := []byte(`
format = "%T"
render_tick_interval = "20ms"
glyphs = false

[theme]
color = "#ff8800"
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "%T", cfg.Format)
	assert.Equal(t, 20*time.Millisecond, cfg.RenderTickInterval.Duration)
	assert.False(t, cfg.Glyphs)
	assert.Equal(t, "#ff8800", cfg.Theme.Color)
	assert.Equal(t, DefaultBorder, cfg.Theme.Border)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvFormat, "%H%M")
	t.Setenv(EnvTiming, "1s")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "%H%M", cfg.Format)
	assert.Equal(t, time.Second, cfg.TransitionTiming.Duration)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidEnvTiming(t *testing.T) {
	isolate(t)
	t.Setenv(EnvTiming, "soon")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvTiming)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"zero logic tick":  "logic_tick_interval: 0s\n",
		"zero render tick": "render_tick_interval: 0s\n",
		"unknown level":    "log_level: trace\n",
		"unknown border":   "theme:\n  border: dotted\n",
		"empty color":      "theme:\n  color: \"\"\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

			_, err := Load(path)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_AcceptsIncompleteFormats(t *testing.T) {
	tests := map[string]string{
		"dangling escape": "%H:%",
		"lone escape":     "%",
		"empty format":    "",
	}
	for name, format := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte("format: \""+format+"\"\n"), 0o600))

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, format, cfg.Format)
		})
	}
}

func TestLoad_DecodeErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	neg := filepath.Join(dir, "neg.yaml")
	require.NoError(t, os.WriteFile(neg, []byte("transition_timing: -1s\n"), 0o600))
	_, err := Load(neg)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("format = \n"), 0o600))
	_, err = Load(bad)
	require.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	isolate(t)
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			want := DefaultConfig()
			want.Format = "%A %H:%M:%S"
			want.TransitionTiming = Duration{750 * time.Millisecond}
			want.LogFile = "/tmp/clocktui.log"
			want.Theme.Border = "double"

			path := filepath.Join(t.TempDir(), "nested", name)
			written, err := Save(want, path, false)
			require.NoError(t, err)
			assert.Equal(t, path, written)

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestSave_RefusesOverwrite(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	_, err := Save(DefaultConfig(), path, false)
	require.NoError(t, err)

	_, err = Save(DefaultConfig(), path, false)
	require.ErrorIs(t, err, ErrExists)

	cfg := DefaultConfig()
	cfg.Format = "%R"
	_, err = Save(cfg, path, true)
	require.NoError(t, err)
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "%R", got.Format)
}

func TestEncode_YAMLUsesDurationStrings(t *testing.T) {
	data, err := Encode(DefaultConfig(), false)
	require.NoError(t, err)
	assert.Contains(t, string(data), "transition_timing: 500ms")
	assert.Contains(t, string(data), "render_tick_interval: 10ms")
	assert.NotContains(t, string(data), "log_file")
}

func TestExpandTilde(t *testing.T) {
	home := isolate(t)
	got, err := expandTilde("~/clocktui/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "clocktui", "config.yaml"), got)

	got, err = expandTilde("/etc/clocktui.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/clocktui.yaml", got)
}
