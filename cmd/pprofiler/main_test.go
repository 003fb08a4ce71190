package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/jmylchreest/pprofiler/internal/config"
	"github.com/jmylchreest/pprofiler/internal/errors"
	"github.com/jmylchreest/pprofiler/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFlag(t *testing.T) {
	for _, arg := range []string{"-v", "--version"} {
		t.Run(arg, func(t *testing.T) {
			cmd := newRootCommand()
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetArgs([]string{arg})

			require.NoError(t, cmd.Execute())
			assert.Equal(t, "Power Profile Manager v"+version+"\n", out.String())
		})
	}
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand()

	shorthands := map[string]string{
		"mouse-reverse": "m",
		"force-theme":   "f",
		"version":       "v",
	}
	for name, short := range shorthands {
		f := cmd.Flags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, short, f.Shorthand, name)
	}

	for _, name := range []string{"config", "command", "timeout", "interval", "icon-dir", "log-level", "log-format"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestFlagsReachConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cmd := newRootCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"-m", "-f", "DARK", "--interval", "5s"}))

	cfg, err := config.Load("", cmd.Flags())
	require.NoError(t, err)

	assert.True(t, cfg.Tray.MouseReverse)
	assert.Equal(t, "dark", cfg.Theme.Force)
	assert.Equal(t, "5s", cfg.Refresh.Interval.String())
}

func TestInvalidForcedThemeFails(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// Capture the bootstrap error log
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	cmd := newRootCommand()
	cmd.SetArgs([]string{"--force-theme", "purple"})
	cmd.SilenceErrors = true
	err := cmd.Execute()

	os.Stderr = old
	w.Close()
	logged, _ := io.ReadAll(r)

	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
	assert.Contains(t, string(logged), "failed to load configuration")
	assert.Contains(t, string(logged), "purple")
}

func TestSetupThemeForced(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.Force = config.ThemeDark

	src, th := setupTheme(t.Context(), slog.New(slog.NewTextHandler(io.Discard, nil)), nil, cfg)

	assert.Nil(t, src)
	assert.Equal(t, theme.Dark, th)
}

func TestAcquireLock(t *testing.T) {
	dir := t.TempDir()

	release, err := acquireLock(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, lockFilename))
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	// Our own PID is alive, so a second instance is refused
	_, err = acquireLock(dir)
	assert.Error(t, err)

	release()
	_, err = os.Stat(filepath.Join(dir, lockFilename))
	assert.True(t, os.IsNotExist(err))
}

func TestAcquireLockStale(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"dead pid", "99999999"},
		{"garbage", "not-a-pid"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, lockFilename), []byte(tt.content), 0644))

			release, err := acquireLock(dir)
			require.NoError(t, err)
			release()
		})
	}
}

func TestLockDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/4242")
	assert.Equal(t, "/run/user/4242", lockDir())

	t.Setenv("XDG_RUNTIME_DIR", "")
	assert.Equal(t, os.TempDir(), lockDir())
}

type stepRecorder struct {
	steps []string
}

type stopStep struct{ r *stepRecorder }

func (s stopStep) Stop() { s.r.steps = append(s.r.steps, "stop") }

type exitStep struct{ r *stepRecorder }

func (s exitStep) OnExit() { s.r.steps = append(s.r.steps, "presenter-exit") }

func TestOnExitStopsPollingFirst(t *testing.T) {
	r := &stepRecorder{}

	onExit(stopStep{r}, exitStep{r})()

	assert.Equal(t, []string{"stop", "presenter-exit"}, r.steps)
}
