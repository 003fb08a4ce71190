package theme

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/jmylchreest/pprofiler/internal/command"
	perrors "github.com/jmylchreest/pprofiler/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
}

type staticSource struct {
	theme Theme
	err   error
	calls int
}

func (s *staticSource) Current(context.Context) (Theme, error) {
	s.calls++
	return s.theme, s.err
}

type scriptedRunner struct {
	result command.Result
	lines  []string
}

func (r *scriptedRunner) Run(_ context.Context, commandLine string, _ time.Duration) command.Result {
	r.lines = append(r.lines, commandLine)
	return r.result
}

func TestParse(t *testing.T) {
	th, err := Parse("Dark")
	require.NoError(t, err)
	assert.Equal(t, Dark, th)

	th, err = Parse("light")
	require.NoError(t, err)
	assert.Equal(t, Light, th)

	_, err = Parse("sepia")
	assert.True(t, perrors.IsInvalidInput(err))

	assert.Equal(t, "dark", Dark.String())
	assert.Equal(t, "light", Light.String())
}

func TestFromColorScheme(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    Theme
		wantErr bool
	}{
		{"no preference", uint32(0), Light, false},
		{"prefer dark", uint32(1), Dark, false},
		{"prefer light", uint32(2), Light, false},
		{"out of range", uint32(7), Light, true},
		{"wrong type", "prefer-dark", Light, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fromColorScheme(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnwrapVariant(t *testing.T) {
	nested := dbus.MakeVariant(dbus.MakeVariant(uint32(1)))
	assert.Equal(t, uint32(1), unwrapVariant(nested))
	assert.Equal(t, uint32(2), unwrapVariant(dbus.MakeVariant(uint32(2))))
}

func TestPortalSource_ConnectError(t *testing.T) {
	p := &PortalSource{connect: func() (*dbus.Conn, error) {
		return nil, errors.New("no session bus")
	}}

	th, err := p.Current(context.Background())
	assert.Error(t, err)
	assert.Equal(t, Light, th)
}

func TestGSettingsSource(t *testing.T) {
	tests := []struct {
		name    string
		result  command.Result
		want    Theme
		wantErr bool
	}{
		{"prefer dark", command.Result{Status: command.Success, Lines: []string{"'prefer-dark'"}}, Dark, false},
		{"prefer light", command.Result{Status: command.Success, Lines: []string{"'prefer-light'"}}, Light, false},
		{"default", command.Result{Status: command.Success, Lines: []string{"", "'default'"}}, Light, false},
		{"empty output", command.Result{Status: command.Success, Lines: []string{""}}, Light, true},
		{"command failure", command.Result{Status: command.Failure}, Light, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &scriptedRunner{result: tt.result}
			src := NewGSettingsSource(runner, time.Second)

			got, err := src.Current(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{gsettingsColorScheme}, runner.lines)
		})
	}
}

func TestChain(t *testing.T) {
	t.Run("first success wins", func(t *testing.T) {
		first := &staticSource{theme: Dark}
		second := &staticSource{theme: Light}
		got, err := NewChain(discardLogger(), first, second).Current(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Dark, got)
		assert.Equal(t, 0, second.calls)
	})

	t.Run("falls back on error", func(t *testing.T) {
		first := &staticSource{err: errors.New("portal missing")}
		second := &staticSource{theme: Dark}
		got, err := NewChain(discardLogger(), first, second).Current(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Dark, got)
	})

	t.Run("all fail", func(t *testing.T) {
		boom := errors.New("gsettings missing")
		got, err := NewChain(discardLogger(), &staticSource{err: errors.New("x")}, &staticSource{err: boom}).Current(context.Background())
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, Light, got)
	})

	t.Run("empty chain", func(t *testing.T) {
		_, err := NewChain(discardLogger()).Current(context.Background())
		assert.True(t, perrors.IsNotFound(err))
	})
}

func TestDetect(t *testing.T) {
	assert.Equal(t, Dark, Detect(context.Background(), discardLogger(), &staticSource{theme: Dark}))
	assert.Equal(t, Light, Detect(context.Background(), discardLogger(), &staticSource{theme: Dark, err: errors.New("x")}))
}
