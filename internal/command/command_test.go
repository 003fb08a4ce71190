package command

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	perrors "github.com/jmylchreest/pprofiler/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner() *ExecRunner {
	return NewExecRunner(slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil)))
}

func TestRun_CapturesTrimmedLines(t *testing.T) {
	r := newTestRunner()

	res := r.Run(context.Background(), `printf 'performance\n  *balanced:  \n\npower-saver\n'`, 2*time.Second)

	require.True(t, res.OK(), "unexpected failure: %v", res.Err)
	assert.Equal(t, Success, res.Status)
	assert.Equal(t, []string{"performance", "*balanced:", "", "power-saver"}, res.Lines)
	assert.False(t, res.TimedOut)
	assert.NoError(t, res.Err)
}

func TestRun_NonZeroExitIsFailure(t *testing.T) {
	r := newTestRunner()

	res := r.Run(context.Background(), `sh -c 'echo partial; exit 3'`, 2*time.Second)

	assert.False(t, res.OK())
	assert.Equal(t, Failure, res.Status)
	assert.False(t, res.TimedOut)
	assert.Equal(t, []string{"partial"}, res.Lines)
	assert.Error(t, res.Err)
}

func TestRun_StderrIsDiscarded(t *testing.T) {
	r := newTestRunner()

	res := r.Run(context.Background(), `sh -c 'echo noise 1>&2; echo balanced'`, 2*time.Second)

	require.True(t, res.OK())
	assert.Equal(t, []string{"balanced"}, res.Lines)
}

func TestRun_TimeoutKillsProcess(t *testing.T) {
	r := newTestRunner()

	start := time.Now()
	res := r.Run(context.Background(), `sh -c 'echo early; sleep 5'`, 200*time.Millisecond)

	assert.Less(t, time.Since(start), 3*time.Second)
	assert.Equal(t, Failure, res.Status)
	assert.True(t, res.TimedOut)
	assert.Empty(t, res.Lines)
	assert.True(t, perrors.IsCommandFailed(res.Err))
	assert.True(t, perrors.IsTimeout(res.Err))
}

func TestRun_MissingBinary(t *testing.T) {
	r := newTestRunner()

	res := r.Run(context.Background(), "/nonexistent/powerprofilesctl get", time.Second)

	assert.Equal(t, Failure, res.Status)
	assert.False(t, res.TimedOut)
	assert.Empty(t, res.Lines)
	assert.Error(t, res.Err)
}

func TestRun_InvalidCommandLine(t *testing.T) {
	r := newTestRunner()

	for _, line := range []string{"", "   ", `echo 'unterminated`} {
		res := r.Run(context.Background(), line, time.Second)
		assert.Equal(t, Failure, res.Status, "command line %q", line)
		assert.True(t, perrors.IsInvalidInput(res.Err), "command line %q", line)
	}
}

func TestRun_QuotedArgumentIsNotInterpreted(t *testing.T) {
	r := newTestRunner()

	res := r.Run(context.Background(), "printf %s "+Quote("$HOME; echo injected"), time.Second)

	require.True(t, res.OK())
	assert.Equal(t, []string{"$HOME; echo injected"}, res.Lines)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "/usr/bin/powerprofilesctl list", []string{"/usr/bin/powerprofilesctl", "list"}},
		{"double quoted", `"/opt/my tools/ppctl" get`, []string{"/opt/my tools/ppctl", "get"}},
		{"single quoted", `ppctl set 'power-saver'`, []string{"ppctl", "set", "power-saver"}},
		{"extra spaces", "  ppctl   get  ", []string{"ppctl", "get"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	for _, arg := range []string{"balanced", "power saver", "it's", `a"b`, `back\slash`, "#hash"} {
		t.Run(arg, func(t *testing.T) {
			got, err := Split("ppctl set " + Quote(arg))
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, arg, got[2])
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"single newline", "\n", []string{""}},
		{"trailing newline", "balanced\n", []string{"balanced"}},
		{"blank lines kept", "a\n\n  b \n", []string{"a", "", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.in))
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "failure", Failure.String())
}
