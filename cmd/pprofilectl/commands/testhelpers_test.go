package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"regexp"

	"github.com/jmylchreest/pprofiler/internal/config"
	"github.com/jmylchreest/pprofiler/internal/profile"
	"github.com/pterm/pterm"
)

// captureStdout captures stdout during the execution of f, disables pterm color, and strips ANSI codes from the output.
func captureStdout(f func()) string {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Save original pterm settings and writers
	oldPrintColor := pterm.PrintColor
	oldOutput := pterm.Output
	oldDefaultTableWriter := pterm.DefaultTable.Writer
	oldSuccessWriter := pterm.Success.Writer
	oldInfoWriter := pterm.Info.Writer

	pterm.PrintColor = false
	pterm.Output = true
	pterm.DefaultTable.Writer = w
	pterm.Success.Writer = w
	pterm.Info.Writer = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	f()

	w.Close()
	os.Stdout = oldStdout

	// Restore pterm
	pterm.PrintColor = oldPrintColor
	pterm.Output = oldOutput
	pterm.DefaultTable.Writer = oldDefaultTableWriter
	pterm.Success.Writer = oldSuccessWriter
	pterm.Info.Writer = oldInfoWriter

	out := <-outC

	// Strip ANSI escape codes
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(out, "")
}

// mockClient implements ProfileClient for CLI tests.
type mockClient struct {
	profiles []profile.Profile
	listOK   bool
	active   profile.Profile
	activeOK bool
	setOK    bool
	sets     []profile.Profile
}

var _ ProfileClient = (*mockClient)(nil)

func newMockClient() *mockClient {
	return &mockClient{
		profiles: []profile.Profile{"performance", "balanced", "power-saver"},
		listOK:   true,
		active:   "balanced",
		activeOK: true,
		setOK:    true,
	}
}

func (m *mockClient) List(ctx context.Context) ([]profile.Profile, bool) {
	return m.profiles, m.listOK
}

func (m *mockClient) Active(ctx context.Context) (profile.Profile, bool) {
	return m.active, m.activeOK
}

func (m *mockClient) Set(ctx context.Context, name profile.Profile) bool {
	m.sets = append(m.sets, name)
	return m.setOK
}

// testContext returns a context carrying the mock client and cfg.
func testContext(c ProfileClient, cfg config.Config) context.Context {
	ctx := context.WithValue(context.Background(), ClientContextKey, c)
	return context.WithValue(ctx, ConfigContextKey, cfg)
}

// run executes the root command with args and returns stdout and the error.
func run(c ProfileClient, args ...string) (string, error) {
	root := NewRootCommand("1.0", "abc123", "2025-01-01")
	root.SetArgs(args)
	root.SilenceErrors = true
	var err error
	out := captureStdout(func() {
		err = root.ExecuteContext(testContext(c, config.Default()))
	})
	return out, err
}
