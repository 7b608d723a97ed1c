package ihero

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/ihero/caps"
)

// captureLogs routes every package logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestLoggerDefaultSilent(t *testing.T) {
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if Logger().Enabled(context.Background(), level) {
			t.Errorf("default logger enabled for %v", level)
		}
	}
}

func TestMountLifecycleIsLogged(t *testing.T) {
	buf := captureLogs(t)

	f := newMountFixture(t, "https://example.com/")
	h := f.mount(t)
	h.Destroy()

	for _, want := range []string{"caps: probed", "ihero: mounted", "ihero: stage destroyed"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log output missing %q, got: %s", want, buf.String())
		}
	}
}

func TestSetLoggerNilSilencesSubPackages(t *testing.T) {
	buf := captureLogs(t)
	SetLogger(nil)

	caps.Probe(caps.StaticEnv{DPR: 1})
	f := newMountFixture(t, "https://example.com/")
	f.mount(t)

	if buf.Len() != 0 {
		t.Errorf("SetLogger(nil) left output enabled: %s", buf.String())
	}
	if Logger() == nil {
		t.Error("Logger() = nil after SetLogger(nil)")
	}
}
