package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(zapcore.AddSync(&buf), zapcore.InfoLevel)
	log.Debugw("hidden", "k", 1)
	log.Infow("shown", "frame", 12)
	_ = log.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, `"frame": 12`) {
		t.Fatalf("info entry missing fields: %q", out)
	}
}

func TestNopDiscards(t *testing.T) {
	Nop().Infow("nothing", "k", "v")
}
