package script_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/telop/script"
	"github.com/ByLCY/telop/settings"
)

const sampleScript = `
# 第一幕
zundamon 0.0 -> 2.5 "こんにちは、ずんだもんなのだ"
// 四国めたん
metan    2.5s -> 5  "よろしくね"

zundamon 5 -> 6.25 "二行目は\nここから"
`

func TestParseScript(t *testing.T) {
	s, err := script.ParseString(sampleScript)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(s.Cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(s.Cues))
	}
	first := s.Cues[0]
	if first.Character != settings.Zundamon || first.Start != 0 || first.End != 2.5 {
		t.Fatalf("unexpected first cue %+v", first)
	}
	if first.Text != "こんにちは、ずんだもんなのだ" {
		t.Fatalf("unexpected text %q", first.Text)
	}
	if s.Cues[1].Character != settings.Metan || s.Cues[1].Start != 2.5 {
		t.Fatalf("unexpected second cue %+v", s.Cues[1])
	}
	if s.Cues[2].Text != "二行目は\nここから" {
		t.Fatalf("escape sequences should be unquoted, got %q", s.Cues[2].Text)
	}
	if s.Duration() != 6.25 {
		t.Fatalf("unexpected duration %g", s.Duration())
	}
	if got := s.FrameCount(30); got != 188 {
		t.Fatalf("expected 188 frames, got %d", got)
	}
}

func TestParseSortsByStart(t *testing.T) {
	s, err := script.ParseString("metan 3 -> 4 \"b\"\nzundamon 1 -> 2 \"a\"")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if s.Cues[0].Text != "a" || s.Cues[1].Text != "b" {
		t.Fatalf("cues not sorted: %+v", s.Cues)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unknown speaker", `tsumugi 0 -> 1 "x"`, "tsumugi"},
		{"end before start", `zundamon 2 -> 1 "x"`, "1:1"},
		{"missing arrow", `zundamon 0 1 "x"`, ""},
		{"negative start", `zundamon -1 -> 1 "x"`, ""},
		{"unterminated string", `zundamon 0 -> 1 "x`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := script.ParseString(tt.input)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestAtSelectsActiveCue(t *testing.T) {
	s, err := script.ParseString(sampleScript)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	tests := []struct {
		frame int
		text  string
		ok    bool
	}{
		{0, "こんにちは、ずんだもんなのだ", true},
		{74, "こんにちは、ずんだもんなのだ", true},
		{75, "よろしくね", true},
		{149, "よろしくね", true},
		{150, "二行目は\nここから", true},
		{188, "", false},
	}
	for _, tt := range tests {
		cue, ok := s.At(tt.frame, 30)
		if ok != tt.ok || cue.Text != tt.text {
			t.Fatalf("frame %d: got (%q, %v), want (%q, %v)", tt.frame, cue.Text, ok, tt.text, tt.ok)
		}
	}
}

func TestAtPrefersLaterCueOnOverlap(t *testing.T) {
	s, err := script.ParseString("zundamon 0 -> 3 \"a\"\nmetan 1 -> 2 \"b\"")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cue, _ := s.At(45, 30); cue.Text != "b" {
		t.Fatalf("expected overlapping later cue, got %q", cue.Text)
	}
	if cue, _ := s.At(75, 30); cue.Text != "a" {
		t.Fatalf("expected first cue after overlap, got %q", cue.Text)
	}
}
