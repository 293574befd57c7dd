package cli

import (
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ByLCY/telop/settings"
)

func TestRequestFromFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    settings.Character
		frame   int
		wantErr bool
	}{
		{"defaults", nil, settings.Zundamon, 0, false},
		{"metan", []string{"--character", "metan", "--frame", "4"}, settings.Metan, 4, false},
		{"case insensitive", []string{"-c", " Metan "}, settings.Metan, 0, false},
		{"unknown character", []string{"-c", "tsumugi"}, "", 0, true},
		{"negative frame", []string{"--frame=-1"}, "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "test"}
			addRequestFlags(cmd)
			if err := cmd.ParseFlags(append([]string{"--text", "hi"}, tt.args...)); err != nil {
				t.Fatalf("parse flags: %v", err)
			}
			req, clock, err := requestFromFlags(cmd, 30)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Character != tt.want || clock.Frame != tt.frame || clock.FPS != 30 || req.Text != "hi" {
				t.Fatalf("unexpected request %+v / %+v", req, clock)
			}
		})
	}
}

func TestStillWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "still.png")
	rootCmd.SetArgs([]string{"still", "--text", "Hello", "--frame", "9",
		"--width", "320", "--height", "180", "-o", out})
	if err := Execute(); err != nil {
		t.Fatalf("still failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 180 {
		t.Fatalf("unexpected size %v", b)
	}
}

func TestLayoutDumpsJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "layout.json")
	rootCmd.SetArgs([]string{"layout", "--text", "Hello world", "-c", "metan", "--frame", "9",
		"--width", "320", "--height", "180", "-o", out})
	if err := Execute(); err != nil {
		t.Fatalf("layout failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var dump layoutDump
	if err := json.Unmarshal(data, &dump); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if dump.Overlay.Character != settings.Metan || dump.Overlay.Opacity != 1 {
		t.Fatalf("unexpected overlay %+v", dump.Overlay)
	}
	if len(dump.Block.Lines) == 0 || dump.Block.Bottom != 180-settings.Default().Subtitle.BottomOffset {
		t.Fatalf("unexpected block %+v", dump.Block)
	}
}
