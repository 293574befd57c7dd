package layout

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

// stubMeasurer 是一个最小实现：每个字符宽 10 像素，不依赖真实字体。
type stubMeasurer struct{}

func (stubMeasurer) TextWidth(s string) float64 { return float64(utf8.RuneCountInString(s)) * 10 }

func (stubMeasurer) Metrics() Metrics { return Metrics{Ascent: 40, Descent: 10} }

func defaultOptions() Options {
	return Options{
		ContainerWidth:  1000,
		ContainerHeight: 600,
		BoxWidth:        100,
		BottomOffset:    50,
		LineHeight:      75,
	}
}

func TestArrangeNeverBreaksInsideChunk(t *testing.T) {
	chunks := []string{"今日は", "とても", "天気が", "良いので、", "散歩に", "行きましょう。"}
	block := Arrange(chunks, stubMeasurer{}, defaultOptions())

	var rebuilt []string
	for _, ln := range block.Lines {
		rebuilt = append(rebuilt, ln.Chunks...)
	}
	if strings.Join(rebuilt, "|") != strings.Join(chunks, "|") {
		t.Fatalf("chunks were split or reordered: %q", rebuilt)
	}
	if len(block.Lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(block.Lines))
	}
	for i, ln := range block.Lines {
		if ln.Width > 100 && len(ln.Chunks) > 1 {
			t.Fatalf("line %d exceeds box with several chunks: %+v", i, ln)
		}
	}
}

func TestArrangeOversizedChunkOverflowsAlone(t *testing.T) {
	chunks := []string{"短い", "とてもとても長い片段でございます", "終わり"}
	block := Arrange(chunks, stubMeasurer{}, defaultOptions())
	if len(block.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %+v", len(block.Lines), block.Lines)
	}
	long := block.Lines[1]
	if len(long.Chunks) != 1 || !long.Overflow {
		t.Fatalf("oversized chunk should sit alone and overflow: %+v", long)
	}
	if long.X != block.X {
		t.Fatalf("overflowing line should start at box left %g, got %g", block.X, long.X)
	}
}

func TestArrangeCentersLinesAndAnchorsBottom(t *testing.T) {
	opts := defaultOptions()
	block := Arrange([]string{"abc"}, stubMeasurer{}, opts)

	if block.X != 450 {
		t.Fatalf("box should be horizontally centered at x=450, got %g", block.X)
	}
	if block.Bottom != 550 {
		t.Fatalf("box bottom should be 550, got %g", block.Bottom)
	}
	if len(block.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(block.Lines))
	}
	ln := block.Lines[0]
	if ln.Width != 30 || ln.X != 485 {
		t.Fatalf("line not centered: width=%g x=%g", ln.Width, ln.X)
	}
	if ln.Top != 475 || block.Y != 475 {
		t.Fatalf("line should sit directly above the bottom edge: top=%g", ln.Top)
	}
	// 半行距 (75-50)/2 = 12.5，基线 = 475 + 12.5 + 40
	if math.Abs(ln.Baseline-527.5) > 1e-9 {
		t.Fatalf("unexpected baseline %g", ln.Baseline)
	}
}

func TestArrangeEmptyTextKeepsPositionedBox(t *testing.T) {
	block := Arrange(nil, stubMeasurer{}, defaultOptions())
	if len(block.Lines) != 0 || block.ChunkCount() != 0 {
		t.Fatalf("expected no lines, got %+v", block.Lines)
	}
	if block.Height != 0 || block.Y != block.Bottom || block.Bottom != 550 {
		t.Fatalf("empty block should collapse onto the bottom edge: %+v", block)
	}
	if block.Width != 100 {
		t.Fatalf("empty block keeps its width, got %g", block.Width)
	}
}

func TestArrangeKeepsChunkWithNewlineOnOneLine(t *testing.T) {
	block := Arrange([]string{"改行を\n含む"}, stubMeasurer{}, defaultOptions())
	if len(block.Lines) != 1 {
		t.Fatalf("single chunk broken into %d lines: %+v", len(block.Lines), block.Lines)
	}
	ln := block.Lines[0]
	if len(ln.Chunks) != 1 || ln.Content != "改行を 含む" || ln.Width != 60 {
		t.Fatalf("newline should collapse to a space: %+v", ln)
	}
}

func TestArrangeCollapsesWhitespaceRuns(t *testing.T) {
	block := Arrange([]string{"  foo \n\t ", " bar  "}, stubMeasurer{}, defaultOptions())
	if len(block.Lines) != 1 || block.Lines[0].Content != "foo bar" {
		t.Fatalf("unexpected lines %+v", block.Lines)
	}
}

func TestArrangeWhitespaceOnlyTextIsEmpty(t *testing.T) {
	for _, chunks := range [][]string{{"   "}, {" ", "\n", "\t"}} {
		block := Arrange(chunks, stubMeasurer{}, defaultOptions())
		if len(block.Lines) != 0 || block.Height != 0 || block.Y != block.Bottom {
			t.Fatalf("%q: whitespace-only text should collapse to an empty box: %+v", chunks, block)
		}
	}
}

func TestArrangeIgnoresTrailingSpaceWhenFitting(t *testing.T) {
	// "aaaaa " + "bbbbb" 去掉空白后恰好 11 个字符，放不下；"aaaa " + "bbbbb" 恰好 10 个字符。
	block := Arrange([]string{"aaaa ", "bbbbb"}, stubMeasurer{}, defaultOptions())
	if len(block.Lines) != 1 {
		t.Fatalf("expected chunks to share a line, got %d", len(block.Lines))
	}
	block = Arrange([]string{"aaaaa ", "bbbbb "}, stubMeasurer{}, defaultOptions())
	if len(block.Lines) != 2 {
		t.Fatalf("expected two lines, got %d", len(block.Lines))
	}
	if block.Lines[0].Content != "aaaaa" || block.Lines[0].Width != 50 {
		t.Fatalf("trailing space should not count: %+v", block.Lines[0])
	}
}
