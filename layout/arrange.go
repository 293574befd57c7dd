package layout

import (
	"strings"
	"unicode"
)

// Arrange 将片段排成行并确定位置。
//
// 每个片段是不可拆分的行内单元：换行只发生在片段之间；单个片段比字幕框还宽时独占一行并溢出。
// 片段内的空白（包括 '\n'）折叠为一个空格，不会产生换行。
// 各行在字幕框内水平居中，框底固定在距容器底边 BottomOffset 处，内容向上堆叠。
func Arrange(chunks []string, m Measurer, opts Options) Block {
	left := (opts.ContainerWidth - opts.BoxWidth) / 2
	bottom := opts.ContainerHeight - opts.BottomOffset
	block := Block{
		X:      left,
		Y:      bottom,
		Width:  opts.BoxWidth,
		Bottom: bottom,
	}

	lines := wrapChunks(chunks, opts.BoxWidth, m)
	if len(lines) == 0 {
		return block
	}

	metrics := m.Metrics()
	halfLeading := (opts.LineHeight - (metrics.Ascent + metrics.Descent)) / 2

	block.Height = float64(len(lines)) * opts.LineHeight
	block.Y = bottom - block.Height
	cursor := block.Y
	for i := range lines {
		ln := &lines[i]
		ln.Height = opts.LineHeight
		ln.Top = cursor
		ln.Baseline = cursor + halfLeading + metrics.Ascent
		ln.X = left + alignOffset(opts.BoxWidth, ln.Width)
		ln.Overflow = ln.Width > opts.BoxWidth
		cursor += opts.LineHeight
	}
	block.Lines = lines
	return block
}

// alignOffset 返回居中偏移；溢出的行从框左边缘开始。
func alignOffset(container, width float64) float64 {
	if width >= container {
		return 0
	}
	return (container - width) / 2
}

// wrapChunks 贪心换行：当前行放不下下一个片段时另起一行。
// 空白按 CSS white-space: normal 折叠：连续空白（含 '\n'）视为一个空格，行首行尾空白不计宽度也不绘制。
// 只含空白的行被丢弃。
func wrapChunks(chunks []string, limit float64, m Measurer) []Line {
	var lines []Line
	var current []string

	emit := func() {
		if len(current) == 0 {
			return
		}
		content := lineContent(current)
		if content != "" {
			lines = append(lines, Line{
				Chunks:  current,
				Content: content,
				Width:   m.TextWidth(content),
			})
		}
		current = nil
	}

	fits := func(next string) bool {
		return m.TextWidth(lineContent(append(current[:len(current):len(current)], next))) <= limit
	}

	for _, chunk := range chunks {
		if chunk == "" {
			continue
		}
		if len(current) > 0 && !fits(chunk) {
			emit()
		}
		current = append(current, chunk)
	}
	emit()
	return lines
}

// lineContent 拼接一行的片段并折叠空白。
func lineContent(chunks []string) string {
	return strings.Join(strings.FieldsFunc(strings.Join(chunks, ""), unicode.IsSpace), " ")
}
