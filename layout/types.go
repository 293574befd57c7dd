package layout

// 该文件定义字幕排版结果，供渲染与调试 JSON 共用。坐标单位均为像素，原点在画面左上角。

// Block 是排好位置的一段字幕文字。
type Block struct {
	X      float64 `json:"x"`      // 字幕框左边缘
	Y      float64 `json:"y"`      // 首行顶部；无内容时等于框底
	Width  float64 `json:"width"`  // 字幕框宽度（宽度上限）
	Height float64 `json:"height"` // 所有行高之和
	Bottom float64 `json:"bottom"` // 字幕框底边
	Lines  []Line  `json:"lines"`
}

// Line 表示排版后的一行，由若干完整片段组成。
type Line struct {
	Chunks   []string `json:"chunks"`
	Content  string   `json:"content"`  // 用于绘制的文本（去掉行尾空白）
	Width    float64  `json:"width"`    // Content 的宽度
	X        float64  `json:"x"`        // 居中后的行起点
	Top      float64  `json:"top"`      // 行盒顶部
	Baseline float64  `json:"baseline"` // 基线位置
	Height   float64  `json:"height"`   // 行盒高度
	Overflow bool     `json:"overflow,omitempty"`
}

// ChunkCount 返回整个块中的片段数。
func (b Block) ChunkCount() int {
	n := 0
	for _, ln := range b.Lines {
		n += len(ln.Chunks)
	}
	return n
}
