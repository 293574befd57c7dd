package layout

// Measurer 负责测量文本宽度并提供字体度量，由渲染器基于真实字体实现。
type Measurer interface {
	TextWidth(s string) float64
	Metrics() Metrics
}

// Metrics 描述字体在当前字号下的上升部与下降部（像素，均为正值）。
type Metrics struct {
	Ascent  float64 `json:"ascent"`
	Descent float64 `json:"descent"`
}

// Options 描述一次排版的容器与字幕框约束。
type Options struct {
	ContainerWidth  float64
	ContainerHeight float64
	BoxWidth        float64 // 已经按百分比与像素上限取过最小值
	BottomOffset    float64 // 框底距离容器底边
	LineHeight      float64 // 行盒高度（像素）
}
