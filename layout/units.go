package layout

// 渲染器以 1 像素 = 1 毫米的分辨率光栅化画布，因此像素值可以直接作为画布的毫米坐标使用；
// 只有字号需要换算为字体系统使用的 pt。

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// PxToPt 将像素字号换算为 pt。
func PxToPt(px float64) float64 { return px * MmToPt }

// PtToPx 将 pt 换算为像素。
func PtToPx(pt float64) float64 { return pt * PtToMm }

// LineHeightSpec 以字号倍数描述行高，例如 1.5。
type LineHeightSpec struct {
	Factor float64 `json:"factor"`
}

// Resolve 计算给定字号下的行盒高度；未指定倍数时按 1.4 处理。
func (s LineHeightSpec) Resolve(fontSize float64) float64 {
	if s.Factor <= 0 {
		return fontSize * 1.4
	}
	return fontSize * s.Factor
}
