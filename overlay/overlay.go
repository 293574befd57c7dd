// Package overlay 根据设置、角色与帧时钟合成字幕叠加层的描述。
//
// 合成结果只依赖 (text, character, frame, fps, settings)，不保存任何跨帧状态，
// 因此任意顺序、任意次数地渲染同一帧都得到相同结果。
package overlay

import (
	"fmt"
	"math"

	"github.com/ByLCY/telop/layout"
	"github.com/ByLCY/telop/segment"
	"github.com/ByLCY/telop/settings"
)

const (
	// FadeInSeconds 是淡入时长，从叠加层本地时间 0 开始计算。
	FadeInSeconds = 0.15
	// LineHeight 是行高相对字号的倍数。
	LineHeight = 1.5
)

// FallbackFamilies 依次排在设置的字体之后；sans-serif 是最终的通用字体。
var FallbackFamilies = []string{"Hiragino Kaku Gothic ProN", "sans-serif"}

// Request 是一次渲染的输入。
type Request struct {
	Text      string             `json:"text"`
	Character settings.Character `json:"character"`
}

// Clock 是宿主提供的帧时钟。
type Clock struct {
	Frame int     `json:"frame"`
	FPS   float64 `json:"fps"`
}

// Seconds 返回当前帧对应的本地时间。
func (c Clock) Seconds() float64 {
	if c.FPS <= 0 {
		return 0
	}
	return float64(c.Frame) / c.FPS
}

// Layer 标识三层文字中的一层。
type Layer int

const (
	OuterOutline Layer = iota
	InnerOutline
	Fill
)

// DrawOrder 是绘制顺序：外描边在最下，其上是内描边，最上是填充文字。
var DrawOrder = [3]Layer{OuterOutline, InnerOutline, Fill}

func (l Layer) String() string {
	switch l {
	case OuterOutline:
		return "outer-outline"
	case InnerOutline:
		return "inner-outline"
	case Fill:
		return "fill"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Layer) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Layer) UnmarshalText(text []byte) error {
	for _, kind := range DrawOrder {
		if kind.String() == string(text) {
			*l = kind
			return nil
		}
	}
	return fmt.Errorf("未知文字层 %q", text)
}

// Stroke 描述描边。描边先于填充绘制。
type Stroke struct {
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

// TextStyle 是一层文字的最终样式，颜色均已解析为字面值。
type TextStyle struct {
	FontSize     float64  `json:"fontSize"`
	FontWeight   int      `json:"fontWeight"`
	LineHeight   float64  `json:"lineHeight"` // 字号倍数
	FontFamilies []string `json:"fontFamilies"`
	Color        string   `json:"color"` // 填充色；描边层为 transparent
	Stroke       *Stroke  `json:"stroke,omitempty"`
}

// LineHeightPx 返回行盒高度（像素）。
func (s TextStyle) LineHeightPx() float64 {
	return layout.LineHeightSpec{Factor: s.LineHeight}.Resolve(s.FontSize)
}

// TextLayer 是一份分段文字及其样式。
type TextLayer struct {
	Kind   Layer     `json:"kind"`
	Style  TextStyle `json:"style"`
	Chunks []string  `json:"chunks"`
}

// Box 描述字幕框：水平居中，底边距容器底边 BottomOffset。
type Box struct {
	BottomOffset float64 `json:"bottomOffset"`
	WidthPercent float64 `json:"widthPercent"`
	MaxWidth     float64 `json:"maxWidth"`
}

// Width 返回 min(WidthPercent% × containerWidth, MaxWidth)。
func (b Box) Width(containerWidth float64) float64 {
	return math.Min(containerWidth*b.WidthPercent/100, b.MaxWidth)
}

// Overlay 是一帧字幕叠加层的完整描述。Layers 按 DrawOrder 排列。
type Overlay struct {
	Request
	Clock   Clock        `json:"clock"`
	Opacity float64      `json:"opacity"`
	Box     Box          `json:"box"`
	Layers  [3]TextLayer `json:"layers"`
}

// Chunks 返回填充层的片段；三层文字相同。
func (o Overlay) Chunks() []string { return o.Layers[len(o.Layers)-1].Chunks }

// Opacity 在本地时间前 0.15 秒内从 0 线性升到 1，之后保持为 1。
func Opacity(c Clock) float64 {
	v := Interpolate(float64(c.Frame), [2]float64{0, c.FPS * FadeInSeconds}, [2]float64{0, 1},
		InterpolateOptions{Right: Clamp})
	return clamp01(v)
}

// Compose 合成一帧叠加层。三层文字各自向 seg 请求分段；传入 segment.Cache 可避免重复分词。
func Compose(req Request, clock Clock, cfg *settings.Settings, seg segment.Segmenter) Overlay {
	font := cfg.Font
	colors := cfg.Colors

	base := TextStyle{
		FontSize:     font.Size,
		FontWeight:   font.Weight,
		LineHeight:   LineHeight,
		FontFamilies: familyChain(font.Family),
	}

	ov := Overlay{
		Request: req,
		Clock:   clock,
		Opacity: Opacity(clock),
		Box: Box{
			BottomOffset: cfg.Subtitle.BottomOffset,
			WidthPercent: cfg.Subtitle.MaxWidthPercent,
			MaxWidth:     cfg.Subtitle.MaxWidthPixels,
		},
	}

	for i, kind := range DrawOrder {
		style := base
		switch kind {
		case OuterOutline:
			style.Color = settings.Transparent
			style.Stroke = &Stroke{
				Width: cfg.Subtitle.OutlineWidth,
				Color: font.OutlineColor.Resolve(req.Character, colors),
			}
		case InnerOutline:
			style.Color = settings.Transparent
			style.Stroke = &Stroke{
				Width: cfg.Subtitle.InnerOutlineWidth,
				Color: font.InnerOutlineColor.Resolve(req.Character, colors),
			}
		case Fill:
			style.Color = font.Color.Resolve(req.Character, colors)
		}
		ov.Layers[i] = TextLayer{
			Kind:   kind,
			Style:  style,
			Chunks: segmentText(seg, req.Text),
		}
	}
	return ov
}

func segmentText(seg segment.Segmenter, text string) []string {
	if text == "" || seg == nil {
		return nil
	}
	return seg.Parse(text)
}

func familyChain(family string) []string {
	chain := make([]string, 0, len(FallbackFamilies)+1)
	if family != "" {
		chain = append(chain, family)
	}
	return append(chain, FallbackFamilies...)
}
