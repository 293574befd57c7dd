package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	xdraw "golang.org/x/image/draw"

	"github.com/ByLCY/telop/fonts"
	"github.com/ByLCY/telop/layout"
	"github.com/ByLCY/telop/overlay"
	"github.com/ByLCY/telop/renderer"
	"github.com/ByLCY/telop/settings"
)

// Renderer draws subtitle overlays via github.com/tdewolff/canvas.
//
// 画布以 1 毫米 = 1 像素光栅化，布局结果中的像素坐标可直接用作画布坐标。
// 字体族缓存可并发访问；绘制用到的字体对象不保证并发安全，并发渲染时每个 goroutine 应使用独立的 Renderer。
type Renderer struct {
	baseDir string

	// injected resources
	fontBlobs map[string][]byte // by family name
	fontPaths map[string]string // by family name

	// findSystemFont 按 family 名称查找已安装字体的文件路径
	findSystemFont func(name string, style canvas.FontStyle) (string, bool)

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = faceMeasurer{}
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string              // 相对字体路径的根目录
	Fonts   map[string]Resource // family 名称 -> 字体资源
	// FindSystemFont 查找未在 Fonts 中配置的 family；为空时使用 canvas.FindSystemFont。
	FindSystemFont func(name string, style canvas.FontStyle) (string, bool)
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a renderer that resolves font families through the
// settings' family -> file map, relative to baseDir.
func NewRenderer(fontFiles map[string]string, baseDir string) *Renderer {
	res := make(map[string]Resource, len(fontFiles))
	for name, path := range fontFiles {
		res[name] = Resource{Path: path}
	}
	return NewRendererWithOptions(Options{BaseDir: baseDir, Fonts: res})
}

// NewRendererWithOptions creates a renderer with injected font resources.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		fontBlobs:    map[string][]byte{},
		fontPaths:    map[string]string{},
		fontFamilies: map[string]*fontFamilyEntry{},

		findSystemFont: opts.FindSystemFont,
	}
	if r.findSystemFont == nil {
		r.findSystemFont = canvas.FindSystemFont
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			r.fontPaths[name] = res.Path
		}
	}
	return r
}

// Render 绘制一帧叠加层：三层文字以完全不透明的方式绘制后，整体按 Opacity 合成到透明画面上。
func (r *Renderer) Render(ov overlay.Overlay, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("画面尺寸无效: %dx%d", width, height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	alpha := uint8(math.Round(clamp01(ov.Opacity) * 255))
	if alpha == 0 {
		return dst, nil
	}

	layers, err := r.drawLayers(ov, width, height)
	if err != nil {
		return nil, err
	}
	mask := image.NewUniform(color.Alpha{A: alpha})
	xdraw.DrawMask(dst, dst.Bounds(), layers, layers.Bounds().Min, mask, image.Point{}, xdraw.Over)
	return dst, nil
}

// Arrange 使用真实字体对叠加层排版，返回各行位置。
func (r *Renderer) Arrange(ov overlay.Overlay, width, height int) (layout.Block, error) {
	fill := ov.Layers[len(ov.Layers)-1]
	face, err := r.fontFace(fill.Style, color.Black)
	if err != nil {
		return layout.Block{}, err
	}
	return arrange(ov, fill.Chunks, face, width, height), nil
}

func arrange(ov overlay.Overlay, chunks []string, face *canvas.FontFace, width, height int) layout.Block {
	fill := ov.Layers[len(ov.Layers)-1]
	return layout.Arrange(chunks, faceMeasurer{face: face}, layout.Options{
		ContainerWidth:  float64(width),
		ContainerHeight: float64(height),
		BoxWidth:        ov.Box.Width(float64(width)),
		BottomOffset:    ov.Box.BottomOffset,
		LineHeight:      fill.Style.LineHeightPx(),
	})
}

func (r *Renderer) drawLayers(ov overlay.Overlay, width, height int) (*image.RGBA, error) {
	c := canvas.New(float64(width), float64(height))
	ctx := canvas.NewContext(c)
	ctx.SetStrokeJoiner(canvas.RoundJoin)
	ctx.SetStrokeCapper(canvas.RoundCap)

	// 三层文字位置完全一致：只用填充层排一次版。
	block, err := r.Arrange(ov, width, height)
	if err != nil {
		return nil, err
	}

	for _, kind := range overlay.DrawOrder {
		layer, ok := findLayer(ov, kind)
		if !ok {
			continue
		}
		if err := r.drawLayer(ctx, layer, block, float64(height)); err != nil {
			return nil, fmt.Errorf("绘制 %s 层失败: %w", kind, err)
		}
	}
	return rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace), nil
}

func (r *Renderer) drawLayer(ctx *canvas.Context, layer overlay.TextLayer, block layout.Block, height float64) error {
	style := layer.Style
	fill, err := settings.ParseColor(style.Color)
	if err != nil {
		return err
	}
	face, err := r.fontFace(style, fill)
	if err != nil {
		return err
	}

	ctx.SetFillColor(fill)
	if style.Stroke != nil && style.Stroke.Width > 0 {
		stroke, err := settings.ParseColor(style.Stroke.Color)
		if err != nil {
			return err
		}
		ctx.SetStrokeColor(stroke)
		ctx.SetStrokeWidth(style.Stroke.Width)
	} else {
		ctx.SetStrokeColor(color.RGBA{})
		ctx.SetStrokeWidth(0)
	}

	for _, line := range block.Lines {
		if line.Content == "" {
			continue
		}
		path, _, err := face.ToPath(line.Content)
		if err != nil {
			return fmt.Errorf("生成 %q 的字形路径失败: %w", line.Content, err)
		}
		// 画布坐标系原点在左下角，基线需要从自上而下的布局坐标翻转过来。
		ctx.DrawPath(line.X, height-line.Baseline, path)
	}
	return nil
}

func findLayer(ov overlay.Overlay, kind overlay.Layer) (overlay.TextLayer, bool) {
	for _, layer := range ov.Layers {
		if layer.Kind == kind {
			return layer, true
		}
	}
	return overlay.TextLayer{}, false
}

// faceMeasurer 让 canvas 字体面满足 layout.Measurer。
type faceMeasurer struct {
	face *canvas.FontFace
}

func (m faceMeasurer) TextWidth(s string) float64 { return m.face.TextWidth(s) }

func (m faceMeasurer) Metrics() layout.Metrics {
	fm := m.face.Metrics()
	return layout.Metrics{Ascent: math.Abs(fm.Ascent), Descent: math.Abs(fm.Descent)}
}

func (r *Renderer) fontFace(style overlay.TextStyle, col color.Color) (*canvas.FontFace, error) {
	family, fontStyle, err := r.ensureFontFamily(style.FontFamilies, style.FontWeight)
	if err != nil {
		return nil, err
	}
	return family.Face(layout.PxToPt(style.FontSize), col, fontStyle, canvas.FontNormal), nil
}

// ensureFontFamily 沿 family 回退链找到第一个可用字体：先查设置中的字体文件，再查系统已安装字体，
// 两者都没有的 family 跳过。已配置但无法读取的字体文件视为错误。
// 通用 family sans-serif 与回退链耗尽时都使用内置字体。
func (r *Renderer) ensureFontFamily(chain []string, weight int) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(chain, weight)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := weightStyle(weight)
	for _, name := range chain {
		data, ok, err := r.loadFontBytes(name, weight)
		if err != nil {
			return nil, canvas.FontRegular, err
		}
		if !ok {
			continue
		}
		family := canvas.NewFontFamily(name)
		if err := family.LoadFont(data, 0, style); err != nil {
			return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", name, err)
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
		return family, style, nil
	}

	family := canvas.NewFontFamily(fonts.Generic)
	if err := family.LoadFont(fonts.ForWeight(weight), 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载内置字体失败: %w", err)
	}
	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func (r *Renderer) loadFontBytes(name string, weight int) ([]byte, bool, error) {
	if name == fonts.Generic {
		return fonts.ForWeight(weight), true, nil
	}
	if blob, ok := r.fontBlobs[name]; ok {
		return blob, true, nil
	}
	src, ok := r.fontPaths[name]
	if !ok || src == "" {
		return r.loadSystemFont(name, weight)
	}
	if strings.HasPrefix(src, "embed:") {
		data, err := fonts.Load(src)
		return data, err == nil, err
	}
	path := src
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("读取字体 %s (%s) 失败: %w", name, src, err)
	}
	return data, true, nil
}

// loadSystemFont 读取系统中名为 name 的字体；找不到时返回 ok=false。
func (r *Renderer) loadSystemFont(name string, weight int) ([]byte, bool, error) {
	path, ok := r.findSystemFont(name, weightStyle(weight))
	if !ok || path == "" {
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("读取系统字体 %s (%s) 失败: %w", name, path, err)
	}
	return data, true, nil
}

// weightStyle 将 CSS 数值字重映射为 canvas 字体样式。
func weightStyle(weight int) canvas.FontStyle {
	switch {
	case weight >= 900:
		return canvas.FontBlack
	case weight >= 800:
		return canvas.FontExtraBold
	case weight >= 700:
		return canvas.FontBold
	case weight >= 600:
		return canvas.FontSemiBold
	case weight >= 500:
		return canvas.FontMedium
	case weight >= 400 || weight <= 0:
		return canvas.FontRegular
	default:
		return canvas.FontLight
	}
}

func fontCacheKey(chain []string, weight int) string {
	return fmt.Sprintf("%s|%d", strings.Join(chain, ","), weight)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
