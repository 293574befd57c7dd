package renderer

import (
	"image"

	"github.com/ByLCY/telop/overlay"
)

// Renderer 将一帧字幕叠加层绘制为带透明通道的图像。
type Renderer interface {
	Render(ov overlay.Overlay, width, height int) (*image.RGBA, error)
}
