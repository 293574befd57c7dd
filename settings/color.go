package settings

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Transparent 是完全透明的颜色关键字。
const Transparent = "transparent"

var namedColors = map[string]color.NRGBA{
	"white": {R: 255, G: 255, B: 255, A: 255},
	"black": {A: 255},
}

// ParseColor 解析 #rgb、#rrggbb、#rrggbbaa、transparent、white、black。
func ParseColor(value string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return color.NRGBA{}, fmt.Errorf("颜色值为空")
	}
	if v == Transparent {
		return color.NRGBA{}, nil
	}
	if c, ok := namedColors[v]; ok {
		return c, nil
	}
	if !strings.HasPrefix(v, "#") {
		return color.NRGBA{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}

	alpha := uint8(255)
	if len(v) == 9 {
		a, err := strconv.ParseUint(v[7:9], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("颜色值 %s 的透明度无法解析: %w", value, err)
		}
		alpha = uint8(a)
		v = v[:7]
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
