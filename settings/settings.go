package settings

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// 该文件定义字幕叠加层的静态设置：字体、字幕框几何与角色配色。

// Character 标识正在说话的角色。
type Character string

const (
	Zundamon Character = "zundamon"
	Metan    Character = "metan"
)

// Characters 按固定顺序列出全部角色。
var Characters = []Character{Zundamon, Metan}

// ParseCharacter 将名称（大小写不敏感）解析为 Character。
func ParseCharacter(name string) (Character, error) {
	switch Character(strings.ToLower(strings.TrimSpace(name))) {
	case Zundamon:
		return Zundamon, nil
	case Metan:
		return Metan, nil
	default:
		return "", fmt.Errorf("未知角色 %q（可选：zundamon, metan）", name)
	}
}

// Settings 是进程级只读设置，启动时加载一次，之后不再修改。
type Settings struct {
	Font      Font              `yaml:"font" json:"font"`
	Subtitle  Subtitle          `yaml:"subtitle" json:"subtitle"`
	Colors    Colors            `yaml:"colors" json:"colors"`
	Fonts     map[string]string `yaml:"fonts" json:"fonts"` // family 名称 -> 字体文件路径
	Video     Video             `yaml:"video" json:"video"`
	Segmenter string            `yaml:"segmenter" json:"segmenter"`
}

// Font 描述字幕文字的字体与三种颜色。
type Font struct {
	Size              float64   `yaml:"size" json:"size"`
	Weight            int       `yaml:"weight" json:"weight"`
	Family            string    `yaml:"family" json:"family"`
	Color             ColorSpec `yaml:"color" json:"color"`
	OutlineColor      ColorSpec `yaml:"outlineColor" json:"outlineColor"`
	InnerOutlineColor ColorSpec `yaml:"innerOutlineColor" json:"innerOutlineColor"`
}

// Subtitle 描述字幕框的位置、宽度上限与描边宽度（单位：像素）。
type Subtitle struct {
	BottomOffset      float64 `yaml:"bottomOffset" json:"bottomOffset"`
	MaxWidthPercent   float64 `yaml:"maxWidthPercent" json:"maxWidthPercent"`
	MaxWidthPixels    float64 `yaml:"maxWidthPixels" json:"maxWidthPixels"`
	OutlineWidth      float64 `yaml:"outlineWidth" json:"outlineWidth"`
	InnerOutlineWidth float64 `yaml:"innerOutlineWidth" json:"innerOutlineWidth"`
}

// Colors 保存每个角色的代表色。
type Colors struct {
	Zundamon string `yaml:"zundamon" json:"zundamon"`
	Metan    string `yaml:"metan" json:"metan"`
}

// For 返回角色对应的颜色。
func (c Colors) For(ch Character) string {
	if ch == Metan {
		return c.Metan
	}
	return c.Zundamon
}

// Video 描述导出帧序列时的画面尺寸、帧率与背景色。
type Video struct {
	Width      int     `yaml:"width" json:"width"`
	Height     int     `yaml:"height" json:"height"`
	FPS        float64 `yaml:"fps" json:"fps"`
	Background string  `yaml:"background" json:"background"`
}

// CharacterToken 是设置文件中表示“使用角色色”的符号值。
const CharacterToken = "character"

// ColorSpec 要么是字面颜色值，要么引用当前角色的颜色。
type ColorSpec struct {
	value    string
	relative bool
}

// Literal 返回字面颜色。
func Literal(value string) ColorSpec { return ColorSpec{value: value} }

// CharacterRelative 返回随角色变化的颜色。
func CharacterRelative() ColorSpec { return ColorSpec{relative: true} }

// IsCharacterRelative reports whether the color follows the speaking character.
func (c ColorSpec) IsCharacterRelative() bool { return c.relative }

// Value returns the literal color, or "" for character-relative specs.
func (c ColorSpec) Value() string { return c.value }

// Resolve 是 (颜色值, character) 的纯函数。
func (c ColorSpec) Resolve(ch Character, colors Colors) string {
	if c.relative {
		return colors.For(ch)
	}
	return c.value
}

func (c ColorSpec) String() string {
	if c.relative {
		return CharacterToken
	}
	return c.value
}

func parseColorSpec(raw string) ColorSpec {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, CharacterToken) {
		return CharacterRelative()
	}
	return Literal(raw)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *ColorSpec) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("第 %d 行颜色值必须是字符串: %w", node.Line, err)
	}
	*c = parseColorSpec(raw)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c ColorSpec) MarshalYAML() (any, error) { return c.String(), nil }

// MarshalJSON implements json.Marshaler.
func (c ColorSpec) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

// UnmarshalJSON implements json.Unmarshaler.
func (c *ColorSpec) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = parseColorSpec(raw)
	return nil
}
