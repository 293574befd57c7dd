package settings

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Default 返回内置默认设置的副本。
func Default() *Settings {
	cfg := &Settings{}
	if err := yaml.Unmarshal(defaultYAML, cfg); err != nil {
		panic(fmt.Sprintf("内置默认设置无法解析: %v", err))
	}
	cfg.normalize()
	return cfg
}

// Load 以默认设置为基础读取 YAML 文件；文件中出现的字段覆盖默认值。
// path 为空时直接返回默认设置。
func Load(path string) (*Settings, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取设置文件 %s 失败: %w", path, err)
	}
	if err := Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("解析设置文件 %s 失败: %w", path, err)
	}
	return cfg, nil
}

// Decode 将 YAML 数据合并进 cfg，随后规范化并校验。
func Decode(data []byte, cfg *Settings) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	cfg.normalize()
	return cfg.Validate()
}

func (s *Settings) normalize() {
	s.Font.Family = strings.TrimSpace(s.Font.Family)
	s.Segmenter = strings.ToLower(strings.TrimSpace(s.Segmenter))
	if s.Fonts == nil {
		s.Fonts = map[string]string{}
	}
	if strings.TrimSpace(s.Video.Background) == "" {
		s.Video.Background = Transparent
	}
}

// Validate 检查设置是否可用于渲染。渲染阶段不再做任何校验。
func (s *Settings) Validate() error {
	var errs []error
	if s.Font.Size <= 0 {
		errs = append(errs, fmt.Errorf("font.size 必须大于 0，当前为 %g", s.Font.Size))
	}
	if s.Font.Weight < 1 || s.Font.Weight > 1000 {
		errs = append(errs, fmt.Errorf("font.weight 必须位于 1..1000，当前为 %d", s.Font.Weight))
	}
	for _, field := range []struct {
		name string
		spec ColorSpec
	}{
		{"font.color", s.Font.Color},
		{"font.outlineColor", s.Font.OutlineColor},
		{"font.innerOutlineColor", s.Font.InnerOutlineColor},
	} {
		if field.spec.IsCharacterRelative() {
			continue
		}
		if _, err := ParseColor(field.spec.Value()); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field.name, err))
		}
	}
	for _, ch := range Characters {
		if _, err := ParseColor(s.Colors.For(ch)); err != nil {
			errs = append(errs, fmt.Errorf("colors.%s: %w", ch, err))
		}
	}
	if s.Subtitle.MaxWidthPercent <= 0 || s.Subtitle.MaxWidthPercent > 100 {
		errs = append(errs, fmt.Errorf("subtitle.maxWidthPercent 必须位于 (0, 100]，当前为 %g", s.Subtitle.MaxWidthPercent))
	}
	if s.Subtitle.MaxWidthPixels <= 0 {
		errs = append(errs, fmt.Errorf("subtitle.maxWidthPixels 必须大于 0"))
	}
	if s.Subtitle.OutlineWidth < 0 || s.Subtitle.InnerOutlineWidth < 0 {
		errs = append(errs, fmt.Errorf("描边宽度不能为负数"))
	}
	if s.Video.Width <= 0 || s.Video.Height <= 0 {
		errs = append(errs, fmt.Errorf("video 尺寸无效: %dx%d", s.Video.Width, s.Video.Height))
	}
	if s.Video.FPS <= 0 {
		errs = append(errs, fmt.Errorf("video.fps 必须大于 0"))
	}
	if _, err := ParseColor(s.Video.Background); err != nil {
		errs = append(errs, fmt.Errorf("video.background: %w", err))
	}
	if s.Segmenter == "" {
		errs = append(errs, fmt.Errorf("segmenter 不能为空"))
	}
	return errors.Join(errs...)
}
