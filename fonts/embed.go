package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Generic 是通用无衬线字体的 family 名称，family 回退链的最后一环。
const Generic = "sans-serif"

// 内置字体只覆盖拉丁字符；日文等文字需要在设置的 fonts 中提供字体文件。
var builtins = map[string][]byte{
	"regular": goregular.TTF,
	"bold":    gobold.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:bold" 或直接 "bold"。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimPrefix(name, "embed:"))
	data, ok := builtins[key]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", name)
	}
	return data, nil
}

// ForWeight 按 CSS 数值字重选择内置字体：600 及以上使用粗体。
func ForWeight(weight int) []byte {
	if weight >= 600 {
		return gobold.TTF
	}
	return goregular.TTF
}
