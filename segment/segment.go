// Package segment 将文本切分为不可在内部换行的片段（chunk）。
//
// 片段顺序拼接后必须与原文完全一致；换行只允许发生在片段之间。
package segment

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
	"github.com/sg0hsmt/budoux-go"
	"github.com/sg0hsmt/budoux-go/models"
)

// Segmenter 返回文本的换行片段序列。实现必须是纯函数。
type Segmenter interface {
	Parse(text string) []string
}

// SegmenterFunc 允许把普通函数当作 Segmenter 使用。
type SegmenterFunc func(text string) []string

// Parse implements Segmenter.
func (f SegmenterFunc) Parse(text string) []string { return f(text) }

// 可在设置文件 segmenter 字段中使用的名称。
const (
	NameBudouXJapanese          = "budoux-ja"
	NameBudouXSimplifiedChinese = "budoux-zh-hans"
	NameLineBreak               = "uax14"
)

// New 根据名称创建分词器。
func New(name string) (Segmenter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameBudouXJapanese, "ja", "":
		return NewBudouX(models.DefaultJapaneseModel()), nil
	case NameBudouXSimplifiedChinese:
		return NewBudouX(models.DefaultSimplifiedChineseModel()), nil
	case NameLineBreak:
		return LineBreak{}, nil
	default:
		return nil, fmt.Errorf("未知分词器 %q（可选：%s, %s, %s）", name,
			NameBudouXJapanese, NameBudouXSimplifiedChinese, NameLineBreak)
	}
}

// BudouX 使用 BudouX 机器学习模型给出语言相关的自然换行位置。
type BudouX struct {
	model budoux.Model
}

// NewBudouX wraps a BudouX model.
func NewBudouX(model budoux.Model) *BudouX { return &BudouX{model: model} }

// Parse implements Segmenter.
func (b *BudouX) Parse(text string) []string {
	if text == "" {
		return nil
	}
	return dropEmpty(budoux.Parse(b.model, text))
}

// LineBreak 按 Unicode 换行算法（UAX #14）的换行机会切分，适用于空格分词的语言。
// 片段保留尾随空白，拼接后与原文一致。
type LineBreak struct{}

// Parse implements Segmenter.
func (LineBreak) Parse(text string) []string {
	var chunks []string
	state := -1
	rest := text
	for len(rest) > 0 {
		var segment string
		segment, rest, _, state = uniseg.FirstLineSegmentInString(rest, state)
		chunks = append(chunks, segment)
	}
	return chunks
}

func dropEmpty(chunks []string) []string {
	out := chunks[:0]
	for _, c := range chunks {
		if c != "" {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
