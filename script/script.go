// Package script 解析字幕台本：谁在什么时间说了什么。
//
//	# 注释
//	zundamon 0.0 -> 2.5 "こんにちは"
//	metan    2.5s -> 5  "よろしくね"
//
// 每条台词拥有自己的本地时间轴，淡入动画从台词开始时计算。
package script

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ByLCY/telop/settings"
)

// Cue 是一条台词。时间单位为秒。
type Cue struct {
	Character settings.Character `json:"character"`
	Start     float64            `json:"start"`
	End       float64            `json:"end"`
	Text      string             `json:"text"`
}

// StartFrame 返回台词开始的帧号（四舍五入）。
func (c Cue) StartFrame(fps float64) int { return int(math.Round(c.Start * fps)) }

// EndFrame 返回台词结束的帧号（不含）。
func (c Cue) EndFrame(fps float64) int { return int(math.Round(c.End * fps)) }

// Script 是按开始时间排序的台词列表。
type Script struct {
	Cues []Cue `json:"cues"`
}

// Load 读取并解析台本文件。
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开台本 %s: %w", path, err)
	}
	defer f.Close()
	return Parse(path, f)
}

// Parse 解析台本并校验每条台词。
func Parse(name string, r io.Reader) (*Script, error) {
	file, err := ParseFile(name, r)
	if err != nil {
		return nil, fmt.Errorf("解析台本失败: %w", err)
	}
	return Build(file)
}

// ParseString 解析字符串形式的台本。
func ParseString(input string) (*Script, error) {
	return Parse("", strings.NewReader(input))
}

// Build 将 AST 转换为 Script。
func Build(file *File) (*Script, error) {
	if file == nil {
		return nil, fmt.Errorf("台本为空")
	}
	s := &Script{Cues: make([]Cue, 0, len(file.Cues))}
	for _, node := range file.Cues {
		cue, err := buildCue(node)
		if err != nil {
			return nil, err
		}
		s.Cues = append(s.Cues, cue)
	}
	sort.SliceStable(s.Cues, func(i, j int) bool { return s.Cues[i].Start < s.Cues[j].Start })
	return s, nil
}

func buildCue(node *CueNode) (Cue, error) {
	ch, err := settings.ParseCharacter(node.Speaker)
	if err != nil {
		return Cue{}, fmt.Errorf("%s: %w", node.Pos, err)
	}
	start, err := parseSeconds(node.Start)
	if err != nil {
		return Cue{}, fmt.Errorf("%s: 开始时间无效: %w", node.Pos, err)
	}
	end, err := parseSeconds(node.End)
	if err != nil {
		return Cue{}, fmt.Errorf("%s: 结束时间无效: %w", node.Pos, err)
	}
	if end <= start {
		return Cue{}, fmt.Errorf("%s: 结束时间 %gs 必须晚于开始时间 %gs", node.Pos, end, start)
	}
	return Cue{Character: ch, Start: start, End: end, Text: string(node.Text)}, nil
}

func parseSeconds(value string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(value, "s"), 64)
}

// At 返回 frame 时正在显示的台词；时间重叠时开始较晚的台词优先。
func (s *Script) At(frame int, fps float64) (Cue, bool) {
	for i := len(s.Cues) - 1; i >= 0; i-- {
		c := s.Cues[i]
		if frame >= c.StartFrame(fps) && frame < c.EndFrame(fps) {
			return c, true
		}
	}
	return Cue{}, false
}

// Duration 返回最后一条台词的结束时间。
func (s *Script) Duration() float64 {
	var d float64
	for _, c := range s.Cues {
		d = math.Max(d, c.End)
	}
	return d
}

// FrameCount 返回覆盖全部台词所需的帧数。
func (s *Script) FrameCount(fps float64) int {
	return int(math.Ceil(s.Duration()*fps - 1e-9))
}
