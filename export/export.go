// Package export 将台本渲染为 PNG 帧序列。
//
// 每一帧只依赖台本、设置与帧号，因此各帧可以以任意顺序并行渲染。
package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/telop/overlay"
	"github.com/ByLCY/telop/renderer"
	"github.com/ByLCY/telop/script"
	"github.com/ByLCY/telop/segment"
	"github.com/ByLCY/telop/settings"
)

// FramePattern 是输出文件名格式。
const FramePattern = "frame_%05d.png"

// Job 描述一次帧序列导出。
type Job struct {
	Script    *script.Script
	Settings  *settings.Settings
	Segmenter segment.Segmenter // 通常是 segment.Cache，在所有 worker 间共享
	// NewRenderer 为每个 worker 创建渲染器；渲染器不在 goroutine 之间共享。
	NewRenderer func() renderer.Renderer
	OutDir      string
	From        int // 含
	To          int // 不含；<= 0 表示到台本结束
	Workers     int
	// Progress 在每帧写出后被调用，可能来自多个 goroutine。
	Progress func(done, total int)
}

// Result 汇总导出结果。
type Result struct {
	Frames int
	OutDir string
}

// Frames 渲染 [From, To) 范围内的每一帧并写入 OutDir。任一帧失败会取消其余帧。
func Frames(ctx context.Context, job Job) (Result, error) {
	if job.Script == nil || job.Settings == nil {
		return Result{}, fmt.Errorf("导出任务缺少台本或设置")
	}
	if job.Segmenter == nil {
		return Result{}, fmt.Errorf("导出任务缺少分词器")
	}
	if job.NewRenderer == nil {
		return Result{}, fmt.Errorf("导出任务缺少渲染器")
	}
	fps := job.Settings.Video.FPS
	to := job.To
	if to <= 0 {
		to = job.Script.FrameCount(fps)
	}
	from := max(job.From, 0)
	if to <= from {
		return Result{}, fmt.Errorf("帧范围为空: [%d, %d)", from, to)
	}
	if err := os.MkdirAll(job.OutDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("创建输出目录失败: %w", err)
	}

	background, err := settings.ParseColor(job.Settings.Video.Background)
	if err != nil {
		return Result{}, fmt.Errorf("背景色无效: %w", err)
	}

	workers := job.Workers
	if workers <= 0 {
		workers = 1
	}
	renderers := sync.Pool{New: func() any { return job.NewRenderer() }}
	total := to - from
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for frame := from; frame < to; frame++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := renderers.Get().(renderer.Renderer)
			defer renderers.Put(r)

			img, err := RenderFrame(job.Script, job.Settings, job.Segmenter, r, frame)
			if err != nil {
				return fmt.Errorf("渲染第 %d 帧失败: %w", frame, err)
			}
			path := filepath.Join(job.OutDir, fmt.Sprintf(FramePattern, frame))
			if err := WritePNG(path, Flatten(img, background)); err != nil {
				return err
			}
			n := done.Add(1)
			if job.Progress != nil {
				job.Progress(int(n), total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{Frames: int(done.Load()), OutDir: job.OutDir}, err
	}
	return Result{Frames: total, OutDir: job.OutDir}, nil
}

// RenderFrame 渲染台本中第 frame 帧的叠加层（透明背景）。没有台词的帧返回全透明图像。
// 台词的本地帧号从台词开始处计为 0。
func RenderFrame(sc *script.Script, cfg *settings.Settings, seg segment.Segmenter, r renderer.Renderer, frame int) (*image.RGBA, error) {
	width, height := cfg.Video.Width, cfg.Video.Height
	cue, ok := sc.At(frame, cfg.Video.FPS)
	if !ok {
		return image.NewRGBA(image.Rect(0, 0, width, height)), nil
	}
	ov := overlay.Compose(
		overlay.Request{Text: cue.Text, Character: cue.Character},
		overlay.Clock{Frame: frame - cue.StartFrame(cfg.Video.FPS), FPS: cfg.Video.FPS},
		cfg,
		seg,
	)
	return r.Render(ov, width, height)
}

// Flatten 将透明叠加层合成到纯色背景上。背景为 transparent 时结果与原图相同。
func Flatten(img image.Image, background color.Color) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	xdraw.Draw(out, out.Bounds(), image.NewUniform(background), image.Point{}, xdraw.Src)
	xdraw.Draw(out, out.Bounds(), img, img.Bounds().Min, xdraw.Over)
	return out
}

// WritePNG 将图像编码为 PNG 写入 path。
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建文件 %s 失败: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("写入 PNG %s 失败: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("写入 PNG %s 失败: %w", path, err)
	}
	return nil
}
