package cli

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/ByLCY/telop/export"
	"github.com/ByLCY/telop/script"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a cue script to a PNG frame sequence",
	Long: `Render every frame of a cue script as a transparent PNG sequence
(frame_00000.png, frame_00001.png, ...). Each cue fades in from its own
start time.

Script format, one cue per line:
  # comment
  zundamon 0.0 -> 2.5 "こんにちは"
  metan    2.5s -> 5  "よろしくね"

Examples:
  telop render --script talk.cues --out-dir frames
  telop render --script talk.cues --out-dir frames --from 30 --to 90 --workers 4`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().String("script", "", "Cue script path")
	renderCmd.Flags().StringP("out-dir", "o", "frames", "Output directory")
	renderCmd.Flags().Int("from", 0, "First frame to render (inclusive)")
	renderCmd.Flags().Int("to", 0, "Last frame to render (exclusive, 0 = end of script)")
	renderCmd.Flags().IntP("workers", "w", runtime.NumCPU(), "Number of parallel frame workers")
	_ = renderCmd.MarkFlagRequired("script")
}

func runRender(cmd *cobra.Command, args []string) error {
	scriptPath, _ := cmd.Flags().GetString("script")
	outDir, _ := cmd.Flags().GetString("out-dir")
	from, _ := cmd.Flags().GetInt("from")
	to, _ := cmd.Flags().GetInt("to")
	workers, _ := cmd.Flags().GetInt("workers")

	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	sc, err := script.Load(scriptPath)
	if err != nil {
		return err
	}
	fps := env.settings.Video.FPS

	logger.Infow("Rendering script",
		"script", scriptPath,
		"cues", len(sc.Cues),
		"duration", sc.Duration(),
		"frames", sc.FrameCount(fps),
		"workers", workers,
		"output", outDir,
	)

	started := time.Now()
	step := max(sc.FrameCount(fps)/10, 1)
	res, err := export.Frames(cmd.Context(), export.Job{
		Script:      sc,
		Settings:    env.settings,
		Segmenter:   env.segmenter,
		NewRenderer: env.rendererFactory(),
		OutDir:      outDir,
		From:        from,
		To:          to,
		Workers:     workers,
		Progress: func(done, total int) {
			if done%step == 0 || done == total {
				logger.Infow("Progress", "done", done, "total", total)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("导出失败: %w", err)
	}

	hits, misses := env.segmenter.Stats()
	logger.Debugw("Segmenter cache", "hits", hits, "misses", misses)
	fmt.Printf("已生成 %d 帧：%s（耗时 %s）\n", res.Frames, res.OutDir, time.Since(started).Round(time.Millisecond))
	return nil
}
