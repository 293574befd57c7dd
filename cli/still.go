package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ByLCY/telop/export"
	"github.com/ByLCY/telop/overlay"
	"github.com/ByLCY/telop/settings"
)

var stillCmd = &cobra.Command{
	Use:   "still",
	Short: "Render a single overlay frame to PNG",
	Long: `Render one frame of a subtitle overlay. The frame number is local to
the overlay: frame 0 is the first frame the text is on screen.

Examples:
  telop still --text "こんにちは" --character zundamon --frame 9 -o hello.png
  telop still --text "よろしくね" -c metan --frame 2 -s settings.yaml -o fade.png`,
	Args: cobra.NoArgs,
	RunE: runStill,
}

func init() {
	rootCmd.AddCommand(stillCmd)
	addRequestFlags(stillCmd)
	stillCmd.Flags().StringP("out", "o", "still.png", "Output PNG path")
}

// addRequestFlags 注册单帧命令共用的 text/character/frame 参数。
func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("text", "t", "", "Subtitle text")
	cmd.Flags().StringP("character", "c", string(settings.Zundamon), "Speaking character (zundamon, metan)")
	cmd.Flags().IntP("frame", "f", 0, "Overlay-local frame number")
}

// requestFromFlags 读取单帧命令的参数并组装渲染输入。
func requestFromFlags(cmd *cobra.Command, fps float64) (overlay.Request, overlay.Clock, error) {
	text, _ := cmd.Flags().GetString("text")
	name, _ := cmd.Flags().GetString("character")
	frame, _ := cmd.Flags().GetInt("frame")

	ch, err := settings.ParseCharacter(name)
	if err != nil {
		return overlay.Request{}, overlay.Clock{}, err
	}
	if frame < 0 {
		return overlay.Request{}, overlay.Clock{}, fmt.Errorf("帧号不能为负数: %d", frame)
	}
	return overlay.Request{Text: text, Character: ch}, overlay.Clock{Frame: frame, FPS: fps}, nil
}

func runStill(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	cfg := env.settings
	req, clock, err := requestFromFlags(cmd, cfg.Video.FPS)
	if err != nil {
		return err
	}
	outPath, _ := cmd.Flags().GetString("out")

	ov := overlay.Compose(req, clock, cfg, env.segmenter)
	logger.Infow("Rendering still",
		"character", req.Character,
		"frame", clock.Frame,
		"opacity", ov.Opacity,
		"chunks", len(ov.Chunks()),
		"output", outPath,
	)

	img, err := env.newRenderer().Render(ov, cfg.Video.Width, cfg.Video.Height)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	background, err := settings.ParseColor(cfg.Video.Background)
	if err != nil {
		return fmt.Errorf("背景色无效: %w", err)
	}
	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := export.WritePNG(outPath, export.Flatten(img, background)); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outPath)
	fmt.Printf("已生成字幕帧：%s\n", absOutput)
	return nil
}
