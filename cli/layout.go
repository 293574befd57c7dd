package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ByLCY/telop/layout"
	"github.com/ByLCY/telop/overlay"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Dump the composed overlay and its line layout as JSON",
	Long: `Compose one overlay frame and print the resolved layers (chunks,
colors, strokes), the opacity and the line layout measured with the
configured fonts. Useful for checking segmentation and wrapping.

Examples:
  telop layout --text "ずんだもんなのだ" --character zundamon
  telop layout --text "よろしくね" -c metan --frame 3 -o layout.json`,
	Args: cobra.NoArgs,
	RunE: runLayout,
}

func init() {
	rootCmd.AddCommand(layoutCmd)
	addRequestFlags(layoutCmd)
	layoutCmd.Flags().StringP("out", "o", "", "Output JSON path (stdout when empty)")
}

// layoutDump 是 layout 命令输出的 JSON 结构。
type layoutDump struct {
	Video   videoDump       `json:"video"`
	Overlay overlay.Overlay `json:"overlay"`
	Block   layout.Block    `json:"block"`
}

type videoDump struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	FPS    float64 `json:"fps"`
}

func runLayout(cmd *cobra.Command, args []string) error {
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
	block, err := env.newRenderer().Arrange(ov, cfg.Video.Width, cfg.Video.Height)
	if err != nil {
		return fmt.Errorf("排版失败: %w", err)
	}
	dump := layoutDump{
		Video:   videoDump{Width: cfg.Video.Width, Height: cfg.Video.Height, FPS: cfg.Video.FPS},
		Overlay: ov,
		Block:   block,
	}
	logger.Debugw("Arranged overlay", "lines", len(block.Lines), "chunks", block.ChunkCount())

	if outPath == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dump)
	}
	if err := writeDebug(dump, outPath); err != nil {
		return err
	}
	fmt.Printf("已输出布局：%s\n", outPath)
	return nil
}

func writeDebug(v any, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(v, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
