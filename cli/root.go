package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ByLCY/telop/logging"
	"github.com/ByLCY/telop/renderer"
	canvasrenderer "github.com/ByLCY/telop/renderer/canvas"
	"github.com/ByLCY/telop/segment"
	"github.com/ByLCY/telop/settings"
)

var (
	verbose      bool
	settingsPath string
	logger       = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "telop",
	Short: "Render outlined, fading subtitle overlays",
	Long: `telop renders character-colored subtitle overlays: BudouX-segmented
text drawn as outer outline, inner outline and fill, fading in over 0.15s.

Overlays are written as transparent PNG frames for compositing.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

// Execute 运行命令行。
func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&settingsPath, "settings", "s", "", "Settings YAML file (defaults are embedded)")
	rootCmd.PersistentFlags().Int("width", 0, "Override video width in pixels")
	rootCmd.PersistentFlags().Int("height", 0, "Override video height in pixels")
	rootCmd.PersistentFlags().Float64("fps", 0, "Override frames per second")
}

// environment 汇总一次命令运行所需的设置、分词器与渲染器工厂。
type environment struct {
	settings  *settings.Settings
	segmenter *segment.Cache
	baseDir   string
}

func loadEnvironment(cmd *cobra.Command) (*environment, error) {
	cfg, err := settings.Load(settingsPath)
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(cmd, cfg); err != nil {
		return nil, err
	}
	seg, err := segment.New(cfg.Segmenter)
	if err != nil {
		return nil, err
	}
	baseDir := "."
	if settingsPath != "" {
		baseDir = filepath.Dir(settingsPath)
	}
	logger.Debugw("已加载设置",
		"settings", settingsPath,
		"video", fmt.Sprintf("%dx%d@%g", cfg.Video.Width, cfg.Video.Height, cfg.Video.FPS),
		"segmenter", cfg.Segmenter,
		"font", cfg.Font.Family,
	)
	return &environment{settings: cfg, segmenter: segment.NewCache(seg), baseDir: baseDir}, nil
}

// applyOverrides 用命令行参数覆盖画面尺寸与帧率，并重新校验设置。
func applyOverrides(cmd *cobra.Command, cfg *settings.Settings) error {
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Video.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		cfg.Video.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("fps") {
		cfg.Video.FPS, _ = flags.GetFloat64("fps")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("设置无效: %w", err)
	}
	return nil
}

func (e *environment) newRenderer() *canvasrenderer.Renderer {
	return canvasrenderer.NewRenderer(e.settings.Fonts, e.baseDir)
}

func (e *environment) rendererFactory() func() renderer.Renderer {
	return func() renderer.Renderer { return e.newRenderer() }
}
