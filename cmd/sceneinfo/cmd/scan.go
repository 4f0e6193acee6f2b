package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/config"
	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/frames"
	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/pipeline"
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan [video file]",
	Short: "Scan a video for burned-in VFX and ADR annotations",
	Long: `Scan a video file frame by frame, detect burned-in text in the
configured region, read it through OCR and reduce the findings into a
merged timeline of VFX and ADR events.

Examples:
  sceneinfo scan reel_03.mov --scenes scenes.csv \
    --text-region 100,800,600,120 --tc-region 1500,40,300,60
  sceneinfo scan reel_03.mov --scenes scenes.csv --start-frame 240 --format csv`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	if _, err := os.Stat(videoPath); err != nil {
		return fmt.Errorf("video file: %w", err)
	}

	cfg := GetConfig()
	if err := applyRegionFlags(cmd, cfg); err != nil {
		return err
	}
	if cfg.Scan.TextRegion.Empty() {
		return errors.New("no text region configured (use --text-region or the config file)")
	}
	if cfg.Scan.TCRegion.Empty() {
		return errors.New("no timecode region configured (use --tc-region or the config file)")
	}

	scenesPath, _ := cmd.Flags().GetString("scenes")
	if scenesPath == "" {
		return errors.New("no scene list provided (use --scenes)")
	}
	scenes, err := frames.LoadSceneList(scenesPath)
	if err != nil {
		return err
	}

	if n, _ := cmd.Flags().GetInt("sample-count"); n > 0 {
		cfg.Scan.VFXSampleCount = n
	}
	if n, _ := cmd.Flags().GetInt("stride"); n > 0 {
		cfg.Scan.ADRStride = n
	}
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = addr
	}

	progress := buildProgress(cfg)
	p, err := pipeline.NewBuilder().
		WithConfig(cfg.ToPipelineConfig(videoPath)).
		WithProgressCallback(progress).
		Build()
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	results, err := p.Run(scenes)
	if err != nil {
		return err
	}

	rendered, err := results.Render(cfg.Output.Format)
	if err != nil {
		return err
	}
	if cfg.Output.File != "" {
		if err := os.WriteFile(cfg.Output.File, []byte(rendered), 0o600); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", cfg.Output.File)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

// applyRegionFlags overrides the configured regions with the flag values
// when given on the command line.
func applyRegionFlags(cmd *cobra.Command, cfg *config.Config) error {
	if s, _ := cmd.Flags().GetString("text-region"); s != "" {
		r, err := config.ParseRegion(s)
		if err != nil {
			return fmt.Errorf("--text-region: %w", err)
		}
		cfg.Scan.TextRegion = r
	}
	if s, _ := cmd.Flags().GetString("tc-region"); s != "" {
		r, err := config.ParseRegion(s)
		if err != nil {
			return fmt.Errorf("--tc-region: %w", err)
		}
		cfg.Scan.TCRegion = r
	}
	return nil
}

// buildProgress wires the console bar, plus slog reporting when verbose.
func buildProgress(cfg *config.Config) pipeline.ProgressCallback {
	console := pipeline.NewConsoleProgressCallback(os.Stderr, "")
	if !cfg.Verbose {
		return console
	}
	return pipeline.NewMultiProgressCallback(
		console,
		pipeline.NewLogProgressCallback(nil, slog.LevelDebug, ""),
	)
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().String("scenes", "", "CSV file with (start,end) scene frame pairs (required)")
	scanCmd.Flags().String("text-region", "", "burned-in text region as x,y,w,h")
	scanCmd.Flags().String("tc-region", "", "burned-in timecode region as x,y,w,h")
	scanCmd.Flags().Int("start-frame", 0, "first frame of interest")
	scanCmd.Flags().Int("pixel-threshold", frames.DefaultPixelThreshold, "foreground pixels required to flag a frame")
	scanCmd.Flags().Int("sample-count", 0, "frames sampled per candidate scene (0 = default)")
	scanCmd.Flags().Int("stride", 0, "probe stride over flagged frames (0 = default)")
	scanCmd.Flags().String("format", "text", "output format (text, json, csv)")
	scanCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	scanCmd.Flags().String("temp-base", ".", "directory for the temporary crop cache")
	scanCmd.Flags().Bool("keep-temp", false, "keep the crop cache after the run")
	scanCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address during the run")

	_ = viper.BindPFlag("scan.start_frame", scanCmd.Flags().Lookup("start-frame"))
	_ = viper.BindPFlag("scan.pixel_threshold", scanCmd.Flags().Lookup("pixel-threshold"))
	_ = viper.BindPFlag("scan.temp_base", scanCmd.Flags().Lookup("temp-base"))
	_ = viper.BindPFlag("scan.keep_temp", scanCmd.Flags().Lookup("keep-temp"))
	_ = viper.BindPFlag("output.format", scanCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("output.file", scanCmd.Flags().Lookup("output"))
}
