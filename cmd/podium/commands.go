package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/podium/internal/analysis"
	"github.com/verte-zerg/podium/internal/audio"
	"github.com/verte-zerg/podium/internal/catalog"
	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/observe"
	"github.com/verte-zerg/podium/internal/stats"
)

const defaultHistoryLast = 20

var (
	progressLast        int
	progressCurveWindow int
	progressFocusTop    int

	historyLast int

	tipsCategory   string
	tipsDifficulty string
)

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show score, level and focus areas",
		Args:  cobra.NoArgs,
		RunE:  runProgressCmd,
	}
	cmd.Flags().IntVar(&progressLast, "last", 0, "limit curve and focus areas to last N sessions")
	cmd.Flags().IntVar(&progressCurveWindow, "curve-window", defaultCurveWindow, "moving average window for the rating trend")
	cmd.Flags().IntVar(&progressFocusTop, "focus-top", defaultFocusTop, "number of focus areas to show")
	return cmd
}

func runProgressCmd(cmd *cobra.Command, _ []string) error {
	if progressLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if progressCurveWindow < 0 {
		return fmt.Errorf("--curve-window must be >= 0")
	}
	if progressFocusTop < 0 {
		return fmt.Errorf("--focus-top must be >= 0")
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	p := a.tracker.Progress(cmd.Context())
	report := stats.BuildReport(p, a.catalog, model.StatsConfig{
		Last:        progressLast,
		CurveWindow: progressCurveWindow,
		FocusTop:    progressFocusTop,
	})
	if err := stats.RenderSummary(cmd.OutOrStdout(), report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent sessions",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "number of sessions to show (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	p := a.tracker.Progress(cmd.Context())
	if err := stats.RenderHistory(cmd.OutOrStdout(), p.Sessions, historyLast); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newTipsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tips",
		Short: "List tips with completion marks",
		Args:  cobra.NoArgs,
		RunE:  runTipsCmd,
	}
	cmd.Flags().StringVar(&tipsCategory, "category", catalog.All, "category key or 'all'")
	cmd.Flags().StringVar(&tipsDifficulty, "difficulty", catalog.All, "beginner, intermediate, advanced or 'all'")
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle tip completion",
		Args:  cobra.ExactArgs(1),
		RunE:  runTipsToggleCmd,
	})
	return cmd
}

func runTipsCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := validateTipFilter(a.catalog, tipsCategory, tipsDifficulty); err != nil {
		return err
	}
	tips := a.catalog.Filter(tipsCategory, tipsDifficulty)
	p := a.tracker.Progress(cmd.Context())
	if err := stats.RenderTips(cmd.OutOrStdout(), tips, p, a.catalog); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runTipsToggleCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	id := args[0]
	tip, ok := a.catalog.Tip(id)
	if !ok {
		return fmt.Errorf("unknown tip %q (run: podium tips)", id)
	}
	p, err := a.tracker.ToggleTip(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to update tip: %w", err)
	}
	state := "not done"
	if p.HasTip(id) {
		state = "done"
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%d of %d done)\n",
		tip.Title, state, len(p.CompletedTips), len(a.catalog.Tips)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func validateTipFilter(cat *catalog.Catalog, category, difficulty string) error {
	if category != catalog.All && !slices.ContainsFunc(cat.Categories, func(c model.Category) bool {
		return c.Key == category
	}) {
		keys := make([]string, len(cat.Categories))
		for i, c := range cat.Categories {
			keys[i] = c.Key
		}
		return fmt.Errorf("--category must be 'all' or one of %v", keys)
	}
	if difficulty != catalog.All && !slices.Contains(catalog.Difficulties, difficulty) {
		return fmt.Errorf("--difficulty must be 'all' or one of %v", catalog.Difficulties)
	}
	return nil
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file.mp3>",
		Short: "Analyse a recorded speech",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyzeCmd,
	}
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	if err := loadSettings(cmd); err != nil {
		return err
	}
	log, err := observe.NewLogger(logLevel, logFile)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open recording: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close recording: %v\n", cerr)
		}
	}()

	levels, err := audio.DecodeMP3Levels(f, analysis.SampleInterval)
	if err != nil {
		return err
	}
	if len(levels) == 0 {
		return fmt.Errorf("recording %s is empty", filepath.Base(path))
	}
	length := time.Duration(len(levels)) * analysis.SampleInterval
	summary := audio.Replay(analysisOptions(), time.Now(), levels, analysis.SampleInterval)
	log.Info("recording analysed",
		zap.String("path", path),
		zap.Int("frames", summary.Frames),
		zap.Float64("speaking_ratio", summary.SpeakingRatio),
	)

	logErrln("Recording:", filepath.Base(path))
	if err := stats.RenderAnalysis(cmd.OutOrStdout(), summary, length); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
