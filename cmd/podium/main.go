// Package main provides the CLI entrypoint for podium.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/podium/internal/analysis"
	"github.com/verte-zerg/podium/internal/audio"
	"github.com/verte-zerg/podium/internal/audio/mic"
	"github.com/verte-zerg/podium/internal/catalog"
	"github.com/verte-zerg/podium/internal/config"
	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/observe"
	"github.com/verte-zerg/podium/internal/practice"
	"github.com/verte-zerg/podium/internal/progress"
	"github.com/verte-zerg/podium/internal/store"
	"github.com/verte-zerg/podium/internal/topic"
	"github.com/verte-zerg/podium/internal/tui"
)

const (
	defaultLogLevel    = "info"
	defaultCurveWindow = 5
	defaultFocusTop    = 3
)

var (
	practiceTarget int
	practiceTopic  string
	practiceNoMic  bool

	analysisThreshold       float64
	analysisTrailingSilence bool
	analysisLiveVolume      string

	contentCatalog string
	contentTopics  string

	logLevel string
	logFile  string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "podium",
		Short:         "Public speaking practice coach",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().IntVar(&practiceTarget, "target", 0, "target duration in minutes (default: catalog default)")
	rootCmd.Flags().StringVar(&practiceTopic, "topic", "", "speech topic")
	rootCmd.Flags().BoolVar(&practiceNoMic, "no-mic", false, "practice without audio analysis")

	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&analysisThreshold, "threshold", analysis.SilenceThreshold, "volume level above which a sample counts as speech, exclusive (0-100)")
	pf.BoolVar(&analysisTrailingSilence, "trailing-silence", false, "classify silence still open when a session stops")
	pf.StringVar(&analysisLiveVolume, "live-volume", string(analysis.VolumeInstant), "live volume readout: instant or mean")
	pf.StringVar(&contentCatalog, "catalog", "", "catalog YAML file (default: built-in)")
	pf.StringVar(&contentTopics, "topics", "", "topic list file, one prompt per line")
	pf.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", config.DefaultLogPath(), "log file path; empty disables logging")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newTipsCmd())
	rootCmd.AddCommand(newAnalyzeCmd())

	return rootCmd
}

// app holds what every command opens.
type app struct {
	log      *zap.Logger
	provider *observe.Provider
	store    *store.Store
	catalog  *catalog.Catalog
	tracker  *progress.Tracker
}

// loadSettings merges the config file into the flag values and validates
// the result.
func loadSettings(cmd *cobra.Command) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFileConfig(cmd, fileCfg)
	return validateConfig()
}

func openApp(cmd *cobra.Command) (*app, error) {
	if err := loadSettings(cmd); err != nil {
		return nil, err
	}

	log, err := observe.NewLogger(logLevel, logFile)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	zap.ReplaceGlobals(log)
	provider := observe.InstallProvider(log)

	cat, err := catalog.Load(contentCatalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	tracker := progress.New(st,
		progress.WithLogger(log),
		progress.WithMetrics(observe.DefaultMetrics()),
	)
	return &app{
		log:      log,
		provider: provider,
		store:    st,
		catalog:  cat,
		tracker:  tracker,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
	if err := a.provider.Shutdown(context.Background()); err != nil {
		a.log.Warn("metrics shutdown", zap.Error(err))
	}
	_ = a.log.Sync()
}

func analysisOptions() analysis.Options {
	opts := analysis.DefaultOptions()
	opts.Threshold = analysisThreshold
	opts.ClassifyTrailingSilence = analysisTrailingSilence
	// validateConfig has already checked the mode.
	opts.LiveVolume, _ = analysis.ParseVolumeMode(analysisLiveVolume)
	return opts
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if practiceTarget == 0 {
		practiceTarget = a.catalog.DefaultTarget
	}
	if !a.catalog.ValidTarget(practiceTarget) {
		return fmt.Errorf("--target must be one of %v", a.catalog.Targets)
	}

	topics := a.catalog.Topics
	if contentTopics != "" {
		topics, err = topic.LoadTopics(contentTopics)
		if err != nil {
			return fmt.Errorf("failed to load topics: %w", err)
		}
	}

	metrics := observe.DefaultMetrics()
	flowOpts := []practice.Option{
		practice.WithLogger(a.log),
		practice.WithMetrics(metrics),
	}
	if !practiceNoMic {
		sampler := audio.NewSampler(
			mic.New(a.log),
			analysis.New(analysisOptions()),
			audio.WithSamplerLogger(a.log),
			audio.WithSamplerMetrics(metrics),
		)
		flowOpts = append(flowOpts, practice.WithMonitor(sampler))
	}
	flow := practice.NewFlow(a.catalog, a.tracker, flowOpts...)
	if err := flow.SetTarget(practiceTarget); err != nil {
		return err
	}
	if practiceTopic != "" {
		if err := flow.SetTopic(practiceTopic); err != nil {
			return err
		}
	}

	a.log.Info("practice start",
		zap.Int("target", practiceTarget),
		zap.Bool("microphone", !practiceNoMic),
		zap.Float64("threshold", analysisThreshold),
	)
	ui := tui.NewApp(tui.Deps{
		Flow:    flow,
		Tracker: a.tracker,
		Catalog: a.catalog,
		Topics:  topics,
		Stats:   model.StatsConfig{CurveWindow: defaultCurveWindow, FocusTop: defaultFocusTop},
		Log:     a.log,
	})
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	// Release the microphone if the program exited mid-session.
	if flow.Phase() == practice.PhasePracticing {
		flow.Reset(context.Background())
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyFileConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyConfig(cmd, "target", &practiceTarget, fileCfg.Practice.Target)
	applyConfig(cmd, "topic", &practiceTopic, fileCfg.Practice.Topic)
	if fileCfg.Practice.Microphone != nil {
		noMic := !*fileCfg.Practice.Microphone
		applyConfig(cmd, "no-mic", &practiceNoMic, &noMic)
	}
	applyConfig(cmd, "threshold", &analysisThreshold, fileCfg.Analysis.Threshold)
	applyConfig(cmd, "trailing-silence", &analysisTrailingSilence, fileCfg.Analysis.TrailingSilence)
	applyConfig(cmd, "live-volume", &analysisLiveVolume, fileCfg.Analysis.LiveVolume)
	applyConfig(cmd, "catalog", &contentCatalog, fileCfg.Content.Catalog)
	applyConfig(cmd, "topics", &contentTopics, fileCfg.Content.Topics)
	applyConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
}

// applyConfig copies a config file value into target unless the flag was
// set on the command line or the command does not have the flag.
func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# podium configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# target = %d               # Target duration in minutes (one of %s)
# topic = ""               # Speech topic shown during practice
# microphone = true        # Capture audio for live analysis

[analysis]
# threshold = %.1f          # Volume level above which a sample counts as speech, exclusive (0-100)
# trailing-silence = false # Classify silence still open when a session stops
# live-volume = %q   # Live volume readout: "instant" or "mean"

[content]
# catalog = ""             # Catalog YAML replacing the built-in tips and levels
# topics = ""              # Topic list file, one prompt per line

[log]
# level = %q           # debug, info, warn or error
# file = %q
`,
		catalog.Default().DefaultTarget,
		joinInts(catalog.Default().Targets),
		analysis.SilenceThreshold,
		analysis.VolumeInstant,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

// validateConfig checks the values that do not depend on the catalog.
func validateConfig() error {
	if practiceTarget < 0 {
		return fmt.Errorf("--target must be > 0")
	}
	if analysisThreshold <= 0 || analysisThreshold >= 100 {
		return fmt.Errorf("--threshold must be > 0 and < 100")
	}
	if _, ok := analysis.ParseVolumeMode(analysisLiveVolume); !ok {
		return fmt.Errorf("--live-volume must be %q or %q", analysis.VolumeInstant, analysis.VolumeMean)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
