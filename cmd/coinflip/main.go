package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/coinflip/internal/coin"
	"github.com/san-kum/coinflip/internal/config"
	"github.com/san-kum/coinflip/internal/engine"
	"github.com/san-kum/coinflip/internal/report"
	"github.com/san-kum/coinflip/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	configFile  string
	preset      string
	seed        int64
	batchSize   int
	sampleEvery int
	delay       string
	theme       string
	format      string
	plot        bool
	streaks     bool
	sequence    string
	verbose     bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Flag registration also resets the
// package-level flag values to their defaults.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "coinflip [trials]",
		Short:        "fair coin flip simulator",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return runLive(cmd, args)
			}
			return runHeadless(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	rootCmd.PersistentFlags().IntVar(&batchSize, "batch", engine.DefaultBatchSize, "trials per batch")
	rootCmd.PersistentFlags().IntVar(&sampleEvery, "sample", engine.DefaultSampleEvery, "snapshot every n trials")
	rootCmd.PersistentFlags().StringVar(&delay, "delay", "auto", "gap between batches (duration or auto)")
	rootCmd.PersistentFlags().StringVar(&sequence, "sequence", "", "replay a fixed outcome sequence, e.g. HHTHTTT")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme (light or dark)")

	runCmd := &cobra.Command{
		Use:   "run [trials]",
		Short: "run a simulation without the interactive view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().StringVar(&format, "format", "text", "output format: text, json, yaml, csv")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot heads probability convergence")
	runCmd.Flags().BoolVar(&streaks, "streaks", false, "include completed streak lengths")

	liveCmd := &cobra.Command{
		Use:   "live [trials]",
		Short: "run a simulation in the interactive view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme (light or dark)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-10s trials=%d batch=%d sample=%d delay=%s\n",
					name, p.Trials, p.BatchSize, p.SampleEvery, p.Delay)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config <path>",
		Short: "write the effective configuration to a yaml or toml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	configCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme (light or dark)")

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd, configCmd)
	return rootCmd
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig layers defaults, preset, config file and explicitly set flags,
// in that order. The seed stays unset unless the file or --seed pins it.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		if _, err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		pinned := seed
		cfg.Seed = &pinned
	}
	if flags.Changed("batch") {
		cfg.BatchSize = batchSize
	}
	if flags.Changed("sample") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("delay") {
		cfg.Delay = delay
	}
	if flags.Lookup("theme") != nil && flags.Changed("theme") {
		cfg.Theme = theme
	}

	if len(args) > 0 {
		n, err := engine.ParseTrials(args[0])
		if err != nil {
			return nil, err
		}
		cfg.Trials = n
	}
	return cfg, nil
}

func newEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	ec, err := cfg.EngineConfig()
	if err != nil {
		return nil, err
	}

	var src coin.Source = coin.NewRandSource(cfg.SeedOr(seed))
	if sequence != "" {
		outcomes, err := coin.ParseOutcomes(sequence)
		if err != nil {
			return nil, err
		}
		src = coin.NewSequence(outcomes...)
	}

	eng := engine.New(src, ec)
	eng.SetLogger(logger)
	return eng, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}
	rec := report.NewRecorder(cfg.HistorySize)
	eng.AddObserver(rec)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug("starting run", "trials", cfg.Trials, "seed", cfg.SeedOr(seed))
	res, err := eng.Run(ctx, cfg.Trials)
	if err != nil {
		return err
	}

	summary := report.NewSummary(res, cfg.SeedOr(seed), rec.History(), streaks)
	if err := report.Write(os.Stdout, f, summary, rec.Snapshots()); err != nil {
		return err
	}

	if plot {
		width := 80
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
			width = w - 12
		}
		fmt.Println()
		fmt.Println(report.PlotConvergence(rec.HeadsSeries(), width, 10))
		if streaks {
			fmt.Println()
			fmt.Println(report.PlotStreaks(res.Stats.HeadsStreaks, "heads streak lengths", width, 8))
			fmt.Println()
			fmt.Println(report.PlotStreaks(res.Stats.TailsStreaks, "tails streak lengths", width, 8))
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	// Logs would corrupt the alternate screen, so they go to a file only
	// when requested.
	logger := slog.New(slog.DiscardHandler)
	if verbose {
		f, err := tea.LogToFile("coinflip.log", "")
		if err != nil {
			return err
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	eng, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	m := tui.NewModel(eng, tui.Options{
		Theme:       cfg.Theme,
		HistorySize: cfg.HistorySize,
		Trials:      cfg.Trials,
		AutoStart:   len(args) > 0,
		Logger:      logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	eng.AddObserver(tui.NewBridge(p.Send))

	_, err = p.Run()
	eng.Cancel()
	eng.Wait()
	return err
}
