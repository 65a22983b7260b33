// Package main provides the CLI entrypoint for kakitori.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/kakitori/internal/charset"
	"github.com/verte-zerg/kakitori/internal/config"
	"github.com/verte-zerg/kakitori/internal/glyph"
	"github.com/verte-zerg/kakitori/internal/kanjivg"
	"github.com/verte-zerg/kakitori/internal/model"
	"github.com/verte-zerg/kakitori/internal/session"
	"github.com/verte-zerg/kakitori/internal/stats"
	"github.com/verte-zerg/kakitori/internal/statsui"
	"github.com/verte-zerg/kakitori/internal/store"
	"github.com/verte-zerg/kakitori/internal/tui"
)

var (
	practiceHitRatio       float64
	practiceCorridorWidth  float64
	practiceCheckDirection bool
	practiceStrictOrder    bool
	practiceDueMode        int
	practiceAutoAdvance    bool
	practiceDue            bool

	statsChars string
	statsSort  string
	statsPlain bool
	statsWeak  int

	fetchForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := model.DefaultConfig()
	rootCmd := &cobra.Command{
		Use:           "kakitori [characters or text]",
		Short:         "TUI kanji stroke practice",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().Float64Var(&practiceHitRatio, "hit-ratio", defaults.HitRatio, "fraction of stroke samples that must land in the corridor (0-1)")
	rootCmd.Flags().Float64Var(&practiceCorridorWidth, "corridor-width", defaults.CorridorWidth, "corridor width in grid units")
	rootCmd.Flags().BoolVar(&practiceCheckDirection, "check-direction", defaults.ValidateDir, "reject strokes drawn the wrong way")
	rootCmd.Flags().BoolVar(&practiceStrictOrder, "strict-order", defaults.StrictOrder, "require canonical stroke order")
	rootCmd.Flags().IntVar(&practiceDueMode, "due-mode", defaults.DueMode, "due-card visibility: 1 minimal, 2 full, 3 procedural")
	rootCmd.Flags().BoolVar(&practiceAutoAdvance, "auto-advance", defaults.AutoAdvance, "move to the next character on completion")
	rootCmd.Flags().BoolVar(&practiceDue, "due", false, "treat the characters as due cards")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newFetchCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "hit-ratio", &practiceHitRatio, fileCfg.Practice.HitRatio)
	applyFloatConfig(cmd, "corridor-width", &practiceCorridorWidth, fileCfg.Practice.CorridorWidth)
	applyBoolConfig(cmd, "check-direction", &practiceCheckDirection, fileCfg.Practice.CheckDirection)
	applyBoolConfig(cmd, "strict-order", &practiceStrictOrder, fileCfg.Practice.StrictOrder)
	applyIntConfig(cmd, "due-mode", &practiceDueMode, fileCfg.Practice.DueMode)
	applyBoolConfig(cmd, "auto-advance", &practiceAutoAdvance, fileCfg.Practice.AutoAdvance)

	cfg := model.Config{
		HitRatio:      practiceHitRatio,
		CorridorWidth: practiceCorridorWidth,
		ValidateDir:   practiceCheckDirection,
		StrictOrder:   practiceStrictOrder,
		DueMode:       practiceDueMode,
		AutoAdvance:   practiceAutoAdvance,
	}

	if err := validateConfig(cfg); err != nil {
		return err
	}

	requested := charset.ExtractFromArgs(args)
	if len(requested) == 0 {
		return fmt.Errorf("no kanji found in arguments")
	}

	chars, err := loadCharacters(cmd.Context(), requested)
	if err != nil {
		return err
	}
	if len(chars) == 0 {
		return fmt.Errorf("none of the requested characters have stroke data")
	}

	storePath := config.DefaultDBPath()
	if err := os.MkdirAll(filepath.Dir(storePath), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	sess := session.New(context.Background(), cfg, chars, st)
	model := tui.NewModel(cfg, sess, practiceDue)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadCharacters resolves stroke data for each requested character,
// skipping the ones without a stroke diagram.
func loadCharacters(ctx context.Context, requested []string) ([]glyph.Character, error) {
	glyphs := glyph.NewStore(kanjivg.NewClient(config.DefaultGlyphCacheDir()))
	chars := make([]glyph.Character, 0, len(requested))
	for _, char := range requested {
		c, err := glyphs.Get(ctx, char)
		if err != nil {
			if errors.Is(err, glyph.ErrNotFound) {
				logErrf("no stroke data for %s, skipping\n", char)
				continue
			}
			return nil, fmt.Errorf("failed to load stroke data for %s: %w", char, err)
		}
		chars = append(chars, c)
	}
	return chars, nil
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

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-character stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsChars, "char", "", "restrict to these characters")
	cmd.Flags().StringVar(&statsSort, "sort", "char", "sort key: char, attempts, errors, streak, recent")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print to stdout instead of the TUI")
	cmd.Flags().IntVar(&statsWeak, "weak", 0, "also list the N weakest characters")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg := model.StatsConfig{
		Chars: statsChars,
		Sort:  statsSort,
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		return renderPlainStats(cmd, st, cfg)
	}

	model := statsui.NewModel(st, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(cmd *cobra.Command, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Rows); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCharTable(out, report.Rows); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderErrorBars(out, report.Rows, stats.TerminalWidth()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if statsWeak > 0 {
		weak := stats.WeakestChars(report.Rows, statsWeak)
		if _, err := fmt.Fprintf(out, "Weakest: %s\n", strings.Join(weak, " ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [characters or text]",
		Short: "Prefetch stroke data",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runFetchCmd,
	}
	cmd.Flags().BoolVar(&fetchForce, "force", false, "refetch characters already cached")
	return cmd
}

func runFetchCmd(cmd *cobra.Command, args []string) error {
	requested := charset.ExtractFromArgs(args)
	if len(requested) == 0 {
		return fmt.Errorf("no kanji found in arguments")
	}

	cacheDir := config.DefaultGlyphCacheDir()
	if fetchForce {
		for _, char := range requested {
			if err := kanjivg.Evict(cacheDir, char); err != nil {
				return fmt.Errorf("failed to evict %s from cache: %w", char, err)
			}
		}
	}

	client := kanjivg.NewClient(cacheDir)
	logErrf("Fetching stroke data for %d characters...\n", len(requested))
	missing, err := client.Prefetch(cmd.Context(), requested)
	if err != nil {
		return fmt.Errorf("failed to fetch stroke data: %w", err)
	}
	for _, char := range missing {
		logErrf("no stroke data for %s\n", char)
	}
	logErrf("Fetched %d of %d characters\n", len(requested)-len(missing), len(requested))
	return nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	defaults := model.DefaultConfig()
	return fmt.Sprintf(`# kakitori configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# hit-ratio = %.2f        # Fraction of stroke samples inside the corridor (0-1)
# corridor-width = %.1f   # Corridor width in grid units
# check-direction = %t   # Reject strokes drawn the wrong way
# strict-order = %t      # Require canonical stroke order
# due-mode = %d           # Due-card visibility: 1 minimal, 2 full, 3 procedural
# auto-advance = %t     # Move to the next character on completion
`,
		defaults.HitRatio,
		defaults.CorridorWidth,
		defaults.ValidateDir,
		defaults.StrictOrder,
		defaults.DueMode,
		defaults.AutoAdvance,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.HitRatio <= 0 || cfg.HitRatio > 1 {
		return fmt.Errorf("--hit-ratio must be between 0 and 1")
	}
	if cfg.CorridorWidth <= 0 {
		return fmt.Errorf("--corridor-width must be > 0")
	}
	if cfg.DueMode < model.DueModeMinimal || cfg.DueMode > model.DueModeProcedural {
		return fmt.Errorf("--due-mode must be 1, 2, or 3")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
