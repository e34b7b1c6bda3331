package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"intlpipe/internal/config"
	"intlpipe/internal/extract"
	"intlpipe/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// cfgFile is the path to the config file (set via --config flag)
	cfgFile string

	// cfg holds the loaded configuration
	cfg *config.Config

	// log is the logger instance
	log *logger.Logger

	// cmdStartTime tracks when command execution started
	cmdStartTime time.Time

	// cmdCtx is the command context with logger and run context
	cmdCtx context.Context

	// Extraction flags, merged over the config file in runRoot.
	flagOut                string
	flagFunctions          []string
	flagSuppressMetadata   bool
	flagSuppressWarnings   bool
	flagWarningsAsErrors   bool
	flagRequireDescription bool
	flagWatch              bool
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "intlx [packages]",
	Short: "extract translatable messages from Go sources",
	Long: `intlx scans Go packages for translation call-sites and writes the
messages to a JSON interchange file in ICU message syntax, ready to be
handed to translators. Package patterns default to the current directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Flags()); err != nil {
			return err
		}

		var err error
		log, err = logger.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		rc := logger.NewRunContext(cmd, args)
		cmdCtx = logger.WithRunContext(context.Background(), rc)
		cmdCtx = logger.WithLogger(cmdCtx, log)
		cmdStartTime = time.Now()

		log.Debug("command started",
			"command", rc.Command,
			"args", rc.Args,
			"run_id", rc.RunID,
			"working_dir", rc.WorkingDir,
		)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if log == nil {
			return nil
		}
		rc := logger.RunContextFrom(cmdCtx)
		log.Debug("command completed",
			"command", rc.Command,
			"duration_ms", time.Since(cmdStartTime).Milliseconds(),
			"run_id", rc.RunID,
		)
		log.Close()
		return nil
	},
	RunE: runRoot,
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(onInitialize)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/intlpipe/config.yaml)")

	rootCmd.Flags().StringVar(&flagOut, "out", "", "interchange JSON file to write")
	rootCmd.Flags().StringSliceVar(&flagFunctions, "function", nil, "translation call-sites to match (pkg.Func or pkg.Type.Method)")
	rootCmd.Flags().BoolVar(&flagSuppressMetadata, "suppress-metadata", false, "emit translations only, no context or notes")
	rootCmd.Flags().BoolVar(&flagSuppressWarnings, "suppress-warnings", false, "do not print accumulated warnings")
	rootCmd.Flags().BoolVar(&flagWarningsAsErrors, "warnings-as-errors", false, "exit nonzero when any warning occurred")
	rootCmd.Flags().BoolVar(&flagRequireDescription, "require-description", false, "warn on messages without a description comment")
	rootCmd.Flags().BoolVar(&flagWatch, "watch", false, "stay running and re-extract on source changes")
}

// onInitialize is called before any command runs.
func onInitialize() {
	if cfgFile == "" {
		path, created, err := config.GenerateConfigIfNotExists("yaml")
		if err == nil && created {
			fmt.Fprintf(os.Stderr, "Created default config at: %s\n", path)
		}
	}
}

// loadConfig loads the configuration and layers explicitly set flags over
// it.
func loadConfig(flags *pflag.FlagSet) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ec := &cfg.Extract
	if flags.Changed("out") {
		ec.Out = flagOut
	}
	if flags.Changed("function") {
		ec.Functions = flagFunctions
	}
	if flags.Changed("suppress-metadata") {
		ec.SuppressMetadata = flagSuppressMetadata
	}
	if flags.Changed("suppress-warnings") {
		ec.SuppressWarnings = flagSuppressWarnings
	}
	if flags.Changed("warnings-as-errors") {
		ec.WarningsAsErrors = flagWarningsAsErrors
	}
	if flags.Changed("require-description") {
		ec.RequireDescription = flagRequireDescription
	}
	if flags.Changed("watch") {
		ec.Watch = flagWatch
	}
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	ec := cfg.Extract
	opts := extract.Options{
		Patterns:           args,
		Out:                ec.Out,
		Functions:          ec.Functions,
		SuppressMetadata:   ec.SuppressMetadata,
		RequireDescription: ec.RequireDescription,
	}

	if err := runOnce(opts, ec); err != nil {
		return err
	}
	if !ec.Watch {
		return nil
	}
	return watch(cmd.Context(), opts, ec, args)
}

// runOnce executes one extraction pass and reports its warnings.
func runOnce(opts extract.Options, ec config.ExtractConfig) error {
	result, err := extract.Run(opts)
	if err != nil {
		return err
	}
	log.Info("extraction complete",
		"messages", len(result.Records),
		"out", opts.Out,
		"warnings", result.Warnings.Count(),
	)
	if !ec.SuppressWarnings {
		result.Warnings.Print(os.Stderr)
	}
	if ec.WarningsAsErrors && result.Warnings.Count() > 0 {
		return fmt.Errorf("%d warnings treated as errors", result.Warnings.Count())
	}
	return nil
}

// watch re-runs the extraction whenever sources change, until interrupted.
func watch(ctx context.Context, opts extract.Options, ec config.ExtractConfig, patterns []string) error {
	watcher, err := extract.NewWatcher(watchDirs(patterns))
	if err != nil {
		return err
	}
	defer watcher.Stop()

	watcher.OnChange(func() {
		if err := runOnce(opts, ec); err != nil {
			log.Error("extraction failed", "error", err)
		}
	})
	watcher.Start()
	log.Info("watching for source changes", "patterns", patterns)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	return nil
}

// watchDirs maps package patterns to filesystem roots: "./..." watches ".",
// a plain directory pattern watches itself.
func watchDirs(patterns []string) []string {
	if len(patterns) == 0 {
		return []string{"."}
	}
	var dirs []string
	seen := map[string]bool{}
	for _, p := range patterns {
		dir := strings.TrimSuffix(p, "...")
		dir = strings.TrimSuffix(dir, "/")
		if dir == "" {
			dir = "."
		}
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
