package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"intlpipe/internal/config"
	"intlpipe/internal/generate"
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

	// Generation flags, merged over the config file in runRoot.
	flagSources          []string
	flagFunctions        []string
	flagDir              string
	flagPrefix           string
	flagPackage          string
	flagMode             string
	flagLazy             bool
	flagSuppressWarnings bool
	flagWarningsAsErrors bool
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "intlgen <translated.json>...",
	Short: "generate per-locale message lookup code from translated JSON",
	Long: `intlgen reads translated interchange files, derives each file's locale
from its name (everything after the first underscore), and emits one Go
source file per locale plus an index file registering all locales. The
original Go sources are rescanned to recover argument names for
validation.`,
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

	rootCmd.Flags().StringSliceVar(&flagSources, "source", nil, "Go package patterns holding the original call-sites")
	rootCmd.Flags().StringSliceVar(&flagFunctions, "function", nil, "translation call-sites to match (pkg.Func or pkg.Type.Method)")
	rootCmd.Flags().StringVar(&flagDir, "dir", "", "output directory for generated files")
	rootCmd.Flags().StringVar(&flagPrefix, "prefix", "", "file name prefix for generated files")
	rootCmd.Flags().StringVar(&flagPackage, "package", "", "package name for generated files (defaults to prefix)")
	rootCmd.Flags().StringVar(&flagMode, "mode", "", "generation mode: release or debug")
	rootCmd.Flags().BoolVar(&flagLazy, "lazy", false, "load locale tables on first lookup instead of at init")
	rootCmd.Flags().BoolVar(&flagSuppressWarnings, "suppress-warnings", false, "do not print accumulated warnings")
	rootCmd.Flags().BoolVar(&flagWarningsAsErrors, "warnings-as-errors", false, "exit nonzero when any warning occurred")
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

	gc := &cfg.Generate
	if flags.Changed("source") {
		gc.Sources = flagSources
	}
	if flags.Changed("function") {
		cfg.Extract.Functions = flagFunctions
	}
	if flags.Changed("dir") {
		gc.Dir = flagDir
	}
	if flags.Changed("prefix") {
		gc.Prefix = flagPrefix
	}
	if flags.Changed("package") {
		gc.Package = flagPackage
	}
	if flags.Changed("mode") {
		gc.Mode = flagMode
	}
	if flags.Changed("lazy") {
		gc.Lazy = flagLazy
	}
	if flags.Changed("suppress-warnings") {
		gc.SuppressWarnings = flagSuppressWarnings
	}
	if flags.Changed("warnings-as-errors") {
		gc.WarningsAsErrors = flagWarningsAsErrors
	}
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	// No inputs is not an error: print usage and exit clean, so wildcard
	// invocations with nothing to do succeed in scripts.
	if len(args) == 0 {
		return cmd.Help()
	}

	gc := cfg.Generate
	result, err := generate.Run(generate.Options{
		Files:          args,
		SourcePatterns: gc.Sources,
		Functions:      cfg.Extract.Functions,
		Dir:            gc.Dir,
		Prefix:         gc.Prefix,
		Package:        gc.Package,
		Mode:           gc.Mode,
		Lazy:           gc.Lazy,
	})
	if err != nil {
		return err
	}

	log.Info("generation complete",
		"locales", result.Locales,
		"files", len(result.LocaleFiles)+1,
		"warnings", result.Warnings.Count(),
	)
	if !gc.SuppressWarnings {
		result.Warnings.Print(os.Stderr)
	}
	if gc.WarningsAsErrors && result.Warnings.Count() > 0 {
		return fmt.Errorf("%d warnings treated as errors", result.Warnings.Count())
	}
	return nil
}
