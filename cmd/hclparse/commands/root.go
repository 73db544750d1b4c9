package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/panyam/hclexpr/config"
	"github.com/panyam/hclexpr/loader"
	"github.com/panyam/hclexpr/parser"
	"github.com/spf13/cobra"
)

// Global flags.  Only the ones set on the command line override config.
var (
	configPath    string
	maxErrors     int
	maxInputBytes int
	concurrency   int
	colorMode     string
	logLevel      string
)

// Resolved by the root command before any subcommand runs
var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hclparse",
	Short: "hclparse parses HCL attribute files and reports diagnostics",
	Long: `hclparse reads files of HCL attributes (name = expression), and can
print their tokens, dump the syntax tree, check them for errors or rewrite
them in canonical form.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to the config file (default: hclparse.toml in this or a parent directory)")
	flags.IntVar(&maxErrors, "max-errors", 0, "Diagnostics reported per file, 0 for no limit")
	flags.IntVar(&maxInputBytes, "max-input-bytes", 0, "Reject files larger than this, 0 for no limit")
	flags.IntVar(&concurrency, "concurrency", 0, "Files parsed at once (default: number of CPUs)")
	flags.StringVar(&colorMode, "color", "", "Colorize diagnostics: auto, always or never")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	c, path, err := config.Resolve(wd, configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("max-errors") {
		c.MaxErrors = maxErrors
	}
	if flags.Changed("max-input-bytes") {
		c.MaxInputBytes = maxInputBytes
	}
	if flags.Changed("concurrency") {
		c.Concurrency = concurrency
	}
	if flags.Changed("color") {
		c.Color = colorMode
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if err := c.Validate(); err != nil {
		return err
	}

	switch c.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
	level, _ := c.SlogLevel()
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	logger.Debug("configuration loaded", "path", path, "concurrency", c.Concurrency, "max_errors", c.MaxErrors)
	cfg = c
	return nil
}

// newLoader builds a loader over the local disk using the resolved config.
func newLoader() *loader.Loader {
	return loader.New(diskFS,
		loader.WithConcurrency(cfg.Concurrency),
		loader.WithMaxErrors(cfg.MaxErrors),
		loader.WithParserOpts(parser.WithMaxInputBytes(cfg.MaxInputBytes)),
		loader.WithLogger(logger),
	)
}
