package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/nowwaveradio/datetime-normalizer/internal/config"
	"github.com/nowwaveradio/datetime-normalizer/internal/errorutil"
	"github.com/nowwaveradio/datetime-normalizer/internal/logger"
	"github.com/nowwaveradio/datetime-normalizer/internal/processor"
)

const version = "1.0.0"

var (
	value        = flag.String("value", "", "Single date/time value to normalize")
	inputFile    = flag.String("input", "", "Input file or glob pattern to normalize")
	batchPattern = flag.String("batch", "", "Glob pattern - normalize every matching file")
	inFormat     = flag.String("in-format", "", "Input format key, alias, or pattern (default: auto-detect)")
	outFormat    = flag.String("out-format", "", "Output format key, alias, or pattern (overrides config)")
	style        = flag.String("style", "", "Resolver style: strict, smart, or lenient (overrides config)")
	templateName = flag.String("template", "", "Report template name (overrides config)")
	checkOnly    = flag.Bool("check", false, "Report valid/invalid verdicts without writing output")
	watch        = flag.Bool("watch", false, "Watch the input directory and process files as they change")
	dryRun       = flag.Bool("dry-run", false, "Preview output without writing files")
	configFile   = flag.String("config", "config.toml", "Path to the configuration file")
	showVersion  = flag.Bool("version", false, "Show version information")
	help         = flag.Bool("help", false, "Show help information")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Datetime Normalizer v%s\n\n", version)
		fmt.Fprintf(os.Stderr, "Normalizes date/time values from files or the command line using configurable named formats.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "One of these modes is required:\n")
		fmt.Fprintf(os.Stderr, "  -value string\n        Single date/time value to normalize\n")
		fmt.Fprintf(os.Stderr, "  -input string\n        Input file or glob pattern to normalize\n")
		fmt.Fprintf(os.Stderr, "  -batch string\n        Glob pattern - normalize every matching file\n")
		fmt.Fprintf(os.Stderr, "  -watch\n        Watch the input directory for changes\n\n")
		fmt.Fprintf(os.Stderr, "Optional flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -value \"09/30/2022\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -value \"09/30/2022\" -in-format us -out-format \"uuuu-MM-dd\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -input dates.txt -check\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -batch \"*.txt\" -style strict -dry-run\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -watch -input \"*.txt\" -config custom.toml\n", os.Args[0])
	}
}

// validateArguments performs validation of command-line arguments
func validateArguments() error {
	modes := 0
	if *value != "" {
		modes++
	}
	if *batchPattern != "" {
		modes++
	}
	if *inputFile != "" && !*watch {
		modes++
	}
	if *watch {
		modes++
	}

	if modes == 0 {
		return fmt.Errorf("one of --value, --input, --batch, or --watch is required")
	}
	if *value != "" && (*inputFile != "" || *batchPattern != "" || *watch) {
		return fmt.Errorf("--value cannot be combined with file processing modes")
	}
	if *batchPattern != "" && (*inputFile != "" || *watch) {
		return fmt.Errorf("--batch cannot be combined with --input or --watch")
	}

	if *style != "" {
		switch *style {
		case "strict", "smart", "lenient":
		default:
			return fmt.Errorf("invalid --style %q (must be strict, smart, or lenient)", *style)
		}
	}

	if err := validateConfigFile(*configFile); err != nil {
		return fmt.Errorf("config file validation failed: %w", err)
	}

	return nil
}

// validateConfigFile checks if the config file exists or can be created
func validateConfigFile(filePath string) error {
	cleanPath := filepath.Clean(filePath)

	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		// Config file doesn't exist - confirm the directory so a default can
		// be created there later
		dir := filepath.Dir(cleanPath)
		return errorutil.ValidateDirectory(dir, "validate config location", false)
	}

	return errorutil.ValidateFileReadable(cleanPath, "validate config file")
}

// loadConfiguration loads and validates the configuration file, creating a
// default one on first run.
func loadConfiguration(configPath string) (*config.Config, error) {
	cleanPath := filepath.Clean(configPath)

	if _, err := os.Stat(cleanPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("Config file not found: %s\n", cleanPath)
			fmt.Printf("Creating default configuration file...\n")

			defaultCfg := config.DefaultConfig()
			if err := config.SaveConfig(defaultCfg, cleanPath); err != nil {
				return nil, fmt.Errorf("failed to create default config file: %w", err)
			}

			fmt.Printf("Default configuration created at: %s\n\n", cleanPath)
			defaultCfg.ApplyEnvironmentOverrides()
			return defaultCfg, nil
		}
		return nil, fmt.Errorf("cannot access config file: %w", err)
	}

	cfg, err := config.LoadConfig(cleanPath)
	if err != nil {
		// Provide specific error messages for common config issues
		if strings.Contains(err.Error(), "toml") {
			return nil, fmt.Errorf("invalid TOML format in config file %s: %w", cleanPath, err)
		}
		return nil, fmt.Errorf("failed to load config from %s: %w", cleanPath, err)
	}

	return cfg, nil
}

// applyFlagOverrides folds command-line overrides into the loaded config
// before validation
func applyFlagOverrides(cfg *config.Config) {
	if *style != "" {
		cfg.Parsing.ResolverStyle = *style
	}
	if *outFormat != "" {
		cfg.Output.Format = *outFormat
	}
	if *templateName != "" {
		cfg.Output.Template = *templateName
	}
}

// runMode executes the selected processing mode and returns a short
// description of it for the execution summary
func runMode(p *processor.Processor, opts processor.Options) (string, []string, error) {
	switch {
	case *value != "":
		output, err := p.ProcessValue(*value, opts)
		if err != nil {
			return "value", nil, err
		}
		fmt.Println(output)
		return "value", []string{fmt.Sprintf("%s -> %s", *value, output)}, nil

	case *watch:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pattern := *inputFile
		err := p.Watch(ctx, pattern, opts)
		if errors.Is(err, context.Canceled) {
			fmt.Printf("\nWatch mode stopped.\n")
			return "watch", nil, nil
		}
		return "watch", nil, err

	case *batchPattern != "":
		err := p.ProcessBatch(*batchPattern, opts)
		return "batch", []string{fmt.Sprintf("pattern %s", *batchPattern)}, err

	default:
		err := p.ProcessFile(*inputFile, opts)
		return "file", []string{*inputFile}, err
	}
}

func main() {
	startTime := time.Now()

	flag.Parse()

	// Handle help and version flags
	if *help {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("Datetime Normalizer v%s\n", version)
		os.Exit(0)
	}

	// Print banner
	fmt.Printf("Datetime Normalizer v%s\n", version)
	fmt.Printf("=================================\n\n")

	// Validate required arguments
	if err := validateArguments(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration from file
	cfg, err := loadConfiguration(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	applyFlagOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation failed: %v\n", err)
		os.Exit(1)
	}

	// Initialize file logging if enabled
	loggingActive := false
	if cfg.Logging.Enabled {
		if err := logger.Initialize(cfg.Logging); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize file logging: %v\n", err)
		} else {
			loggingActive = true
		}
	}

	// Build the processor
	p, err := processor.NewProcessor(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing processor: %v\n", err)
		os.Exit(1)
	}

	opts := processor.Options{
		InputFormat: *inFormat,
		Template:    *templateName,
		CheckOnly:   *checkOnly,
		DryRun:      *dryRun,
	}

	mode, results, err := runMode(p, opts)

	exitCode := 0
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = 1
	}

	if loggingActive {
		logger.Get().LogExecutionSummary(startTime, *configFile, mode, results, exitCode)
		logger.Get().Close()
	}

	if exitCode == 0 {
		fmt.Println("✓ Done!")
	}
	os.Exit(exitCode)
}
