// Package processor provides the core processing orchestration for the
// config-driven architecture. It coordinates input resolution, line
// filtering, format detection, parsing, and output rendering.
package processor

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nowwaveradio/datetime-normalizer/internal/chrono"
	"github.com/nowwaveradio/datetime-normalizer/internal/config"
	"github.com/nowwaveradio/datetime-normalizer/internal/errorutil"
	"github.com/nowwaveradio/datetime-normalizer/internal/filter"
	"github.com/nowwaveradio/datetime-normalizer/internal/formats"
	"github.com/nowwaveradio/datetime-normalizer/internal/formatter"
	"github.com/nowwaveradio/datetime-normalizer/internal/logger"
	"github.com/nowwaveradio/datetime-normalizer/internal/template"
)

// Processor orchestrates the complete workflow for normalizing inputs
type Processor struct {
	config    *config.Config
	registry  *formats.Registry
	resolver  *InputResolver
	filter    *filter.Filter
	formatter *formatter.Formatter
	style     chrono.ResolverStyle
	logger    *slog.Logger
}

// Options controls how a single processing run behaves
type Options struct {
	InputFormat string // format key, alias, or inline pattern; empty enables detection
	Template    string // report template override
	CheckOnly   bool   // report verdicts instead of writing normalized output
	DryRun      bool   // print output instead of writing files
}

// ProcessingResult contains the results of processing a single input file
type ProcessingResult struct {
	InputFile     string
	OutputFile    string
	TotalLines    int
	FilteredLines int
	ParsedValues  int
	FailedValues  int
	Template      string
	CheckOnly     bool
	DryRun        bool
	Success       bool
	Error         error
	Duration      time.Duration
}

// BatchResult contains the results of batch processing multiple files
type BatchResult struct {
	TotalFiles      int
	ProcessedFiles  int
	SuccessfulFiles int
	FailedFiles     int
	Results         []ProcessingResult
	TotalDuration   time.Duration
}

// NewProcessor creates a new Processor with all dependencies initialized
func NewProcessor(cfg *config.Config) (*Processor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	// Initialize format registry
	registry, err := formats.NewRegistry(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing format registry: %w", err)
	}

	// Validate format configurations
	if err := registry.ValidateFormats(); err != nil {
		return nil, fmt.Errorf("format validation failed: %w", err)
	}

	// Initialize input resolver with processing directory
	baseDir := cfg.Processing.InputDirectory
	if baseDir == "" {
		baseDir = "."
	}
	resolver := NewInputResolver(baseDir)

	// Initialize line filter
	lineFilter, err := filter.NewFilter(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing line filter: %w", err)
	}

	// Initialize output formatter with template support
	outputFormatter, err := formatter.NewFormatter(cfg, registry)
	if err != nil {
		return nil, fmt.Errorf("initializing formatter: %w", err)
	}

	style, err := chrono.ParseResolverStyle(cfg.Parsing.ResolverStyle)
	if err != nil {
		return nil, fmt.Errorf("resolving parser style: %w", err)
	}

	// Use the global file logger
	log := logger.Get()

	return &Processor{
		config:    cfg,
		registry:  registry,
		resolver:  resolver,
		filter:    lineFilter,
		formatter: outputFormatter,
		style:     style,
		logger:    log.Logger, // Use the underlying slog.Logger
	}, nil
}

// ProcessValue normalizes a single value given on the command line and
// returns the rendered output (or the check verdict in check mode).
func (p *Processor) ProcessValue(value string, opts Options) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("value cannot be empty")
	}

	v, formatKey, err := p.parseValue(trimmed, opts.InputFormat)
	line := p.formatter.Line(1, trimmed, v, formatKey, err)

	if opts.CheckOnly {
		return p.formatter.FormatCheckLine(line), nil
	}

	if !line.Valid {
		return "", fmt.Errorf("normalizing %q: %s", trimmed, line.Error)
	}

	p.logger.Debug("Value normalized",
		slog.String("input", trimmed),
		slog.String("output", line.Output),
		slog.String("format", formatKey))

	return line.Output, nil
}

// ProcessFile normalizes one input file. The path argument may be a direct
// path or a glob pattern, in which case the newest match is used.
func (p *Processor) ProcessFile(pathOrPattern string, opts Options) error {
	startTime := time.Now()

	inputFile, err := p.resolver.ResolveInput(pathOrPattern)
	if err != nil {
		return fmt.Errorf("resolving input file: %w", err)
	}

	result := p.processSingleFile(inputFile, opts)
	result.Duration = time.Since(startTime)

	p.printSingleResult(result)

	if result.Error != nil {
		return result.Error
	}

	return nil
}

// ProcessBatch normalizes every file matching a glob pattern, processing
// them in batches according to the configured batch size.
func (p *Processor) ProcessBatch(pattern string, opts Options) error {
	startTime := time.Now()

	files, err := p.resolver.FindInputFiles(pattern)
	if err != nil {
		return fmt.Errorf("finding input files: %w", err)
	}

	if len(files) == 0 {
		fmt.Printf("No files match pattern: %s\n", pattern)
		return nil
	}

	fmt.Printf("Processing %d input files\n", len(files))
	fmt.Printf("=========================\n\n")

	batchResult := &BatchResult{
		TotalFiles: len(files),
		Results:    make([]ProcessingResult, 0, len(files)),
	}

	batchSize := p.config.Processing.BatchSize

	p.logger.Info("Starting batch processing",
		slog.Int("total_files", len(files)),
		slog.Int("batch_size", batchSize))
	if batchSize <= 0 {
		batchSize = 5 // Default batch size
	}

	for i := 0; i < len(files); i += batchSize {
		end := i + batchSize
		if end > len(files) {
			end = len(files)
		}

		batch := files[i:end]
		fmt.Printf("Processing batch %d/%d (%d files)\n",
			(i/batchSize)+1, (len(files)+batchSize-1)/batchSize, len(batch))
		fmt.Printf("──────────────────────────────────────\n")

		for _, file := range batch {
			fileStart := time.Now()
			result := p.processSingleFile(file, opts)
			result.Duration = time.Since(fileStart)

			batchResult.Results = append(batchResult.Results, result)
			batchResult.ProcessedFiles++

			if result.Error != nil {
				batchResult.FailedFiles++
				fmt.Printf("❌ Failed: %s - %v\n\n", file, result.Error)
			} else {
				batchResult.SuccessfulFiles++
				fmt.Printf("✅ Success: %s (%d values, %d invalid)\n\n",
					file, result.ParsedValues, result.FailedValues)
			}
		}
	}

	batchResult.TotalDuration = time.Since(startTime)

	p.logger.Info("Batch processing completed",
		slog.Int("total_files", batchResult.TotalFiles),
		slog.Int("successful", batchResult.SuccessfulFiles),
		slog.Int("failed", batchResult.FailedFiles),
		slog.Duration("total_duration", batchResult.TotalDuration))

	p.printBatchSummary(batchResult)

	// Return error if any files failed (but continue processing)
	if batchResult.FailedFiles > 0 {
		return fmt.Errorf("%d of %d files failed", batchResult.FailedFiles, batchResult.TotalFiles)
	}

	return nil
}

// processSingleFile handles the core processing logic for a single file
func (p *Processor) processSingleFile(inputFile string, opts Options) ProcessingResult {
	result := ProcessingResult{
		InputFile: inputFile,
		CheckOnly: opts.CheckOnly,
		DryRun:    opts.DryRun,
		Template:  opts.Template,
	}

	p.logger.Info("Processing file",
		slog.String("file", inputFile),
		slog.Bool("check_only", opts.CheckOnly),
		slog.Bool("dry_run", opts.DryRun))

	if err := p.resolver.ValidateInputFile(inputFile); err != nil {
		p.logger.Error("Input file validation failed",
			slog.String("file", inputFile),
			slog.String("error", err.Error()))
		result.Error = fmt.Errorf("validating input file: %w", err)
		return result
	}

	lines, stats, err := p.readAndParse(inputFile, opts.InputFormat)
	if err != nil {
		p.logger.Error("Input file reading failed",
			slog.String("file", inputFile),
			slog.String("error", err.Error()))
		result.Error = fmt.Errorf("reading input file: %w", err)
		return result
	}

	result.TotalLines = stats.LinesProcessed
	result.FilteredLines = stats.LinesFiltered
	valid, invalid := formatter.CountResults(lines)
	result.ParsedValues = valid
	result.FailedValues = invalid

	p.logger.Info("File parsed",
		slog.String("file", inputFile),
		slog.Int("total_lines", result.TotalLines),
		slog.Int("filtered", result.FilteredLines),
		slog.Int("valid", valid),
		slog.Int("invalid", invalid))

	if len(lines) == 0 {
		p.logger.Warn("No values found in input file",
			slog.String("file", inputFile))
		result.Error = fmt.Errorf("no values found in input file")
		return result
	}

	// Render output
	sourceName := filepath.Base(inputFile)
	var rendered string
	if opts.CheckOnly {
		rendered = p.formatter.RenderCheckReport(sourceName, lines)
	} else if opts.Template != "" {
		rendered = p.formatter.RenderReportWithTemplate(sourceName, lines, opts.Template, nil)
	} else {
		rendered = p.formatter.RenderReport(sourceName, lines)
		result.Template = p.formatter.GetDefaultTemplateName()
	}

	if rendered == "" {
		p.logger.Error("Rendering produced empty result",
			slog.String("file", inputFile))
		result.Error = fmt.Errorf("rendering produced empty result")
		return result
	}

	// Check mode and dry runs print instead of writing
	if opts.CheckOnly {
		fmt.Printf("%s\n", rendered)
		result.Success = true
		return result
	}

	if opts.DryRun {
		fmt.Printf("DRY RUN - Would write output for %s:\n", sourceName)
		fmt.Printf("─────────────────────────────────────────\n")
		fmt.Printf("%s\n", rendered)
		fmt.Printf("─────────────────────────────────────────\n")
		result.Success = true
		return result
	}

	outputFile, err := p.writeOutput(inputFile, rendered)
	if err != nil {
		p.logger.Error("Output writing failed",
			slog.String("file", inputFile),
			slog.String("error", err.Error()))
		result.Error = fmt.Errorf("writing output: %w", err)
		return result
	}
	result.OutputFile = outputFile

	if outputFile != "" {
		p.logger.Info("Output written",
			slog.String("input", inputFile),
			slog.String("output", outputFile))
	}

	result.Success = true
	return result
}

// readAndParse reads an input file line by line, applies the line filter,
// and parses every remaining line.
func (p *Processor) readAndParse(inputFile string, inputFormat string) ([]template.FormattedLine, *filter.FilterStats, error) {
	file, err := os.Open(inputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", inputFile, err)
	}
	defer file.Close()

	stats := filter.NewFilterStats()
	var lines []template.FormattedLine

	scanner := bufio.NewScanner(file)
	index := 0
	for scanner.Scan() {
		raw := scanner.Text()

		filterResult := p.filter.FilterLine(raw)
		stats.Record(filterResult)
		if !filterResult.ShouldInclude {
			continue
		}

		index++
		trimmed := strings.TrimSpace(raw)
		v, formatKey, parseErr := p.parseValue(trimmed, inputFormat)
		lines = append(lines, p.formatter.Line(index, trimmed, v, formatKey, parseErr))
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scanning %s: %w", inputFile, err)
	}

	return lines, stats, nil
}

// parseValue parses one value using the explicit input format when given,
// format detection when enabled, or the configured default format.
func (p *Processor) parseValue(text string, inputFormat string) (chrono.Value, string, error) {
	if inputFormat != "" {
		compiled, err := p.registry.PatternFor(inputFormat)
		if err != nil {
			return chrono.Value{}, "", err
		}
		v, err := compiled.Parse(text, p.style)
		return v, p.registry.FindFormatKey(inputFormat), err
	}

	if p.config.Parsing.AutoDetect {
		return p.registry.Detect(text, p.style)
	}

	defaultFormat := p.config.Parsing.DefaultFormat
	compiled, err := p.registry.PatternFor(defaultFormat)
	if err != nil {
		return chrono.Value{}, "", err
	}
	v, err := compiled.Parse(text, p.style)
	return v, p.registry.FindFormatKey(defaultFormat), err
}

// writeOutput writes rendered output next to the input file or into the
// configured output directory. With no output directory the output goes to
// stdout and no file is written.
func (p *Processor) writeOutput(inputFile string, rendered string) (string, error) {
	outputDir := p.config.Processing.OutputDirectory
	if outputDir == "" {
		fmt.Printf("%s\n", rendered)
		return "", nil
	}

	outputFile := filepath.Join(outputDir, filepath.Base(inputFile))

	if !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}

	if err := errorutil.SafeWriteFile(outputFile, []byte(rendered), "write output", true); err != nil {
		return "", errorutil.LogAndWrap(p.logger, "write output", err,
			slog.String("output_file", outputFile))
	}

	return outputFile, nil
}

// printSingleResult displays results for single file processing
func (p *Processor) printSingleResult(result ProcessingResult) {
	fmt.Printf("\n")
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")

	if result.Error != nil {
		fmt.Printf("❌ Failed: %s\n", result.InputFile)
		fmt.Printf("Error: %v\n", result.Error)
	} else if result.Success {
		fmt.Printf("✅ Success: %s\n", result.InputFile)
		if result.OutputFile != "" {
			fmt.Printf("Output: %s\n", result.OutputFile)
		}
		valueLines := result.ParsedValues + result.FailedValues
		if valueLines > 0 {
			fmt.Printf("Values: %d/%d normalized (%.0f%%)\n",
				result.ParsedValues, valueLines,
				float64(result.ParsedValues)/float64(valueLines)*100)
		}
		fmt.Printf("Lines filtered: %d of %d\n", result.FilteredLines, result.TotalLines)
		if result.Template != "" {
			fmt.Printf("Template: %s\n", result.Template)
		}
	}

	fmt.Printf("Duration: %.1fs\n", result.Duration.Seconds())

	if result.DryRun {
		fmt.Printf("\nDry run complete. Use --dry-run=false to apply changes.\n")
	}

	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
}

// printBatchSummary displays summary for batch processing
func (p *Processor) printBatchSummary(result *BatchResult) {
	fmt.Printf("\n")
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("Batch Processing Summary\n")
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("Total Files: %d\n", result.TotalFiles)
	fmt.Printf("Successful: %d\n", result.SuccessfulFiles)
	fmt.Printf("Failed: %d\n", result.FailedFiles)
	fmt.Printf("Duration: %.1fs\n", result.TotalDuration.Seconds())

	if result.FailedFiles > 0 {
		fmt.Printf("\nFailed Files:\n")
		for _, res := range result.Results {
			if res.Error != nil {
				fmt.Printf("• %s: %v\n", res.InputFile, res.Error)
			}
		}
	}

	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
}
