// Package analyzer produces the per-script report behind the info command.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/penwyp/go-funscripter/internal/data/parser"
	"github.com/penwyp/go-funscripter/internal/data/scanner"
	"github.com/penwyp/go-funscripter/internal/presentation/formatter"
	"github.com/penwyp/go-funscripter/internal/util"
)

type Config struct {
	Paths        []string
	OutputFormat string
	SortBy       string // path, actions, duration, speed
	Limit        int
	Concurrency  int
	Out          io.Writer
}

type Analyzer struct {
	config  *Config
	scanner *scanner.FileScanner
	parser  *parser.Parser
	stats   *LoadStats
}

func New(config *Config, logger util.LoggerInterface) *Analyzer {
	if config.Concurrency == 0 {
		config.Concurrency = runtime.NumCPU()
	}
	if config.Out == nil {
		config.Out = os.Stdout
	}
	return &Analyzer{
		config:  config,
		scanner: scanner.NewFileScanner(config.Paths...),
		parser:  parser.NewParser(config.Concurrency, logger),
		stats:   NewLoadStats(),
	}
}

// Stats returns the load counters of the last Run.
func (a *Analyzer) Stats() *LoadStats { return a.stats }

// Run scans, loads and reports. Scripts that fail to load are reported
// with their error rather than aborting the run.
func (a *Analyzer) Run(ctx context.Context) error {
	startTime := time.Now()
	f, err := formatter.New(a.config.OutputFormat)
	if err != nil {
		return err
	}

	// Phase 1: Scan files
	scanStart := time.Now()
	files, err := a.scanner.Scan()
	if err != nil {
		return fmt.Errorf("failed to scan files: %w", err)
	}
	scanDuration := time.Since(scanStart)
	util.LogDebug(fmt.Sprintf("Phase 1 - File scan duration: %v, found %d files", scanDuration, len(files)))
	if len(files) == 0 {
		return fmt.Errorf("no funscript files found")
	}

	// Phase 2: Load concurrently
	parseStart := time.Now()
	summaries := make([]formatter.ScriptSummary, 0, len(files))
	for result := range a.parser.ParseFiles(ctx, files) {
		summaries = append(summaries, a.summarize(result))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	parseDuration := time.Since(parseStart)
	util.LogDebug(fmt.Sprintf("Phase 2 - Load duration: %v", parseDuration))
	a.stats.LogFinal()

	// Phase 3: Sort and limit
	a.sortSummaries(summaries)
	if a.config.Limit > 0 && len(summaries) > a.config.Limit {
		util.LogDebug(fmt.Sprintf("Applying result limit: %d -> %d", len(summaries), a.config.Limit))
		summaries = summaries[:a.config.Limit]
	}

	// Phase 4: Format and output
	outputStart := time.Now()
	err = f.Format(a.config.Out, summaries)
	util.LogDebug(fmt.Sprintf("Phase 4 - Formatting and output duration: %v", time.Since(outputStart)))
	util.LogDebug(fmt.Sprintf("Total duration: %v (scan:%v load:%v)", time.Since(startTime), scanDuration, parseDuration))
	return err
}

func (a *Analyzer) summarize(res parser.ParseResult) formatter.ScriptSummary {
	s := formatter.Summarize(res.File, res.Script)
	s.Missing = len(res.Report.Missing)
	switch {
	case res.Error != nil && res.Script != nil:
		a.stats.IncrementPartial(res.File)
		s.Error = res.Error.Error()
	case res.Error != nil:
		a.stats.IncrementFailure(res.File)
		s.Error = res.Error.Error()
		util.LogWarn(fmt.Sprintf("Failed to load %s: %v", res.File, res.Error))
	default:
		a.stats.IncrementLoaded()
	}
	return s
}

func (a *Analyzer) sortSummaries(data []formatter.ScriptSummary) {
	var less func(x, y formatter.ScriptSummary) bool
	switch a.config.SortBy {
	case "actions":
		less = func(x, y formatter.ScriptSummary) bool { return x.Actions > y.Actions }
	case "duration":
		less = func(x, y formatter.ScriptSummary) bool { return x.DurationMs > y.DurationMs }
	case "speed":
		less = func(x, y formatter.ScriptSummary) bool { return x.AvgSpeed > y.AvgSpeed }
	default:
		less = func(x, y formatter.ScriptSummary) bool { return false }
	}
	sort.SliceStable(data, func(i, j int) bool { return data[i].Path < data[j].Path })
	sort.SliceStable(data, func(i, j int) bool { return less(data[i], data[j]) })
}
