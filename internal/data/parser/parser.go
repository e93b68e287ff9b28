// Package parser loads many scripts concurrently.
package parser

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/penwyp/go-funscripter/internal/core/model"
	"github.com/penwyp/go-funscripter/internal/core/serializer"
	"github.com/penwyp/go-funscripter/internal/data/cache"
	"github.com/penwyp/go-funscripter/internal/data/store"
	"github.com/penwyp/go-funscripter/internal/util"
)

// Parser loads scripts with bounded concurrency. Successful loads are
// cached until the file changes.
type Parser struct {
	concurrency int
	store       *store.Store
	cache       *cache.ScriptCache
}

// ParseResult is the outcome of loading a single file. Script may be set
// together with Error when the file was only partially read.
type ParseResult struct {
	File   string
	Script *model.Funscript
	Report serializer.Report
	Error  error
}

// NewParser creates a Parser. A concurrency below 1 means one per CPU.
func NewParser(concurrency int, logger util.LoggerInterface) *Parser {
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}
	return &Parser{
		concurrency: concurrency,
		store:       store.New(logger),
		cache:       cache.NewScriptCache(),
	}
}

// ParseFile loads the script at path.
func (p *Parser) ParseFile(path string) ParseResult {
	if cached := p.cache.Get(path); cached.Found {
		return ParseResult{File: path, Script: cached.Script}
	}

	script, rep, err := p.store.LoadFunscript(path)
	if err == nil {
		if cerr := p.cache.Set(path, script); cerr != nil {
			util.LogDebug(fmt.Sprintf("Not caching %s: %v", path, cerr))
		}
	}
	return ParseResult{File: path, Script: script, Report: rep, Error: err}
}

// ParseFiles loads files concurrently. Results arrive in completion order;
// the channel is closed once every file is done or ctx is cancelled.
func (p *Parser) ParseFiles(ctx context.Context, files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))

	util.LogDebug(fmt.Sprintf("Start concurrent parsing of %d files, concurrency: %d", len(files), p.concurrency))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	go func() {
		for _, file := range files {
			file := file
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				fileStart := time.Now()
				res := p.ParseFile(file)
				if res.Error != nil {
					util.LogDebug(fmt.Sprintf("File parsing failed: %s, duration %v - %v", file, time.Since(fileStart), res.Error))
				}
				results <- res
				return nil
			})
		}
		_ = g.Wait()
		close(results)
		util.LogDebug(fmt.Sprintf("Concurrent parsing finished, total duration: %v", time.Since(start)))
	}()
	return results
}
