package analyzer

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/penwyp/go-funscripter/internal/util"
)

// LoadStats counts load outcomes. It is safe for concurrent use.
type LoadStats struct {
	loaded   int64
	partial  int64
	failures int64
	mu       sync.Mutex
	failed   []string
}

func NewLoadStats() *LoadStats {
	return &LoadStats{}
}

func (s *LoadStats) IncrementLoaded() {
	atomic.AddInt64(&s.loaded, 1)
}

// IncrementPartial records a script read with errors.
func (s *LoadStats) IncrementPartial(path string) {
	atomic.AddInt64(&s.partial, 1)
	s.record(path)
}

// IncrementFailure records a script that could not be read at all.
func (s *LoadStats) IncrementFailure(path string) {
	atomic.AddInt64(&s.failures, 1)
	s.record(path)
}

func (s *LoadStats) record(path string) {
	s.mu.Lock()
	s.failed = append(s.failed, path)
	s.mu.Unlock()
}

func (s *LoadStats) Total() int64 {
	return atomic.LoadInt64(&s.loaded) + atomic.LoadInt64(&s.partial) + atomic.LoadInt64(&s.failures)
}

func (s *LoadStats) Loaded() int64   { return atomic.LoadInt64(&s.loaded) }
func (s *LoadStats) Partial() int64  { return atomic.LoadInt64(&s.partial) }
func (s *LoadStats) Failures() int64 { return atomic.LoadInt64(&s.failures) }

// Failed returns the paths that were not fully loaded.
func (s *LoadStats) Failed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.failed...)
}

// LogFinal writes the counters to the debug log.
func (s *LoadStats) LogFinal() {
	util.LogDebug(fmt.Sprintf("Load statistics: total %d, loaded %d, partial %d, failed %d",
		s.Total(), s.Loaded(), s.Partial(), s.Failures()))
	for _, path := range s.Failed() {
		util.LogDebug(fmt.Sprintf("  not fully loaded: %s", path))
	}
}
