// Package cache keeps loaded scripts in memory and drops an entry as soon
// as the file behind it changes on disk.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/penwyp/go-funscripter/internal/core/model"
	"github.com/penwyp/go-funscripter/internal/data/store"
	"github.com/penwyp/go-funscripter/internal/util"
)

// Files older than this are trusted on metadata alone.
const deepCheckWindow = 48 * time.Hour

// Result is the outcome of a lookup. Reason tells why a cached entry was
// dropped; it is store.Unchanged on a hit and when nothing was cached.
type Result struct {
	Script *model.Funscript
	Found  bool
	Reason store.ChangeReason
}

type entry struct {
	script *model.Funscript
	stamp  *store.Stamp
}

// ScriptCache maps file paths to the scripts loaded from them.
type ScriptCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

func NewScriptCache() *ScriptCache {
	return &ScriptCache{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Get returns the cached script for path if the file still matches the
// version it was loaded from.
func (c *ScriptCache) Get(path string) Result {
	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if !ok {
		return Result{}
	}

	if reason := c.validate(e.stamp); reason != store.Unchanged {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: %s changed", path, reason))
		c.Invalidate(path)
		return Result{Reason: reason}
	}
	return Result{Script: e.script, Found: true}
}

func (c *ScriptCache) validate(stamp *store.Stamp) store.ChangeReason {
	deep := c.now().Sub(time.Unix(0, stamp.Info.ModTime)) < deepCheckWindow
	return stamp.Check(deep)
}

// Set stamps the file at path and caches script against that version.
func (c *ScriptCache) Set(path string, script *model.Funscript) error {
	stamp, err := store.TakeStamp(path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[path] = &entry{script: script, stamp: stamp}
	c.mu.Unlock()
	return nil
}

func (c *ScriptCache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

func (c *ScriptCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
}

func (c *ScriptCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// BatchValidate checks many paths at once. Paths that are not cached are
// reported as store.ChangeMissing; stale entries are dropped.
func (c *ScriptCache) BatchValidate(paths []string) map[string]store.ChangeReason {
	result := make(map[string]store.ChangeReason, len(paths))
	valid := 0
	for _, path := range paths {
		c.mu.RLock()
		e, ok := c.entries[path]
		c.mu.RUnlock()
		if !ok {
			result[path] = store.ChangeMissing
			continue
		}
		reason := c.validate(e.stamp)
		if reason != store.Unchanged {
			c.Invalidate(path)
		} else {
			valid++
		}
		result[path] = reason
	}

	util.LogDebug(fmt.Sprintf("Batch validation complete: %d files, %d valid", len(paths), valid))
	return result
}
