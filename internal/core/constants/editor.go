package constants

import "time"

const (
	// Heatmap aggregation
	HeatmapKernel       = 5 * time.Second
	HeatmapKernelMs     = int64(HeatmapKernel / time.Millisecond)
	HeatmapMaxActions   = 24.5
	DefaultHeatmapWidth = 80

	// Timeline editing
	DefaultFrameTimeMs       = 1000.0 / 30.0
	DefaultPasteToleranceMs  = DefaultFrameTimeMs
	DefaultSelectToleranceMs = 1000.0 / 60.0

	// History
	DefaultMaxUndoEntries = 1000

	// Rolling backups
	DefaultBackupKeep   = 5
	BackupDirName       = "backup"
	BackupTimestampForm = "2006-01-02_15-04-05"

	// Event handoff between goroutines and the editor loop
	EventQueueSize = 64
)
