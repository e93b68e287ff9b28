package shell

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/penwyp/go-funscripter/internal/application/editor"
	"github.com/penwyp/go-funscripter/internal/core/model"
	"github.com/penwyp/go-funscripter/internal/presentation/display"
	"github.com/penwyp/go-funscripter/internal/presentation/formatter"
	"github.com/penwyp/go-funscripter/internal/util"
)

var errUsage = errors.New("wrong arguments")

type command struct {
	usage string
	help  string
	run   func(s *Shell, args []string) (quit bool, err error)
}

var commandTable map[string]command

func init() {
	commandTable = map[string]command{
		"help":    {"help", "list commands", cmdHelp},
		"open":    {"open PATH", "open a script or the script of a video", cmdOpen},
		"save":    {"save [PATH]", "save the script, optionally under a new name", cmdSave},
		"seek":    {"seek TIME", "move the cursor (ms, 1.5s or 00:01:02.500)", cmdSeek},
		"step":    {"step [FRAMES]", "move the cursor by frames", cmdStep},
		"next":    {"next", "jump to the next action", cmdNext},
		"prev":    {"prev", "jump to the previous action", cmdPrev},
		"add":     {"add POS", "add or edit the action at the cursor", cmdAdd},
		"rm":      {"rm", "remove the selection or the action at the cursor", cmdRemove},
		"select":  {"select all|none|at|FROM TO", "change the selection", cmdSelect},
		"top":     {"top", "keep only the top points of the selection", cmdTop},
		"bottom":  {"bottom", "keep only the bottom points of the selection", cmdBottom},
		"move":    {"move FRAMES", "move the selection in time", cmdMove},
		"nudge":   {"nudge DELTA", "move the selection in position", cmdNudge},
		"copy":    {"copy", "copy the selection", cmdCopy},
		"cut":     {"cut", "cut the selection", cmdCut},
		"paste":   {"paste", "paste at the cursor", cmdPaste},
		"undo":    {"undo [N]", "undo the last changes", cmdUndo},
		"redo":    {"redo [N]", "redo undone changes", cmdRedo},
		"undoto":  {"undoto ID", "undo up to a history entry", cmdUndoTo},
		"history": {"history", "show the undo history", cmdHistory},
		"list":    {"list [N]", "list the actions around the cursor", cmdList},
		"stats":   {"stats", "show the stroke at the cursor", cmdStats},
		"heatmap": {"heatmap", "draw the heatmap", cmdHeatmap},
		"quit":    {"quit", "exit, twice to discard unsaved changes", cmdQuit},
	}
	commandTable["q"] = commandTable["quit"]
}

func cmdHelp(s *Shell, _ []string) (bool, error) {
	names := make([]string, 0, len(commandTable))
	width := 0
	for name, c := range commandTable {
		if name != "q" {
			names = append(names, name)
		}
		if w := len(c.usage); w > width {
			width = w
		}
	}
	sort.Strings(names)
	for _, name := range names {
		c := commandTable[name]
		s.printf("  %s  %s\n", util.PadRight(c.usage, width), c.help)
	}
	return false, nil
}

func cmdOpen(s *Shell, args []string) (bool, error) {
	if len(args) != 1 {
		return false, errUsage
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return false, err
	}
	if !s.editor.Post(editor.OpenEvent{Path: path}) {
		return false, fmt.Errorf("editor busy")
	}
	s.editor.Pump()
	tl := s.editor.Timeline()
	s.printf("opened %s (%d actions)\n", tl.Path(), tl.Len())
	if v := s.editor.VideoPath(); v != "" {
		s.printf("video %s\n", v)
	}
	if tl.Path() != "" {
		if err := s.Watch(tl.Path()); err != nil {
			s.logger.Warn("file watch unavailable", util.F("error", err.Error()))
		}
	}
	return false, nil
}

func cmdSave(s *Shell, args []string) (bool, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	if err := s.editor.Save(path); err != nil {
		return false, err
	}
	s.printf("saved %s\n", s.editor.Timeline().Path())
	return false, nil
}

func cmdSeek(s *Shell, args []string) (bool, error) {
	if len(args) != 1 {
		return false, errUsage
	}
	ms, err := util.ParseTimestampMs(args[0])
	if err != nil {
		return false, err
	}
	s.clock.Seek(ms)
	return false, nil
}

func cmdStep(s *Shell, args []string) (bool, error) {
	n, err := optionalInt(args, 1)
	if err != nil {
		return false, err
	}
	s.clock.StepFrames(n)
	return false, nil
}

func cmdNext(s *Shell, _ []string) (bool, error) {
	if a, ok := s.editor.JumpNextAction(); ok {
		s.printf("%s %s\n", util.FormatTimestampMs(float64(a.At)), a)
	}
	return false, nil
}

func cmdPrev(s *Shell, _ []string) (bool, error) {
	if a, ok := s.editor.JumpPrevAction(); ok {
		s.printf("%s %s\n", util.FormatTimestampMs(float64(a.At)), a)
	}
	return false, nil
}

func cmdAdd(s *Shell, args []string) (bool, error) {
	if len(args) != 1 {
		return false, errUsage
	}
	pos, err := strconv.Atoi(args[0])
	if err != nil {
		return false, err
	}
	candidate := model.Action{At: int64(math.Round(s.clock.CurrentPositionMs())), Pos: int32(pos)}
	if err := candidate.Validate(); err != nil {
		return false, err
	}
	a, ok := s.editor.AddEditAction(candidate.Pos)
	if !ok {
		return false, model.ErrInvalidAction
	}
	s.printf("set %s\n", a)
	return false, nil
}

func cmdRemove(s *Shell, _ []string) (bool, error) {
	s.printf("removed %d\n", s.editor.RemoveAction())
	return false, nil
}

func cmdSelect(s *Shell, args []string) (bool, error) {
	tl := s.editor.Timeline()
	switch {
	case len(args) == 1 && args[0] == "all":
		tl.SelectAll()
	case len(args) == 1 && args[0] == "none":
		tl.ClearSelection()
	case len(args) == 1 && args[0] == "at":
		a, ok := tl.GetActionAtTime(s.clock.CurrentPositionMs(), s.clock.FrameTimeMs())
		if !ok {
			return false, fmt.Errorf("no action at the cursor")
		}
		tl.SelectAction(a)
	case len(args) == 2:
		from, err := util.ParseTimestampMs(args[0])
		if err != nil {
			return false, err
		}
		to, err := util.ParseTimestampMs(args[1])
		if err != nil {
			return false, err
		}
		tl.SelectTime(int64(math.Round(from)), int64(math.Round(to)))
	default:
		return false, errUsage
	}
	s.printf("%d selected\n", tl.SelectionLen())
	return false, nil
}

func cmdTop(s *Shell, _ []string) (bool, error) {
	s.printf("%d selected\n", s.editor.SelectTopOnly())
	return false, nil
}

func cmdBottom(s *Shell, _ []string) (bool, error) {
	s.printf("%d selected\n", s.editor.SelectBottomOnly())
	return false, nil
}

func cmdMove(s *Shell, args []string) (bool, error) {
	n, err := optionalInt(args, 0)
	if err != nil || len(args) != 1 {
		return false, errUsage
	}
	s.printf("moved by %d ms\n", s.editor.MoveSelectionTime(n))
	return false, nil
}

func cmdNudge(s *Shell, args []string) (bool, error) {
	n, err := optionalInt(args, 0)
	if err != nil || len(args) != 1 {
		return false, errUsage
	}
	s.printf("moved %d\n", s.editor.MoveSelectionPosition(int32(n)))
	return false, nil
}

func cmdCopy(s *Shell, _ []string) (bool, error) {
	s.printf("copied %d\n", s.editor.Copy())
	return false, nil
}

func cmdCut(s *Shell, _ []string) (bool, error) {
	s.printf("cut %d\n", s.editor.Cut())
	return false, nil
}

func cmdPaste(s *Shell, _ []string) (bool, error) {
	s.printf("pasted %d\n", s.editor.Paste())
	return false, nil
}

func cmdUndo(s *Shell, args []string) (bool, error) {
	n, err := optionalInt(args, 1)
	if err != nil {
		return false, err
	}
	done := 0
	for done < n && s.editor.Undo() {
		done++
	}
	s.printf("undone %d\n", done)
	return false, nil
}

func cmdRedo(s *Shell, args []string) (bool, error) {
	n, err := optionalInt(args, 1)
	if err != nil {
		return false, err
	}
	done := 0
	for done < n && s.editor.Redo() {
		done++
	}
	s.printf("redone %d\n", done)
	return false, nil
}

func cmdUndoTo(s *Shell, args []string) (bool, error) {
	if len(args) != 1 {
		return false, errUsage
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return false, err
	}
	n := s.editor.UndoTo(id)
	if n == 0 {
		return false, fmt.Errorf("no undo entry %s", id)
	}
	s.printf("undone %d\n", n)
	return false, nil
}

func cmdHistory(s *Shell, _ []string) (bool, error) {
	return false, formatter.FormatHistory(s.out, s.editor.History().Summary())
}

func cmdList(s *Shell, args []string) (bool, error) {
	n, err := optionalInt(args, 5)
	if err != nil {
		return false, err
	}
	tl := s.editor.Timeline()
	actions := tl.Actions()
	cursor := s.clock.CurrentPositionMs()
	center := sort.Search(len(actions), func(i int) bool { return float64(actions[i].At) >= cursor })
	from, to := max(0, center-n), min(len(actions), center+n)
	for _, a := range actions[from:to] {
		mark := " "
		if tl.IsSelected(a) {
			mark = "*"
		}
		s.printf("%s %s %3d\n", mark, util.FormatTimestampMs(float64(a.At)), a.Pos)
	}
	return false, nil
}

func cmdStats(s *Shell, _ []string) (bool, error) {
	s.printf("%s", display.StatsBlock(s.editor.Stats()))
	return false, nil
}

func cmdHeatmap(s *Shell, _ []string) (bool, error) {
	width := s.sizer.Width()
	duration := s.clock.DurationMs()
	if duration <= 0 {
		if actions := s.editor.Timeline().Actions(); len(actions) > 0 {
			duration = float64(actions[len(actions)-1].At)
		}
	}
	s.printf("%s\n", display.HeatmapBar(s.editor.Heatmap(), width))
	s.printf("%s\n", display.CursorLine(s.clock.CurrentPositionMs(), duration, width))
	s.printf("%s\n", display.TimeAxis(duration, width))
	return false, nil
}

func cmdQuit(s *Shell, _ []string) (bool, error) {
	if s.editor.Dirty() && !s.quitArmed {
		s.quitArmed = true
		s.printf("%s\n", util.FormatWarning("unsaved changes, quit again to discard them"))
		return false, nil
	}
	return true, nil
}

func optionalInt(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	if len(args) > 1 {
		return 0, errUsage
	}
	n, err := strconv.Atoi(strings.TrimPrefix(args[0], "+"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errUsage, args[0])
	}
	return n, nil
}
