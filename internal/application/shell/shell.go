// Package shell is a line-oriented front end for the editor: it reads one
// command per line, applies it and prints the result.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-funscripter/internal/application/editor"
	"github.com/penwyp/go-funscripter/internal/core/model"
	"github.com/penwyp/go-funscripter/internal/data/watcher"
	"github.com/penwyp/go-funscripter/internal/presentation/display"
	"github.com/penwyp/go-funscripter/internal/presentation/layout"
	"github.com/penwyp/go-funscripter/internal/util"
)

// Shell owns an editor and drives it from text input.
type Shell struct {
	editor  *editor.Editor
	clock   *editor.ManualClock
	in      io.Reader
	out     io.Writer
	logger  util.LoggerInterface
	sizer   *layout.Sizer
	watcher *watcher.FileWatcher
	prompt  bool

	// quitArmed is set after a refused quit with unsaved changes.
	quitArmed      bool
	warnedExternal bool
}

// Option configures a Shell.
type Option func(*Shell)

func WithLogger(l util.LoggerInterface) Option {
	return func(s *Shell) { s.logger = l }
}

func WithSizer(sz *layout.Sizer) Option {
	return func(s *Shell) { s.sizer = sz }
}

// WithPrompt prints a status prompt before each command.
func WithPrompt(enabled bool) Option {
	return func(s *Shell) { s.prompt = enabled }
}

// New creates a shell over ed, which must run on clock.
func New(ed *editor.Editor, clock *editor.ManualClock, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		editor: ed,
		clock:  clock,
		in:     in,
		out:    out,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = util.OrGlobal(s.logger)
	if s.sizer == nil {
		s.sizer = layout.NewSizer()
	}
	return s
}

// Watch reports external changes to path through the editor's event queue.
func (s *Shell) Watch(path string) error {
	if s.watcher != nil {
		s.watcher.Close()
	}
	w, err := watcher.NewFileWatcher([]string{path}, s.logger)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	s.watcher = w
	return nil
}

// Run processes input until it ends, quit is entered or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	defer s.Close()

	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	s.printPrompt()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-s.fileEvents():
			if !ok {
				s.Close()
				continue
			}
			s.editor.Post(editor.FileChangedEvent{FileEvent: ev})

		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			s.editor.Pump()
			if s.Execute(line) {
				return nil
			}
			s.printPrompt()
		}
	}
}

// fileEvents is nil, and so never ready, until a file is watched.
func (s *Shell) fileEvents() <-chan model.FileEvent {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Events()
}

// Execute runs one command line and reports whether the shell should exit.
func (s *Shell) Execute(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return false
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	if name != "quit" && name != "q" {
		s.quitArmed = false
	}
	cmd, ok := commandTable[name]
	if !ok {
		s.printf("unknown command %q, try help\n", name)
		return false
	}
	quit, err := cmd.run(s, args)
	if err != nil {
		s.printf("error: %v\n", err)
		s.logger.Debug("shell command failed", util.F("command", name), util.F("error", err.Error()))
	}
	s.editor.Pump()
	switch external := s.editor.ExternalChange(); {
	case external && !s.warnedExternal:
		s.printf("%s\n", util.FormatWarning("the script changed on disk, open it again to reload"))
		s.warnedExternal = true
	case !external:
		s.warnedExternal = false
	}
	return quit
}

// Close stops the file watcher.
func (s *Shell) Close() {
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}

func (s *Shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) printPrompt() {
	if !s.prompt {
		return
	}
	tl := s.editor.Timeline()
	s.printf("%s> ", display.StatusLine(s.clock.CurrentPositionMs(), tl.Len(), tl.SelectionLen(), s.editor.Dirty()))
}
